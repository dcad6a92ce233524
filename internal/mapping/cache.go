package mapping

import (
	"context"
	"fmt"

	"github.com/Renal37/karigar-desk/internal/design"
	"github.com/Renal37/karigar-desk/internal/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 1024

// Loader достаёт запись справочника из хранилища. nil без ошибки означает, что кода нет.
type Loader func(ctx context.Context, code string) (*models.DesignMapping, error)

type entry struct {
	mapping models.DesignMapping
	found   bool
}

// Cache кэширует разрешение кодов, в том числе отсутствие записи.
// Изменение справочника сбрасывает только затронутый код.
type Cache struct {
	load  Loader
	items *lru.Cache[string, entry]
}

func NewCache(size int, load Loader) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	items, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать кэш справочника: %w", err)
	}
	return &Cache{load: load, items: items}, nil
}

// Resolve возвращает разрешение кода, обращаясь к хранилищу только при промахе.
func (c *Cache) Resolve(ctx context.Context, code string) (Resolution, error) {
	m, found, err := c.Get(ctx, code)
	if err != nil || !found {
		return Resolution{}, err
	}
	return Resolution{
		GenericName: models.StringPtr(m.GenericName),
		KarigarName: models.StringPtr(m.KarigarName),
	}, nil
}

func (c *Cache) Get(ctx context.Context, code string) (models.DesignMapping, bool, error) {
	key := design.Normalize(code)
	if key == "" {
		return models.DesignMapping{}, false, nil
	}
	if cached, ok := c.items.Get(key); ok {
		return cached.mapping, cached.found, nil
	}

	m, err := c.load(ctx, key)
	if err != nil {
		return models.DesignMapping{}, false, fmt.Errorf("не удалось загрузить дизайн %s: %w", key, err)
	}

	var e entry
	if m != nil {
		e = entry{mapping: *m, found: true}
	}
	c.items.Add(key, e)
	return e.mapping, e.found, nil
}

// Invalidate забывает один код.
func (c *Cache) Invalidate(code string) {
	c.items.Remove(design.Normalize(code))
}

func (c *Cache) Len() int {
	return c.items.Len()
}
