package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Renal37/karigar-desk/internal/database"
	"github.com/Renal37/karigar-desk/internal/design"
	"github.com/Renal37/karigar-desk/internal/logger"
	"github.com/Renal37/karigar-desk/internal/mapping"
	"github.com/Renal37/karigar-desk/internal/models"
	"go.uber.org/zap"
)

var (
	ErrDuplicateKarigar = errors.New("такой каригар уже есть")
)

// MappingService ведёт справочник дизайнов и каригаров.
// Разрешение отдельных кодов идёт через кэш, который сбрасывается по изменённому коду.
type MappingService struct {
	storage mappingStorage
	cache   *mapping.Cache
}

type mappingStorage interface {
	FindDesignMappings(ctx context.Context) ([]database.DesignMappingDB, error)
	FindDesignMapping(ctx context.Context, code string) (*database.DesignMappingDB, error)
	UpsertDesignMapping(ctx context.Context, mapping database.DesignMappingDB) error
	UpsertDesignMappings(ctx context.Context, mappings []database.DesignMappingDB, karigars []string) error
	FindOrders(ctx context.Context, filter models.OrderFilter) ([]database.OrderDB, error)
	CreateKarigar(ctx context.Context, name string) error
	FindKarigars(ctx context.Context) ([]database.KarigarDB, error)
}

func NewMappingService(storage mappingStorage, cacheSize int) (*MappingService, error) {
	service := &MappingService{storage: storage}

	cache, err := mapping.NewCache(cacheSize, service.load)
	if err != nil {
		return nil, err
	}
	service.cache = cache

	return service, nil
}

func (ms *MappingService) load(ctx context.Context, code string) (*models.DesignMapping, error) {
	row, err := ms.storage.FindDesignMapping(ctx, code)
	if err != nil || row == nil {
		return nil, err
	}
	m := mappingFromDB(*row)
	return &m, nil
}

// GetMappings возвращает весь справочник по коду.
func (ms *MappingService) GetMappings(ctx context.Context) ([]models.DesignMapping, error) {
	rows, err := ms.storage.FindDesignMappings(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.DesignMapping, len(rows))
	for i, row := range rows {
		result[i] = mappingFromDB(row)
	}
	return result, nil
}

// Table снимок справочника для обогащения многих заказов сразу.
func (ms *MappingService) Table(ctx context.Context) (*mapping.Table, error) {
	mappings, err := ms.GetMappings(ctx)
	if err != nil {
		return nil, err
	}
	return mapping.NewTable(mappings), nil
}

// Resolve разрешает один код через кэш.
func (ms *MappingService) Resolve(ctx context.Context, code string) (mapping.Resolution, error) {
	return ms.cache.Resolve(ctx, code)
}

// Lookup сообщает, есть ли код в справочнике.
func (ms *MappingService) Lookup(ctx context.Context, code string) (models.DesignMapping, bool, error) {
	return ms.cache.Get(ctx, code)
}

// UpsertMapping сохраняет одну запись справочника. Код нормализуется.
func (ms *MappingService) UpsertMapping(ctx context.Context, m models.DesignMapping) (models.DesignMapping, error) {
	m = cleanMapping(m)
	if err := validateStruct(m); err != nil {
		return models.DesignMapping{}, err
	}

	if err := ms.storage.UpsertDesignMapping(ctx, mappingToDB(m)); err != nil {
		return models.DesignMapping{}, err
	}
	ms.cache.Invalidate(m.DesignCode)

	logger.Log.Info("дизайн сохранён",
		zap.String("design", m.DesignCode),
		zap.String("genericName", m.GenericName),
		zap.String("karigar", m.KarigarName),
	)
	return m, nil
}

// SaveMappings сохраняет загруженный справочник. При повторе кода побеждает последняя строка.
func (ms *MappingService) SaveMappings(ctx context.Context, mappings []models.DesignMapping) (int, error) {
	index := make(map[string]int, len(mappings))
	rows := make([]database.DesignMappingDB, 0, len(mappings))
	seen := make(map[string]struct{})
	var karigars []string
	for _, m := range mappings {
		m = cleanMapping(m)
		if m.DesignCode == "" {
			continue
		}
		// мастер из перезаписанной строки всё равно попадает в список
		if _, ok := seen[m.KarigarName]; !ok && m.KarigarName != "" {
			seen[m.KarigarName] = struct{}{}
			karigars = append(karigars, m.KarigarName)
		}
		if i, ok := index[m.DesignCode]; ok {
			rows[i] = mappingToDB(m)
			continue
		}
		index[m.DesignCode] = len(rows)
		rows = append(rows, mappingToDB(m))
	}

	if err := ms.storage.UpsertDesignMappings(ctx, rows, karigars); err != nil {
		return 0, err
	}
	for _, row := range rows {
		ms.cache.Invalidate(row.DesignCode)
	}

	logger.Log.Info("справочник дизайнов загружен", zap.Int("count", len(rows)))
	return len(rows), nil
}

// UnmappedReport группирует заказы без названия или каригара по дизайну.
func (ms *MappingService) UnmappedReport(ctx context.Context, filter models.OrderFilter) ([]models.UnmappedGroup, error) {
	rows, err := ms.storage.FindOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	table, err := ms.Table(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, len(rows))
	for i, row := range rows {
		orders[i] = orderFromDB(row)
	}
	return table.UnmappedReport(orders), nil
}

func (ms *MappingService) GetKarigars(ctx context.Context) ([]models.Karigar, error) {
	rows, err := ms.storage.FindKarigars(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.Karigar, len(rows))
	for i, row := range rows {
		result[i] = models.Karigar{Name: row.Name}
	}
	return result, nil
}

func (ms *MappingService) AddKarigar(ctx context.Context, karigar models.Karigar) error {
	karigar.Name = strings.TrimSpace(karigar.Name)
	if err := validateStruct(karigar); err != nil {
		return err
	}

	if err := ms.storage.CreateKarigar(ctx, karigar.Name); err != nil {
		if errors.Is(err, database.ErrDuplicateKarigar) {
			return fmt.Errorf("%w: %s", ErrDuplicateKarigar, karigar.Name)
		}
		return err
	}
	return nil
}

func cleanMapping(m models.DesignMapping) models.DesignMapping {
	return models.DesignMapping{
		DesignCode:  design.Normalize(m.DesignCode),
		GenericName: strings.TrimSpace(m.GenericName),
		KarigarName: strings.TrimSpace(m.KarigarName),
	}
}
