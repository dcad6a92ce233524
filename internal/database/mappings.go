package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	UpsertDesignMappingQuery = `
		INSERT INTO
			design_mappings (design_code, generic_name, karigar_name, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (design_code) DO UPDATE SET
			generic_name = EXCLUDED.generic_name,
			karigar_name = EXCLUDED.karigar_name,
			updated_at = EXCLUDED.updated_at
	`
	SelectDesignMappingsQuery = `
		SELECT
			design_code,
			generic_name,
			karigar_name,
			updated_at
		FROM
			design_mappings
		ORDER BY
			design_code
	`
	SelectDesignMappingQuery = `
		SELECT
			design_code,
			generic_name,
			karigar_name,
			updated_at
		FROM
			design_mappings
		WHERE
			design_code = $1
	`
)

// DesignMappingDB строка справочника дизайнов. Код хранится нормализованным.
type DesignMappingDB struct {
	DesignCode  string
	GenericName string
	KarigarName string
	UpdatedAt   time.Time
}

// FindDesignMappings возвращает весь справочник, отсортированный по коду.
func (d *Database) FindDesignMappings(ctx context.Context) ([]DesignMappingDB, error) {
	rows, err := d.db.Query(ctx, SelectDesignMappingsQuery)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения справочника дизайнов: %w", err)
	}
	defer rows.Close()

	result := []DesignMappingDB{}
	for rows.Next() {
		var item DesignMappingDB
		if err := rows.Scan(&item.DesignCode, &item.GenericName, &item.KarigarName, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка обработки строки справочника: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по строкам: %w", err)
	}

	return result, nil
}

// FindDesignMapping ищет запись по коду. Если записи нет, возвращает nil без ошибки.
func (d *Database) FindDesignMapping(ctx context.Context, code string) (*DesignMappingDB, error) {
	item := &DesignMappingDB{}

	err := d.db.QueryRow(ctx, SelectDesignMappingQuery, code).
		Scan(&item.DesignCode, &item.GenericName, &item.KarigarName, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка поиска дизайна %s: %w", code, err)
	}

	return item, nil
}

// UpsertDesignMapping сохраняет запись справочника и регистрирует её каригара.
func (d *Database) UpsertDesignMapping(ctx context.Context, mapping DesignMappingDB) error {
	return d.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, UpsertDesignMappingQuery, mapping.DesignCode, mapping.GenericName, mapping.KarigarName); err != nil {
			return fmt.Errorf("ошибка сохранения дизайна %s: %w", mapping.DesignCode, err)
		}
		if mapping.KarigarName == "" {
			return nil
		}
		return registerKarigar(ctx, tx, mapping.KarigarName)
	})
}

// UpsertDesignMappings сохраняет загруженный справочник одной транзакцией, пачкой запросов.
// karigars регистрируются отдельно: в файле могут быть мастера из перезаписанных строк.
func (d *Database) UpsertDesignMappings(ctx context.Context, mappings []DesignMappingDB, karigars []string) error {
	if len(mappings) == 0 && len(karigars) == 0 {
		return nil
	}

	return d.inTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, m := range mappings {
			batch.Queue(UpsertDesignMappingQuery, m.DesignCode, m.GenericName, m.KarigarName)
		}
		for _, name := range karigars {
			if name != "" {
				batch.Queue(InsertKarigarIgnoreQuery, name)
			}
		}

		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("ошибка сохранения справочника: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("ошибка сохранения справочника: %w", err)
		}
		return nil
	})
}
