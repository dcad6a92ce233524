package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateKarigar = errors.New("каригар уже существует")
)

const (
	InsertKarigarQuery = `
		INSERT INTO
			karigars (name)
		VALUES ($1)
	`
	InsertKarigarIgnoreQuery = `
		INSERT INTO
			karigars (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
	`
	SelectKarigarsQuery = `
		SELECT
			name,
			created_at
		FROM
			karigars
		ORDER BY
			name
	`
)

type KarigarDB struct {
	Name      string
	CreatedAt time.Time
}

// CreateKarigar добавляет каригара. Повтор имени возвращает ErrDuplicateKarigar.
func (d *Database) CreateKarigar(ctx context.Context, name string) error {
	if _, err := d.db.Exec(ctx, InsertKarigarQuery, name); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateKarigar
		}
		return fmt.Errorf("ошибка при создании каригара: %w", err)
	}
	return nil
}

// FindKarigars возвращает всех каригаров по алфавиту.
func (d *Database) FindKarigars(ctx context.Context) ([]KarigarDB, error) {
	rows, err := d.db.Query(ctx, SelectKarigarsQuery)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каригаров: %w", err)
	}
	defer rows.Close()

	result := []KarigarDB{}
	for rows.Next() {
		var item KarigarDB
		if err := rows.Scan(&item.Name, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка обработки строки каригара: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по строкам: %w", err)
	}

	return result, nil
}

// registerKarigar добавляет каригара, если его ещё нет.
func registerKarigar(ctx context.Context, exec DBExecutor, name string) error {
	if _, err := exec.Exec(ctx, InsertKarigarIgnoreQuery, name); err != nil {
		return fmt.Errorf("ошибка регистрации каригара %s: %w", name, err)
	}
	return nil
}
