package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateUser = errors.New("оператор с таким логином уже есть")
)

const (
	InsertOperatorQuery = `
		INSERT INTO
			operators (login, hash)
		VALUES ($1, $2)
		RETURNING id
	`
	SelectOperatorQuery = `
		SELECT
			id,
			login,
			hash
		FROM
			operators
		WHERE
			login = $1
	`
)

// UserDB учётная запись оператора.
type UserDB struct {
	models.User
}

// CreateUser создаёт оператора и возвращает его идентификатор.
func (d *Database) CreateUser(ctx context.Context, user UserDB) (string, error) {
	var id string
	err := d.db.QueryRow(ctx, InsertOperatorQuery, user.Login, user.Hash).Scan(&id)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return "", ErrDuplicateUser
		}
		return "", fmt.Errorf("ошибка при создании оператора %s: %w", user.Login, err)
	}
	return id, nil
}

// FindUser ищет оператора по логину. Если его нет, возвращает nil без ошибки.
func (d *Database) FindUser(ctx context.Context, login string) (*UserDB, error) {
	var user UserDB
	err := d.db.QueryRow(ctx, SelectOperatorQuery, login).Scan(&user.ID, &user.Login, &user.Hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении оператора %s: %w", login, err)
	}
	return &user, nil
}
