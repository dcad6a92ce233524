package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateOrder = errors.New("заказ уже существует")
	// ErrOrderChanged заказ сменил статус между чтением и записью.
	ErrOrderChanged = errors.New("заказ был изменён другим запросом")
)

const orderColumns = `
	o.order_id,
	o.order_no,
	o.order_type,
	o.product,
	o.design,
	o.weight,
	o.size,
	o.quantity,
	o.remarks,
	o.status,
	o.generic_name,
	o.karigar_name,
	o.order_date,
	o.created_at,
	o.updated_at
`

const (
	UpsertOrderQuery = `
		INSERT INTO
			orders (order_id, order_no, order_type, product, design, weight, size, quantity,
			        remarks, status, generic_name, karigar_name, order_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (order_id) DO UPDATE SET
			order_no = EXCLUDED.order_no,
			order_type = EXCLUDED.order_type,
			product = EXCLUDED.product,
			design = EXCLUDED.design,
			weight = EXCLUDED.weight,
			size = EXCLUDED.size,
			quantity = EXCLUDED.quantity,
			remarks = EXCLUDED.remarks,
			status = EXCLUDED.status,
			generic_name = EXCLUDED.generic_name,
			karigar_name = EXCLUDED.karigar_name,
			order_date = EXCLUDED.order_date,
			updated_at = EXCLUDED.updated_at
	`
	InsertOrderQuery = `
		INSERT INTO
			orders (order_id, order_no, order_type, product, design, weight, size, quantity,
			        remarks, status, generic_name, karigar_name, order_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	SelectOrderQuery = `
		SELECT` + orderColumns + `
		FROM
			orders o
		WHERE
			o.order_id = $1
	`
	// Поиск идёт и по названию из справочника, потому что в заказе его обычно нет.
	SelectOrdersQuery = `
		SELECT` + orderColumns + `
		FROM
			orders o
			LEFT JOIN design_mappings m ON m.design_code = o.design
		WHERE
			($1::text[] IS NULL OR o.status = ANY($1))
			AND ($2::text[] IS NULL OR o.order_type = ANY($2))
			AND (
				$3::text = ''
				OR o.order_no ILIKE $3
				OR o.product ILIKE $3
				OR o.design ILIKE $3
				OR o.remarks ILIKE $3
				OR coalesce(o.generic_name, m.generic_name, '') ILIKE $3
				OR coalesce(o.karigar_name, m.karigar_name, '') ILIKE $3
			)
		ORDER BY
			o.created_at, o.order_id
	`
	UpdateOrderTransitionQuery = `
		UPDATE
			orders
		SET
			status = $3,
			quantity = $4,
			karigar_name = $5,
			updated_at = $6
		WHERE
			order_id = $1 AND status = $2
	`
	DeleteOrdersByStatusQuery = `
		DELETE FROM
			orders
		WHERE
			status = ANY($1)
	`
)

// OrderDB строка таблицы orders.
type OrderDB struct {
	ID          string
	OrderNo     string
	OrderType   string
	Product     string
	Design      string
	Weight      float64
	Size        float64
	Quantity    int64
	Remarks     string
	Status      OrderStatusDB
	GenericName *string
	KarigarName *string
	OrderDate   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderStatusDB статус заказа с преобразованием в/из базы данных.
type OrderStatusDB struct {
	models.OrderStatus
}

// Scan реализует sql.Scanner.
func (s *OrderStatusDB) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("статус заказа должен быть строкой, а не %T", value)
	}

	status := models.OrderStatus(strVal)
	if !status.Valid() {
		return fmt.Errorf("неизвестный статус заказа %q", strVal)
	}

	*s = OrderStatusDB{status}
	return nil
}

// Value реализует driver.Valuer.
func (s OrderStatusDB) Value() (driver.Value, error) {
	return string(s.OrderStatus), nil
}

func (o *OrderDB) args() []interface{} {
	return []interface{}{
		o.ID, o.OrderNo, o.OrderType, o.Product, o.Design, o.Weight, o.Size, o.Quantity,
		o.Remarks, o.Status, o.GenericName, o.KarigarName, o.OrderDate, o.CreatedAt, o.UpdatedAt,
	}
}

func scanOrder(row pgx.Row) (OrderDB, error) {
	var o OrderDB
	err := row.Scan(
		&o.ID, &o.OrderNo, &o.OrderType, &o.Product, &o.Design, &o.Weight, &o.Size, &o.Quantity,
		&o.Remarks, &o.Status, &o.GenericName, &o.KarigarName, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// UpsertOrder создаёт заказ или перезаписывает его по order_id.
func (d *Database) UpsertOrder(ctx context.Context, order OrderDB) error {
	return d.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, UpsertOrderQuery, order.args()...); err != nil {
			return fmt.Errorf("ошибка сохранения заказа %s: %w", order.ID, err)
		}
		if order.KarigarName != nil {
			return registerKarigar(ctx, tx, *order.KarigarName)
		}
		return nil
	})
}

// FindOrder ищет заказ по идентификатору. Если заказа нет, возвращает nil без ошибки.
func (d *Database) FindOrder(ctx context.Context, orderID string) (*OrderDB, error) {
	order, err := scanOrder(d.db.QueryRow(ctx, SelectOrderQuery, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка поиска заказа: %w", err)
	}

	return &order, nil
}

// FindOrders возвращает заказы по фильтру в порядке создания.
func (d *Database) FindOrders(ctx context.Context, filter models.OrderFilter) ([]OrderDB, error) {
	var statuses, types []string
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}
	for _, t := range filter.Types {
		types = append(types, string(t))
	}

	rows, err := d.db.Query(ctx, SelectOrdersQuery, statuses, types, likePattern(filter.Search))
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска заказов: %w", err)
	}
	defer rows.Close()

	result := []OrderDB{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка обработки строки с заказом: %w", err)
		}
		result = append(result, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по строкам: %w", err)
	}

	return result, nil
}

// SaveTransition в одной транзакции записывает новый статус заказа и, если есть, отделённый заказ.
// Обновление проходит только если статус в базе всё ещё prevStatus, иначе ErrOrderChanged.
func (d *Database) SaveTransition(ctx context.Context, prevStatus models.OrderStatus, updated OrderDB, created *OrderDB) error {
	return d.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, UpdateOrderTransitionQuery,
			updated.ID, string(prevStatus), updated.Status, updated.Quantity, updated.KarigarName, updated.UpdatedAt)
		if err != nil {
			return fmt.Errorf("ошибка обновления заказа %s: %w", updated.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrOrderChanged
		}

		if updated.KarigarName != nil {
			if err := registerKarigar(ctx, tx, *updated.KarigarName); err != nil {
				return err
			}
		}

		if created == nil {
			return nil
		}
		if err := insertOrder(ctx, tx, *created); err != nil {
			return err
		}
		if created.KarigarName != nil {
			return registerKarigar(ctx, tx, *created.KarigarName)
		}
		return nil
	})
}

func insertOrder(ctx context.Context, exec DBExecutor, order OrderDB) error {
	if _, err := exec.Exec(ctx, InsertOrderQuery, order.args()...); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("ошибка создания заказа %s: %w", order.ID, err)
	}
	return nil
}

// DeleteOrdersByStatus удаляет заказы с указанными статусами и возвращает их число.
func (d *Database) DeleteOrdersByStatus(ctx context.Context, statuses []models.OrderStatus) (int64, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	tag, err := d.db.Exec(ctx, DeleteOrdersByStatusQuery, values)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления заказов: %w", err)
	}
	return tag.RowsAffected(), nil
}

func likePattern(search string) string {
	search = strings.TrimSpace(search)
	if search == "" {
		return ""
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(search)
	return "%" + escaped + "%"
}
