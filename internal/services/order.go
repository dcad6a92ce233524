package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Renal37/karigar-desk/internal/database"
	"github.com/Renal37/karigar-desk/internal/design"
	"github.com/Renal37/karigar-desk/internal/ingest"
	"github.com/Renal37/karigar-desk/internal/lifecycle"
	"github.com/Renal37/karigar-desk/internal/logger"
	"github.com/Renal37/karigar-desk/internal/mapping"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/utils"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrOrderNotFound   = errors.New("заказ не найден")
	ErrOrderChanged    = errors.New("заказ уже изменён другим оператором, обновите список")
	ErrResetNotAllowed = errors.New("сбрасывать можно только заказы в Pending и ReturnFromHallmark")
)

const DefaultBulkConcurrency = 8

// OrderService ведёт заказы: ручной ввод, смена статусов, пакетные операции и сброс очереди.
type OrderService struct {
	storage   orderStorage
	resolver  designResolver
	machine   *lifecycle.Machine
	bulkLimit int
	now       func() time.Time
	suffix    func() string
}

type orderStorage interface {
	UpsertOrder(ctx context.Context, order database.OrderDB) error
	FindOrder(ctx context.Context, orderID string) (*database.OrderDB, error)
	FindOrders(ctx context.Context, filter models.OrderFilter) ([]database.OrderDB, error)
	SaveTransition(ctx context.Context, prevStatus models.OrderStatus, updated database.OrderDB, created *database.OrderDB) error
	DeleteOrdersByStatus(ctx context.Context, statuses []models.OrderStatus) (int64, error)
}

// designResolver источник названий и каригаров по коду дизайна.
type designResolver interface {
	Table(ctx context.Context) (*mapping.Table, error)
	Resolve(ctx context.Context, code string) (mapping.Resolution, error)
}

func NewOrderService(storage orderStorage, resolver designResolver, bulkConcurrency int) *OrderService {
	if bulkConcurrency <= 0 {
		bulkConcurrency = DefaultBulkConcurrency
	}
	return &OrderService{
		storage:   storage,
		resolver:  resolver,
		machine:   lifecycle.New(),
		bulkLimit: bulkConcurrency,
		now:       time.Now,
		suffix:    lifecycle.RandomSuffix,
	}
}

// CreateOrder сохраняет заказ, введённый вручную. Возвращает его уже обогащённым по справочнику.
func (o *OrderService) CreateOrder(ctx context.Context, input models.NewOrder) (models.Order, error) {
	if err := validateStruct(input); err != nil {
		return models.Order{}, err
	}

	orderType, ok := models.ParseOrderType(input.OrderType)
	if !ok {
		return models.Order{}, invalid("тип заказа %q не CO, RB или SO", input.OrderType)
	}

	code := design.Normalize(input.Design)
	if code == "" {
		return models.Order{}, invalid("не указан дизайн")
	}

	var orderDate *utils.RFC3339Date
	if input.OrderDate != "" {
		date, ok := ingest.ParseDateText(input.OrderDate)
		if !ok {
			return models.Order{}, invalid("не удалось разобрать дату заказа %q", input.OrderDate)
		}
		orderDate = &utils.RFC3339Date{Time: date}
	}

	now := o.now().UTC()
	stamp := utils.RFC3339Date{Time: now}
	orderNo := input.OrderNo
	order := models.Order{
		OrderID:     fmt.Sprintf("%s-%d-%s", orderNo, now.UnixMilli(), o.suffix()),
		OrderNo:     orderNo,
		OrderType:   orderType,
		Product:     input.Product,
		Design:      code,
		Weight:      input.Weight,
		Size:        input.Size,
		Quantity:    input.Quantity,
		Remarks:     input.Remarks,
		Status:      models.StatusPending,
		KarigarName: models.StringPtr(input.KarigarName),
		OrderDate:   orderDate,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}

	if err := o.Submit(ctx, order); err != nil {
		return models.Order{}, err
	}

	res, err := o.resolver.Resolve(ctx, order.Design)
	if err != nil {
		// заказ уже сохранён, отдаём его без названия из справочника
		logger.Log.Warn("не удалось разрешить дизайн", zap.String("design", order.Design), zap.Error(err))
		return withActions(order), nil
	}
	return withActions(mapping.Enrich(order, res)), nil
}

// Submit сохраняет готовый заказ. В хранилище попадают только явные значения заказа,
// названия из справочника подставляются при чтении.
func (o *OrderService) Submit(ctx context.Context, order models.Order) error {
	if order.Quantity <= 0 {
		return invalid("количество должно быть больше 0")
	}
	if err := o.storage.UpsertOrder(ctx, orderToDB(order)); err != nil {
		return fmt.Errorf("не удалось сохранить заказ %s: %w", order.OrderID, err)
	}
	return nil
}

// GetOrders возвращает заказы по фильтру, дополненные названиями и каригарами из справочника.
func (o *OrderService) GetOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	rows, err := o.storage.FindOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	table, err := o.resolver.Table(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.Order, len(rows))
	for i, row := range rows {
		result[i] = withActions(table.Enrich(orderFromDB(row)))
	}
	return result, nil
}

// ApplyTransition меняет состояние одного заказа.
func (o *OrderService) ApplyTransition(ctx context.Context, orderID string, transition models.Transition) (models.TransitionResult, error) {
	if err := validateStruct(transition); err != nil {
		return models.TransitionResult{}, err
	}

	result, err := o.apply(ctx, orderID, transition)
	if err != nil {
		return models.TransitionResult{}, err
	}

	res, err := o.resolver.Resolve(ctx, result.Order.Design)
	if err != nil {
		logger.Log.Warn("не удалось разрешить дизайн", zap.String("design", result.Order.Design), zap.Error(err))
		res = mapping.Resolution{}
	}
	result.Order = withActions(mapping.Enrich(result.Order, res))
	if result.Split != nil {
		split := withActions(mapping.Enrich(*result.Split, res))
		result.Split = &split
	}
	return result, nil
}

// ApplyBulk применяет одну смену состояния к каждому заказу отдельно.
// Ошибка одного заказа не останавливает остальные и попадает в итог.
func (o *OrderService) ApplyBulk(ctx context.Context, bulk models.BulkTransition) (models.BulkResult, error) {
	if err := validateStruct(bulk); err != nil {
		return models.BulkResult{}, err
	}

	orderIDs := uniqueIDs(bulk.OrderIDs)
	outcomes := make([]models.TransitionResult, len(orderIDs))
	failures := make([]error, len(orderIDs))

	var g errgroup.Group
	g.SetLimit(o.bulkLimit)
	for i, orderID := range orderIDs {
		if err := ctx.Err(); err != nil {
			failures[i] = fmt.Errorf("не отправлено: %w", err)
			continue
		}

		i, orderID := i, orderID
		g.Go(func() error {
			outcomes[i], failures[i] = o.apply(ctx, orderID, bulk.Transition)
			return nil
		})
	}
	_ = g.Wait()

	table, err := o.resolver.Table(ctx)
	if err != nil {
		logger.Log.Warn("не удалось загрузить справочник дизайнов", zap.Error(err))
		table = mapping.NewTable(nil)
	}

	result := models.BulkResult{
		Results:  []models.TransitionResult{},
		Failures: []models.BulkFailure{},
	}
	var merr *multierror.Error
	for i, orderID := range orderIDs {
		if failures[i] != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", orderID, failures[i]))
			result.Failures = append(result.Failures, models.BulkFailure{OrderID: orderID, Reason: failures[i].Error()})
			continue
		}

		outcome := outcomes[i]
		outcome.Order = withActions(table.Enrich(outcome.Order))
		if outcome.Split != nil {
			split := withActions(table.Enrich(*outcome.Split))
			outcome.Split = &split
		}
		result.Results = append(result.Results, outcome)
	}
	result.Succeeded = len(result.Results)
	result.Failed = len(result.Failures)

	fields := []zap.Field{
		zap.String("event", string(bulk.Transition.Event)),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	}
	if err := merr.ErrorOrNil(); err != nil {
		logger.Log.Warn("пакетная смена статуса завершилась с ошибками", append(fields, zap.Error(err))...)
	} else {
		logger.Log.Info("пакетная смена статуса", fields...)
	}

	return result, nil
}

// ResetOrders удаляет заказы с указанными статусами. Без статусов сбрасывается вся очередь работы.
func (o *OrderService) ResetOrders(ctx context.Context, statuses []models.OrderStatus) (int64, error) {
	if len(statuses) == 0 {
		statuses = []models.OrderStatus{models.StatusPending, models.StatusReturnFromHallmark}
	}
	for _, status := range statuses {
		if !lifecycle.CanReset(status) {
			return 0, fmt.Errorf("%w: %s", ErrResetNotAllowed, status)
		}
	}

	deleted, err := o.storage.DeleteOrdersByStatus(ctx, statuses)
	if err != nil {
		return 0, err
	}

	logger.Log.Info("очередь сброшена", zap.Any("statuses", statuses), zap.Int64("deleted", deleted))
	return deleted, nil
}

func (o *OrderService) apply(ctx context.Context, orderID string, transition models.Transition) (models.TransitionResult, error) {
	row, err := o.storage.FindOrder(ctx, orderID)
	if err != nil {
		return models.TransitionResult{}, err
	}
	if row == nil {
		return models.TransitionResult{}, ErrOrderNotFound
	}

	current := orderFromDB(*row)
	outcome, err := o.machine.Apply(current, transition)
	if err != nil {
		return models.TransitionResult{}, err
	}

	var created *database.OrderDB
	if outcome.Split != nil {
		split := orderToDB(*outcome.Split)
		created = &split
	}

	if err := o.storage.SaveTransition(ctx, current.Status, orderToDB(outcome.Order), created); err != nil {
		if errors.Is(err, database.ErrOrderChanged) {
			return models.TransitionResult{}, ErrOrderChanged
		}
		return models.TransitionResult{}, err
	}

	logger.Log.Debug("статус заказа изменён",
		zap.String("orderID", orderID),
		zap.String("event", string(transition.Event)),
		zap.String("from", string(current.Status)),
		zap.String("to", string(outcome.Order.Status)),
	)

	return models.TransitionResult{Order: outcome.Order, Split: outcome.Split}, nil
}

// withActions подставляет действия, доступные в текущем статусе заказа.
func withActions(order models.Order) models.Order {
	order.Actions = lifecycle.Allowed(order)
	return order
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
