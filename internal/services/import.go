package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Renal37/karigar-desk/internal/ingest"
	"github.com/Renal37/karigar-desk/internal/logger"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/sheet"
	"github.com/Renal37/karigar-desk/internal/utils"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var (
	ErrImportNotFound  = errors.New("загрузка не найдена")
	ErrMappingNotFound = errors.New("дизайна нет в справочнике")
	ErrUnreadableFile  = errors.New("не удалось прочитать файл")
)

// importHistorySize сколько последних загрузок можно опросить.
const importHistorySize = 256

// ImportService загружает файлы заказов в фоне и справочник дизайнов сразу.
type ImportService struct {
	orders      orderSubmitter
	mappings    mappingCatalog
	queue       importQueue
	invalidType ingest.InvalidTypePolicy
	now         func() time.Time
	imports     *lru.Cache[string, *importJob]
}

type orderSubmitter interface {
	Submit(ctx context.Context, order models.Order) error
}

type mappingCatalog interface {
	Lookup(ctx context.Context, code string) (models.DesignMapping, bool, error)
	SaveMappings(ctx context.Context, mappings []models.DesignMapping) (int, error)
}

type importQueue interface {
	Enqueue(job Job) error
}

type importJob struct {
	mu        sync.Mutex
	status    models.ImportStatus
	processed *atomic.Int64
}

func NewImportService(orders orderSubmitter, mappings mappingCatalog, queue importQueue, invalidType ingest.InvalidTypePolicy) (*ImportService, error) {
	imports, err := lru.New[string, *importJob](importHistorySize)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать журнал загрузок: %w", err)
	}

	return &ImportService{
		orders:      orders,
		mappings:    mappings,
		queue:       queue,
		invalidType: invalidType,
		now:         time.Now,
		imports:     imports,
	}, nil
}

// StartOrderImport читает файл сразу, чтобы ошибка чтения вернулась до обработки строк,
// и ставит разбор и сохранение заказов в очередь.
func (is *ImportService) StartOrderImport(ctx context.Context, upload models.Upload, mode string) (models.ImportStatus, error) {
	parseMode, err := ingest.ParseMode(mode)
	if err != nil {
		return models.ImportStatus{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	format, err := sheet.DetectFormat(upload.Filename)
	if err != nil {
		return models.ImportStatus{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	rows, err := sheet.ReadOrders(bytes.NewReader(upload.Content), format)
	if err != nil {
		return models.ImportStatus{}, fmt.Errorf("%w: %s", ErrUnreadableFile, err)
	}

	job := &importJob{
		processed: atomic.NewInt64(0),
		status: models.ImportStatus{
			ID:          uuid.NewString(),
			Filename:    upload.Filename,
			Mode:        parseMode.String(),
			State:       models.ImportQueued,
			Total:       len(rows),
			Failures:    []models.BulkFailure{},
			ParseErrors: []models.RowError{},
			StartedAt:   utils.RFC3339Date{Time: is.now().UTC()},
		},
	}
	is.imports.Add(job.status.ID, job)

	if err := is.queue.Enqueue(func(jobCtx context.Context) {
		is.run(jobCtx, job, rows, parseMode)
	}); err != nil {
		is.imports.Remove(job.status.ID)
		return models.ImportStatus{}, err
	}

	logger.Log.Info("загрузка заказов поставлена в очередь",
		zap.String("importID", job.status.ID),
		zap.String("filename", upload.Filename),
		zap.String("mode", parseMode.String()),
		zap.Int("rows", len(rows)),
	)

	return job.snapshot(), nil
}

// GetImport возвращает текущее состояние загрузки.
func (is *ImportService) GetImport(id string) (models.ImportStatus, error) {
	job, ok := is.imports.Get(id)
	if !ok {
		return models.ImportStatus{}, ErrImportNotFound
	}
	return job.snapshot(), nil
}

// ImportMappings загружает справочник дизайнов из файла по позициям колонок.
func (is *ImportService) ImportMappings(ctx context.Context, upload models.Upload) (models.MappingImportResult, error) {
	format, err := sheet.DetectFormat(upload.Filename)
	if err != nil {
		return models.MappingImportResult{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	mappings, err := sheet.ReadMappings(bytes.NewReader(upload.Content), format)
	if err != nil {
		return models.MappingImportResult{}, fmt.Errorf("%w: %s", ErrUnreadableFile, err)
	}

	imported, err := is.mappings.SaveMappings(ctx, mappings)
	if err != nil {
		return models.MappingImportResult{}, err
	}
	return models.MappingImportResult{Imported: imported}, nil
}

func (is *ImportService) run(ctx context.Context, job *importJob, rows []ingest.Row, mode ingest.Mode) {
	job.update(func(s *models.ImportStatus) { s.State = models.ImportRunning })
	log := logger.Log.With(zap.String("importID", job.id()))

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("загрузка прервана: %v", r)
			log.Error("загрузка заказов упала", zap.Error(err))
			is.finish(job, err)
		}
	}()

	result, err := ingest.Parse(ctx, rows, ingest.Options{
		Mode:        mode,
		InvalidType: is.invalidType,
		Now:         is.now,
		Progress: func(processed, total int) {
			job.processed.Store(int64(processed))
		},
	})

	rowErrors := make([]models.RowError, len(result.Errors))
	for i, e := range result.Errors {
		rowErrors[i] = models.RowError{Row: e.Row, Field: e.Field, Message: e.Message}
	}
	job.update(func(s *models.ImportStatus) { s.ParseErrors = rowErrors })

	if err != nil {
		log.Error("разбор файла прерван", zap.Error(err))
		is.finish(job, err)
		return
	}

	for i, order := range result.Orders {
		if err := ctx.Err(); err != nil {
			for _, rest := range result.Orders[i:] {
				job.fail(rest.OrderID, fmt.Errorf("не отправлено: %w", err))
			}
			break
		}

		if err := is.submit(ctx, order, mode); err != nil {
			job.fail(order.OrderID, err)
			continue
		}
		job.update(func(s *models.ImportStatus) { s.Submitted++ })
	}

	is.finish(job, nil)

	status := job.snapshot()
	log.Info("загрузка заказов завершена",
		zap.Int("rows", status.Total),
		zap.Int("submitted", status.Submitted),
		zap.Int("failed", status.Failed),
		zap.Int("parseErrors", len(status.ParseErrors)),
	)
}

// submit в строгом режиме требует, чтобы дизайн был в справочнике.
func (is *ImportService) submit(ctx context.Context, order models.Order, mode ingest.Mode) error {
	if mode == ingest.ModeStrict {
		_, found, err := is.mappings.Lookup(ctx, order.Design)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrMappingNotFound, order.Design)
		}
	}
	return is.orders.Submit(ctx, order)
}

func (is *ImportService) finish(job *importJob, err error) {
	finishedAt := utils.RFC3339Date{Time: is.now().UTC()}
	job.update(func(s *models.ImportStatus) {
		s.FinishedAt = &finishedAt
		if err != nil {
			s.State = models.ImportFailed
			s.Error = err.Error()
			return
		}
		s.State = models.ImportDone
	})
}

func (j *importJob) id() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status.ID
}

func (j *importJob) update(fn func(s *models.ImportStatus)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	fn(&j.status)
}

func (j *importJob) fail(orderID string, err error) {
	j.update(func(s *models.ImportStatus) {
		s.Failed++
		s.Failures = append(s.Failures, models.BulkFailure{OrderID: orderID, Reason: err.Error()})
	})
}

func (j *importJob) snapshot() models.ImportStatus {
	j.mu.Lock()
	defer j.mu.Unlock()

	status := j.status
	status.Processed = int(j.processed.Load())
	status.Failures = append(make([]models.BulkFailure, 0, len(j.status.Failures)), j.status.Failures...)
	status.ParseErrors = append(make([]models.RowError, 0, len(j.status.ParseErrors)), j.status.ParseErrors...)
	return status
}
