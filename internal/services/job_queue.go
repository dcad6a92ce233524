package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Renal37/karigar-desk/internal/logger"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var (
	ErrJobQueueIsFull = errors.New("очередь заданий заполнена")
	ErrJobQueueClosed = errors.New("очередь заданий закрыта")
)

// Job задание для фоновой обработки. ctx живёт столько же, сколько очередь.
type Job func(ctx context.Context)

// JobQueueService ограниченная очередь с фиксированным числом воркеров.
// Enqueue не блокируется: при заполненной очереди сразу возвращает ошибку.
type JobQueueService struct {
	jobs      chan Job
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closeOnce sync.Once
	closing   *atomic.Bool
	active    *atomic.Int32
}

// NewJobQueueService запускает workers воркеров над очередью ёмкостью capacity.
func NewJobQueueService(ctx context.Context, capacity, workers int) *JobQueueService {
	if workers <= 0 {
		workers = 1
	}
	service := &JobQueueService{
		jobs:    make(chan Job, capacity),
		closing: atomic.NewBool(false),
		active:  atomic.NewInt32(0),
	}
	service.start(ctx, workers)

	return service
}

func (jqs *JobQueueService) start(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		jqs.wg.Add(1)

		go func(workerID int) {
			defer jqs.wg.Done()

			for {
				select {
				case job, ok := <-jqs.jobs:
					if !ok {
						return
					}
					jqs.run(ctx, workerID, job)
				case <-ctx.Done():
					jqs.drain(ctx, workerID)
					return
				}
			}
		}(i + 1)
	}
}

// drain после отмены ctx закрывает приём и отдаёт оставшиеся задания воркеру
// с уже отменённым контекстом, чтобы каждое из них могло завершиться ошибкой.
func (jqs *JobQueueService) drain(ctx context.Context, workerID int) {
	jqs.mu.Lock()
	jqs.closing.Store(true)
	jqs.mu.Unlock()

	for {
		select {
		case job, ok := <-jqs.jobs:
			if !ok {
				return
			}
			jqs.run(ctx, workerID, job)
		default:
			return
		}
	}
}

func (jqs *JobQueueService) run(ctx context.Context, workerID int, job Job) {
	jqs.active.Inc()
	defer jqs.active.Dec()

	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("задание завершилось паникой",
				zap.Int("worker", workerID),
				zap.Error(fmt.Errorf("%v", r)),
			)
		}
	}()

	job(ctx)
}

// Enqueue добавляет задание в очередь.
func (jqs *JobQueueService) Enqueue(job Job) error {
	jqs.mu.RLock()
	defer jqs.mu.RUnlock()

	if jqs.closing.Load() {
		return ErrJobQueueClosed
	}

	select {
	case jqs.jobs <- job:
		return nil
	default:
		return ErrJobQueueIsFull
	}
}

// Active число заданий, которые выполняются прямо сейчас.
func (jqs *JobQueueService) Active() int {
	return int(jqs.active.Load())
}

// Shutdown перестаёт принимать задания, дожидается выполнения уже поставленных и останавливает воркеров.
func (jqs *JobQueueService) Shutdown() {
	jqs.mu.Lock()
	jqs.closing.Store(true)
	jqs.closeOnce.Do(func() { close(jqs.jobs) })
	jqs.mu.Unlock()

	jqs.wg.Wait()
}
