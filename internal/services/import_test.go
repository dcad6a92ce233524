package services

import (
	"context"
	"testing"
	"time"

	"github.com/Renal37/karigar-desk/internal/database"
	"github.com/Renal37/karigar-desk/internal/ingest"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersCSV = "Order No,Type,Product,Design,Weight,Size,Qty\n" +
	"5001,CO,Ring,a-12,4.5,12,1\n" +
	"5002,XX,Chain,b-7,10,18,2\n" +
	"5003,RB,Bangle,c 1,20,2.6,6\n"

// inlineQueue выполняет задание сразу в вызывающей горутине.
type inlineQueue struct {
	ctx context.Context
	err error
}

func (q inlineQueue) Enqueue(job Job) error {
	if q.err != nil {
		return q.err
	}
	ctx := q.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	job(ctx)
	return nil
}

func newTestImportService(t *testing.T, storage *memoryStorage, queue importQueue, policy ingest.InvalidTypePolicy) *ImportService {
	t.Helper()

	mappings, err := NewMappingService(storage, 16)
	require.NoError(t, err)
	orders := NewOrderService(storage, mappings, 2)

	service, err := NewImportService(orders, mappings, queue, policy)
	require.NoError(t, err)
	service.now = fixedClock
	return service
}

func ordersUpload() models.Upload {
	return models.Upload{Filename: "orders.csv", Content: []byte(ordersCSV)}
}

func TestStartOrderImportLenient(t *testing.T) {
	storage := newMemoryStorage()
	service := newTestImportService(t, storage, inlineQueue{}, ingest.InvalidTypeReject)

	queued, err := service.StartOrderImport(context.Background(), ordersUpload(), "lenient")
	require.NoError(t, err)
	assert.NotEmpty(t, queued.ID)
	assert.Equal(t, 3, queued.Total)

	status, err := service.GetImport(queued.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ImportDone, status.State)
	assert.True(t, status.Finished())
	assert.Equal(t, "lenient", status.Mode)
	assert.Equal(t, 3, status.Processed)
	assert.Equal(t, 2, status.Submitted)
	assert.Zero(t, status.Failed)
	require.Len(t, status.ParseErrors, 1)
	assert.Equal(t, 3, status.ParseErrors[0].Row)
	assert.Equal(t, testNow, status.StartedAt.Time)
	require.NotNil(t, status.FinishedAt)

	assert.Len(t, storage.orders, 2)
	for _, order := range storage.orders {
		assert.Equal(t, models.StatusPending, order.Status.OrderStatus)
		assert.Contains(t, []string{"A-12", "C 1"}, order.Design)
	}
}

func TestStartOrderImportDefaultsInvalidTypeToRB(t *testing.T) {
	storage := newMemoryStorage()
	service := newTestImportService(t, storage, inlineQueue{}, ingest.InvalidTypeDefaultRB)

	queued, err := service.StartOrderImport(context.Background(), ordersUpload(), "lenient")
	require.NoError(t, err)

	status, err := service.GetImport(queued.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Submitted)

	types := map[string]string{}
	for _, order := range storage.orders {
		types[order.OrderNo] = order.OrderType
	}
	assert.Equal(t, "RB", types["5002"])
}

func TestStartOrderImportStrictRequiresMapping(t *testing.T) {
	storage := newMemoryStorage()
	storage.mappings["A-12"] = database.DesignMappingDB{DesignCode: "A-12", GenericName: "Ring", KarigarName: "Ravi"}
	service := newTestImportService(t, storage, inlineQueue{}, ingest.InvalidTypeReject)

	queued, err := service.StartOrderImport(context.Background(), ordersUpload(), "strict")
	require.NoError(t, err)

	status, err := service.GetImport(queued.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ImportDone, status.State)
	assert.Equal(t, 1, status.Submitted)
	assert.Equal(t, 1, status.Failed)
	require.Len(t, status.Failures, 1)
	assert.Contains(t, status.Failures[0].Reason, "C 1")
	assert.Len(t, storage.orders, 1)
}

func TestStartOrderImportCancelled(t *testing.T) {
	storage := newMemoryStorage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	service := newTestImportService(t, storage, inlineQueue{ctx: ctx}, ingest.InvalidTypeReject)

	queued, err := service.StartOrderImport(context.Background(), ordersUpload(), "lenient")
	require.NoError(t, err)

	status, err := service.GetImport(queued.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportFailed, status.State)
	assert.NotEmpty(t, status.Error)
	assert.Empty(t, storage.orders)
}

type panickingSubmitter struct{}

func (panickingSubmitter) Submit(context.Context, models.Order) error {
	panic("хранилище недоступно")
}

func TestStartOrderImportPanicMarksFailed(t *testing.T) {
	storage := newMemoryStorage()
	mappings := newTestMappingService(t, storage)
	service, err := NewImportService(panickingSubmitter{}, mappings, inlineQueue{}, ingest.InvalidTypeReject)
	require.NoError(t, err)
	service.now = fixedClock

	queued, err := service.StartOrderImport(context.Background(), ordersUpload(), "lenient")
	require.NoError(t, err)

	status, err := service.GetImport(queued.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportFailed, status.State)
	assert.Contains(t, status.Error, "хранилище недоступно")
	require.NotNil(t, status.FinishedAt)
}

func TestStartOrderImportQueuedWhenStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := NewJobQueueService(ctx, 4, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, queue.Enqueue(func(context.Context) {
		close(started)
		<-release
	}))
	<-started

	storage := newMemoryStorage()
	service := newTestImportService(t, storage, queue, ingest.InvalidTypeReject)

	queued, err := service.StartOrderImport(context.Background(), ordersUpload(), "lenient")
	require.NoError(t, err)

	cancel()
	close(release)
	queue.Shutdown()

	status, err := service.GetImport(queued.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportFailed, status.State)
	assert.NotEmpty(t, status.Error)
	assert.Empty(t, storage.orders)
}

func TestStartOrderImportRejects(t *testing.T) {
	testCases := []struct {
		testName string
		upload   models.Upload
		mode     string
		queue    importQueue
		wantErr  error
	}{
		{
			testName: "Should reject unknown mode",
			upload:   ordersUpload(),
			mode:     "fast",
			queue:    inlineQueue{},
			wantErr:  ErrValidation,
		},
		{
			testName: "Should reject unsupported extension",
			upload:   models.Upload{Filename: "orders.pdf", Content: []byte(ordersCSV)},
			mode:     "lenient",
			queue:    inlineQueue{},
			wantErr:  ErrValidation,
		},
		{
			testName: "Should report unreadable workbook",
			upload:   models.Upload{Filename: "orders.xlsx", Content: []byte("не архив")},
			mode:     "lenient",
			queue:    inlineQueue{},
			wantErr:  ErrUnreadableFile,
		},
		{
			testName: "Should report full queue",
			upload:   ordersUpload(),
			mode:     "lenient",
			queue:    inlineQueue{err: ErrJobQueueIsFull},
			wantErr:  ErrJobQueueIsFull,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			storage := newMemoryStorage()
			service := newTestImportService(t, storage, tc.queue, ingest.InvalidTypeReject)

			_, err := service.StartOrderImport(context.Background(), tc.upload, tc.mode)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Zero(t, service.imports.Len())
			assert.Empty(t, storage.orders)
		})
	}
}

func TestStartOrderImportInBackground(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := NewJobQueueService(ctx, 4, 1)
	defer queue.Shutdown()

	storage := newMemoryStorage()
	service := newTestImportService(t, storage, queue, ingest.InvalidTypeReject)

	queued, err := service.StartOrderImport(ctx, ordersUpload(), "lenient")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err := service.GetImport(queued.ID)
		return err == nil && status.Finished()
	}, 2*time.Second, 10*time.Millisecond)

	status, err := service.GetImport(queued.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.Submitted)
}

func TestGetImportUnknown(t *testing.T) {
	service := newTestImportService(t, newMemoryStorage(), inlineQueue{}, ingest.InvalidTypeReject)

	_, err := service.GetImport("nope")
	assert.ErrorIs(t, err, ErrImportNotFound)
}

func TestImportMappings(t *testing.T) {
	storage := newMemoryStorage()
	service := newTestImportService(t, storage, inlineQueue{}, ingest.InvalidTypeReject)

	result, err := service.ImportMappings(context.Background(), models.Upload{
		Filename: "master.csv",
		Content:  []byte("Design,Generic Name,Karigar\na-12,Ring,Ravi\nC 1,Bangle,\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	require.Contains(t, storage.mappings, "A-12")
	assert.Equal(t, "Ravi", storage.mappings["A-12"].KarigarName)
	assert.Equal(t, "", storage.mappings["C 1"].KarigarName)

	_, err = service.ImportMappings(context.Background(), models.Upload{Filename: "master.txt"})
	assert.ErrorIs(t, err, ErrValidation)
}
