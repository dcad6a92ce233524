package models

import "github.com/Renal37/karigar-desk/internal/utils"

// Upload загруженный оператором файл целиком в памяти.
type Upload struct {
	Filename string
	Content  []byte
}

type ImportState string

const (
	ImportQueued  ImportState = "queued"
	ImportRunning ImportState = "running"
	ImportDone    ImportState = "done"
	ImportFailed  ImportState = "failed"
)

// RowError ошибка разбора одной строки файла, только для показа оператору.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportStatus состояние загрузки файла заказов. Processed растёт по ходу разбора.
type ImportStatus struct {
	ID          string             `json:"id"`
	Filename    string             `json:"filename"`
	Mode        string             `json:"mode"`
	State       ImportState        `json:"state"`
	Total       int                `json:"total"`
	Processed   int                `json:"processed"`
	Submitted   int                `json:"submitted"`
	Failed      int                `json:"failed"`
	Failures    []BulkFailure      `json:"failures"`
	ParseErrors []RowError         `json:"parseErrors"`
	Error       string             `json:"error,omitempty"`
	StartedAt   utils.RFC3339Date  `json:"startedAt"`
	FinishedAt  *utils.RFC3339Date `json:"finishedAt,omitempty"`
}

// Finished сообщает, что загрузка больше не изменится.
func (s ImportStatus) Finished() bool {
	return s.State == ImportDone || s.State == ImportFailed
}

// MappingImportResult итог загрузки справочника дизайнов.
type MappingImportResult struct {
	Imported int `json:"imported"`
}
