package models

// Event действие оператора над заказом.
type Event string

const (
	EventMarkReady          Event = "markReady"
	EventSupply             Event = "supply"
	EventSendToHallmark     Event = "sendToHallmark"
	EventReturnFromHallmark Event = "returnFromHallmark"
	EventMoveBackToPending  Event = "moveBackToPending"
	EventReassignKarigar    Event = "reassignKarigar"
	EventBulkReset          Event = "bulkReset"
)

// Transition запрос на смену состояния заказа.
// Quantity нужен только для supply, KarigarName только для reassignKarigar.
type Transition struct {
	Event       Event  `json:"event" validate:"required,oneof=markReady supply sendToHallmark returnFromHallmark moveBackToPending reassignKarigar"`
	Quantity    int64  `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	KarigarName string `json:"karigarName,omitempty"`
}

// BulkTransition одна и та же смена состояния для нескольких заказов.
type BulkTransition struct {
	OrderIDs   []string   `json:"orderIds" validate:"required,min=1,dive,required"`
	Transition Transition `json:"transition"`
}

// TransitionResult результат смены состояния одного заказа.
type TransitionResult struct {
	Order Order  `json:"order"`
	Split *Order `json:"split,omitempty"`
}

// BulkFailure причина, по которой заказ из пакета не изменился.
type BulkFailure struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

// BulkResult итог пакетной операции: каждый заказ обрабатывается отдельно.
type BulkResult struct {
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Results   []TransitionResult `json:"results"`
	Failures  []BulkFailure      `json:"failures"`
}
