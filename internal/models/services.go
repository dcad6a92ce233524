package models

import (
	"context"
	"io"

	"github.com/golang-jwt/jwt/v5"
)

//go:generate mockgen -destination=mocks/mock_auth.go . AuthService
type AuthService interface {
	Register(ctx context.Context, user UnknownUser) error

	Login(ctx context.Context, user UnknownUser) error

	GetUser(ctx context.Context, login string) (*User, error)
}

//go:generate mockgen -destination=mocks/mock_jwt.go . JWTService
type JWTService interface {
	GenerateJWT(subject string) (string, error)

	ValidateToken(token string) (*jwt.Token, error)
}

//go:generate mockgen -destination=mocks/mock_order.go . OrderService
type OrderService interface {
	CreateOrder(ctx context.Context, order NewOrder) (Order, error)

	GetOrders(ctx context.Context, filter OrderFilter) ([]Order, error)

	ApplyTransition(ctx context.Context, orderID string, transition Transition) (TransitionResult, error)

	ApplyBulk(ctx context.Context, bulk BulkTransition) (BulkResult, error)

	ResetOrders(ctx context.Context, statuses []OrderStatus) (int64, error)
}

//go:generate mockgen -destination=mocks/mock_import.go . ImportService
type ImportService interface {
	StartOrderImport(ctx context.Context, upload Upload, mode string) (ImportStatus, error)

	GetImport(id string) (ImportStatus, error)

	ImportMappings(ctx context.Context, upload Upload) (MappingImportResult, error)
}

//go:generate mockgen -destination=mocks/mock_mapping.go . MappingService
type MappingService interface {
	GetMappings(ctx context.Context) ([]DesignMapping, error)

	UpsertMapping(ctx context.Context, mapping DesignMapping) (DesignMapping, error)

	UnmappedReport(ctx context.Context, filter OrderFilter) ([]UnmappedGroup, error)

	GetKarigars(ctx context.Context) ([]Karigar, error)

	AddKarigar(ctx context.Context, karigar Karigar) error
}

//go:generate mockgen -destination=mocks/mock_report.go . ReportService
type ReportService interface {
	ExportOrders(ctx context.Context, filter OrderFilter, format string, w io.Writer) error

	DesignSummary(ctx context.Context, filter OrderFilter) ([]DesignSummary, error)
}
