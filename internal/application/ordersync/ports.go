package ordersync

import (
	"context"

	"github.com/jhoicas/nav-gateway/internal/domain/entity"
)

// Gateway puerto de salida hacia el cliente NAV. La implementación concreta
// es infrastructure/nav.Client; para tests se inyecta un mock. Solo lista las
// operaciones que los casos de uso invocan.
type Gateway interface {
	OrderExists(ctx context.Context, orderNumber string) (bool, error)
	PostedShipmentExists(ctx context.Context, orderNumber string) (bool, error)
	CreateOrder(ctx context.Context, order *entity.Order) error

	FindCreditMemo(ctx context.Context, reference string) (string, bool, error)
	FindPostedCreditMemo(ctx context.Context, reference string) (string, bool, error)
	CreateCreditMemo(ctx context.Context, order *entity.Order, refund *entity.Refund) (string, error)
}
