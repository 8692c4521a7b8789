package ordersync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nav-gateway/internal/application/ordersync"
	"github.com/jhoicas/nav-gateway/internal/domain/entity"
	"github.com/jhoicas/nav-gateway/internal/domain/event"
	"github.com/jhoicas/nav-gateway/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del caso de uso de sincronización: idempotencia de pedidos y abonos
// con un gateway mock inyectado.
// ──────────────────────────────────────────────────────────────────────────────

// mockGateway implementación de tabla del puerto Gateway para tests.
type mockGateway struct {
	orderExists     bool
	shipmentExists  bool
	existsErr       error
	createOrderErr  error
	createdOrders   []*entity.Order
	creditMemoNo    string
	postedMemoNo    string
	createdMemos    []*entity.Refund
	assignedMemoNo  string
	memosWithOrders []*entity.Order
}

func (m *mockGateway) OrderExists(ctx context.Context, orderNumber string) (bool, error) {
	return m.orderExists, m.existsErr
}

func (m *mockGateway) PostedShipmentExists(ctx context.Context, orderNumber string) (bool, error) {
	return m.shipmentExists, nil
}

func (m *mockGateway) CreateOrder(ctx context.Context, order *entity.Order) error {
	m.createdOrders = append(m.createdOrders, order)
	return m.createOrderErr
}

func (m *mockGateway) FindCreditMemo(ctx context.Context, reference string) (string, bool, error) {
	return m.creditMemoNo, m.creditMemoNo != "", nil
}

func (m *mockGateway) FindPostedCreditMemo(ctx context.Context, reference string) (string, bool, error) {
	return m.postedMemoNo, m.postedMemoNo != "", nil
}

func (m *mockGateway) CreateCreditMemo(ctx context.Context, order *entity.Order, refund *entity.Refund) (string, error) {
	m.memosWithOrders = append(m.memosWithOrders, order)
	m.createdMemos = append(m.createdMemos, refund)
	return m.assignedMemoNo, nil
}

func vatTable() map[string]string {
	return map[string]string{"DK": "VAT25", "DE": "VAT19"}
}

func orderEvent() event.OrderCreated {
	return event.OrderCreated{
		OrderNumber: "1001",
		OrderType:   entity.OrderTypeDefault,
		CountryCode: "dk",
		Currency:    "DKK",
		CustomerNo:  "C-10",
		CreatedAt:   time.Date(2019, 6, 3, 10, 0, 0, 0, time.UTC),
		Standalone: []event.LinePayload{
			{SKU: "SKU-1", Name: "Silla", Quantity: 1,
				Price: decimal.RequireFromString("40"), Total: decimal.RequireFromString("40")},
		},
	}
}

func TestHandleOrderCreated_CreaYMapeaElGrupoVAT(t *testing.T) {
	gw := &mockGateway{}
	uc := ordersync.NewUseCase(gw, vatTable(), logger.Nop())

	created, err := uc.HandleOrderCreated(context.Background(), orderEvent())
	require.NoError(t, err)
	assert.True(t, created)

	require.Len(t, gw.createdOrders, 1)
	order := gw.createdOrders[0]
	assert.Equal(t, "1001", order.OrderNumber)
	assert.Equal(t, "VAT25", order.VATBusinessGroup, "el país del evento se normaliza a mayúsculas")
}

func TestHandleOrderCreated_PaisDesconocidoViajaSinGrupoVAT(t *testing.T) {
	gw := &mockGateway{}
	uc := ordersync.NewUseCase(gw, vatTable(), logger.Nop())

	evt := orderEvent()
	evt.CountryCode = "XX"
	_, err := uc.HandleOrderCreated(context.Background(), evt)
	require.NoError(t, err)
	assert.Empty(t, gw.createdOrders[0].VATBusinessGroup)
}

func TestHandleOrderCreated_PedidoExistenteSeOmite(t *testing.T) {
	gw := &mockGateway{orderExists: true}
	uc := ordersync.NewUseCase(gw, vatTable(), logger.Nop())

	created, err := uc.HandleOrderCreated(context.Background(), orderEvent())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, gw.createdOrders, "no se llama a CreateOrder si el pedido ya existe")
}

func TestHandleOrderCreated_AlbaranPublicadoSeOmite(t *testing.T) {
	gw := &mockGateway{shipmentExists: true}
	uc := ordersync.NewUseCase(gw, vatTable(), logger.Nop())

	created, err := uc.HandleOrderCreated(context.Background(), orderEvent())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, gw.createdOrders)
}

func TestHandleOrderCreated_ErrorDeComprobacionSePropaga(t *testing.T) {
	gw := &mockGateway{existsErr: errors.New("timeout")}
	uc := ordersync.NewUseCase(gw, vatTable(), logger.Nop())

	_, err := uc.HandleOrderCreated(context.Background(), orderEvent())
	require.Error(t, err)
	assert.Empty(t, gw.createdOrders, "ante la duda no se crea nada")
}

func refundEvent() event.RefundIssued {
	return event.RefundIssued{
		Order:      orderEvent(),
		Reference:  "ref-55",
		RefundedAt: time.Date(2019, 7, 1, 9, 0, 0, 0, time.UTC),
		Location:   "MAIN",
		Reason:     "DEFECT",
		Items: []event.LinePayload{
			{SKU: "SKU-1", Name: "Silla", Quantity: 1, Price: decimal.RequireFromString("40")},
		},
		RefundAmounts: map[string]decimal.Decimal{"SKU-1": decimal.RequireFromString("35.50")},
	}
}

func TestHandleRefundIssued_CreaAbonoConImportesPorSKU(t *testing.T) {
	gw := &mockGateway{assignedMemoNo: "CM-77"}
	uc := ordersync.NewUseCase(gw, vatTable(), logger.Nop())

	number, created, err := uc.HandleRefundIssued(context.Background(), refundEvent())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "CM-77", number)

	require.Len(t, gw.createdMemos, 1)
	refund := gw.createdMemos[0]
	require.Len(t, refund.Items, 1)
	assert.True(t, refund.Items[0].Amount.Equal(decimal.RequireFromString("35.50")),
		"el importe de línea sale de la tabla sku→importe del evento")
}

func TestHandleRefundIssued_AbonoExistenteSeOmite(t *testing.T) {
	gw := &mockGateway{creditMemoNo: "CM-11"}
	uc := ordersync.NewUseCase(gw, vatTable(), logger.Nop())

	number, created, err := uc.HandleRefundIssued(context.Background(), refundEvent())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "CM-11", number, "se devuelve el número del abono ya existente")
	assert.Empty(t, gw.createdMemos)
}

func TestHandleRefundIssued_AbonoPublicadoSeOmite(t *testing.T) {
	gw := &mockGateway{postedMemoNo: "CM-22"}
	uc := ordersync.NewUseCase(gw, vatTable(), logger.Nop())

	number, created, err := uc.HandleRefundIssued(context.Background(), refundEvent())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "CM-22", number)
	assert.Empty(t, gw.createdMemos)
}
