package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nav-gateway/internal/application/dto"
	"github.com/jhoicas/nav-gateway/internal/application/ordersync"
	"github.com/jhoicas/nav-gateway/internal/application/settlement"
	"github.com/jhoicas/nav-gateway/internal/domain"
	"github.com/jhoicas/nav-gateway/internal/domain/entity"
	"github.com/jhoicas/nav-gateway/internal/infrastructure/nav"
	appHttp "github.com/jhoicas/nav-gateway/internal/interfaces/http"
	"github.com/jhoicas/nav-gateway/pkg/jwt"
	"github.com/jhoicas/nav-gateway/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de los webhooks de eventos: códigos de estado y mapeo de la taxonomía
// de errores del gateway, con los casos de uso reales sobre gateways mock.
// ──────────────────────────────────────────────────────────────────────────────

type stubOrderGateway struct {
	orderExists bool
	callErr     error
	created     int
}

func (s *stubOrderGateway) OrderExists(ctx context.Context, orderNumber string) (bool, error) {
	return s.orderExists, s.callErr
}

func (s *stubOrderGateway) PostedShipmentExists(ctx context.Context, orderNumber string) (bool, error) {
	return false, nil
}

func (s *stubOrderGateway) CreateOrder(ctx context.Context, order *entity.Order) error {
	s.created++
	return nil
}

func (s *stubOrderGateway) FindCreditMemo(ctx context.Context, reference string) (string, bool, error) {
	return "", false, s.callErr
}

func (s *stubOrderGateway) FindPostedCreditMemo(ctx context.Context, reference string) (string, bool, error) {
	return "", false, nil
}

func (s *stubOrderGateway) CreateCreditMemo(ctx context.Context, order *entity.Order, refund *entity.Refund) (string, error) {
	return "CM-77", nil
}

type stubSettlementGateway struct {
	uploadErr error
}

func (s *stubSettlementGateway) UploadOrderSettlementBatch(ctx context.Context, ref nav.SettlementOrderRef, tx entity.BalanceTransaction, postingDate time.Time) error {
	return s.uploadErr
}

func (s *stubSettlementGateway) UploadFeeSettlementBatch(ctx context.Context, tx entity.BalanceTransaction, postingDate time.Time) error {
	return s.uploadErr
}

func eventsApp(orders *stubOrderGateway, settlements *stubSettlementGateway) *fiber.App {
	log := logger.Nop()
	app := fiber.New()
	appHttp.Router(app, appHttp.RouterDeps{
		Events: appHttp.NewEventHandler(
			ordersync.NewUseCase(orders, map[string]string{"DK": "VAT25"}, log),
			settlement.NewUseCase(settlements, log),
			log,
		),
		JWTSecret: testSecret,
	})
	return app
}

func postEvent(t *testing.T, app *fiber.App, path, body string) (int, dto.EventResponse, dto.ErrorResponse) {
	t.Helper()
	token, err := jwt.Generate(testSecret, "event-bus", "nav-gateway", 60)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var ok dto.EventResponse
	var fail dto.ErrorResponse
	_ = json.Unmarshal(raw, &ok)
	_ = json.Unmarshal(raw, &fail)
	return resp.StatusCode, ok, fail
}

const orderBody = `{"order_number":"1001","order_type":"default","country_code":"DK",` +
	`"currency":"DKK","customer_no":"C-10",` +
	`"standalone_items":[{"sku":"SKU-1","name":"Silla","quantity":1,"price":"40","total":"40"}],` +
	`"shipping_name":"Estándar","shipping_price":"10","shipping_total":"10"}`

func TestOrderCreated_NuevoDevuelve202(t *testing.T) {
	orders := &stubOrderGateway{}
	app := eventsApp(orders, &stubSettlementGateway{})

	status, ok, _ := postEvent(t, app, "/api/events/orders", orderBody)
	assert.Equal(t, fiber.StatusAccepted, status)
	assert.Equal(t, "created", ok.Status)
	assert.Equal(t, 1, orders.created)
}

func TestOrderCreated_ExistenteDevuelve200Skipped(t *testing.T) {
	orders := &stubOrderGateway{orderExists: true}
	app := eventsApp(orders, &stubSettlementGateway{})

	status, ok, _ := postEvent(t, app, "/api/events/orders", orderBody)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "skipped", ok.Status)
	assert.Zero(t, orders.created)
}

func TestOrderCreated_SinNumeroDevuelve400(t *testing.T) {
	app := eventsApp(&stubOrderGateway{}, &stubSettlementGateway{})

	status, _, fail := postEvent(t, app, "/api/events/orders", `{"order_type":"default"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_PAYLOAD", fail.Code)
}

func TestOrderCreated_ErrorDeTransporteDevuelve502(t *testing.T) {
	orders := &stubOrderGateway{callErr: &domain.TransportError{StatusCode: 500, Body: "fallo"}}
	app := eventsApp(orders, &stubSettlementGateway{})

	status, _, fail := postEvent(t, app, "/api/events/orders", orderBody)
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, "NAV_TRANSPORT", fail.Code)
}

func TestOrderCreated_SinTokenDevuelve401(t *testing.T) {
	app := eventsApp(&stubOrderGateway{}, &stubSettlementGateway{})

	req := httptest.NewRequest("POST", "/api/events/orders", strings.NewReader(orderBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRefundIssued_DevuelveNumeroDeAbono(t *testing.T) {
	app := eventsApp(&stubOrderGateway{}, &stubSettlementGateway{})

	body := `{"reference":"ref-55","location":"MAIN","reason":"DEFECT",` +
		`"order":` + orderBody + `,` +
		`"items":[{"sku":"SKU-1","quantity":1,"price":"40"}],` +
		`"refund_amounts":{"SKU-1":"35.50"}}`
	status, ok, _ := postEvent(t, app, "/api/events/refunds", body)
	assert.Equal(t, fiber.StatusAccepted, status)
	assert.Equal(t, "created", ok.Status)
	assert.Equal(t, "CM-77", ok.CreditMemoNumber)
}

func TestSettlementReceived_Devuelve202(t *testing.T) {
	app := eventsApp(&stubOrderGateway{}, &stubSettlementGateway{})

	body := `{"order_number":"1001","order_type":"default","customer_no":"C-10",` +
		`"payment_currency":"EUR","balance_currency":"DKK",` +
		`"amount_payment":"100","amount_net":"97.10","amount_fee":"2.90"}`
	status, ok, _ := postEvent(t, app, "/api/events/settlements", body)
	assert.Equal(t, fiber.StatusAccepted, status)
	assert.Equal(t, "uploaded", ok.Status)
}
