package nav

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nav-gateway/internal/domain"
	"github.com/jhoicas/nav-gateway/internal/domain/entity"
	"github.com/jhoicas/nav-gateway/pkg/config"
	"github.com/jhoicas/nav-gateway/pkg/logger"
)

// Formatos de fecha del gateway. Los pedidos viajan MM-DD-YYYY; las
// operaciones de publicación usan ISO; el histórico llega MM/DD/YY.
const (
	dateLayoutOrder       = "01-02-2006"
	dateLayoutPosting     = "2006-01-02"
	dateLayoutTransaction = "01/02/06"
)

// erpTimezone zona horaria local del ERP; toda fecha se normaliza aquí antes
// de formatearse.
const erpTimezone = "Europe/Copenhagen"

// Client fachada del gateway NAV: un método por operación remota. Es sin
// estado por llamada; se construye una vez por proceso y la inyecta el
// orquestador. Seguro para uso concurrente, pero no ofrece
// compare-and-create: el caller debe serializar las creaciones por clave de
// negocio.
type Client struct {
	transport       *transport
	prefix          string
	shippingAccount string
	loc             *time.Location
	log             *logger.Logger
}

// NewClient valida configuración y tabla de esquemas y construye la fachada.
func NewClient(cfg config.NAVConfig, log *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateSchema(); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(erpTimezone)
	if err != nil {
		return nil, fmt.Errorf("nav: cargar zona horaria %s: %w", erpTimezone, err)
	}
	return &Client{
		transport:       newTransport(cfg.BaseURL, cfg.Username, cfg.Password, log),
		prefix:          cfg.OrderNumberPrefix,
		shippingAccount: cfg.ShippingAccount,
		loc:             loc,
		log:             log,
	}, nil
}

// DocumentNumber antepone el prefijo configurado a un número de documento.
func (c *Client) DocumentNumber(number string) string {
	return c.prefix + number
}

func (c *Client) formatOrderDate(t time.Time) string {
	return t.In(c.loc).Format(dateLayoutOrder)
}

func (c *Client) formatPostingDate(t time.Time) string {
	return t.In(c.loc).Format(dateLayoutPosting)
}

// call serializa, envía y parsea una operación de codeunit.
func (c *Client) call(ctx context.Context, operation string, node Node) (*etree.Document, error) {
	schema, err := schemaFor(operation)
	if err != nil {
		return nil, err
	}
	return c.dispatch(ctx, operation, schema.Namespace, schema.Endpoint, node)
}

// dispatch variante con namespace y endpoint explícitos (páginas).
func (c *Client) dispatch(ctx context.Context, operation, namespace, endpoint string, node Node) (*etree.Document, error) {
	envelope, err := buildEnvelope(namespace, node)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.send(ctx, operation, envelope, endpoint)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, &domain.ParseError{Operation: operation, Element: "Envelope"}
	}
	return doc, nil
}

func (c *Client) callBool(ctx context.Context, operation string, node Node) (bool, error) {
	doc, err := c.call(ctx, operation, node)
	if err != nil {
		return false, err
	}
	return extractBool(doc, operation)
}

func (c *Client) callString(ctx context.Context, operation string, node Node) (string, error) {
	doc, err := c.call(ctx, operation, node)
	if err != nil {
		return "", err
	}
	return extractString(doc, operation)
}

func (c *Client) callDecimal(ctx context.Context, operation string, node Node) (decimal.Decimal, error) {
	doc, err := c.call(ctx, operation, node)
	if err != nil {
		return decimal.Zero, err
	}
	return extractDecimal(doc, operation)
}

// ── Maestros ──────────────────────────────────────────────────────────────────

// GetCustomers lee el maestro de clientes.
func (c *Client) GetCustomers(ctx context.Context) ([]entity.Customer, error) {
	doc, err := c.call(ctx, "GetCustomers", qgroup("GetCustomers", qgroup("customers")))
	if err != nil {
		return nil, err
	}
	records, err := recordList(doc, "GetCustomers", "customers")
	if err != nil {
		return nil, err
	}
	customers := make([]entity.Customer, 0, len(records))
	for _, values := range records {
		customers = append(customers, entity.Customer{
			No:         values["No"],
			Department: values["Department"],
		})
	}
	return customers, nil
}

// GetItems lee el maestro de artículos.
func (c *Client) GetItems(ctx context.Context) ([]entity.Item, error) {
	doc, err := c.call(ctx, "GetItems", qgroup("GetItems", qgroup("items")))
	if err != nil {
		return nil, err
	}
	records, err := recordList(doc, "GetItems", "items")
	if err != nil {
		return nil, err
	}
	items := make([]entity.Item, 0, len(records))
	for _, values := range records {
		items = append(items, entity.Item{
			SKU:  values["No"],
			Name: values["Description"],
		})
	}
	return items, nil
}

// ── Inventario ────────────────────────────────────────────────────────────────

// GetInventory existencias de un SKU en un almacén.
func (c *Client) GetInventory(ctx context.Context, location, sku string) (int, error) {
	doc, err := c.call(ctx, "GetInventory", qgroup("GetInventory",
		qel("itemNo", sku),
		qel("locationCode", location),
	))
	if err != nil {
		return 0, err
	}
	raw, err := extractString(doc, "GetInventory")
	if err != nil {
		return 0, err
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ParseError{Operation: "GetInventory", Element: "GetInventory_Result"}
	}
	return qty, nil
}

// GetTransactions lee el histórico de movimientos a partir de un asiento.
// Lectura masiva con éxito parcial: un registro malformado se loguea y se
// omite en lugar de abortar; los asientos con entryNo 0 son relleno del
// buffer de NAV y se descartan en silencio.
func (c *Client) GetTransactions(ctx context.Context, location string, afterEntry, numEntries int) ([]entity.Transaction, error) {
	doc, err := c.call(ctx, "GetTransactions", qgroup("GetTransactions",
		qgroup("transactions"),
		qel("forLocation", location),
		qel("afterEntryNo", strconv.Itoa(afterEntry)),
		qel("noOfEntries", strconv.Itoa(numEntries)),
	))
	if err != nil {
		return nil, err
	}
	records, err := recordList(doc, "GetTransactions", "transactions")
	if err != nil {
		return nil, err
	}

	transactions := make([]entity.Transaction, 0, len(records))
	for _, values := range records {
		if values["entryNo"] == "0" {
			continue
		}
		trans, err := parseTransaction(values)
		if err != nil {
			c.log.Error().
				Err(err).
				Str("entry_no", values["entryNo"]).
				Str("quantity", values["Quantity"]).
				Msg("movimiento de NAV inválido, se omite")
			continue
		}
		transactions = append(transactions, trans)
	}
	return transactions, nil
}

func parseTransaction(values map[string]string) (entity.Transaction, error) {
	entryNo, err := strconv.Atoi(values["entryNo"])
	if err != nil {
		return entity.Transaction{}, &domain.ValidationError{Field: "entryNo", Value: values["entryNo"]}
	}
	date, err := time.Parse(dateLayoutTransaction, values["PostingDate"])
	if err != nil {
		return entity.Transaction{}, &domain.ValidationError{Field: "PostingDate", Value: values["PostingDate"]}
	}
	rawQty := values["Quantity"]
	if rawQty == "" {
		rawQty = "0"
	}
	qty, err := strconv.Atoi(strings.ReplaceAll(rawQty, ",", ""))
	if err != nil {
		return entity.Transaction{}, &domain.ValidationError{Field: "Quantity", Value: values["Quantity"]}
	}
	return entity.Transaction{
		DocumentNumber:         values["DocumentNo"],
		EntryNumber:            entryNo,
		Date:                   date,
		SKU:                    values["ItemNo"],
		Type:                   strings.ToLower(values["EntryType"]),
		Quantity:               qty,
		ExternalDocumentNumber: values["ExternalDocumentNo"],
	}, nil
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

// OrderExists comprobación de idempotencia previa a la creación del pedido.
func (c *Client) OrderExists(ctx context.Context, orderNumber string) (bool, error) {
	return c.callBool(ctx, "OrderExists", qgroup("OrderExists",
		qel("orderNo", c.DocumentNumber(orderNumber)),
	))
}

// PostedShipmentExists true si el pedido ya tiene un albarán publicado.
func (c *Client) PostedShipmentExists(ctx context.Context, orderNumber string) (bool, error) {
	return c.callBool(ctx, "PostedShipmentExists", qgroup("PostedShipmentExists",
		qel("orderNo", c.DocumentNumber(orderNumber)),
	))
}

// CreateOrder crea el pedido de venta. No es idempotente: el caller debe
// comprobar OrderExists / PostedShipmentExists antes.
func (c *Client) CreateOrder(ctx context.Context, order *entity.Order) error {
	_, err := c.call(ctx, "CreateOrder", c.orderNode(order))
	return err
}

// CancelOrder cancela un pedido no publicado.
func (c *Client) CancelOrder(ctx context.Context, orderNumber string) (bool, error) {
	return c.callBool(ctx, "CancelOrder", qgroup("CancelOrder",
		qel("orderNo", c.DocumentNumber(orderNumber)),
	))
}

// PostOrder publica el pedido con la fecha dada para registro, documento y envío.
func (c *Client) PostOrder(ctx context.Context, orderNumber string, date time.Time) (bool, error) {
	formatted := c.formatPostingDate(date)
	return c.callBool(ctx, "PostOrder", qgroup("PostOrder",
		qel("orderNo", c.DocumentNumber(orderNumber)),
		qel("postingDate", formatted),
		qel("documentDate", formatted),
		qel("shipmentDate", formatted),
	))
}

// ── Abonos ────────────────────────────────────────────────────────────────────

// CreditMemoExists comprobación de idempotencia por número de abono.
func (c *Client) CreditMemoExists(ctx context.Context, creditMemoNumber string) (bool, error) {
	return c.callBool(ctx, "CreditMemoExists", qgroup("CreditMemoExists",
		qel("cmNo", creditMemoNumber),
	))
}

// PostedCreditMemoExists true si el abono ya está publicado.
func (c *Client) PostedCreditMemoExists(ctx context.Context, creditMemoNumber string) (bool, error) {
	return c.callBool(ctx, "PostedCreditMemoExists", qgroup("PostedCreditMemoExists",
		qel("cmNo", creditMemoNumber),
	))
}

// FindCreditMemo busca un abono por referencia; found es false si NAV
// responde vacío.
func (c *Client) FindCreditMemo(ctx context.Context, reference string) (number string, found bool, err error) {
	number, err = c.callString(ctx, "FindCreditMemo", qgroup("FindCreditMemo",
		qel("yourReference", reference),
	))
	if err != nil {
		return "", false, err
	}
	return number, number != "", nil
}

// FindPostedCreditMemo como FindCreditMemo sobre abonos publicados.
func (c *Client) FindPostedCreditMemo(ctx context.Context, reference string) (number string, found bool, err error) {
	number, err = c.callString(ctx, "FindPostedCreditMemo", qgroup("FindPostedCreditMemo",
		qel("yourReference", reference),
	))
	if err != nil {
		return "", false, err
	}
	return number, number != "", nil
}

// CreateCreditMemo crea el abono del reembolso y devuelve el número que NAV
// le asigna (viaja en el cmNo del xmlport de respuesta).
func (c *Client) CreateCreditMemo(ctx context.Context, order *entity.Order, refund *entity.Refund) (string, error) {
	doc, err := c.call(ctx, "CreateCreditMemo", c.creditMemoNode(order, refund))
	if err != nil {
		return "", err
	}
	number := findLocal(doc.Root(), "cmNo")
	if number == nil || number.Text() == "" {
		return "", &domain.ParseError{Operation: "CreateCreditMemo", Element: "cmNo"}
	}
	return number.Text(), nil
}

// CancelCreditMemo cancela un abono no publicado.
func (c *Client) CancelCreditMemo(ctx context.Context, creditMemoNumber string) (bool, error) {
	return c.callBool(ctx, "CancelCreditMemo", qgroup("CancelCreditMemo",
		qel("cmNo", creditMemoNumber),
	))
}

// PostCreditMemo publica el abono en la fecha indicada.
func (c *Client) PostCreditMemo(ctx context.Context, creditMemoNumber string, postingDate time.Time) (bool, error) {
	formatted := c.formatPostingDate(postingDate)
	return c.callBool(ctx, "PostCreditMemo", qgroup("PostCreditMemo",
		qel("cmNo", creditMemoNumber),
		qel("postingDate", formatted),
		qel("documentDate", formatted),
	))
}

// ── Liquidaciones ─────────────────────────────────────────────────────────────

// ClearSettlements vacía el buffer de liquidaciones del ERP.
func (c *Client) ClearSettlements(ctx context.Context) error {
	_, err := c.call(ctx, "ClearSettlements", qgroup("ClearSettlements"))
	return err
}

// PostSettlement publica el buffer de liquidaciones cargado.
func (c *Client) PostSettlement(ctx context.Context) (bool, error) {
	return c.callBool(ctx, "PostSettlement", qgroup("PostSettlement"))
}

// GetUnappliedAmount importe sin aplicar de un cliente para un documento externo.
func (c *Client) GetUnappliedAmount(ctx context.Context, customerNo, externalDocNo string) (decimal.Decimal, error) {
	return c.callDecimal(ctx, "GetUnappliedAmount", qgroup("GetUnappliedAmount",
		qel("custNo", customerNo),
		qel("externalDocumentNo", externalDocNo),
	))
}

// GetAppliedAmount importe aplicado para un documento externo y una referencia de pago.
func (c *Client) GetAppliedAmount(ctx context.Context, customerNo, externalDocNo, paymentReference string) (decimal.Decimal, error) {
	return c.callDecimal(ctx, "GetAppliedAmount", qgroup("GetAppliedAmount",
		qel("custNo", customerNo),
		qel("externalDocumentNo", externalDocNo),
		qel("paymentReference", paymentReference),
	))
}
