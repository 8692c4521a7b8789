// Package event define los payloads de eventos de negocio que entrega el bus
// upstream. El contrato sigue evolucionando en el lado emisor; aquí solo se
// modela lo que los casos de uso necesitan leer.
package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddressPayload dirección tal como viaja en el evento.
type AddressPayload struct {
	Company           string `json:"company"`
	Name              string `json:"name"`
	Line1             string `json:"line1"`
	Line2             string `json:"line2"`
	Postcode          string `json:"postcode"`
	City              string `json:"city"`
	SubdivisionAbbrev string `json:"subdivision_abbrev"`
	CountryCode       string `json:"country_code"`
}

// LinePayload línea de pedido o reembolso.
type LinePayload struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	Group         string          `json:"group,omitempty"`          // standalone | composite_child | bundle_child
	GroupRelation string          `json:"group_relation,omitempty"` // parent | child (solo reembolsos)
}

// OrderCreated evento de pedido creado en la tienda.
type OrderCreated struct {
	OrderID          string                     `json:"order_id"`
	OrderNumber      string                     `json:"order_number"`
	OrderType        string                     `json:"order_type"`
	CountryCode      string                     `json:"country_code"`
	Currency         string                     `json:"currency"`
	CustomerNo       string                     `json:"customer_no"`
	Department       string                     `json:"department"`
	PaymentTermsCode string                     `json:"payment_terms_code"`
	LocationCode     string                     `json:"location_code"`
	Phone            string                     `json:"phone"`
	Email            string                     `json:"email"`
	PaymentReference string                     `json:"payment_reference"`
	CreatedAt        time.Time                  `json:"created_at"`
	BillingAddress   AddressPayload             `json:"billing_address"`
	ShippingAddress  AddressPayload             `json:"shipping_address"`
	Standalone       []LinePayload              `json:"standalone_items"`
	CompositeChilds  []LinePayload              `json:"composite_children"`
	BundleChilds     []LinePayload              `json:"bundle_children"`
	ShippingName     string                     `json:"shipping_name"`
	ShippingPrice    decimal.Decimal            `json:"shipping_price"`
	ShippingTotal    decimal.Decimal            `json:"shipping_total"`
	ReportSalesTax   bool                       `json:"report_sales_tax"`
	SalesTaxByRegion map[string]decimal.Decimal `json:"sales_tax_by_region"`
	VATAccount       string                     `json:"vat_account"`
}

// RefundIssued evento de reembolso emitido sobre un pedido existente.
type RefundIssued struct {
	Order            OrderCreated               `json:"order"`
	Reference        string                     `json:"reference"`
	RefundedAt       time.Time                  `json:"refunded_at"`
	Location         string                     `json:"location"`
	Reason           string                     `json:"reason"`
	Items            []LinePayload              `json:"items"`
	Shipping         decimal.Decimal            `json:"shipping"`
	ShippingExclTax  decimal.Decimal            `json:"shipping_excl_tax"`
	SalesTax         decimal.Decimal            `json:"sales_tax"`
	SalesTaxByRegion map[string]decimal.Decimal `json:"sales_tax_by_region"`
	RefundAmounts    map[string]decimal.Decimal `json:"refund_amounts"` // sku → importe reembolsado
}

// SettlementReceived evento de liquidación de la pasarela de pago.
type SettlementReceived struct {
	OrderNumber     string          `json:"order_number"`
	OrderType       string          `json:"order_type"`
	CustomerNo      string          `json:"customer_no"`
	Department      string          `json:"department"`
	Timestamp       time.Time       `json:"timestamp"`
	Type            string          `json:"type"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
	PaymentCurrency string          `json:"payment_currency"`
	BalanceCurrency string          `json:"balance_currency"`
	AmountPayment   decimal.Decimal `json:"amount_payment"`
	AmountNet       decimal.Decimal `json:"amount_net"`
	AmountFee       decimal.Decimal `json:"amount_fee"`
	PaymentMethod   string          `json:"payment_method"`
	AccountMethod   string          `json:"account_method"`
	AccountFee      string          `json:"account_fee"`
	DepartmentFee   string          `json:"department_fee"`
	FeeOnly         bool            `json:"fee_only"` // true: lote de comisiones sin pedido asociado
}
