package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderTypeDefault es el tipo de pedido estándar de la tienda. Algunas reglas
// de liquidación (departamento de comisiones pre-2018) solo aplican a este tipo.
const OrderTypeDefault = "default"

// OrderLine una línea de artículo del pedido.
type OrderLine struct {
	SKU      string
	Name     string
	Quantity int
	Price    decimal.Decimal // precio de lista (MSRP) en moneda de cobro
	Total    decimal.Decimal // total con descuento en moneda de cobro
}

// ShippingMethod método de envío del pedido; siempre genera una línea G/L.
type ShippingMethod struct {
	Name  string
	Price decimal.Decimal // precio de lista
	Total decimal.Decimal // importe cobrado
}

// Order pedido listo para enviarse a NAV. Lo produce el mapeo del evento
// upstream; este cliente nunca lo persiste.
//
// Las líneas vienen separadas por grupo porque el orden de publicación
// importa: sueltos, luego hijos de artículo compuesto, luego hijos de bundle.
// Los padres de artículo compuesto (placeholders a 0) no se publican nunca.
type Order struct {
	OrderNumber      string // sin prefijo; el cliente antepone el configurado
	Type             string // OrderTypeDefault u otros
	CustomerNo       string // número de cliente NAV
	Department       string // dimensión departamento NAV
	VATBusinessGroup string // grupo registro IVA neg. (tabla país→VAT)
	CurrencyCode     string // moneda de cobro, ISO-4217
	CreatedAt        time.Time
	PaymentTermsCode string
	LocationCode     string
	Phone            string
	Email            string
	PaymentReference string // referencia del pago; yourReference en NAV

	BillingAddress  Address
	ShippingAddress Address

	StandaloneItems   []OrderLine
	CompositeChildren []OrderLine
	BundleChildren    []OrderLine
	Shipping          ShippingMethod

	ReportSalesTax   bool
	SalesTaxByRegion map[string]decimal.Decimal // código de región → impuesto
	VATAccount       string                     // cuenta G/L de IVA del país
}

// PostableLines devuelve las líneas en el orden de publicación.
func (o Order) PostableLines() []OrderLine {
	lines := make([]OrderLine, 0, len(o.StandaloneItems)+len(o.CompositeChildren)+len(o.BundleChildren))
	lines = append(lines, o.StandaloneItems...)
	lines = append(lines, o.CompositeChildren...)
	lines = append(lines, o.BundleChildren...)
	return lines
}

// PostableSKUs conjunto de SKUs publicables; los abonos lo usan para filtrar
// líneas que nunca llegaron a NAV.
func (o Order) PostableSKUs() map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range o.PostableLines() {
		set[line.SKU] = struct{}{}
	}
	return set
}
