package nav

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nav-gateway/internal/domain/entity"
)

// Anchos máximos de las columnas de ancho fijo del esquema NAV.
const (
	maxNameLen     = 30
	maxAddressLen  = 30
	maxPostcodeLen = 25
	maxCityLen     = 30
	maxItemNameLen = 30
)

// Tipos de línea del pedido/abono en NAV.
const (
	lineTypeItem = "Item"
	lineTypeGL   = "G/L"
)

// truncate recorta a los primeros max caracteres (runas, no bytes).
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// cityField ciudad para la columna de 30: sin subdivisión se trunca a 30;
// con subdivisión se recorta a 30−len(abreviatura)−2 y se añade ", <abrev>".
// Una abreviatura que no deja ancho útil (viene del payload externo, sin
// validar) cae al truncado simple en vez de producir un ancho negativo.
func cityField(city, subdivisionAbbrev string) string {
	if city == "" {
		return ""
	}
	width := maxCityLen - len(subdivisionAbbrev) - 2
	if subdivisionAbbrev == "" || width <= 0 {
		return truncate(city, maxCityLen)
	}
	return truncate(city, width) + ", " + subdivisionAbbrev
}

// addressNode dirección del pedido/abono con las reglas de truncado aplicadas.
func addressNode(name string, a entity.Address) Node {
	display := a.Company
	if display == "" {
		display = a.Name
	}
	return group(name,
		el("name", truncate(display, maxNameLen)),
		el("address1", truncate(a.Line1, maxAddressLen)),
		el("address2", truncate(a.Line2, maxAddressLen)),
		el("postalNo", truncate(a.Postcode, maxPostcodeLen)),
		el("city", cityField(a.City, a.SubdivisionAbbrev)),
		el("county", a.SubdivisionAbbrev),
		el("country", a.CountryCode),
		el("contactName", truncate(a.Name, maxNameLen)),
	)
}

// sortedRegions claves de impuesto en orden estable para que el XML sea
// determinista (y comparable en tests golden).
func sortedRegions(byRegion map[string]decimal.Decimal) []string {
	regions := make([]string, 0, len(byRegion))
	for region := range byRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}

// orderNode árbol completo de CreateOrder: header, direcciones y líneas.
func (c *Client) orderNode(o *entity.Order) Node {
	reference := o.PaymentReference
	if reference == "" {
		reference = o.OrderNumber
	}
	header := group("header",
		el("orderNo", c.DocumentNumber(o.OrderNumber)),
		el("externalDocNo", o.OrderNumber),
		el("sellToCustomerNo", o.CustomerNo),
		el("department", o.Department),
		el("genBusPostingGroup", ""),
		el("vatBusPostingGroup", o.VATBusinessGroup),
		el("internalComment", ""),
		el("orderDate", c.formatOrderDate(o.CreatedAt)),
		el("currency", o.CurrencyCode),
		el("paymentTermsCode", o.PaymentTermsCode),
		el("locationCode", o.LocationCode),
		el("phoneNo", o.Phone),
		el("email", o.Email),
		el("yourReference", reference),
	)

	return qgroup("CreateOrder",
		qgroup("order",
			header,
			addressNode("billToAddress", o.BillingAddress),
			addressNode("shipToAddress", o.ShippingAddress),
			c.orderLineList(o),
		),
	)
}

// orderLineList compone las líneas en orden de publicación: artículos
// publicables, la línea de envío (siempre una) y una línea de impuesto por
// región con impuesto distinto de cero cuando el reporte está activo.
func (c *Client) orderLineList(o *entity.Order) Node {
	lines := make([]Node, 0, len(o.StandaloneItems)+len(o.CompositeChildren)+len(o.BundleChildren)+1)

	for _, item := range o.PostableLines() {
		lines = append(lines, group("orderLine",
			el("lineType", lineTypeItem),
			el("itemNo", item.SKU),
			el("itemName", truncate(item.Name, maxItemNameLen)),
			el("quantity", strconv.Itoa(item.Quantity)),
			el("price", item.Price.String()),
			el("total", item.Total.String()),
			el("salesTaxCode", ""),
		))
	}

	lines = append(lines, group("orderLine",
		el("lineType", lineTypeGL),
		el("itemNo", c.shippingAccount),
		el("itemName", o.Shipping.Name),
		el("quantity", "1"),
		el("price", o.Shipping.Price.String()),
		el("total", o.Shipping.Total.String()),
		el("salesTaxCode", ""),
	))

	if o.ReportSalesTax {
		for _, region := range sortedRegions(o.SalesTaxByRegion) {
			tax := o.SalesTaxByRegion[region]
			if tax.IsZero() {
				continue
			}
			lines = append(lines, group("orderLine",
				el("lineType", lineTypeGL),
				el("itemNo", o.VATAccount),
				el("itemName", "Sales Tax"),
				el("quantity", "1"),
				el("price", tax.String()),
				el("total", tax.String()),
				el("salesTaxCode", region),
			))
		}
	}

	return group("orderLineList", lines...)
}
