package nav

import (
	"strconv"

	"github.com/jhoicas/nav-gateway/internal/domain/entity"
)

// creditMemoNode árbol completo de CreateCreditMemo. El cmNo viaja vacío:
// lo asigna NAV y se recupera de la respuesta.
func (c *Client) creditMemoNode(o *entity.Order, r *entity.Refund) Node {
	header := group("cmHeader",
		el("cmNo", ""),
		el("externalDocNo", o.OrderNumber),
		el("yourReference", truncate(r.Reference, maxNameLen)),
		el("sellToCustomerNo", o.CustomerNo),
		el("orderDate", c.formatOrderDate(r.RefundedAt)),
		el("currency", o.CurrencyCode),
		el("department", o.Department),
	)

	return qgroup("CreateCreditMemo",
		qgroup("creditMemo",
			header,
			addressNode("billToAddress", o.BillingAddress),
			addressNode("shipToAddress", o.ShippingAddress),
			c.creditMemoLineList(o, r),
		),
	)
}

// creditMemoLineList líneas del abono. Las marcas de grupo compuesto (parent
// y child) no se publican nunca; una línea sin marca solo entra si su SKU
// está en el conjunto publicable del pedido. El envío solo si el importe
// reembolsado es mayor que cero; los impuestos solo con reporte activo e
// impuesto reembolsado total mayor que cero, una línea por región no nula.
func (c *Client) creditMemoLineList(o *entity.Order, r *entity.Refund) Node {
	postable := o.PostableSKUs()
	lines := make([]Node, 0, len(r.Items)+1)

	for _, item := range r.Items {
		if item.GroupRelation != entity.GroupRelationNone {
			continue
		}
		if _, ok := postable[item.SKU]; !ok {
			continue
		}
		lines = append(lines, group("cmLine",
			el("lineType", lineTypeItem),
			el("itemNo", item.SKU),
			el("itemName", truncate(item.Name, maxItemNameLen)),
			el("quantity", strconv.Itoa(item.Quantity)),
			el("price", item.Price.String()),
			el("total", item.Amount.String()),
			el("locationCode", r.Location),
			el("returnReasonCode", r.Reason),
			el("salesTaxCode", ""),
		))
	}

	if r.Shipping.IsPositive() {
		lines = append(lines, group("cmLine",
			el("lineType", lineTypeGL),
			el("itemNo", c.shippingAccount),
			el("itemName", "Shipping"),
			el("quantity", "1"),
			el("price", r.ShippingExclTax.String()),
			el("total", r.ShippingExclTax.String()),
			el("locationCode", r.Location),
			el("returnReasonCode", r.Reason),
			el("salesTaxCode", ""),
		))
	}

	if o.ReportSalesTax && r.SalesTax.IsPositive() {
		for _, region := range sortedRegions(r.SalesTaxByRegion) {
			tax := r.SalesTaxByRegion[region]
			if tax.IsZero() {
				continue
			}
			lines = append(lines, group("cmLine",
				el("lineType", lineTypeGL),
				el("itemNo", o.VATAccount),
				el("itemName", "Sales Tax"),
				el("quantity", "1"),
				el("price", tax.String()),
				el("total", tax.String()),
				el("locationCode", r.Location),
				el("returnReasonCode", r.Reason),
				el("salesTaxCode", region),
			))
		}
	}

	return group("cmLineList", lines...)
}
