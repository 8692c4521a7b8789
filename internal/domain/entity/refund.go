package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Relación de una línea reembolsada con un grupo de artículo compuesto.
const (
	GroupRelationNone   = ""
	GroupRelationParent = "parent" // placeholder a 0; nunca se publica
	GroupRelationChild  = "child"
)

// RefundLine una línea reembolsada.
type RefundLine struct {
	SKU           string
	Name          string
	Quantity      int
	Price         decimal.Decimal
	Amount        decimal.Decimal // importe reembolsado de la línea
	GroupRelation string          // GroupRelationNone | Parent | Child
}

// Refund reembolso sobre un pedido; origina un abono (credit memo) en NAV.
type Refund struct {
	Reference        string // referencia del reembolso; yourReference en NAV
	RefundedAt       time.Time
	Location         string // locationCode de las líneas del abono
	Reason           string // returnReasonCode
	Items            []RefundLine
	Shipping         decimal.Decimal // envío reembolsado (bruto)
	ShippingExclTax  decimal.Decimal // envío reembolsado sin impuesto
	SalesTax         decimal.Decimal // impuesto total reembolsado
	SalesTaxByRegion map[string]decimal.Decimal
	CreditMemoNumber string // asignado por NAV al crear el abono
}
