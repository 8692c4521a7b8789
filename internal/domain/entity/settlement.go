package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cuenta de un asiento de liquidación (doble partida en NAV).
const (
	AccountTypeCustomer = "CUSTOMER"
	AccountTypeBank     = "BANK"
	AccountTypeGL       = "GL"
)

// BalanceTransaction transacción de balance de la pasarela de pago. A partir
// de ella el mapper arma el lote de asientos de liquidación.
type BalanceTransaction struct {
	Timestamp   time.Time
	Type        string // tipo de transacción de la pasarela (charge, payout_fee, ...)
	Description string
	Reference   string // referencia de pago

	PaymentCurrency string // moneda en la que pagó el cliente
	BalanceCurrency string // moneda del balance de la pasarela

	AmountPayment decimal.Decimal // bruto cobrado al cliente
	AmountNet     decimal.Decimal // neto abonado por la pasarela
	AmountFee     decimal.Decimal // comisión del proveedor

	PaymentMethod string // identificador del método de pago del balance
	AccountMethod string // cuenta banco/pasarela en NAV
	AccountFee    string // cuenta G/L de comisiones en NAV
	DepartmentFee string // departamento de los asientos de comisión
}

// SettlementPosting un asiento del lote de liquidación, ya con los importes
// firmados según la convención de doble partida.
type SettlementPosting struct {
	PostingDate      time.Time
	Currency         string
	AccountType      string // AccountTypeCustomer | Bank | GL
	AccountNo        string
	Amount           decimal.Decimal
	Description      string
	ExternalDocNo    string
	Department       string
	PaymentReference string
}
