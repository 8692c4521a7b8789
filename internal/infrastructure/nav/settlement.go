package nav

import (
	"context"
	"time"

	"golang.org/x/text/currency"

	"github.com/jhoicas/nav-gateway/internal/domain"
	"github.com/jhoicas/nav-gateway/internal/domain/entity"
)

// legacyFeeDepartment departamento fijo de los asientos de comisión anteriores
// al corte de 2018 en pedidos de tipo estándar.
const legacyFeeDepartment = "HQ-WEB.IT"

// maxDescriptionLen ancho de la columna de descripción del asiento.
const maxDescriptionLen = 50

// SettlementOrderRef datos mínimos del pedido que referencia una liquidación.
type SettlementOrderRef struct {
	OrderNumber string
	Type        string // entity.OrderTypeDefault u otros
	CustomerNo  string
	Department  string
}

func (c *Client) feeCutover() time.Time {
	return time.Date(2018, time.January, 1, 0, 0, 0, 0, c.loc)
}

func validCurrency(code string) error {
	if _, err := currency.ParseISO(code); err != nil {
		return &domain.ValidationError{Field: "Currency", Value: code}
	}
	return nil
}

// BuildOrderSettlementBatch asientos de doble partida de la liquidación de un
// pedido: débito al cliente siempre (−bruto); abono a la cuenta de la
// pasarela solo con neto distinto de cero; cargo a la cuenta de comisiones
// solo con comisión distinta de cero. Antes del corte de 2018 (hora local del
// ERP) las comisiones de pedidos de tipo estándar se imputan al departamento
// legado.
func (c *Client) BuildOrderSettlementBatch(ref SettlementOrderRef, tx entity.BalanceTransaction, postingDate time.Time) ([]entity.SettlementPosting, error) {
	if postingDate.IsZero() {
		postingDate = tx.Timestamp
	}
	if err := validCurrency(tx.PaymentCurrency); err != nil {
		return nil, err
	}
	if err := validCurrency(tx.BalanceCurrency); err != nil {
		return nil, err
	}

	postings := []entity.SettlementPosting{{
		PostingDate:      postingDate,
		Currency:         tx.PaymentCurrency,
		AccountType:      entity.AccountTypeCustomer,
		AccountNo:        ref.CustomerNo,
		Amount:           tx.AmountPayment.Neg(),
		Description:      tx.Description,
		ExternalDocNo:    ref.OrderNumber,
		Department:       ref.Department,
		PaymentReference: tx.Reference,
	}}

	if !tx.AmountNet.IsZero() {
		postings = append(postings, entity.SettlementPosting{
			PostingDate:      postingDate,
			Currency:         tx.BalanceCurrency,
			AccountType:      entity.AccountTypeBank,
			AccountNo:        tx.AccountMethod,
			Amount:           tx.AmountNet,
			Description:      tx.Description,
			ExternalDocNo:    ref.OrderNumber,
			Department:       ref.Department,
			PaymentReference: tx.Reference,
		})
	}

	if !tx.AmountFee.IsZero() {
		department := ref.Department
		if tx.Timestamp.In(c.loc).Before(c.feeCutover()) && ref.Type == entity.OrderTypeDefault {
			department = legacyFeeDepartment
		}
		postings = append(postings, entity.SettlementPosting{
			PostingDate:      postingDate,
			Currency:         tx.BalanceCurrency,
			AccountType:      entity.AccountTypeGL,
			AccountNo:        tx.AccountFee,
			Amount:           tx.AmountFee,
			Description:      tx.Description,
			ExternalDocNo:    ref.OrderNumber,
			Department:       department,
			PaymentReference: tx.Reference,
		})
	}

	return postings, nil
}

// BuildFeeSettlementBatch lote de comisiones sin pedido asociado: abono del
// neto a la cuenta de la pasarela y cargo del neto negado a la cuenta de
// comisiones, ambos contra el departamento de comisiones del balance.
func (c *Client) BuildFeeSettlementBatch(tx entity.BalanceTransaction, postingDate time.Time) ([]entity.SettlementPosting, error) {
	if postingDate.IsZero() {
		postingDate = tx.Timestamp
	}
	if err := validCurrency(tx.BalanceCurrency); err != nil {
		return nil, err
	}
	externalDocNo := tx.PaymentMethod + ": " + tx.Type
	description := truncate(tx.Description, maxDescriptionLen)

	return []entity.SettlementPosting{
		{
			PostingDate:      postingDate,
			Currency:         tx.BalanceCurrency,
			AccountType:      entity.AccountTypeBank,
			AccountNo:        tx.AccountMethod,
			Amount:           tx.AmountNet,
			Description:      description,
			ExternalDocNo:    externalDocNo,
			Department:       tx.DepartmentFee,
			PaymentReference: tx.Reference,
		},
		{
			PostingDate:      postingDate,
			Currency:         tx.BalanceCurrency,
			AccountType:      entity.AccountTypeGL,
			AccountNo:        tx.AccountFee,
			Amount:           tx.AmountNet.Neg(),
			Description:      description,
			ExternalDocNo:    externalDocNo,
			Department:       tx.DepartmentFee,
			PaymentReference: tx.Reference,
		},
	}, nil
}

// settlementNode árbol de UploadSettlement para un lote ya construido.
func (c *Client) settlementNode(postings []entity.SettlementPosting) Node {
	entries := make([]Node, 0, len(postings))
	for _, p := range postings {
		entries = append(entries, group("Settlement",
			el("PostingDate", c.formatOrderDate(p.PostingDate)),
			el("Currency", p.Currency),
			el("AccountType", p.AccountType),
			el("AccountNo", p.AccountNo),
			el("Amount", p.Amount.String()),
			el("Description", p.Description),
			el("ExternalDocNo", p.ExternalDocNo),
			el("Department", p.Department),
			el("PaymentReference", p.PaymentReference),
		))
	}
	return qgroup("UploadSettlement", qgroup("settlement", entries...))
}

// UploadOrderSettlementBatch construye y carga el lote de liquidación de un
// pedido. postingDate a cero usa el timestamp de la transacción.
func (c *Client) UploadOrderSettlementBatch(ctx context.Context, ref SettlementOrderRef, tx entity.BalanceTransaction, postingDate time.Time) error {
	postings, err := c.BuildOrderSettlementBatch(ref, tx, postingDate)
	if err != nil {
		return err
	}
	_, err = c.call(ctx, "UploadSettlement", c.settlementNode(postings))
	return err
}

// UploadFeeSettlementBatch construye y carga un lote de comisiones.
func (c *Client) UploadFeeSettlementBatch(ctx context.Context, tx entity.BalanceTransaction, postingDate time.Time) error {
	postings, err := c.BuildFeeSettlementBatch(tx, postingDate)
	if err != nil {
		return err
	}
	_, err = c.call(ctx, "UploadSettlement", c.settlementNode(postings))
	return err
}
