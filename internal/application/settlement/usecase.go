package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/nav-gateway/internal/domain/entity"
	"github.com/jhoicas/nav-gateway/internal/domain/event"
	"github.com/jhoicas/nav-gateway/internal/infrastructure/nav"
	"github.com/jhoicas/nav-gateway/pkg/logger"
)

// Gateway puerto de salida hacia las operaciones de liquidación del cliente NAV.
type Gateway interface {
	UploadOrderSettlementBatch(ctx context.Context, ref nav.SettlementOrderRef, tx entity.BalanceTransaction, postingDate time.Time) error
	UploadFeeSettlementBatch(ctx context.Context, tx entity.BalanceTransaction, postingDate time.Time) error
}

// UseCase carga lotes de liquidación en NAV a partir de los eventos de la
// pasarela de pago. Sin reintentos propios: UploadSettlement no es
// idempotente y la decisión de reintento es del bus.
type UseCase struct {
	gw  Gateway
	log *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(gw Gateway, log *logger.Logger) *UseCase {
	return &UseCase{gw: gw, log: log}
}

// HandleSettlement carga el lote correspondiente al evento: de comisiones si
// no referencia pedido, del pedido en caso contrario.
func (uc *UseCase) HandleSettlement(ctx context.Context, evt event.SettlementReceived) error {
	tx := entity.BalanceTransaction{
		Timestamp:       evt.Timestamp,
		Type:            evt.Type,
		Description:     evt.Description,
		Reference:       evt.Reference,
		PaymentCurrency: evt.PaymentCurrency,
		BalanceCurrency: evt.BalanceCurrency,
		AmountPayment:   evt.AmountPayment,
		AmountNet:       evt.AmountNet,
		AmountFee:       evt.AmountFee,
		PaymentMethod:   evt.PaymentMethod,
		AccountMethod:   evt.AccountMethod,
		AccountFee:      evt.AccountFee,
		DepartmentFee:   evt.DepartmentFee,
	}

	if evt.FeeOnly {
		if err := uc.gw.UploadFeeSettlementBatch(ctx, tx, time.Time{}); err != nil {
			return fmt.Errorf("settlement: cargar lote de comisiones %s: %w", evt.Reference, err)
		}
		uc.log.Info().Str("reference", evt.Reference).Msg("lote de comisiones cargado en NAV")
		return nil
	}

	ref := nav.SettlementOrderRef{
		OrderNumber: evt.OrderNumber,
		Type:        evt.OrderType,
		CustomerNo:  evt.CustomerNo,
		Department:  evt.Department,
	}
	if err := uc.gw.UploadOrderSettlementBatch(ctx, ref, tx, time.Time{}); err != nil {
		return fmt.Errorf("settlement: cargar liquidación de %s: %w", evt.OrderNumber, err)
	}
	uc.log.Info().Str("order_number", evt.OrderNumber).Str("reference", evt.Reference).Msg("liquidación cargada en NAV")
	return nil
}
