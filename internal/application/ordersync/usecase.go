package ordersync

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/nav-gateway/internal/domain/entity"
	"github.com/jhoicas/nav-gateway/internal/domain/event"
	"github.com/jhoicas/nav-gateway/pkg/logger"
)

// UseCase sincroniza eventos de pedido y reembolso con NAV. El cliente no
// ofrece compare-and-create, así que el flujo comprueba existencia antes de
// crear; el bus upstream serializa los eventos por número de pedido.
type UseCase struct {
	gw       Gateway
	vatCodes map[string]string // tabla estática país→grupo VAT
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. vatCodes es la tabla cargada una vez
// al arrancar (config.LoadVATCodes).
func NewUseCase(gw Gateway, vatCodes map[string]string, log *logger.Logger) *UseCase {
	return &UseCase{gw: gw, vatCodes: vatCodes, log: log}
}

// HandleOrderCreated crea el pedido en NAV salvo que ya exista o ya tenga un
// albarán publicado (no-op idempotente). Devuelve false cuando se omitió.
func (uc *UseCase) HandleOrderCreated(ctx context.Context, evt event.OrderCreated) (bool, error) {
	exists, err := uc.gw.OrderExists(ctx, evt.OrderNumber)
	if err != nil {
		return false, fmt.Errorf("ordersync: comprobar pedido %s: %w", evt.OrderNumber, err)
	}
	if exists {
		uc.log.Info().Str("order_number", evt.OrderNumber).Msg("pedido ya existe en NAV, se omite")
		return false, nil
	}

	shipped, err := uc.gw.PostedShipmentExists(ctx, evt.OrderNumber)
	if err != nil {
		return false, fmt.Errorf("ordersync: comprobar albarán de %s: %w", evt.OrderNumber, err)
	}
	if shipped {
		uc.log.Info().Str("order_number", evt.OrderNumber).Msg("pedido ya publicado en NAV, se omite")
		return false, nil
	}

	order := uc.mapOrder(evt)
	if err := uc.gw.CreateOrder(ctx, order); err != nil {
		return false, fmt.Errorf("ordersync: crear pedido %s: %w", evt.OrderNumber, err)
	}
	uc.log.Info().Str("order_number", evt.OrderNumber).Msg("pedido creado en NAV")
	return true, nil
}

// HandleRefundIssued crea el abono del reembolso si su referencia no existe ya
// como abono pendiente o publicado. Devuelve el número de abono y si se creó.
func (uc *UseCase) HandleRefundIssued(ctx context.Context, evt event.RefundIssued) (string, bool, error) {
	if number, found, err := uc.gw.FindCreditMemo(ctx, evt.Reference); err != nil {
		return "", false, fmt.Errorf("ordersync: buscar abono %s: %w", evt.Reference, err)
	} else if found {
		uc.log.Info().Str("reference", evt.Reference).Str("cm_no", number).Msg("abono ya existe, se omite")
		return number, false, nil
	}
	if number, found, err := uc.gw.FindPostedCreditMemo(ctx, evt.Reference); err != nil {
		return "", false, fmt.Errorf("ordersync: buscar abono publicado %s: %w", evt.Reference, err)
	} else if found {
		uc.log.Info().Str("reference", evt.Reference).Str("cm_no", number).Msg("abono ya publicado, se omite")
		return number, false, nil
	}

	order := uc.mapOrder(evt.Order)
	refund := mapRefund(evt)
	number, err := uc.gw.CreateCreditMemo(ctx, order, refund)
	if err != nil {
		return "", false, fmt.Errorf("ordersync: crear abono %s: %w", evt.Reference, err)
	}
	uc.log.Info().Str("reference", evt.Reference).Str("cm_no", number).Msg("abono creado en NAV")
	return number, true, nil
}

// mapOrder traduce el payload del evento al pedido de dominio. El grupo VAT
// sale de la tabla estática por país; país desconocido viaja vacío.
func (uc *UseCase) mapOrder(evt event.OrderCreated) *entity.Order {
	return &entity.Order{
		OrderNumber:      evt.OrderNumber,
		Type:             evt.OrderType,
		CustomerNo:       evt.CustomerNo,
		Department:       evt.Department,
		VATBusinessGroup: uc.vatCodes[strings.ToUpper(evt.CountryCode)],
		CurrencyCode:     evt.Currency,
		CreatedAt:        evt.CreatedAt,
		PaymentTermsCode: evt.PaymentTermsCode,
		LocationCode:     evt.LocationCode,
		Phone:            evt.Phone,
		Email:            evt.Email,
		PaymentReference: evt.PaymentReference,
		BillingAddress:   mapAddress(evt.BillingAddress),
		ShippingAddress:  mapAddress(evt.ShippingAddress),

		StandaloneItems:   mapLines(evt.Standalone),
		CompositeChildren: mapLines(evt.CompositeChilds),
		BundleChildren:    mapLines(evt.BundleChilds),
		Shipping: entity.ShippingMethod{
			Name:  evt.ShippingName,
			Price: evt.ShippingPrice,
			Total: evt.ShippingTotal,
		},

		ReportSalesTax:   evt.ReportSalesTax,
		SalesTaxByRegion: evt.SalesTaxByRegion,
		VATAccount:       evt.VATAccount,
	}
}

func mapAddress(a event.AddressPayload) entity.Address {
	return entity.Address{
		Company:           a.Company,
		Name:              a.Name,
		Line1:             a.Line1,
		Line2:             a.Line2,
		Postcode:          a.Postcode,
		City:              a.City,
		SubdivisionAbbrev: a.SubdivisionAbbrev,
		CountryCode:       a.CountryCode,
	}
}

func mapLines(lines []event.LinePayload) []entity.OrderLine {
	mapped := make([]entity.OrderLine, 0, len(lines))
	for _, l := range lines {
		mapped = append(mapped, entity.OrderLine{
			SKU:      l.SKU,
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.Price,
			Total:    l.Total,
		})
	}
	return mapped
}

func mapRefund(evt event.RefundIssued) *entity.Refund {
	items := make([]entity.RefundLine, 0, len(evt.Items))
	for _, l := range evt.Items {
		items = append(items, entity.RefundLine{
			SKU:           l.SKU,
			Name:          l.Name,
			Quantity:      l.Quantity,
			Price:         l.Price,
			Amount:        evt.RefundAmounts[l.SKU],
			GroupRelation: l.GroupRelation,
		})
	}
	return &entity.Refund{
		Reference:        evt.Reference,
		RefundedAt:       evt.RefundedAt,
		Location:         evt.Location,
		Reason:           evt.Reason,
		Items:            items,
		Shipping:         evt.Shipping,
		ShippingExclTax:  evt.ShippingExclTax,
		SalesTax:         evt.SalesTax,
		SalesTaxByRegion: evt.SalesTaxByRegion,
	}
}
