package nav

import (
	"fmt"
	"strings"
)

// Namespaces del gateway SOAP de Dynamics NAV.
const (
	nsSOAPEnv = "http://schemas.xmlsoap.org/soap/envelope/"

	// NsGateway namespace del codeunit genérico de negocio.
	NsGateway = "urn:microsoft-dynamics-schemas/codeunit/Gateway"

	// nsCreditMemoPort namespace del xmlport que devuelve el número de abono asignado.
	nsCreditMemoPort = "urn:microsoft-dynamics-nav/xmlports/x50012"

	nsPageBase = "urn:microsoft-dynamics-schemas/page/"

	// EndpointGateway endpoint por defecto de las operaciones de codeunit.
	EndpointGateway = "Codeunit/Gateway"
)

// operationSchema entrada de la tabla estática operación→namespace→endpoint.
// Los nombres de elemento salen de los mappers, nunca de reflexión dinámica;
// esta tabla existe para que un nombre de operación mal tecleado falle al
// construir el cliente y no produciendo XML malformado en plena llamada.
type operationSchema struct {
	Namespace string
	Endpoint  string
}

// Operaciones del codeunit Gateway. Todas comparten namespace y endpoint.
var gatewayOperations = map[string]operationSchema{
	"GetCustomers":           {NsGateway, EndpointGateway},
	"GetItems":               {NsGateway, EndpointGateway},
	"GetInventory":           {NsGateway, EndpointGateway},
	"GetTransactions":        {NsGateway, EndpointGateway},
	"OrderExists":            {NsGateway, EndpointGateway},
	"PostedShipmentExists":   {NsGateway, EndpointGateway},
	"CreateOrder":            {NsGateway, EndpointGateway},
	"CancelOrder":            {NsGateway, EndpointGateway},
	"PostOrder":              {NsGateway, EndpointGateway},
	"CreditMemoExists":       {NsGateway, EndpointGateway},
	"PostedCreditMemoExists": {NsGateway, EndpointGateway},
	"FindCreditMemo":         {NsGateway, EndpointGateway},
	"FindPostedCreditMemo":   {NsGateway, EndpointGateway},
	"CreateCreditMemo":       {NsGateway, EndpointGateway},
	"CancelCreditMemo":       {NsGateway, EndpointGateway},
	"PostCreditMemo":         {NsGateway, EndpointGateway},
	"UploadSettlement":       {NsGateway, EndpointGateway},
	"ClearSettlements":       {NsGateway, EndpointGateway},
	"PostSettlement":         {NsGateway, EndpointGateway},
	"GetUnappliedAmount":     {NsGateway, EndpointGateway},
	"GetAppliedAmount":       {NsGateway, EndpointGateway},
}

// pageSchema entrada de la tabla de páginas (CRUD de entidad).
type pageSchema struct {
	Entity    string
	Namespace string
	Endpoint  string
}

// Páginas de configuración de impuestos. Cada una tiene su propio namespace.
var taxPages = map[string]pageSchema{
	"TaxGroup":        {"TaxGroup", nsPageBase + "taxgroup", "Page/TaxGroup"},
	"TaxArea":         {"TaxArea", nsPageBase + "taxarea", "Page/TaxArea"},
	"TaxAreaLine":     {"TaxAreaLine", nsPageBase + "taxarealine", "Page/TaxAreaLine"},
	"TaxDetail":       {"TaxDetail", nsPageBase + "taxdetail", "Page/TaxDetail"},
	"TaxJurisdiction": {"TaxJurisdiction", nsPageBase + "taxjurisdiction", "Page/TaxJurisdiction"},
}

// validateSchema comprueba la tabla completa al construir el cliente.
func validateSchema() error {
	for name, op := range gatewayOperations {
		if name == "" || op.Namespace == "" || op.Endpoint == "" {
			return fmt.Errorf("nav: operación de codeunit %q incompleta en la tabla de esquemas", name)
		}
	}
	for name, page := range taxPages {
		if page.Entity == "" || page.Namespace == "" || page.Endpoint == "" {
			return fmt.Errorf("nav: página %q incompleta en la tabla de esquemas", name)
		}
		if !strings.HasPrefix(page.Namespace, nsPageBase) {
			return fmt.Errorf("nav: página %q con namespace fuera de %s", name, nsPageBase)
		}
		if !strings.HasPrefix(page.Endpoint, "Page/") {
			return fmt.Errorf("nav: página %q con endpoint fuera de Page/", name)
		}
	}
	return nil
}

// schemaFor devuelve la entrada de la tabla para una operación de codeunit.
func schemaFor(operation string) (operationSchema, error) {
	op, ok := gatewayOperations[operation]
	if !ok {
		return operationSchema{}, fmt.Errorf("nav: operación %q no registrada en la tabla de esquemas", operation)
	}
	return op, nil
}
