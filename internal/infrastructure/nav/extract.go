package nav

import (
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nav-gateway/internal/domain"
)

// Extracción de resultados de las respuestas del gateway. NAV devuelve formas
// heterogéneas: escalares bajo <Metodo>_Result, listas repetidas bajo un
// contenedor con nombre propio y registros de página bajo ReadMultiple_Result.
// La búsqueda ignora namespaces: se compara solo el nombre local.

// findLocal primera aparición (en profundidad) del elemento con ese nombre local.
func findLocal(root *etree.Element, name string) *etree.Element {
	if root == nil {
		return nil
	}
	if root.Tag == name {
		return root
	}
	for _, child := range root.ChildElements() {
		if found := findLocal(child, name); found != nil {
			return found
		}
	}
	return nil
}

// resultValue localiza <Metodo>_Result y devuelve su primer hijo, que es el
// elemento que porta el valor de retorno.
func resultValue(doc *etree.Document, operation string) (*etree.Element, error) {
	element := operation + "_Result"
	result := findLocal(doc.Root(), element)
	if result == nil {
		return nil, &domain.ParseError{Operation: operation, Element: element}
	}
	children := result.ChildElements()
	if len(children) == 0 {
		return nil, &domain.ParseError{Operation: operation, Element: element}
	}
	return children[0], nil
}

func extractBool(doc *etree.Document, operation string) (bool, error) {
	value, err := resultValue(doc, operation)
	if err != nil {
		return false, err
	}
	return value.Text() == "true", nil
}

func extractString(doc *etree.Document, operation string) (string, error) {
	value, err := resultValue(doc, operation)
	if err != nil {
		return "", err
	}
	return value.Text(), nil
}

func extractDecimal(doc *etree.Document, operation string) (decimal.Decimal, error) {
	value, err := resultValue(doc, operation)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(value.Text())
	if err != nil {
		return decimal.Zero, &domain.ParseError{Operation: operation, Element: operation + "_Result"}
	}
	return d, nil
}

// record mapa nombre-local→texto de los hijos de un elemento.
func record(entry *etree.Element) map[string]string {
	values := make(map[string]string, len(entry.ChildElements()))
	for _, child := range entry.ChildElements() {
		values[child.Tag] = child.Text()
	}
	return values
}

// recordList registros bajo un contenedor con nombre propio (GetCustomers →
// customers, GetTransactions → transactions, ...).
func recordList(doc *etree.Document, operation, container string) ([]map[string]string, error) {
	parent := findLocal(doc.Root(), container)
	if parent == nil {
		return nil, &domain.ParseError{Operation: operation, Element: container}
	}
	entries := parent.ChildElements()
	records := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		records = append(records, record(entry))
	}
	return records, nil
}

// resultRecordList registros de una página: ReadMultiple_Result envuelve la
// lista un nivel más adentro. Sin coincidencias NAV devuelve el elemento
// exterior sin hijos; eso es lista vacía, no respuesta malformada.
func resultRecordList(doc *etree.Document, operation string) ([]map[string]string, error) {
	element := operation + "_Result"
	result := findLocal(doc.Root(), element)
	if result == nil {
		return nil, &domain.ParseError{Operation: operation, Element: element}
	}
	children := result.ChildElements()
	if len(children) == 0 {
		return []map[string]string{}, nil
	}
	entries := children[0].ChildElements()
	records := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		records = append(records, record(entry))
	}
	return records, nil
}

// singleRecord exige exactamente un registro; 0 o varios es resultado ambiguo.
func singleRecord(records []map[string]string, endpoint string, filters map[string]string) (map[string]string, error) {
	if len(records) != 1 {
		return nil, &domain.AmbiguousResultError{Count: len(records), Endpoint: endpoint, Filters: filters}
	}
	return records[0], nil
}
