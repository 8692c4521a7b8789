package nav

import (
	"context"
	"sort"
	"time"
)

// CRUD genérico de páginas de configuración de impuestos. Create fusiona los
// campos del caller sobre una tabla de defaults fija; las lecturas unen
// filtros de igualdad exacta en la consulta remota.

// pageField par ordenado nombre→valor; el orden de los elementos en el XML
// sigue el de la tabla de defaults.
type pageField struct {
	Name  string
	Value string
}

// mergeDefaults aplica los valores del caller sobre los defaults, conservando
// el orden de la tabla.
func mergeDefaults(defaults []pageField, params map[string]string) []pageField {
	merged := make([]pageField, len(defaults))
	copy(merged, defaults)
	for i, field := range merged {
		if value, ok := params[field.Name]; ok && value != "" {
			merged[i].Value = value
		}
	}
	return merged
}

// createPage operación Create de una página: todos los elementos van en el
// namespace propio de la página. Devuelve el registro creado tal como lo
// confirma NAV.
func (c *Client) createPage(ctx context.Context, page pageSchema, fields []pageField) (map[string]string, error) {
	attrs := make([]Node, 0, len(fields))
	for _, field := range fields {
		attrs = append(attrs, qel(field.Name, field.Value))
	}
	node := qgroup("Create", qgroup(page.Entity, attrs...))

	doc, err := c.dispatch(ctx, "Create", page.Namespace, page.Endpoint, node)
	if err != nil {
		return nil, err
	}
	created, err := resultValue(doc, "Create")
	if err != nil {
		return nil, err
	}
	return record(created), nil
}

// readMultiple operación ReadMultiple con filtros de igualdad exacta.
func (c *Client) readMultiple(ctx context.Context, page pageSchema, filters map[string]string) ([]map[string]string, error) {
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	filterNodes := make([]Node, 0, len(fields))
	for _, field := range fields {
		filterNodes = append(filterNodes, qgroup("filter",
			qel("Field", field),
			qel("Criteria", filters[field]),
		))
	}
	node := qgroup("ReadMultiple", filterNodes...)

	doc, err := c.dispatch(ctx, "ReadMultiple", page.Namespace, page.Endpoint, node)
	if err != nil {
		return nil, err
	}
	return resultRecordList(doc, "ReadMultiple")
}

// readSingle lectura que debe casar exactamente un registro.
func (c *Client) readSingle(ctx context.Context, page pageSchema, filters map[string]string) (map[string]string, error) {
	records, err := c.readMultiple(ctx, page, filters)
	if err != nil {
		return nil, err
	}
	return singleRecord(records, page.Endpoint, filters)
}

// ── Tax Groups ────────────────────────────────────────────────────────────────

// CreateTaxGroup crea un grupo de impuestos.
func (c *Client) CreateTaxGroup(ctx context.Context, code, description string) (map[string]string, error) {
	return c.createPage(ctx, taxPages["TaxGroup"], []pageField{
		{"Code", code},
		{"Description", description},
	})
}

// GetTaxGroup lee un grupo por código; falla si no casa exactamente uno.
func (c *Client) GetTaxGroup(ctx context.Context, code string) (map[string]string, error) {
	return c.readSingle(ctx, taxPages["TaxGroup"], map[string]string{"Code": code})
}

// ListTaxGroups lista grupos con filtros opcionales.
func (c *Client) ListTaxGroups(ctx context.Context, filters map[string]string) ([]map[string]string, error) {
	return c.readMultiple(ctx, taxPages["TaxGroup"], filters)
}

// ── Tax Areas ─────────────────────────────────────────────────────────────────

// CreateTaxArea crea un área de impuestos.
func (c *Client) CreateTaxArea(ctx context.Context, code, description string) (map[string]string, error) {
	return c.createPage(ctx, taxPages["TaxArea"], []pageField{
		{"Code", code},
		{"Description", description},
	})
}

// GetTaxArea lee un área por código.
func (c *Client) GetTaxArea(ctx context.Context, code string) (map[string]string, error) {
	return c.readSingle(ctx, taxPages["TaxArea"], map[string]string{"Code": code})
}

// ListTaxAreas lista áreas con filtros opcionales.
func (c *Client) ListTaxAreas(ctx context.Context, filters map[string]string) ([]map[string]string, error) {
	return c.readMultiple(ctx, taxPages["TaxArea"], filters)
}

// ── Tax Area Lines ────────────────────────────────────────────────────────────

// CreateTaxAreaLine vincula un área con una jurisdicción.
func (c *Client) CreateTaxAreaLine(ctx context.Context, taxArea, jurisdictionCode, calculationOrder string) (map[string]string, error) {
	return c.createPage(ctx, taxPages["TaxAreaLine"], []pageField{
		{"Tax_Area", taxArea},
		{"Tax_Jurisdiction_Code", jurisdictionCode},
		{"Calculation_Order", calculationOrder},
	})
}

// GetTaxAreaLine lee una línea de área por sus tres claves.
func (c *Client) GetTaxAreaLine(ctx context.Context, taxArea, jurisdictionCode, calculationOrder string) (map[string]string, error) {
	return c.readSingle(ctx, taxPages["TaxAreaLine"], map[string]string{
		"Tax_Area":              taxArea,
		"Tax_Jurisdiction_Code": jurisdictionCode,
		"Calculation_Order":     calculationOrder,
	})
}

// ListTaxAreaLines lista líneas de área con filtros opcionales.
func (c *Client) ListTaxAreaLines(ctx context.Context, filters map[string]string) ([]map[string]string, error) {
	return c.readMultiple(ctx, taxPages["TaxAreaLine"], filters)
}

// ── Tax Details ───────────────────────────────────────────────────────────────

// taxDetailDefaults tabla fija de defaults de TaxDetail; el caller sobrescribe
// por nombre.
func taxDetailDefaults() []pageField {
	return []pageField{
		{"Tax_Jurisdiction_Code", "Code"},
		{"Tax_Group_Code", "Code"},
		{"Tax_Type", "Sales_Tax"},
		{"Maximum_Amount_Qty", "0.0"},
		{"Tax_Below_Maximum", "0.0"},
		{"Tax_Above_Maximum", "0.0"},
		{"Effective_Date", time.Now().Format(dateLayoutPosting)},
		{"Calculate_Tax_on_Tax", "false"},
	}
}

// CreateTaxDetail crea un detalle de impuesto fusionando params sobre defaults.
func (c *Client) CreateTaxDetail(ctx context.Context, params map[string]string) (map[string]string, error) {
	return c.createPage(ctx, taxPages["TaxDetail"], mergeDefaults(taxDetailDefaults(), params))
}

// GetTaxDetail lee un detalle por grupo y jurisdicción.
func (c *Client) GetTaxDetail(ctx context.Context, groupCode, jurisdictionCode string) (map[string]string, error) {
	return c.readSingle(ctx, taxPages["TaxDetail"], map[string]string{
		"Tax_Group_Code":        groupCode,
		"Tax_Jurisdiction_Code": jurisdictionCode,
	})
}

// ListTaxDetails lista detalles con filtros opcionales.
func (c *Client) ListTaxDetails(ctx context.Context, filters map[string]string) ([]map[string]string, error) {
	return c.readMultiple(ctx, taxPages["TaxDetail"], filters)
}

// ── Tax Jurisdictions ─────────────────────────────────────────────────────────

func taxJurisdictionDefaults() []pageField {
	return []pageField{
		{"Code", "Code"},
		{"Description", "Description"},
		{"Tax_Account_Sales", ""},
		{"Tax_Account_Purchases", ""},
		{"Report_to_Jurisdiction", ""},
	}
}

// CreateTaxJurisdiction crea una jurisdicción fusionando params sobre defaults.
func (c *Client) CreateTaxJurisdiction(ctx context.Context, params map[string]string) (map[string]string, error) {
	return c.createPage(ctx, taxPages["TaxJurisdiction"], mergeDefaults(taxJurisdictionDefaults(), params))
}

// GetTaxJurisdiction lee una jurisdicción por código.
func (c *Client) GetTaxJurisdiction(ctx context.Context, code string) (map[string]string, error) {
	return c.readSingle(ctx, taxPages["TaxJurisdiction"], map[string]string{"Code": code})
}

// ListTaxJurisdictions lista jurisdicciones con filtros opcionales.
func (c *Client) ListTaxJurisdictions(ctx context.Context, filters map[string]string) ([]map[string]string, error) {
	return c.readMultiple(ctx, taxPages["TaxJurisdiction"], filters)
}
