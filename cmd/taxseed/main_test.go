package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSeedFile_ParseaTodasLasSecciones(t *testing.T) {
	raw := []byte(`
groups:
  - code: FURNITURE
    description: Muebles
jurisdictions:
  - code: IL
    description: Illinois
    tax_account_sales: "5820"
areas:
  - code: IL-CHICAGO
    description: Chicago
area_lines:
  - tax_area: IL-CHICAGO
    jurisdiction: IL
    calculation_order: "1"
details:
  - jurisdiction: IL
    group: FURNITURE
    tax_below_maximum: "6.25"
`)

	var seed seedFile
	require.NoError(t, yaml.Unmarshal(raw, &seed))

	require.Len(t, seed.Groups, 1)
	assert.Equal(t, "FURNITURE", seed.Groups[0].Code)
	require.Len(t, seed.Jurisdictions, 1)
	assert.Equal(t, "5820", seed.Jurisdictions[0].TaxAccountSales)
	require.Len(t, seed.AreaLines, 1)
	assert.Equal(t, "1", seed.AreaLines[0].CalculationOrder)
	require.Len(t, seed.Details, 1)
	assert.Equal(t, "6.25", seed.Details[0].TaxBelowMaximum)
}
