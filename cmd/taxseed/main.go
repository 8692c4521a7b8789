// taxseed carga la configuración de impuestos (grupos, jurisdicciones, áreas,
// líneas de área y detalles) en NAV a partir de un archivo YAML.
//
// Uso: go run ./cmd/taxseed --file tax_config.yaml
// La siembra es idempotente: cada código se busca antes de crear y se omite
// si ya existe.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/nav-gateway/internal/infrastructure/nav"
	"github.com/jhoicas/nav-gateway/pkg/config"
	"github.com/jhoicas/nav-gateway/pkg/logger"
)

// seedFile esquema del YAML de siembra.
type seedFile struct {
	Groups []struct {
		Code        string `yaml:"code"`
		Description string `yaml:"description"`
	} `yaml:"groups"`
	Jurisdictions []struct {
		Code                 string `yaml:"code"`
		Description          string `yaml:"description"`
		TaxAccountSales      string `yaml:"tax_account_sales"`
		TaxAccountPurchases  string `yaml:"tax_account_purchases"`
		ReportToJurisdiction string `yaml:"report_to_jurisdiction"`
	} `yaml:"jurisdictions"`
	Areas []struct {
		Code        string `yaml:"code"`
		Description string `yaml:"description"`
	} `yaml:"areas"`
	AreaLines []struct {
		TaxArea          string `yaml:"tax_area"`
		Jurisdiction     string `yaml:"jurisdiction"`
		CalculationOrder string `yaml:"calculation_order"`
	} `yaml:"area_lines"`
	Details []struct {
		Jurisdiction    string `yaml:"jurisdiction"`
		Group           string `yaml:"group"`
		TaxBelowMaximum string `yaml:"tax_below_maximum"`
		EffectiveDate   string `yaml:"effective_date"`
	} `yaml:"details"`
}

func main() {
	var file string

	root := &cobra.Command{
		Use:   "taxseed",
		Short: "Siembra la configuración de impuestos en NAV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), file)
		},
	}
	root.Flags().StringVar(&file, "file", "tax_config.yaml", "archivo YAML de configuración de impuestos")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, file string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("leer %s: %w", file, err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parsear %s: %w", file, err)
	}

	client, err := nav.NewClient(cfg.NAV, log)
	if err != nil {
		return fmt.Errorf("cliente NAV: %w", err)
	}

	for _, g := range seed.Groups {
		existing, err := client.ListTaxGroups(ctx, map[string]string{"Code": g.Code})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			log.Info().Str("code", g.Code).Msg("tax group ya existe, se omite")
			continue
		}
		if _, err := client.CreateTaxGroup(ctx, g.Code, g.Description); err != nil {
			return err
		}
		log.Info().Str("code", g.Code).Msg("tax group creado")
	}

	for _, j := range seed.Jurisdictions {
		existing, err := client.ListTaxJurisdictions(ctx, map[string]string{"Code": j.Code})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			log.Info().Str("code", j.Code).Msg("tax jurisdiction ya existe, se omite")
			continue
		}
		if _, err := client.CreateTaxJurisdiction(ctx, map[string]string{
			"Code":                   j.Code,
			"Description":            j.Description,
			"Tax_Account_Sales":      j.TaxAccountSales,
			"Tax_Account_Purchases":  j.TaxAccountPurchases,
			"Report_to_Jurisdiction": j.ReportToJurisdiction,
		}); err != nil {
			return err
		}
		log.Info().Str("code", j.Code).Msg("tax jurisdiction creada")
	}

	for _, a := range seed.Areas {
		existing, err := client.ListTaxAreas(ctx, map[string]string{"Code": a.Code})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			log.Info().Str("code", a.Code).Msg("tax area ya existe, se omite")
			continue
		}
		if _, err := client.CreateTaxArea(ctx, a.Code, a.Description); err != nil {
			return err
		}
		log.Info().Str("code", a.Code).Msg("tax area creada")
	}

	for _, l := range seed.AreaLines {
		existing, err := client.ListTaxAreaLines(ctx, map[string]string{
			"Tax_Area":              l.TaxArea,
			"Tax_Jurisdiction_Code": l.Jurisdiction,
		})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			log.Info().Str("tax_area", l.TaxArea).Str("jurisdiction", l.Jurisdiction).Msg("tax area line ya existe, se omite")
			continue
		}
		if _, err := client.CreateTaxAreaLine(ctx, l.TaxArea, l.Jurisdiction, l.CalculationOrder); err != nil {
			return err
		}
		log.Info().Str("tax_area", l.TaxArea).Str("jurisdiction", l.Jurisdiction).Msg("tax area line creada")
	}

	for _, d := range seed.Details {
		existing, err := client.ListTaxDetails(ctx, map[string]string{
			"Tax_Group_Code":        d.Group,
			"Tax_Jurisdiction_Code": d.Jurisdiction,
		})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			log.Info().Str("group", d.Group).Str("jurisdiction", d.Jurisdiction).Msg("tax detail ya existe, se omite")
			continue
		}
		params := map[string]string{
			"Tax_Jurisdiction_Code": d.Jurisdiction,
			"Tax_Group_Code":        d.Group,
			"Tax_Below_Maximum":     d.TaxBelowMaximum,
		}
		if d.EffectiveDate != "" {
			params["Effective_Date"] = d.EffectiveDate
		}
		if _, err := client.CreateTaxDetail(ctx, params); err != nil {
			return err
		}
		log.Info().Str("group", d.Group).Str("jurisdiction", d.Jurisdiction).Msg("tax detail creado")
	}

	log.Info().Msg("siembra de impuestos completada")
	return nil
}
