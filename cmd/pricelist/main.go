// pricelist processes supplier price lists offline.
//
// Usage:
//
//	pricelist process --in supplier.xlsx [--catalog catalog.json] [--out import.xlsx] [--stats]
//	pricelist catalog pull --out catalog.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mauv0809/pricelist/internal/catalog"
	"github.com/mauv0809/pricelist/internal/config"
	"github.com/mauv0809/pricelist/internal/export"
	"github.com/mauv0809/pricelist/internal/ingest"
	"github.com/mauv0809/pricelist/internal/models"
	"github.com/mauv0809/pricelist/internal/pricelist"
	"github.com/mauv0809/pricelist/internal/reconcile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "pricelist",
		Usage:   "Classify supplier price changes and build product import sheets",
		Version: version,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: setupLogging,

		Commands: []*cli.Command{
			processCommand(),
			catalogCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(c *cli.Context) error {
	level, err := zerolog.ParseLevel(c.String("log-level"))
	if err != nil {
		return eris.Wrapf(err, "invalid log level %q", c.String("log-level"))
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

// =============================================================================
// PROCESS COMMAND
// =============================================================================

func processCommand() *cli.Command {
	return &cli.Command{
		Name:  "process",
		Usage: "Normalize, classify and optionally reconcile and export a price list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "in",
				Aliases:  []string{"i"},
				Usage:    "Supplier price list (.xlsx or .csv)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Catalog JSON to reconcile against (see: catalog pull)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write the product import sheet here (.xlsx or .csv)",
			},
			&cli.StringFlag{
				Name:    "aliases",
				Usage:   "YAML file with extra column aliases",
				EnvVars: []string{"ALIASES_FILE"},
			},
			&cli.BoolFlag{
				Name:  "stats",
				Value: false,
				Usage: "Print anomaly statistics and summary as JSON",
			},
		},
		Action: runProcess,
	}
}

func runProcess(c *cli.Context) error {
	ctx := c.Context

	aliases := pricelist.DefaultAliases
	if path := c.String("aliases"); path != "" {
		var err error
		if aliases, err = config.LoadAliases(path); err != nil {
			return err
		}
	}

	in := c.String("in")
	rows, err := ingest.ReadFile(ctx, in)
	if err != nil {
		return err
	}

	schema, records, err := pricelist.NewNormalizer(aliases).Build(rows)
	if err != nil {
		return eris.Wrapf(err, "process %s", in)
	}
	log.Info().Str("file", in).Str("schema", string(schema)).Int("rows", len(records)).Msg("price list processed")

	if path := c.String("catalog"); path != "" {
		catalogRecords, err := catalog.FileSource{Path: path}.FetchCatalog(ctx)
		if err != nil {
			return err
		}
		res := reconcile.Reconcile(records, catalogRecords)
		for _, key := range res.DuplicateKeys {
			log.Warn().Str("key", key).Msg("duplicate catalog key, first entry kept")
		}
		log.Info().Int("matched", res.Matched).Int("unmatched", res.Unmatched).Msg("catalog reconciled")
	}

	if out := c.String("out"); out != "" {
		if err := writeExport(out, records); err != nil {
			return err
		}
		log.Info().Str("file", out).Msg("import sheet written")
	}

	if c.Bool("stats") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"schema":    schema,
			"anomalies": pricelist.AggregateAnomalies(records),
			"summary":   pricelist.Summarize(records),
		})
	}
	return nil
}

func writeExport(path string, records []models.PriceRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	rows := export.FormatRows(records)
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		err = export.WriteCSV(f, rows)
	} else {
		err = export.WriteXLSX(f, rows)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// =============================================================================
// CATALOG COMMAND
// =============================================================================

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Work with the commerce platform catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "pull",
				Usage: "Download the live catalog as JSON for offline reconciliation",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "api-url",
						Usage:    "Catalog API base URL",
						EnvVars:  []string{"CATALOG_API_URL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "token",
						Usage:   "Catalog API token",
						EnvVars: []string{"CATALOG_API_TOKEN"},
					},
					&cli.IntFlag{
						Name:    "rate-limit",
						Value:   2,
						Usage:   "Requests per second",
						EnvVars: []string{"CATALOG_RATE_LIMIT"},
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output JSON file",
						Required: true,
					},
				},
				Action: runCatalogPull,
			},
		},
	}
}

func runCatalogPull(c *cli.Context) error {
	client := catalog.NewClient(c.String("api-url"), c.String("token"), c.Int("rate-limit"))
	records, err := client.FetchCatalog(c.Context)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode catalog")
	}
	out := c.String("out")
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", out)
	}
	log.Info().Int("variants", len(records)).Str("file", out).Msg("catalog saved")
	return nil
}
