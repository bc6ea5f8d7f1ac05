package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/bootstrap"
	"github.com/sangkips/shopledger-api/internal/config"
	"github.com/sangkips/shopledger-api/pkg/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.App.Env, cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	cliApp := &cli.App{
		Name:  "ledgerctl",
		Usage: "operator tools for the shop ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "actor", Value: service.DefaultActor, Usage: "name recorded in the activity log"},
		},
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "import products from a csv or xlsx file into a shop",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "shop", Required: true, Usage: "shop id"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, log, func(app *bootstrap.App) error {
						return runImport(c, app)
					})
				},
			},
			{
				Name:      "statement",
				Usage:     "print a customer's statement as JSON",
				ArgsUsage: "<customer-id>",
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, log, func(app *bootstrap.App) error {
						id, err := uuid.Parse(c.Args().First())
						if err != nil {
							return fmt.Errorf("invalid customer id: %w", err)
						}
						return printJSON(c.App.Writer, app.Ledger.ComputeStatement(id))
					})
				},
			},
			{
				Name:  "verify",
				Usage: "compare every customer's cached debt with the statement replay",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "print consistent customers too"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, log, func(app *bootstrap.App) error {
						return runVerify(c, app)
					})
				},
			},
			{
				Name:  "seed",
				Usage: "create the configured shops",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "shop", Usage: "shop as Name:TYPE, repeatable"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, log, func(app *bootstrap.App) error {
						specs := c.StringSlice("shop")
						if len(specs) == 0 {
							specs = cfg.Seed.Shops
						}
						created, err := app.Shops.EnsureShops(c.Context, specs)
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "%d shops created\n", created)
						return nil
					})
				},
			},
			{
				Name:  "mirror-status",
				Usage: "show pending durable writes and dead letters of a running server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "server", Value: "http://localhost:" + cfg.App.Port},
					&cli.BoolFlag{Name: "requeue", Usage: "retry the parked dead letter"},
				},
				Action: runMirrorStatus,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal("command failed", zap.Error(err))
	}
}

func withApp(c *cli.Context, cfg *config.Config, log *zap.Logger, fn func(app *bootstrap.App) error) error {
	app, err := bootstrap.New(c.Context, cfg, log)
	if err != nil {
		return err
	}
	runErr := fn(app)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mirror.ShutdownTimeout)
	defer cancel()
	if err := app.Close(ctx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to flush durable writes: %w", err)
	}
	return runErr
}

func runImport(c *cli.Context, app *bootstrap.App) error {
	shopID, err := uuid.Parse(c.String("shop"))
	if err != nil {
		return fmt.Errorf("invalid shop id: %w", err)
	}
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("missing file argument")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var rows []service.ImportProductRow
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = service.ParseXLSX(f)
	} else {
		rows, err = service.ParseDelimited(f)
	}
	if err != nil {
		return err
	}

	result, err := app.Inventory.ImportProducts(c.Context, shopID, rows, c.String("actor"))
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, result)
}

func runVerify(c *cli.Context, app *bootstrap.App) error {
	reports := app.Ledger.VerifyAll()
	inconsistent := 0
	for _, r := range reports {
		if !r.Consistent {
			inconsistent++
		}
		if r.Consistent && !c.Bool("all") {
			continue
		}
		if err := printJSON(c.App.Writer, r); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.App.Writer, "%d customers checked, %d inconsistent\n", len(reports), inconsistent)
	if inconsistent > 0 {
		return cli.Exit("", 2)
	}
	return nil
}

func runMirrorStatus(c *cli.Context) error {
	client := &http.Client{Timeout: 10 * time.Second}
	base := strings.TrimRight(c.String("server"), "/") + "/api/v1/admin/mirror"

	method, url := http.MethodGet, base
	if c.Bool("requeue") {
		method, url = http.MethodPost, base+"/requeue"
	}
	req, err := http.NewRequestWithContext(c.Context, method, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Actor", c.String("actor"))

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	_, err = io.Copy(c.App.Writer, resp.Body)
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
