package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/freshmark/backend-go/internal/cache"
	"github.com/freshmark/backend-go/internal/config"
	"github.com/freshmark/backend-go/internal/domain"
	"github.com/freshmark/backend-go/internal/forecast"
	"github.com/freshmark/backend-go/internal/markdown"
	"github.com/freshmark/backend-go/internal/repository"
	"github.com/freshmark/backend-go/internal/repository/postgres"
	"github.com/freshmark/backend-go/internal/service"
	"github.com/freshmark/backend-go/internal/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newHistoryFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "history-days",
		Usage:   "Days of sales history used for training",
		Value:   90,
		EnvVars: []string{"FORECAST_HISTORY_DAYS"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "markdown",
		Usage: "Compute markdown recommendations for expiring inventory",
		Commands: []*cli.Command{
			{
				Name:  "batch",
				Usage: "Recommend discounts for items expiring within a window",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newHistoryFlag(),
					&cli.IntFlag{
						Name:  "expiry-days",
						Usage: "Only consider items expiring within this many days",
						Value: 3,
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Number of concurrent forecast workers",
						Value:   4,
						EnvVars: []string{"FORECAST_BATCH_WORKERS"},
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit decisions as JSON instead of a table",
					},
				},
				Action: runBatch,
			},
			{
				Name:  "warm",
				Usage: "Pre-train demand models for every product with sales history",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newHistoryFlag(),
				},
				Action: runWarm,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openRepository(c *cli.Context) (repository.InventoryRepository, *sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", c.String("db-url"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewInventoryRepository(postgres.NewDBFromConn(db)), db, nil
}

// newForecaster wires the same durable model cache the server uses, so warmed
// models survive across processes.
func newForecaster(minRows int) (*forecast.Forecaster, error) {
	cfg := config.Load()
	var durable cache.ModelCache
	var err error
	switch cfg.Cache.Backend {
	case "redis":
		durable, err = cache.NewRedisModelCache(cfg.Cache)
	case "s3":
		var client *storage.MinioClient
		client, err = storage.NewMinioClient(cfg.Cache)
		if err == nil {
			durable = storage.NewModelObjectStore(client)
		}
	default:
		durable = cache.NewNoopModelCache()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model cache: %w", err)
	}
	return forecast.NewForecaster(forecast.NewModelStore(durable), minRows), nil
}

func runBatch(c *cli.Context) error {
	repo, db, err := openRepository(c)
	if err != nil {
		return err
	}
	defer db.Close()

	forecaster, err := newForecaster(config.Load().Forecast.MinTrainingRows)
	if err != nil {
		return err
	}
	optimizer := markdown.NewOptimizer(markdown.NewElasticityModel())
	svc := service.NewMarkdownService(repo, forecaster, optimizer, c.Int("history-days"), c.Int("workers"))

	expiryDays := c.Int("expiry-days")
	items, err := repo.GetInventory(c.Context, domain.InventoryFilter{MaxDaysUntilExpiry: &expiryDays})
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}
	if len(items) == 0 {
		log.Println("No items expiring within the window")
		return nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	decisions, err := svc.BatchMarkdown(c.Context, ids)
	if err != nil {
		return fmt.Errorf("failed to compute markdowns: %w", err)
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(decisions)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tDISCOUNT\tNEW PRICE\tUNITS\tWASTE AVOIDED\tREVENUE\tCONFIDENCE")
	for _, d := range decisions {
		fmt.Fprintf(w, "%s\t%.0f%%\t%.2f\t%.1f\t%.1f\t%.2f\t%.2f\n",
			d.ProductID, d.OptimalDiscount, d.DiscountedPrice,
			d.ProjectedUnitsSold, d.EstimatedWasteReduction, d.RevenueImpact, d.ConfidenceScore)
	}
	return w.Flush()
}

func runWarm(c *cli.Context) error {
	repo, db, err := openRepository(c)
	if err != nil {
		return err
	}
	defer db.Close()

	forecaster, err := newForecaster(config.Load().Forecast.MinTrainingRows)
	if err != nil {
		return err
	}
	historyDays := c.Int("history-days")

	items, err := repo.GetInventory(c.Context, domain.InventoryFilter{})
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	trained := 0
	skipped := 0
	for _, item := range items {
		series, err := repo.GetSalesHistory(c.Context, item.ProductID, historyDays)
		if err != nil {
			return fmt.Errorf("failed to load sales history for %s: %w", item.ProductID, err)
		}
		if _, err := forecaster.Train(c.Context, item.ProductID, series); err != nil {
			log.Printf("skipping %s: %v", item.ProductID, err)
			skipped++
			continue
		}
		trained++
	}

	log.Printf("Trained %d models, skipped %d", trained, skipped)
	return nil
}
