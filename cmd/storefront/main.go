package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"food-storefront/internal/app"
	"food-storefront/internal/catalog"
	"food-storefront/internal/config"
	"food-storefront/internal/database"
	"food-storefront/internal/logging"
	"food-storefront/internal/metrics"
	"food-storefront/internal/storage"
	"food-storefront/internal/supabase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	command := os.Args[1]
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	menuFile := flags.String("file", cfg.MenuFilePath, "Path of the menu JSON file")
	category := flags.String("category", "", "Only list items of this category")
	days := flags.Int("days", 30, "Keep records for the last N days")
	flags.Parse(os.Args[2:])

	ctx := context.Background()

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	file, err := storage.NewMenuFile(*menuFile, logger)
	if err != nil {
		logger.Fatal("failed to initialize menu file", zap.Error(err))
	}

	metricsStore := metrics.NewStore(db.SQL, logger)
	application := app.NewApp(
		supabase.NewClient(cfg, logger),
		catalog.NewRepository(db.SQL),
		file,
		metricsStore,
		app.NewLogSubmitter(logger),
		logger,
	)

	switch command {
	case "sync-menu":
		n, err := application.SyncMenu(ctx)
		if err != nil {
			logger.Fatal("menu sync failed", zap.Error(err))
		}
		fmt.Printf("Synced %d menu items.\n", n)
	case "import-menu":
		n, err := application.ImportMenuFile(ctx)
		if err != nil {
			logger.Fatal("menu import failed", zap.Error(err))
		}
		fmt.Printf("Imported %d menu items from %s.\n", n, *menuFile)
	case "export-menu":
		n, err := application.ExportMenuFile(ctx)
		if err != nil {
			logger.Fatal("menu export failed", zap.Error(err))
		}
		fmt.Printf("Exported %d menu items to %s.\n", n, *menuFile)
	case "list-menu":
		menu, err := application.ListMenu(ctx, *category)
		if err != nil {
			logger.Fatal("failed to list menu", zap.Error(err))
		}
		printMenu(menu, cfg.PriceLabel)
	case "metrics-cleanup":
		affected, err := application.CleanupMetrics(ctx, *days)
		if err != nil {
			logger.Fatal("cleanup failed", zap.Error(err))
		}
		fmt.Printf("Successfully removed %d old cart activity records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printMenu(menu catalog.Menu, label string) {
	if len(menu) == 0 {
		fmt.Println("The menu is empty. Run sync-menu or import-menu first.")
		return
	}
	for _, category := range menu.Categories() {
		fmt.Printf("\n=== %s ===\n", category)
		for _, item := range menu.ByCategory(category) {
			fmt.Printf("%-6d %-30s %s\n", item.ID, item.Name, catalog.FormatPrice(label, item.BasePrice))
			for _, c := range item.Customizable {
				required := ""
				if c.Required {
					required = " (required)"
				}
				fmt.Printf("         %s%s:", c.Title, required)
				for _, o := range c.Options {
					fmt.Printf(" %s [%s]", o.Name, catalog.FormatPrice(label, o.Price))
				}
				fmt.Println()
			}
		}
	}
}

func printUsage() {
	fmt.Println("Usage: storefront <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  sync-menu          Fetch the menu from Supabase into the local cache")
	fmt.Println("  import-menu        Load the local cache from a menu JSON file (-file)")
	fmt.Println("  export-menu        Write the local cache to a menu JSON file (-file)")
	fmt.Println("  list-menu          Print the cached menu (-category to filter)")
	fmt.Println("  metrics-cleanup    Remove old cart activity records (-days)")
}
