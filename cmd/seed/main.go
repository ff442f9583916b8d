package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"palette-wardrobe/stylist/internal/config"
	"palette-wardrobe/stylist/internal/db"
	"palette-wardrobe/stylist/internal/db/repositories"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/seed"
)

func main() {
	coloursPath := flag.String("colours", "data/colours.csv", "palette CSV (id,name,type,r,g,b)")
	pairsPath := flag.String("pairs", "data/compatible_pairs.csv", "compatibility CSV (top_colour,bottom_colour); empty to skip")
	flag.Parse()

	cfg := config.Load()
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	orm, err := db.InitORM(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(orm); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	sqlDB, err := db.InitSQLX(cfg, orm)
	if err != nil {
		log.Fatalf("open sqlx: %v", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	loader := seed.NewLoader(
		repositories.NewColourRepository(orm),
		repositories.NewCompatiblePairRepository(sqlDB),
	)

	report, err := loadFile(*coloursPath, func(f *os.File) (*seed.Report, error) {
		return loader.LoadColours(ctx, f)
	})
	if err != nil {
		log.Fatalf("load colours: %v", err)
	}
	printReport("colours", report)

	if *pairsPath == "" {
		return
	}
	report, err = loadFile(*pairsPath, func(f *os.File) (*seed.Report, error) {
		return loader.LoadCompatiblePairs(ctx, f)
	})
	if err != nil {
		log.Fatalf("load compatible pairs: %v", err)
	}
	printReport("compatible pairs", report)
}

func loadFile(path string, load func(*os.File) (*seed.Report, error)) (*seed.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(f)
}

func printReport(what string, report *seed.Report) {
	fmt.Printf("Loaded %d %s\n", report.Loaded, what)
	for _, s := range report.Skipped {
		fmt.Printf("  skipped %s\n", s)
	}
}
