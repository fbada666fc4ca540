package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"menuscraper/catalog"
	"menuscraper/database"
	"menuscraper/metrics"
	"menuscraper/scraper"
	"menuscraper/worker"

	"github.com/joho/godotenv"
)

// main connects to the database, migrates the schema, starts the daily
// scrape worker and serves the metrics endpoint.
func main() {
	_ = godotenv.Load()

	db, err := database.Connect()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	reg := metrics.NewRegistry()

	concurrency, _ := strconv.Atoi(os.Getenv("SCRAPE_CONCURRENCY"))
	s := scraper.New(catalog.New(db), reg, scraper.Config{
		BaseURL:     os.Getenv("SCRAPE_BASE_URL"),
		ListingURL:  os.Getenv("SCRAPE_LISTING_URL"),
		Concurrency: concurrency,
	})

	worker.StartScrapeWorker(s)

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "9091"
	}

	log.Printf("Metrics listening on port %s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal("Server failed:", err)
	}
}
