package worker

import (
	"log"
	"time"

	"menuscraper/scraper"
)

// Daily scrape time, local clock.
const scrapeHour = 8

// StartScrapeWorker kicks off a background routine that scrapes once
// immediately and then re-runs every day at scrapeHour. A failed run only
// logs; the schedule keeps going.
func StartScrapeWorker(s *scraper.Scraper) {
	log.Printf("Starting scrape worker (daily at %02d:00)", scrapeHour)
	go func() {
		runOnce(s)
		for {
			next := nextRunAfter(time.Now())
			time.Sleep(time.Until(next))
			runOnce(s)
		}
	}()
}

func runOnce(s *scraper.Scraper) {
	if err := s.Run(); err != nil {
		log.Printf("scrape run failed: %v", err)
	}
}

// nextRunAfter returns the next scrapeHour o'clock strictly after t.
func nextRunAfter(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), scrapeHour, 0, 0, 0, t.Location())
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
