package scraper

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"menuscraper/metrics"
	"menuscraper/models"
)

const (
	DefaultBaseURL     = "https://www.menicka.cz"
	DefaultConcurrency = 6

	userAgent    = "Mozilla/5.0 (compatible; menuscraper/1.0)"
	fetchTimeout = 30 * time.Second
)

// Store is the slice of the catalog the pipeline reads and writes through.
type Store interface {
	// FindRestaurantByIdentity reports the id of the restaurant matching
	// all five identity fields exactly, if one exists. It never creates.
	FindRestaurantByIdentity(identity models.RestaurantIdentity) (uuid.UUID, bool, error)

	CreateRestaurant(restaurant models.RestaurantCreate) (uuid.UUID, error)

	// CreateMenu persists a menu with its items, or does nothing when the
	// restaurant already has a live menu for that date. The boolean reports
	// whether a new menu was created.
	CreateMenu(menu models.MenuCreate) (uuid.UUID, bool, error)
}

type Config struct {
	// BaseURL is the scheme+host relative links are rewritten onto.
	BaseURL string
	// ListingURL is the entry page enumerating restaurant detail links.
	ListingURL string
	// Concurrency bounds how many restaurants are scraped at once.
	Concurrency int
}

// Scraper drives one listing page worth of restaurant scrapes: fetch every
// detail page, extract restaurant and menus, resolve against the catalog
// and persist.
type Scraper struct {
	cfg        Config
	store      Store
	metrics    *metrics.Registry
	client     *http.Client
	noRedirect *http.Client
}

func New(store Store, reg *metrics.Registry, cfg Config) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ListingURL == "" {
		cfg.ListingURL = cfg.BaseURL + "/brno.html"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Scraper{
		cfg:     cfg,
		store:   store,
		metrics: reg,
		client:  &http.Client{Timeout: fetchTimeout},
		noRedirect: &http.Client{
			Timeout: fetchTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Run scrapes the configured listing page and processes every restaurant it
// links to, fanning the units out over a bounded worker pool. Only a
// listing-level failure is an error; individual restaurants fail
// independently, are logged and skipped, and are not retried within the run.
func (s *Scraper) Run() error {
	start := time.Now()
	s.metrics.Runs.Inc()

	doc, err := s.fetchDocument(s.cfg.ListingURL)
	if err != nil {
		return fmt.Errorf("listing page: %w", err)
	}
	links := s.listingLinks(doc)
	log.Printf("scrape: %d restaurants listed on %s", len(links), s.cfg.ListingURL)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.cfg.Concurrency)

	for _, link := range links {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(link string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := s.scrapeRestaurant(link); err != nil {
				log.Printf("scrape: skipping %s: %v", link, err)
				s.metrics.UnitsFailed.Inc()
				return
			}
			s.metrics.UnitsOK.Inc()
		}(link)
	}
	wg.Wait()

	s.metrics.LastRunSeconds.Set(time.Since(start).Seconds())
	log.Printf("scrape: run finished in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// listingLinks collects the one qualifying detail-page link of every listing
// entry. An empty but well-formed listing is zero units of work, not an
// error.
func (s *Scraper) listingLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find(selListingLink).Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && href != "" {
			links = append(links, s.absoluteURL(href))
		}
	})
	return links
}

// scrapeRestaurant is one unit of work: fetch a detail page, extract the
// restaurant and its menus, resolve the restaurant against the catalog and
// persist the menus. Metadata of an already known restaurant is left
// untouched on a repeat sighting; only new menus are added.
func (s *Scraper) scrapeRestaurant(link string) error {
	doc, err := s.fetchDocument(link)
	if err != nil {
		return err
	}

	details, err := s.extractDetails(doc)
	if err != nil {
		return err
	}
	menus := s.extractMenus(doc, link)

	id, found, err := s.store.FindRestaurantByIdentity(details.Identity())
	if err != nil {
		return fmt.Errorf("resolving %q: %w", details.Name, err)
	}
	if !found {
		id, err = s.store.CreateRestaurant(details)
		if err != nil {
			return fmt.Errorf("creating %q: %w", details.Name, err)
		}
		s.metrics.RestaurantsCreated.Inc()
		log.Printf("scrape: new restaurant %q (%s)", details.Name, id)
	}

	for _, menu := range menus {
		menu.RestaurantID = id
		_, created, err := s.store.CreateMenu(menu)
		if err != nil {
			return fmt.Errorf("menu %s for %q: %w", menu.Date.Format("2006-01-02"), details.Name, err)
		}
		if created {
			s.metrics.MenusCreated.Inc()
		} else {
			s.metrics.MenusSkipped.Inc()
		}
	}
	return nil
}
