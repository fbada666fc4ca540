package scraper

import (
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"menuscraper/models"
)

// Selectors on the menicka.cz markup. The class conventions are the only
// schema the site guarantees; everything else is tolerated as noise.
const (
	selListingLink = "div.menicka_detail div.nazev a"
	selName        = "h1"
	selAddress     = "div.adresa a"
	selHours       = "div.cas"
	selLunch       = "div.obedovy-cas strong"
	selPhoto       = "img.photo"
	selPhone       = "a.telefon"
	selEmail       = "a.email"
	selWebsite     = "a.web"
)

// textUpToTag takes the raw inner HTML up to the first nested tag, decodes
// entities and normalizes non-breaking spaces. The site always puts the
// plain-text value before any nested element, so anything past the first
// tag is decoration.
func textUpToTag(innerHTML string) string {
	if i := strings.Index(innerHTML, "<"); i >= 0 {
		innerHTML = innerHTML[:i]
	}
	t := html.UnescapeString(innerHTML)
	t = strings.ReplaceAll(t, " ", " ")
	return strings.TrimSpace(t)
}

// extractName reads the restaurant name from the page's main heading. The
// heading is mandatory: without a name there is no identity to resolve.
func extractName(doc *goquery.Document) (string, error) {
	h := doc.Find(selName).First()
	if h.Length() == 0 {
		return "", fmt.Errorf("no heading found")
	}
	raw, err := h.Html()
	if err != nil {
		return "", err
	}
	name := textUpToTag(raw)
	if name == "" {
		return "", fmt.Errorf("heading is empty")
	}
	return name, nil
}

// extractAddress parses the map link inside the address block. Its text is
// "street, house number, zip code, city"; some pages append a fifth district
// segment, in which case the trailing segment is the city.
func extractAddress(doc *goquery.Document) (street, houseNumber, zipCode, city string, err error) {
	link := doc.Find(selAddress).First()
	if link.Length() == 0 {
		err = fmt.Errorf("no address link found")
		return
	}
	text := link.Text()
	parts := strings.Split(text, ", ")
	if len(parts) < 4 {
		err = fmt.Errorf("address %q has %d segments, want at least 4", text, len(parts))
		return
	}
	street = strings.TrimSpace(parts[0])
	houseNumber = strings.TrimSpace(parts[1])
	zipCode = strings.TrimSpace(parts[2])
	city = strings.TrimSpace(parts[len(parts)-1])
	return
}

// extractOpeningHours maps the seven unlabeled time slots onto Monday-first
// weekdays. The fixed count is an invariant of the source markup; any other
// non-zero count means the layout changed and a positional mapping would
// silently misalign weekdays, so it fails the restaurant instead.
func extractOpeningHours(doc *goquery.Document) ([7]*string, error) {
	var hours [7]*string
	slots := doc.Find(selHours)
	switch slots.Length() {
	case 0:
		return hours, nil
	case 7:
	default:
		return hours, fmt.Errorf("found %d opening-hour slots, want 7", slots.Length())
	}
	slots.Each(func(i int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			hours[i] = &t
		}
	})
	return hours, nil
}

// extractLunchServed reads the emphasized text inside the lunch-hours block,
// if both exist.
func extractLunchServed(doc *goquery.Document) *string {
	el := doc.Find(selLunch).First()
	if el.Length() == 0 {
		return nil
	}
	t := strings.TrimSpace(el.Text())
	if t == "" {
		return nil
	}
	return &t
}

// extractPicture picks the header photo. When the page carries more than one
// img.photo the first is a decorative placeholder and the second is the real
// photo; with exactly one there is no placeholder.
func (s *Scraper) extractPicture(doc *goquery.Document) *string {
	photos := doc.Find(selPhoto)
	if photos.Length() == 0 {
		return nil
	}
	idx := 0
	if photos.Length() > 1 {
		idx = 1
	}
	src, ok := photos.Eq(idx).Attr("src")
	if !ok || src == "" {
		return nil
	}
	u := s.absoluteURL(src)
	return &u
}

// absoluteURL rewrites the site's "."- and ".."-relative links onto the
// configured base URL. Absolute links pass through unchanged.
func (s *Scraper) absoluteURL(href string) string {
	switch {
	case strings.HasPrefix(href, ".."):
		return s.cfg.BaseURL + strings.TrimPrefix(href, "..")
	case strings.HasPrefix(href, "."):
		return s.cfg.BaseURL + strings.TrimPrefix(href, ".")
	case strings.HasPrefix(href, "/"):
		return s.cfg.BaseURL + href
	}
	return href
}

// contactValue follows the site's contact obfuscation: the anchor on the
// detail page leads to an intermediate page whose first link holds the real
// value. Contact info is always optional, so any hop failing just means the
// value is not known.
func (s *Scraper) contactValue(doc *goquery.Document, selector string) *string {
	href, ok := doc.Find(selector).First().Attr("href")
	if !ok || href == "" {
		return nil
	}
	page, err := s.fetchDocument(s.absoluteURL(href))
	if err != nil {
		log.Printf("scrape: contact page %s: %v", href, err)
		return nil
	}
	value := strings.TrimSpace(page.Find("a").First().Text())
	if value == "" {
		return nil
	}
	return &value
}

func (s *Scraper) extractPhone(doc *goquery.Document) *string {
	return s.contactValue(doc, selPhone)
}

func (s *Scraper) extractEmail(doc *goquery.Document) *string {
	return s.contactValue(doc, selEmail)
}

// extractWebsite resolves the "visit website" link to its true external
// destination without downloading the target page.
func (s *Scraper) extractWebsite(doc *goquery.Document) *string {
	href, ok := doc.Find(selWebsite).First().Attr("href")
	if !ok || href == "" {
		return nil
	}
	target := s.resolveRedirectTarget(s.absoluteURL(href))
	if target == "" {
		return nil
	}
	return &target
}

// extractDetails assembles a RestaurantCreate from a detail page. Name,
// address and a consistent hours block are mandatory; every other field
// degrades to absence.
func (s *Scraper) extractDetails(doc *goquery.Document) (models.RestaurantCreate, error) {
	var details models.RestaurantCreate

	name, err := extractName(doc)
	if err != nil {
		return details, fmt.Errorf("name: %w", err)
	}
	street, houseNumber, zipCode, city, err := extractAddress(doc)
	if err != nil {
		return details, fmt.Errorf("address: %w", err)
	}
	hours, err := extractOpeningHours(doc)
	if err != nil {
		return details, fmt.Errorf("opening hours: %w", err)
	}

	details.Name = name
	details.Street = street
	details.HouseNumber = houseNumber
	details.ZipCode = zipCode
	details.City = city
	details.OpeningHours = hours
	details.LunchServed = extractLunchServed(doc)
	details.Picture = s.extractPicture(doc)
	details.PhoneNumber = s.extractPhone(doc)
	details.Email = s.extractEmail(doc)
	details.Website = s.extractWebsite(doc)

	return details, nil
}
