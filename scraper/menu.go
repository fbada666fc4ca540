package scraper

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"menuscraper/models"
)

const (
	selMenuBlock = "div.menicka"
	selMenuDate  = "div.nadpis"
	selSoup      = "li.polevka"
	selDish      = "li.jidlo"
	selItemName  = "div.polozka"
	selItemPrice = "div.cena"
)

var (
	nonDigitRe = regexp.MustCompile(`\D`)
	// portion size inside a dish name, e.g. "250 g " or "0,3 ml "
	sizeRe = regexp.MustCompile(`\d+(?:[.,]\d+)? ?(?:g|ml) `)
	// hidden sort-key span some dish entries prefix their name with
	leadingSpanRe = regexp.MustCompile(`^\s*<span[^>]*>.*?</span>`)
)

// extractMenus collects every dated menu block on a detail page. A block
// whose date heading cannot be parsed is skipped on its own; sibling blocks
// still go through. Blocks that end up with no items at all are dropped
// here, so the persister never sees an empty menu.
func (s *Scraper) extractMenus(doc *goquery.Document, pageURL string) []models.MenuCreate {
	var menus []models.MenuCreate
	doc.Find(selMenuBlock).Each(func(_ int, block *goquery.Selection) {
		date, err := parseBlockDate(block)
		if err != nil {
			log.Printf("scrape: %s: skipping menu block: %v", pageURL, err)
			return
		}

		items := parseItems(block.Find(selSoup), true)
		items = append(items, parseItems(block.Find(selDish), false)...)
		if len(items) == 0 {
			return
		}

		menus = append(menus, models.MenuCreate{Date: date, Items: items})
	})
	return menus
}

// parseBlockDate reads the DD.MM.YYYY token that ends the block heading,
// e.g. "Pondělí 15.1.2024".
func parseBlockDate(block *goquery.Selection) (time.Time, error) {
	heading := block.Find(selMenuDate).First()
	if heading.Length() == 0 {
		return time.Time{}, fmt.Errorf("no date heading")
	}
	fields := strings.Fields(heading.Text())
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("empty date heading")
	}

	token := fields[len(fields)-1]
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date token %q is not DD.MM.YYYY", token)
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("date token %q is not numeric", token)
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, fmt.Errorf("date token %q is not a valid date", token)
	}
	return date, nil
}

// parseItems walks one soup or dish list in page order. Extraction stops at
// the first entry without a name element; items gathered up to that point
// are kept and the other list of the same block is unaffected. Dish names
// carry a leading sort-key span and may embed a portion size; soups have
// neither.
func parseItems(list *goquery.Selection, isSoup bool) []models.MenuItemCreate {
	var items []models.MenuItemCreate
	list.EachWithBreak(func(_ int, li *goquery.Selection) bool {
		nameEl := li.Find(selItemName).First()
		if nameEl.Length() == 0 {
			return false
		}
		raw, err := nameEl.Html()
		if err != nil {
			return false
		}
		if !isSoup {
			raw = leadingSpanRe.ReplaceAllString(raw, "")
		}
		name := textUpToTag(raw)

		size := ""
		if !isSoup {
			if m := sizeRe.FindString(name); m != "" {
				size = m
				name = strings.TrimSpace(strings.Replace(name, m, "", 1))
			}
		}

		items = append(items, models.MenuItemCreate{
			Name:   name,
			Price:  parsePrice(li.Find(selItemPrice).First()),
			Size:   size,
			IsSoup: isSoup,
		})
		return true
	})
	return items
}

// parsePrice strips everything but digits, so "89 Kč" and "89,-" both come
// out as 89. A missing or digit-free price element is price 0, which is
// valid data, not an error.
func parsePrice(el *goquery.Selection) int {
	if el.Length() == 0 {
		return 0
	}
	digits := nonDigitRe.ReplaceAllString(el.Text(), "")
	if digits == "" {
		return 0
	}
	price, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return price
}
