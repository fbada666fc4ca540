package scraper

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing document: %v", err)
	}
	return doc
}

func TestExtractNameStripsTrailingMarkup(t *testing.T) {
	doc := mustDoc(t, `<h1>Pivnice Masný Růžek<span>extra</span></h1>`)
	name, err := extractName(doc)
	if err != nil {
		t.Fatalf("extractName: %v", err)
	}
	if name != "Pivnice Masný Růžek" {
		t.Fatalf("name = %q, want %q", name, "Pivnice Masný Růžek")
	}
}

func TestExtractNameMissingHeading(t *testing.T) {
	doc := mustDoc(t, `<div>no heading here</div>`)
	if _, err := extractName(doc); err == nil {
		t.Fatal("expected error for missing heading")
	}
}

func TestExtractAddressFourSegments(t *testing.T) {
	doc := mustDoc(t, `<div class="adresa"><a href="./mapa.html">Křenová, 70, 602 00, Brno</a></div>`)
	street, houseNumber, zipCode, city, err := extractAddress(doc)
	if err != nil {
		t.Fatalf("extractAddress: %v", err)
	}
	if street != "Křenová" || houseNumber != "70" || zipCode != "602 00" || city != "Brno" {
		t.Fatalf("got %q %q %q %q", street, houseNumber, zipCode, city)
	}
}

func TestExtractAddressFiveSegmentsTrailingCityWins(t *testing.T) {
	doc := mustDoc(t, `<div class="adresa"><a href="./mapa.html">Křenová, 70, 602 00, Brno-střed, Trnitá</a></div>`)
	street, houseNumber, zipCode, city, err := extractAddress(doc)
	if err != nil {
		t.Fatalf("extractAddress: %v", err)
	}
	if street != "Křenová" || houseNumber != "70" || zipCode != "602 00" || city != "Trnitá" {
		t.Fatalf("got %q %q %q %q", street, houseNumber, zipCode, city)
	}
}

func TestExtractAddressTooFewSegments(t *testing.T) {
	doc := mustDoc(t, `<div class="adresa"><a href="./mapa.html">Křenová, Brno</a></div>`)
	if _, _, _, _, err := extractAddress(doc); err == nil {
		t.Fatal("expected error for 2 segments")
	}
}

func TestExtractOpeningHours(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		if i == 2 || i == 6 {
			b.WriteString(`<div class="cas"> </div>`)
			continue
		}
		b.WriteString(`<div class="cas">10:00 - 22:00</div>`)
	}
	doc := mustDoc(t, b.String())

	hours, err := extractOpeningHours(doc)
	if err != nil {
		t.Fatalf("extractOpeningHours: %v", err)
	}
	for i, h := range hours {
		if i == 2 || i == 6 {
			if h != nil {
				t.Fatalf("slot %d = %q, want absent", i, *h)
			}
			continue
		}
		if h == nil || *h != "10:00 - 22:00" {
			t.Fatalf("slot %d = %v, want 10:00 - 22:00", i, h)
		}
	}
}

func TestExtractOpeningHoursWrongSlotCount(t *testing.T) {
	doc := mustDoc(t, strings.Repeat(`<div class="cas">10:00</div>`, 5))
	if _, err := extractOpeningHours(doc); err == nil {
		t.Fatal("expected error for 5 slots")
	}
}

func TestExtractOpeningHoursNoBlock(t *testing.T) {
	doc := mustDoc(t, `<div>no hours</div>`)
	hours, err := extractOpeningHours(doc)
	if err != nil {
		t.Fatalf("extractOpeningHours: %v", err)
	}
	for i, h := range hours {
		if h != nil {
			t.Fatalf("slot %d = %q, want absent", i, *h)
		}
	}
}

func TestExtractLunchServed(t *testing.T) {
	doc := mustDoc(t, `<div class="obedovy-cas">Obědy: <strong>11:00 - 14:30</strong></div>`)
	got := extractLunchServed(doc)
	if got == nil || *got != "11:00 - 14:30" {
		t.Fatalf("lunchServed = %v, want 11:00 - 14:30", got)
	}

	if got := extractLunchServed(mustDoc(t, `<div class="obedovy-cas">Obědy</div>`)); got != nil {
		t.Fatalf("lunchServed without strong = %q, want absent", *got)
	}
}

func TestExtractPictureSecondPhotoWins(t *testing.T) {
	s := newTestScraper("https://www.menicka.cz")
	doc := mustDoc(t, `<img class="photo" src="../images/placeholder.jpg"><img class="photo" src="../images/real.jpg">`)

	got := s.extractPicture(doc)
	if got == nil || *got != "https://www.menicka.cz/images/real.jpg" {
		t.Fatalf("picture = %v, want second photo", got)
	}
}

func TestExtractPictureSingleAndMissing(t *testing.T) {
	s := newTestScraper("https://www.menicka.cz")

	got := s.extractPicture(mustDoc(t, `<img class="photo" src="../images/only.jpg">`))
	if got == nil || *got != "https://www.menicka.cz/images/only.jpg" {
		t.Fatalf("picture = %v, want the single photo", got)
	}

	if got := s.extractPicture(mustDoc(t, `<div>no photo</div>`)); got != nil {
		t.Fatalf("picture = %q, want absent", *got)
	}
}

func TestExtractPhoneTwoHop(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/telefon-42.html" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`<html><body><a>+420 777 123 456</a></body></html>`))
	}))
	defer ts.Close()

	s := newTestScraper(ts.URL)
	doc := mustDoc(t, `<a class="telefon" href="./telefon-42.html">telefon</a>`)

	got := s.extractPhone(doc)
	if got == nil || *got != "+420 777 123 456" {
		t.Fatalf("phone = %v, want +420 777 123 456", got)
	}
}

func TestExtractPhoneAbsentOnAnyHopFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()
	s := newTestScraper(ts.URL)

	// anchor missing
	if got := s.extractPhone(mustDoc(t, `<div>nothing</div>`)); got != nil {
		t.Fatalf("phone = %q, want absent", *got)
	}
	// intermediate page fetch fails
	if got := s.extractPhone(mustDoc(t, `<a class="telefon" href="./telefon-42.html">t</a>`)); got != nil {
		t.Fatalf("phone = %q, want absent", *got)
	}
}

func TestExtractEmailTwoHop(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/email-42.html" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`<html><body><a>info@ruzek.cz</a></body></html>`))
	}))
	defer ts.Close()

	s := newTestScraper(ts.URL)
	got := s.extractEmail(mustDoc(t, `<a class="email" href="./email-42.html">email</a>`))
	if got == nil || *got != "info@ruzek.cz" {
		t.Fatalf("email = %v, want info@ruzek.cz", got)
	}
}

func TestExtractWebsiteResolvesRedirect(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/web-42.html" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Location", "http://ruzek.cz")
		w.WriteHeader(http.StatusMovedPermanently)
	}))
	defer ts.Close()

	s := newTestScraper(ts.URL)
	got := s.extractWebsite(mustDoc(t, `<a class="web" href="./web-42.html">web</a>`))
	if got == nil || *got != "http://ruzek.cz" {
		t.Fatalf("website = %v, want http://ruzek.cz", got)
	}
}
