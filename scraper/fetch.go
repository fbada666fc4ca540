package scraper

import (
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// FetchKind classifies why a page could not be turned into a document.
type FetchKind int

const (
	FetchNetwork FetchKind = iota
	FetchHTTPStatus
	FetchDecode
)

// FetchError is returned by fetchDocument. The caller decides whether the
// failure kills the whole run (listing page) or just one restaurant.
type FetchError struct {
	Kind FetchKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// fetchDocument issues a GET and parses the response body into a document.
// The body goes through a charset-aware reader because the source site
// serves windows-1250, not UTF-8. There is no retry.
func (s *Scraper) fetchDocument(url string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, URL: url, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &FetchError{Kind: FetchHTTPStatus, URL: url, Err: fmt.Errorf("bad status: %s", res.Status)}
	}

	body, err := charset.NewReader(res.Body, res.Header.Get("Content-Type"))
	if err != nil {
		return nil, &FetchError{Kind: FetchDecode, URL: url, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, &FetchError{Kind: FetchDecode, URL: url, Err: err}
	}
	return doc, nil
}

// resolveRedirectTarget returns the destination a URL redirects to without
// fetching the destination itself. The site wraps external "visit website"
// links behind a redirect; only the Location header is of interest.
// Non-redirect responses and transport errors leave the URL unchanged.
func (s *Scraper) resolveRedirectTarget(url string) string {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return url
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := s.noRedirect.Do(req)
	if err != nil {
		return url
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 && res.StatusCode < 400 {
		if loc := res.Header.Get("Location"); loc != "" {
			return loc
		}
	}
	return url
}
