// Package meetings scrapes Council meeting summaries from the LegCo
// website. This path is best effort by design: the page markup is not a
// contract, so rows that no longer parse are skipped rather than failing
// the whole operation. It is independent of the OData filter pipeline.
package meetings

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"

	"github.com/letmevibethatforyou/legcosearch"
)

const (
	// DefaultPageURL is the Council meetings listing page.
	DefaultPageURL = "https://www.legco.gov.hk/tc/legco-business/council/council-meetings.html"

	// siteOrigin resolves relative links found on the page.
	siteOrigin = "https://www.legco.gov.hk"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "legcosearch/1.0"

	maxBodyExcerpt = 200
)

// dateLayouts are tried in order when parsing a row's date cell.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02", "02-01-2006"}

// Link is one hyperlink found in a meeting row.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Summary is one scraped meeting row.
type Summary struct {
	Date   string `json:"date"`
	Agenda string `json:"agenda"`
	Links  []Link `json:"links"`
}

// Scraper fetches and parses the Council meetings listing page.
type Scraper struct {
	httpClient *http.Client
	pageURL    string
	userAgent  string
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(s *Scraper) {
		s.httpClient = h
	}
}

// WithPageURL overrides the listing page URL. Intended for tests.
func WithPageURL(url string) Option {
	return func(s *Scraper) {
		s.pageURL = url
	}
}

// WithUserAgent sets the identifying User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		s.userAgent = ua
	}
}

// NewScraper creates a Scraper with default transport settings.
func NewScraper(opts ...Option) *Scraper {
	s := &Scraper{
		httpClient: &http.Client{Timeout: defaultTimeout},
		pageURL:    DefaultPageURL,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch retrieves the listing page and returns the meeting rows matching
// the request's optional year and date filters. Rows whose date cell does
// not parse under any known layout are skipped when a filter is active and
// kept otherwise.
func (s *Scraper) Fetch(ctx context.Context, req legcosearch.MeetingSummaryRequest) ([]Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building meetings page request")
	}
	httpReq.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, legcosearch.NewNetworkError(truncate(err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, legcosearch.NewHTTPStatusError(resp.StatusCode, truncate(string(body)))
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parsing meetings page")
	}

	summaries := make([]Summary, 0)
	for _, row := range collectRows(doc) {
		if !matches(row.Date, req) {
			continue
		}
		summaries = append(summaries, row)
	}
	return summaries, nil
}

// matches applies the optional year/date filter to a row's date text.
func matches(dateText string, req legcosearch.MeetingSummaryRequest) bool {
	if req.Year == 0 && req.Date == "" {
		return true
	}
	parsed, ok := parseRowDate(dateText)
	if !ok {
		return false
	}
	if req.Year != 0 && parsed.Year() != req.Year {
		return false
	}
	if req.Date != "" && parsed.Format("2006-01-02") != req.Date {
		return false
	}
	return true
}

// parseRowDate tries each known layout in order.
func parseRowDate(text string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// collectRows walks the document and extracts every table row with at
// least two cells: the first cell is the date, the second the agenda, and
// any anchors in the row become links.
func collectRows(doc *html.Node) []Summary {
	var rows []Summary

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if row, ok := extractRow(n); ok {
				rows = append(rows, row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return rows
}

// extractRow pulls date, agenda and links out of one tr node. Rows with
// fewer than two cells carry no meeting data.
func extractRow(tr *html.Node) (Summary, bool) {
	var cells []string
	var links []Link

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "td":
				cells = append(cells, nodeText(n))
			case "a":
				if href, ok := attr(n, "href"); ok {
					links = append(links, Link{
						Text: nodeText(n),
						URL:  absoluteURL(href),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}

	if len(cells) < 2 {
		return Summary{}, false
	}
	return Summary{Date: cells[0], Agenda: cells[1], Links: links}, true
}

// nodeText concatenates the text content of a node, collapsing whitespace.
func nodeText(n *html.Node) string {
	var b strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(strings.Fields(b.String()), " ")
}

// attr returns the value of the named attribute.
func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// absoluteURL resolves relative hrefs against the site origin.
func absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		return siteOrigin + "/" + href
	}
	return siteOrigin + href
}

// truncate bounds diagnostic excerpts from upstream bodies.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxBodyExcerpt {
		return s
	}
	return string(runes[:maxBodyExcerpt])
}
