package jobdesc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	fetchTimeout  = 20 * time.Second
	maxBodyBytes  = 2 << 20 // 2MB of HTML is plenty for a job posting
	browserUA     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	minUsefulText = 40
)

var (
	// ErrInvalidURL indicates the job URL is missing or not http(s).
	ErrInvalidURL = errors.New("invalid job url")
	// ErrUnreachable indicates the job URL could not be fetched.
	ErrUnreachable = errors.New("job url unreachable")
	// ErrEmptyDescription indicates the page yielded no usable text.
	ErrEmptyDescription = errors.New("empty job description")
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Fetcher retrieves and cleans job descriptions from posting URLs.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher constructs a Fetcher with a bounded timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// FromURL downloads the posting page and reduces it to plain text.
func (f *Fetcher) FromURL(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	// Many job boards reject requests without a browser user agent.
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: http status %d", ErrUnreachable, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	text, err := htmlToText(body)
	if err != nil {
		return "", fmt.Errorf("parse job page: %w", err)
	}
	if len(text) < minUsefulText {
		return "", ErrEmptyDescription
	}
	return text, nil
}

// Clean normalizes pasted job description text.
func Clean(raw string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
}

func htmlToText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, iframe").Remove()

	var parts []string
	doc.Find("body").Each(func(_ int, sel *goquery.Selection) {
		parts = append(parts, sel.Text())
	})
	if len(parts) == 0 {
		parts = append(parts, doc.Text())
	}
	return Clean(strings.Join(parts, " ")), nil
}
