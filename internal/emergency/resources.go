package emergency

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

const summaryLimit = 1200

// ResourceFetcher retrieves a financial-support page and extracts a short
// readable excerpt for chat display.
type ResourceFetcher struct {
	Client    *http.Client
	UserAgent string
}

func NewResourceFetcher() *ResourceFetcher {
	return &ResourceFetcher{
		Client:    &http.Client{Timeout: 15 * time.Second},
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	}
}

// Summarize fetches the URL and returns its title and a sanitized text
// excerpt. Resource links that are plain text notes (no scheme) are returned
// as-is.
func (f *ResourceFetcher) Summarize(ctx context.Context, link string) (string, error) {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Scheme == "" {
		return link, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch resource: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch resource: status code %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("failed to parse resource page: %v", err)
	}

	sanitized := bluemonday.StrictPolicy().Sanitize(article.TextContent)
	if len(sanitized) > summaryLimit {
		sanitized = sanitized[:summaryLimit] + "..."
	}
	if article.Title != "" {
		return fmt.Sprintf("%s\n%s", article.Title, sanitized), nil
	}
	return sanitized, nil
}
