package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/clddup/F-Proxy/internal/subscribe"
)

// FetchPage retrieves a target's page content, carrying over the header
// and banner the search backend reported so link extraction can scan
// them too. Transport failures and non-2xx statuses return an error; the
// caller's batch absorbs it as an absent result.
func FetchPage(ctx context.Context, client *http.Client, t subscribe.Target) (*subscribe.PageResult, error) {
	pageURL := subscribe.BuildFullURL(t.Host, t.Protocol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Debug("page fetch failed", "url", pageURL, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debug("page fetch rejected", "url", pageURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Debug("page read failed", "url", pageURL, "error", err)
		return nil, err
	}

	return &subscribe.PageResult{
		Host:   t.Host,
		Body:   string(body),
		Header: t.Header,
		Banner: t.Banner,
	}, nil
}
