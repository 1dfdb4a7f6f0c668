package fofa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clddup/F-Proxy/internal/subscribe"
)

const defaultBaseURL = "https://fofa.info/api/v1/search/all"

// The two discovery queries the pipeline issues. The first matches hosts
// whose pages embed a subscription-token URL; the second matches hosts
// that advertise the usage header themselves.
const (
	QueryEmbeddedLink = `body="/api/v1/client/subscribe?token="`
	QueryUsageHeader  = `header="subscription-userinfo" || banner="subscription-userinfo"`
)

// resultFields is what each result row carries, in order.
const resultFields = "host,protocol,header,banner"

// Client queries the FOFA search API.
type Client struct {
	email   string
	key     string
	size    int
	httpc   *http.Client
	baseURL string
}

// apiResponse is the FOFA search envelope. Results rows are positional
// per the requested fields.
type apiResponse struct {
	Error   bool       `json:"error"`
	ErrMsg  string     `json:"errmsg"`
	Size    int        `json:"size"`
	Results [][]string `json:"results"`
}

// NewClient builds a FOFA client authenticated with the account email
// and API key; size is the result page size per query.
func NewClient(email, key string, size int) *Client {
	return &Client{
		email:   email,
		key:     key,
		size:    size,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
	}
}

// WithBaseURL points the client at a different API endpoint. Used by
// tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// Search runs one FOFA query and maps each result row onto a Target.
// A backend-reported error flag is returned as an error carrying the
// backend's message.
func (c *Client) Search(ctx context.Context, query string) ([]subscribe.Target, error) {
	params := url.Values{}
	params.Set("email", c.email)
	params.Set("key", c.key)
	params.Set("qbase64", base64.StdEncoding.EncodeToString([]byte(query)))
	params.Set("fields", resultFields)
	params.Set("size", strconv.Itoa(c.size))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build fofa request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fofa request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read fofa response: %w", err)
	}

	var ar apiResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, fmt.Errorf("decode fofa response: %w", err)
	}
	if ar.Error {
		return nil, fmt.Errorf("fofa api error: %s", ar.ErrMsg)
	}

	targets := make([]subscribe.Target, 0, len(ar.Results))
	for _, row := range ar.Results {
		t := subscribe.Target{}
		if len(row) > 0 {
			t.Host = row[0]
		}
		if len(row) > 1 {
			t.Protocol = row[1]
		}
		if len(row) > 2 {
			t.Header = row[2]
		}
		if len(row) > 3 {
			t.Banner = row[3]
		}
		if t.Host == "" {
			continue
		}
		targets = append(targets, t)
	}

	log.Debug("fofa query complete", "query", query, "results", len(targets))
	return targets, nil
}
