package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clddup/F-Proxy/internal/fetch"
	"github.com/clddup/F-Proxy/internal/fofa"
	"github.com/clddup/F-Proxy/internal/subscribe"
)

type fakeBackend struct {
	targets map[string][]subscribe.Target
	err     error
}

func (f fakeBackend) Search(ctx context.Context, query string) ([]subscribe.Target, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.targets[query], nil
}

func newPipeline(backend SearchBackend) *Pipeline {
	return &Pipeline{
		Backend:      backend,
		PageClient:   fetch.NewPageClient(),
		VerifyClient: fetch.NewVerifyClient(),
		Concurrency:  4,
		Timeout:      5 * time.Second,
	}
}

func TestRunShortCircuits(t *testing.T) {
	t.Run("no search results at all", func(t *testing.T) {
		results, err := newPipeline(fakeBackend{}).Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("backend error aborts the run", func(t *testing.T) {
		backendErr := errors.New("fofa api error: invalid key")
		_, err := newPipeline(fakeBackend{err: backendErr}).Run(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, backendErr)
	})

	t.Run("pages without links end the run cleanly", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "nothing to see here")
		}))
		t.Cleanup(srv.Close)

		backend := fakeBackend{targets: map[string][]subscribe.Target{
			fofa.QueryEmbeddedLink: {{Host: srv.URL}},
		}}
		results, err := newPipeline(backend).Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestRunEndToEnd(t *testing.T) {
	const usageHeader = "upload=0; download=1073741824; total=107374182400; expire=9999999999"
	const configBody = "proxy-groups:\n  - name: auto\n    type: url-test\n"

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "free nodes! %s/api/v1/client/subscribe?token=abc123 enjoy", srv.URL)
	})
	mux.HandleFunc("/api/v1/client/subscribe", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "abc123" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Subscription-Userinfo", usageHeader)
		fmt.Fprint(w, configBody)
	})
	mux.HandleFunc("/direct", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Subscription-Userinfo", usageHeader)
		fmt.Fprint(w, configBody)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	backend := fakeBackend{targets: map[string][]subscribe.Target{
		fofa.QueryEmbeddedLink: {{Host: srv.URL + "/page"}},
		fofa.QueryUsageHeader:  {{Host: srv.URL + "/direct"}},
	}}

	var stages []string
	var ticks int
	p := newPipeline(backend)
	p.Progress = func(stage string, total int) (func(), func()) {
		stages = append(stages, fmt.Sprintf("%s:%d", stage, total))
		return func() { ticks++ }, func() {}
	}

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	extracted := results[0]
	assert.True(t, extracted.OK)
	assert.Equal(t, srv.URL+"/api/v1/client/subscribe?token=abc123", extracted.Link)
	assert.Equal(t, srv.URL+"/page", extracted.Host)
	assert.Contains(t, extracted.UsageInfo, "1.00GB/100GB")

	direct := results[1]
	assert.True(t, direct.OK)
	assert.Equal(t, srv.URL+"/direct", direct.Link)

	// One fetch stage over one target, one verify stage over two links,
	// one tick per completed item.
	assert.Equal(t, []string{"fetching pages:1", "verifying links:2"}, stages)
	assert.Equal(t, 3, ticks)
}

func TestRunAbsorbsPerItemFailures(t *testing.T) {
	const usageHeader = "upload=0; download=1; total=1000"
	const configBody = "proxy-groups:\n  - name: auto\n"

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Subscription-Userinfo", usageHeader)
		fmt.Fprint(w, configBody)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	backend := fakeBackend{targets: map[string][]subscribe.Target{
		fofa.QueryUsageHeader: {
			{Host: srv.URL + "/ok"},
			{Host: srv.URL + "/broken"},
			{Host: "http://127.0.0.1:1/unreachable"},
		},
	}}

	results, err := newPipeline(backend).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Equal(t, "HTTP 500", results[1].FailReason)
	assert.False(t, results[2].OK)
	assert.Equal(t, "fetch error", results[2].FailReason)
}
