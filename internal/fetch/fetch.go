package fetch

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"
)

// RequestTimeout bounds every individual fetch and verification request.
const RequestTimeout = 10 * time.Second

// maxBodyBytes caps how much of a discovered page is read.
const maxBodyBytes = 4 << 20

// Map runs fn over items with at most limit operations in flight and
// returns one result per item, positionally matched to the input. Each
// operation is bounded by timeout; a failing or panicking operation
// leaves the zero value in its slot and never disturbs its siblings.
// onDone, when non-nil, is invoked exactly once per completed item,
// success or failure alike, serialized across workers.
func Map[T, R any](ctx context.Context, items []T, limit int, timeout time.Duration, fn func(context.Context, T) (R, error), onDone func()) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}
	if limit < 1 {
		limit = 1
	}
	if limit > len(items) {
		limit = len(items)
	}

	indexes := make(chan int)
	go func() {
		defer close(indexes)
		for i := range items {
			select {
			case indexes <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	var doneMu sync.Mutex
	for w := 0; w < limit; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				runOne(ctx, items[i], timeout, fn, &results[i])
				if onDone != nil {
					doneMu.Lock()
					onDone()
					doneMu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	return results
}

// runOne executes a single operation under its own timeout, absorbing
// panics so one bad item cannot take down the batch.
func runOne[T, R any](ctx context.Context, item T, timeout time.Duration, fn func(context.Context, T) (R, error), out *R) {
	defer func() {
		_ = recover()
	}()

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r, err := fn(opCtx, item)
	if err == nil {
		*out = r
	}
}

// newTransport builds the shared transport: certificate validation is
// off so self-signed subscription endpoints still answer.
func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: true},
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// NewPageClient returns the client used to pull page content from
// discovered assets. Redirects are not followed; the page a search hit
// actually serves is what gets scanned.
func NewPageClient() *http.Client {
	return &http.Client{
		Transport: newTransport(),
		Timeout:   RequestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// NewVerifyClient returns the client used to probe candidate
// subscription links. Redirects are followed so panels behind a 301 still
// verify.
func NewVerifyClient() *http.Client {
	return &http.Client{
		Transport: newTransport(),
		Timeout:   RequestTimeout,
	}
}
