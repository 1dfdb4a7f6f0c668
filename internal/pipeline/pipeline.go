package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clddup/F-Proxy/internal/fetch"
	"github.com/clddup/F-Proxy/internal/fofa"
	"github.com/clddup/F-Proxy/internal/subscribe"
)

// SearchBackend abstracts the asset-search API the pipeline discovers
// targets through.
type SearchBackend interface {
	Search(ctx context.Context, query string) ([]subscribe.Target, error)
}

// Progress is called at the start of each concurrent stage and returns a
// per-item tick plus a finisher. A nil Progress disables reporting.
type Progress func(stage string, total int) (tick func(), done func())

// Pipeline wires the discovery and verification stages: search, fetch
// pages, extract and merge links, verify. Stages run strictly
// downstream; per-item failures inside fetch and verify never interrupt
// the batch.
type Pipeline struct {
	Backend      SearchBackend
	PageClient   *http.Client
	VerifyClient *http.Client
	Concurrency  int
	Timeout      time.Duration
	Progress     Progress
}

// Run executes the pipeline and returns the per-link verdicts. A search
// failure is the only hard error; an empty intermediate stage logs a
// warning and returns no results and no error.
func (p *Pipeline) Run(ctx context.Context) ([]subscribe.VerificationResult, error) {
	pageTargets, err := p.Backend.Search(ctx, fofa.QueryEmbeddedLink)
	if err != nil {
		return nil, err
	}
	directTargets, err := p.Backend.Search(ctx, fofa.QueryUsageHeader)
	if err != nil {
		return nil, err
	}
	log.Info("search complete", "page_targets", len(pageTargets), "direct_targets", len(directTargets))

	if len(pageTargets) == 0 && len(directTargets) == 0 {
		log.Warn("search returned no assets, nothing to do")
		return nil, nil
	}

	pages := p.fetchPages(ctx, pageTargets)
	log.Info("fetch complete", "pages", len(pages), "targets", len(pageTargets))

	extracted := subscribe.ExtractLinks(pages)
	direct := subscribe.DirectCandidates(directTargets)
	candidates := subscribe.Dedupe(extracted, direct)
	log.Info("link discovery complete", "extracted", len(extracted), "direct", len(direct), "unique", len(candidates))

	if len(candidates) == 0 {
		log.Warn("no candidate links found")
		return nil, nil
	}

	return p.verify(ctx, candidates), nil
}

// fetchPages pulls content for every target under bounded concurrency,
// dropping the targets whose fetch failed.
func (p *Pipeline) fetchPages(ctx context.Context, targets []subscribe.Target) []subscribe.PageResult {
	if len(targets) == 0 {
		return nil
	}
	tick, done := p.progress("fetching pages", len(targets))
	defer done()

	fetched := fetch.Map(ctx, targets, p.Concurrency, p.timeout(),
		func(ctx context.Context, t subscribe.Target) (*subscribe.PageResult, error) {
			return fetch.FetchPage(ctx, p.PageClient, t)
		}, tick)

	pages := make([]subscribe.PageResult, 0, len(fetched))
	for _, pr := range fetched {
		if pr != nil {
			pages = append(pages, *pr)
		}
	}
	return pages
}

// verify checks every candidate under bounded concurrency. Every
// candidate gets exactly one terminal verdict.
func (p *Pipeline) verify(ctx context.Context, candidates []subscribe.LinkCandidate) []subscribe.VerificationResult {
	tick, done := p.progress("verifying links", len(candidates))
	defer done()

	return fetch.Map(ctx, candidates, p.Concurrency, p.timeout(),
		func(ctx context.Context, c subscribe.LinkCandidate) (subscribe.VerificationResult, error) {
			return subscribe.VerifyLink(ctx, p.VerifyClient, c), nil
		}, tick)
}

func (p *Pipeline) progress(stage string, total int) (func(), func()) {
	if p.Progress == nil {
		return nil, func() {}
	}
	return p.Progress(stage, total)
}

func (p *Pipeline) timeout() time.Duration {
	if p.Timeout <= 0 {
		return fetch.RequestTimeout
	}
	return p.Timeout
}
