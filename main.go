package main

import (
	"context"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/cheggaaa/pb/v3"

	"github.com/clddup/F-Proxy/internal/config"
	"github.com/clddup/F-Proxy/internal/fetch"
	"github.com/clddup/F-Proxy/internal/fofa"
	"github.com/clddup/F-Proxy/internal/pipeline"
	"github.com/clddup/F-Proxy/internal/report"
	"github.com/clddup/F-Proxy/internal/subscribe"
)

// CLIFlags holds the command line flags; every flag can also come from
// the environment.
type CLIFlags struct {
	Email       string `help:"FOFA account email." env:"FOFA_EMAIL"`
	Key         string `help:"FOFA API key." env:"FOFA_KEY"`
	Size        int    `help:"Result page size per query." env:"FPROXY_SIZE" default:"100"`
	Concurrency int    `help:"Concurrent fetch/verify workers." short:"c" env:"FPROXY_CONCURRENCY" default:"10"`
	Output      string `help:"File to append valid subscription links to." short:"o" env:"FPROXY_OUTPUT"`
	Debug       bool   `help:"Enable debug logging." env:"FPROXY_DEBUG"`
}

// spinningBackend decorates the search backend with a console spinner
// while a query is in flight.
type spinningBackend struct {
	inner pipeline.SearchBackend
}

func (s spinningBackend) Search(ctx context.Context, query string) ([]subscribe.Target, error) {
	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	sp.Suffix = " querying fofa: " + query
	sp.Start()
	defer sp.Stop()
	return s.inner.Search(ctx, query)
}

// progressBar drives a terminal progress bar from the pipeline's
// per-item completion ticks.
func progressBar(stage string, total int) (func(), func()) {
	bar := pb.New(total)
	bar.SetTemplateString(`{{string . "stage"}} {{counters . }} {{bar . }} {{percent . }}`)
	bar.Set("stage", stage)
	bar.Start()
	return func() { bar.Increment() }, func() { bar.Finish() }
}

func main() {
	var flags CLIFlags
	kong.Parse(&flags,
		kong.Name("f-proxy"),
		kong.Description("Discovers and verifies proxy subscription links via the FOFA search API."),
	)

	report.Banner()

	cfg := config.Config{
		Email:       flags.Email,
		Key:         flags.Key,
		Size:        flags.Size,
		Concurrency: flags.Concurrency,
		Output:      flags.Output,
		Debug:       flags.Debug,
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	p := &pipeline.Pipeline{
		Backend:      spinningBackend{inner: fofa.NewClient(cfg.Email, cfg.Key, cfg.Size)},
		PageClient:   fetch.NewPageClient(),
		VerifyClient: fetch.NewVerifyClient(),
		Concurrency:  cfg.Concurrency,
		Timeout:      fetch.RequestTimeout,
		Progress:     progressBar,
	}

	results, err := p.Run(context.Background())
	if err != nil {
		log.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	valid := report.Print(results)
	if cfg.Output != "" && valid > 0 {
		if err := report.WriteLinks(cfg.Output, results); err != nil {
			log.Error("failed to write output file", "path", cfg.Output, "error", err)
		} else {
			log.Info("valid links written", "path", cfg.Output, "count", valid)
		}
	}
}
