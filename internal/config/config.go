package config

import "errors"

// Config is the process configuration, sourced from flags and
// environment before the pipeline runs. The pipeline itself never reads
// ambient state.
type Config struct {
	Email       string
	Key         string
	Size        int
	Concurrency int
	Output      string
	Debug       bool
}

// Validate checks the startup invariants. A failure here aborts the
// process before any query is issued.
func (c Config) Validate() error {
	if c.Email == "" {
		return errors.New("fofa account email is required (FOFA_EMAIL)")
	}
	if c.Key == "" {
		return errors.New("fofa api key is required (FOFA_KEY)")
	}
	if c.Size <= 0 {
		return errors.New("page size must be positive")
	}
	if c.Concurrency <= 0 {
		return errors.New("concurrency must be positive")
	}
	return nil
}
