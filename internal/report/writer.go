package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/clddup/F-Proxy/internal/subscribe"
)

// WriteLinks appends every valid link to path, one per line, creating
// the parent directory when needed.
func WriteLinks(path string, results []subscribe.VerificationResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer f.Close()

	for _, r := range results {
		if !r.OK {
			continue
		}
		if _, err := fmt.Fprintln(f, r.Link); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
	}

	return nil
}
