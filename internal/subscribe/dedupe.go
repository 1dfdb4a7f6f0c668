package subscribe

import (
	"net/url"
	"strings"
)

// dedupeKey normalizes a link to (hostname, path, query) so the same
// endpoint reached over http and https collides. Links that do not parse
// as URLs fall back to raw-string equality.
func dedupeKey(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return link
	}
	return u.Hostname() + u.Path + "?" + u.RawQuery
}

// Dedupe merges extracted and direct candidates into one list with at
// most one entry per effective endpoint, in a single pass. On a key
// collision the https variant replaces an http one; otherwise the
// first-seen candidate is kept.
func Dedupe(extracted, direct []LinkCandidate) []LinkCandidate {
	index := make(map[string]int, len(extracted)+len(direct))
	merged := make([]LinkCandidate, 0, len(extracted)+len(direct))

	insert := func(c LinkCandidate) {
		key := dedupeKey(c.Link)
		if i, ok := index[key]; ok {
			if strings.HasPrefix(c.Link, "https://") && strings.HasPrefix(merged[i].Link, "http://") {
				merged[i] = c
			}
			return
		}
		index[key] = len(merged)
		merged = append(merged, c)
	}

	for _, c := range extracted {
		insert(c)
	}
	for _, c := range direct {
		insert(c)
	}

	return merged
}
