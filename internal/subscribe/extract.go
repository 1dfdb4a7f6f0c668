package subscribe

import (
	"regexp"
	"strings"
)

// subscribeLinkPattern matches subscription-token URLs embedded in free
// text: a scheme, any run of characters that cannot terminate a URL in
// HTML or shell output, and the token path.
var subscribeLinkPattern = regexp.MustCompile("https?://[^\\s\"'<>`]+/api/v1/client/subscribe\\?token=[a-zA-Z0-9]+")

// ExtractLinks scans every page's body, header and banner, in that order,
// and returns the unique subscription links found across the batch. A
// link is attributed to the host of the first page that revealed it;
// output order is first-insertion order.
func ExtractLinks(pages []PageResult) []LinkCandidate {
	seen := make(map[string]struct{})
	var candidates []LinkCandidate

	for _, page := range pages {
		for _, field := range []string{page.Body, page.Header, page.Banner} {
			for _, link := range subscribeLinkPattern.FindAllString(field, -1) {
				if _, ok := seen[link]; ok {
					continue
				}
				seen[link] = struct{}{}
				candidates = append(candidates, LinkCandidate{Link: link, Host: page.Host})
			}
		}
	}

	return candidates
}

// BuildFullURL turns a host from the search backend into a reachable
// address. Hosts that already carry a scheme are used verbatim; otherwise
// the reported protocol (default http) is prefixed.
func BuildFullURL(host, protocol string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	if protocol == "" {
		protocol = "http"
	}
	return protocol + "://" + host
}

// DirectCandidates maps targets that advertise the usage header
// themselves onto candidates: the target's own address is the link.
func DirectCandidates(targets []Target) []LinkCandidate {
	candidates := make([]LinkCandidate, 0, len(targets))
	for _, t := range targets {
		candidates = append(candidates, LinkCandidate{
			Link: BuildFullURL(t.Host, t.Protocol),
			Host: t.Host,
		})
	}
	return candidates
}
