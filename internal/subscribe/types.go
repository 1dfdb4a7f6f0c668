package subscribe

// Target is one asset returned by the search backend, a candidate for
// content fetching. Host may already be a full URL or a bare hostname.
type Target struct {
	Host     string
	Protocol string
	Header   string
	Banner   string
}

// PageResult holds the body fetched from a target together with the
// header and banner the search backend reported for it.
type PageResult struct {
	Host   string
	Body   string
	Header string
	Banner string
}

// LinkCandidate pairs a suspected subscription URL with the host it was
// first discovered on.
type LinkCandidate struct {
	Link string
	Host string
}

// UsageRecord is the decoded subscription-userinfo accounting header.
// Fields missing from the header keep their zero value; Expire is nil
// when the header carries no expiry timestamp.
type UsageRecord struct {
	Upload   uint64
	Download uint64
	Total    uint64
	Expire   *uint64
}

// VerificationResult is the terminal verdict for one candidate link.
// Exactly one of UsageInfo/FailReason is populated, matching OK.
type VerificationResult struct {
	Link       string
	Host       string
	OK         bool
	UsageInfo  string
	FailReason string
}

// Succeeded builds the verdict for a link that passed verification.
func Succeeded(c LinkCandidate, usageInfo string) VerificationResult {
	return VerificationResult{Link: c.Link, Host: c.Host, OK: true, UsageInfo: usageInfo}
}

// Failed builds the verdict for a link that reached a failure state.
func Failed(c LinkCandidate, reason string) VerificationResult {
	return VerificationResult{Link: c.Link, Host: c.Host, FailReason: reason}
}
