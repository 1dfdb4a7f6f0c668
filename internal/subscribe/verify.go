package subscribe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// ClashUserAgent is sent on verification requests. Some panels only
// attach the subscription-userinfo header when the request looks like a
// proxy client.
const ClashUserAgent = "ClashforWindows/0.78.1"

// UsageHeaderName is the response header carrying subscription
// accounting.
const UsageHeaderName = "subscription-userinfo"

// maxPayloadBytes caps how much of a subscription body is read for
// validation.
const maxPayloadBytes = 4 << 20

// VerifyLink drives one candidate through the verification steps and
// always returns a terminal verdict; transport failures, bad statuses
// and invalid payloads become failed verdicts, never errors.
func VerifyLink(ctx context.Context, client *http.Client, c LinkCandidate) VerificationResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Link, nil)
	if err != nil {
		return failDebug(c, "fetch error", err)
	}
	req.Header.Set("User-Agent", ClashUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return failDebug(c, "fetch error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failDebug(c, fmt.Sprintf("HTTP %d", resp.StatusCode), nil)
	}

	raw := resp.Header.Get(UsageHeaderName)
	if raw == "" {
		return failDebug(c, "missing usage header", nil)
	}
	rec := ParseUsageHeader(raw)
	if rec == nil {
		return failDebug(c, "header parse error", nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return failDebug(c, "fetch error", err)
	}
	if !ValidatePayload(string(body)) {
		return failDebug(c, "invalid payload", nil)
	}

	usageInfo, reason := JudgeUsage(rec, time.Now())
	if reason != "" {
		return failDebug(c, reason, nil)
	}

	log.Debug("subscription verified", "link", c.Link, "usage", usageInfo)
	return Succeeded(c, usageInfo)
}

func failDebug(c LinkCandidate, reason string, err error) VerificationResult {
	if err != nil {
		log.Debug("verification failed", "link", c.Link, "reason", reason, "error", err)
	} else {
		log.Debug("verification failed", "link", c.Link, "reason", reason)
	}
	return Failed(c, reason)
}
