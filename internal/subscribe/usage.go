package subscribe

import (
	"strconv"
	"strings"
	"time"
)

// Failure reasons surfaced in verdicts.
const (
	ReasonQuotaExhausted = "quota exhausted"
	ReasonExpired        = "expired"
)

// ParseUsageHeader decodes a subscription-userinfo header value of the
// form "upload=123; download=456; total=789; expire=1700000000".
//
// The header is free-form across vendors, so the parse is permissive:
// unknown keys and segments without a value are skipped, and a
// non-numeric value for a recognized key leaves that field at its
// default instead of failing the parse. An absent (empty) header yields
// nil.
func ParseUsageHeader(raw string) *UsageRecord {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	rec := &UsageRecord{}
	for _, segment := range strings.Split(raw, ";") {
		key, value, found := strings.Cut(segment, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			continue
		}

		switch key {
		case "upload":
			rec.Upload = n
		case "download":
			rec.Download = n
		case "total":
			rec.Total = n
		case "expire":
			expire := n
			rec.Expire = &expire
		}
	}

	return rec
}

// JudgeUsage applies the validity rules to a usage record: quota first,
// then expiry. On a pass it returns the rendered usage-info string; on a
// failure it returns the reason.
func JudgeUsage(rec *UsageRecord, now time.Time) (usageInfo, failReason string) {
	used := rec.Upload + rec.Download
	if used >= rec.Total {
		return "", ReasonQuotaExhausted
	}
	if rec.Expire != nil && *rec.Expire <= uint64(now.Unix()) {
		return "", ReasonExpired
	}
	return FormatUsageInfo(rec, now), ""
}

// FormatUsageInfo renders a record as "used/total", annotated with the
// expiry date when one is set. The annotation is display-only and
// independent of the pass/fail judgement.
func FormatUsageInfo(rec *UsageRecord, now time.Time) string {
	usedValue, usedUnit := FormatBytes(float64(rec.Upload + rec.Download))
	totalValue, totalUnit := FormatBytes(float64(rec.Total))

	var b strings.Builder
	b.WriteString(usedValue)
	b.WriteString(usedUnit)
	b.WriteString("/")
	b.WriteString(totalValue)
	b.WriteString(totalUnit)

	if rec.Expire != nil {
		if *rec.Expire > uint64(now.Unix()) {
			b.WriteString(" (")
			b.WriteString(time.Unix(int64(*rec.Expire), 0).UTC().Format("2006-01-02"))
			b.WriteString(")")
		} else {
			b.WriteString(" (expired)")
		}
	}

	return b.String()
}
