// Package pipeline implements the lead reporting transforms: phone
// normalization, campaign tagging, CRM classification, reconciliation,
// and aggregation. Every stage is a pure function over its inputs.
package pipeline

import "strings"

// NormalizePhone canonicalizes a raw phone string into the international
// "62"-prefixed convention. Rules apply in order, first match wins:
//
//	"8..."   → "628..."  (bare subscriber number)
//	"0..."   → "62..."   (leading zero replaced)
//	"620..." → "62..."   (malformed double prefix collapsed)
//
// Anything else, including empty or non-numeric strings, passes through
// unchanged. This is best-effort cosmetic normalization, not validation.
func NormalizePhone(raw string) string {
	switch {
	case strings.HasPrefix(raw, "8"):
		return "62" + raw
	case strings.HasPrefix(raw, "0"):
		return "62" + raw[1:]
	case strings.HasPrefix(raw, "620"):
		return "62" + raw[3:]
	default:
		return raw
	}
}
