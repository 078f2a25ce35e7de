package symbol

import (
	"strings"
)

// Normalize trims, uppercases and ensures the USDT quote suffix.
// Returns "" for inputs that cannot be made into a valid pair.
func Normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "/", "")
	if !strings.HasSuffix(s, "USDT") {
		s += "USDT"
	}
	if s == "USDT" {
		return ""
	}
	return s
}

// NormalizeList normalizes and deduplicates a symbol list, preserving order.
func NormalizeList(symbols []string) []string {
	if len(symbols) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		s := Normalize(raw)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// IsTradableUSDTPair reports whether a raw exchange symbol is a plain USDT
// spot pair. Leveraged UP/DOWN tokens are excluded from the scan universe.
func IsTradableUSDTPair(raw string) bool {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if !strings.HasSuffix(s, "USDT") || len(s) <= len("USDT") {
		return false
	}
	base := s[:len(s)-len("USDT")]
	if strings.HasSuffix(base, "UP") || strings.HasSuffix(base, "DOWN") {
		return false
	}
	return true
}
