package universe

import (
	"regexp"
	"strings"
)

// preferredSharePattern matches numbered preferred-share suffixes such as
// "1우", "2우B", "3우C" at the end of a name.
var preferredSharePattern = regexp.MustCompile(`\d+우[A-Z]?$`)

// CheckName decides whether a display name belongs to a stock the classifier
// can meaningfully tag. Preferred shares, SPACs and inverse/leveraged
// products track something other than the issuer's fundamentals, so they are
// excluded before classification and scoring. Every rule runs against the
// full trimmed name; a marker can sit in any token ("KODEX 인버스",
// "Global Spac Partners").
func CheckName(name string) Analyzability {
	name = strings.TrimSpace(name)
	if name == "" || name == "알 수 없는 종목" {
		return Analyzability{Reason: ReasonUnknownName}
	}

	// Preferred shares: "(우)" anywhere, a numbered suffix, or a bare
	// trailing "우" (e.g. SK텔레콤우). A leading "우" is part of the
	// company name (우리금융지주) and must pass.
	if strings.Contains(name, "(우)") ||
		preferredSharePattern.MatchString(name) ||
		strings.HasSuffix(name, "우") {
		return Analyzability{Reason: ReasonPreferredShare}
	}

	if strings.Contains(name, "스팩") || strings.Contains(strings.ToUpper(name), "SPAC") {
		return Analyzability{Reason: ReasonSPAC}
	}

	if strings.Contains(name, "인버스") || strings.Contains(name, "레버리지") {
		return Analyzability{Reason: ReasonInverseLeveraged}
	}

	return Analyzability{Analyzable: true}
}

// IsAnalyzableName is the boolean shortcut used by the recommender's
// eligibility filter.
func IsAnalyzableName(name string) bool {
	return CheckName(name).Analyzable
}

// cleanName keeps the first whitespace-separated token of a display name.
// Display only; the validity rules above look at the whole name.
func cleanName(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
