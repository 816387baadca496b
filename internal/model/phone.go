package model

import "strings"

// phoneSeparators are the characters stripped before any prefix rewriting.
// Extraction sources format the same number many different ways
// ("+40 722 123 456", "0722-123-456", "(0722)123.456").
const phoneSeparators = " -()."

// NormalizePhone canonicalizes a phone-number string for equality comparison.
//
// The algorithm strips spaces, dashes, parentheses and dots, then rewrites
// international-prefix variants of Romanian numbers to the local 0-prefixed
// form:
//
//	+40722123456  -> 0722123456
//	0040722123456 -> 0722123456
//	40722123456   -> 0722123456 (bare "40" + exactly 9 digits)
//
// An empty input yields an empty string, not an error. Strings with no
// recognized prefix are returned with separators stripped only.
//
// This function is load-bearing for all grouping and suspect-matching logic;
// every place that tests phone equality must go through it (or PhonesEqual).
func NormalizePhone(phone string) string {
	if phone == "" {
		return ""
	}

	normalized := phone
	for _, sep := range phoneSeparators {
		normalized = strings.ReplaceAll(normalized, string(sep), "")
	}

	switch {
	case strings.HasPrefix(normalized, "+40"):
		normalized = "0" + normalized[3:]
	case strings.HasPrefix(normalized, "0040"):
		normalized = "0" + normalized[4:]
	case strings.HasPrefix(normalized, "40") && len(normalized) == 11:
		// Bare country code without trunk prefix, e.g. 40759019895.
		normalized = "0" + normalized[2:]
	}

	return normalized
}

// PhonesEqual reports whether two phone-number strings refer to the same
// number. Two numbers are equal when their normalized forms match exactly,
// or when both normalized forms are at least nine digits long and share the
// same last nine digits. The suffix comparison bridges country-code variants
// that normalization cannot resolve (e.g. a missing trunk prefix).
//
// Contact grouping intentionally uses exact normalized equality instead of
// this predicate; see the dedup package for the rationale.
func PhonesEqual(a, b string) bool {
	na := NormalizePhone(a)
	nb := NormalizePhone(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if len(na) >= 9 && len(nb) >= 9 {
		return na[len(na)-9:] == nb[len(nb)-9:]
	}
	return false
}

// DigitsOnly returns only the decimal digits of s, in order.
// Used for photo-filename matching where image stems carry bare digit runs.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
