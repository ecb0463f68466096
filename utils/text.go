package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const isoDate = "2006-01-02"

var (
	spaceRegex      = regexp.MustCompile(`\s+`)
	disallowedRegex = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,()]`)

	daysAgoRegex  = regexp.MustCompile(`(\d{1,2})\+?\s+days?\s+ago`)
	hoursAgoRegex = regexp.MustCompile(`(\d{1,2})\+?\s+hours?\s+ago`)
	usDateRegex   = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	isoDateRegex  = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
)

// CleanText collapses whitespace and drops everything except letters, digits,
// underscore, whitespace and "-.,()". Accented letters are kept; text is
// composed to NFC first so a decomposed "é" is not split into "e" and a
// stripped combining mark.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	s = disallowedRegex.ReplaceAllString(s, "")
	s = spaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ExtractDate turns posting-date text into YYYY-MM-DD.
// Empty input stays empty; text with no recognised date means "today".
func ExtractDate(text string) string {
	return ExtractDateAt(text, time.Now())
}

// ExtractDateAt is ExtractDate with an explicit reference time.
func ExtractDateAt(text string, now time.Time) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lower := strings.ToLower(text)

	if m := daysAgoRegex.FindStringSubmatch(lower); m != nil {
		days, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, -days).Format(isoDate)
	}
	if m := hoursAgoRegex.FindStringSubmatch(lower); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(hours) * time.Hour).Format(isoDate)
	}
	if m := usDateRegex.FindStringSubmatch(lower); m != nil {
		if d, ok := buildDate(m[3], m[1], m[2]); ok {
			return d
		}
	}
	if m := isoDateRegex.FindStringSubmatch(lower); m != nil {
		if d, ok := buildDate(m[1], m[2], m[3]); ok {
			return d
		}
	}
	return now.Format(isoDate)
}

// buildDate rejects impossible dates such as 02/31 instead of letting time.Date roll them over.
func buildDate(year, month, day string) (string, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 {
		return "", false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return "", false
	}
	return t.Format(isoDate), true
}
