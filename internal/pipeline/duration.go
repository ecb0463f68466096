package pipeline

import (
	"regexp"
	"strings"

	"go-contract-harvester/internal/models"
)

// durationPatterns are tried in order against the lower-cased description.
var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*months?\s*contract`),
	regexp.MustCompile(`(\d+)\s*weeks?\s*contract`),
	regexp.MustCompile(`(\d+)\s*years?\s*contract`),
	regexp.MustCompile(`contract\s*for\s*(\d+)\s*months?`),
	regexp.MustCompile(`(\d+)-month\s*contract`),
	regexp.MustCompile(`(\d+)\s*to\s*(\d+)\s*months?\s*contract`),
}

// ContractDuration returns the text matched by the first pattern that hits.
func ContractDuration(description string) string {
	if description == "" {
		return models.DurationNotSpecified
	}
	lower := strings.ToLower(description)
	for _, re := range durationPatterns {
		if m := re.FindString(lower); m != "" {
			return m
		}
	}
	return models.DurationNotSpecified
}
