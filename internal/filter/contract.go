package filter

import (
	"strings"

	"go-contract-harvester/internal/models"
)

// ContractKeywords mark a listing as contract, freelance or temporary work.
var ContractKeywords = []string{"contract", "contractor", "freelance", "temporary", "temp", "consulting"}

// IsContract reports whether any contract keyword appears, case-insensitively,
// in the title, description or job type.
func IsContract(l models.Listing) bool {
	title := strings.ToLower(l.Title)
	description := strings.ToLower(l.Description)
	jobType := strings.ToLower(l.JobType)
	for _, k := range ContractKeywords {
		if strings.Contains(title, k) || strings.Contains(description, k) || strings.Contains(jobType, k) {
			return true
		}
	}
	return false
}

// ContractOnly keeps the contract listings in their original order.
func ContractOnly(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if IsContract(l) {
			out = append(out, l)
		}
	}
	return out
}
