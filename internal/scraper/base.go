// Define an interface for all board adapters
// Per-term and per-card results make failure isolation explicit

package scraper

import (
	"context"
	"log"

	"go-contract-harvester/internal/models"
)

// Scraper defines the interface that all platform adapters must implement
type Scraper interface {
	// Fetch scrapes every search term (up to the adapter's cap) and returns
	// contract listings only. A failing term never stops the remaining terms;
	// the returned error is reserved for adapter-level failures such as a
	// browser that cannot start.
	Fetch(ctx context.Context, terms []string, location string) ([]models.Listing, error)

	// Platform is the board name (LinkedIn, Monster, Dice)
	Platform() models.Platform
}

// Outcome classifies one term or one card.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeEmpty
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// TermResult is what one search term produced.
type TermResult struct {
	Term     string
	Outcome  Outcome
	Listings []models.Listing
	Err      error
}

// Ok wraps listings, reporting empty when there are none.
func Ok(term string, listings []models.Listing) TermResult {
	if len(listings) == 0 {
		return TermResult{Term: term, Outcome: OutcomeEmpty}
	}
	return TermResult{Term: term, Outcome: OutcomeOK, Listings: listings}
}

// Failed records a term that could not be loaded.
func Failed(term string, err error) TermResult {
	return TermResult{Term: term, Outcome: OutcomeFailed, Err: err}
}

// Log writes one line describing the result.
func (r TermResult) Log(platform models.Platform) {
	switch r.Outcome {
	case OutcomeOK:
		log.Printf("    ✅ [%s] %q: %d listings", platform, r.Term, len(r.Listings))
	case OutcomeEmpty:
		log.Printf("    ⚠️ [%s] %q: no listings found", platform, r.Term)
	default:
		log.Printf("    ❌ [%s] %q: %v", platform, r.Term, r.Err)
	}
}

// CardResult is what one card produced. A card without a title is empty.
type CardResult struct {
	Listing models.Listing
	Outcome Outcome
	Err     error
}

// Limit returns at most n leading items.
func Limit[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// Collect flattens term results in term order.
func Collect(results []TermResult) []models.Listing {
	var out []models.Listing
	for _, r := range results {
		out = append(out, r.Listings...)
	}
	return out
}
