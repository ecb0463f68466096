package aggregator

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-contract-harvester/internal/models"
	"go-contract-harvester/internal/scraper"
)

// AdapterOutcome is one adapter's contribution to a run.
type AdapterOutcome struct {
	Platform models.Platform
	Count    int
	Err      error
	Elapsed  time.Duration
}

// Result holds the concatenated listings in registration order.
type Result struct {
	Listings []models.Listing
	Outcomes []AdapterOutcome
}

// Empty reports a no-op run. It is not an error.
func (r Result) Empty() bool {
	return len(r.Listings) == 0
}

// Failed returns the adapters that contributed nothing because they errored.
func (r Result) Failed() []AdapterOutcome {
	var out []AdapterOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Aggregator runs every adapter over the same terms, one after another.
type Aggregator struct {
	scrapers []scraper.Scraper
	location string
}

func New(location string, scrapers ...scraper.Scraper) *Aggregator {
	return &Aggregator{scrapers: scrapers, location: location}
}

// Run never fails: an adapter that errors or panics contributes zero
// listings and the remaining adapters still run.
func (a *Aggregator) Run(ctx context.Context, terms []string) Result {
	var res Result
	for _, s := range a.scrapers {
		log.Printf("\n▶️ Starting scraper: %s", s.Platform())
		start := time.Now()

		listings, err := a.runOne(ctx, s, terms)
		outcome := AdapterOutcome{Platform: s.Platform(), Err: err, Elapsed: time.Since(start)}
		if err != nil {
			log.Printf("❌ Error running scraper %s: %v", s.Platform(), err)
		} else {
			outcome.Count = len(listings)
			res.Listings = append(res.Listings, listings...)
			log.Printf("✅ Scraper %s finished. Found %d jobs in %s.", s.Platform(), len(listings), outcome.Elapsed.Round(time.Second))
		}
		res.Outcomes = append(res.Outcomes, outcome)
	}

	if res.Empty() {
		log.Println("📭 No listings collected this run, nothing to process.")
	} else {
		log.Printf("\n📦 Total jobs collected: %d", len(res.Listings))
	}
	return res
}

func (a *Aggregator) runOne(ctx context.Context, s scraper.Scraper, terms []string) (listings []models.Listing, err error) {
	defer func() {
		if r := recover(); r != nil {
			listings = nil
			err = fmt.Errorf("%s panicked: %v", s.Platform(), r)
		}
	}()
	return s.Fetch(ctx, terms, a.location)
}
