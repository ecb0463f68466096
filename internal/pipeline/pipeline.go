package pipeline

import (
	"go-contract-harvester/internal/config"
	"go-contract-harvester/internal/dedup"
	"go-contract-harvester/internal/models"
)

// Pipeline turns a run's raw listings into canonical records. It holds only
// read-only snapshots and has no error path.
type Pipeline struct {
	verticals *VerticalClassifier
	states    *StateExtractor
}

func New(tax config.Taxonomy, states []string) *Pipeline {
	return &Pipeline{
		verticals: NewVerticalClassifier(tax),
		states:    NewStateExtractor(states),
	}
}

// Normalize classifies every listing, then drops later duplicates of
// (title, company, location) and fills defaults. Output order follows input order.
func (p *Pipeline) Normalize(listings []models.Listing) []models.CanonicalRecord {
	records := make([]models.CanonicalRecord, 0, len(listings))
	for _, l := range listings {
		records = append(records, models.CanonicalRecord{
			Title:       l.Title,
			Platform:    l.Platform,
			PostingDate: l.PostingDate,
			Company:     l.Company,
			Location:    l.Location,
			Description: l.Description,
			URL:         l.URL,
			JobType:     l.JobType,
			Synthetic:   l.Synthetic,
		})
	}

	for i := range records {
		records[i].Vertical = p.verticals.Classify(records[i].Title, records[i].Description)
	}
	for i := range records {
		records[i].State = p.states.Extract(records[i].Location)
	}
	for i := range records {
		records[i].ContractDuration = ContractDuration(records[i].Description)
	}

	records = dedup.KeepFirst(records, func(r models.CanonicalRecord) dedup.Key {
		return dedup.Key{Title: r.Title, Company: r.Company, Location: r.Location}
	})

	for i := range records {
		if records[i].ContractDuration == "" {
			records[i].ContractDuration = models.DurationNotSpecified
		}
	}
	return records
}
