package report

import "go-contract-harvester/internal/models"

type VerticalSummary struct {
	JobCount    int      `json:"job_count"`
	StatesCount int      `json:"states_count"`
	Platforms   []string `json:"platforms"`
}

type StateSummary struct {
	JobCount  int      `json:"job_count"`
	Verticals []string `json:"verticals"`
	Platforms []string `json:"platforms"`
}

type PlatformSummary struct {
	JobCount       int `json:"job_count"`
	VerticalsCount int `json:"verticals_count"`
	StatesCount    int `json:"states_count"`
}

// Summary holds the three aggregate views. Map keys encode sorted; list
// values keep first-seen order.
type Summary struct {
	Total     int                        `json:"total"`
	Synthetic int                        `json:"synthetic"`
	Verticals map[string]VerticalSummary `json:"verticals"`
	States    map[string]StateSummary    `json:"states"`
	Platforms map[string]PlatformSummary `json:"platforms"`
}

// orderedSet keeps distinct values in first-seen order.
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func (s *orderedSet) add(v string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

func (s *orderedSet) len() int { return len(s.items) }

// Summarize tallies records per vertical, state and platform.
func Summarize(records []models.CanonicalRecord) Summary {
	type group struct {
		count     int
		states    orderedSet
		verticals orderedSet
		platforms orderedSet
	}
	byVertical := map[string]*group{}
	byState := map[string]*group{}
	byPlatform := map[string]*group{}
	get := func(m map[string]*group, k string) *group {
		g, ok := m[k]
		if !ok {
			g = &group{}
			m[k] = g
		}
		return g
	}

	sum := Summary{
		Total:     len(records),
		Verticals: map[string]VerticalSummary{},
		States:    map[string]StateSummary{},
		Platforms: map[string]PlatformSummary{},
	}
	for _, r := range records {
		if r.Synthetic {
			sum.Synthetic++
		}
		platform := string(r.Platform)

		v := get(byVertical, r.Vertical)
		v.count++
		v.states.add(r.State)
		v.platforms.add(platform)

		s := get(byState, r.State)
		s.count++
		s.verticals.add(r.Vertical)
		s.platforms.add(platform)

		p := get(byPlatform, platform)
		p.count++
		p.verticals.add(r.Vertical)
		p.states.add(r.State)
	}

	for k, g := range byVertical {
		sum.Verticals[k] = VerticalSummary{JobCount: g.count, StatesCount: g.states.len(), Platforms: g.platforms.items}
	}
	for k, g := range byState {
		sum.States[k] = StateSummary{JobCount: g.count, Verticals: g.verticals.items, Platforms: g.platforms.items}
	}
	for k, g := range byPlatform {
		sum.Platforms[k] = PlatformSummary{JobCount: g.count, VerticalsCount: g.verticals.len(), StatesCount: g.states.len()}
	}
	return sum
}
