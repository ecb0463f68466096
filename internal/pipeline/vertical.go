package pipeline

import (
	"strings"

	"go-contract-harvester/internal/config"
	"go-contract-harvester/internal/models"
)

type vertical struct {
	name     string
	keywords []string
}

// VerticalClassifier assigns the first vertical, in taxonomy order, with a
// keyword contained in the title or description.
type VerticalClassifier struct {
	verticals []vertical
}

func NewVerticalClassifier(tax config.Taxonomy) *VerticalClassifier {
	vc := &VerticalClassifier{}
	for _, v := range tax.Verticals() {
		kws := make([]string, 0, len(v.Keywords))
		for _, kw := range v.Keywords {
			if strings.TrimSpace(kw) == "" {
				continue
			}
			kws = append(kws, strings.ToLower(kw))
		}
		vc.verticals = append(vc.verticals, vertical{name: v.Name, keywords: kws})
	}
	return vc
}

func (vc *VerticalClassifier) Classify(title, description string) string {
	text := strings.ToLower(title + " " + description)
	for _, v := range vc.verticals {
		for _, kw := range v.keywords {
			if strings.Contains(text, kw) {
				return v.name
			}
		}
	}
	return models.VerticalOther
}
