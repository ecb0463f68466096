package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vertical is one taxonomy entry: a name and its keywords in file order.
type Vertical struct {
	Name     string
	Keywords []string
}

// Taxonomy maps vertical names to keywords while keeping the order they were
// declared in. Classification takes the first matching vertical, so the order
// is part of the output. A Taxonomy is read-only once built.
type Taxonomy struct {
	verticals []Vertical
}

// NewTaxonomy builds a taxonomy from verticals in the given order.
func NewTaxonomy(verticals ...Vertical) Taxonomy {
	out := make([]Vertical, 0, len(verticals))
	for _, v := range verticals {
		out = append(out, Vertical{Name: v.Name, Keywords: append([]string(nil), v.Keywords...)})
	}
	return Taxonomy{verticals: out}
}

func (t Taxonomy) Len() int {
	return len(t.verticals)
}

// Verticals returns a copy of the entries in declaration order.
func (t Taxonomy) Verticals() []Vertical {
	return NewTaxonomy(t.verticals...).verticals
}

// SearchTerms returns the union of all keywords with duplicates removed,
// in first-seen order.
func (t Taxonomy) SearchTerms() []string {
	seen := make(map[string]bool)
	var terms []string
	for _, v := range t.verticals {
		for _, k := range v.Keywords {
			k = strings.TrimSpace(k)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			terms = append(terms, k)
		}
	}
	return terms
}

// UnmarshalYAML walks the mapping node directly because decoding into a Go
// map would lose key order.
func (t *Taxonomy) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: verticals must be a mapping of name to keyword list", value.Line)
	}
	verticals := make([]Vertical, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		var keywords []string
		if err := valNode.Decode(&keywords); err != nil {
			return fmt.Errorf("vertical %q: %w", keyNode.Value, err)
		}
		verticals = append(verticals, Vertical{Name: keyNode.Value, Keywords: keywords})
	}
	t.verticals = verticals
	return nil
}

type taxonomyFile struct {
	Verticals Taxonomy `yaml:"verticals"`
}

// LoadTaxonomy reads a roles mapping file of the form {"verticals": {name: [keywords]}}.
// JSON is accepted because it is valid YAML.
func LoadTaxonomy(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("read taxonomy: %w", err)
	}
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Taxonomy{}, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	return f.Verticals, nil
}
