package scraper

import "strings"

// Rule reads one value from a node: the text of the first element matching
// Selector, or its Attr attribute when Attr is set.
type Rule struct {
	Selector string
	Attr     string
}

// Text builds a rule reading element text.
func Text(selector string) Rule {
	return Rule{Selector: selector}
}

// Attr builds a rule reading an attribute.
func Attr(selector, attr string) Rule {
	return Rule{Selector: selector, Attr: attr}
}

func (r Rule) String() string {
	if r.Attr != "" {
		return r.Selector + "@" + r.Attr
	}
	return r.Selector
}

func (r Rule) apply(n Node) string {
	found, ok := n.First(r.Selector)
	if !ok {
		return ""
	}
	if r.Attr != "" {
		v, _ := found.Attr(r.Attr)
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(found.Text())
}

// Chain is an ordered fallback list. Rules are tried left to right and the
// first non-empty value wins, so order decides which element is used when
// several match.
type Chain []Rule

// Extract returns the first non-empty value, or "" when every rule misses.
func (c Chain) Extract(n Node) string {
	v, _ := c.ExtractRule(n)
	return v
}

// ExtractRule is Extract that also reports the winning rule.
func (c Chain) ExtractRule(n Node) (string, Rule) {
	for _, r := range c {
		if v := r.apply(n); v != "" {
			return v, r
		}
	}
	return "", Rule{}
}

// CardChain lists card selectors in priority order. The first selector that
// matches at least one element supplies every card.
type CardChain []string

// Locate returns the cards and the selector that found them.
func (c CardChain) Locate(root Node) ([]Node, string) {
	for _, sel := range c {
		if cards := root.All(sel); len(cards) > 0 {
			return cards, sel
		}
	}
	return nil, ""
}
