package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
)

// Node is the part of a DOM element a selector rule needs. Live pages are
// read through playwright locators, fetched HTML through goquery.
type Node interface {
	// First returns the first descendant matching selector.
	First(selector string) (Node, bool)
	// All returns every descendant matching selector in document order.
	All(selector string) []Node
	Text() string
	Attr(name string) (string, bool)
}

type docNode struct {
	sel *goquery.Selection
}

// FromSelection wraps a goquery selection.
func FromSelection(sel *goquery.Selection) Node {
	return docNode{sel: sel}
}

// ParseHTML parses an HTML document and returns its root node.
func ParseHTML(html string) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return docNode{sel: doc.Selection}, nil
}

func (n docNode) First(selector string) (Node, bool) {
	found := n.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return docNode{sel: found}, true
}

func (n docNode) All(selector string) []Node {
	var out []Node
	n.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, docNode{sel: s})
	})
	return out
}

func (n docNode) Text() string {
	return n.sel.Text()
}

func (n docNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

// readTimeout bounds each locator read so a missing element costs little.
const readTimeout = 1000

type locatorNode struct {
	loc playwright.Locator
}

// FromLocator wraps a playwright locator.
func FromLocator(loc playwright.Locator) Node {
	return locatorNode{loc: loc}
}

// FromPage wraps the document element of a live page.
func FromPage(page playwright.Page) Node {
	return locatorNode{loc: page.Locator(":root")}
}

func (n locatorNode) First(selector string) (Node, bool) {
	found := n.loc.Locator(selector).First()
	if count, err := found.Count(); err != nil || count == 0 {
		return nil, false
	}
	return locatorNode{loc: found}, true
}

func (n locatorNode) All(selector string) []Node {
	items, err := n.loc.Locator(selector).All()
	if err != nil {
		return nil
	}
	out := make([]Node, 0, len(items))
	for _, item := range items {
		out = append(out, locatorNode{loc: item})
	}
	return out
}

func (n locatorNode) Text() string {
	text, err := n.loc.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(readTimeout),
	})
	if err != nil {
		return ""
	}
	return text
}

func (n locatorNode) Attr(name string) (string, bool) {
	val, err := n.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(readTimeout),
	})
	if err != nil || val == "" {
		return "", false
	}
	return val, true
}

// Click clicks the element behind n when it is a live locator.
func Click(n Node) error {
	ln, ok := n.(locatorNode)
	if !ok {
		return nil
	}
	return ln.loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(5000),
	})
}
