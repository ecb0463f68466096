package linkedin

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"go-contract-harvester/internal/config"
	"go-contract-harvester/internal/models"
	"go-contract-harvester/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchHTML = `<html><body>
<ul>
  <li class="job-search-card">
    <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/123?refId=abc&trackingId=xyz">x</a>
    <h3 class="base-search-card__title"> Senior Java Contractor </h3>
    <h4 class="base-search-card__subtitle">Acme</h4>
    <span class="job-search-card__location">Austin, TX</span>
    <time class="job-search-card__listdate" datetime="2024-03-08">2 days ago</time>
  </li>
  <li class="job-search-card">
    <h4 class="base-search-card__subtitle">Nameless</h4>
  </li>
  <li class="job-search-card">
    <a href="/jobs/view/456?trk=public">y</a>
    <h3>Data Engineer</h3>
    <h4>Globex</h4>
  </li>
</ul>
<div class="job-card-container"><h3>Other layout</h3></div>
<section class="details">
  <div class="show-more-less-html__markup">
    This is a 6-month contract.
    Pay: $90/hr!
  </div>
</section>
</body></html>`

func testConfig() config.LinkedInConfig {
	return config.LinkedInConfig{Board: config.Board{MaxTerms: 10, MaxCards: 20, PageTimeout: 30 * time.Second}}
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		want   string
	}{
		{"daily", 24 * time.Hour, "r86400"},
		{"weekend catch-up", 72 * time.Hour, "r259200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLinkedInScraper(testConfig(), WithWindow(tt.window))
			u, err := url.Parse(s.searchURL("golang developer", "United States"))
			require.NoError(t, err)

			assert.Equal(t, "/jobs/search", u.Path)
			assert.Equal(t, "golang developer", u.Query().Get("keywords"))
			assert.Equal(t, "United States", u.Query().Get("location"))
			assert.Equal(t, "C", u.Query().Get("f_JT"))
			assert.Equal(t, tt.want, u.Query().Get("f_TPR"))
		})
	}
}

func TestExtractCards(t *testing.T) {
	root, err := scraper.ParseHTML(searchHTML)
	require.NoError(t, err)

	cards, sel := cardChain.Locate(root)
	require.Len(t, cards, 3)
	assert.Equal(t, ".job-search-card", sel)

	s := NewLinkedInScraper(testConfig())
	pageURL := "https://www.linkedin.com/jobs/search?keywords=java"

	first := s.extractCard(cards[0], root, pageURL)
	require.Equal(t, scraper.OutcomeOK, first.Outcome)
	l := first.Listing
	assert.Equal(t, "Senior Java Contractor", l.Title)
	assert.Equal(t, "Acme", l.Company)
	assert.Equal(t, "Austin, TX", l.Location)
	assert.Equal(t, "This is a 6-month contract. Pay 90hr", l.Description)
	assert.Equal(t, "2024-03-08", l.PostingDate)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/123", l.URL)
	assert.Equal(t, models.PlatformLinkedIn, l.Platform)
	assert.Equal(t, "Contract", l.JobType)

	assert.Equal(t, scraper.OutcomeEmpty, s.extractCard(cards[1], root, pageURL).Outcome)

	third := s.extractCard(cards[2], root, pageURL)
	require.Equal(t, scraper.OutcomeOK, third.Outcome)
	assert.Equal(t, "Data Engineer", third.Listing.Title)
	assert.Equal(t, "Globex", third.Listing.Company)
	assert.Empty(t, third.Listing.Location)
	assert.Empty(t, third.Listing.PostingDate)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/456", third.Listing.URL)
}

func TestExtractCardWithoutLinkUsesPageURL(t *testing.T) {
	card, err := scraper.ParseHTML(`<div class="job-card-container"><h3 class="job-card-list__title">Go Contractor</h3></div>`)
	require.NoError(t, err)

	s := NewLinkedInScraper(testConfig())
	res := s.extractCard(card, card, "https://www.linkedin.com/jobs/search?keywords=go")
	require.Equal(t, scraper.OutcomeOK, res.Outcome)
	assert.Equal(t, "https://www.linkedin.com/jobs/search?keywords=go", res.Listing.URL)
	assert.Empty(t, res.Listing.Description)
}

func TestReadCard_ClickFailureLeavesDescriptionEmpty(t *testing.T) {
	root, err := scraper.ParseHTML(searchHTML)
	require.NoError(t, err)
	cards, _ := cardChain.Locate(root)
	require.NotEmpty(t, cards)

	s := NewLinkedInScraper(testConfig(), WithPause(nil))
	s.click = func(scraper.Node) error { return errors.New("element detached") }

	res := s.readCard(cards[0], root, "https://www.linkedin.com/jobs/search?keywords=java")
	require.Equal(t, scraper.OutcomeOK, res.Outcome)
	assert.EqualError(t, res.Err, "element detached")
	assert.Equal(t, "Senior Java Contractor", res.Listing.Title)
	assert.Empty(t, res.Listing.Description, "panel still shows the previous card")
}

func TestReadCard_ClickedCardReadsPanel(t *testing.T) {
	root, err := scraper.ParseHTML(searchHTML)
	require.NoError(t, err)
	cards, _ := cardChain.Locate(root)
	require.NotEmpty(t, cards)

	var clicked int
	s := NewLinkedInScraper(testConfig(), WithPause(nil))
	s.click = func(scraper.Node) error { clicked++; return nil }

	res := s.readCard(cards[0], root, "https://www.linkedin.com/jobs/search?keywords=java")
	require.NoError(t, res.Err)
	assert.Equal(t, 1, clicked)
	assert.Equal(t, "This is a 6-month contract. Pay 90hr", res.Listing.Description)
}

func TestCanonicalURL(t *testing.T) {
	s := NewLinkedInScraper(testConfig())
	assert.Equal(t, "https://www.linkedin.com/jobs/view/1", s.canonicalURL("/jobs/view/1?trk=x"))
	assert.Equal(t, "https://www.linkedin.com/jobs/view/2", s.canonicalURL("https://www.linkedin.com/jobs/view/2"))
}
