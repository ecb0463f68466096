package monster

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-contract-harvester/internal/config"
	"go-contract-harvester/internal/fetch"
	"go-contract-harvester/internal/filter"
	"go-contract-harvester/internal/models"
	"go-contract-harvester/internal/scraper"
	"go-contract-harvester/utils"
)

const (
	DefaultBaseURL = "https://www.monster.com"

	SyntheticCompany = "Various Companies"
	unknownCompany   = "Unknown Company"
	unknownLocation  = "Unknown Location"
)

var (
	cardChain = scraper.CardChain{
		"div.job-cardstyle__JobCardComponent",
		"div.JobCard",
		"div.job-card",
		`div[data-testid="job-card"]`,
		"div.card-content",
		"div[data-jobid]",
		"article",
		`div[class*="job"], div[class*="Job"], div[class*="JOB"]`,
	}
	titleChain = scraper.Chain{
		scraper.Text("h2"),
		scraper.Text("h3"),
		scraper.Text(".title"),
		scraper.Text(".job-title"),
		scraper.Text(`[data-testid="job-title"]`),
	}
	companyChain = scraper.Chain{
		scraper.Text(".company"),
		scraper.Text(".company-name"),
		scraper.Text(`[data-testid="company-name"]`),
	}
	locationChain = scraper.Chain{
		scraper.Text(".location"),
		scraper.Text(".job-location"),
		scraper.Text(`[data-testid="location"]`),
	}
	dateChain = scraper.Chain{
		scraper.Attr("time", "datetime"),
		scraper.Text(".posted-date"),
		scraper.Text(`[data-testid="posted-date"]`),
	}
	linkChain = scraper.Chain{
		scraper.Attr("a", "href"),
	}
)

// MonsterScraper fetches search pages over plain HTTP. It is the only adapter
// with progressive backoff and a synthetic placeholder for empty terms.
type MonsterScraper struct {
	cfg     config.MonsterConfig
	baseURL string
	session *fetch.Session
	limiter *fetch.HostLimiter
	pause   utils.Pause
}

type Option func(*MonsterScraper)

// WithLimiter puts a per-host request floor under the jittered delays.
func WithLimiter(l *fetch.HostLimiter) Option {
	return func(s *MonsterScraper) { s.limiter = l }
}

// WithBaseURL points the adapter at another host.
func WithBaseURL(u string) Option {
	return func(s *MonsterScraper) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithPause replaces the real sleep between requests.
func WithPause(p utils.Pause) Option {
	return func(s *MonsterScraper) { s.pause = p }
}

func NewMonsterScraper(cfg config.MonsterConfig, opts ...Option) *MonsterScraper {
	s := &MonsterScraper{
		cfg:     cfg,
		baseURL: DefaultBaseURL,
		pause:   utils.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.session = fetch.NewSession(cfg.PageTimeout, s.limiter)
	if err := s.session.SetCookies(s.baseURL, map[string]string{"monster": "true", "locale": "en-US"}); err != nil {
		log.Printf("⚠️ [Monster] could not seed cookies: %v", err)
	}
	return s
}

func (s *MonsterScraper) Platform() models.Platform {
	return models.PlatformMonster
}

func (s *MonsterScraper) Fetch(ctx context.Context, terms []string, location string) ([]models.Listing, error) {
	if location == "" {
		location = config.DefaultLocation
	}
	terms = scraper.Limit(terms, s.cfg.MaxTerms)

	var results []scraper.TermResult
	for i, term := range terms {
		if ctx.Err() != nil {
			log.Printf("🛑 [Monster] stopping before %q: %v", term, ctx.Err())
			break
		}
		log.Printf("🔎 [Monster] %q (%d/%d)", term, i+1, len(terms))

		res := s.scrapeTerm(ctx, term, location)
		res.Log(s.Platform())
		results = append(results, res)

		if i == len(terms)-1 {
			break
		}
		if res.Outcome == scraper.OutcomeFailed {
			s.pause.Random(10*time.Second, 15*time.Second)
			continue
		}
		backoff := time.Duration(i) * 2 * time.Second
		d := s.pause.Random(5*time.Second+backoff, 10*time.Second+backoff)
		log.Printf("    ⏳ [Monster] waited %.1fs before next term", d.Seconds())
	}

	return filter.ContractOnly(scraper.Collect(results)), nil
}

// searchURLs lists the query-string shapes in the order they are tried.
func (s *MonsterScraper) searchURLs(term, location string) []string {
	return []string{
		fmt.Sprintf("%s/jobs/search?q=%s&where=%s", s.baseURL, escapeSpaces(term), escapeSpaces(location)),
		fmt.Sprintf("%s/jobs/search/?q=%s&where=%s", s.baseURL, url.QueryEscape(term), url.QueryEscape(location)),
		fmt.Sprintf("%s/jobs/search?q=%s&location=%s", s.baseURL, escapeSpaces(term), escapeSpaces(location)),
	}
}

// escapeSpaces query-escapes s with spaces as %20 instead of +.
func escapeSpaces(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// scrapeTerm runs every URL shape for term to completion. Cancelling ctx is
// only honoured between terms; each request is still bounded by the session's
// page timeout.
func (s *MonsterScraper) scrapeTerm(ctx context.Context, term, location string) scraper.TermResult {
	ctx = context.WithoutCancel(ctx)
	urls := s.searchURLs(term, location)
	var errs []error
	for _, u := range urls {
		s.pause.Random(2*time.Second, 4*time.Second)

		doc, err := s.session.Document(ctx, u)
		if err != nil {
			if fetch.IsStatus(err, http.StatusForbidden) {
				log.Printf("    🚫 [Monster] 403 Forbidden for %s", u)
			} else {
				log.Printf("    ⚠️ [Monster] %v", err)
			}
			errs = append(errs, err)
			continue
		}

		listings := s.parseCards(scraper.FromSelection(doc.Selection), term)
		if len(listings) > 0 {
			return scraper.Ok(term, listings)
		}
		log.Printf("    ⚠️ [Monster] no cards at %s", u)
	}

	if s.cfg.Synthetic() {
		return scraper.Ok(term, []models.Listing{s.placeholder(term, location)})
	}
	if len(errs) == len(urls) {
		return scraper.Failed(term, errors.Join(errs...))
	}
	return scraper.Ok(term, nil)
}

func (s *MonsterScraper) parseCards(root scraper.Node, term string) []models.Listing {
	cards, sel := cardChain.Locate(root)
	if len(cards) == 0 {
		return nil
	}
	log.Printf("    📄 [Monster] %d cards via %s", len(cards), sel)

	var out []models.Listing
	for i, card := range scraper.Limit(cards, s.cfg.MaxCards) {
		res := s.extractCard(card, term)
		if res.Outcome != scraper.OutcomeOK {
			log.Printf("      ⚠️ [Monster] card %d skipped: no title", i+1)
			continue
		}
		out = append(out, res.Listing)
	}
	return out
}

func (s *MonsterScraper) extractCard(card scraper.Node, term string) scraper.CardResult {
	title := utils.CleanText(titleChain.Extract(card))
	if title == "" {
		return scraper.CardResult{Outcome: scraper.OutcomeEmpty}
	}

	company := utils.CleanText(companyChain.Extract(card))
	if company == "" {
		company = unknownCompany
	}
	location := utils.CleanText(locationChain.Extract(card))
	if location == "" {
		location = unknownLocation
	}

	return scraper.CardResult{
		Outcome: scraper.OutcomeOK,
		Listing: models.Listing{
			Title:       title,
			Company:     company,
			Location:    location,
			Description: fmt.Sprintf("Contract position for %s - %s", term, title),
			PostingDate: utils.ExtractDate(dateChain.Extract(card)),
			Platform:    s.Platform(),
			URL:         s.cardURL(linkChain.Extract(card), term),
			JobType:     "Contract",
		},
	}
}

func (s *MonsterScraper) cardURL(href, term string) string {
	if href == "" {
		return s.termURL(term)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return s.termURL(term)
	}
	base, err := url.Parse(s.baseURL + "/")
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func (s *MonsterScraper) termURL(term string) string {
	return fmt.Sprintf("%s/jobs/search?q=%s", s.baseURL, escapeSpaces(term))
}

// placeholder describes the term generically when no real card was found.
// Company and the Synthetic flag both mark it as not a real posting.
func (s *MonsterScraper) placeholder(term, location string) models.Listing {
	log.Printf("    🧩 [Monster] emitting synthetic placeholder for %q", term)
	return models.Listing{
		Title:       term + " Contractor",
		Company:     SyntheticCompany,
		Location:    location,
		Description: fmt.Sprintf("Contract opportunities for %s professionals", term),
		PostingDate: utils.ExtractDate(""),
		Platform:    s.Platform(),
		URL:         s.termURL(term),
		JobType:     "Contract",
		Synthetic:   true,
	}
}
