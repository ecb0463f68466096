package dice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"go-contract-harvester/internal/browser"
	"go-contract-harvester/internal/config"
	"go-contract-harvester/internal/filter"
	"go-contract-harvester/internal/models"
	"go-contract-harvester/internal/scraper"
	"go-contract-harvester/utils"

	"github.com/playwright-community/playwright-go"
)

const (
	DefaultBaseURL = "https://www.dice.com"

	settleTime      = 5 * time.Second
	unknownCompany  = "Unknown Company"
	unknownLocation = "Unknown Location"
)

var (
	cardChain = scraper.CardChain{
		`[data-testid="job-card"]`,
		".card",
		".job-tile",
		".search-result-item",
	}
	titleChain = scraper.Chain{
		scraper.Text(`[data-testid="job-title"]`),
		scraper.Text(".job-title"),
		scraper.Text("h2"),
		scraper.Text("h3"),
		scraper.Text(".title"),
	}
	companyChain = scraper.Chain{
		scraper.Text(`[data-testid="job-company"]`),
		scraper.Text(".company"),
		scraper.Text(".company-name"),
	}
	locationChain = scraper.Chain{
		scraper.Text(`[data-testid="job-location"]`),
		scraper.Text(".location"),
		scraper.Text(".job-location"),
	}
	dateChain = scraper.Chain{
		scraper.Text(`[data-testid="job-posted-date"]`),
		scraper.Text(".posted-date"),
	}
	linkChain = scraper.Chain{
		scraper.Attr(`a[data-testid="job-search-job-detail-link"]`, "href"),
		scraper.Attr(`a[data-testid="job-title"]`, "href"),
		scraper.Attr(`a[data-cy="card-title-link"]`, "href"),
	}
)

// DiceScraper drives chromium and opens a fresh context for every term so a
// crashed or blocked page never leaks into the next search.
type DiceScraper struct {
	cfg     config.DiceConfig
	baseURL string
	pause   utils.Pause
	shots   *utils.ScreenShotDebugger
}

type Option func(*DiceScraper)

// WithBaseURL points the adapter at another host.
func WithBaseURL(u string) Option {
	return func(s *DiceScraper) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithPause replaces the real sleep between terms.
func WithPause(p utils.Pause) Option {
	return func(s *DiceScraper) { s.pause = p }
}

// WithScreenshots captures the page whenever a term finds no cards.
func WithScreenshots(d *utils.ScreenShotDebugger) Option {
	return func(s *DiceScraper) { s.shots = d }
}

func NewDiceScraper(cfg config.DiceConfig, opts ...Option) *DiceScraper {
	s := &DiceScraper{
		cfg:     cfg,
		baseURL: DefaultBaseURL,
		pause:   utils.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DiceScraper) Platform() models.Platform {
	return models.PlatformDice
}

func (s *DiceScraper) Fetch(ctx context.Context, terms []string, location string) ([]models.Listing, error) {
	if location == "" {
		location = config.DefaultLocation
	}
	terms = scraper.Limit(terms, s.cfg.MaxTerms)

	pm, err := browser.NewPlaywright(browser.Options{
		Headless:    !s.cfg.Headful,
		PageTimeout: s.cfg.PageTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}
	defer func() {
		if err := pm.Close(); err != nil {
			log.Printf("⚠️ [Dice] browser close: %v", err)
		}
	}()

	var results []scraper.TermResult
	for i, term := range terms {
		if ctx.Err() != nil {
			log.Printf("🛑 [Dice] stopping before %q: %v", term, ctx.Err())
			break
		}
		log.Printf("🔎 [Dice] %q (%d/%d)", term, i+1, len(terms))

		res := s.scrapeTerm(pm, term, location)
		res.Log(s.Platform())
		results = append(results, res)

		if i < len(terms)-1 {
			s.pause.Random(3*time.Second, 5*time.Second)
		}
	}

	return filter.ContractOnly(scraper.Collect(results)), nil
}

func (s *DiceScraper) searchURL(term, location string) string {
	q := url.Values{}
	q.Set("q", term)
	q.Set("location", location)
	q.Set("employmentType", "CONTRACT")
	return s.baseURL + "/jobs?" + q.Encode()
}

// scrapeTerm owns one browser context for its whole life; it is closed on
// every path, including a panic while reading cards.
func (s *DiceScraper) scrapeTerm(pm *browser.PlaywrightManager, term, location string) (res scraper.TermResult) {
	bctx, page, err := pm.NewPage()
	if err != nil {
		return scraper.Failed(term, err)
	}
	defer func() {
		if err := bctx.Close(); err != nil {
			log.Printf("⚠️ [Dice] context close: %v", err)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			res = scraper.Failed(term, fmt.Errorf("panic while scraping: %v", r))
		}
	}()

	u := s.searchURL(term, location)
	log.Printf("  🌐 [Dice] loading %s", u)
	if err := pm.Goto(page, u); err != nil {
		return scraper.Failed(term, err)
	}
	s.pause.For(settleTime)
	if err := browser.MouseJiggle(page, s.pause); err != nil {
		log.Printf("    ⚠️ [Dice] mouse jiggle: %v", err)
	}

	if browser.IsBlocked(page) {
		s.capture(page, term, "Dice served a bot challenge")
		return scraper.Failed(term, errors.New("blocked by bot challenge"))
	}

	listings := s.parseCards(scraper.FromPage(page), page.URL())
	if len(listings) == 0 {
		s.capture(page, term, "Dice returned no job cards")
	}
	return scraper.Ok(term, listings)
}

func (s *DiceScraper) capture(page playwright.Page, term, msg string) {
	if s.shots == nil {
		return
	}
	_ = s.shots.CaptureAndLog(page, "dice_"+term, msg)
}

func (s *DiceScraper) parseCards(root scraper.Node, pageURL string) []models.Listing {
	cards, sel := cardChain.Locate(root)
	if len(cards) == 0 {
		return nil
	}
	log.Printf("    📄 [Dice] %d cards via %s", len(cards), sel)

	var out []models.Listing
	for i, card := range scraper.Limit(cards, s.cfg.MaxCards) {
		res := s.extractCard(card, pageURL)
		if res.Outcome != scraper.OutcomeOK {
			log.Printf("      ⚠️ [Dice] card %d skipped: no title", i+1)
			continue
		}
		out = append(out, res.Listing)
	}
	return out
}

func (s *DiceScraper) extractCard(card scraper.Node, pageURL string) scraper.CardResult {
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

	link := pageURL
	if href := linkChain.Extract(card); href != "" {
		link = absolute(s.baseURL, href)
	}

	return scraper.CardResult{
		Outcome: scraper.OutcomeOK,
		Listing: models.Listing{
			Title:       title,
			Company:     company,
			Location:    location,
			Description: "Contract position for " + title,
			PostingDate: utils.ExtractDate(dateChain.Extract(card)),
			Platform:    s.Platform(),
			URL:         link,
			JobType:     "Contract",
		},
	}
}

func absolute(base, href string) string {
	b, err := url.Parse(base + "/")
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
