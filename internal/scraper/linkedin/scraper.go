package linkedin

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
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
	DefaultBaseURL = "https://www.linkedin.com"
	DefaultWindow  = 24 * time.Hour
)

var (
	cardChain = scraper.CardChain{
		".job-search-card",
		"li.jobs-search-results__list-item",
		".job-card-container",
	}
	titleChain = scraper.Chain{
		scraper.Text(".base-search-card__title"),
		scraper.Text(".job-card-list__title"),
		scraper.Text("h3"),
	}
	companyChain = scraper.Chain{
		scraper.Text(".base-search-card__subtitle"),
		scraper.Text(".job-card-container__company-name"),
		scraper.Text("h4"),
	}
	locationChain = scraper.Chain{
		scraper.Text(".job-search-card__location"),
		scraper.Text(".job-card-container__metadata-item"),
	}
	dateChain = scraper.Chain{
		scraper.Attr(".job-search-card__listdate", "datetime"),
		scraper.Attr("time", "datetime"),
	}
	linkChain = scraper.Chain{
		scraper.Attr("a.base-card__full-link", "href"),
		scraper.Attr("a", "href"),
	}
	// read from the detail panel after the card is clicked
	descriptionChain = scraper.Chain{
		scraper.Text(".show-more-less-html__markup"),
		scraper.Text(".jobs-description__content"),
		scraper.Text("#job-details"),
	}
)

type LinkedInScraper struct {
	cfg     config.LinkedInConfig
	window  time.Duration
	baseURL string
	pause   utils.Pause
	shots   *utils.ScreenShotDebugger
	click   func(scraper.Node) error
}

type Option func(*LinkedInScraper)

// WithWindow sets how far back the posted-time filter reaches.
func WithWindow(d time.Duration) Option {
	return func(s *LinkedInScraper) { s.window = d }
}

// WithBaseURL points the adapter at another host.
func WithBaseURL(u string) Option {
	return func(s *LinkedInScraper) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithPause replaces the real sleep between pages and cards.
func WithPause(p utils.Pause) Option {
	return func(s *LinkedInScraper) { s.pause = p }
}

// WithScreenshots captures the page when LinkedIn serves a challenge.
func WithScreenshots(d *utils.ScreenShotDebugger) Option {
	return func(s *LinkedInScraper) { s.shots = d }
}

func NewLinkedInScraper(cfg config.LinkedInConfig, opts ...Option) *LinkedInScraper {
	s := &LinkedInScraper{
		cfg:     cfg,
		window:  DefaultWindow,
		baseURL: DefaultBaseURL,
		pause:   utils.Sleep,
		click:   scraper.Click,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LinkedInScraper) Platform() models.Platform {
	return models.PlatformLinkedIn
}

func (s *LinkedInScraper) Fetch(ctx context.Context, terms []string, location string) ([]models.Listing, error) {
	if location == "" {
		location = config.DefaultLocation
	}
	terms = scraper.Limit(terms, s.cfg.MaxTerms)
	log.Printf("💼 Searching LinkedIn contract jobs (%d terms)...", len(terms))

	opts := browser.Options{Headless: !s.cfg.Headful, PageTimeout: s.cfg.PageTimeout}
	if s.cfg.CookiesPath != "" {
		cookies, err := browser.LoadCookies(s.cfg.CookiesPath)
		if err != nil {
			log.Printf("⚠️ [LinkedIn] no session cookies (%v), browsing anonymously", err)
		} else {
			opts.Cookies = cookies
			log.Printf("🍪 [LinkedIn] loaded %d cookies", len(cookies))
		}
	}

	pm, err := browser.NewPlaywright(opts)
	if err != nil {
		return nil, fmt.Errorf("linkedin: %w", err)
	}
	defer func() {
		if err := pm.Close(); err != nil {
			log.Printf("⚠️ [LinkedIn] browser close: %v", err)
		}
	}()

	bctx, page, err := pm.NewPage()
	if err != nil {
		return nil, fmt.Errorf("linkedin: %w", err)
	}
	defer bctx.Close()

	var results []scraper.TermResult
	for i, term := range terms {
		if ctx.Err() != nil {
			log.Printf("🛑 [LinkedIn] stopping before %q: %v", term, ctx.Err())
			break
		}
		log.Printf("\n🔑 [LinkedIn] Processing keyword: %q (%d/%d)", term, i+1, len(terms))

		res := s.scrapeTerm(pm, page, term, location)
		res.Log(s.Platform())
		results = append(results, res)

		if i < len(terms)-1 {
			s.pause.Random(2*time.Second, 4*time.Second)
		}
	}

	return filter.ContractOnly(scraper.Collect(results)), nil
}

func (s *LinkedInScraper) searchURL(term, location string) string {
	q := url.Values{}
	q.Set("keywords", term)
	q.Set("location", location)
	q.Set("f_JT", "C")
	q.Set("f_TPR", "r"+strconv.Itoa(int(s.window.Seconds())))
	return s.baseURL + "/jobs/search?" + q.Encode()
}

func (s *LinkedInScraper) scrapeTerm(pm *browser.PlaywrightManager, page playwright.Page, term, location string) (res scraper.TermResult) {
	defer func() {
		if r := recover(); r != nil {
			res = scraper.Failed(term, fmt.Errorf("panic while scraping: %v", r))
		}
	}()

	u := s.searchURL(term, location)
	log.Printf("  🌐 Visiting job search: %s", u)
	if err := pm.Goto(page, u); err != nil {
		return scraper.Failed(term, err)
	}
	s.pause.For(3 * time.Second)

	if browser.IsBlocked(page) {
		if s.shots != nil {
			_ = s.shots.CaptureAndLog(page, "linkedin_blocked", "LinkedIn served a challenge page")
		}
		return scraper.Failed(term, fmt.Errorf("blocked by challenge page"))
	}
	if err := browser.ScrollToBottom(page, 3, s.pause, 2*time.Second); err != nil {
		log.Printf("    ⚠️ scroll failed: %v", err)
	}

	root := scraper.FromPage(page)
	cards, sel := cardChain.Locate(root)
	if len(cards) == 0 {
		log.Println("    ⚠️ Job list not found or empty.")
		return scraper.Ok(term, nil)
	}
	log.Printf("    📄 Found %d potential jobs via %s.", len(cards), sel)

	var listings []models.Listing
	for i, card := range scraper.Limit(cards, s.cfg.MaxCards) {
		cr := s.readCard(card, root, page.URL())
		if cr.Err != nil {
			log.Printf("      ⚠️ card %d click failed, no description: %v", i+1, cr.Err)
		}
		switch cr.Outcome {
		case scraper.OutcomeOK:
			listings = append(listings, cr.Listing)
		default:
			log.Printf("      ⚠️ card %d skipped: no title", i+1)
		}
		s.pause.Random(1*time.Second, 2*time.Second)
	}
	return scraper.Ok(term, listings)
}

// readCard opens the card in the detail panel and extracts it. When the click
// fails the panel still shows the previous card, so the description is left
// empty and the click error is carried in Err.
func (s *LinkedInScraper) readCard(card, panel scraper.Node, pageURL string) scraper.CardResult {
	if err := s.click(card); err != nil {
		cr := s.extractCard(card, nil, pageURL)
		cr.Err = err
		return cr
	}
	s.pause.For(2 * time.Second)
	return s.extractCard(card, panel, pageURL)
}

// extractCard reads list fields from the card and the description from the
// detail panel, which only shows the clicked card. A nil detail yields no
// description.
func (s *LinkedInScraper) extractCard(card, detail scraper.Node, pageURL string) scraper.CardResult {
	title := utils.CleanText(titleChain.Extract(card))
	if title == "" {
		return scraper.CardResult{Outcome: scraper.OutcomeEmpty}
	}

	var description string
	if detail != nil {
		description = utils.CleanText(descriptionChain.Extract(detail))
	}

	link := pageURL
	if href := linkChain.Extract(card); href != "" {
		link = s.canonicalURL(href)
	}

	return scraper.CardResult{
		Outcome: scraper.OutcomeOK,
		Listing: models.Listing{
			Title:       title,
			Company:     utils.CleanText(companyChain.Extract(card)),
			Location:    utils.CleanText(locationChain.Extract(card)),
			Description: description,
			PostingDate: utils.ExtractDate(dateChain.Extract(card)),
			Platform:    s.Platform(),
			URL:         link,
			JobType:     "Contract",
		},
	}
}

// canonicalURL makes href absolute and drops tracking query parameters,
// which differ between listings of the same job.
func (s *LinkedInScraper) canonicalURL(href string) string {
	full := href
	if !strings.HasPrefix(href, "http") {
		full = s.baseURL + "/" + strings.TrimLeft(href, "/")
	}
	return strings.SplitN(full, "?", 2)[0]
}
