package browser

import (
	"math/rand"
	"strings"
	"time"

	"go-contract-harvester/utils"

	"github.com/playwright-community/playwright-go"
)

// ScrollToBottom scrolls to the end of the page n times so lazy lists load,
// pausing between scrolls.
func ScrollToBottom(page playwright.Page, n int, pause utils.Pause, wait time.Duration) error {
	for i := 0; i < n; i++ {
		if _, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
			return err
		}
		pause.For(wait)
	}
	return nil
}

// MouseJiggle simulates random mouse movements to prevent idle detection
func MouseJiggle(page playwright.Page, pause utils.Pause) error {
	viewportSize := page.ViewportSize()
	if viewportSize == nil {
		return nil
	}
	for i := 0; i < 3; i++ {
		x := rand.Intn(viewportSize.Width)
		y := rand.Intn(viewportSize.Height)
		if err := page.Mouse().Move(float64(x), float64(y)); err != nil {
			return err
		}
		pause.Random(100*time.Millisecond, 300*time.Millisecond)
	}
	return nil
}

// IsBlocked reports whether the page title looks like a bot challenge.
func IsBlocked(page playwright.Page) bool {
	title, _ := page.Title()
	for _, marker := range []string{"Attention Required", "Just a moment", "Cloudflare", "Access Denied", "Security Verification"} {
		if containsFold(title, marker) {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
