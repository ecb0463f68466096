package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenShotDebugger saves full-page captures when a board blocks or changes
// markup. The directory is created on first capture.
type ScreenShotDebugger struct {
	outputDir string
	now       func() time.Time
}

func NewScreenShotDebugger(dir string) *ScreenShotDebugger {
	if dir == "" {
		dir = filepath.Join("output", "screenshots")
	}
	return &ScreenShotDebugger{outputDir: dir, now: time.Now}
}

// Path is where a capture called name would be written now.
func (s *ScreenShotDebugger) Path(name string) string {
	filename := fmt.Sprintf("%s_%s.png", FileSafe(name), s.now().Format("2006-01-02_15-04-05"))
	return filepath.Join(s.outputDir, filename)
}

func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	log.Printf("📸 %s", message)
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create screenshot dir: %v", err)
		return err
	}

	path := s.Path(name)
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return err
	}

	log.Printf("   Screenshot saved: %s", path)
	return nil
}

// FileSafe replaces everything except ASCII letters, digits and underscore
// with '_' so search terms can be used in file names.
func FileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return '_'
	}, s)
}
