package main

import (
	"fmt"
	"path/filepath"
	"time"

	"go-contract-harvester/internal/browser"
	"go-contract-harvester/internal/config"
	"go-contract-harvester/utils"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify config, cookies and (optionally) the browser",
	Long:  "Loads the config and taxonomy, reads the LinkedIn cookie export and, with --browser, opens a page to confirm the headless browser works and is not blocked.",
	RunE:  runCheck,
}

var (
	checkBrowser bool
	checkURL     string
)

func init() {
	checkCmd.Flags().BoolVar(&checkBrowser, "browser", false, "Also launch the browser and open --url")
	checkCmd.Flags().StringVar(&checkURL, "url", "https://www.linkedin.com/jobs/search?f_JT=C", "Page opened by --browser")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔧 Checking config...")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "✅ Config loaded successfully!")
	fmt.Fprintf(out, "   Location: %s\n", cfg.Location)
	fmt.Fprintf(out, "   Verticals: %d\n", cfg.Verticals.Len())
	fmt.Fprintf(out, "   Search terms: %d\n", len(cfg.Verticals.SearchTerms()))
	fmt.Fprintf(out, "   Output dir: %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "   Telegram: %s\n", enabled(cfg.TelegramEnabled()))
	fmt.Fprintf(out, "   Postgres: %s\n", enabled(cfg.DatabaseURL != ""))

	cookies, err := browser.LoadCookies(cfg.LinkedIn.CookiesPath)
	if err != nil {
		fmt.Fprintf(out, "⚠️ LinkedIn cookies: %v (searches run anonymously)\n", err)
	} else {
		fmt.Fprintf(out, "🍪 Loaded %d LinkedIn cookies\n", len(cookies))
	}

	if !checkBrowser {
		return nil
	}

	fmt.Fprintln(out, "🌐 Testing browser...")
	pm, err := browser.NewPlaywright(browser.Options{
		Headless:    !cfg.LinkedIn.Headful,
		PageTimeout: cfg.LinkedIn.PageTimeout,
		Cookies:     cookies,
	})
	if err != nil {
		return err
	}
	defer pm.Close()

	bctx, page, err := pm.NewPage()
	if err != nil {
		return err
	}
	defer bctx.Close()

	if err := pm.Goto(page, checkURL); err != nil {
		return err
	}
	title, _ := page.Title()
	fmt.Fprintf(out, "✅ Page title: %s\n", title)
	if browser.IsBlocked(page) {
		fmt.Fprintln(out, "🚫 Page looks like a login wall or CAPTCHA")
	}

	shots := utils.NewScreenShotDebugger(filepath.Join(cfg.OutputDir, "screenshots"))
	name := "check_" + time.Now().Format("20060102_150405")
	if err := shots.CaptureAndLog(page, name, "browser check"); err != nil {
		fmt.Fprintf(out, "⚠️ Screenshot failed: %v\n", err)
	}
	fmt.Fprintln(out, "✨ Check complete!")
	return nil
}

func enabled(ok bool) string {
	if ok {
		return "enabled"
	}
	return "disabled"
}
