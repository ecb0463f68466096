package reporter

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"go-contract-harvester/internal/models"
	"go-contract-harvester/internal/report"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxHighlights caps how many real postings are listed under the summary.
const maxHighlights = 5

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramReporter struct {
	bot    sender
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (t *TelegramReporter) Name() string { return "telegram" }

// Publish sends the run summary, then one message per highlighted posting.
func (t *TelegramReporter) Publish(_ context.Context, r *report.Report) error {
	if err := t.SendMessage(FormatSummary(r)); err != nil {
		return err
	}
	for _, rec := range highlights(r.Records) {
		if err := t.SendRecord(rec); err != nil {
			return err
		}
	}
	return nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendRecord(rec models.CanonicalRecord) error {
	text := fmt.Sprintf(
		"🔥 <b>%s</b>\n"+
			"🏢 %s\n"+
			"📍 %s (%s)\n"+
			"🗂 %s\n"+
			"⏳ %s\n"+
			"🔖 %s",
		html.EscapeString(rec.Title),
		html.EscapeString(rec.Company),
		html.EscapeString(rec.Location),
		html.EscapeString(rec.State),
		html.EscapeString(rec.Vertical),
		html.EscapeString(rec.ContractDuration),
		rec.Platform,
	)
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"
	if rec.URL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", rec.URL)),
		)
	}
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>Harvester Error</b>:\n%s", html.EscapeString(errReq.Error()))
	return t.SendMessage(text)
}

// FormatSummary renders the run totals and the per-vertical view.
func FormatSummary(r *report.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Contract job run (%s, %dh window)</b>\n", html.EscapeString(r.Kind), r.WindowHours)

	if r.Empty() {
		b.WriteString("📭 No contract listings found this run.\n")
	} else {
		fmt.Fprintf(&b, "📦 %d listings from %d raw", r.Summary.Total, r.RawCount)
		if r.Summary.Synthetic > 0 {
			fmt.Fprintf(&b, " (%d placeholders)", r.Summary.Synthetic)
		}
		b.WriteString("\n")
	}

	for _, a := range r.Adapters {
		if a.Error != "" {
			fmt.Fprintf(&b, "❌ %s: %s\n", a.Platform, html.EscapeString(a.Error))
			continue
		}
		fmt.Fprintf(&b, "✅ %s: %d\n", a.Platform, a.Count)
	}

	names := make([]string, 0, len(r.Summary.Verticals))
	for name := range r.Summary.Verticals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := r.Summary.Verticals[name]
		fmt.Fprintf(&b, "• <b>%s</b>: %d jobs in %d states\n", html.EscapeString(name), v.JobCount, v.StatesCount)
	}
	return strings.TrimRight(b.String(), "\n")
}

func highlights(records []models.CanonicalRecord) []models.CanonicalRecord {
	var out []models.CanonicalRecord
	for _, r := range records {
		if r.Synthetic {
			continue
		}
		out = append(out, r)
		if len(out) == maxHighlights {
			break
		}
	}
	return out
}
