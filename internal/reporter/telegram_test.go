package reporter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go-contract-harvester/internal/models"
	"go-contract-harvester/internal/report"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestPublishSendsSummaryAndHighlights(t *testing.T) {
	var records []models.CanonicalRecord
	records = append(records, models.CanonicalRecord{Title: "golang Contractor", Company: "Various Companies", Synthetic: true, Vertical: "Backend"})
	for i := 0; i < 7; i++ {
		records = append(records, models.CanonicalRecord{
			Title:    fmt.Sprintf("Java <Contractor> %d", i),
			Company:  "Acme & Co",
			Vertical: "Backend",
			State:    "Texas",
			Platform: models.PlatformDice,
			URL:      "https://www.dice.com/job-detail/1",
		})
	}
	r := report.New("monday", 72*time.Hour, 10, []report.AdapterStatus{
		{Platform: models.PlatformLinkedIn, Error: "browser failed"},
		{Platform: models.PlatformDice, Count: 7},
	}, records)

	bot := &fakeBot{}
	tr := &TelegramReporter{bot: bot, chatID: 42}
	require.NoError(t, tr.Publish(context.Background(), r))

	require.Len(t, bot.sent, 1+maxHighlights)
	summary := bot.sent[0]
	assert.Equal(t, int64(42), summary.ChatID)
	assert.Equal(t, "HTML", summary.ParseMode)
	assert.Contains(t, summary.Text, "monday, 72h window")
	assert.Contains(t, summary.Text, "8 listings from 10 raw (1 placeholders)")
	assert.Contains(t, summary.Text, "❌ LinkedIn: browser failed")
	assert.Contains(t, summary.Text, "✅ Dice: 7")
	assert.Contains(t, summary.Text, "<b>Backend</b>: 8 jobs in 2 states")

	first := bot.sent[1]
	assert.Contains(t, first.Text, "Java &lt;Contractor&gt; 0")
	assert.Contains(t, first.Text, "Acme &amp; Co")
	assert.NotNil(t, first.ReplyMarkup)
}

func TestPublishEmptyRun(t *testing.T) {
	bot := &fakeBot{}
	tr := &TelegramReporter{bot: bot, chatID: 1}
	require.NoError(t, tr.Publish(context.Background(), report.New("daily", 24*time.Hour, 0, nil, nil)))

	require.Len(t, bot.sent, 1)
	assert.Contains(t, bot.sent[0].Text, "No contract listings found")
}

func TestPublishStopsOnSendError(t *testing.T) {
	bot := &fakeBot{err: errors.New("chat not found")}
	tr := &TelegramReporter{bot: bot, chatID: 1}

	err := tr.Publish(context.Background(), report.New("daily", 24*time.Hour, 1, nil, []models.CanonicalRecord{{Title: "x"}}))
	assert.EqualError(t, err, "chat not found")
	assert.Len(t, bot.sent, 1)
}

func TestSendError(t *testing.T) {
	bot := &fakeBot{}
	tr := &TelegramReporter{bot: bot, chatID: 1}
	require.NoError(t, tr.SendError(errors.New("<boom>")))
	assert.Contains(t, bot.sent[0].Text, "&lt;boom&gt;")
}
