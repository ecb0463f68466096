package models

// Platform identifies the job board a listing was scraped from.
type Platform string

const (
	PlatformLinkedIn Platform = "LinkedIn"
	PlatformMonster  Platform = "Monster"
	PlatformDice     Platform = "Dice"
)

// Platforms lists every supported board in registration order.
func Platforms() []Platform {
	return []Platform{PlatformLinkedIn, PlatformMonster, PlatformDice}
}

// Listing is one raw posting as an adapter scraped it from a card.
type Listing struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	PostingDate string   `json:"posting_date"` // YYYY-MM-DD or empty
	Platform    Platform `json:"platform"`
	URL         string   `json:"url"`
	JobType     string   `json:"job_type"`

	// Synthetic marks a placeholder emitted when nothing real was found for a term.
	Synthetic bool `json:"synthetic,omitempty"`
}
