package models

const (
	VerticalOther        = "Other"
	StateUnknown         = "Unknown"
	DurationNotSpecified = "Not specified"
)

// Columns is the canonical output field order. Sinks must emit fields in this order.
var Columns = []string{
	"title",
	"vertical",
	"state",
	"platform",
	"posting_date",
	"contract_duration",
	"company",
	"location",
	"description",
	"url",
}

// CanonicalRecord is a classified, deduplicated listing. Struct field order
// follows Columns so encoding/json emits the canonical order.
type CanonicalRecord struct {
	Title            string   `json:"title"`
	Vertical         string   `json:"vertical"`
	State            string   `json:"state"`
	Platform         Platform `json:"platform"`
	PostingDate      string   `json:"posting_date"`
	ContractDuration string   `json:"contract_duration"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Description      string   `json:"description"`
	URL              string   `json:"url"`

	JobType   string `json:"-"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

// Values returns the record's fields in Columns order.
func (r CanonicalRecord) Values() []string {
	return []string{
		r.Title,
		r.Vertical,
		r.State,
		string(r.Platform),
		r.PostingDate,
		r.ContractDuration,
		r.Company,
		r.Location,
		r.Description,
		r.URL,
	}
}
