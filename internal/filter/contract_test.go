package filter

import (
	"testing"

	"go-contract-harvester/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsContract(t *testing.T) {
	tests := []struct {
		name    string
		listing models.Listing
		want    bool
	}{
		{
			name:    "title keyword",
			listing: models.Listing{Title: "Java Contractor"},
			want:    true,
		},
		{
			name:    "description keyword any case",
			listing: models.Listing{Title: "Data Engineer", Description: "FREELANCE engagement"},
			want:    true,
		},
		{
			name:    "job type only",
			listing: models.Listing{Title: "Analyst", JobType: "Temporary"},
			want:    true,
		},
		{
			name:    "consulting",
			listing: models.Listing{Title: "SAP Consulting Lead"},
			want:    true,
		},
		{
			name:    "full time",
			listing: models.Listing{Title: "Backend Engineer", Description: "Permanent role", JobType: "Full-time"},
			want:    false,
		},
		{
			name:    "company is not inspected",
			listing: models.Listing{Title: "Engineer", Company: "Contract Corp"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsContract(tt.listing))
		})
	}
}

func TestContractOnly_KeepsOrderAndIsIdempotent(t *testing.T) {
	batch := []models.Listing{
		{Title: "Go Contractor", Platform: models.PlatformDice},
		{Title: "Staff Engineer", JobType: "Full-time"},
		{Title: "SQL Developer", Description: "6 month contract"},
		{Title: "React Dev", JobType: "Contract"},
		{Title: "Manager"},
	}

	once := ContractOnly(batch)
	assert.Equal(t, []string{"Go Contractor", "SQL Developer", "React Dev"}, titles(once))

	twice := ContractOnly(once)
	assert.Equal(t, once, twice)
}

func TestContractOnly_Empty(t *testing.T) {
	assert.Empty(t, ContractOnly(nil))
}

func titles(ls []models.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Title)
	}
	return out
}
