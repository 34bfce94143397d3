// Package source discovers and parses exported business data files.
// Exports are JSONL: one record per line, malformed lines are skipped and
// counted rather than failing the file.
package source

import (
	"time"

	"github.com/pacerhq/pacer/internal/model"
)

// FileKind distinguishes the two export file types.
type FileKind string

const (
	KindLedger  FileKind = "ledger"
	KindClients FileKind = "clients"
)

// DiscoveredFile is one export file found in the data directory.
type DiscoveredFile struct {
	Path string
	Kind FileKind
	Year int // ledger files only
}

// ledgerLine is the raw shape of one ledger export line. The kind field
// selects which of the two record sets the line belongs to.
type ledgerLine struct {
	Kind string `json:"kind"` // "transaction" or "expense"

	Amount   float64 `json:"amount"`
	Month    int     `json:"month"`
	Year     int     `json:"year"`
	Product  string  `json:"product"`
	Category string  `json:"category"`
	ClientID string  `json:"client_id"`
	Discount float64 `json:"discount"`

	Manual     float64 `json:"manual"`
	Automatic  float64 `json:"automatic"`
	Adjustment float64 `json:"adjustment"`
}

// clientLine is the raw shape of one client export line.
type clientLine struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	Segment         string     `json:"segment"`
	CreatedAt       time.Time  `json:"created_at"`
	ConvertedAt     *time.Time `json:"converted_at"`
	FirstPurchaseAt *time.Time `json:"first_purchase_at"`
	LastPurchaseAt  *time.Time `json:"last_purchase_at"`
	ChurnedAt       *time.Time `json:"churned_at"`
	TotalRevenue    float64    `json:"total_revenue"`
	Transactions    int        `json:"transactions"`
}

func (l clientLine) toModel() model.Client {
	return model.Client{
		ID:              l.ID,
		Name:            l.Name,
		Status:          model.ClientStatus(l.Status),
		Segment:         l.Segment,
		CreatedAt:       l.CreatedAt,
		ConvertedAt:     l.ConvertedAt,
		FirstPurchaseAt: l.FirstPurchaseAt,
		LastPurchaseAt:  l.LastPurchaseAt,
		ChurnedAt:       l.ChurnedAt,
		TotalRevenue:    l.TotalRevenue,
		Transactions:    l.Transactions,
	}
}
