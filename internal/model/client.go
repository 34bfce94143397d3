package model

import "time"

// ClientStatus is the lifecycle stage of a client record.
type ClientStatus string

const (
	StatusLead     ClientStatus = "lead"
	StatusActive   ClientStatus = "active"
	StatusInactive ClientStatus = "inactive"
	StatusChurned  ClientStatus = "churned"
)

// Client is a snapshot of one client record. Revenue and transaction totals
// are cumulative as of the snapshot; lifecycle timestamps are nil when the
// transition never happened.
type Client struct {
	ID              string
	Name            string
	Status          ClientStatus
	Segment         string
	CreatedAt       time.Time
	ConvertedAt     *time.Time
	FirstPurchaseAt *time.Time
	LastPurchaseAt  *time.Time
	ChurnedAt       *time.Time
	TotalRevenue    float64
	Transactions    int
}

// ActiveAt reports whether the client was converted (no longer a lead) and
// not yet churned at the given instant.
func (c *Client) ActiveAt(t time.Time) bool {
	if c.ConvertedAt == nil || c.ConvertedAt.After(t) {
		return false
	}
	return c.ChurnedAt == nil || !c.ChurnedAt.Before(t)
}

// ClientSnapshot is an immutable, caller-supplied view of all client records
// for one company.
type ClientSnapshot struct {
	Clients []Client
}

// Empty reports whether the snapshot carries no client records.
func (s *ClientSnapshot) Empty() bool {
	return s == nil || len(s.Clients) == 0
}
