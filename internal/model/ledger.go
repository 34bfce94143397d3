package model

// Transaction is one sale recorded in the ledger. Records are keyed by month,
// not day; that granularity comes from the upstream export.
type Transaction struct {
	Amount   float64
	Month    int // 1-12
	Year     int
	Product  string
	Category string
	ClientID string
	Discount float64
}

// Expense is one month of spend in a category. The amount is an explicit
// three-term sum: a manually entered quantity, an automatically derived one,
// and a free-form adjustment delta.
type Expense struct {
	Category   string
	Month      int
	Year       int
	Manual     float64
	Automatic  float64
	Adjustment float64
}

// Amount returns the effective expense amount.
func (e Expense) Amount() float64 {
	return e.Manual + e.Automatic + e.Adjustment
}

// LedgerSnapshot is an immutable, caller-supplied view of all ledger records
// for one company and year.
type LedgerSnapshot struct {
	Year         int
	Transactions []Transaction
	Expenses     []Expense
}

// Empty reports whether the snapshot carries no records at all, which callers
// treat as "no data" rather than zero activity with data present.
func (s *LedgerSnapshot) Empty() bool {
	return s == nil || (len(s.Transactions) == 0 && len(s.Expenses) == 0)
}
