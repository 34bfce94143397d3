package pipeline

import (
	"strings"
	"time"

	"github.com/pacerhq/pacer/internal/model"
	"github.com/pacerhq/pacer/internal/period"
)

// Snapshot bundles the caller-supplied data views the aggregator reads.
// The engine never fetches data itself.
type Snapshot struct {
	Ledger  *model.LedgerSnapshot
	Clients *model.ClientSnapshot
}

const (
	// marketingCategory is the expense category counted as acquisition spend.
	marketingCategory = "marketing"

	// grossMarginAssumption is the fixed margin factor in the LTV formula.
	grossMarginAssumption = 0.7

	// tenureMonthDays approximates a month when converting tenure durations.
	tenureMonthDays = 30

	// recentPurchaseWindow is how far back a purchase still counts a client
	// as engaged for the active-ratio metric.
	recentPurchaseWindow = 90 * 24 * time.Hour
)

// ComputeMetric computes the actual value of a metric over the period.
// Percentage metrics return 0-100 values; every ratio returns 0 when its
// denominator is 0, never NaN.
//
// Derived metrics (retention, LTV, LTV:CAC) are computed through direct calls
// to their component helpers, a closed dispatch rather than re-entrant metric
// substitution, so the dependency chain cannot cycle.
func ComputeMetric(m model.Metric, p model.Period, f model.Filters, snap Snapshot, now time.Time) float64 {
	start, end := period.Range(p)
	// Clamp the window at now: events after the evaluation instant have not
	// happened yet. Series sampling relies on this to read partial-period
	// values at past bucket ends.
	if now.Before(end) {
		end = now
	}

	switch m {
	case model.MetricRevenue:
		return sumRevenue(snap, f, start, end)
	case model.MetricExpenses:
		return sumExpenses(snap.Ledger, f, start, end)
	case model.MetricGrossProfit, model.MetricNetProfit:
		return sumRevenue(snap, f, start, end) - sumExpenses(snap.Ledger, f, start, end)
	case model.MetricMarginPercent:
		rev := sumRevenue(snap, f, start, end)
		if rev == 0 {
			return 0
		}
		return (rev - sumExpenses(snap.Ledger, f, start, end)) / rev * 100

	case model.MetricNewClients:
		return float64(countNewClients(snap.Clients, f, start, end))
	case model.MetricConversionRate:
		return conversionRate(snap.Clients, f, start, end)
	case model.MetricCAC:
		return costPerAcquisition(snap, f, start, end)

	case model.MetricChurnRate:
		return churnRate(snap.Clients, f, start, end)
	case model.MetricRetentionRate:
		return 100 - churnRate(snap.Clients, f, start, end)
	case model.MetricActiveClients:
		return float64(len(filterClients(snap.Clients, f, model.StatusActive)))
	case model.MetricAvgTenure:
		return avgTenureMonths(snap.Clients, f, now)

	case model.MetricARPU:
		return revenuePerActiveClient(snap.Clients, f)
	case model.MetricLTV:
		return lifetimeValue(snap.Clients, f, now)
	case model.MetricLTVCACRatio:
		cac := costPerAcquisition(snap, f, start, end)
		if cac == 0 {
			return 0
		}
		return lifetimeValue(snap.Clients, f, now) / cac
	case model.MetricAvgBasket:
		return averageBasket(snap.Clients, f)

	case model.MetricActiveRatio:
		return activeRatio(snap.Clients, f, now)
	case model.MetricUpsellRate:
		return upsellRate(snap.Clients, f)
	}

	return 0
}

// RequiresLedger reports whether a metric reads the ledger snapshot.
// CAC and the LTV:CAC ratio read both snapshots.
func RequiresLedger(m model.Metric) bool {
	switch m {
	case model.MetricRevenue, model.MetricExpenses, model.MetricGrossProfit,
		model.MetricNetProfit, model.MetricMarginPercent, model.MetricCAC,
		model.MetricLTVCACRatio:
		return true
	}
	return false
}

// RequiresClients reports whether a metric reads the client snapshot.
func RequiresClients(m model.Metric) bool {
	switch m {
	case model.MetricRevenue, model.MetricExpenses, model.MetricGrossProfit,
		model.MetricNetProfit, model.MetricMarginPercent:
		// Financial metrics only touch clients for segment filtering.
		return false
	}
	return true
}

// monthInWindow reports whether a month-keyed record falls inside the window.
// Records carry no day, so month granularity is the finest cut available.
func monthInWindow(year, month int, start, end time.Time) bool {
	idx := year*12 + month - 1
	return idx >= start.Year()*12+int(start.Month())-1 &&
		idx <= end.Year()*12+int(end.Month())-1
}

// segmentIndex builds a client-id -> segment lookup for filtering
// month-keyed ledger records by client segment.
func segmentIndex(clients *model.ClientSnapshot) map[string]string {
	if clients == nil {
		return nil
	}
	idx := make(map[string]string, len(clients.Clients))
	for _, c := range clients.Clients {
		idx[c.ID] = c.Segment
	}
	return idx
}

func sumRevenue(snap Snapshot, f model.Filters, start, end time.Time) float64 {
	if snap.Ledger == nil {
		return 0
	}

	var segments map[string]string
	if f.Segment != "" {
		segments = segmentIndex(snap.Clients)
	}

	var total float64
	for _, tx := range snap.Ledger.Transactions {
		if !monthInWindow(tx.Year, tx.Month, start, end) {
			continue
		}
		if f.Product != "" && tx.Product != f.Product {
			continue
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if f.ClientID != "" && tx.ClientID != f.ClientID {
			continue
		}
		if f.Segment != "" && segments[tx.ClientID] != f.Segment {
			continue
		}
		total += tx.Amount - tx.Discount
	}
	return total
}

func sumExpenses(ledger *model.LedgerSnapshot, f model.Filters, start, end time.Time) float64 {
	if ledger == nil {
		return 0
	}
	var total float64
	for _, e := range ledger.Expenses {
		if !monthInWindow(e.Year, e.Month, start, end) {
			continue
		}
		if f.ExpenseCategory != "" && !strings.EqualFold(e.Category, f.ExpenseCategory) {
			continue
		}
		total += e.Amount()
	}
	return total
}

// filterClients returns clients matching the filters and, when statuses are
// given, any of those statuses.
func filterClients(snap *model.ClientSnapshot, f model.Filters, statuses ...model.ClientStatus) []model.Client {
	if snap == nil {
		return nil
	}
	var out []model.Client
	for _, c := range snap.Clients {
		if f.Segment != "" && c.Segment != f.Segment {
			continue
		}
		if f.ClientID != "" && c.ID != f.ClientID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, st := range statuses {
				if c.Status == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func countNewClients(snap *model.ClientSnapshot, f model.Filters, start, end time.Time) int {
	n := 0
	for _, c := range filterClients(snap, f) {
		if !c.CreatedAt.Before(start) && !c.CreatedAt.After(end) {
			n++
		}
	}
	return n
}

// conversionRate is converted-in-window over the lead pool: leads already
// open at the window start plus leads created during the window. With no
// pre-existing leads it falls back to the instant-conversion ratio over
// clients created in the window.
func conversionRate(snap *model.ClientSnapshot, f model.Filters, start, end time.Time) float64 {
	clients := filterClients(snap, f)

	var converted, leadsAtStart, newInWindow int
	for _, c := range clients {
		if c.ConvertedAt != nil && !c.ConvertedAt.Before(start) && !c.ConvertedAt.After(end) {
			converted++
		}
		if !c.CreatedAt.Before(start) && !c.CreatedAt.After(end) {
			newInWindow++
		}
		if c.CreatedAt.Before(start) && (c.ConvertedAt == nil || !c.ConvertedAt.Before(start)) {
			leadsAtStart++
		}
	}

	if leadsAtStart == 0 {
		if newInWindow == 0 {
			return 0
		}
		return float64(converted) / float64(newInWindow) * 100
	}
	return float64(converted) / float64(leadsAtStart+newInWindow) * 100
}

func costPerAcquisition(snap Snapshot, f model.Filters, start, end time.Time) float64 {
	acquired := countNewClients(snap.Clients, f, start, end)
	if acquired == 0 {
		return 0
	}
	spend := sumExpenses(snap.Ledger, model.Filters{ExpenseCategory: marketingCategory}, start, end)
	return spend / float64(acquired)
}

func churnRate(snap *model.ClientSnapshot, f model.Filters, start, end time.Time) float64 {
	clients := filterClients(snap, f)

	var activeAtStart, churned int
	for _, c := range clients {
		if c.ActiveAt(start) {
			activeAtStart++
		}
		if c.ChurnedAt != nil && !c.ChurnedAt.Before(start) && !c.ChurnedAt.After(end) {
			churned++
		}
	}
	if activeAtStart == 0 {
		return 0
	}
	return float64(churned) / float64(activeAtStart) * 100
}

func avgTenureMonths(snap *model.ClientSnapshot, f model.Filters, now time.Time) float64 {
	active := filterClients(snap, f, model.StatusActive)
	if len(active) == 0 {
		return 0
	}
	var months float64
	for _, c := range active {
		months += now.Sub(c.CreatedAt).Hours() / 24 / tenureMonthDays
	}
	return months / float64(len(active))
}

func revenuePerActiveClient(snap *model.ClientSnapshot, f model.Filters) float64 {
	active := filterClients(snap, f, model.StatusActive)
	if len(active) == 0 {
		return 0
	}
	var revenue float64
	for _, c := range active {
		revenue += c.TotalRevenue
	}
	return revenue / float64(len(active))
}

func lifetimeValue(snap *model.ClientSnapshot, f model.Filters, now time.Time) float64 {
	arpu := revenuePerActiveClient(snap, f)
	tenure := avgTenureMonths(snap, f, now)
	if tenure < 1 {
		tenure = 1
	}
	return arpu * tenure * grossMarginAssumption
}

func averageBasket(snap *model.ClientSnapshot, f model.Filters) float64 {
	var revenue float64
	var count int
	for _, c := range filterClients(snap, f) {
		revenue += c.TotalRevenue
		count += c.Transactions
	}
	if count == 0 {
		return 0
	}
	return revenue / float64(count)
}

func activeRatio(snap *model.ClientSnapshot, f model.Filters, now time.Time) float64 {
	var recent, nonLeads int
	for _, c := range filterClients(snap, f) {
		if c.Status == model.StatusLead {
			continue
		}
		nonLeads++
		if c.LastPurchaseAt != nil && now.Sub(*c.LastPurchaseAt) <= recentPurchaseWindow {
			recent++
		}
	}
	if nonLeads == 0 {
		return 0
	}
	return float64(recent) / float64(nonLeads) * 100
}

func upsellRate(snap *model.ClientSnapshot, f model.Filters) float64 {
	var repeat, purchasers int
	for _, c := range filterClients(snap, f) {
		if c.Transactions >= 1 {
			purchasers++
		}
		if c.Transactions > 1 {
			repeat++
		}
	}
	if purchasers == 0 {
		return 0
	}
	return float64(repeat) / float64(purchasers) * 100
}
