package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/pacerhq/pacer/internal/model"
)

func ts(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func tsp(year, month, day int) *time.Time {
	t := ts(year, month, day)
	return &t
}

// fixtureSnapshot is one company in June 2025: three sales in June, one in
// May, marketing and office spend, and five clients across the lifecycle.
func fixtureSnapshot() Snapshot {
	return Snapshot{
		Ledger: &model.LedgerSnapshot{
			Year: 2025,
			Transactions: []model.Transaction{
				{Amount: 1000, Month: 6, Year: 2025, Product: "saas", Category: "subscriptions", ClientID: "c1"},
				{Amount: 2000, Month: 6, Year: 2025, Product: "consulting", Category: "services", ClientID: "c2", Discount: 100},
				{Amount: 700, Month: 6, Year: 2025, Product: "saas", Category: "subscriptions", ClientID: "c3"},
				{Amount: 500, Month: 5, Year: 2025, Product: "saas", Category: "subscriptions", ClientID: "c1"},
			},
			Expenses: []model.Expense{
				{Category: "marketing", Month: 6, Year: 2025, Manual: 300, Automatic: 100, Adjustment: 50},
				{Category: "office", Month: 6, Year: 2025, Manual: 200, Adjustment: -50},
				{Category: "marketing", Month: 5, Year: 2025, Manual: 900},
			},
		},
		Clients: &model.ClientSnapshot{
			Clients: []model.Client{
				{
					ID: "c1", Status: model.StatusActive, Segment: "enterprise",
					CreatedAt: ts(2025, 1, 10), ConvertedAt: tsp(2025, 1, 20),
					LastPurchaseAt: tsp(2025, 6, 10), TotalRevenue: 1200, Transactions: 3,
				},
				{
					ID: "c2", Status: model.StatusActive, Segment: "enterprise",
					CreatedAt: ts(2024, 6, 15), ConvertedAt: tsp(2024, 7, 1),
					LastPurchaseAt: tsp(2025, 1, 5), TotalRevenue: 2400, Transactions: 1,
				},
				{
					ID: "c3", Status: model.StatusChurned, Segment: "smb",
					CreatedAt: ts(2025, 1, 15), ConvertedAt: tsp(2025, 2, 1),
					ChurnedAt: tsp(2025, 6, 10), LastPurchaseAt: tsp(2025, 6, 1),
					TotalRevenue: 300, Transactions: 1,
				},
				{
					ID: "c4", Status: model.StatusLead, Segment: "smb",
					CreatedAt: ts(2025, 6, 5),
				},
				{
					ID: "c5", Status: model.StatusActive, Segment: "smb",
					CreatedAt: ts(2025, 5, 1), ConvertedAt: tsp(2025, 6, 20),
					LastPurchaseAt: tsp(2025, 6, 5), TotalRevenue: 100, Transactions: 1,
				},
			},
		},
	}
}

var juneP = model.Period{Type: model.PeriodMonthly, Year: 2025, Month: 6}

func compute(t *testing.T, m model.Metric, f model.Filters) float64 {
	t.Helper()
	return ComputeMetric(m, juneP, f, fixtureSnapshot(), ts(2025, 6, 25))
}

func assertMetric(t *testing.T, m model.Metric, f model.Filters, want float64) {
	t.Helper()
	got := compute(t, m, f)
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %.4f, want %.4f", m, got, want)
	}
}

func TestComputeMetric_Financial(t *testing.T) {
	// June revenue net of discounts: 1000 + 1900 + 700. The May sale is
	// outside the window.
	assertMetric(t, model.MetricRevenue, model.Filters{}, 3600)
	assertMetric(t, model.MetricRevenue, model.Filters{Product: "saas"}, 1700)
	assertMetric(t, model.MetricRevenue, model.Filters{Category: "services"}, 1900)
	assertMetric(t, model.MetricRevenue, model.Filters{ClientID: "c1"}, 1000)
	assertMetric(t, model.MetricRevenue, model.Filters{Segment: "enterprise"}, 2900)

	// June spend: marketing 300+100+50, office 200-50.
	assertMetric(t, model.MetricExpenses, model.Filters{}, 600)
	assertMetric(t, model.MetricExpenses, model.Filters{ExpenseCategory: "marketing"}, 450)

	assertMetric(t, model.MetricNetProfit, model.Filters{}, 3000)
	assertMetric(t, model.MetricGrossProfit, model.Filters{}, 3000)
	assertMetric(t, model.MetricMarginPercent, model.Filters{}, 3000.0/3600*100)
}

func TestComputeMetric_Acquisition(t *testing.T) {
	// Only c4 was created inside June.
	assertMetric(t, model.MetricNewClients, model.Filters{}, 1)
	assertMetric(t, model.MetricNewClients, model.Filters{Segment: "enterprise"}, 0)

	// One conversion (c5) over one pre-existing lead (c5) plus one new lead
	// (c4).
	assertMetric(t, model.MetricConversionRate, model.Filters{}, 50)

	// June marketing spend over one acquisition.
	assertMetric(t, model.MetricCAC, model.Filters{}, 450)
}

// The aggregation window never extends past the evaluation instant, so an
// event later in the period is invisible when the metric is read before it.
func TestComputeMetric_WindowClampedAtNow(t *testing.T) {
	snap := fixtureSnapshot()

	// c5 converts June 20; read on June 15 the conversion hasn't happened.
	got := ComputeMetric(model.MetricConversionRate, juneP, model.Filters{}, snap, ts(2025, 6, 15))
	if got != 0 {
		t.Errorf("conversion rate before the conversion = %.4f, want 0", got)
	}

	// c3 churns June 10; read on June 5 the churn hasn't happened.
	got = ComputeMetric(model.MetricChurnRate, juneP, model.Filters{}, snap, ts(2025, 6, 5))
	if got != 0 {
		t.Errorf("churn rate before the churn = %.4f, want 0", got)
	}
}

func TestComputeMetric_Retention(t *testing.T) {
	// Three clients were active on June 1 (c1, c2, c3); c3 churned mid-month.
	assertMetric(t, model.MetricChurnRate, model.Filters{}, 100.0/3)
	assertMetric(t, model.MetricRetentionRate, model.Filters{}, 100-100.0/3)
	assertMetric(t, model.MetricActiveClients, model.Filters{}, 3)
}

func TestComputeMetric_Value(t *testing.T) {
	// Active clients c1, c2, c5 hold 1200+2400+100 revenue.
	assertMetric(t, model.MetricARPU, model.Filters{}, 3700.0/3)

	// All clients: 4000 revenue over 6 transactions.
	assertMetric(t, model.MetricAvgBasket, model.Filters{}, 4000.0/6)
}

func TestComputeMetric_Engagement(t *testing.T) {
	// Four non-leads; c1, c3, c5 purchased within the 90-day window.
	assertMetric(t, model.MetricActiveRatio, model.Filters{}, 75)

	// Four purchasers, only c1 bought more than once.
	assertMetric(t, model.MetricUpsellRate, model.Filters{}, 25)
}

func TestComputeMetric_LTV(t *testing.T) {
	// Single active client with a clean 6-month tenure (180 days / 30).
	snap := Snapshot{
		Clients: &model.ClientSnapshot{
			Clients: []model.Client{{
				ID: "solo", Status: model.StatusActive,
				CreatedAt:   ts(2024, 12, 2),
				ConvertedAt: tsp(2024, 12, 2),
				TotalRevenue: 600, Transactions: 6,
			}},
		},
	}
	now := ts(2025, 5, 31) // 180 days after creation

	ltv := ComputeMetric(model.MetricLTV, juneP, model.Filters{}, snap, now)
	want := 600.0 * 6 * 0.7 // ARPU 600, tenure 6 months, margin 0.7
	if math.Abs(ltv-want) > 0.01 {
		t.Errorf("LTV = %.4f, want %.4f", ltv, want)
	}
}

func TestComputeMetric_LTVTenureFloor(t *testing.T) {
	// A brand-new client's tenure is floored at one month.
	snap := Snapshot{
		Clients: &model.ClientSnapshot{
			Clients: []model.Client{{
				ID: "new", Status: model.StatusActive,
				CreatedAt:   ts(2025, 6, 14),
				ConvertedAt: tsp(2025, 6, 14),
				TotalRevenue: 100, Transactions: 1,
			}},
		},
	}

	ltv := ComputeMetric(model.MetricLTV, juneP, model.Filters{}, snap, ts(2025, 6, 15))
	want := 100.0 * 1 * 0.7
	if math.Abs(ltv-want) > 0.01 {
		t.Errorf("LTV = %.4f, want %.4f", ltv, want)
	}
}

// Every ratio metric must return exactly 0 on an empty snapshot, never NaN
// or Inf.
func TestComputeMetric_ZeroDenominators(t *testing.T) {
	metrics := []model.Metric{
		model.MetricMarginPercent, model.MetricConversionRate, model.MetricCAC,
		model.MetricChurnRate, model.MetricARPU, model.MetricLTV,
		model.MetricLTVCACRatio, model.MetricAvgBasket, model.MetricActiveRatio,
		model.MetricUpsellRate, model.MetricAvgTenure,
	}

	empty := Snapshot{
		Ledger:  &model.LedgerSnapshot{Year: 2025},
		Clients: &model.ClientSnapshot{},
	}

	for _, m := range metrics {
		got := ComputeMetric(m, juneP, model.Filters{}, empty, ts(2025, 6, 15))
		if m == model.MetricRetentionRate {
			continue
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("%s on empty snapshot = %v, want finite", m, got)
		}
		if got != 0 {
			t.Errorf("%s on empty snapshot = %.4f, want 0", m, got)
		}
	}

	// Retention is the complement, so an empty snapshot reads as 100.
	if got := ComputeMetric(model.MetricRetentionRate, juneP, model.Filters{}, empty, ts(2025, 6, 15)); got != 100 {
		t.Errorf("retention on empty snapshot = %.4f, want 100", got)
	}
}

func TestComputeMetric_NilSnapshots(t *testing.T) {
	for _, m := range model.AllMetrics {
		got := ComputeMetric(m, juneP, model.Filters{}, Snapshot{}, ts(2025, 6, 15))
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("%s on nil snapshots = %v, want finite", m, got)
		}
	}
}
