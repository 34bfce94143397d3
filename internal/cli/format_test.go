package cli

import (
	"testing"

	"github.com/pacerhq/pacer/internal/model"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1234567, "$1,234,567"},
		{1500, "$1,500"},
		{250, "$250"},
		{42.5, "$42.5"},
		{9.99, "$9.99"},
		{0, "$0.00"},
		{-1500, "-$1,500"},
	}
	for _, tt := range tests {
		if got := FormatMoney("$", tt.amount); got != tt.want {
			t.Errorf("FormatMoney(%.2f) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatMetricValue(t *testing.T) {
	if got := FormatMetricValue(model.MetricRevenue, "€", 1200); got != "€1,200" {
		t.Errorf("revenue = %q", got)
	}
	if got := FormatMetricValue(model.MetricChurnRate, "$", 3.25); got != "3.3%" {
		t.Errorf("churn = %q", got)
	}
	if got := FormatMetricValue(model.MetricNewClients, "$", 42); got != "42" {
		t.Errorf("new clients = %q", got)
	}
	if got := FormatMetricValue(model.MetricLTVCACRatio, "$", 3.14); got != "3.1" {
		t.Errorf("ratio = %q", got)
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(55, 50); got != "+5.0%" {
		t.Errorf("ahead delta = %q", got)
	}
	if got := FormatDelta(40, 50); got != "-10.0%" {
		t.Errorf("behind delta = %q", got)
	}
}

func TestFormatPeriod(t *testing.T) {
	tests := []struct {
		p    model.Period
		want string
	}{
		{model.Period{Type: model.PeriodMonthly, Year: 2025, Month: 6}, "Jun 2025"},
		{model.Period{Type: model.PeriodQuarterly, Year: 2025, Quarter: 2}, "Q2 2025"},
		{model.Period{Type: model.PeriodYearly, Year: 2025}, "2025"},
	}
	for _, tt := range tests {
		if got := FormatPeriod(tt.p); got != tt.want {
			t.Errorf("FormatPeriod(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}
