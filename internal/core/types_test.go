package core

import "testing"

func TestPeriodNext(t *testing.T) {
	tests := []struct {
		in   Period
		want Period
	}{
		{PeriodDaily, PeriodWeekly},
		{PeriodWeekly, PeriodMonthly},
		{PeriodMonthly, PeriodDaily},
		{Period("yearly"), PeriodWeekly},
	}
	for _, tt := range tests {
		if got := tt.in.Next(); got != tt.want {
			t.Errorf("%q.Next() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPackageHasLicense(t *testing.T) {
	if (Package{License: "  "}).HasLicense() {
		t.Error("blank license should not count")
	}
	if !(Package{License: "MIT"}).HasLicense() {
		t.Error("MIT should count as a license")
	}
}
