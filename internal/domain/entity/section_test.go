package entity

import (
	"errors"
	"testing"
)

func TestParseSection(t *testing.T) {
	tests := map[string]Section{
		"Home":    SectionHome,
		"home":    SectionHome,
		" SHADE ": SectionShade,
		"Shade":   SectionShade,
	}
	for in, want := range tests {
		got, err := ParseSection(in)
		if err != nil {
			t.Fatalf("ParseSection(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseSection(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseSection("Portfolio"); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestSnapshotBatchPrice(t *testing.T) {
	snap := Snapshot{BatchPrices: map[string]string{"SHD": "$1"}}
	if got := snap.BatchPrice("SHD"); got != "$1" {
		t.Errorf("SHD = %q", got)
	}
	if got := snap.BatchPrice("BTC"); got != "Loading..." {
		t.Errorf("BTC = %q", got)
	}
}

func TestDisplayFormats(t *testing.T) {
	if got := FormatSinglePrice("SHD", "12.34"); got != "SHD = $12.34" {
		t.Errorf("single = %q", got)
	}
	if got := FormatBatchPrice("12.34"); got != "$12.34" {
		t.Errorf("batch = %q", got)
	}
	if got := PriceFetchFailedText("SHD"); got != "Error fetching SHD price" {
		t.Errorf("failed = %q", got)
	}
}
