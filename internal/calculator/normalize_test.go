package calculator

import (
	"testing"

	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/money"
)

func player(name, buyIn, cashOut string, order int) models.ParticipantEntry {
	return models.ParticipantEntry{
		ID:                  name,
		Name:                name,
		BuyIn:               money.Input(buyIn),
		CashOut:             money.Input(cashOut),
		AutoBalanceEligible: true,
		Order:               order,
	}
}

func sumNets(entries []models.NormalizedEntry) money.Amount {
	var total money.Amount
	for _, e := range entries {
		total += e.Net
	}
	return total
}

// pickFirst always chooses the first candidate.
func pickFirst(int) int { return 0 }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		entries   []models.ParticipantEntry
		step      money.Step
		wantNets  []money.Amount
		wantTotal money.Amount
	}{
		{
			name:      "simple win and loss",
			entries:   []models.ParticipantEntry{player("A", "10", "0", 0), player("B", "10", "20", 1)},
			step:      money.Cent,
			wantNets:  []money.Amount{-1000, 1000},
			wantTotal: 0,
		},
		{
			name:      "blank and malformed fields count as zero",
			entries:   []models.ParticipantEntry{player("A", "", "5", 0), player("B", "abc", "", 1), player("C", "5", "x", 2)},
			step:      money.Cent,
			wantNets:  []money.Amount{500, 0, -500},
			wantTotal: 0,
		},
		{
			name:      "oversized amounts count as zero",
			entries:   []models.ParticipantEntry{player("A", "100000000000000000", "0", 0), player("B", "0", "100000000000000000", 1)},
			step:      money.Cent,
			wantNets:  []money.Amount{0, 0},
			wantTotal: 0,
		},
		{
			name:      "comma decimal separator",
			entries:   []models.ParticipantEntry{player("A", "10,25", "0", 0)},
			step:      money.Cent,
			wantNets:  []money.Amount{-1025},
			wantTotal: -1025,
		},
		{
			name:      "rounded to five cents",
			entries:   []models.ParticipantEntry{player("A", "10", "12.37", 0), player("B", "10", "7.63", 1)},
			step:      money.FiveCents,
			wantNets:  []money.Amount{235, -235},
			wantTotal: 0,
		},
		{
			name:      "rounded to whole units half away from zero",
			entries:   []models.ParticipantEntry{player("A", "0", "2.5", 0), player("B", "2.5", "0", 1)},
			step:      money.WholeUnit,
			wantNets:  []money.Amount{300, -300},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.entries, tt.step, false, pickFirst)
			if len(got.Entries) != len(tt.wantNets) {
				t.Fatalf("got %d entries, want %d", len(got.Entries), len(tt.wantNets))
			}
			for i, want := range tt.wantNets {
				if got.Entries[i].Net != want {
					t.Errorf("entry %d net = %s, want %s", i, got.Entries[i].Net, want)
				}
				if got.Entries[i].Order != tt.entries[i].Order {
					t.Errorf("entry %d order = %d, want %d", i, got.Entries[i].Order, tt.entries[i].Order)
				}
			}
			if got.Total != tt.wantTotal {
				t.Errorf("total = %s, want %s", got.Total, tt.wantTotal)
			}
			if got.Adjusted != -1 {
				t.Errorf("adjusted = %d, want -1 without auto-balance", got.Adjusted)
			}
		})
	}
}

func TestNormalize_AutoBalance(t *testing.T) {
	// Nets: A -10.00, B +10.01, C -0.00 → total +0.01
	entries := []models.ParticipantEntry{
		player("A", "10", "0", 0),
		player("B", "10", "20.01", 1),
		player("C", "5", "5", 2),
	}

	t.Run("sum is nulled whatever the pick", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			got := Normalize(entries, money.Cent, true, nil)
			if s := sumNets(got.Entries); s != 0 {
				t.Fatalf("sum after auto-balance = %s, want 0", s)
			}
			if got.Total != 1 {
				t.Fatalf("total = %s, want 0.01", got.Total)
			}
			if got.Adjusted < 0 {
				t.Fatal("expected an adjusted entry")
			}
		}
	})

	t.Run("positive total favours debtors", func(t *testing.T) {
		got := Normalize(entries, money.Cent, true, pickFirst)
		if got.Adjusted != 0 {
			t.Fatalf("adjusted = %d, want 0 (the only debtor)", got.Adjusted)
		}
		if got.Entries[0].Net != -1001 {
			t.Errorf("A net = %s, want -10.01", got.Entries[0].Net)
		}
		if got.Entries[0].Adjustment != -1 {
			t.Errorf("A adjustment = %s, want -0.01", got.Entries[0].Adjustment)
		}
	})

	t.Run("negative total favours creditors", func(t *testing.T) {
		neg := []models.ParticipantEntry{
			player("A", "10", "0", 0),
			player("B", "10", "19.99", 1),
		}
		got := Normalize(neg, money.Cent, true, pickFirst)
		if got.Adjusted != 1 {
			t.Fatalf("adjusted = %d, want 1", got.Adjusted)
		}
		if got.Entries[1].Net != 1000 {
			t.Errorf("B net = %s, want 10.00", got.Entries[1].Net)
		}
	})

	t.Run("falls back to any eligible entry", func(t *testing.T) {
		onlyCreditor := []models.ParticipantEntry{
			player("A", "10", "0", 0),
			player("B", "10", "20.01", 1),
		}
		onlyCreditor[0].AutoBalanceEligible = false
		got := Normalize(onlyCreditor, money.Cent, true, pickFirst)
		if got.Adjusted != 1 {
			t.Fatalf("adjusted = %d, want 1", got.Adjusted)
		}
		if s := sumNets(got.Entries); s != 0 {
			t.Errorf("sum = %s, want 0", s)
		}
	})

	t.Run("no eligible entry leaves the remainder", func(t *testing.T) {
		none := []models.ParticipantEntry{
			player("A", "10", "0", 0),
			player("B", "10", "20.01", 1),
		}
		none[0].AutoBalanceEligible = false
		none[1].AutoBalanceEligible = false
		got := Normalize(none, money.Cent, true, pickFirst)
		if got.Adjusted != -1 {
			t.Errorf("adjusted = %d, want -1", got.Adjusted)
		}
		if s := sumNets(got.Entries); s != 1 {
			t.Errorf("sum = %s, want 0.01", s)
		}
	})

	t.Run("zero sum input is untouched", func(t *testing.T) {
		balanced := []models.ParticipantEntry{
			player("A", "10", "0", 0),
			player("B", "10", "20", 1),
		}
		called := false
		got := Normalize(balanced, money.Cent, true, func(n int) int { called = true; return 0 })
		if called || got.Adjusted != -1 {
			t.Error("auto-balance must not run on balanced input")
		}
	})

	t.Run("out of range pick is clamped", func(t *testing.T) {
		got := Normalize(entries, money.Cent, true, func(n int) int { return n + 3 })
		if got.Adjusted != 0 {
			t.Errorf("adjusted = %d, want 0", got.Adjusted)
		}
	})

	t.Run("adjustment is a multiple of the step", func(t *testing.T) {
		coarse := []models.ParticipantEntry{
			player("A", "10", "0", 0),
			player("B", "10", "21", 1),
			player("C", "10", "10", 2),
		}
		got := Normalize(coarse, money.WholeUnit, true, pickFirst)
		if got.Total != 100 {
			t.Fatalf("total = %s, want 1.00", got.Total)
		}
		if got.Entries[got.Adjusted].Adjustment%money.Amount(money.WholeUnit) != 0 {
			t.Errorf("adjustment %s is not a whole unit", got.Entries[got.Adjusted].Adjustment)
		}
		if s := sumNets(got.Entries); s != 0 {
			t.Errorf("sum = %s, want 0", s)
		}
	})
}
