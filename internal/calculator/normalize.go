// Package calculator holds the pure computations of pokersplit: turning raw
// buy-in/cash-out rows into rounded nets, settling those nets with a small set
// of transfers, and folding saved sessions into lifetime statistics.
//
// Nothing in this package touches storage or shared state; every function is
// safe to call concurrently on independent inputs.
package calculator

import (
	"math/rand/v2"

	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/money"
)

// Picker returns an index in [0, n). It chooses which eligible entry absorbs
// the rounding remainder during auto-balance.
type Picker func(n int) int

// RandomPicker picks uniformly. It is not seeded and not reproducible.
func RandomPicker(n int) int { return rand.IntN(n) }

// NormalizeResult is the output of Normalize.
type NormalizeResult struct {
	// Entries are in input order.
	Entries []models.NormalizedEntry

	// Total is the sum of the rounded nets before any auto-balance adjustment.
	Total money.Amount

	// Adjusted is the index in Entries that absorbed Total, or -1.
	Adjusted int
}

// Normalize computes each entry's net (cash-out minus buy-in), rounds it to
// step and, when autoBalance is set and the nets do not sum to zero, moves the
// whole remainder onto one eligible entry chosen by pick.
//
// The candidate pool prefers eligible entries whose net has the opposite sign
// of the remainder; if there are none, every eligible entry qualifies. With no
// eligible entry at all nothing is adjusted and the remainder shows up as the
// settlement residual.
//
// A nil pick uses RandomPicker.
func Normalize(entries []models.ParticipantEntry, step money.Step, autoBalance bool, pick Picker) NormalizeResult {
	if pick == nil {
		pick = RandomPicker
	}

	result := NormalizeResult{
		Entries:  make([]models.NormalizedEntry, len(entries)),
		Adjusted: -1,
	}

	for i, e := range entries {
		buyIn := money.ParseDecimal(string(e.BuyIn))
		cashOut := money.ParseDecimal(string(e.CashOut))
		net := money.RoundDecimal(cashOut.Sub(buyIn), step)

		result.Entries[i] = models.NormalizedEntry{
			ID:                  e.ID,
			Name:                e.Name,
			Order:               e.Order,
			AutoBalanceEligible: e.AutoBalanceEligible,
			BuyIn:               money.FromDecimal(buyIn),
			CashOut:             money.FromDecimal(cashOut),
			Net:                 net,
		}
		result.Total += net
	}

	if !autoBalance || result.Total.IsZero() {
		return result
	}

	pool := autoBalancePool(result.Entries, -result.Total.Sign())
	if len(pool) == 0 {
		pool = autoBalancePool(result.Entries, 0)
	}
	if len(pool) == 0 {
		return result
	}

	n := pick(len(pool))
	if n < 0 || n >= len(pool) {
		n = 0
	}
	idx := pool[n]
	adjustment := -money.RoundTo(result.Total, step)
	result.Entries[idx].Net += adjustment
	result.Entries[idx].Adjustment = adjustment
	result.Adjusted = idx

	return result
}

// autoBalancePool returns the indexes of eligible entries whose net has the
// given sign. A sign of 0 matches every eligible entry.
func autoBalancePool(entries []models.NormalizedEntry, sign int) []int {
	var pool []int
	for i, e := range entries {
		if !e.AutoBalanceEligible {
			continue
		}
		if sign != 0 && e.Net.Sign() != sign {
			continue
		}
		pool = append(pool, i)
	}
	return pool
}
