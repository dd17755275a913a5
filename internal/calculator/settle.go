package calculator

import (
	"cmp"
	"slices"

	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/money"
)

// party is a creditor or a debtor while settling. amount is always positive
// on entry and counts down to zero.
type party struct {
	entry    int // position in the input; names need not be unique
	id       string
	name     string
	order    int
	original money.Amount
	amount   money.Amount
}

// Settle computes the transfers that clear the given nets.
//
// Algorithm:
//   - Round every net to step; the sum of those is the residual
//   - Creditors are nets > 0, debtors nets < 0 (as positive amounts); zeros sit out
//   - Order both sides by strategy
//   - Largest-first and order-preserving: two-pointer greedy match, the debtor
//     at i pays min(owed, due) to the creditor at j, advancing whichever side
//     reached zero (both when both did)
//   - Proportional: see settleProportional
//
// Greedy matching emits at most len(creditors)+len(debtors)-1 transfers. Every
// amount is positive and a multiple of step. When the residual is nonzero the
// larger side is left partly unsettled; nothing is hidden.
func Settle(entries []models.NormalizedEntry, step money.Step, strategy models.Strategy) models.SettlementResult {
	var creditors, debtors []party
	var residual money.Amount

	for i, e := range entries {
		a := money.RoundTo(e.Net, step)
		residual += a
		p := party{entry: i, id: e.ID, name: e.Name, order: e.Order}
		switch {
		case a > 0:
			p.original, p.amount = a, a
			creditors = append(creditors, p)
		case a < 0:
			p.original, p.amount = -a, -a
			debtors = append(debtors, p)
		}
	}

	sortParties(creditors, strategy)
	sortParties(debtors, strategy)

	var transfers transferList
	if strategy == models.StrategyProportional {
		settleProportional(&transfers, debtors, creditors, step)
	} else {
		settleGreedy(&transfers, debtors, creditors, step)
	}

	return models.SettlementResult{
		Transfers: transfers.items(),
		Residual:  residual,
	}
}

// sortParties orders one side of the book. Largest-first breaks ties on
// list order so the result never depends on map or sort instability.
func sortParties(parties []party, strategy models.Strategy) {
	if strategy == models.StrategyLargestFirst {
		slices.SortStableFunc(parties, func(a, b party) int {
			if c := cmp.Compare(b.amount, a.amount); c != 0 {
				return c
			}
			return cmp.Compare(a.order, b.order)
		})
		return
	}
	slices.SortStableFunc(parties, func(a, b party) int {
		return cmp.Compare(a.order, b.order)
	})
}

func settleGreedy(out *transferList, debtors, creditors []party, step money.Step) {
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]

		amount := money.RoundTo(money.Min(d.amount, c.amount), step)
		if amount > 0 {
			out.add(d, c, amount)
			d.amount -= amount
			c.amount -= amount
		}

		if d.amount <= 0 {
			i++
		}
		if c.amount <= 0 {
			j++
		}
		if amount <= 0 && d.amount > 0 && c.amount > 0 {
			// Both sides hold less than one step; nothing more can move.
			break
		}
	}
}

// settleProportional gives every creditor a share of each debtor's payment
// proportional to that debtor's part of the total debt. Shares are rounded per
// pair and capped by what both sides still hold. Rounding can leave a few
// steps unassigned; those are drained greedily and folded into the existing
// pairs, so money is still conserved.
func settleProportional(out *transferList, debtors, creditors []party, step money.Step) {
	var totalDebt money.Amount
	for _, d := range debtors {
		totalDebt += d.original
	}

	for ci := range creditors {
		c := &creditors[ci]
		for di := range debtors {
			d := &debtors[di]
			if d.amount <= 0 || c.amount <= 0 {
				continue
			}
			share := money.Share(c.original, d.original, totalDebt, step)
			amount := money.Min(share, money.Min(d.amount, c.amount))
			if amount > 0 {
				out.add(d, c, amount)
				d.amount -= amount
				c.amount -= amount
			}
		}
	}

	settleGreedy(out, remaining(debtors), remaining(creditors), step)
}

func remaining(parties []party) []party {
	var left []party
	for _, p := range parties {
		if p.amount > 0 {
			left = append(left, p)
		}
	}
	return left
}

// transferList collects transfers in emission order and merges repeated
// payments between the same pair of entries.
type transferList struct {
	list  []models.Transfer
	index map[[2]int]int
}

func (l *transferList) add(from, to *party, amount money.Amount) {
	if l.index == nil {
		l.index = make(map[[2]int]int)
	}
	key := [2]int{from.entry, to.entry}
	if i, ok := l.index[key]; ok {
		l.list[i].Amount += amount
		return
	}
	l.index[key] = len(l.list)
	l.list = append(l.list, models.Transfer{
		From:   from.name,
		FromID: from.id,
		To:     to.name,
		ToID:   to.id,
		Amount: amount,
	})
}

func (l *transferList) items() []models.Transfer {
	if l.list == nil {
		return []models.Transfer{}
	}
	return l.list
}
