package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/pokersplit/internal/money"
)

// Strategy selects how creditors and debtors are ordered and matched.
type Strategy string

const (
	// StrategyLargestFirst pairs the biggest debtor with the biggest creditor.
	StrategyLargestFirst Strategy = "largest"

	// StrategyOrderPreserving matches in list order: first listed pays first.
	StrategyOrderPreserving Strategy = "order"

	// StrategyProportional spreads every creditor's claim across all debtors.
	StrategyProportional Strategy = "proportional"
)

var ErrUnknownStrategy = errors.New("unknown settlement strategy")

// ParseStrategy accepts the short and the long names of each strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "largest", "largest-first":
		return StrategyLargestFirst, nil
	case "order", "order-preserving":
		return StrategyOrderPreserving, nil
	case "proportional":
		return StrategyProportional, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Transfer is a single payment: From pays Amount to To. Names are for display
// and may repeat; FromID and ToID identify the entries.
type Transfer struct {
	From   string       `json:"from"`
	FromID string       `json:"fromId,omitempty"`
	To     string       `json:"to"`
	ToID   string       `json:"toId,omitempty"`
	Amount money.Amount `json:"amount"`
}

// SettlementResult is the output of the settlement engine.
type SettlementResult struct {
	Transfers []Transfer `json:"transfers"`

	// Residual is the sum of all rounded nets. Nonzero means the books do not
	// balance and some creditor or debtor was left partly unsettled.
	Residual money.Amount `json:"residual"`
}

// Balanced reports whether the settlement cleared every balance.
func (r SettlementResult) Balanced() bool { return r.Residual.IsZero() }
