package models

import "github.com/mmynk/pokersplit/internal/money"

// ParticipantEntry is one row of the calculator as entered by the user.
type ParticipantEntry struct {
	// ID is unique within a calculation. It carries no meaning beyond that.
	ID string `json:"id"`

	// Name is the display name. Two entries may share a name.
	Name string `json:"name"`

	// BuyIn and CashOut are kept as typed. Blank or malformed input counts as zero.
	BuyIn   money.Input `json:"buyIn"`
	CashOut money.Input `json:"cashOut"`

	// AutoBalanceEligible allows this entry to absorb a rounding remainder.
	AutoBalanceEligible bool `json:"autoBalance"`

	// Order is the stable position in the list and the final tie-break.
	Order int `json:"order"`
}

// NormalizedEntry is a participant with its net rounded to the active step.
type NormalizedEntry struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Order               int    `json:"order"`
	AutoBalanceEligible bool   `json:"autoBalance"`

	BuyIn   money.Amount `json:"buyIn"`
	CashOut money.Amount `json:"cashOut"`

	// Net is CashOut - BuyIn, rounded, including any Adjustment.
	Net money.Amount `json:"net"`

	// Adjustment is the correction applied by auto-balance; zero for all
	// entries but at most one.
	Adjustment money.Amount `json:"adjustment,omitempty"`
}
