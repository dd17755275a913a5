package calculator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/money"
)

var rosterSeparator = regexp.MustCompile(`[;,|\t]`)

// ParseRoster reads a pasted player list, one player per line:
//
//	name; buy-in; cash-out
//
// Fields may be separated by ';', ',', '|' or a tab. The cash-out is optional
// and left blank when missing. Lines with fewer than two fields are skipped.
// Because ',' separates fields, amounts in a pasted list must use '.' as
// decimal point. Every parsed entry is auto-balance eligible.
func ParseRoster(text string) []models.ParticipantEntry {
	var entries []models.ParticipantEntry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := rosterSeparator.Split(line, -1)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) < 2 || parts[0] == "" {
			continue
		}

		entry := models.ParticipantEntry{
			ID:                  fmt.Sprintf("p%d", len(entries)+1),
			Name:                parts[0],
			BuyIn:               money.Input(parts[1]),
			AutoBalanceEligible: true,
			Order:               len(entries),
		}
		if len(parts) > 2 {
			entry.CashOut = money.Input(parts[2])
		}
		entries = append(entries, entry)
	}
	return entries
}
