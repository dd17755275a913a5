package calculator

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/money"
)

// ShareText renders a calculation as a plain text message for chat apps.
func ShareText(description string, date time.Time, entries []models.NormalizedEntry, result models.SettlementResult, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", description)
	fmt.Fprintf(&b, "%s\n\n", date.Format("Jan 2, 2006"))

	b.WriteString("Result:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "• %s: %s\n", e.Name, money.FormatSigned(e.Net, currency))
	}

	b.WriteString("\nTransfers:\n")
	if len(result.Transfers) == 0 {
		b.WriteString("Nobody has to pay.\n")
	}
	for _, t := range result.Transfers {
		fmt.Fprintf(&b, "• %s → %s: %s\n", t.From, t.To, money.Format(t.Amount, currency))
	}

	if !result.Balanced() {
		fmt.Fprintf(&b, "\nUnbalanced by %s.\n", money.FormatSigned(result.Residual, currency))
	}

	return b.String()
}
