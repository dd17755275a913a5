package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/pokersplit/internal/calculator"
	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/money"
	"github.com/mmynk/pokersplit/internal/service"
)

const dateLayout = "Jan 2, 2006"

func settlementMarkdown(calc *service.Calculation, currency string) string {
	var b strings.Builder

	b.WriteString("## Result\n\n")
	b.WriteString("| Player | Buy-in | Cash-out | Net |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for i, e := range calc.Entries {
		net := money.FormatSigned(e.Net, currency)
		if i == calc.Adjusted {
			net += fmt.Sprintf(" (auto-balanced %s)", money.FormatSigned(e.Adjustment, currency))
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			cell(e.Name), money.Format(e.BuyIn, currency), money.Format(e.CashOut, currency), net)
	}

	b.WriteString("\n## Transfers\n\n")
	if len(calc.Settlement.Transfers) == 0 {
		b.WriteString("Nobody has to pay.\n")
	}
	for _, t := range calc.Settlement.Transfers {
		fmt.Fprintf(&b, "- **%s** pays **%s** %s\n", t.From, t.To, money.Format(t.Amount, currency))
	}

	if !calc.Settlement.Balanced() {
		fmt.Fprintf(&b, "\n> Unbalanced by %s: buy-ins and cash-outs do not add up.\n",
			money.FormatSigned(calc.Settlement.Residual, currency))
	}

	fmt.Fprintf(&b, "\n_Rounding %s, strategy %s._\n", calc.Rounding, calc.Strategy)
	return b.String()
}

func sessionsMarkdown(sessions []*models.Session, currency string) string {
	if len(sessions) == 0 {
		return "No saved sessions.\n"
	}

	var b strings.Builder
	b.WriteString("| Date | ID | Description | Stake | Results |\n")
	b.WriteString("|---|---|---|---:|---|\n")
	for _, s := range sessions {
		results := make([]string, len(s.Players))
		for i, p := range s.Players {
			results[i] = fmt.Sprintf("%s %s", p.Name, money.FormatSigned(p.Net, currency))
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			s.Date.Local().Format(dateLayout), s.SessionID, cell(s.Description),
			money.Format(s.Stake(), currency), cell(strings.Join(results, ", ")))
	}
	return b.String()
}

func statsMarkdown(report calculator.Report, currency string) string {
	if len(report.Players) == 0 {
		return "Play a few sessions to see statistics.\n"
	}

	var b strings.Builder
	b.WriteString("## Leaderboard\n\n")
	b.WriteString("| # | Player | Total | Sessions | Win % | Average | Max win | Max loss |\n")
	b.WriteString("|---:|---|---:|---:|---:|---:|---:|---:|\n")
	for i, p := range report.Players {
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %d%% | %s | %s | %s |\n",
			i+1, cell(p.Name), money.FormatSigned(p.TotalNet, currency), p.Sessions, p.WinRate,
			money.FormatSigned(money.FromDecimal(decimal.NewFromFloat(p.Average)), currency),
			money.Format(p.MaxWin, currency), money.Format(p.MaxLoss, currency))
	}

	h := report.Highlights
	b.WriteString("\n## Records\n\n")
	fmt.Fprintf(&b, "- Total stake: %s\n", money.Format(report.TotalStake, currency))
	if h.BestWin != nil {
		fmt.Fprintf(&b, "- Biggest win: %s %s (%s)\n", h.BestWin.Name, money.FormatSigned(h.BestWin.Amount, currency), h.BestWin.Date.Local().Format(dateLayout))
	}
	if h.WorstLoss != nil {
		fmt.Fprintf(&b, "- Biggest loss: %s %s (%s)\n", h.WorstLoss.Name, money.FormatSigned(h.WorstLoss.Amount, currency), h.WorstLoss.Date.Local().Format(dateLayout))
	}
	if h.BestStake != nil {
		fmt.Fprintf(&b, "- Biggest pot: %s (%s)\n", money.Format(h.BestStake.Amount, currency), h.BestStake.Date.Local().Format(dateLayout))
	}
	if h.BiggestTable != nil {
		fmt.Fprintf(&b, "- Biggest table: %d players (%s)\n", h.BiggestTable.Players, h.BiggestTable.Date.Local().Format(dateLayout))
	}
	if h.MostPlayed != nil {
		fmt.Fprintf(&b, "- Most sessions: %s (%d)\n", h.MostPlayed.Name, h.MostPlayed.Sessions)
	}
	if h.BestAverage != nil {
		fmt.Fprintf(&b, "- Best average: %s (%.2f per session)\n", h.BestAverage.Name, h.BestAverage.Average)
	}
	if h.MostVolatile != nil {
		fmt.Fprintf(&b, "- Most volatile: %s (SD %.2f)\n", h.MostVolatile.Name, h.MostVolatile.Stdev)
	}
	if h.MostConsistent != nil {
		fmt.Fprintf(&b, "- Most consistent: %s (score %d)\n", h.MostConsistent.Name, h.MostConsistent.ConsistencyScore)
	}
	if h.BestROI != nil {
		fmt.Fprintf(&b, "- Best ROI: %s (%.1f%%)\n", h.BestROI.Name, h.BestROI.ROI)
	}
	return b.String()
}

func trendMarkdown(name string, points []calculator.TrendPoint, currency string) string {
	if len(points) == 0 {
		return fmt.Sprintf("%s has no saved sessions.\n", name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", name)
	b.WriteString("| Date | Net | Running total |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, p := range points {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Date.Local().Format(dateLayout),
			money.FormatSigned(p.Net, currency), money.FormatSigned(p.Cumulative, currency))
	}
	return b.String()
}

// cell escapes pipes so free text cannot break a table row.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
