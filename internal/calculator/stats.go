package calculator

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/money"
)

// MinRegularSessions is the number of sessions a player needs before average,
// volatility, consistency and ROI rankings take them into account.
const MinRegularSessions = 3

// PlayerStats is one player's lifetime record.
type PlayerStats struct {
	Name       string       `json:"name"`
	TotalNet   money.Amount `json:"totalNet"`
	TotalStake money.Amount `json:"totalStake"`
	Sessions   int          `json:"sessions"`
	Wins       int          `json:"wins"`
	MaxWin     money.Amount `json:"maxWin"`
	MaxLoss    money.Amount `json:"maxLoss"`

	// Average and Stdev are in major currency units.
	Average float64 `json:"average"`
	Stdev   float64 `json:"stdev"`

	// WinRate is the rounded percentage of sessions with a positive net.
	WinRate int `json:"winRate"`

	// ROI is TotalNet as a percentage of TotalStake; 0 without any stake.
	ROI float64 `json:"roi"`

	// ConsistencyScore is 0-100 and only set for regulars.
	ConsistencyScore int `json:"consistencyScore"`

	nets []float64
}

// Regular reports whether the player has enough sessions to be ranked.
func (p PlayerStats) Regular() bool { return p.Sessions >= MinRegularSessions }

// SessionMark points at one player's result in one session.
type SessionMark struct {
	SessionID string       `json:"sessionId"`
	Date      time.Time    `json:"date"`
	Name      string       `json:"name,omitempty"`
	Amount    money.Amount `json:"amount"`
}

// TableMark points at the session with the most players.
type TableMark struct {
	SessionID string    `json:"sessionId"`
	Date      time.Time `json:"date"`
	Players   int       `json:"players"`
}

// Highlights are the global records. A nil field means no session qualifies.
type Highlights struct {
	BestWin      *SessionMark `json:"bestWin,omitempty"`
	WorstLoss    *SessionMark `json:"worstLoss,omitempty"`
	BestStake    *SessionMark `json:"bestStake,omitempty"`
	BiggestTable *TableMark   `json:"biggestTable,omitempty"`

	MostPlayed     *PlayerStats `json:"mostPlayed,omitempty"`
	BestAverage    *PlayerStats `json:"bestAverage,omitempty"`
	MostVolatile   *PlayerStats `json:"mostVolatile,omitempty"`
	MostConsistent *PlayerStats `json:"mostConsistent,omitempty"`
	BestROI        *PlayerStats `json:"bestRoi,omitempty"`
}

// SessionStake is the total stake of one session, with its intensity relative
// to the biggest session (0-1) for heatmap display.
type SessionStake struct {
	SessionID string       `json:"sessionId"`
	Date      time.Time    `json:"date"`
	Stake     money.Amount `json:"stake"`
	Intensity float64      `json:"intensity"`
}

// Report is the full statistics fold over a session history.
type Report struct {
	// Players are sorted by TotalNet, highest first.
	Players    []PlayerStats `json:"players"`
	TotalStake money.Amount  `json:"totalStake"`
	Highlights Highlights    `json:"highlights"`

	// Heatmap is in chronological order.
	Heatmap []SessionStake `json:"heatmap"`
}

// Aggregate folds sessions into per-player statistics and global highlights.
// It is a pure function of its input: the same sessions always give the same
// report, whatever order they are passed in.
func Aggregate(sessions []*models.Session) Report {
	report := Report{
		Players: []PlayerStats{},
		Heatmap: []SessionStake{},
	}

	byName := make(map[string]*PlayerStats)
	var names []string
	var h Highlights
	var maxStake money.Amount

	for _, sess := range chronological(sessions) {
		if len(sess.Players) > 0 && (h.BiggestTable == nil || len(sess.Players) > h.BiggestTable.Players) {
			h.BiggestTable = &TableMark{SessionID: sess.SessionID, Date: sess.Date, Players: len(sess.Players)}
		}

		var stake money.Amount
		for _, p := range sess.Players {
			stake += p.BuyIn

			s, ok := byName[p.Name]
			if !ok {
				s = &PlayerStats{Name: p.Name}
				byName[p.Name] = s
				names = append(names, p.Name)
			}
			if s.Sessions == 0 || p.Net > s.MaxWin {
				s.MaxWin = p.Net
			}
			if s.Sessions == 0 || p.Net < s.MaxLoss {
				s.MaxLoss = p.Net
			}
			s.TotalNet += p.Net
			s.TotalStake += p.BuyIn
			s.Sessions++
			s.nets = append(s.nets, p.Net.Float64())
			if p.Net > 0 {
				s.Wins++
			}

			if p.Net > 0 && (h.BestWin == nil || p.Net > h.BestWin.Amount) {
				h.BestWin = &SessionMark{SessionID: sess.SessionID, Date: sess.Date, Name: p.Name, Amount: p.Net}
			}
			if p.Net < 0 && (h.WorstLoss == nil || p.Net < h.WorstLoss.Amount) {
				h.WorstLoss = &SessionMark{SessionID: sess.SessionID, Date: sess.Date, Name: p.Name, Amount: p.Net}
			}
		}

		report.TotalStake += stake
		if stake > 0 && (h.BestStake == nil || stake > h.BestStake.Amount) {
			h.BestStake = &SessionMark{SessionID: sess.SessionID, Date: sess.Date, Amount: stake}
		}
		maxStake = max(maxStake, stake)
		report.Heatmap = append(report.Heatmap, SessionStake{SessionID: sess.SessionID, Date: sess.Date, Stake: stake})
	}

	scale := max(maxStake, money.FromMajor(1)).Float64()
	for i := range report.Heatmap {
		report.Heatmap[i].Intensity = report.Heatmap[i].Stake.Float64() / scale
	}

	for _, name := range names {
		s := byName[name]
		finish(s)
		report.Players = append(report.Players, *s)
	}
	slices.SortStableFunc(report.Players, func(a, b PlayerStats) int {
		if c := cmp.Compare(b.TotalNet, a.TotalNet); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	rank(&h, report.Players)
	report.Highlights = h
	return report
}

// finish derives the ratios once all of a player's sessions are folded in.
func finish(s *PlayerStats) {
	n := float64(s.Sessions)
	s.Average = s.TotalNet.Float64() / n

	var variance float64
	for _, net := range s.nets {
		variance += (net - s.Average) * (net - s.Average)
	}
	s.Stdev = math.Sqrt(variance / n)

	s.WinRate = int(math.Round(100 * float64(s.Wins) / n))
	if s.TotalStake > 0 {
		s.ROI = 100 * s.TotalNet.Float64() / s.TotalStake.Float64()
	}
	if s.Regular() {
		s.ConsistencyScore = ConsistencyScore(s.Average, s.Stdev, s.Sessions)
	}
	s.nets = nil
}

// ConsistencyScore blends low volatility relative to the average result with
// confidence in the sample size. Fewer than ten sessions scale the score down,
// never below 40% of its value.
func ConsistencyScore(average, stdev float64, sessions int) int {
	normalizedVol := stdev / (math.Abs(average) + 1)
	sampleFactor := math.Min(1, math.Max(0.4, float64(sessions)/10))
	return int(math.Round(100 * (1 / (1 + normalizedVol)) * sampleFactor))
}

// rank fills the player based highlights. players must already be sorted; the
// first player wins every tie.
func rank(h *Highlights, players []PlayerStats) {
	pick := func(ok func(p PlayerStats) bool, better func(a, b PlayerStats) bool) *PlayerStats {
		var best *PlayerStats
		for i := range players {
			if !ok(players[i]) {
				continue
			}
			if best == nil || better(players[i], *best) {
				p := players[i]
				best = &p
			}
		}
		return best
	}
	everyone := func(PlayerStats) bool { return true }
	regular := PlayerStats.Regular

	h.MostPlayed = pick(everyone, func(a, b PlayerStats) bool { return a.Sessions > b.Sessions })
	h.BestAverage = pick(regular, func(a, b PlayerStats) bool { return a.Average > b.Average })
	h.MostVolatile = pick(regular, func(a, b PlayerStats) bool { return a.Stdev > b.Stdev })
	h.MostConsistent = pick(regular, func(a, b PlayerStats) bool { return a.ConsistencyScore > b.ConsistencyScore })
	h.BestROI = pick(
		func(p PlayerStats) bool { return p.Regular() && p.TotalStake > 0 },
		func(a, b PlayerStats) bool { return a.ROI > b.ROI },
	)
}

// TrendPoint is one session in a player's running total.
type TrendPoint struct {
	SessionID  string       `json:"sessionId"`
	Date       time.Time    `json:"date"`
	Net        money.Amount `json:"net"`
	Cumulative money.Amount `json:"cumulative"`
}

// PlayerTrend returns the chronological running total of one player's nets.
func PlayerTrend(sessions []*models.Session, name string) []TrendPoint {
	points := []TrendPoint{}
	var cum money.Amount
	for _, sess := range chronological(sessions) {
		p, ok := sess.Player(name)
		if !ok {
			continue
		}
		cum += p.Net
		points = append(points, TrendPoint{SessionID: sess.SessionID, Date: sess.Date, Net: p.Net, Cumulative: cum})
	}
	return points
}

// chronological returns a date-sorted copy; the session id breaks ties.
func chronological(sessions []*models.Session) []*models.Session {
	sorted := make([]*models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s != nil {
			sorted = append(sorted, s)
		}
	}
	slices.SortStableFunc(sorted, func(a, b *models.Session) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.SessionID, b.SessionID)
	})
	return sorted
}
