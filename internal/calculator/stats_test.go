package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/money"
)

func day(d int) time.Time { return time.Date(2025, time.January, d, 20, 0, 0, 0, time.UTC) }

// seat builds a session player from whole-unit buy-in and cash-out.
func seat(name string, buyIn, cashOut int64) models.SessionPlayer {
	return models.SessionPlayer{
		Name:    name,
		BuyIn:   money.FromMajor(buyIn),
		CashOut: money.FromMajor(cashOut),
		Net:     money.FromMajor(cashOut - buyIn),
	}
}

func session(id string, date time.Time, players ...models.SessionPlayer) *models.Session {
	return &models.Session{SessionID: id, Date: date, Description: id, Players: players}
}

func findPlayer(t *testing.T, r Report, name string) PlayerStats {
	t.Helper()
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("player %s not in report", name)
	return PlayerStats{}
}

func TestAggregate_TwoSessions(t *testing.T) {
	sessions := []*models.Session{
		session("s2", day(8), seat("Sam", 20, 10), seat("Alex", 20, 30)),
		session("s1", day(1), seat("Sam", 20, 40), seat("Alex", 20, 0)),
	}

	r := Aggregate(sessions)

	sam := findPlayer(t, r, "Sam")
	if sam.TotalNet != money.FromMajor(10) {
		t.Errorf("Sam totalNet = %s, want 10.00", sam.TotalNet)
	}
	if math.Abs(sam.Average-5) > 1e-9 {
		t.Errorf("Sam average = %v, want 5", sam.Average)
	}
	if sam.WinRate != 50 {
		t.Errorf("Sam winRate = %d, want 50", sam.WinRate)
	}
	if math.Abs(sam.Stdev-15) > 1e-9 {
		t.Errorf("Sam stdev = %v, want 15", sam.Stdev)
	}
	if math.Abs(sam.ROI-25) > 1e-9 {
		t.Errorf("Sam roi = %v, want 25", sam.ROI)
	}
	if sam.MaxWin != money.FromMajor(20) || sam.MaxLoss != money.FromMajor(-10) {
		t.Errorf("Sam maxWin/maxLoss = %s/%s, want 20.00/-10.00", sam.MaxWin, sam.MaxLoss)
	}
	if sam.ConsistencyScore != 0 {
		t.Errorf("Sam consistency = %d, want 0 below %d sessions", sam.ConsistencyScore, MinRegularSessions)
	}

	if r.Players[0].Name != "Sam" || r.Players[1].Name != "Alex" {
		t.Errorf("players not sorted by total: %s, %s", r.Players[0].Name, r.Players[1].Name)
	}
	if r.TotalStake != money.FromMajor(80) {
		t.Errorf("totalStake = %s, want 80.00", r.TotalStake)
	}

	h := r.Highlights
	if h.BestWin == nil || h.BestWin.Name != "Sam" || h.BestWin.SessionID != "s1" || h.BestWin.Amount != money.FromMajor(20) {
		t.Errorf("bestWin = %+v", h.BestWin)
	}
	if h.WorstLoss == nil || h.WorstLoss.Name != "Alex" || h.WorstLoss.Amount != money.FromMajor(-20) {
		t.Errorf("worstLoss = %+v", h.WorstLoss)
	}
	if h.BestStake == nil || h.BestStake.SessionID != "s1" || h.BestStake.Amount != money.FromMajor(40) {
		t.Errorf("bestStake = %+v", h.BestStake)
	}
	if h.BiggestTable == nil || h.BiggestTable.Players != 2 || h.BiggestTable.SessionID != "s1" {
		t.Errorf("biggestTable = %+v", h.BiggestTable)
	}
	if h.MostPlayed == nil || h.MostPlayed.Name != "Sam" {
		t.Errorf("mostPlayed = %+v", h.MostPlayed)
	}
	if h.BestAverage != nil || h.MostVolatile != nil || h.MostConsistent != nil || h.BestROI != nil {
		t.Error("no player is a regular yet; regular highlights must be nil")
	}

	if len(r.Heatmap) != 2 || r.Heatmap[0].SessionID != "s1" || r.Heatmap[1].SessionID != "s2" {
		t.Fatalf("heatmap not chronological: %+v", r.Heatmap)
	}
	for _, s := range r.Heatmap {
		if s.Intensity != 1 {
			t.Errorf("heatmap %s intensity = %v, want 1", s.SessionID, s.Intensity)
		}
	}
}

func TestAggregate_Regulars(t *testing.T) {
	sessions := []*models.Session{
		session("a", day(1), seat("Kim", 10, 20), seat("Lee", 20, 50), seat("Max", 10, 0)),
		session("b", day(2), seat("Kim", 10, 20), seat("Lee", 20, 10)),
		session("c", day(3), seat("Kim", 10, 20), seat("Lee", 20, 30)),
	}

	r := Aggregate(sessions)
	kim := findPlayer(t, r, "Kim")
	lee := findPlayer(t, r, "Lee")

	if kim.ConsistencyScore != 40 {
		t.Errorf("Kim consistency = %d, want 40", kim.ConsistencyScore)
	}
	if lee.ConsistencyScore != 16 {
		t.Errorf("Lee consistency = %d, want 16", lee.ConsistencyScore)
	}

	h := r.Highlights
	if h.BestAverage == nil || h.BestAverage.Name != "Kim" {
		t.Errorf("bestAverage = %+v, want Kim on the tie", h.BestAverage)
	}
	if h.MostVolatile == nil || h.MostVolatile.Name != "Lee" {
		t.Errorf("mostVolatile = %+v", h.MostVolatile)
	}
	if h.MostConsistent == nil || h.MostConsistent.Name != "Kim" {
		t.Errorf("mostConsistent = %+v", h.MostConsistent)
	}
	if h.BestROI == nil || h.BestROI.Name != "Kim" || math.Abs(h.BestROI.ROI-100) > 1e-9 {
		t.Errorf("bestROI = %+v", h.BestROI)
	}
	if h.BiggestTable == nil || h.BiggestTable.SessionID != "a" || h.BiggestTable.Players != 3 {
		t.Errorf("biggestTable = %+v", h.BiggestTable)
	}
	if h.MostPlayed == nil || h.MostPlayed.Sessions != 3 {
		t.Errorf("mostPlayed = %+v", h.MostPlayed)
	}

	// Session a has the largest stake (40); b and c have 30.
	if r.Heatmap[0].Intensity != 1 || math.Abs(r.Heatmap[1].Intensity-0.75) > 1e-9 {
		t.Errorf("heatmap intensities = %v, %v", r.Heatmap[0].Intensity, r.Heatmap[1].Intensity)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	a := session("a", day(1), seat("Kim", 10, 25), seat("Lee", 10, 0))
	b := session("b", day(2), seat("Kim", 10, 0), seat("Lee", 10, 25))
	c := session("c", day(3), seat("Kim", 10, 5), seat("Max", 10, 15))

	first := Aggregate([]*models.Session{a, b, c})
	second := Aggregate([]*models.Session{c, a, b})

	if len(first.Players) != len(second.Players) {
		t.Fatalf("player counts differ: %d vs %d", len(first.Players), len(second.Players))
	}
	for i := range first.Players {
		p, q := first.Players[i], second.Players[i]
		if p.Name != q.Name || p.TotalNet != q.TotalNet || p.Stdev != q.Stdev || p.ConsistencyScore != q.ConsistencyScore {
			t.Errorf("player %d differs: %+v vs %+v", i, p, q)
		}
	}
	if *first.Highlights.BestWin != *second.Highlights.BestWin {
		t.Errorf("bestWin differs: %+v vs %+v", first.Highlights.BestWin, second.Highlights.BestWin)
	}
}

func TestAggregate_Empty(t *testing.T) {
	r := Aggregate(nil)
	if len(r.Players) != 0 || len(r.Heatmap) != 0 || r.TotalStake != 0 {
		t.Errorf("expected an empty report, got %+v", r)
	}
	if r.Highlights.BestWin != nil || r.Highlights.MostPlayed != nil || r.Highlights.BiggestTable != nil {
		t.Errorf("expected no highlights, got %+v", r.Highlights)
	}
}

func TestConsistencyScore(t *testing.T) {
	tests := []struct {
		average, stdev float64
		sessions       int
		want           int
	}{
		{10, 0, 3, 40},
		{5, 0, 10, 100},
		{5, 0, 25, 100},
		{0, 1, 20, 50},
		{-4, 5, 5, 25},
	}
	for _, tt := range tests {
		if got := ConsistencyScore(tt.average, tt.stdev, tt.sessions); got != tt.want {
			t.Errorf("ConsistencyScore(%v, %v, %d) = %d, want %d", tt.average, tt.stdev, tt.sessions, got, tt.want)
		}
	}
}

func TestPlayerTrend(t *testing.T) {
	sessions := []*models.Session{
		session("s3", day(15), seat("Alex", 10, 15)),
		session("s1", day(1), seat("Sam", 20, 40)),
		session("s2", day(8), seat("Sam", 20, 10)),
	}

	got := PlayerTrend(sessions, "Sam")
	want := []money.Amount{money.FromMajor(20), money.FromMajor(10)}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Cumulative != want[i] {
			t.Errorf("point %d cumulative = %s, want %s", i, got[i].Cumulative, want[i])
		}
	}
	if got[0].SessionID != "s1" {
		t.Errorf("first point = %s, want s1", got[0].SessionID)
	}

	if none := PlayerTrend(sessions, "sam"); len(none) != 0 {
		t.Errorf("names are case sensitive, got %d points for sam", len(none))
	}
}
