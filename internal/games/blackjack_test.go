package games_test

import (
	"testing"

	"casino-engine-backend/internal/games"
	"casino-engine-backend/internal/models"
)

// Card indexes: rank = card % 13, rank 0 is the ace, ranks 10-12 the faces.
const (
	ace  = 0
	two  = 1
	five = 4
	six  = 5
	nine = 8
	ten  = 9
	king = 12
)

func TestHandValue(t *testing.T) {
	cases := []struct {
		cards []int
		total int
		soft  bool
	}{
		{[]int{ten, king}, 20, false},
		{[]int{ace, king}, 21, true},
		{[]int{ace, ace}, 12, true},
		{[]int{ace, five}, 16, true},
		{[]int{ace, five, ten}, 16, false},
		{[]int{ten, king, five}, 25, false},
		{[]int{two, six}, 8, false},
	}

	for _, tc := range cases {
		total, soft := games.HandValue(tc.cards)
		if total != tc.total || soft != tc.soft {
			t.Errorf("HandValue(%v) = (%d, %v), want (%d, %v)", tc.cards, total, soft, tc.total, tc.soft)
		}
	}
}

func TestIsNatural(t *testing.T) {
	if !games.IsNatural([]int{ace, king}) {
		t.Error("ace + king should be a natural")
	}
	if games.IsNatural([]int{ace, five, six}) {
		t.Error("three-card 21 is not a natural")
	}
	if games.IsNatural([]int{ten, king}) {
		t.Error("20 is not a natural")
	}
}

func TestDealerPlay(t *testing.T) {
	deck := []int{five, ten}
	i := 0
	next := func() int { c := deck[i]; i++; return c }

	// 2 + 6 = 8, draws 5 (13), draws 10 (23): busts past 17
	hand := games.DealerPlay([]int{two, six}, next)
	if total, _ := games.HandValue(hand); total != 23 {
		t.Errorf("expected dealer total 23, got %d (%v)", total, hand)
	}

	// Stands on all 17s, soft included.
	hand = games.DealerPlay([]int{ace, six}, func() int {
		t.Fatal("dealer must stand on soft 17")
		return 0
	})
	if total, _ := games.HandValue(hand); total != 17 {
		t.Errorf("expected 17, got %d", total)
	}
}

func TestResolveHands(t *testing.T) {
	cases := []struct {
		name    string
		player  []int
		dealer  []int
		outcome string
		mult    float64
	}{
		{"player bust", []int{ten, king, five}, []int{ten, six}, games.BlackjackOutcomeLose, 0},
		{"natural", []int{ace, king}, []int{ten, nine}, games.BlackjackOutcomeBlackjack, 2.4},
		{"both natural", []int{ace, king}, []int{ace, ten}, games.BlackjackOutcomePush, 1},
		{"dealer natural", []int{ten, nine}, []int{ace, king}, games.BlackjackOutcomeLose, 0},
		{"dealer bust", []int{ten, nine}, []int{ten, six, king}, games.BlackjackOutcomeWin, 1.92},
		{"higher total", []int{ten, king}, []int{ten, nine}, games.BlackjackOutcomeWin, 1.92},
		{"push", []int{ten, nine}, []int{ten, nine}, games.BlackjackOutcomePush, 1},
		{"lower total", []int{ten, six}, []int{ten, nine}, games.BlackjackOutcomeLose, 0},
	}

	for _, tc := range cases {
		outcome, mult := games.ResolveHands(tc.player, tc.dealer, testRTP)
		if outcome != tc.outcome || mult != tc.mult {
			t.Errorf("%s: got (%s, %v), want (%s, %v)", tc.name, outcome, mult, tc.outcome, tc.mult)
		}
	}
}

func TestNewBlackjackState(t *testing.T) {
	floats := []float64{0.0, 0.25, 0.5, 0.75}
	state := games.NewBlackjackState(floats)

	if state.Phase != games.BlackjackPhasePlayer {
		t.Errorf("expected player turn, got %q", state.Phase)
	}
	if len(state.PlayerCards) != 2 || len(state.DealerCards) != 2 {
		t.Fatalf("expected two cards each, got %+v", state)
	}
	if state.NextCursor != 4 {
		t.Errorf("expected next cursor 4, got %d", state.NextCursor)
	}
	if state.PlayerCards[0] != games.DrawCard(0.0) || state.DealerCards[0] != games.DrawCard(0.25) {
		t.Error("deal order must be player, dealer, player, dealer")
	}
}

func TestDrawCardRange(t *testing.T) {
	for _, f := range []float64{0, 0.1, 0.5, 0.99, 0.999999} {
		c := games.DrawCard(f)
		if c < 0 || c > 51 {
			t.Errorf("DrawCard(%v) = %d outside shoe", f, c)
		}
	}

	params := models.GameParams{}
	if n := games.FloatsNeeded(models.GameTypeBlackjack, params); n != 4 {
		t.Errorf("blackjack opening deal should need 4 floats, got %d", n)
	}
}
