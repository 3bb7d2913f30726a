package orb

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{ID: "gateway", Org: "Gateway Community College", Title: "The First Spark", Timeframe: "AAS", Status: "Graduated", Description: "Fundamentals.", Runes: []string{"Java", "PHP"}},
		{ID: "wgu", Org: "Western Governors University", Title: "The Deepening Study", Timeframe: "In progress", Status: "Ongoing"},
		{ID: "codeyou", Org: "Code:You", Title: "Trial by Fire", Timeframe: "Course", Status: "Graduated"},
	}
}

func TestBeginThenClampedMoves(t *testing.T) {
	w := New(testEntries())

	w.BeginInteraction(Point{0, 0})
	assert.Equal(t, 18.0, w.State().Charge)

	// each move is 100px, far past the clamp
	w.ContinueInteraction(Point{100, 0})
	w.ContinueInteraction(Point{200, 0})
	w.ContinueInteraction(Point{300, 0})

	s := w.State()
	assert.Equal(t, 48.0, s.Charge)
	assert.False(t, s.Revealed)

	w.applyCharge(22)
	s = w.State()
	assert.Equal(t, 70.0, s.Charge)
	assert.True(t, s.Revealed)
}

func TestSmallMovesChargeAtLeastOne(t *testing.T) {
	w := New(testEntries())
	w.BeginInteraction(Point{10, 10})
	w.ContinueInteraction(Point{10, 10})
	assert.Equal(t, 19.0, w.State().Charge)

	w.ContinueInteraction(Point{13, 14}) // dist 5 -> 2.5
	assert.Equal(t, 21.5, w.State().Charge)
}

func TestContinueWithoutDragIsNoop(t *testing.T) {
	w := New(testEntries())
	w.ContinueInteraction(Point{50, 50})
	assert.Equal(t, State{}, w.State())

	w.BeginInteraction(Point{0, 0})
	w.EndInteraction()
	w.ContinueInteraction(Point{50, 50})
	s := w.State()
	assert.Equal(t, 18.0, s.Charge)
	assert.False(t, s.Dragging)
	assert.Nil(t, s.Last)
}

func TestEndKeepsChargeAndReveal(t *testing.T) {
	w := New(testEntries())
	w.BeginInteraction(Point{0, 0})
	for i := 1; i <= 10; i++ {
		w.ContinueInteraction(Point{float64(i * 40), 0})
	}
	require.True(t, w.State().Revealed)
	before := w.State().Charge

	w.EndInteraction()
	s := w.State()
	assert.True(t, s.Revealed)
	assert.Equal(t, before, s.Charge)
}

func TestChargeNeverExceedsMaxOrDecreases(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := New(testEntries())
	prev := 0.0
	for i := 0; i < 500; i++ {
		w.applyCharge(rng.Float64()*40 - 10)
		c := w.State().Charge
		require.LessOrEqual(t, c, MaxCharge)
		require.GreaterOrEqual(t, c, prev)
		prev = c
	}
	w.applyCharge(math.NaN())
	assert.Equal(t, prev, w.State().Charge)
}

func TestRevealIsSticky(t *testing.T) {
	w := New(testEntries())
	w.applyCharge(75)
	require.True(t, w.State().Revealed)
	w.applyCharge(0)
	w.EndInteraction()
	assert.True(t, w.State().Revealed)

	w.SelectNext()
	assert.False(t, w.State().Revealed)
}

func TestSelectNextCyclesAndResets(t *testing.T) {
	entries := testEntries()
	w := New(entries)
	w.SelectNext()
	start := w.State().Index

	for i := 0; i < len(entries); i++ {
		w.InstantReveal()
		w.BeginInteraction(Point{1, 1})
		w.SelectNext()
		s := w.State()
		assert.Equal(t, 0.0, s.Charge)
		assert.False(t, s.Revealed)
		assert.False(t, s.Dragging)
		assert.Nil(t, s.Last)
	}
	assert.Equal(t, start, w.State().Index)
}

func TestSelectPreviousWraps(t *testing.T) {
	w := New(testEntries())
	w.SelectPrevious()
	assert.Equal(t, 2, w.State().Index)
	w.SelectPrevious()
	assert.Equal(t, 1, w.State().Index)
}

func TestInstantReveal(t *testing.T) {
	w := New(testEntries())
	w.BeginInteraction(Point{0, 0})
	w.InstantReveal()
	s := w.State()
	assert.Equal(t, 100.0, s.Charge)
	assert.True(t, s.Revealed)

	w.InstantReveal()
	assert.Equal(t, 100.0, w.State().Charge)
}

func TestSingleEntryNavigationResets(t *testing.T) {
	w := New(testEntries()[:1])
	w.InstantReveal()
	w.SelectNext()
	s := w.State()
	assert.Equal(t, 0, s.Index)
	assert.False(t, s.Revealed)
}

func TestEmptyWidget(t *testing.T) {
	w := New(nil)
	w.SelectNext()
	w.SelectPrevious()
	w.BeginInteraction(Point{1, 2})
	w.ContinueInteraction(Point{30, 40})
	w.InstantReveal()
	w.EndInteraction()

	assert.Equal(t, State{}, w.State())
	v := w.View()
	assert.True(t, v.Empty)
	assert.False(t, v.Details.Visible)
	assert.Empty(t, v.Teaser.Title)
	assert.Empty(t, v.Position())
}

func TestEntriesAreCopied(t *testing.T) {
	entries := testEntries()
	w := New(entries)
	entries[0].Title = "changed"
	cur, ok := w.Current()
	require.True(t, ok)
	assert.Equal(t, "The First Spark", cur.Title)
}

func TestEntryRunesAreCopied(t *testing.T) {
	entries := testEntries()
	w := New(entries)
	entries[0].Runes[0] = "COBOL"
	entries[0].Runes = append(entries[0].Runes, "Fortran")

	w.InstantReveal()
	assert.Equal(t, []string{"Java", "PHP"}, w.View().Details.Runes)
}

func TestViewHiddenUntilRevealed(t *testing.T) {
	w := New(testEntries())
	w.BeginInteraction(Point{0, 0})

	got := w.View()
	want := View{
		Phase:       PhaseCharging,
		Charge:      18,
		Progress:    0.18,
		RingDegrees: 64.8,
		Index:       0,
		Total:       3,
		Hint:        hintIdle,
		Teaser:      Teaser{Title: "The First Spark", Org: "Gateway Community College", Timeframe: "AAS"},
		Details:     Details{Locked: lockedPrompt},
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })); diff != "" {
		t.Errorf("View() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "crystal-orb is-scrying", got.Classes())
	assert.Equal(t, "1 / 3", got.Position())

	w.EndInteraction()
	w.InstantReveal()
	got = w.View()
	assert.Equal(t, PhaseIdle, got.Phase)
	assert.True(t, got.Details.Visible)
	assert.Equal(t, "Fundamentals.", got.Details.Description)
	assert.Equal(t, []string{"Java", "PHP"}, got.Details.Runes)
	assert.Empty(t, got.Details.Locked)
	assert.Equal(t, hintRevealed, got.Hint)
	assert.Equal(t, 360.0, got.RingDegrees)
	assert.Equal(t, "crystal-orb is-revealed", got.Classes())
}

func TestHandleKey(t *testing.T) {
	w := New(testEntries())

	res := w.HandleKey(KeySpace)
	assert.Equal(t, KeyResult{Handled: true, PreventDefault: true}, res)
	assert.True(t, w.State().Revealed)

	res = w.HandleKey(KeyArrowRight)
	assert.Equal(t, KeyResult{Handled: true}, res)
	assert.Equal(t, 1, w.State().Index)
	assert.False(t, w.State().Revealed)

	w.HandleKey(KeyArrowLeft)
	w.HandleKey(KeyArrowLeft)
	assert.Equal(t, 2, w.State().Index)

	res = w.HandleKey(KeyEnter)
	assert.True(t, res.PreventDefault)
	assert.Equal(t, 100.0, w.State().Charge)

	assert.Equal(t, KeyResult{}, w.HandleKey("Escape"))
}
