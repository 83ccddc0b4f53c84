package picker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []lookup.Record {
	return []lookup.Record{
		{Code: "KP-001", Description: "Kraft Paper", ColumnHeaders: []string{"GSM"}, Additional: []string{"80"}},
		{Code: "DP-001", Description: "Duplex Board", ColumnHeaders: []string{"GSM", "Grain"}, Additional: []string{"250", "Long"}},
		{Code: "NP-001", Description: "Newsprint", ColumnHeaders: []string{"Finish"}, Additional: []string{"Matte"}},
	}
}

func manyItems(n int) []lookup.Record {
	items := make([]lookup.Record, n)
	for i := range items {
		items[i] = lookup.Record{Code: fmt.Sprintf("C%05d", i), Description: fmt.Sprintf("Item %d", i)}
	}
	return items
}

func TestPicker_SearchIsCaseInsensitive(t *testing.T) {
	p := New(sampleItems(), nil, DefaultOptions())

	p.SetSearch("kraft")

	got := p.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "KP-001", got[0].Code)
}

func TestPicker_SearchKeepsSurroundingSpaces(t *testing.T) {
	p := New(sampleItems(), nil, DefaultOptions())

	// the leading space is matched against "Kraft Paper"
	p.SetSearch(" paper")
	got := p.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "KP-001", got[0].Code)

	// no value has a space after "board"
	p.SetSearch("board ")
	assert.Empty(t, p.Filtered())
	assert.True(t, p.Empty())

	p.SetSearch("   ")
	assert.Len(t, p.Filtered(), 3)
}

func TestPicker_SearchMatchesAdditionalValues(t *testing.T) {
	p := New(sampleItems(), nil, DefaultOptions())

	p.SetSearch("MATTE")

	got := p.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "NP-001", got[0].Code)
}

func TestPicker_SearchDoesNotMutateItems(t *testing.T) {
	items := sampleItems()
	p := New(items, nil, DefaultOptions())

	p.SetSearch("duplex")
	p.SetSearch("")

	assert.Len(t, p.Filtered(), 3)
	assert.Equal(t, sampleItems(), items)
}

func TestPicker_EmptyState(t *testing.T) {
	p := New(sampleItems(), nil, DefaultOptions())

	p.SetSearch("zzz")

	assert.True(t, p.Empty())
	assert.Equal(t, Window{}, p.Window())
}

func TestPicker_NoItems(t *testing.T) {
	p := New(nil, nil, DefaultOptions())

	assert.Equal(t, LabelPlaceholder, p.TriggerLabel())
	assert.False(t, p.Disabled())

	p.Open()
	assert.True(t, p.IsOpen())
	assert.True(t, p.Empty())

	_, ok := p.SelectCursor()
	assert.False(t, ok)
}

func TestPicker_HeadersUnionFirstSeen(t *testing.T) {
	p := New(sampleItems(), nil, DefaultOptions())

	assert.Equal(t, []string{"GSM", "Grain", "Finish"}, p.Headers())
	assert.Equal(t, "", p.ValueFor(sampleItems()[0], "Grain"))
	assert.Equal(t, "Long", p.ValueFor(sampleItems()[1], "Grain"))
}

func TestPicker_SelectFiresOnceAndCloses(t *testing.T) {
	p := New(sampleItems(), nil, DefaultOptions())

	var calls []lookup.Record
	p.OnSelect(func(r lookup.Record) { calls = append(calls, r) })

	_, ok := p.Select(0)
	assert.False(t, ok, "closed picker ignores selection")

	p.Open()
	rec, ok := p.Select(1)
	require.True(t, ok)

	assert.Equal(t, "DP-001", rec.Code)
	assert.False(t, p.IsOpen())
	require.Len(t, calls, 1)
	assert.Equal(t, rec, calls[0])
	assert.Equal(t, "Duplex Board", p.TriggerLabel())
}

func TestPicker_IsSelectedByCodeAndDescription(t *testing.T) {
	sel := &lookup.Record{Code: "KP-001", Description: "Kraft Paper"}
	p := New(sampleItems(), sel, DefaultOptions())

	assert.True(t, p.IsSelected(sampleItems()[0]))
	assert.False(t, p.IsSelected(sampleItems()[1]))
}

func TestPicker_TriggerLabel(t *testing.T) {
	p := New(sampleItems(), &lookup.Record{Code: "X"}, DefaultOptions())
	assert.Equal(t, "X", p.TriggerLabel())

	failed := NewFailed(errors.New("boom"), DefaultOptions())
	assert.Equal(t, LabelError, failed.TriggerLabel())
	failed.Open()
	assert.False(t, failed.IsOpen())

	loading := NewLoading(DefaultOptions())
	assert.Equal(t, LabelLoading, loading.TriggerLabel())
	assert.True(t, loading.Disabled())
}

func TestPicker_WindowBoundedForLargeLists(t *testing.T) {
	opts := DefaultOptions()
	p := New(manyItems(10_000), nil, opts)
	p.Open()

	limit := opts.VisibleRows + 2*opts.Overscan
	for _, offset := range []int{0, 1, 4, 100, 5_000, 9_991, 9_992, 20_000} {
		p.ScrollTo(offset)
		w := p.Window()

		assert.LessOrEqual(t, w.Len(), limit, "offset %d", offset)
		assert.Equal(t, 10_000, w.TopPad+w.Len()+w.BottomPad, "offset %d", offset)
	}
}

func TestPicker_WindowMath(t *testing.T) {
	p := New(manyItems(100), nil, DefaultOptions())
	p.ScrollTo(20)

	w := p.Window()

	assert.Equal(t, 16, w.Start)
	assert.Equal(t, 32, w.End)
	assert.Equal(t, 16, w.TopPad)
	assert.Equal(t, 68, w.BottomPad)
}

func TestPicker_ScrollClamps(t *testing.T) {
	p := New(manyItems(20), nil, DefaultOptions())

	p.ScrollTo(100)
	assert.Equal(t, 12, p.ScrollTop())

	p.ScrollBy(-50)
	assert.Equal(t, 0, p.ScrollTop())
}

func TestPicker_ResizeClampsOffset(t *testing.T) {
	p := New(manyItems(20), nil, DefaultOptions())
	p.ScrollTo(12)

	p.Resize(15)

	assert.Equal(t, 5, p.ScrollTop())

	p.Resize(0)
	assert.Equal(t, 8, p.Viewport())
}

func TestPicker_ScrollResetsOnSearchAndReopen(t *testing.T) {
	p := New(manyItems(200), nil, DefaultOptions())
	p.Open()

	p.ScrollTo(50)
	p.SetSearch("item 1")
	assert.Equal(t, 0, p.ScrollTop())

	p.ScrollTo(10)
	p.Close()
	p.Open()
	assert.Equal(t, 0, p.ScrollTop())
}

func TestPicker_UnchangedSearchKeepsScroll(t *testing.T) {
	p := New(manyItems(200), nil, DefaultOptions())
	p.SetSearch("item")
	p.ScrollTo(30)

	p.SetSearch("item")

	assert.Equal(t, 30, p.ScrollTop())
}

func TestPicker_MoveCursorKeepsRowVisible(t *testing.T) {
	p := New(manyItems(50), nil, DefaultOptions())
	p.Open()

	p.MoveCursor(10)
	assert.Equal(t, 10, p.Cursor())
	assert.Equal(t, 3, p.ScrollTop())

	p.MoveCursor(-8)
	assert.Equal(t, 2, p.Cursor())
	assert.Equal(t, 2, p.ScrollTop())

	p.MoveCursor(1_000)
	assert.Equal(t, 49, p.Cursor())

	rec, ok := p.SelectCursor()
	require.True(t, ok)
	assert.Equal(t, "C00049", rec.Code)
}
