package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type header struct {
	OrderNo string
	Party   string
	Tags    []string
}

func TestTracked_Dirty(t *testing.T) {
	tr := NewTracked(header{OrderNo: "SO-1"})
	assert.False(t, tr.Dirty())

	tr.Set(header{OrderNo: "SO-2"})
	assert.True(t, tr.Dirty())

	tr.Set(header{OrderNo: "SO-1"})
	assert.False(t, tr.Dirty(), "structurally equal values are clean")
}

func TestTracked_SliceContent(t *testing.T) {
	tr := NewTracked(header{Tags: []string{"a", "b"}})

	tr.Set(header{Tags: []string{"b", "a"}})
	assert.True(t, tr.Dirty(), "order matters")

	tr.Set(header{Tags: []string{"a", "b"}})
	assert.False(t, tr.Dirty())
}

func TestTracked_Rebaseline(t *testing.T) {
	tr := NewTracked(header{})
	tr.Update(func(h header) header {
		h.Party = "Acme"
		return h
	})
	assert.True(t, tr.Dirty())

	tr.Rebaseline()

	assert.False(t, tr.Dirty())
	assert.Equal(t, "Acme", tr.Baseline().Party)
}

func TestTracked_Revert(t *testing.T) {
	tr := NewTracked(header{OrderNo: "SO-1"})
	tr.Set(header{OrderNo: "SO-9"})

	tr.Revert()

	assert.False(t, tr.Dirty())
	assert.Equal(t, "SO-1", tr.Current().OrderNo)
}

func TestTracked_UnhashableFallsBackToDeepEqual(t *testing.T) {
	type withFunc struct {
		Name string
		Fn   func()
	}

	tr := NewTracked(withFunc{Name: "a"})
	assert.False(t, tr.Dirty())

	tr.Set(withFunc{Name: "b"})
	assert.True(t, tr.Dirty())
}
