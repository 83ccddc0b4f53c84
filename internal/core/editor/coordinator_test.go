package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSection struct {
	key    SectionKey
	dirty  bool
	resets []uint64
}

func (f *fakeSection) Key() SectionKey { return f.key }
func (f *fakeSection) Dirty() bool     { return f.dirty }
func (f *fakeSection) Reset(token uint64) {
	f.resets = append(f.resets, token)
	f.dirty = false
}

func TestCoordinator_HeaderOnlyEdit(t *testing.T) {
	ctx := context.Background()
	c := NewCoordinator(false)

	hdr := NewValueSection(SectionHeader, header{OrderNo: "SO-1"})
	lines := NewValueSection(SectionDetails, []string{"KP-001"})
	c.Register(hdr)
	c.Register(lines)
	assert.False(t, c.HasChanges())

	hdr.Set(header{OrderNo: "SO-1", Party: "Acme"})
	c.ReportDirty(hdr.Key(), hdr.Dirty())
	assert.True(t, c.HasChanges())
	assert.True(t, c.IsDirty(SectionHeader))
	assert.False(t, c.IsDirty(SectionDetails))

	res, err := c.Save(ctx)
	require.NoError(t, err)

	assert.True(t, res.Saved)
	assert.Equal(t, uint64(1), res.Token)
	assert.False(t, c.HasChanges())
	assert.Equal(t, header{OrderNo: "SO-1", Party: "Acme"}, hdr.Baseline())
	assert.False(t, hdr.Dirty())
	assert.Equal(t, uint64(1), lines.Token())
}

func TestCoordinator_SaveCleanIsNoop(t *testing.T) {
	c := NewCoordinator(false)
	sec := &fakeSection{key: SectionTerms}
	c.Register(sec)

	commits := 0
	c.SetCommit(func(context.Context) error {
		commits++
		return nil
	})

	res, err := c.Save(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Saved)
	assert.Zero(t, commits)
	assert.Empty(t, sec.resets)
	assert.Zero(t, c.ResetToken())
}

func TestCoordinator_ReadOnlyNeverSaves(t *testing.T) {
	c := NewCoordinator(true)
	sec := &fakeSection{key: SectionHeader, dirty: true}
	c.Register(sec)

	commits := 0
	c.SetCommit(func(context.Context) error {
		commits++
		return nil
	})

	res, err := c.Save(context.Background())

	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.Zero(t, res.Token)
	assert.Zero(t, commits)
	assert.Empty(t, sec.resets)
}

func TestCoordinator_PreSaveFailureAborts(t *testing.T) {
	c := NewCoordinator(false)
	sec := &fakeSection{key: SectionHeader, dirty: true}
	c.Register(sec)

	commits := 0
	c.SetCommit(func(context.Context) error {
		commits++
		return nil
	})
	c.OnPreSave(func() error { return errors.New("order no is required") })

	_, err := c.Save(context.Background())

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "order no is required")
	assert.Zero(t, commits)
	assert.Empty(t, sec.resets)
	assert.True(t, c.HasChanges())
}

func TestCoordinator_CommitFailureAborts(t *testing.T) {
	c := NewCoordinator(false)
	sec := &fakeSection{key: SectionDetails, dirty: true}
	c.Register(sec)

	boom := errors.New("disk full")
	c.SetCommit(func(context.Context) error { return boom })

	_, err := c.Save(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Empty(t, sec.resets)
	assert.True(t, c.HasChanges())
	assert.Zero(t, c.ResetToken())
}

func TestCoordinator_CommitOncePerSave(t *testing.T) {
	c := NewCoordinator(false)
	a := &fakeSection{key: SectionHeader, dirty: true}
	b := &fakeSection{key: SectionExpenses, dirty: true}
	c.Register(a)
	c.Register(b)

	commits := 0
	c.SetCommit(func(context.Context) error {
		commits++
		return nil
	})

	_, err := c.Save(context.Background())
	require.NoError(t, err)
	_, err = c.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, commits)
	assert.Equal(t, []uint64{1}, a.resets)
	assert.Equal(t, []uint64{1}, b.resets)
}

func TestCoordinator_Subscribe(t *testing.T) {
	c := NewCoordinator(false)
	sec := &fakeSection{key: SectionHeader}
	c.Register(sec)

	var states []State
	c.Subscribe(func(s State) { states = append(states, s) })

	c.ReportDirty(SectionHeader, true)
	c.ReportDirty(SectionTerms, true)
	c.ReportDirty(SectionTerms, false)
	sec.dirty = true
	_, err := c.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []State{StateDirty, StateClean}, states)
}
