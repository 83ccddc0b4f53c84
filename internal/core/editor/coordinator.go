// Package editor sequences dirty tracking and saving across the independent
// sections of an order editor. It owns no business data: sections report
// whether they changed, and a successful save hands every section a new
// reset token so it can adopt its current state as the saved baseline.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/rollbook/internal/core/logging"
	"github.com/rs/zerolog"
)

// ErrValidation wraps pre-save hook failures.
var ErrValidation = errors.New("validation failed")

// State is the aggregate dirty state of the editor.
type State string

const (
	StateClean State = "clean"
	StateDirty State = "dirty"
)

// SaveResult describes a call to Save.
type SaveResult struct {
	// Saved is false when there was nothing to save or the editor is
	// read-only.
	Saved bool
	// Token is the reset token handed to every section.
	Token uint64
}

// Coordinator aggregates section dirtiness and gates saving. It is not safe
// for concurrent use; the UI event loop drives it.
type Coordinator struct {
	sections []Section
	dirty    map[SectionKey]bool
	readOnly bool
	token    uint64

	preSave     []func() error
	commit      func(ctx context.Context) error
	subscribers []func(State)

	log zerolog.Logger
}

// NewCoordinator returns a coordinator with no sections.
func NewCoordinator(readOnly bool) *Coordinator {
	return &Coordinator{
		dirty:    make(map[SectionKey]bool),
		readOnly: readOnly,
		log:      logging.Component("editor"),
	}
}

// Register adds a section and records its current dirtiness.
func (c *Coordinator) Register(s Section) {
	c.sections = append(c.sections, s)
	c.ReportDirty(s.Key(), s.Dirty())
}

// Sections returns the registered sections in registration order.
func (c *Coordinator) Sections() []Section { return c.sections }

// ReadOnly reports whether saving is disabled.
func (c *Coordinator) ReadOnly() bool { return c.readOnly }

// ResetToken returns the token issued by the last successful save.
func (c *Coordinator) ResetToken() uint64 { return c.token }

// OnPreSave registers a hook run before committing, such as header
// validation. A failing hook aborts the save.
func (c *Coordinator) OnPreSave(fn func() error) {
	c.preSave = append(c.preSave, fn)
}

// SetCommit sets the persistence hook run once per successful save.
func (c *Coordinator) SetCommit(fn func(ctx context.Context) error) {
	c.commit = fn
}

// Subscribe registers fn to be called whenever the aggregate state changes.
func (c *Coordinator) Subscribe(fn func(State)) {
	c.subscribers = append(c.subscribers, fn)
}

// ReportDirty records a section's dirtiness.
func (c *Coordinator) ReportDirty(key SectionKey, dirty bool) {
	before := c.State()
	if dirty {
		c.dirty[key] = true
	} else {
		delete(c.dirty, key)
	}
	c.publish(before)
}

// Sync polls every registered section and records its dirtiness.
func (c *Coordinator) Sync() {
	for _, s := range c.sections {
		c.ReportDirty(s.Key(), s.Dirty())
	}
}

// IsDirty reports whether the section with key has unsaved changes.
func (c *Coordinator) IsDirty(key SectionKey) bool {
	return c.dirty[key]
}

// HasChanges reports whether any section is dirty.
func (c *Coordinator) HasChanges() bool {
	return len(c.dirty) > 0
}

// State returns the aggregate state.
func (c *Coordinator) State() State {
	if c.HasChanges() {
		return StateDirty
	}
	return StateClean
}

// Save runs the pre-save hooks, then the commit hook, then resets every
// section with a new token. Nothing is reset when a hook fails. Saving a
// clean or read-only editor does nothing.
func (c *Coordinator) Save(ctx context.Context) (SaveResult, error) {
	if c.readOnly {
		c.log.Debug().Msg("save skipped, editor is read-only")
		return SaveResult{}, nil
	}

	c.Sync()
	if !c.HasChanges() {
		return SaveResult{}, nil
	}

	for _, hook := range c.preSave {
		if err := hook(); err != nil {
			c.log.Debug().Err(err).Msg("save blocked by pre-save hook")
			return SaveResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	if c.commit != nil {
		if err := c.commit(ctx); err != nil {
			c.log.Error().Err(err).Msg("commit failed")
			return SaveResult{}, fmt.Errorf("commit: %w", err)
		}
	}

	before := c.State()
	c.token++
	for _, s := range c.sections {
		s.Reset(c.token)
	}
	clear(c.dirty)
	c.publish(before)

	c.log.Debug().Uint64("token", c.token).Msg("saved")
	return SaveResult{Saved: true, Token: c.token}, nil
}

func (c *Coordinator) publish(before State) {
	after := c.State()
	if after == before {
		return
	}
	for _, fn := range c.subscribers {
		fn(after)
	}
}
