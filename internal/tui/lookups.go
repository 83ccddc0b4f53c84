package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/core/notify"
	"github.com/colonyops/rollbook/internal/lookups"
)

// lookupLoadTimeout bounds the initial load of every category.
const lookupLoadTimeout = 30 * time.Second

type lookupsLoadedMsg struct {
	set       lookup.Set
	refreshed bool
}

// errNoProvider marks every category failed when the editor runs without a
// lookup source.
type errNoProvider struct{}

func (errNoProvider) Error() string { return "no lookup source configured" }

// loadLookups fetches every sales-order category in the background.
func loadLookups(p lookup.Provider) tea.Cmd {
	return func() tea.Msg {
		if p == nil {
			set := lookup.NewSet()
			for _, c := range lookup.SaleOrderCategories() {
				set.Records[c] = []lookup.Record{}
				set.Errors[c] = errNoProvider{}
			}
			return lookupsLoadedMsg{set: set}
		}

		ctx, cancel := context.WithTimeout(context.Background(), lookupLoadTimeout)
		defer cancel()
		return lookupsLoadedMsg{set: lookups.LoadSaleOrder(ctx, p)}
	}
}

// listenForRefresh waits for the next background refresh.
func listenForRefresh(ch <-chan lookup.Set) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		set, ok := <-ch
		if !ok {
			return nil
		}
		return lookupsLoadedMsg{set: set, refreshed: true}
	}
}

func (m Model) handleLookupsLoaded(msg lookupsLoadedMsg) (tea.Model, tea.Cmd) {
	m.set = msg.set
	m.loaded = true

	// the pickers are rebuilt, so an open popup would point at stale rows
	if m.activePicker != nil {
		m.activePicker.Close()
		m.activePicker = nil
	}
	m.bindPickers()

	for _, c := range lookup.SaleOrderCategories() {
		if err := m.set.Failed(c); err != nil {
			m.notifyBus.Errorf(notify.SourceLookups, "Could not load %s: %v", c.Noun(), err)
		}
	}

	cmds := []tea.Cmd{m.ensureToastTick()}
	if msg.refreshed {
		cmds = append(cmds, listenForRefresh(m.refreshes))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) bindPickers() {
	m.header.bindPickers(m.set, m.loaded, m.pickerOpts)
	m.grid.bindPickers(m.set, m.loaded, m.pickerOpts)
}
