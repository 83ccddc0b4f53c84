package tui

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/rollbook/internal/core/editor"
	"github.com/colonyops/rollbook/internal/core/logging"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/core/notify"
	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/colonyops/rollbook/internal/core/picker"
	"github.com/colonyops/rollbook/internal/tui/components"
	tuinotify "github.com/colonyops/rollbook/internal/tui/notify"
)

const saveTimeout = 10 * time.Second

// UIState is the modal state of the editor screen.
type UIState int

const (
	stateNormal UIState = iota
	stateConfirmDelete
	stateConfirmQuit
	stateInfo
	stateHelp
)

// focusArea is the section receiving keys.
type focusArea int

const (
	focusHeader focusArea = iota
	focusLines
	focusTerms
	focusExpenses
	focusCount
)

// Options configures the editor screen.
type Options struct {
	// Draft is the order being edited. Required.
	Draft *order.Draft
	// Provider supplies lookup records. A nil provider leaves every
	// lookup field in its error state.
	Provider lookup.Provider
	// Refreshes delivers lookup sets refreshed in the background.
	Refreshes <-chan lookup.Set
	// Bus receives notifications. When nil a bus without persistence is
	// used.
	Bus           *tuinotify.Bus
	PickerOptions picker.Options
	// Warnings are shown as toasts on start, e.g. config problems.
	Warnings []string
}

// Model is the Bubble Tea model of the order editor.
type Model struct {
	draft      *order.Draft
	provider   lookup.Provider
	refreshes  <-chan lookup.Set
	pickerOpts picker.Options
	keys       KeyMap

	set    lookup.Set
	loaded bool

	header   *headerForm
	grid     *grid
	terms    *termsPanel
	expenses *expensesPanel
	focus    focusArea

	state        UIState
	activePicker *components.PickerView
	confirm      components.ConfirmModal
	infoDialog   *components.InfoDialog
	helpDialog   *components.HelpDialog

	notifyBus       *tuinotify.Bus
	toastController *ToastController
	toastView       *ToastView
	warnings        []string

	width, height int
	quitting      bool
}

// New builds the editor for opts.Draft.
func New(opts Options) Model {
	bus := opts.Bus
	if bus == nil {
		bus = tuinotify.NewBus(nil)
	}
	bus.SetOrder(opts.Draft.ID())

	toasts := NewToastController()
	bus.Subscribe(func(n notify.Notification) {
		toasts.Push(n)
	})

	m := Model{
		draft:           opts.Draft,
		provider:        opts.Provider,
		refreshes:       opts.Refreshes,
		pickerOpts:      opts.PickerOptions,
		keys:            DefaultKeyMap(),
		set:             lookup.NewSet(),
		header:          newHeaderForm(opts.Draft),
		grid:            newGrid(opts.Draft),
		terms:           newTermsPanel(opts.Draft),
		expenses:        newExpensesPanel(opts.Draft),
		focus:           focusLines,
		notifyBus:       bus,
		toastController: toasts,
		toastView:       NewToastView(toasts),
		warnings:        opts.Warnings,
		width:           120,
		height:          40,
	}
	m.bindPickers()
	return m
}

// Draft returns the order being edited.
func (m Model) Draft() *order.Draft { return m.draft }

// Init starts the lookup load and the refresh listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadLookups(m.provider), listenForRefresh(m.refreshes)}

	if m.draft.ReadOnly() {
		m.notifyBus.Infof(notify.SourceEditor, "Order %s is %s and opens in view mode.", m.draft.ID(), m.draft.Status())
	}
	for _, w := range m.warnings {
		m.notifyBus.Warnf(notify.SourceEditor, "%s", w)
	}
	if m.toastController.HasToasts() {
		m.toastController.SetTicking(true)
		cmds = append(cmds, scheduleToastTick())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case lookupsLoadedMsg:
		return m.handleLookupsLoaded(msg)

	case toastTickMsg:
		return m.handleToastTick(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.resizeGrid()
	if m.activePicker != nil {
		m.activePicker.Picker.Resize(m.pickerHeight())
		m.activePicker.SetMaxWidth(m.width)
	}
	return m, nil
}

func (m Model) handleToastTick(_ toastTickMsg) (tea.Model, tea.Cmd) {
	m.toastController.Tick(toastTickInterval)
	if m.toastController.HasToasts() {
		return m, scheduleToastTick()
	}
	m.toastController.SetTicking(false)
	return m, nil
}

// ensureToastTick starts the toast timer when toasts are showing and the
// timer is not already running.
func (m *Model) ensureToastTick() tea.Cmd {
	if !m.toastController.HasToasts() || m.toastController.Ticking() {
		return nil
	}
	m.toastController.SetTicking(true)
	return scheduleToastTick()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch m.state {
	case stateConfirmDelete, stateConfirmQuit:
		return m.handleConfirmKey(msg)
	case stateHelp:
		return m.handleHelpDialogKey(keyStr)
	case stateInfo:
		return m.handleInfoDialogKey(keyStr)
	}

	if m.activePicker != nil && m.activePicker.IsOpen() {
		if keyStr == keyCtrlC {
			return m.requestQuit()
		}
		res, cmd := m.activePicker.Update(msg)
		if res != components.PickerNone {
			m.activePicker = nil
		}
		return m, cmd
	}

	if m.sectionEditing() {
		if keyStr == keyCtrlC {
			return m.requestQuit()
		}
		return m.updateSection(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.Quit):
		return m.requestQuit()
	case key.Matches(msg, m.keys.Help):
		m.helpDialog = components.NewHelpDialog("Keyboard Shortcuts", m.keys.HelpSections())
		m.state = stateHelp
		return m, nil
	case key.Matches(msg, m.keys.Notices):
		return m.showNotifications()
	case key.Matches(msg, m.keys.DismissAll):
		m.toastController.DismissAll()
		return m, nil
	case key.Matches(msg, m.keys.NextSection):
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case key.Matches(msg, m.keys.PrevSection):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	}

	return m.updateSection(msg)
}

// setFocus moves focus to area. Leaving the grid ends row edit mode.
func (m *Model) setFocus(area focusArea) {
	if m.focus == focusLines && area != focusLines {
		m.grid.engine().ExitEdit()
	}
	m.focus = area
}

func (m Model) sectionEditing() bool {
	switch m.focus {
	case focusHeader:
		return m.header.Editing()
	case focusLines:
		return m.grid.Editing()
	case focusTerms:
		return m.terms.Editing()
	case focusExpenses:
		return m.expenses.Editing()
	}
	return false
}

func (m Model) updateSection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		pv  *components.PickerView
		cmd tea.Cmd
	)

	switch m.focus {
	case focusHeader:
		pv, cmd = m.header.Update(msg, m.keys)
	case focusLines:
		var pending bool
		pv, pending, cmd = m.updateGrid(msg)
		if pending {
			return m.confirmDelete()
		}
	case focusTerms:
		cmd = m.terms.Update(msg, m.keys)
	case focusExpenses:
		cmd = m.expenses.Update(msg, m.keys)
	}

	if pv != nil {
		pv.Picker.Resize(m.pickerHeight())
		pv.SetMaxWidth(m.width)
		m.activePicker = pv
	}
	return m, cmd
}

func (m Model) updateGrid(msg tea.KeyMsg) (*components.PickerView, bool, tea.Cmd) {
	pv, pending, cmd := m.grid.Update(msg, m.keys)
	return pv, pending != nil, cmd
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	p, ok := m.grid.engine().Pending()
	if !ok {
		return m, nil
	}
	m.confirm = components.NewConfirmModal(p.Title(), p.Prompt()).WithConfirmLabel("Delete")
	m.state = stateConfirmDelete
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC && m.state == stateConfirmQuit {
		return m.quit()
	}

	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.Update(msg)
	if !m.confirm.Done() {
		return m, cmd
	}

	state := m.state
	m.state = stateNormal

	switch state {
	case stateConfirmQuit:
		if m.confirm.Confirmed() {
			return m.quit()
		}
	case stateConfirmDelete:
		if !m.confirm.Confirmed() {
			m.grid.engine().CancelDelete()
			return m, cmd
		}
		if res, ok := m.grid.confirmDelete(); ok {
			m.notifyBus.Infof(notify.SourceEditor, "%s", res.Message)
			return m, tea.Batch(cmd, m.ensureToastTick())
		}
	}
	return m, cmd
}

func (m Model) handleHelpDialogKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyCtrlC:
		return m.requestQuit()
	case "esc", "?", "q":
		m.state = stateNormal
		m.helpDialog = nil
	}
	return m, nil
}

func (m Model) handleInfoDialogKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyCtrlC:
		return m.requestQuit()
	case "esc", "q", "enter":
		m.state = stateNormal
		m.infoDialog = nil
	case "j", "down":
		m.infoDialog.ScrollDown()
	case "k", "up":
		m.infoDialog.ScrollUp()
	}
	return m, nil
}

func (m Model) showNotifications() (tea.Model, tea.Cmd) {
	history, err := m.notifyBus.OrderHistory()
	if err != nil {
		m.notifyBus.Errorf(notify.SourceEditor, "loading notifications: %v", err)
		return m, m.ensureToastTick()
	}
	m.infoDialog = components.NewNotificationDialog(history, m.width, m.height)
	m.state = stateInfo
	return m, nil
}

// save runs the coordinator's save. A validation failure opens a dialog
// listing the problems; other outcomes are reported as toasts.
func (m Model) save() (tea.Model, tea.Cmd) {
	if m.draft.ReadOnly() {
		m.notifyBus.Warnf(notify.SourceEditor, "This order is read-only.")
		return m, m.ensureToastTick()
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	res, err := m.draft.Save(ctx)
	switch {
	case errors.Is(err, editor.ErrValidation):
		m.infoDialog = components.NewValidationDialog(order.ValidationMessages(err), m.width, m.height)
		m.state = stateInfo
		return m, nil
	case err != nil:
		logger := logging.Component("tui")
		logger.Error().Err(err).Str("order", m.draft.ID()).Msg("save failed")
		m.notifyBus.Errorf(notify.SourceEditor, "Save failed: %v", err)
	case !res.Saved:
		m.notifyBus.Infof(notify.SourceEditor, "No changes to save.")
	default:
		m.notifyBus.Infof(notify.SourceEditor, "Order saved.")
	}
	return m, m.ensureToastTick()
}

// requestQuit exits, asking first when there are unsaved changes.
func (m Model) requestQuit() (tea.Model, tea.Cmd) {
	m.draft.Coordinator.Sync()
	if m.draft.ReadOnly() || !m.draft.Coordinator.HasChanges() {
		return m.quit()
	}
	m.confirm = components.NewConfirmModal(
		"Discard changes?",
		"Unsaved changes detected. Quit without saving?",
	).WithConfirmLabel("Quit")
	m.state = stateConfirmQuit
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}
