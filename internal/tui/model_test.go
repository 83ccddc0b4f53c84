package tui

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/rollbook/internal/core/lineitem"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/core/notify"
	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/colonyops/rollbook/internal/core/picker"
	"github.com/colonyops/rollbook/pkg/tuitest"
)

func columnIndex(t *testing.T, field lineitem.Field) int {
	t.Helper()
	for i, c := range lineitem.Columns() {
		if c.Field == field {
			return i
		}
	}
	t.Fatalf("no column for %s", field)
	return -1
}

func render(m Model) string {
	return tuitest.StripANSI(m.renderBody())
}

func TestModel_StartsClean(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	assert.Equal(t, focusLines, m.focus)
	assert.Contains(t, render(m), "All changes saved")
	assert.NotContains(t, render(m), "VIEW MODE")
}

func TestModel_AddRowMarksDirty(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyPress('a'))

	eng := m.draft.Lines.Engine
	assert.Equal(t, 3, eng.Len())
	editing, ok := eng.Editing()
	require.True(t, ok)
	assert.Equal(t, 2, editing)
	assert.Equal(t, 2, m.grid.row)
	assert.Contains(t, render(m), "Unsaved changes detected")
}

func TestModel_EditCellRecomputesAmount(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyEnter())
	editing, ok := m.draft.Lines.Engine.Editing()
	require.True(t, ok)
	require.Equal(t, 0, editing)

	m.grid.col = columnIndex(t, lineitem.FieldRate)
	m = send(t, m, tuitest.KeyEnter())
	require.True(t, m.grid.Editing())
	assert.Equal(t, "25", m.grid.input.Value())

	m.grid.input.ti.SetValue("30")
	m = send(t, m, tuitest.KeyEnter())

	row, _ := m.draft.Lines.Engine.Item(0)
	assert.InDelta(t, 30.0, row.Rate, 0.001)
	assert.Equal(t, "103500.00", lineitem.FormatAmount(lineitem.Amount(row)))
	assert.True(t, m.draft.Coordinator.HasChanges())
}

func TestModel_QuitKeyIgnoredWhileTyping(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyEnter())
	m.grid.col = columnIndex(t, lineitem.FieldSKU)
	m = send(t, m, tuitest.KeyEnter())
	require.True(t, m.grid.Editing())

	m = send(t, m, tuitest.KeyPress('q'))

	assert.False(t, m.quitting)
	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, "q", m.grid.input.Value())
}

func TestModel_PickerSelectionAppliesLookup(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyEnter())
	m.grid.col = columnIndex(t, lineitem.FieldItemName)
	m = send(t, m, tuitest.KeyEnter())
	require.NotNil(t, m.activePicker)
	require.True(t, m.activePicker.IsOpen())

	sel, ok := m.activePicker.Picker.Selected()
	require.True(t, ok)
	assert.Equal(t, "KP-001", sel.Code)

	m = send(t, m, tuitest.Type("150")...)
	m = send(t, m, tuitest.KeyEnter())

	assert.Nil(t, m.activePicker)
	row, _ := m.draft.Lines.Engine.Item(0)
	assert.Equal(t, "KP-002", row.ItemCode)
	assert.Equal(t, "Kraft Paper 150", row.ItemName)
	assert.True(t, m.draft.Coordinator.HasChanges())
}

func TestModel_PickerEscapeKeepsRow(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyEnter())
	m.grid.col = columnIndex(t, lineitem.FieldItemName)
	m = send(t, m, tuitest.KeyEnter(), tuitest.KeyEsc())

	assert.Nil(t, m.activePicker)
	row, _ := m.draft.Lines.Engine.Item(0)
	assert.Equal(t, "KP-001", row.ItemCode)
	assert.False(t, m.draft.Coordinator.HasChanges())

	_, editing := m.draft.Lines.Engine.Editing()
	assert.True(t, editing)
}

func TestModel_BulkDeleteConfirmed(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeySpace(), tuitest.KeyDown(), tuitest.KeySpace())
	require.Len(t, m.draft.Lines.Engine.Selected(), 2)
	assert.Contains(t, render(m), "2 selected")

	m = send(t, m, tuitest.KeyPress('d'))
	require.Equal(t, stateConfirmDelete, m.state)
	assert.Equal(t, "Delete Line Items", m.confirm.Title())

	m = send(t, m, tuitest.KeyPress('y'))

	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, 0, m.draft.Lines.Engine.Len())
	assert.Contains(t, toastMessages(m), "2 line items deleted successfully.")
	assert.Contains(t, render(m), "No line items.")
}

func TestModel_DeleteCurrentRowCancelled(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyPress('d'))
	require.Equal(t, stateConfirmDelete, m.state)
	assert.Equal(t, "Delete Line Item", m.confirm.Title())
	assert.Contains(t, m.confirm.Message(), "Kraft Paper")

	m = send(t, m, tuitest.KeyPress('n'))

	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, 2, m.draft.Lines.Engine.Len())
	_, pending := m.draft.Lines.Engine.Pending()
	assert.False(t, pending)
}

func TestModel_ToggleAll(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyPress('A'))
	assert.True(t, m.draft.Lines.Engine.AllSelected())

	m = send(t, m, tuitest.KeyPress('A'))
	assert.Empty(t, m.draft.Lines.Engine.Selected())
}

func TestModel_SaveValidationOpensDialog(t *testing.T) {
	o := testOrder()
	o.Header.Party = ""
	m, store := newTestModel(t, o, false, testProvider())

	m = send(t, m, tuitest.KeyPress('a'), tuitest.KeyEsc(), tuitest.KeyCtrl('s'))

	assert.Equal(t, stateInfo, m.state)
	require.NotNil(t, m.infoDialog)
	assert.Empty(t, store.saved)
	assert.True(t, m.draft.Coordinator.HasChanges())

	m = send(t, m, tuitest.KeyEsc())
	assert.Equal(t, stateNormal, m.state)
	assert.Nil(t, m.infoDialog)
}

func TestModel_SaveSuccess(t *testing.T) {
	m, store := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyPress('a'), tuitest.KeyEsc(), tuitest.KeyCtrl('s'))

	require.Len(t, store.saved, 1)
	assert.Len(t, store.saved[0].Lines, 3)
	assert.False(t, m.draft.Coordinator.HasChanges())
	assert.Contains(t, toastMessages(m), "Order saved.")
	assert.Contains(t, render(m), "All changes saved")
}

func TestModel_SaveCleanIsNoop(t *testing.T) {
	m, store := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyCtrl('s'))

	assert.Empty(t, store.saved)
	assert.Contains(t, toastMessages(m), "No changes to save.")
}

func TestModel_SaveStoreFailureKeepsChanges(t *testing.T) {
	m, store := newTestModel(t, testOrder(), false, testProvider())
	store.err = errors.New("disk full")

	m = send(t, m, tuitest.KeyPress('a'), tuitest.KeyEsc(), tuitest.KeyCtrl('s'))

	assert.True(t, m.draft.Coordinator.HasChanges())
	require.NotEmpty(t, m.toastController.Toasts())
	last := m.toastController.Toasts()[len(m.toastController.Toasts())-1]
	assert.Equal(t, notify.LevelError, last.notification.Level)
	assert.Contains(t, last.notification.Message, "disk full")
}

func TestModel_QuitConfirmsWhenDirty(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())
	m = send(t, m, tuitest.KeyPress('a'), tuitest.KeyEsc())

	m = send(t, m, tuitest.KeyPress('q'))
	require.Equal(t, stateConfirmQuit, m.state)

	m = send(t, m, tuitest.KeyPress('n'))
	assert.Equal(t, stateNormal, m.state)
	assert.False(t, m.quitting)

	m = send(t, m, tuitest.KeyPress('q'))
	next, cmd := m.Update(tuitest.KeyPress('y'))
	m = next.(Model)

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_QuitCleanExitsImmediately(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	next, cmd := m.Update(tuitest.KeyPress('q'))

	assert.True(t, next.(Model).quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_ReadOnly(t *testing.T) {
	o := testOrder()
	o.Status = order.StatusClosed
	m, store := newTestModel(t, o, false, testProvider())

	assert.Contains(t, render(m), "VIEW MODE")

	m = send(t, m, tuitest.KeyPress('a'), tuitest.KeyEnter(), tuitest.KeyPress('d'))
	assert.Equal(t, 2, m.draft.Lines.Engine.Len())
	assert.Equal(t, stateNormal, m.state)
	_, editing := m.draft.Lines.Engine.Editing()
	assert.False(t, editing)

	m = send(t, m, tuitest.KeyCtrl('s'))
	assert.Empty(t, store.saved)
	assert.Contains(t, toastMessages(m), "This order is read-only.")
}

func TestModel_LookupFailureDegradesOneField(t *testing.T) {
	p := testProvider()
	p.fail[lookup.CategoryCustomer] = true

	m, _ := newTestModel(t, testOrder(), false, p)

	assert.Contains(t, toastMessages(m), "Could not load customers: lookup service unavailable")

	party := m.header.pickers[order.HeaderParty]
	require.NotNil(t, party)
	assert.Equal(t, picker.LabelError, party.Picker.TriggerLabel())

	voucher := m.header.pickers[order.HeaderVoucherType]
	require.NotNil(t, voucher)
	assert.Equal(t, "Sales Order", voucher.Picker.TriggerLabel())
}

func TestModel_NoProviderFailsEveryCategory(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, nil)

	for _, c := range lookup.SaleOrderCategories() {
		assert.Error(t, m.set.Failed(c), c)
	}
	assert.Equal(t, 2, m.draft.Lines.Engine.Len())
}

func TestModel_LookupsLoadingBeforeFetch(t *testing.T) {
	m := New(Options{Draft: order.NewDraft(testOrder(), false, nil)})

	assert.Equal(t, picker.LabelLoading, m.header.pickers[order.HeaderParty].Picker.TriggerLabel())
	assert.Contains(t, render(m), picker.LabelLoading)
}

func TestModel_RefreshKeepsSearch(t *testing.T) {
	refreshes := make(chan lookup.Set, 1)
	store := &memOrders{}
	m := New(Options{Draft: order.NewDraft(testOrder(), false, store), Provider: testProvider(), Refreshes: refreshes})
	m = send(t, m, loadLookups(testProvider())())

	m.header.pickers[order.HeaderParty].Picker.SetSearch("bharat")

	refreshed := lookup.NewSet()
	refreshed.Records[lookup.CategoryCustomer] = []lookup.Record{{Code: "C003", Description: "Bharat Mills"}}

	next, cmd := m.Update(lookupsLoadedMsg{set: refreshed, refreshed: true})
	m = next.(Model)

	party := m.header.pickers[order.HeaderParty].Picker
	assert.Equal(t, "bharat", party.Search())
	require.Len(t, party.Filtered(), 1)
	assert.Equal(t, "C003", party.Filtered()[0].Code)
	assert.NotNil(t, cmd)
}

func TestModel_FocusCycles(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyTab())
	assert.Equal(t, focusTerms, m.focus)
	m = send(t, m, tuitest.KeyTab(), tuitest.KeyTab())
	assert.Equal(t, focusHeader, m.focus)
	m = send(t, m, tuitest.KeyShiftTab())
	assert.Equal(t, focusExpenses, m.focus)
}

func TestModel_LeavingGridEndsEdit(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyEnter(), tuitest.KeyTab())

	_, editing := m.draft.Lines.Engine.Editing()
	assert.False(t, editing)
}

func TestModel_HelpDialog(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyPress('?'))
	require.Equal(t, stateHelp, m.state)
	assert.Contains(t, tuitest.StripANSI(m.helpDialog.View()), "ctrl+s")

	m = send(t, m, tuitest.KeyEsc())
	assert.Equal(t, stateNormal, m.state)
}

func TestModel_NotificationsDialog(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())

	m = send(t, m, tuitest.KeyPress('N'))

	assert.Equal(t, stateInfo, m.state)
	require.NotNil(t, m.infoDialog)
}

func TestModel_Init(t *testing.T) {
	o := testOrder()
	o.Status = order.StatusCancelled
	m := New(Options{
		Draft:    order.NewDraft(o, false, nil),
		Provider: testProvider(),
		Warnings: []string{"config: lookups.url is not set"},
	})

	cmd := m.Init()

	assert.NotNil(t, cmd)
	msgs := toastMessages(m)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "view mode")
	assert.Equal(t, "config: lookups.url is not set", msgs[1])
	assert.True(t, m.toastController.Ticking())
}

func TestModel_ToastTickChainExpires(t *testing.T) {
	m, _ := newTestModel(t, testOrder(), false, testProvider())
	m.toastController.Push(notify.Notification{Level: notify.LevelInfo, Message: "saved"})

	ticks := 0
	for {
		next, cmd := m.Update(toastTickMsg{})
		m = next.(Model)
		ticks++
		if cmd == nil {
			break
		}
		require.Less(t, ticks, 200, "toast never expired")
	}

	assert.False(t, m.toastController.HasToasts())
	assert.False(t, m.toastController.Ticking())
	assert.Equal(t, int(defaultToastTTL/toastTickInterval), ticks)
}
