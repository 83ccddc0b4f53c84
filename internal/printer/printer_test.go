package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtx_DefaultsToStderr(t *testing.T) {
	p := Ctx(context.Background())
	require.NotNil(t, p)
	assert.NotNil(t, p.Writer())
}

func TestCtx_ReturnsStoredPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	ctx := NewContext(context.Background(), p)

	assert.Same(t, p, Ctx(ctx))
}

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("saved %s", "SO-1")
	p.Warnf("slow")
	p.Errorf("failed: %d", 2)
	p.Infof("note")
	p.Success("Exported", "/tmp/order.xlsx")
	p.Section("Checks")
	p.CheckItem("Config", "ok")
	p.FailItem("Database", "")

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "✔ saved SO-1")
	assert.Contains(t, out, "● slow")
	assert.Contains(t, out, "✘ failed: 2")
	assert.Contains(t, out, "• note")
	assert.Contains(t, out, "✔ Exported /tmp/order.xlsx")
	assert.Contains(t, out, "Checks\n")
	assert.Contains(t, out, "  ✔ Config ok")
	assert.Contains(t, out, "  ✘ Database\n")
}
