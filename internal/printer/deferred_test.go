package printer

import (
	"bytes"
	"sync"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferred_HoldsOutputUntilFlush(t *testing.T) {
	p, dw := Deferred()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Infof("line")
		}()
	}
	wg.Wait()

	var out bytes.Buffer
	require.NoError(t, dw.Flush(&out))
	assert.Equal(t, 4, bytes.Count([]byte(ansi.Strip(out.String())), []byte("line")))

	out.Reset()
	require.NoError(t, dw.Flush(&out))
	assert.Empty(t, out.String())
}
