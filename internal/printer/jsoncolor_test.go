package printer

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestColorizeJSON_Record(t *testing.T) {
	input := []byte(`{"code":"KP-001","gsm":120,"rate":-1.5e2,"active":true,"closed":false,"note":null,"cols":["BF","GSM"]}`)

	out := ansi.Strip(ColorizeJSON(input))

	assert.Contains(t, out, `"code": "KP-001"`)
	assert.Contains(t, out, `"gsm": 120`)
	assert.Contains(t, out, `"rate": -1.5e2`)
	assert.Contains(t, out, `"active": true`)
	assert.Contains(t, out, `"closed": false`)
	assert.Contains(t, out, `"note": null`)
	assert.Contains(t, out, "\n", "expected indented output")
}

func TestColorizeJSON_InvalidPassesThrough(t *testing.T) {
	assert.Equal(t, "not json", ColorizeJSON([]byte("not json")))
}

func TestColorizeJSON_EscapedQuotes(t *testing.T) {
	out := ansi.Strip(ColorizeJSON([]byte(`{"desc":"12\" reel"}`)))
	assert.Contains(t, out, `"12\" reel"`)
}

func TestFindStringEnd(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"simple", `"hello"`, 6},
		{"escaped quote", `"he\"llo"`, 8},
		{"escaped backslash", `"he\\"`, 5},
		{"empty string", `""`, 1},
		{"unterminated", `"abc`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findStringEnd(tt.input, 0))
		})
	}
}
