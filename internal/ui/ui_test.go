package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskboard/internal/model"
)

func capture(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr := stdout, stderr
	SetOutput(out, errOut)
	t.Cleanup(func() { SetOutput(prevOut, prevErr) })
	return out, errOut
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1), "empty totals and tiny widths are clamped")
	assert.Equal(t, "█████ 100%", ProgressBar(9, 3, 5))
}

func TestPanelAlignsWideRunes(t *testing.T) {
	out, _ := capture(t)
	SetTheme("classic")

	Panel([]string{"ab", ProgressBar(1, 1, 5), C(fgRed, "x")})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	width := visibleWidth(lines[0])
	for _, ln := range lines {
		assert.Equal(t, width, visibleWidth(ln), ln)
	}
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
}

func TestOKAndFailWriters(t *testing.T) {
	out, errOut := capture(t)

	OK("added")
	Fail("boom")
	Hint("run ls")

	assert.Equal(t, "✔ added\n", out.String(), "no color when not a terminal")
	assert.Equal(t, "✖ boom\nHint: run ls\n", errOut.String())
}

func TestThemes(t *testing.T) {
	t.Cleanup(func() {
		disableColor = false
		SetTheme("classic")
	})

	SetTheme("neon")
	_, sym := Current().Status(model.Finished)
	assert.Equal(t, "◼", sym)

	SetTheme("mono")
	color, sym := Current().Status(model.InProgress)
	assert.Empty(t, color)
	assert.Equal(t, "[~]", sym)
	assert.Equal(t, "plain", C(fgRed, "plain"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}
