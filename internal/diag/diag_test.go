package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_VerboseGating(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, true)

	l.Verbosef("resolved %s", "instructions")
	assert.Empty(t, buf.String(), "verbose lines must be dropped when not verbose")

	l.Warnf("slot %d failed", 3)
	assert.Equal(t, "warning: slot 3 failed\n", buf.String())

	buf.Reset()
	l.Verbose = true
	l.Verbosef("mode: %s", "rdpmc")
	assert.Equal(t, "mode: rdpmc\n", buf.String())
}

func TestLogger_Nil(t *testing.T) {
	var l *Logger
	assert.False(t, l.IsVerbose())
	assert.NotPanics(t, func() {
		l.Verbosef("x")
		l.Warnf("x")
		l.Errorf("x")
		l.Printf("x")
	})
}

func TestLogger_NoDoubleNewline(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true, true)
	l.Errorf("boom\n")
	assert.Equal(t, "error: boom\n", buf.String())
}

func TestLogger_StructLiteral(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Writer: &buf, Verbose: true}
	l.Verbosef("hello")
	l.Warnf("careful")
	assert.Equal(t, "hello\nwarning: careful\n", buf.String())
}
