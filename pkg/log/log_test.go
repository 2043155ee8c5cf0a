package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, DebugLevel, lvl)

	_, ok = ParseLevel("")
	assert.False(t, ok)

	_, ok = ParseLevel("loud")
	assert.False(t, ok)
}

func TestWithFieldWritesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetLevel(InfoLevel)

	WithField("project_id", "p-1").Info("project created")

	assert.Contains(t, buf.String(), "project created")
	assert.Contains(t, buf.String(), "project_id=p-1")
}
