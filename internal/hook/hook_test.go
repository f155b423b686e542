package hook

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWritesPayloadVerbatim(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "raw_output.txt")

	h := NewFile(outFile)
	require.NoError(t, h.Run("Where am I"))

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "Where am I", string(data))
}

func TestFileOverwrites(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "raw_output.txt")
	require.NoError(t, os.WriteFile(outFile, []byte("stale"), 0644))

	h := NewFile(outFile)
	require.NoError(t, h.Run("fresh"))

	data, _ := os.ReadFile(outFile)
	assert.Equal(t, "fresh", string(data))
}

func TestFileUnwritableTarget(t *testing.T) {
	h := NewFile(filepath.Join(t.TempDir(), "missing", "dir", "out.txt"))
	assert.Error(t, h.Run("data"))
}

func TestRawAppendsNewline(t *testing.T) {
	var out bytes.Buffer
	h := NewRaw(&out)

	require.NoError(t, h.Run("Where am I"))
	assert.Equal(t, "Where am I\n", out.String())
}

func TestCommandErrorMessage(t *testing.T) {
	err := &CommandError{Command: "deploy.sh", ExitCode: 2}
	assert.Equal(t, `command "deploy.sh" exited with status 2`, err.Error())
}

func TestNotifyPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short"))

	long := strings.Repeat("x", 500)
	got := preview(long)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Less(t, len([]rune(got)), 130)
}

func TestHookNames(t *testing.T) {
	var out bytes.Buffer
	tmpl, err := NewTemplate("", SourceYAML, "", nil, &out)
	require.NoError(t, err)

	assert.Equal(t, "template", tmpl.Name())
	assert.Equal(t, "file", NewFile("x").Name())
	assert.Equal(t, "raw", NewRaw(&out).Name())
	assert.Equal(t, "command", NewCommand("true", false).Name())
	assert.Equal(t, "notify", NewNotify("t", "m").Name())
}
