package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confwatch/confwatch/internal/provider"
)

func testDeps() Deps {
	return Deps{Stdout: &bytes.Buffer{}}
}

func writeTemplateFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "peers.tmpl")
	body := "{{range .hosts}}{{.name}}\n{{end}}"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestBuildFullConfig(t *testing.T) {
	tmplPath := writeTemplateFixture(t)

	doc := `
[providers.aws]
application = "myApp"
environment = "dev"
configuration = "myConf"
client_id = "42"

[hooks.template]
file = "` + tmplPath + `"
source_type = "yaml"

[hooks.file]
outfile = "raw_output.txt"

[hooks.command]
command = "echo"
pipe_data = true
`
	rt, err := Build([]byte(doc), testDeps())
	require.NoError(t, err)
	defer rt.Close()

	_, ok := rt.Provider.(*provider.AppConfig)
	assert.True(t, ok, "expected an AppConfig provider, got %T", rt.Provider)

	require.Len(t, rt.Hooks, 3)
	assert.Equal(t, "template", rt.Hooks[0].Name())
	assert.Equal(t, "file", rt.Hooks[1].Name())
	assert.Equal(t, "command", rt.Hooks[2].Name())
}

func TestBuildHookOrderFollowsDocument(t *testing.T) {
	doc := `
[providers.mock]
data = "x"

[hooks.command]
command = "true"

[hooks.raw]

[hooks.notify]
title = "changed"

[hooks.file]
outfile = "out.txt"
`
	rt, err := Build([]byte(doc), testDeps())
	require.NoError(t, err)
	defer rt.Close()

	var names []string
	for _, h := range rt.Hooks {
		names = append(names, h.Name())
	}
	assert.Equal(t, []string{"command", "raw", "notify", "file"}, names)
}

func TestBuildProviderValidation(t *testing.T) {
	t.Run("missing provider", func(t *testing.T) {
		_, err := Build([]byte(`[hooks.raw]`), testDeps())
		assert.ErrorIs(t, err, ErrMissingProvider)
	})

	t.Run("ambiguous provider", func(t *testing.T) {
		doc := `
[providers.mock]
data = "x"

[providers.param_store]
key = "y"
`
		_, err := Build([]byte(doc), testDeps())
		assert.ErrorIs(t, err, ErrAmbiguousProvider)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := Build([]byte("[providers.consul]\nkey = \"x\""), testDeps())
		var unknownErr *UnknownProviderError
		require.True(t, errors.As(err, &unknownErr))
		assert.Equal(t, "consul", unknownErr.Name)
	})
}

func TestBuildProviderVariants(t *testing.T) {
	t.Run("mock", func(t *testing.T) {
		rt, err := Build([]byte("[providers.mock]\ndata = \"Where am I\""), testDeps())
		require.NoError(t, err)
		defer rt.Close()
		assert.IsType(t, &provider.Mock{}, rt.Provider)
		assert.Empty(t, rt.Hooks)
	})

	t.Run("param_store", func(t *testing.T) {
		rt, err := Build([]byte("[providers.param_store]\nkey = \"Hello\""), testDeps())
		require.NoError(t, err)
		defer rt.Close()
		assert.IsType(t, &provider.ParameterStore{}, rt.Provider)
	})
}

func TestBuildSectionErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		section string
	}{
		{
			"wrong type in provider settings",
			"[providers.mock]\ndata = 42",
			"providers.mock",
		},
		{
			"missing aws fields",
			"[providers.aws]\napplication = \"myApp\"",
			"providers.aws",
		},
		{
			"missing param_store key",
			"[providers.param_store]\nstate_file = \"s.db\"",
			"providers.param_store",
		},
		{
			"missing command",
			"[providers.mock]\ndata = \"x\"\n[hooks.command]\npipe_data = true",
			"hooks.command",
		},
		{
			"missing outfile",
			"[providers.mock]\ndata = \"x\"\n[hooks.file]",
			"hooks.file",
		},
		{
			"bad template source_type",
			"[providers.mock]\ndata = \"x\"\n[hooks.template]\nfile = \"t.tmpl\"\nsource_type = \"xml\"",
			"hooks.template",
		},
		{
			"missing template file",
			"[providers.mock]\ndata = \"x\"\n[hooks.template]\nsource_type = \"yaml\"",
			"hooks.template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build([]byte(tt.doc), testDeps())
			var sectionErr *SectionError
			require.True(t, errors.As(err, &sectionErr), "expected SectionError, got %v", err)
			assert.Equal(t, tt.section, sectionErr.Section)
		})
	}
}

func TestBuildSkipsUnknownHooks(t *testing.T) {
	doc := `
[providers.mock]
data = "x"

[hooks.raw]

[hooks.webhook]
url = "https://example.com"
`
	rt, err := Build([]byte(doc), testDeps())
	require.NoError(t, err)
	defer rt.Close()

	require.Len(t, rt.Hooks, 1)
	assert.Equal(t, "raw", rt.Hooks[0].Name())
}

func TestBuildInvalidDocument(t *testing.T) {
	_, err := Build([]byte("providers = ["), testDeps())
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Run("file not found", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), testDeps())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "confwatch.toml")
		require.NoError(t, os.WriteFile(path, []byte("[providers.mock]\ndata = \"hi\""), 0644))

		rt, err := Load(path, testDeps())
		require.NoError(t, err)
		defer rt.Close()
		assert.IsType(t, &provider.Mock{}, rt.Provider)
	})
}
