package hook

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/confwatch/confwatch/internal/fileutil"
)

// SourceType declares how the Template hook deserializes the payload before
// rendering.
type SourceType string

const (
	SourceYAML SourceType = "yaml"
	SourceJSON SourceType = "json"
	SourceTOML SourceType = "toml"
)

// ParseSourceType validates a source_type setting.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case SourceYAML, SourceJSON, SourceTOML:
		return SourceType(s), nil
	}
	return "", fmt.Errorf("unknown source_type %q (want yaml, json or toml)", s)
}

// LookupFunc resolves a key against an external parameter collaborator. The
// template hook exposes it as the "key" template function, so a rendered
// document can pull in values that live outside the polled payload.
type LookupFunc func(key string) (string, error)

// Template renders the payload through a text/template. The payload is
// first deserialized according to the declared source type into a generic
// tree, so structurally equivalent YAML, JSON and TOML inputs render
// identically.
type Template struct {
	tmpl       *template.Template
	sourceType SourceType
	outFile    string
	out        io.Writer
}

// NewTemplate parses body and returns the hook. Rendered output goes to
// outFile when non-empty, otherwise to out. A nil lookup disables the "key"
// helper by failing any call to it.
func NewTemplate(body string, sourceType SourceType, outFile string, lookup LookupFunc, out io.Writer) (*Template, error) {
	if lookup == nil {
		lookup = func(key string) (string, error) {
			return "", fmt.Errorf("no parameter lookup configured for key %q", key)
		}
	}

	tmpl, err := template.New("template").Funcs(template.FuncMap{
		"key": lookup,
	}).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	return &Template{
		tmpl:       tmpl,
		sourceType: sourceType,
		outFile:    fileutil.ExpandTilde(outFile),
		out:        out,
	}, nil
}

func (h *Template) Name() string { return "template" }

// Run deserializes the payload, renders the template against it, and writes
// the result.
func (h *Template) Run(payload string) error {
	data, err := decode(h.sourceType, payload)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDeserialize, h.sourceType, err)
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	if h.outFile == "" {
		_, err := h.out.Write(buf.Bytes())
		return err
	}
	if err := fileutil.AtomicWriteFile(h.outFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", h.outFile, err)
	}
	return nil
}

// decode turns the payload into a generic tree value.
func decode(sourceType SourceType, payload string) (any, error) {
	switch sourceType {
	case SourceYAML:
		var data any
		if err := yaml.Unmarshal([]byte(payload), &data); err != nil {
			return nil, err
		}
		return data, nil
	case SourceJSON:
		if !gjson.Valid(payload) {
			return nil, fmt.Errorf("invalid JSON")
		}
		return gjson.Parse(payload).Value(), nil
	case SourceTOML:
		var data map[string]any
		if err := toml.Unmarshal([]byte(payload), &data); err != nil {
			return nil, err
		}
		return data, nil
	}
	return nil, fmt.Errorf("unknown source type %q", sourceType)
}
