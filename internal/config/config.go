// Package config turns a declarative TOML document into one provider and an
// ordered list of hooks. The document has two top-level tables: `providers`
// must contain exactly one entry, `hooks` zero or more. Hook execution order
// is the order the hook tables appear in the document.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/confwatch/confwatch/internal/fileutil"
	"github.com/confwatch/confwatch/internal/hook"
	"github.com/confwatch/confwatch/internal/provider"
)

// ErrMissingProvider means the document has no `providers` entry.
var ErrMissingProvider = errors.New("configuration must declare a backend provider")

// ErrAmbiguousProvider means the document declares more than one provider.
var ErrAmbiguousProvider = errors.New("configuration must declare exactly one backend provider")

// UnknownProviderError reports a provider table whose name matches no known
// variant. Unlike hooks, an unknown provider is fatal: there is nothing to
// poll without one.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q", e.Name)
}

// SectionError reports a section whose settings could not be decoded or
// converted into a runtime entity.
type SectionError struct {
	Section string
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("invalid %s section: %v", e.Section, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

// Deps carries the external collaborators the factory hands to the entities
// it builds. Tests substitute fakes; production wiring lives in cmd.
type Deps struct {
	AppConfig provider.AppConfigAPI
	Params    provider.ParameterAPI

	// Lookup backs the template hook's "key" helper. When nil it is derived
	// from Params.
	Lookup hook.LookupFunc

	// Stdout receives raw and template hook output. Defaults to os.Stdout.
	Stdout io.Writer
}

// Runtime is the result of a successful load: the single provider and the
// hooks in declaration order.
type Runtime struct {
	Provider provider.Provider
	Hooks    []hook.Hook
}

// Close releases the provider's backing store.
func (r *Runtime) Close() error {
	return r.Provider.Close()
}

// Load reads and builds the configuration document at path.
func Load(path string, deps Deps) (*Runtime, error) {
	doc, err := os.ReadFile(fileutil.ExpandTilde(path))
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	return Build(doc, deps)
}

// Build parses the document and constructs the provider and hook list.
// Partial configurations are never returned: the first invalid section
// aborts the whole load.
func Build(doc []byte, deps Deps) (*Runtime, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Lookup == nil && deps.Params != nil {
		params := deps.Params
		deps.Lookup = func(key string) (string, error) {
			return provider.FetchParameter(context.Background(), params, key)
		}
	}

	var raw struct {
		Providers map[string]toml.Primitive `toml:"providers"`
		Hooks     map[string]toml.Primitive `toml:"hooks"`
	}
	md, err := toml.Decode(string(doc), &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	p, err := buildProvider(&md, raw.Providers, deps)
	if err != nil {
		return nil, err
	}

	hooks, err := buildHooks(&md, raw.Hooks, deps)
	if err != nil {
		if cerr := p.Close(); cerr != nil {
			slog.Warn("closing provider after failed load", "err", cerr)
		}
		return nil, err
	}

	return &Runtime{Provider: p, Hooks: hooks}, nil
}

type providerBuilder func(md *toml.MetaData, prim toml.Primitive, deps Deps) (provider.Provider, error)

// The provider set is closed: dispatch goes through this table and an
// unmatched name is an error.
var providerBuilders = map[string]providerBuilder{
	"mock":        buildMockProvider,
	"aws":         buildAppConfigProvider,
	"param_store": buildParameterStoreProvider,
}

func buildProvider(md *toml.MetaData, sections map[string]toml.Primitive, deps Deps) (provider.Provider, error) {
	switch {
	case len(sections) == 0:
		return nil, ErrMissingProvider
	case len(sections) > 1:
		return nil, fmt.Errorf("%w: found %d", ErrAmbiguousProvider, len(sections))
	}

	var name string
	for n := range sections {
		name = n
	}

	builder, ok := providerBuilders[name]
	if !ok {
		return nil, &UnknownProviderError{Name: name}
	}
	p, err := builder(md, sections[name], deps)
	if err != nil {
		return nil, &SectionError{Section: "providers." + name, Err: err}
	}
	return p, nil
}

func buildHooks(md *toml.MetaData, sections map[string]toml.Primitive, deps Deps) ([]hook.Hook, error) {
	if len(sections) == 0 {
		return nil, nil
	}

	// Map iteration order would scramble the pipeline; the parser's key
	// list preserves document order, so hook names are taken from there.
	var hooks []hook.Hook
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "hooks" {
			continue
		}
		name := key[1]

		builder, ok := hookBuilders[name]
		if !ok {
			// Unknown hook names are skipped rather than fatal so a config
			// can carry hooks for newer versions of this tool.
			slog.Warn("ignoring unknown hook", "hook", name)
			continue
		}

		h, err := builder(md, sections[name], deps)
		if err != nil {
			return nil, &SectionError{Section: "hooks." + name, Err: err}
		}
		hooks = append(hooks, h)
	}
	return hooks, nil
}

// Provider sections.

type mockConf struct {
	Data string `toml:"data"`
}

func buildMockProvider(md *toml.MetaData, prim toml.Primitive, _ Deps) (provider.Provider, error) {
	var conf mockConf
	if err := md.PrimitiveDecode(prim, &conf); err != nil {
		return nil, err
	}
	return provider.NewMock(conf.Data), nil
}

type awsConf struct {
	Application   string `toml:"application"`
	Environment   string `toml:"environment"`
	Configuration string `toml:"configuration"`
	ClientID      string `toml:"client_id"`
	StateFile     string `toml:"state_file"`
}

func buildAppConfigProvider(md *toml.MetaData, prim toml.Primitive, deps Deps) (provider.Provider, error) {
	var conf awsConf
	if err := md.PrimitiveDecode(prim, &conf); err != nil {
		return nil, err
	}
	for field, value := range map[string]string{
		"application":   conf.Application,
		"environment":   conf.Environment,
		"configuration": conf.Configuration,
		"client_id":     conf.ClientID,
	} {
		if value == "" {
			return nil, fmt.Errorf("%s is required", field)
		}
	}
	return provider.NewAppConfig(deps.AppConfig,
		conf.Application, conf.Environment, conf.Configuration, conf.ClientID, conf.StateFile)
}

type paramStoreConf struct {
	Key       string `toml:"key"`
	StateFile string `toml:"state_file"`
}

func buildParameterStoreProvider(md *toml.MetaData, prim toml.Primitive, deps Deps) (provider.Provider, error) {
	var conf paramStoreConf
	if err := md.PrimitiveDecode(prim, &conf); err != nil {
		return nil, err
	}
	if conf.Key == "" {
		return nil, errors.New("key is required")
	}
	return provider.NewParameterStore(deps.Params, conf.Key, conf.StateFile)
}

// Hook sections.

type hookBuilder func(md *toml.MetaData, prim toml.Primitive, deps Deps) (hook.Hook, error)

var hookBuilders = map[string]hookBuilder{
	"template": buildTemplateHook,
	"file":     buildFileHook,
	"raw":      buildRawHook,
	"command":  buildCommandHook,
	"notify":   buildNotifyHook,
}

type templateConf struct {
	File       string `toml:"file"`
	SourceType string `toml:"source_type"`
	OutFile    string `toml:"out_file"`
}

func buildTemplateHook(md *toml.MetaData, prim toml.Primitive, deps Deps) (hook.Hook, error) {
	var conf templateConf
	if err := md.PrimitiveDecode(prim, &conf); err != nil {
		return nil, err
	}
	if conf.File == "" {
		return nil, errors.New("file is required")
	}

	sourceType, err := hook.ParseSourceType(conf.SourceType)
	if err != nil {
		return nil, err
	}

	body, err := os.ReadFile(fileutil.ExpandTilde(conf.File))
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}

	return hook.NewTemplate(string(body), sourceType, conf.OutFile, deps.Lookup, deps.Stdout)
}

type fileConf struct {
	Outfile string `toml:"outfile"`
}

func buildFileHook(md *toml.MetaData, prim toml.Primitive, _ Deps) (hook.Hook, error) {
	var conf fileConf
	if err := md.PrimitiveDecode(prim, &conf); err != nil {
		return nil, err
	}
	if conf.Outfile == "" {
		return nil, errors.New("outfile is required")
	}
	return hook.NewFile(conf.Outfile), nil
}

type rawConf struct{}

func buildRawHook(md *toml.MetaData, prim toml.Primitive, deps Deps) (hook.Hook, error) {
	var conf rawConf
	if err := md.PrimitiveDecode(prim, &conf); err != nil {
		return nil, err
	}
	return hook.NewRaw(deps.Stdout), nil
}

type commandConf struct {
	Command  string `toml:"command"`
	PipeData bool   `toml:"pipe_data"`
}

func buildCommandHook(md *toml.MetaData, prim toml.Primitive, _ Deps) (hook.Hook, error) {
	var conf commandConf
	if err := md.PrimitiveDecode(prim, &conf); err != nil {
		return nil, err
	}
	if conf.Command == "" {
		return nil, errors.New("command is required")
	}
	return hook.NewCommand(conf.Command, conf.PipeData), nil
}

type notifyConf struct {
	Title   string `toml:"title"`
	Message string `toml:"message"`
}

func buildNotifyHook(md *toml.MetaData, prim toml.Primitive, _ Deps) (hook.Hook, error) {
	var conf notifyConf
	if err := md.PrimitiveDecode(prim, &conf); err != nil {
		return nil, err
	}
	if conf.Title == "" {
		conf.Title = "confwatch"
	}
	return hook.NewNotify(conf.Title, conf.Message), nil
}
