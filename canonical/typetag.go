package canonical

import (
	"reflect"
	"runtime/debug"
	"slices"
	"strings"
	"sync"

	"github.com/wippyai/canonjson/errors"
)

// TypeTagger names the concrete type of a record for its "$type" member.
type TypeTagger interface {
	Tag(t reflect.Type) string
}

// Origin used for types that belong to no package, like struct literals.
const BuiltinOrigin = "builtin"

// ModuleTagger tags types as "<package path>.<Name>, <module path>".
// The module is found by matching the package path against the modules
// linked into the running binary; packages outside any known module use
// their own path as origin. The zero value is ready to use.
type ModuleTagger struct {
	once    sync.Once
	modules []string // longest first
}

// Tag implements TypeTagger.
func (m *ModuleTagger) Tag(t reflect.Type) string {
	name, pkg := QualifiedName(t)
	return name + ", " + m.Origin(pkg)
}

// Origin returns the module that defines package pkg.
func (m *ModuleTagger) Origin(pkg string) string {
	if pkg == "" {
		return BuiltinOrigin
	}

	m.once.Do(m.loadModules)
	for _, mod := range m.modules {
		if pkg == mod || strings.HasPrefix(pkg, mod+"/") {
			return mod
		}
	}
	return pkg
}

func (m *ModuleTagger) loadModules() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	mods := make([]string, 0, len(info.Deps)+1)
	if info.Main.Path != "" {
		mods = append(mods, info.Main.Path)
	}
	for _, dep := range info.Deps {
		mods = append(mods, dep.Path)
	}

	slices.SortFunc(mods, func(a, b string) int {
		return len(b) - len(a)
	})
	m.modules = mods
}

// QualifiedName returns the package-qualified name of t and its package
// path. Unnamed types return their type literal and an empty package.
func QualifiedName(t reflect.Type) (name, pkg string) {
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String(), ""
	}
	pkg = t.PkgPath()
	return pkg + "." + t.Name(), pkg
}

// Registry pins explicit type tags for selected types and defers to a
// fallback tagger for everything else.
type Registry struct {
	fallback TypeTagger
	mu       sync.RWMutex
	tags     map[reflect.Type]string
}

// NewRegistry creates a registry. A nil fallback uses a ModuleTagger.
func NewRegistry(fallback TypeTagger) *Registry {
	if fallback == nil {
		fallback = &ModuleTagger{}
	}
	return &Registry{
		fallback: fallback,
		tags:     make(map[reflect.Type]string),
	}
}

// Register tags the type of sample (pointers are looked through) as
// "<name>, <origin>".
func (r *Registry) Register(sample any, name, origin string) error {
	t := reflect.TypeOf(sample)
	if t == nil {
		return errors.InvalidInput(errors.PhaseTag, "cannot register the type of a nil sample")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return r.RegisterType(t, name, origin)
}

// RegisterType tags t as "<name>, <origin>".
func (r *Registry) RegisterType(t reflect.Type, name, origin string) error {
	if name == "" || origin == "" {
		return errors.New(errors.PhaseTag, errors.KindInvalidInput).
			GoType(t.String()).
			Detail("type tag needs both a name and an origin").
			Build()
	}

	r.mu.Lock()
	r.tags[t] = name + ", " + origin
	r.mu.Unlock()
	return nil
}

// Tag implements TypeTagger.
func (r *Registry) Tag(t reflect.Type) string {
	r.mu.RLock()
	tag, ok := r.tags[t]
	r.mu.RUnlock()
	if ok {
		return tag
	}
	return r.fallback.Tag(t)
}
