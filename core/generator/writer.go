// Package generator walks a parsed schema graph and produces the two stub
// surfaces for one module: the .pyi declaration text and the .py loader
// text. One Writer is constructed per module; it owns its scope tree and
// type registry and only reads from the shared module registry.
package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tristendillon/capnp-stubgen/core/errors"
	"github.com/tristendillon/capnp-stubgen/core/pytext"
	"github.com/tristendillon/capnp-stubgen/core/schema"
	"github.com/tristendillon/capnp-stubgen/core/scope"
)

var (
	// ErrAmbiguousImport is raised when zero or several modules claim the
	// identity of an imported node.
	ErrAmbiguousImport = errors.New("ambiguous or missing import source")

	// ErrUnknownKind is raised when the schema graph contains a node, slot
	// or brand kind this generator does not model.
	ErrUnknownKind = errors.New("unrecognized schema kind")

	// ErrInvariantViolation is raised on malformed input naming, e.g. a
	// group type name that collides with its field name.
	ErrInvariantViolation = errors.New("schema naming invariant violated")
)

// initChoice is one candidate for an overloaded union init accessor.
type initChoice struct {
	fieldName string
	typeName  string
}

// Writer generates the stub surfaces for a single schema module.
type Writer struct {
	module   *schema.Module
	registry *schema.Registry

	root  *scope.Scope
	scope *scope.Scope

	scopesByID map[uint64]*scope.Scope
	ordered    []*scope.Scope

	types *scope.TypeRegistry

	imports       map[string]bool
	typingImports map[string]bool
	typeVars      map[string]bool
}

// NewWriter creates a writer for one module. The registry must already
// contain every module of the run; it is only read.
func NewWriter(module *schema.Module, registry *schema.Registry) *Writer {
	root := scope.NewRoot(module.Root.ID)

	w := &Writer{
		module:        module,
		registry:      registry,
		root:          root,
		scope:         root,
		scopesByID:    map[uint64]*scope.Scope{root.ID: root},
		types:         scope.NewTypeRegistry(),
		imports:       make(map[string]bool),
		typingImports: make(map[string]bool),
		typeVars:      make(map[string]bool),
	}

	w.addImport("from __future__ import annotations")
	return w
}

func (w *Writer) addImport(line string) {
	w.imports[line] = true
}

func (w *Writer) addTypingImport(name string) {
	w.typingImports[name] = true
}

// importLines returns the accumulated import statements in sorted order,
// with a synthesized `from typing import ...` line covering every typing
// marker that was referenced.
func (w *Writer) importLines() []string {
	lines := make([]string, 0, len(w.imports)+1)
	for line := range w.imports {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	if len(w.typingImports) > 0 {
		names := make([]string, 0, len(w.typingImports))
		for name := range w.typingImports {
			names = append(names, name)
		}
		sort.Strings(names)
		lines = append(lines, "from typing import "+pytext.JoinParams(names))
	}

	return lines
}

// node resolves a node identity, first in the writer's own module, then
// across the shared registry.
func (w *Writer) node(id uint64) (*schema.Node, error) {
	if node, ok := w.module.Node(id); ok {
		return node, nil
	}
	if node, _, ok := w.registry.FindNode(id); ok {
		return node, nil
	}
	return nil, errors.Newf("node %d is not present in any loaded schema graph", id)
}

// newScope opens a scope for a declaration, nested below the scope that was
// registered for the node's declared parent. A non-empty heading is appended
// to the parent immediately. Unregistered scopes (the builder and reader
// companions) do not participate in later scope lookups.
func (w *Writer) newScope(name string, node *schema.Node, heading string, register bool) (*scope.Scope, error) {
	parent, ok := w.scopesByID[node.ScopeID]
	if !ok {
		return nil, errors.Wrapf(scope.ErrMissingAncestorScope, "scope %q (node %d, parent %d)", name, node.ID, node.ScopeID)
	}

	if heading != "" {
		parent.Add(heading)
	}

	child, err := scope.NewChild(name, node.ID, parent, w.scope)
	if err != nil {
		return nil, err
	}

	w.scope = child

	if register {
		w.scopesByID[node.ID] = child
		w.ordered = append(w.ordered, child)
	}

	return parent, nil
}

// returnFromScope closes the current scope: its lines are appended to its
// parent and the stored return scope becomes current. The root scope is
// never closed.
func (w *Writer) returnFromScope() error {
	if w.scope.IsRoot() {
		return errors.New("cannot return from the root scope")
	}
	if w.scope.Return == nil {
		return errors.Newf("scope %q does not define a scope to return to", w.scope.Name)
	}

	w.scope.Parent.Lines = append(w.scope.Parent.Lines, w.scope.Lines...)
	w.scope = w.scope.Return
	return nil
}

// ensureBody adds a placeholder so the current scope's class body is never
// empty, which would be invalid declaration syntax.
func (w *Writer) ensureBody() {
	if len(w.scope.Lines) == 0 {
		w.scope.Add("...")
	}
}

// registerType records a declared type for the node identity. The name
// defaults to the node's short display name; the scope defaults to the
// parent of the currently open scope, making the type visible one level up
// from where it is being declared.
func (w *Writer) registerType(id uint64, node *schema.Node, name string, sc *scope.Scope) (*scope.DeclaredType, error) {
	if name == "" {
		name = node.ShortDisplayName()
	}

	if sc == nil {
		sc = w.scope.Parent
	}
	if sc == nil {
		return nil, errors.Newf("no valid scope for registering type %q", name)
	}

	return w.types.Register(id, &scope.DeclaredType{Node: node, Name: name, Scope: sc}), nil
}

// registerTypeVar records a generic type variable, qualified by the full
// trace of the scope that introduces it so same-named parameters from
// different nesting contexts never collide.
func (w *Writer) registerTypeVar(name string) string {
	fullName := w.scope.TraceString("_") + "_" + name
	w.typeVars[fullName] = true
	return fullName
}

// DumpsPyi renders the declaration surface: header, imports, type variable
// declarations, then the flattened root scope.
func (w *Writer) DumpsPyi() (string, error) {
	if !w.scope.IsRoot() {
		return "", errors.Newf("generation left scope %q open", w.scope.Name)
	}

	var out []string
	out = append(out, w.docstring())
	out = append(out, w.importLines()...)
	out = append(out, "")

	if len(w.typeVars) > 0 {
		names := make([]string, 0, len(w.typeVars))
		for name := range w.typeVars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, fmt.Sprintf("%s = TypeVar(\"%s\")", name, name))
		}
		out = append(out, "")
	}

	out = append(out, w.root.Lines...)
	return joinLines(out), nil
}

// DumpsPy renders the loader surface: bootstrap lines that locate and load
// the original schema file next to the generated file, then one re-binding
// line per module-level declared type.
func (w *Writer) DumpsPy() (string, error) {
	if !w.scope.IsRoot() {
		return "", errors.Newf("generation left scope %q open", w.scope.Name)
	}

	out := []string{
		w.docstring(),
		"import os",
		"import capnp # type: ignore",
		"capnp.remove_import_hook()",
		"here = os.path.dirname(os.path.abspath(__file__))",
		fmt.Sprintf("module_file = os.path.abspath(os.path.join(here, \"%s\"))", w.module.DisplayName()),
		"module = capnp.load(module_file)  # pylint: disable=no-member",
	}

	for _, sc := range w.ordered {
		if sc.Parent == nil || !sc.Parent.IsRoot() {
			continue
		}
		out = append(out, fmt.Sprintf("%s = module.%s", sc.Name, sc.Name))
		if sc.Kind == scope.KindStruct {
			out = append(out, pytext.TypeAlias(pytext.BuilderName(sc.Name), sc.Name))
			out = append(out, pytext.TypeAlias(pytext.ReaderName(sc.Name), sc.Name))
		}
	}

	return joinLines(out), nil
}

func (w *Writer) docstring() string {
	return fmt.Sprintf("\"\"\"This is an automatically generated stub for `%s`.\"\"\"", w.module.DisplayName())
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
