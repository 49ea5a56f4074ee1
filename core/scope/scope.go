// Package scope provides the indented text regions that generated
// declarations accumulate into, plus the registry of declared types that
// guarantees each schema node is emitted exactly once.
package scope

import (
	"strings"

	"github.com/tristendillon/capnp-stubgen/core/errors"
	"github.com/tristendillon/capnp-stubgen/core/schema"
)

// IndentSpaces is the indentation unit per nesting level.
const IndentSpaces = 4

var (
	// ErrMissingAncestorScope is raised when a node's enclosing scope was
	// never registered, i.e. the walker reached a node before its parent.
	ErrMissingAncestorScope = errors.New("missing ancestor scope")

	// ErrUnknownTypeIdentity is raised when a type lookup hits an identity
	// that was never registered. This is always a schema consistency error.
	ErrUnknownTypeIdentity = errors.New("unknown type identity")
)

// Kind tags what sort of declaration a scope holds. The loader surface uses
// it to decide which names get builder and reader aliases.
type Kind int

const (
	KindStruct Kind = iota
	KindEnum
)

// Scope is a named, indented text region of the output. The root scope has
// an empty name and no parent; every other scope mirrors one declaration of
// the schema and remembers the scope to return to when it is closed.
type Scope struct {
	Name   string
	ID     uint64
	Parent *Scope
	Return *Scope
	Lines  []string
	Kind   Kind
}

// NewRoot creates the root scope of a module. It is never closed.
func NewRoot(id uint64) *Scope {
	return &Scope{ID: id}
}

// NewChild creates a scope nested inside parent. The name must be non-empty;
// only the root scope is unnamed.
func NewChild(name string, id uint64, parent, returnScope *Scope) (*Scope, error) {
	if name == "" {
		return nil, errors.New("only the root scope may have an empty name")
	}
	if parent == nil {
		return nil, errors.Newf("scope %q needs a parent", name)
	}
	return &Scope{Name: name, ID: id, Parent: parent, Return: returnScope}, nil
}

// IsRoot reports whether this is the root scope.
func (s *Scope) IsRoot() bool {
	return s.Parent == nil
}

// Parents lists all ancestors of this scope, outermost first. The first
// entry, if any, is the root.
func (s *Scope) Parents() []*Scope {
	var parents []*Scope
	for cur := s.Parent; cur != nil; cur = cur.Parent {
		parents = append(parents, cur)
	}

	for i, j := 0, len(parents)-1; i < j; i, j = i+1, j-1 {
		parents[i], parents[j] = parents[j], parents[i]
	}
	return parents
}

// Root returns the outermost ancestor, or the scope itself if it is the root.
func (s *Scope) Root() *Scope {
	cur := s
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Trace lists all scopes leading to this one, starting at the root and
// ending with the scope itself.
func (s *Scope) Trace() []*Scope {
	return append(s.Parents(), s)
}

// TraceString joins the named scopes of the trace with the delimiter. The
// root scope is not part of the trace string.
func (s *Scope) TraceString(delimiter string) string {
	var names []string
	for _, scope := range s.Trace() {
		if scope.IsRoot() || scope.Name == "" {
			continue
		}
		names = append(names, scope.Name)
	}
	return strings.Join(names, delimiter)
}

// String returns the dotted trace of this scope.
func (s *Scope) String() string {
	return s.TraceString(".")
}

// Indent is the number of spaces this scope's lines are indented by.
func (s *Scope) Indent() int {
	return len(s.Parents()) * IndentSpaces
}

// Add appends a line to this scope at its indentation level. An empty line
// stays empty.
func (s *Scope) Add(line string) {
	if line == "" {
		s.Lines = append(s.Lines, "")
		return
	}
	s.Lines = append(s.Lines, strings.Repeat(" ", s.Indent())+line)
}

// DeclaredType is a registry entry for one declared schema type: the node it
// came from, the name it was declared under, the scope it is visible in, and
// its generic parameter names (empty unless the type is generic).
type DeclaredType struct {
	Node          *schema.Node
	Name          string
	Scope         *Scope
	GenericParams []string
}

// ScopedName is the type name qualified by its declaring scope, e.g.
// "Outer.Inner" for a nested type, or just the name at the root.
func (t *DeclaredType) ScopedName() string {
	if t.Scope != nil && !t.Scope.IsRoot() {
		return t.Scope.String() + "." + t.Name
	}
	return t.Name
}

// TypeRegistry maps schema node identities to declared types. The first
// registration of an identity wins for the lifetime of one module's
// generation pass; later references reuse the record without re-emitting.
type TypeRegistry struct {
	types map[uint64]*DeclaredType
}

// NewTypeRegistry returns an empty type registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[uint64]*DeclaredType)}
}

// Register inserts (or overwrites) the declared type for an identity.
func (r *TypeRegistry) Register(id uint64, declared *DeclaredType) *DeclaredType {
	r.types[id] = declared
	return declared
}

// Known is a cheap existence check, used before recursing into generation so
// the walker terminates on cyclic or repeated references.
func (r *TypeRegistry) Known(id uint64) bool {
	_, ok := r.types[id]
	return ok
}

// Lookup returns the declared type for an identity.
func (r *TypeRegistry) Lookup(id uint64) (*DeclaredType, error) {
	declared, ok := r.types[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTypeIdentity, "type id %d", id)
	}
	return declared, nil
}
