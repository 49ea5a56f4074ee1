// Package schema models the parsed Cap'n Proto schema graph that the stub
// generator consumes. The graph is produced by an external schema parser and
// handed over in a serialized form; this package never parses capnp syntax
// itself, it only navigates the resulting node graph.
package schema

import (
	"path/filepath"
	"strings"

	"github.com/tristendillon/capnp-stubgen/core/errors"
)

// NoDiscriminant marks a field that is not part of a discriminated union.
const NoDiscriminant = 65535

// NodeKind enumerates the supported schema node categories.
type NodeKind string

const (
	KindFile       NodeKind = "file"
	KindStruct     NodeKind = "struct"
	KindEnum       NodeKind = "enum"
	KindInterface  NodeKind = "interface"
	KindConst      NodeKind = "const"
	KindAnnotation NodeKind = "annotation"
)

// Valid reports whether the kind is one of the closed set of node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindFile, KindStruct, KindEnum, KindInterface, KindConst, KindAnnotation:
		return true
	}
	return false
}

// FieldKind distinguishes slot fields from group fields.
type FieldKind string

const (
	FieldSlot  FieldKind = "slot"
	FieldGroup FieldKind = "group"
)

// TypeKind enumerates the slot type variants of a capnp schema.
type TypeKind string

const (
	TypeVoid       TypeKind = "void"
	TypeBool       TypeKind = "bool"
	TypeInt8       TypeKind = "int8"
	TypeInt16      TypeKind = "int16"
	TypeInt32      TypeKind = "int32"
	TypeInt64      TypeKind = "int64"
	TypeUint8      TypeKind = "uint8"
	TypeUint16     TypeKind = "uint16"
	TypeUint32     TypeKind = "uint32"
	TypeUint64     TypeKind = "uint64"
	TypeFloat32    TypeKind = "float32"
	TypeFloat64    TypeKind = "float64"
	TypeText       TypeKind = "text"
	TypeData       TypeKind = "data"
	TypeList       TypeKind = "list"
	TypeEnum       TypeKind = "enum"
	TypeStruct     TypeKind = "struct"
	TypeInterface  TypeKind = "interface"
	TypeAnyPointer TypeKind = "anyPointer"
)

// BrandKind describes how a generic scope binds its parameters at a use site.
type BrandKind string

const (
	BrandInherit BrandKind = "inherit"
	BrandBind    BrandKind = "bind"
)

// Node is one element of the schema graph. The ID is globally unique across
// all modules of a run; ScopeID names the enclosing node.
type Node struct {
	ID                      uint64       `json:"id"`
	Kind                    NodeKind     `json:"kind"`
	DisplayName             string       `json:"displayName"`
	DisplayNamePrefixLength int          `json:"displayNamePrefixLength"`
	ScopeID                 uint64       `json:"scopeId"`
	IsGeneric               bool         `json:"isGeneric,omitempty"`
	Parameters              []Parameter  `json:"parameters,omitempty"`
	NestedNodes             []NestedNode `json:"nestedNodes,omitempty"`
	Fields                  []Field      `json:"fields,omitempty"`
	DiscriminantCount       int          `json:"discriminantCount,omitempty"`
	Enumerants              []Enumerant  `json:"enumerants,omitempty"`
	Const                   *Const       `json:"const,omitempty"`
}

// ShortDisplayName strips the scope prefix from the node's display name,
// e.g. "schema.capnp:Outer.Inner" with prefix length 20 yields "Inner".
func (n *Node) ShortDisplayName() string {
	if n.DisplayNamePrefixLength >= len(n.DisplayName) {
		return n.DisplayName
	}
	return n.DisplayName[n.DisplayNamePrefixLength:]
}

// QualifyingModuleName returns the module part of the display name, i.e.
// everything before the ":" separator. For file nodes this is the whole name.
func (n *Node) QualifyingModuleName() string {
	name, _, _ := strings.Cut(n.DisplayName, ":")
	return name
}

// DefinitionName returns the definition part of the display name, i.e.
// everything after the ":" separator.
func (n *Node) DefinitionName() string {
	_, def, ok := strings.Cut(n.DisplayName, ":")
	if !ok {
		return n.DisplayName
	}
	return def
}

// Parameter is a generic type parameter declared on a node.
type Parameter struct {
	Name string `json:"name"`
}

// NestedNode references a child declaration of a node by name and identity.
type NestedNode struct {
	Name string `json:"name"`
	ID   uint64 `json:"id"`
}

// Field is a struct member, either a slot holding a value or a group holding
// an anonymous nested struct. A DiscriminantValue other than NoDiscriminant
// places the field in the struct's discriminated union.
type Field struct {
	Name              string `json:"name"`
	DiscriminantValue int    `json:"discriminantValue"`
	Slot              *Slot  `json:"slot,omitempty"`
	Group             *Group `json:"group,omitempty"`
}

// Which returns the field variant.
func (f *Field) Which() FieldKind {
	if f.Group != nil {
		return FieldGroup
	}
	return FieldSlot
}

// Slot is the value-holding variant of a field.
type Slot struct {
	Type *Type `json:"type"`
}

// Group is the nested-struct variant of a field; TypeID names the
// synthesized group node.
type Group struct {
	TypeID uint64 `json:"typeId"`
}

// Type is the closed variant describing what a slot holds. Exactly the
// payload matching Kind is populated.
type Type struct {
	Kind       TypeKind    `json:"kind"`
	List       *List       `json:"list,omitempty"`
	Enum       *EnumRef    `json:"enum,omitempty"`
	Struct     *StructRef  `json:"struct,omitempty"`
	AnyPointer *AnyPointer `json:"anyPointer,omitempty"`
}

// List is the element type of a list slot.
type List struct {
	ElementType *Type `json:"elementType"`
}

// EnumRef references an enum declaration by node identity.
type EnumRef struct {
	TypeID uint64 `json:"typeId"`
}

// StructRef references a struct declaration by node identity, together with
// the brand scopes that bind its generic parameters at this use site.
type StructRef struct {
	TypeID uint64       `json:"typeId"`
	Brand  []BrandScope `json:"brand,omitempty"`
}

// BrandScope binds the parameters of one generic scope, either by inheriting
// them from the enclosing generic or by binding them to concrete types.
type BrandScope struct {
	Kind    BrandKind      `json:"kind"`
	ScopeID uint64         `json:"scopeId"`
	Bind    []BrandBinding `json:"bind,omitempty"`
}

// BrandBinding is one explicitly bound parameter type.
type BrandBinding struct {
	Type *Type `json:"type"`
}

// AnyPointer is the payload of an anyPointer slot. When Parameter is set the
// pointer refers to a generic type parameter of an enclosing scope.
type AnyPointer struct {
	Parameter *ParameterRef `json:"parameter,omitempty"`
}

// ParameterRef points at parameter Index of the generic node ScopeID.
type ParameterRef struct {
	ScopeID uint64 `json:"scopeId"`
	Index   int    `json:"parameterIndex"`
}

// Enumerant is one member of an enum declaration.
type Enumerant struct {
	Name string `json:"name"`
}

// Const is the payload of a const node.
type Const struct {
	Type *Type `json:"type"`
}

// Module is one compiled schema file: its source path, root file node, and
// every node declared in the file keyed by identity.
type Module struct {
	Path string
	Root *Node

	nodes map[uint64]*Node
}

// NewModule assembles a module from its source path, root node id and flat
// node list. Every node referenced as the root must be present in the list.
func NewModule(path string, rootID uint64, nodes []*Node) (*Module, error) {
	byID := make(map[uint64]*Node, len(nodes))
	for _, node := range nodes {
		if !node.Kind.Valid() {
			return nil, errors.Newf("node %d (%s): unrecognized node kind %q", node.ID, node.DisplayName, node.Kind)
		}
		byID[node.ID] = node
	}

	root, ok := byID[rootID]
	if !ok {
		return nil, errors.Newf("root node %d is missing from the schema graph of %s", rootID, path)
	}

	return &Module{Path: path, Root: root, nodes: byID}, nil
}

// Node looks up a node of this module by identity.
func (m *Module) Node(id uint64) (*Node, bool) {
	node, ok := m.nodes[id]
	return node, ok
}

// Nested resolves a direct child of the root node by name.
func (m *Module) Nested(name string) (*Node, error) {
	for _, nested := range m.Root.NestedNodes {
		if nested.Name != name {
			continue
		}
		node, ok := m.nodes[nested.ID]
		if !ok {
			return nil, errors.Newf("nested node %q (%d) is missing from the schema graph of %s", name, nested.ID, m.Path)
		}
		return node, nil
	}
	return nil, errors.Newf("module %s has no nested node %q", m.Path, name)
}

// DisplayName is the base file name of the module, e.g. "dummy.capnp".
func (m *Module) DisplayName() string {
	return filepath.Base(m.Root.DisplayName)
}

// FullDisplayName is the display name of the module's root node.
func (m *Module) FullDisplayName() string {
	return m.Root.DisplayName
}
