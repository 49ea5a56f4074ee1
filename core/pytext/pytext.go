// Package pytext assembles the Python declaration text that the generator
// emits: typed variables with builder/reader hints, class and function
// signatures, decorators, and the capnp-to-Python primitive mapping.
package pytext

import (
	"strings"

	"github.com/tristendillon/capnp-stubgen/core/schema"
)

// Builder and reader companion class affixes.
const (
	BuilderAffix = "Builder"
	ReaderAffix  = "Reader"
)

// primitiveTypes maps capnp primitive kinds to Python type names.
var primitiveTypes = map[schema.TypeKind]string{
	schema.TypeVoid:    "None",
	schema.TypeBool:    "bool",
	schema.TypeInt8:    "int",
	schema.TypeInt16:   "int",
	schema.TypeInt32:   "int",
	schema.TypeInt64:   "int",
	schema.TypeUint8:   "int",
	schema.TypeUint16:  "int",
	schema.TypeUint32:  "int",
	schema.TypeUint64:  "int",
	schema.TypeFloat32: "float",
	schema.TypeFloat64: "float",
	schema.TypeText:    "str",
	schema.TypeData:    "bytes",
}

// pythonKeywords is the reserved word set of the target declaration language.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// PrimitiveType returns the Python name for a capnp primitive kind.
func PrimitiveType(kind schema.TypeKind) (string, bool) {
	name, ok := primitiveTypes[kind]
	return name, ok
}

// SafeName suffixes a name with an underscore if it collides with a Python
// keyword. Everything else passes through unchanged.
func SafeName(name string) string {
	if pythonKeywords[name] {
		return name + "_"
	}
	return name
}

// BuilderName converts a type name to its builder variant, e.g. "MyClass"
// becomes "MyClassBuilder".
func BuilderName(typeName string) string {
	return typeName + BuilderAffix
}

// ReaderName converts a type name to its reader variant.
func ReaderName(typeName string) string {
	return typeName + ReaderAffix
}

// ReplaceCapnpSuffix turns a ".capnp" suffix into "_capnp", e.g.
// "some_module.capnp" becomes "some_module_capnp".
func ReplaceCapnpSuffix(original string) string {
	if strings.HasSuffix(original, ".capnp") {
		return strings.TrimSuffix(original, ".capnp") + "_capnp"
	}
	return original
}

// JoinParams joins non-empty parameters with ", ".
func JoinParams(params []string) string {
	var kept []string
	for _, p := range params {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// Group renders a bracketed group, e.g. Group("Literal", []string{`"a"`})
// gives `Literal["a"]`.
func Group(name string, members []string) string {
	return name + "[" + JoinParams(members) + "]"
}

// TypeAlias renders `alias = typeName`.
func TypeAlias(alias, typeName string) string {
	return alias + " = " + typeName
}

// Function renders a body-less function declaration. A nil return type
// defaults to None.
func Function(name string, params []string, returnType string) string {
	if returnType == "" {
		returnType = "None"
	}
	return "def " + name + "(" + JoinParams(params) + ") -> " + returnType + ": ..."
}

// Decorator renders `@name`.
func Decorator(name string) string {
	return "@" + name
}

// Constructor renders a keyword-only `__init__` signature over the given
// field names, each defaulted to `...`.
func Constructor(kwargs []string) string {
	params := []string{"self"}
	if len(kwargs) > 0 {
		keyworded := []string{"*"}
		for _, kw := range kwargs {
			keyworded = append(keyworded, kw+" = ...")
		}
		params = append(params, JoinParams(keyworded))
	}
	return Function("__init__", params, "")
}

// ClassDecl renders a class declaration, with base parameters when given.
func ClassDecl(name string, params []string) string {
	if len(params) > 0 {
		return "class " + name + "(" + JoinParams(params) + "):"
	}
	return "class " + name + ":"
}

// Hint is one type hint of a variable: a name, optional scope qualifiers,
// and an optional Builder/Reader affix. Exactly one hint per variable is the
// primary one.
type Hint struct {
	Name    string
	Scopes  []string
	Affix   string
	Primary bool
}

// String renders the hint as scope-qualified name plus affix.
func (h Hint) String() string {
	if len(h.Scopes) == 0 {
		return h.Name + h.Affix
	}
	return strings.Join(h.Scopes, ".") + "." + h.Name + h.Affix
}

// Variable is a declared variable with one or more type hints. NestingDepth
// wraps the hint union in that many Sequence[...] layers.
type Variable struct {
	Name         string
	Hints        []Hint
	Default      string
	NestingDepth int
}

// NewVariable creates a variable with a single primary type hint.
func NewVariable(name, typeName string) *Variable {
	return &Variable{Name: name, Hints: []Hint{{Name: typeName, Primary: true}}}
}

// Primary returns the primary type hint.
func (v *Variable) Primary() Hint {
	for _, hint := range v.Hints {
		if hint.Primary {
			return hint
		}
	}
	return Hint{}
}

// AddHint appends a non-primary hint.
func (v *Variable) AddHint(hint Hint) {
	hint.Primary = false
	v.Hints = append(v.Hints, hint)
}

// AddBuilderHint derives a Builder-affixed hint from the primary type.
func (v *Variable) AddBuilderHint() {
	primary := v.Primary()
	v.AddHint(Hint{Name: primary.Name, Scopes: append([]string(nil), primary.Scopes...), Affix: BuilderAffix})
}

// AddReaderHint derives a Reader-affixed hint from the primary type.
func (v *Variable) AddReaderHint() {
	primary := v.Primary()
	v.AddHint(Hint{Name: primary.Name, Scopes: append([]string(nil), primary.Scopes...), Affix: ReaderAffix})
}

// AddScope prefixes every hint of the variable with a scope name.
func (v *Variable) AddScope(scopeName string) {
	for i := range v.Hints {
		v.Hints[i].Scopes = append(v.Hints[i].Scopes, scopeName)
	}
}

// HasReaderHint reports whether any hint carries the reader affix.
func (v *Variable) HasReaderHint() bool {
	return v.hasAffix(ReaderAffix)
}

// HasBuilderHint reports whether any hint carries the builder affix.
func (v *Variable) HasBuilderHint() bool {
	return v.hasAffix(BuilderAffix)
}

func (v *Variable) hasAffix(affix string) bool {
	for _, hint := range v.Hints {
		if hint.Affix == affix {
			return true
		}
	}
	return false
}

// String renders the variable with all of its hints.
func (v *Variable) String() string {
	return v.render(v.joinHints(v.Hints))
}

// WithAffixes renders the variable typed only by the hints carrying the
// given affixes, e.g. "field: SomethingReader".
func (v *Variable) WithAffixes(affixes []string) string {
	var hints []Hint
	for _, affix := range affixes {
		for _, hint := range v.Hints {
			if hint.Affix == affix {
				hints = append(hints, hint)
			}
		}
	}
	return v.render(v.joinHints(hints))
}

func (v *Variable) joinHints(hints []Hint) string {
	parts := make([]string, 0, len(hints))
	for _, hint := range hints {
		parts = append(parts, hint.String())
	}
	return strings.Join(parts, " | ")
}

func (v *Variable) render(typeName string) string {
	nested := typeName
	if v.NestingDepth > 0 {
		nested = strings.Repeat("Sequence[", v.NestingDepth) + typeName + strings.Repeat("]", v.NestingDepth)
	}

	typed := v.Name + ": " + nested
	if v.Default != "" {
		return typed + " = " + v.Default
	}
	return typed
}
