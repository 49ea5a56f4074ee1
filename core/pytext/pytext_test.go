package pytext

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tristendillon/capnp-stubgen/core/schema"
)

func TestPrimitiveType(t *testing.T) {
	cases := []struct {
		kind schema.TypeKind
		want string
	}{
		{schema.TypeVoid, "None"},
		{schema.TypeBool, "bool"},
		{schema.TypeInt32, "int"},
		{schema.TypeUint64, "int"},
		{schema.TypeFloat32, "float"},
		{schema.TypeText, "str"},
		{schema.TypeData, "bytes"},
	}

	for _, tc := range cases {
		got, ok := PrimitiveType(tc.kind)
		assert.True(t, ok, string(tc.kind))
		assert.Equal(t, tc.want, got)
	}

	_, ok := PrimitiveType(schema.TypeStruct)
	assert.False(t, ok, "struct is not a primitive")
	_, ok = PrimitiveType(schema.TypeList)
	assert.False(t, ok, "list is not a primitive")
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "import_", SafeName("import"))
	assert.Equal(t, "None_", SafeName("None"))
	assert.Equal(t, "value", SafeName("value"))
}

func TestAffixNames(t *testing.T) {
	assert.Equal(t, "MyClassBuilder", BuilderName("MyClass"))
	assert.Equal(t, "MyClassReader", ReaderName("MyClass"))
}

func TestReplaceCapnpSuffix(t *testing.T) {
	assert.Equal(t, "some_module_capnp", ReplaceCapnpSuffix("some_module.capnp"))
	assert.Equal(t, "unrelated.txt", ReplaceCapnpSuffix("unrelated.txt"))
	assert.Equal(t, "dir.sub_capnp", ReplaceCapnpSuffix("dir.sub.capnp"))
}

func TestDeclarationRendering(t *testing.T) {
	assert.Equal(t, "class Dummy:", ClassDecl("Dummy", nil))
	assert.Equal(t, "class Dummy(Enum):", ClassDecl("Dummy", []string{"Enum"}))
	assert.Equal(t, "Literal[\"a\", \"b\"]", Group("Literal", []string{"\"a\"", "\"b\""}))
	assert.Equal(t, "@overload", Decorator("overload"))
	assert.Equal(t, "alias = Target", TypeAlias("alias", "Target"))
	assert.Equal(t, "def which(self) -> str: ...", Function("which", []string{"self"}, "str"))
	assert.Equal(t, "def write(file: BufferedWriter) -> None: ...", Function("write", []string{"file: BufferedWriter"}, ""))
}

func TestConstructor(t *testing.T) {
	assert.Equal(t, "def __init__(self) -> None: ...", Constructor(nil))
	assert.Equal(t,
		"def __init__(self, *, name = ..., id = ...) -> None: ...",
		Constructor([]string{"name", "id"}))
}

func TestVariableRendering(t *testing.T) {
	v := NewVariable("field", "Thing")
	assert.Equal(t, "field: Thing", v.String())

	v.AddBuilderHint()
	v.AddReaderHint()
	assert.Equal(t, "field: Thing | ThingBuilder | ThingReader", v.String())
	assert.True(t, v.HasBuilderHint())
	assert.True(t, v.HasReaderHint())

	assert.Equal(t, "field: ThingReader", v.WithAffixes([]string{ReaderAffix}))
}

func TestVariableScopesAndNesting(t *testing.T) {
	v := NewVariable("entries", "Entry")
	v.AddBuilderHint()
	v.AddReaderHint()
	v.AddScope("Map")
	v.NestingDepth = 1

	assert.Equal(t, "entries: Sequence[Map.Entry | Map.EntryBuilder | Map.EntryReader]", v.String())

	deep := NewVariable("rows", "float")
	deep.NestingDepth = 2
	assert.Equal(t, "rows: Sequence[Sequence[float]]", deep.String())
}

func TestVariableDefault(t *testing.T) {
	v := NewVariable("count", "int")
	v.Default = "0"
	assert.Equal(t, "count: int = 0", v.String())
}
