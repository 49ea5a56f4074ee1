package generator

import (
	"github.com/tristendillon/capnp-stubgen/core/errors"
	"github.com/tristendillon/capnp-stubgen/core/logger"
	"github.com/tristendillon/capnp-stubgen/core/pytext"
	"github.com/tristendillon/capnp-stubgen/core/schema"
	"github.com/tristendillon/capnp-stubgen/core/scope"
	"github.com/tristendillon/capnp-stubgen/core/shared"
)

// GenerateAll generates declarations for every nested node of the module's
// root, recursively. Nested generation triggered while resolving field
// references re-enters the same dispatch, guarded by the type registry so no
// node is visited twice.
func (w *Writer) GenerateAll() error {
	for _, nested := range w.module.Root.NestedNodes {
		node, err := w.module.Nested(nested.Name)
		if err != nil {
			return err
		}
		if err := w.generateNested(node); err != nil {
			return err
		}
	}
	return nil
}

// generateNested dispatches one node by kind. Already known identities are
// a no-op: the first visit wins.
func (w *Writer) generateNested(node *schema.Node) error {
	if w.types.Known(node.ID) {
		return nil
	}

	switch node.Kind {
	case schema.KindConst:
		return w.genConst(node)

	case schema.KindStruct:
		_, err := w.genStruct(node, "")
		return err

	case schema.KindEnum:
		return w.genEnum(node)

	case schema.KindInterface:
		logger.Warn("Skipping interface %s: RPC interfaces are not supported.", node.ShortDisplayName())
		return nil

	case schema.KindAnnotation:
		logger.Warn("Skipping annotation %s: not implemented.", node.ShortDisplayName())
		return nil

	default:
		return errors.Wrapf(ErrUnknownKind, "node %s has kind %q", node.DisplayName, node.Kind)
	}
}

// genConst emits a module-level typed constant. Struct-valued consts have no
// primitive projection and are ignored.
func (w *Writer) genConst(node *schema.Node) error {
	if node.Const == nil || node.Const.Type == nil {
		return errors.Wrapf(ErrUnknownKind, "const node %s has no type payload", node.DisplayName)
	}

	if pythonType, ok := pytext.PrimitiveType(node.Const.Type.Kind); ok {
		w.scope.Add(pytext.NewVariable(node.ShortDisplayName(), pythonType).String())
	}

	return nil
}

// genEnum emits an enumeration class: one string-valued member per
// enumerant, in declared order, valued by the enumerant's own name.
func (w *Writer) genEnum(node *schema.Node) error {
	imported, err := w.registerImport(node)
	if err != nil || imported != nil {
		return err
	}

	name := node.ShortDisplayName()
	w.addImport("from enum import Enum")

	if _, err := w.newScope(name, node, pytext.ClassDecl(name, []string{"str", "Enum"}), true); err != nil {
		return err
	}
	w.scope.Kind = scope.KindEnum

	// Registered only after the scope is open, so the declared scope is the
	// node's lexical parent rather than whichever scope triggered generation.
	if _, err := w.registerType(node.ID, node, name, nil); err != nil {
		return err
	}

	for _, enumerant := range node.Enumerants {
		member := pytext.NewVariable(pytext.SafeName(enumerant.Name), "str")
		member.Default = "\"" + enumerant.Name + "\""
		w.scope.Add(member.String())
	}

	w.ensureBody()
	return w.returnFromScope()
}

// genGeneric computes and registers the type variables of a generic node:
// its own declared parameters plus any parameter referenced (not declared)
// by an anyPointer field pointing at an enclosing generic.
func (w *Writer) genGeneric(node *schema.Node) ([]string, error) {
	w.addTypingImport("TypeVar")
	w.addTypingImport("Generic")

	var params []string
	for _, param := range node.Parameters {
		params = append(params, param.Name)
	}

	for i := range node.Fields {
		field := &node.Fields[i]
		if field.Which() != schema.FieldSlot {
			continue
		}

		slotType := field.Slot.Type
		if slotType.Kind != schema.TypeAnyPointer || slotType.AnyPointer == nil || slotType.AnyPointer.Parameter == nil {
			continue
		}

		ref := slotType.AnyPointer.Parameter
		if ref.ScopeID == node.ID {
			// Own parameter, already covered by the declared list.
			continue
		}

		ancestor, err := w.types.Lookup(ref.ScopeID)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q references a parameter of an unregistered generic scope", field.Name)
		}

		source := ancestor.Node
		if ref.Index >= len(source.Parameters) {
			return nil, errors.Wrapf(ErrInvariantViolation, "field %q references parameter %d of %s, which declares %d",
				field.Name, ref.Index, source.ShortDisplayName(), len(source.Parameters))
		}
		params = append(params, source.Parameters[ref.Index].Name)
	}

	registered := make([]string, 0, len(params))
	for _, param := range params {
		registered = append(registered, w.registerTypeVar(param))
	}
	return registered, nil
}

// genStruct emits a class declaration for a struct node, its fields and
// accessors, and its Builder and Reader companion classes. The typeName
// override is used for group fields, which synthesize their own type name.
func (w *Writer) genStruct(node *schema.Node, typeName string) (*scope.DeclaredType, error) {
	imported, err := w.registerImport(node)
	if err != nil {
		return nil, err
	}
	if imported != nil {
		return imported, nil
	}

	if typeName == "" {
		typeName = node.ShortDisplayName()
	}

	var registeredParams []string
	if node.IsGeneric {
		if registeredParams, err = w.genGeneric(node); err != nil {
			return nil, err
		}
	}

	var classDecl string
	if len(registeredParams) > 0 {
		classDecl = pytext.ClassDecl(typeName, []string{pytext.Group("Generic", registeredParams)})
	} else {
		classDecl = pytext.ClassDecl(typeName, nil)
	}

	// The class declaration is written to the parent only after all nested
	// schemas were expanded, so their declarations precede it.
	parentScope, err := w.newScope(typeName, node, "", true)
	if err != nil {
		return nil, err
	}

	newType, err := w.registerType(node.ID, node, typeName, nil)
	if err != nil {
		return nil, err
	}
	newType.GenericParams = registeredParams

	builderName := pytext.BuilderName(newType.Name)
	readerName := pytext.ReaderName(newType.Name)
	scopedBuilderName := pytext.BuilderName(newType.ScopedName())
	scopedReaderName := pytext.ReaderName(newType.ScopedName())

	var initChoices []initChoice
	var slotFields []*pytext.Variable

	for i := range node.Fields {
		field := &node.Fields[i]

		switch field.Which() {
		case schema.FieldSlot:
			slotField, err := w.genSlot(field, newType, &initChoices)
			if err != nil {
				return nil, err
			}
			if slotField != nil {
				slotFields = append(slotFields, slotField)
			}

		case schema.FieldGroup:
			groupName := shared.ToTitle(field.Name)
			if groupName == field.Name {
				return nil, errors.Wrapf(ErrInvariantViolation, "group field %q of %s collides with its synthesized type name",
					field.Name, typeName)
			}

			groupNode, err := w.node(field.Group.TypeID)
			if err != nil {
				return nil, err
			}

			groupType, err := w.genStruct(groupNode, groupName)
			if err != nil {
				return nil, err
			}

			groupField := pytext.NewVariable(field.Name, groupType.Name)
			groupField.AddBuilderHint()
			groupField.AddReaderHint()
			groupField.AddScope(typeName)

			slotFields = append(slotFields, groupField)
			initChoices = append(initChoices, initChoice{fieldName: field.Name, typeName: groupType.Name})

		default:
			return nil, errors.Wrapf(ErrUnknownKind, "%s: field %q", node.DisplayName, field.Name)
		}
	}

	parentScope.Add(classDecl)

	for _, slotField := range slotFields {
		w.scope.Add(slotField.String())
	}

	if node.DiscriminantCount > 0 {
		w.addTypingImport("Literal")

		var fieldNames []string
		for i := range node.Fields {
			if node.Fields[i].DiscriminantValue != schema.NoDiscriminant {
				fieldNames = append(fieldNames, "\""+node.Fields[i].Name+"\"")
			}
		}

		w.scope.Add(pytext.Function("which", []string{"self"}, pytext.Group("Literal", fieldNames)))
	}

	if len(slotFields) > 0 {
		kwargs := make([]string, 0, len(slotFields))
		for _, slotField := range slotFields {
			kwargs = append(kwargs, slotField.Name)
		}
		w.scope.Add(pytext.Constructor(kwargs))
	}

	w.genInitAccessors(typeName, initChoices)
	w.genByteAccessors(scopedBuilderName, scopedReaderName)

	w.ensureBody()
	if err := w.returnFromScope(); err != nil {
		return nil, err
	}

	if err := w.genReader(node, readerName, newType, scopedBuilderName, slotFields); err != nil {
		return nil, err
	}

	if err := w.genBuilder(node, builderName, newType, scopedBuilderName, scopedReaderName, slotFields); err != nil {
		return nil, err
	}

	return newType, nil
}

// genInitAccessors emits the union init accessors: one constrained accessor
// for a single choice, otherwise one overload per choice plus a catch-all.
func (w *Writer) genInitAccessors(typeName string, initChoices []initChoice) {
	const sizeParam = "size: int = 1"

	switch len(initChoices) {
	case 0:
		w.scope.Add(pytext.Function("init", []string{"self", "name: str", sizeParam}, typeName))

	case 1:
		w.addTypingImport("Literal")
		choice := initChoices[0]
		w.scope.Add(pytext.Function("init",
			[]string{"self", "name: Literal[\"" + choice.fieldName + "\"]", sizeParam}, choice.typeName))

	default:
		w.addTypingImport("Literal")
		w.addTypingImport("overload")

		for _, choice := range initChoices {
			w.scope.Add(pytext.Decorator("overload"))
			w.scope.Add(pytext.Function("init",
				[]string{"self", "name: Literal[\"" + choice.fieldName + "\"]", sizeParam}, choice.typeName))
		}

		w.scope.Add(pytext.Decorator("overload"))
		w.scope.Add(pytext.Function("init", []string{"self", "name: str", sizeParam}, typeName))
	}
}

// genByteAccessors emits the static from-bytes constructors and the message
// accessors shared by every struct class.
func (w *Writer) genByteAccessors(scopedBuilderName, scopedReaderName string) {
	w.addTypingImport("Iterator")
	w.addImport("from contextlib import contextmanager")

	limitParams := []string{
		"data: bytes",
		"traversal_limit_in_words: int | None = ...",
		"nesting_limit: int | None = ...",
	}

	w.scope.Add(pytext.Decorator("staticmethod"))
	w.scope.Add(pytext.Decorator("contextmanager"))
	w.scope.Add(pytext.Function("from_bytes", limitParams, pytext.Group("Iterator", []string{scopedReaderName})))

	w.scope.Add(pytext.Decorator("staticmethod"))
	w.scope.Add(pytext.Function("from_bytes_packed", limitParams, scopedReaderName))

	w.scope.Add(pytext.Decorator("staticmethod"))
	w.scope.Add(pytext.Function("new_message", nil, scopedBuilderName))
	w.scope.Add(pytext.Function("to_dict", []string{"self"}, "dict"))

	w.addImport("from io import BufferedWriter")
}

// genReader emits the Reader companion class: reader-affixed field hints and
// the as_builder accessor.
func (w *Writer) genReader(node *schema.Node, readerName string, newType *scope.DeclaredType, scopedBuilderName string, slotFields []*pytext.Variable) error {
	parentScope, err := w.newScope(readerName, node, "", false)
	if err != nil {
		return err
	}

	for _, slotField := range slotFields {
		if slotField.HasReaderHint() {
			w.scope.Add(slotField.WithAffixes([]string{pytext.ReaderAffix}))
		}
	}

	parentScope.Add(pytext.ClassDecl(readerName, []string{newType.ScopedName()}))
	w.scope.Add(pytext.Function("as_builder", []string{"self"}, scopedBuilderName))

	return w.returnFromScope()
}

// genBuilder emits the Builder companion class: fully hinted fields, the
// dict and byte serialization accessors, and the static write helpers.
func (w *Writer) genBuilder(node *schema.Node, builderName string, newType *scope.DeclaredType, scopedBuilderName, scopedReaderName string, slotFields []*pytext.Variable) error {
	parentScope, err := w.newScope(builderName, node, "", false)
	if err != nil {
		return err
	}

	for _, slotField := range slotFields {
		if slotField.HasBuilderHint() {
			w.scope.Add(slotField.String())
		}
	}

	w.scope.Add(pytext.Decorator("staticmethod"))
	w.scope.Add(pytext.Function("from_dict", []string{"dictionary: dict"}, scopedBuilderName))

	w.scope.Add(pytext.Function("copy", []string{"self"}, scopedBuilderName))
	w.scope.Add(pytext.Function("to_bytes", []string{"self"}, "bytes"))
	w.scope.Add(pytext.Function("to_bytes_packed", []string{"self"}, "bytes"))
	w.scope.Add(pytext.Function("to_segments", []string{"self"}, pytext.Group("list", []string{"bytes"})))

	parentScope.Add(pytext.ClassDecl(builderName, []string{newType.ScopedName()}))

	w.scope.Add(pytext.Function("as_reader", []string{"self"}, scopedReaderName))

	w.scope.Add(pytext.Decorator("staticmethod"))
	w.scope.Add(pytext.Function("write", []string{"file: BufferedWriter"}, ""))

	w.scope.Add(pytext.Decorator("staticmethod"))
	w.scope.Add(pytext.Function("write_packed", []string{"file: BufferedWriter"}, ""))

	return w.returnFromScope()
}
