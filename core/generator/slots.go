package generator

import (
	"github.com/tristendillon/capnp-stubgen/core/errors"
	"github.com/tristendillon/capnp-stubgen/core/pytext"
	"github.com/tristendillon/capnp-stubgen/core/schema"
	"github.com/tristendillon/capnp-stubgen/core/scope"
)

// genSlot generates the typed field for a slot, dispatched by the slot's
// type kind. Union init choices discovered along the way are appended to
// initChoices. A nil variable with nil error means the slot produces no
// declaration (unparameterized anyPointer).
func (w *Writer) genSlot(field *schema.Field, newType *scope.DeclaredType, initChoices *[]initChoice) (*pytext.Variable, error) {
	slotType := field.Slot.Type

	if pythonType, ok := pytext.PrimitiveType(slotType.Kind); ok {
		return pytext.NewVariable(field.Name, pythonType), nil
	}

	switch slotType.Kind {
	case schema.TypeList:
		return w.genListSlot(field)

	case schema.TypeEnum:
		return w.genEnumSlot(field)

	case schema.TypeStruct:
		slotField, err := w.genStructSlot(field, initChoices)
		if err != nil {
			return nil, err
		}
		slotField.AddBuilderHint()
		slotField.AddReaderHint()
		return slotField, nil

	case schema.TypeAnyPointer:
		return w.genAnyPointerSlot(field, newType)

	default:
		return nil, errors.Wrapf(ErrUnknownKind, "field %q: slot type %q", field.Name, slotType.Kind)
	}
}

// genListSlot generates a list field: the element type is generated first if
// it is a declaration, then the field is typed as that many Sequence layers
// around the element type.
func (w *Writer) genListSlot(field *schema.Field) (*pytext.Variable, error) {
	depth := 0
	elem := field.Slot.Type
	for elem.Kind == schema.TypeList {
		if elem.List == nil || elem.List.ElementType == nil {
			return nil, errors.Wrapf(ErrUnknownKind, "field %q: list without element type", field.Name)
		}
		elem = elem.List.ElementType
		depth++
	}

	w.addTypingImport("Sequence")

	extended := false
	var typeName string

	if pythonType, ok := pytext.PrimitiveType(elem.Kind); ok {
		typeName = pythonType
	} else {
		switch elem.Kind {
		case schema.TypeEnum:
			if err := w.ensureGenerated(elem.Enum.TypeID); err != nil {
				return nil, err
			}

		case schema.TypeStruct:
			if err := w.ensureGenerated(elem.Struct.TypeID); err != nil {
				return nil, err
			}
			extended = true

		default:
			return nil, errors.Wrapf(ErrUnknownKind, "field %q: list of %q", field.Name, elem.Kind)
		}

		resolved, err := w.typeName(elem)
		if err != nil {
			return nil, err
		}
		typeName = resolved
	}

	slotField := pytext.NewVariable(field.Name, typeName)
	slotField.NestingDepth = depth

	if extended {
		slotField.AddBuilderHint()
		slotField.AddReaderHint()
	}

	return slotField, nil
}

// genEnumSlot generates an enum-typed field, generating the referenced enum
// first if it is not yet known.
func (w *Writer) genEnumSlot(field *schema.Field) (*pytext.Variable, error) {
	if err := w.ensureGenerated(field.Slot.Type.Enum.TypeID); err != nil {
		return nil, err
	}

	typeName, err := w.typeName(field.Slot.Type)
	if err != nil {
		return nil, err
	}
	return pytext.NewVariable(field.Name, typeName), nil
}

// genStructSlot generates a struct-typed field, generating the referenced
// struct first if unknown, and records it as a union init choice.
func (w *Writer) genStructSlot(field *schema.Field, initChoices *[]initChoice) (*pytext.Variable, error) {
	structID := field.Slot.Type.Struct.TypeID

	if !w.types.Known(structID) {
		node, err := w.node(structID)
		if err != nil {
			return nil, err
		}
		if _, err := w.genStruct(node, ""); err != nil {
			return nil, err
		}
	}

	typeName, err := w.typeName(field.Slot.Type)
	if err != nil {
		return nil, err
	}

	*initChoices = append(*initChoices, initChoice{fieldName: field.Name, typeName: typeName})
	return pytext.NewVariable(field.Name, typeName), nil
}

// genAnyPointerSlot resolves an anyPointer field that references a generic
// parameter to the registered type variable at that index. Unparameterized
// pointers produce no declaration.
func (w *Writer) genAnyPointerSlot(field *schema.Field, newType *scope.DeclaredType) (*pytext.Variable, error) {
	pointer := field.Slot.Type.AnyPointer
	if pointer == nil || pointer.Parameter == nil {
		return nil, nil
	}

	index := pointer.Parameter.Index
	if index >= len(newType.GenericParams) {
		return nil, errors.Wrapf(ErrInvariantViolation, "field %q references parameter %d but %s registered %d type variables",
			field.Name, index, newType.Name, len(newType.GenericParams))
	}

	return pytext.NewVariable(field.Name, newType.GenericParams[index]), nil
}

// ensureGenerated generates the declaration for a node identity unless it is
// already known. A node whose enclosing scope was never registered is a hard
// error that aborts the module.
func (w *Writer) ensureGenerated(id uint64) error {
	if w.types.Known(id) {
		return nil
	}

	node, err := w.node(id)
	if err != nil {
		return err
	}
	return w.generateNested(node)
}
