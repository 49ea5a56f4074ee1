package generator

import (
	"path/filepath"
	"strings"

	"github.com/tristendillon/capnp-stubgen/core/errors"
	"github.com/tristendillon/capnp-stubgen/core/pytext"
	"github.com/tristendillon/capnp-stubgen/core/schema"
	"github.com/tristendillon/capnp-stubgen/core/scope"
)

// registerImport checks whether a node belongs to a different module. If so,
// a relative import statement is added and the node is registered as a type
// at the importing module's root, so later references resolve as if it were
// locally declared. Returns nil for locally declared nodes. Registration is
// memoized through the type registry; re-importing an identity is a no-op.
func (w *Writer) registerImport(node *schema.Node) (*scope.DeclaredType, error) {
	if node.QualifyingModuleName() == w.module.FullDisplayName() {
		// Declared by the module being generated, not an import.
		return nil, nil
	}

	if w.types.Known(node.ID) {
		return w.types.Lookup(node.ID)
	}

	matches := w.registry.DeclaringModules(node.ID)
	if len(matches) != 1 {
		return nil, errors.Wrapf(ErrAmbiguousImport, "%d modules declare node %d (%s)",
			len(matches), node.ID, node.DisplayName)
	}
	matched := matches[0]

	definitionName := node.DefinitionName()

	importPath, err := relativeImportPath(w.module.Path, matched.Path)
	if err != nil {
		return nil, err
	}

	w.addImport("from " + importPath + " import " +
		pytext.JoinParams([]string{definitionName, pytext.BuilderName(definitionName), pytext.ReaderName(definitionName)}))

	return w.registerType(node.ID, node, definitionName, w.scope.Root())
}

// relativeImportPath builds the dotted relative Python import path from the
// module at currentPath to the module at matchedPath: one leading dot per
// path segment between the current module and the common ancestor directory,
// then the dotted remainder of the matched module's path with its schema
// suffix replaced by the declaration-module suffix.
func relativeImportPath(currentPath, matchedPath string) (string, error) {
	common := commonAncestor(currentPath, matchedPath)

	relModule, err := filepath.Rel(common, currentPath)
	if err != nil {
		return "", errors.Wrapf(err, "no relative path from %s to %s", common, currentPath)
	}

	relImport, err := filepath.Rel(common, matchedPath)
	if err != nil {
		return "", errors.Wrapf(err, "no relative path from %s to %s", common, matchedPath)
	}

	dots := strings.Repeat(".", len(pathSegments(relModule)))
	return dots + pytext.ReplaceCapnpSuffix(strings.Join(pathSegments(relImport), ".")), nil
}

// commonAncestor returns the longest common ancestor directory of two file
// paths.
func commonAncestor(a, b string) string {
	aSegments := pathSegments(filepath.Dir(filepath.Clean(a)))
	bSegments := pathSegments(filepath.Dir(filepath.Clean(b)))

	var common []string
	for i := 0; i < len(aSegments) && i < len(bSegments); i++ {
		if aSegments[i] != bSegments[i] {
			break
		}
		common = append(common, aSegments[i])
	}

	if len(common) == 0 {
		if strings.HasPrefix(filepath.Clean(a), string(filepath.Separator)) &&
			strings.HasPrefix(filepath.Clean(b), string(filepath.Separator)) {
			return string(filepath.Separator)
		}
		return "."
	}
	joined := strings.Join(common, string(filepath.Separator))
	if strings.HasPrefix(filepath.Clean(a), string(filepath.Separator)) && !strings.HasPrefix(joined, string(filepath.Separator)) {
		// Segment splitting drops the leading separator of absolute paths.
		joined = string(filepath.Separator) + joined
	}
	return joined
}

func pathSegments(path string) []string {
	cleaned := filepath.ToSlash(filepath.Clean(path))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." || cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, "/")
}

// typeName renders the emitted declaration text for a field's type:
// primitives map through the fixed table, declared types resolve through the
// type registry (qualified by their declaring scope), and generic struct
// references expand their brand bindings into bracketed parameters.
func (w *Writer) typeName(t *schema.Type) (string, error) {
	if pythonType, ok := pytext.PrimitiveType(t.Kind); ok {
		return pythonType, nil
	}

	switch t.Kind {
	case schema.TypeStruct:
		elementType, err := w.types.Lookup(t.Struct.TypeID)
		if err != nil {
			return "", err
		}

		name := elementType.Name

		var genericParams []string
		for _, brandScope := range t.Struct.Brand {
			switch brandScope.Kind {
			case schema.BrandInherit:
				parentType, err := w.types.Lookup(brandScope.ScopeID)
				if err != nil {
					return "", err
				}
				genericParams = append(genericParams, parentType.GenericParams...)

			case schema.BrandBind:
				for _, binding := range brandScope.Bind {
					bound, err := w.typeName(binding.Type)
					if err != nil {
						return "", err
					}
					genericParams = append(genericParams, bound)
				}

			default:
				return "", errors.Wrapf(ErrUnknownKind, "brand scope %q", brandScope.Kind)
			}
		}

		if len(genericParams) > 0 {
			name = pytext.Group(name, genericParams)
		}

		return w.scopedTypeName(elementType, name), nil

	case schema.TypeEnum:
		elementType, err := w.types.Lookup(t.Enum.TypeID)
		if err != nil {
			return "", err
		}
		return w.scopedTypeName(elementType, elementType.Name), nil

	case schema.TypeList:
		inner, err := w.typeName(t.List.ElementType)
		if err != nil {
			return "", err
		}
		return pytext.Group("Sequence", []string{inner}), nil

	default:
		return "", errors.Wrapf(ErrUnknownKind, "type %q", t.Kind)
	}
}

// scopedTypeName prefixes a rendered type name with its declaring scope,
// unless the type is visible at the root.
func (w *Writer) scopedTypeName(elementType *scope.DeclaredType, name string) string {
	if elementType.Scope != nil && !elementType.Scope.IsRoot() {
		return elementType.Scope.String() + "." + name
	}
	return name
}
