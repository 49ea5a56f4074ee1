package schema

import (
	"encoding/json"

	"github.com/tristendillon/capnp-stubgen/core/errors"
)

// moduleDocument is the serialized graph format emitted by the external
// schema parser, one document per compiled schema file.
type moduleDocument struct {
	RootID uint64  `json:"rootId"`
	Nodes  []*Node `json:"nodes"`
}

// DecodeModule turns a serialized schema graph into a navigable module. The
// path is the schema source file the graph was parsed from.
func DecodeModule(data []byte, path string) (*Module, error) {
	var doc moduleDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to decode schema graph for %s", path)
	}

	module, err := NewModule(path, doc.RootID, doc.Nodes)
	if err != nil {
		return nil, err
	}

	return module, nil
}

// UnmarshalJSON decodes a field, defaulting DiscriminantValue to
// NoDiscriminant when the serialized graph omits it.
func (f *Field) UnmarshalJSON(data []byte) error {
	type fieldAlias Field
	aux := struct {
		*fieldAlias
		DiscriminantValue *int `json:"discriminantValue"`
	}{fieldAlias: (*fieldAlias)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.DiscriminantValue != nil {
		f.DiscriminantValue = *aux.DiscriminantValue
	} else {
		f.DiscriminantValue = NoDiscriminant
	}

	return nil
}
