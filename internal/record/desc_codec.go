package record

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// fieldDoc is the catalog form of a FieldDesc. A nil Name is anonymous.
type fieldDoc struct {
	Type string  `json:"type" yaml:"type"`
	Name *string `json:"name,omitempty" yaml:"name,omitempty"`
}

func (d *TupleDesc) docs() ([]fieldDoc, error) {
	out := make([]fieldDoc, 0, d.NumFields())
	for i, f := range d.All() {
		text, err := f.Type.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		doc := fieldDoc{Type: string(text)}
		if f.Name.Valid {
			name := f.Name.Value
			doc.Name = &name
		}
		out = append(out, doc)
	}
	return out, nil
}

func fromDocs(docs []fieldDoc) (*TupleDesc, error) {
	fields := make([]FieldDesc, len(docs))
	for i, doc := range docs {
		t, err := ParseType(doc.Type)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		fields[i].Type = t
		if doc.Name != nil {
			fields[i].Name = Named(*doc.Name)
		}
	}
	return build(fields), nil
}

func (d *TupleDesc) MarshalJSON() ([]byte, error) {
	docs, err := d.docs()
	if err != nil {
		return nil, err
	}
	return json.Marshal(docs)
}

func (d *TupleDesc) UnmarshalJSON(b []byte) error {
	var docs []fieldDoc
	if err := json.Unmarshal(b, &docs); err != nil {
		return err
	}
	nd, err := fromDocs(docs)
	if err != nil {
		return err
	}
	*d = *nd
	return nil
}

func (d *TupleDesc) MarshalYAML() (any, error) {
	return d.docs()
}

func (d *TupleDesc) UnmarshalYAML(node *yaml.Node) error {
	var docs []fieldDoc
	if err := node.Decode(&docs); err != nil {
		return err
	}
	nd, err := fromDocs(docs)
	if err != nil {
		return err
	}
	*d = *nd
	return nil
}
