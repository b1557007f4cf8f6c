package sonata

import (
	"bytes"
	"encoding/json"
)

// BaseDirVar is the manifest variable every resolved path is expressed in.
const BaseDirVar = "$BASE_DIR"

// Document is a SONATA circuit config.
type Document struct {
	Version      int               `json:"version"`
	Manifest     map[string]string `json:"manifest"`
	NodeSetsFile string            `json:"node_sets_file,omitempty"`
	Networks     Networks          `json:"networks"`
}

// Networks lists the node and edge files of the circuit.
type Networks struct {
	Nodes []Network `json:"nodes"`
	Edges []Network `json:"edges"`
}

// Network is one nodes_file or edges_file entry with its populations.
type Network struct {
	FileKey     string // "nodes_file" or "edges_file"
	File        string
	Populations []Population
}

// Population is a named population entry. Fields keep their insertion order
// in the rendered JSON, after "type".
type Population struct {
	Name   string
	Type   string
	Fields []Field
}

// Field is one population property. Value is a string or Morphologies.
type Field struct {
	Key   string
	Value any
}

// MorphologyDir is one entry of alternate_morphologies.
type MorphologyDir struct {
	Format string // e.g. "h5v1", "neurolucida-asc"
	Dir    string
}

// Morphologies renders as a JSON object keyed by format, in slice order.
type Morphologies []MorphologyDir

// MarshalJSON encodes the network as {"<file key>": ..., "populations": {...}}.
func (n Network) MarshalJSON() ([]byte, error) {
	var o object
	o.add(n.FileKey, n.File)
	var pops object
	for _, p := range n.Populations {
		pops.add(p.Name, p)
	}
	o.add("populations", pops)
	return o.MarshalJSON()
}

// MarshalJSON encodes the population with "type" first.
func (p Population) MarshalJSON() ([]byte, error) {
	var o object
	o.add("type", p.Type)
	for _, f := range p.Fields {
		o.add(f.Key, f.Value)
	}
	return o.MarshalJSON()
}

// MarshalJSON encodes the directories as {"<format>": "<dir>", ...}.
func (m Morphologies) MarshalJSON() ([]byte, error) {
	var o object
	for _, d := range m {
		o.add(d.Format, d.Dir)
	}
	return o.MarshalJSON()
}

// object is a JSON object that keeps key order.
type object struct {
	keys   []string
	values []any
}

func (o *object) add(key string, value any) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalNoEscape(k)
		if err != nil {
			return nil, err
		}
		vb, err := marshalNoEscape(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
