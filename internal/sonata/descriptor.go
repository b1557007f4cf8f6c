package sonata

import (
	"fmt"
	"sort"
)

// Descriptor is an untyped population description, as read from YAML or
// JSON: population_type and population_name plus the type's fields.
type Descriptor map[string]any

// DecodeNode turns a descriptor into its node population variant. The
// descriptor's keys must be exactly the ones its type requires.
func DecodeNode(d Descriptor) (NodePopulation, error) {
	typ, err := d.populationType("nodes", NodeTypes)
	if err != nil {
		return nil, err
	}
	r := fieldReader{d: d}
	switch typ {
	case TypeBiophysical:
		if _, ok := d["alternate_morphologies"]; ok {
			if err := d.expect(typ, "nodes_file", "alternate_morphologies", "biophysical_neuron_models_dir"); err != nil {
				return nil, err
			}
			p := BiophysicalNodes{
				NodesFile:                  r.str("nodes_file"),
				Name:                       r.str("population_name"),
				AlternateMorphologies:      r.morphologies("alternate_morphologies"),
				BiophysicalNeuronModelsDir: r.str("biophysical_neuron_models_dir"),
			}
			return nodeResult(p, r.err)
		}
		if err := d.expect(typ, "nodes_file", "morphologies_dir", "biophysical_neuron_models_dir"); err != nil {
			return nil, err
		}
		p := BiophysicalNodes{
			NodesFile:                  r.str("nodes_file"),
			Name:                       r.str("population_name"),
			MorphologiesDir:            r.str("morphologies_dir"),
			BiophysicalNeuronModelsDir: r.str("biophysical_neuron_models_dir"),
		}
		return nodeResult(p, r.err)
	case TypeVirtual, TypePointNeuron:
		if err := d.expect(typ, "nodes_file"); err != nil {
			return nil, err
		}
		file, name := r.str("nodes_file"), r.str("population_name")
		if typ == TypeVirtual {
			return nodeResult(VirtualNodes{NodesFile: file, Name: name}, r.err)
		}
		return nodeResult(PointNeuronNodes{NodesFile: file, Name: name}, r.err)
	case TypeAstrocyte:
		if err := d.expect(typ, "nodes_file", "morphologies_dir", "microdomains_file"); err != nil {
			return nil, err
		}
		p := AstrocyteNodes{
			NodesFile:        r.str("nodes_file"),
			Name:             r.str("population_name"),
			MorphologiesDir:  r.str("morphologies_dir"),
			MicrodomainsFile: r.str("microdomains_file"),
		}
		return nodeResult(p, r.err)
	case TypeVasculature:
		if err := d.expect(typ, "nodes_file", "vasculature_file", "vasculature_mesh"); err != nil {
			return nil, err
		}
		p := VasculatureNodes{
			NodesFile:       r.str("nodes_file"),
			Name:            r.str("population_name"),
			VasculatureFile: r.str("vasculature_file"),
			VasculatureMesh: r.str("vasculature_mesh"),
		}
		return nodeResult(p, r.err)
	}
	return nil, &UnknownPopulationTypeError{Network: "nodes", Type: typ, Valid: NodeTypes}
}

// DecodeEdge turns a descriptor into its edge population variant.
func DecodeEdge(d Descriptor) (EdgePopulation, error) {
	typ, err := d.populationType("edges", EdgeTypes)
	if err != nil {
		return nil, err
	}
	r := fieldReader{d: d}
	if typ == TypeEndfoot {
		if err := d.expect(typ, "edges_file", "endfeet_meshes_file"); err != nil {
			return nil, err
		}
		p := EndfootEdges{
			Edges:             Edges{EdgesFile: r.str("edges_file"), Name: r.str("population_name")},
			EndfeetMeshesFile: r.str("endfeet_meshes_file"),
		}
		if r.err != nil {
			return nil, r.err
		}
		return p, nil
	}
	if err := d.expect(typ, "edges_file"); err != nil {
		return nil, err
	}
	base := Edges{EdgesFile: r.str("edges_file"), Name: r.str("population_name")}
	if r.err != nil {
		return nil, r.err
	}
	switch typ {
	case TypeChemical:
		return ChemicalEdges{base}, nil
	case TypeElectricalSynapse:
		return ElectricalSynapseEdges{base}, nil
	case TypeGlialGlial:
		return GlialGlialEdges{base}, nil
	case TypeSynapseAstrocyte:
		return SynapseAstrocyteEdges{base}, nil
	case TypeNeuromodulatory:
		return NeuromodulatoryEdges{base}, nil
	case TypeTMSynapse:
		return TMSynapseEdges{base}, nil
	}
	return nil, &UnknownPopulationTypeError{Network: "edges", Type: typ, Valid: EdgeTypes}
}

func nodeResult(p NodePopulation, err error) (NodePopulation, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (d Descriptor) populationType(network string, valid []string) (string, error) {
	raw, ok := d["population_type"]
	if !ok {
		return "", fmt.Errorf("%s descriptor: missing population_type", network)
	}
	typ, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s descriptor: population_type must be a string, got %T", network, raw)
	}
	for _, v := range valid {
		if v == typ {
			return typ, nil
		}
	}
	return "", &UnknownPopulationTypeError{Network: network, Type: typ, Valid: valid}
}

// expect checks that the descriptor carries exactly population_name,
// population_type and fields.
func (d Descriptor) expect(typ string, fields ...string) error {
	want := append([]string{"population_name", "population_type"}, fields...)
	sort.Strings(want)
	got := d.keys()
	if len(got) == len(want) {
		match := true
		for i := range got {
			if got[i] != want[i] {
				match = false
				break
			}
		}
		if match {
			return nil
		}
	}
	return &ArgumentMismatchError{Type: typ, Provided: got, Expected: want}
}

func (d Descriptor) keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fieldReader extracts typed values and keeps the first conversion error.
type fieldReader struct {
	d   Descriptor
	err error
}

func (r *fieldReader) str(key string) string {
	s, ok := r.d[key].(string)
	if !ok && r.err == nil {
		r.err = fmt.Errorf("field %s must be a string, got %T", key, r.d[key])
	}
	return s
}

// morphologies reads a format-to-directory mapping. Formats are sorted so
// the rendered config does not depend on map iteration order.
func (r *fieldReader) morphologies(key string) Morphologies {
	var m map[string]string
	switch v := r.d[key].(type) {
	case map[string]string:
		m = v
	case map[string]any:
		m = make(map[string]string, len(v))
		for format, dir := range v {
			s, ok := dir.(string)
			if !ok {
				if r.err == nil {
					r.err = fmt.Errorf("field %s.%s must be a string, got %T", key, format, dir)
				}
				return nil
			}
			m[format] = s
		}
	default:
		if r.err == nil {
			r.err = fmt.Errorf("field %s must be a mapping, got %T", key, v)
		}
		return nil
	}
	out := make(Morphologies, 0, len(m))
	for format, dir := range m {
		out = append(out, MorphologyDir{Format: format, Dir: dir})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Format < out[j].Format })
	return out
}
