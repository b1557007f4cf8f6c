package sonata

// Node population type tags.
const (
	TypeBiophysical = "biophysical"
	TypeVirtual     = "virtual"
	TypePointNeuron = "point_neuron"
	TypeAstrocyte   = "astrocyte"
	TypeVasculature = "vasculature"
)

// Edge population type tags.
const (
	TypeChemical          = "chemical"
	TypeElectricalSynapse = "electrical_synapse"
	TypeGlialGlial        = "glialglial"
	TypeSynapseAstrocyte  = "synapse_astrocyte"
	TypeEndfoot           = "endfoot"
	TypeNeuromodulatory   = "neuromodulatory"
	TypeTMSynapse         = "TM_synapse"
)

// NodeTypes and EdgeTypes list the supported tags, in documentation order.
var (
	NodeTypes = []string{TypeBiophysical, TypeVirtual, TypePointNeuron, TypeAstrocyte, TypeVasculature}
	EdgeTypes = []string{
		TypeChemical, TypeElectricalSynapse, TypeGlialGlial, TypeSynapseAstrocyte,
		TypeEndfoot, TypeNeuromodulatory, TypeTMSynapse,
	}
)

// NodePopulation is one node population to list in a circuit config. The
// set of implementations is closed: adding a type means adding a case to
// renderNodes.
type NodePopulation interface {
	// Type returns the SONATA population type tag.
	Type() string
	nodePopulation()
}

// EdgePopulation is one edge population to list in a circuit config.
type EdgePopulation interface {
	Type() string
	edgePopulation()
}

// BiophysicalNodes are detailed neurons. Either MorphologiesDir or
// AlternateMorphologies is set.
type BiophysicalNodes struct {
	NodesFile                  string
	Name                       string
	MorphologiesDir            string
	AlternateMorphologies      Morphologies
	BiophysicalNeuronModelsDir string
}

// VirtualNodes are input-only nodes without morphology.
type VirtualNodes struct {
	NodesFile string
	Name      string
}

// PointNeuronNodes are neurons simulated as points.
type PointNeuronNodes struct {
	NodesFile string
	Name      string
}

// AstrocyteNodes are glial cells; their h5 morphologies and microdomains
// are referenced from the config.
type AstrocyteNodes struct {
	NodesFile        string
	Name             string
	MorphologiesDir  string
	MicrodomainsFile string
}

// VasculatureNodes describe the vascular network.
type VasculatureNodes struct {
	NodesFile       string
	Name            string
	VasculatureFile string
	VasculatureMesh string
}

func (BiophysicalNodes) Type() string { return TypeBiophysical }
func (VirtualNodes) Type() string     { return TypeVirtual }
func (PointNeuronNodes) Type() string { return TypePointNeuron }
func (AstrocyteNodes) Type() string   { return TypeAstrocyte }
func (VasculatureNodes) Type() string { return TypeVasculature }

func (BiophysicalNodes) nodePopulation() {}
func (VirtualNodes) nodePopulation()     {}
func (PointNeuronNodes) nodePopulation() {}
func (AstrocyteNodes) nodePopulation()   {}
func (VasculatureNodes) nodePopulation() {}

// Edges is the payload shared by edge types without extra fields.
type Edges struct {
	EdgesFile string
	Name      string
}

type (
	ChemicalEdges          struct{ Edges }
	ElectricalSynapseEdges struct{ Edges }
	GlialGlialEdges        struct{ Edges }
	SynapseAstrocyteEdges  struct{ Edges }
	NeuromodulatoryEdges   struct{ Edges }
	TMSynapseEdges         struct{ Edges }
)

// EndfootEdges connect astrocyte endfeet to the vasculature.
type EndfootEdges struct {
	Edges
	EndfeetMeshesFile string
}

func (ChemicalEdges) Type() string          { return TypeChemical }
func (ElectricalSynapseEdges) Type() string { return TypeElectricalSynapse }
func (GlialGlialEdges) Type() string        { return TypeGlialGlial }
func (SynapseAstrocyteEdges) Type() string  { return TypeSynapseAstrocyte }
func (EndfootEdges) Type() string           { return TypeEndfoot }
func (NeuromodulatoryEdges) Type() string   { return TypeNeuromodulatory }
func (TMSynapseEdges) Type() string         { return TypeTMSynapse }

func (ChemicalEdges) edgePopulation()          {}
func (ElectricalSynapseEdges) edgePopulation() {}
func (GlialGlialEdges) edgePopulation()        {}
func (SynapseAstrocyteEdges) edgePopulation()  {}
func (EndfootEdges) edgePopulation()           {}
func (NeuromodulatoryEdges) edgePopulation()   {}
func (TMSynapseEdges) edgePopulation()         {}
