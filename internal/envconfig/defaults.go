package envconfig

// Module paths and Apptainer settings of the BB5 cluster.
const (
	SpackModulePath     = "/gpfs/bbp.cscs.ch/ssd/apps/bsd/modules/_meta"
	ApptainerExecutable = "singularity"
	ApptainerOptions    = "--cleanenv --containall --bind $TMPDIR:/tmp,/gpfs/bbp.cscs.ch/project"
	ApptainerImagePath  = "/gpfs/bbp.cscs.ch/ssd/containers"
)

// ApptainerDefaults are applied to APPTAINER environments that leave the
// corresponding fields empty.
type ApptainerDefaults struct {
	ModulePath string
	Modules    []string
	Executable string
	Options    string
	ImagePath  string // Relative image references are resolved against it
}

// Defaults is the built-in configuration a Registry starts from.
type Defaults struct {
	ModulePath   string // Default MODULEPATH for MODULE environments
	Apptainer    ApptainerDefaults
	Environments map[string]Environment
}

// BuiltinDefaults returns a fresh copy of the built-in defaults. Callers may
// modify the result freely.
func BuiltinDefaults() Defaults {
	module := func(modules ...string) Environment {
		return Environment{Kind: KindModule, ModulePath: SpackModulePath, Modules: modules}
	}
	return Defaults{
		ModulePath: SpackModulePath,
		Apptainer: ApptainerDefaults{
			ModulePath: SpackModulePath,
			Modules:    []string{"archive/2022-11", "singularityce/3.10.0"},
			Executable: ApptainerExecutable,
			Options:    ApptainerOptions,
			ImagePath:  ApptainerImagePath,
		},
		Environments: map[string]Environment{
			"brainbuilder":        module("archive/2023-02", "brainbuilder/0.18.3"),
			"spatialindexer":      module("archive/2022-12", "spatial-index/1.1.0"),
			"parquet-converters":  module("archive/2022-07", "parquet-converters/0.8.0"),
			"placement-algorithm": module("archive/2022-03", "placement-algorithm/2.3.0"),
			"spykfunc":            module("archive/2022-10", "spykfunc/0.17.4"),
			"touchdetector":       module("archive/2022-07", "touchdetector/5.7.0"),
			"region-grower":       module("archive/2022-03", "py-region-grower/0.3.0"),
			"bluepyemodel": module(
				"archive/2021-09",
				"py-bluepyemodel/0.0.5",
				"py-bglibpy/4.4.36",
				"neurodamus-neocortex/1.4-3.3.2",
			),
			"ngv":               module("archive/2022-06", "py-archngv/2.0.2"),
			"synthesize-glia":   module("archive/2022-06", "py-archngv/2.0.2", "py-mpi4py"),
			"ngv-touchdetector": module("archive/2022-06", "py-archngv/2.0.2", "touchdetector/5.6.1"),
			"ngv-pytouchreader": module("archive/2022-06", "py-archngv/2.0.2"),
		},
	}
}
