package config

const (
	defaultOutputDir     = "~/.local/share/charscan/outputs"
	defaultLogDir        = "~/.local/share/charscan/logs"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultFileExtension = ".nc"
	defaultGroupingLevel = 4
	defaultExtractor     = "char-extract"
	defaultJournalName   = "journal.db"

	defaultJSONTemplate         = "{output_dir}/register/{grouped_ds_id}.json"
	defaultSuccessTemplate      = "{output_dir}/success/{grouped_ds_id}.log"
	defaultNoFilesTemplate      = "{output_dir}/failure/no_files/{grouped_ds_id}.log"
	defaultExtractErrorTemplate = "{output_dir}/failure/extract_error/{grouped_ds_id}.log"
	defaultWriteErrorTemplate   = "{output_dir}/failure/write_error/{grouped_ds_id}.log"
	defaultBatchTemplate        = "{output_dir}/batch/{grouped_ds_id}"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Scan: Scan{
			FileExtension: defaultFileExtension,
			GroupingLevel: defaultGroupingLevel,
		},
		Extractor: Extractor{
			Command: defaultExtractor,
		},
		Journal: Journal{
			Enabled: true,
		},
		Projects: BuiltinProjects(),
	}
}

// DefaultOutputs returns the output templates used when a project sets none.
func DefaultOutputs() Outputs {
	return Outputs{
		JSON:         defaultJSONTemplate,
		Success:      defaultSuccessTemplate,
		NoFiles:      defaultNoFilesTemplate,
		ExtractError: defaultExtractErrorTemplate,
		WriteError:   defaultWriteErrorTemplate,
		Batch:        defaultBatchTemplate,
	}
}

// BuiltinProjects returns the projects known without any configuration file.
func BuiltinProjects() map[string]Project {
	return map[string]Project{
		"cmip5": {
			BaseDir: "/badc/cmip5/data",
			Facets: []string{
				"activity", "product", "institute", "model", "experiment", "frequency",
				"realm", "table", "ensemble_member", "version", "variable",
			},
			VariableFacet: "variable",
			IDPrefix:      "cmip5",
		},
		"c3s-cmip5": {
			BaseDir: "/gws/nopw/j04/cp4cds1_vol1/data",
			Facets: []string{
				"activity", "product", "institute", "model", "experiment", "frequency",
				"realm", "table", "ensemble_member", "variable", "version",
			},
			VariableFacet: "variable",
			IDPrefix:      "c3s-cmip5",
		},
		"c3s-cmip6": {
			BaseDir: "/badc/cmip6/data",
			Facets: []string{
				"mip_era", "activity_id", "institution_id", "source_id", "experiment_id",
				"member_id", "table_id", "variable_id", "grid_label", "version",
			},
			VariableFacet: "variable_id",
			IDPrefix:      "c3s-cmip6",
		},
		"c3s-cordex": {
			BaseDir: "/gws/nopw/j04/cp4cds1_vol1/data",
			Facets: []string{
				"activity", "product", "domain", "institute", "driving_model", "experiment",
				"ensemble", "rcm_name", "rcm_version", "time_frequency", "variable", "version",
			},
			VariableFacet: "variable",
			IDPrefix:      "c3s-cordex",
		},
	}
}
