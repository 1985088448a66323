package main

import (
	"strings"

	"github.com/spf13/cobra"

	"charscan/internal/dsid"
	"charscan/internal/locator"
)

type selectionFlags struct {
	project    string
	datasetIDs []string
	facets     string
	paths      []string
	exclude    []string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "Project name (required)")
	cmd.Flags().StringSliceVarP(&f.datasetIDs, "dataset-ids", "d", nil, "Comma-separated dataset identifiers")
	cmd.Flags().StringVarP(&f.facets, "facets", "f", "", "Facet filter, e.g. model=HadGEM2-ES,variable=tas")
	cmd.Flags().StringSliceVar(&f.paths, "paths", nil, "Comma-separated dataset directories")
	cmd.Flags().StringSliceVarP(&f.exclude, "exclude", "e", nil, "Regular expressions for excluding dataset directories")
	_ = cmd.MarkFlagRequired("project")
}

func (f *selectionFlags) selection() (locator.Selection, error) {
	sel := locator.Selection{
		DatasetIDs: trimAll(f.datasetIDs),
		Paths:      trimAll(f.paths),
		Exclude:    trimAll(f.exclude),
	}
	if strings.TrimSpace(f.facets) != "" {
		filter, err := dsid.ParseFilter(f.facets)
		if err != nil {
			return locator.Selection{}, err
		}
		sel.Facets = filter
	}
	return sel, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
