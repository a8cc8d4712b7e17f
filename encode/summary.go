package encode

import (
	"encoding/json"

	tiledb "github.com/TileDB-Inc/TileDB-Go"

	erf "github.com/sixy6e/go-erf"
)

// sourceSetSummary is one row of a forecast's success-summary report.
type sourceSetSummary struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Weight  float64 `json:"weight"`
	Sources int     `json:"sources"`
}

// forecastSummary is the full JSON document WriteSummary emits.
type forecastSummary struct {
	Name  string             `json:"name"`
	Types []string           `json:"types"`
	Sets  []sourceSetSummary `json:"sourceSets"`
}

// BuildSummary converts a loaded *erf.HazardModel into its JSON-ready
// summary form.
func BuildSummary(model *erf.HazardModel) forecastSummary {
	summary := forecastSummary{Name: model.Name()}
	for _, t := range model.Types() {
		summary.Types = append(summary.Types, t.String())
		for _, set := range model.SourceSets(t) {
			summary.Sets = append(summary.Sets, sourceSetSummary{
				Name:    set.Name(),
				Type:    t.String(),
				Weight:  set.Weight(),
				Sources: len(set.Sources()),
			})
		}
	}
	return summary
}

// WriteSummary serializes a HazardModel's summary to JSON and writes it
// to file_uri via the TileDB VFS, so the same call works against a local
// path or an object-store URI.
func WriteSummary(file_uri string, config_uri string, model *erf.HazardModel) (int, error) {
	data, err := json.MarshalIndent(BuildSummary(model), "", "  ")
	if err != nil {
		return 0, err
	}

	var config *tiledb.Config

	// get a generic config if no path provided
	if config_uri == "" {
		config, err = tiledb.NewConfig()
		if err != nil {
			panic(err)
		}
	} else {
		config, err = tiledb.LoadConfig(config_uri)
		if err != nil {
			panic(err)
		}
	}

	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		panic(err)
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		panic(err)
	}
	defer vfs.Free()

	stream, err := vfs.Open(file_uri, tiledb.TILEDB_VFS_WRITE)
	if err != nil {
		panic(err)
	}
	defer stream.Close()

	bytes_written, err := stream.Write(data)

	if err != nil {
		return 0, err
	}

	return bytes_written, nil
}
