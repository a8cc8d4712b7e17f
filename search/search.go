package search

import (
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// typeDirNames lists the SourceType-named directories a forecast root's
// children are expected to use (a copy of the keys of loader's unexported
// typeDirs table).
var typeDirNames = map[string]bool{
	"Fault": true, "Interface": true, "Cluster": true,
	"Grid": true, "Slab": true, "System": true, "Area": true,
}

// An internal general purpose trawling function. Potentially could be globally
// exported at a later date.
// The basename is only matched with the pattern, eg
// ("gmm.xml", "Fault/CascadiaTop/gmm.xml")
func trawl(vfs *tiledb.VFS, pattern string, uri string, items []string) []string {
	dirs, files, err := vfs.List(uri)
	if err != nil {
		panic(err)
	}

	// check files for the matching pattern
	for _, file := range files {
		match, err := filepath.Match(pattern, filepath.Base(file))
		if err != nil {
			panic(err)
		}

		if match {
			items = append(items, file)
		}
	}

	// recurse over every directory
	for _, dir := range dirs {
		items = trawl(vfs, pattern, dir, items)
	}

	return items
}

// FindForecasts recursively searches for gmm.xml files under a given URI,
// one marking every forecast directory or override a loader would need to
// resolve. The function uses the TileDB Go bindings to seamlessly search
// either local filesystems or object stores such as AWS S3. A TileDB
// config is required for searching object stores with permission
// constraints.
func FindForecasts(uri string, config_uri string) []string {
	var (
		config *tiledb.Config
		err    error
		items  []string
	)

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

	items = make([]string, 0)

	items = trawl(vfs, "gmm.xml", uri, items)

	return items
}

// ForecastRoots reduces a set of discovered gmm.xml paths (as returned by
// FindForecasts) to the distinct forecast-root directories they belong
// to: the parent of the first SourceType-named directory in each path.
func ForecastRoots(gmmPaths []string) []string {
	seen := make(map[string]bool)
	var roots []string
	for _, p := range gmmPaths {
		dir := filepath.Dir(p)
		for dir != "." && dir != string(filepath.Separator) && dir != "" {
			parent, base := filepath.Split(dir)
			if typeDirNames[base] {
				root := filepath.Clean(parent)
				if !seen[root] {
					seen[root] = true
					roots = append(roots, root)
				}
				break
			}
			dir = filepath.Clean(parent)
		}
	}
	return roots
}
