package loader

import (
	"archive/zip"
	"io"
	"path"
	"path/filepath"
	"strings"

	tiledb "github.com/TileDB-Inc/TileDB-Go"

	erf "github.com/sixy6e/go-erf"
)

// SourceTree abstracts a forecast laid out either as a directory tree
// (local filesystem or object store, via the TileDB VFS) or as a ZIP
// archive.
type SourceTree interface {
	// List returns the immediate subdirectories and files of dir.
	List(dir string) (dirs, files []string, err error)
	// ReadFile returns the full contents of a file returned by List.
	ReadFile(file string) ([]byte, error)
	// Base returns the final path element of file, stripped of any
	// trailing separator.
	Base(file string) string
	// Join joins path elements using the tree's separator convention.
	Join(elems ...string) string
	// Close releases any resources held by the tree.
	Close() error
}

// skipEntry reports whether a directory or file entry should be ignored
// during traversal: hidden files, files starting with ~, and macOS
// __MACOSX resource forks.
func skipEntry(name string) bool {
	base := filepath.Base(name)
	if base == "" {
		return true
	}
	if base == "__MACOSX" {
		return true
	}
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return true
	}
	return false
}

// vfsTree is a SourceTree backed by the TileDB VFS, so the same loader
// works against a local directory or an object-store URI.
type vfsTree struct {
	root   string
	ctx    *tiledb.Context
	config *tiledb.Config
	vfs    *tiledb.VFS
}

// NewVfsTree opens a directory-backed SourceTree rooted at rootUri
// (local path or object-store URI); configUri may be empty to use a
// default TileDB config.
func NewVfsTree(rootUri, configUri string) (SourceTree, error) {
	var (
		config *tiledb.Config
		err    error
	)
	if configUri == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configUri)
	}
	if err != nil {
		return nil, err
	}

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		config.Free()
		return nil, err
	}

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		ctx.Free()
		config.Free()
		return nil, err
	}

	return &vfsTree{root: rootUri, ctx: ctx, config: config, vfs: vfs}, nil
}

func (t *vfsTree) List(dir string) (dirs, files []string, err error) {
	if dir == "" {
		dir = t.root
	}
	rawDirs, rawFiles, err := t.vfs.List(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, d := range rawDirs {
		if !skipEntry(d) {
			dirs = append(dirs, d)
		}
	}
	for _, f := range rawFiles {
		if !skipEntry(f) {
			files = append(files, f)
		}
	}
	return dirs, files, nil
}

func (t *vfsTree) ReadFile(file string) ([]byte, error) {
	fh, err := t.vfs.Open(file, tiledb.TILEDB_VFS_READ)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	size, err := t.vfs.FileSize(file)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(fh, buf); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func (t *vfsTree) Base(file string) string { return filepath.Base(file) }

func (t *vfsTree) Join(elems ...string) string { return filepath.Join(elems...) }

func (t *vfsTree) Close() error {
	t.vfs.Free()
	t.ctx.Free()
	t.config.Free()
	return nil
}

// zipTree is a SourceTree backed by a single ZIP archive.
type zipTree struct {
	reader  *zip.ReadCloser
	entries map[string]*zip.File
}

// NewZipTree opens a ZIP-backed SourceTree.
func NewZipTree(zipPath string) (SourceTree, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		clean := strings.TrimSuffix(f.Name, "/")
		if clean == "" {
			continue
		}
		entries[clean] = f
	}

	return &zipTree{reader: r, entries: entries}, nil
}

func (t *zipTree) List(dir string) (dirs, files []string, err error) {
	dir = strings.Trim(dir, "/")
	seenDirs := map[string]bool{}
	for name, f := range t.entries {
		if skipEntry(name) {
			continue
		}
		rel := name
		if dir != "" {
			if !strings.HasPrefix(name, dir+"/") {
				continue
			}
			rel = strings.TrimPrefix(name, dir+"/")
		}
		if rel == "" {
			continue
		}
		parts := strings.SplitN(rel, "/", 2)
		if len(parts) == 1 {
			if !f.FileInfo().IsDir() {
				files = append(files, name)
			}
			continue
		}
		childDir := parts[0]
		if skipEntry(childDir) || seenDirs[childDir] {
			continue
		}
		seenDirs[childDir] = true
		if dir == "" {
			dirs = append(dirs, childDir)
		} else {
			dirs = append(dirs, dir+"/"+childDir)
		}
	}
	return dirs, files, nil
}

func (t *zipTree) ReadFile(file string) ([]byte, error) {
	f, ok := t.entries[strings.TrimSuffix(file, "/")]
	if !ok {
		return nil, &erf.ParseError{File: file, Reason: "file not found in archive"}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (t *zipTree) Base(file string) string { return path.Base(file) }

func (t *zipTree) Join(elems ...string) string { return path.Join(elems...) }

func (t *zipTree) Close() error { return t.reader.Close() }
