package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pitabwire/sonoctl/model"
)

//go:embed defs/*.defs
var builtinDefs embed.FS

// Loader reads definition files and scans them into operation specs. The
// built-in catalog ships embedded in the binary; additional directories may
// be scanned on top of it.
type Loader struct {
	scanner *Scanner
	log     *zap.Logger
}

// NewLoader creates a Loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		scanner: NewScanner(logger),
		log:     logger,
	}
}

// LoadBuiltin scans the embedded definition files, in file-name order.
func (l *Loader) LoadBuiltin() ([]model.OperationSpec, error) {
	entries, err := fs.ReadDir(builtinDefs, "defs")
	if err != nil {
		return nil, fmt.Errorf("catalog: reading embedded definitions: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var specs []model.OperationSpec
	for _, name := range names {
		data, err := fs.ReadFile(builtinDefs, "defs/"+name)
		if err != nil {
			return nil, fmt.Errorf("catalog: reading embedded %s: %w", name, err)
		}
		specs = append(specs, l.scanner.Scan(string(data), name)...)
	}
	return specs, nil
}

// LoadDirs recursively scans directories for *.defs files. Definitions in
// auxiliary or test-only locations are excluded: testdata directories, files
// with "_test" in the name, and files named examples*.
func (l *Loader) LoadDirs(dirs []string) ([]model.OperationSpec, error) {
	var specs []model.OperationSpec

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "testdata" {
					return filepath.SkipDir
				}
				return nil
			}
			if !includeFile(d.Name()) {
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			specs = append(specs, l.scanner.Scan(string(data), path)...)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("catalog: scanning directory %s: %w", dir, err)
		}
	}

	return specs, nil
}

// includeFile reports whether a definition file takes part in scanning.
func includeFile(name string) bool {
	if strings.ToLower(filepath.Ext(name)) != ".defs" {
		return false
	}
	base := strings.ToLower(name)
	if strings.Contains(base, "_test") || strings.HasPrefix(base, "examples") {
		return false
	}
	return true
}
