package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loaderTestDef = `
operation Play {
    action: "Play"
    service: AVTransport
    request: {
        speed: string,
    }
}
`

func writeDef(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadBuiltin(t *testing.T) {
	specs, err := NewLoader(nil).LoadBuiltin()
	require.NoError(t, err)
	require.NotEmpty(t, specs)

	byName := make(map[string]bool, len(specs))
	for _, spec := range specs {
		assert.NotEmpty(t, spec.Action, "spec %s has no action", spec.Name)
		assert.NotEmpty(t, spec.Service, "spec %s has no service", spec.Name)
		assert.Equal(t, "instance_id", spec.Fields[0].Name, "spec %s missing implicit field", spec.Name)
		byName[spec.Name] = true
	}

	// A few operations the shipped catalog must carry.
	for _, name := range []string{"Play", "Pause", "SetVolume", "GetZoneGroupState", "SetAVTransportURI"} {
		assert.True(t, byName[name], "built-in catalog missing %s", name)
	}
}

func TestLoadDirs(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "transport.defs", loaderTestDef)

	specs, err := NewLoader(nil).LoadDirs([]string{dir})
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "Play", specs[0].Name)
	assert.Equal(t, filepath.Join(dir, "transport.defs"), specs[0].SourceFile)
}

func TestLoadDirsExcludesAuxiliaryFiles(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "real.defs", loaderTestDef)
	writeDef(t, dir, "scanner_test.defs", loaderTestDef)
	writeDef(t, dir, "examples.defs", loaderTestDef)
	writeDef(t, dir, "notes.txt", loaderTestDef)
	writeDef(t, filepath.Join(dir, "testdata"), "fixtures.defs", loaderTestDef)

	specs, err := NewLoader(nil).LoadDirs([]string{dir})
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Contains(t, specs[0].SourceFile, "real.defs")
}

func TestLoadDirsMissingDirectory(t *testing.T) {
	_, err := NewLoader(nil).LoadDirs([]string{filepath.Join(t.TempDir(), "absent")})
	assert.Error(t, err)
}
