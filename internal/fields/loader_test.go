package fields

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `
baseTypes:
  - field: rating
    type: number
    input: number
    inputConfig:
      min: 1
      max: 5

recordTypes:
  review:
    - field: linkSelect
      override:
        field: client
        label: Client
    - field: rating
      override:
        field: stars
        label: Stars
        required: true
    - field: notes
`

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o644))

	c := DefaultCatalog()
	require.NoError(t, LoadCatalogFile(path, c))

	// The extra base type lands in the registry.
	base := c.Registry().Base("rating")
	require.NotNil(t, base)

	merged, ok := c.Merged("review")
	require.True(t, ok)
	require.Len(t, merged, 3)

	assert.Equal(t, "client", merged[0].Field)
	assert.Equal(t, "stars", merged[1].Field)
	assert.Equal(t, "Stars", merged[1].Label)
	assert.True(t, merged[1].Required)
	// The base's inputConfig survives the override untouched.
	assert.Equal(t, float64(1), merged[1].InputConfig["min"])
	assert.Equal(t, "notes", merged[2].Field)
}

func TestLoadCatalogFile_Missing(t *testing.T) {
	c := DefaultCatalog()
	err := LoadCatalogFile("/does/not/exist.yaml", c)
	assert.Error(t, err)
}

func TestLoadCatalogFile_RejectsEmptyBaseKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseTypes:\n  - type: string\n"), 0o644))

	err := LoadCatalogFile(path, DefaultCatalog())
	assert.Error(t, err)
}
