package vocabulary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AioliaTech/api-ia/internal/domain"
)

func TestFile_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fipe_vocabulary.json")

	f := &File{
		Brands:   []string{"gm - chevrolet", "fiat", "Fiat"},
		Models:   []string{"onix", "argo"},
		Versions: []string{"onix hatch lt 1.0 8v flex 5p mec."},
		Colors:   []string{"roxo"},
	}
	require.NoError(t, WriteFile(path, f))

	read, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"fiat", "gm - chevrolet"}, read.Brands)
	assert.Equal(t, []string{"argo", "onix"}, read.Models)

	ix, err := Load(path)
	require.NoError(t, err)

	got, ok := ix.Lookup(Brand, "gm")
	require.True(t, ok)
	assert.Equal(t, "chevrolet", got)

	got, ok = ix.Lookup(Version, "onix hatch lt 1.0 8v flex 5 p mec")
	require.True(t, ok)
	assert.Equal(t, "onix hatch lt 1.0 8v flex 5p mec.", got)

	_, ok = ix.Lookup(Color, "roxo")
	assert.True(t, ok)

	// Built-in dictionaries are still present.
	_, ok = ix.Lookup(Transmission, "manual")
	assert.True(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	ix, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVocabularyMissing)
	assert.True(t, domain.IsUnavailable(err))
	assert.False(t, ix.IsEmpty(), "built-in index is returned alongside the error")
}

func TestReadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeData, domain.TypeOf(err))
}

func TestFile_ModelMapMerge(t *testing.T) {
	f := &File{
		Models:   []string{"kardian"},
		ModelMap: map[string]string{"kardian": "SUV"},
	}
	ix := f.Merge(NewBuilder()).Build()

	got, ok := ix.CategoryForModel("Kardian")
	require.True(t, ok)
	assert.Equal(t, "SUV", got)
}
