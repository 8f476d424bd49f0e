package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AioliaTech/api-ia/internal/domain"
)

func TestDecode_SkipsMalformedRecords(t *testing.T) {
	doc := `{"veiculos": [
		{"id": "1", "marca": "Fiat", "modelo": "Argo"},
		{"id": "2", "marca": ["bad"]},
		"not an object",
		{"id": "3", "marca": "Jeep", "modelo": "Renegade"}
	]}`

	decoded, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Len(t, decoded.Vehicles, 2)
	assert.Equal(t, 2, decoded.Skipped)
	assert.Equal(t, Text("Renegade"), decoded.Vehicles[1].Model)
}

func TestDecode_MissingCollection(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"carros": []}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidSnapshot))
	assert.Equal(t, domain.ErrorTypeData, domain.TypeOf(err))
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"veiculos": [`))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeData, domain.TypeOf(err))
}

func TestDecode_EmptyCollectionIsValid(t *testing.T) {
	decoded, err := Decode(strings.NewReader(`{"veiculos": []}`))
	require.NoError(t, err)
	assert.Empty(t, decoded.Vehicles)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "dados.json"))
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dados.json")
	vehicles := []Vehicle{
		{ID: "1", Brand: "Honda", Model: "Civic", Price: NumberOf(98000), Options: StringList{"teto solar"}},
		{ID: "2", Brand: "Fiat", Model: "Mobi", Price: NumberText("R$ 45.000")},
	}

	require.NoError(t, WriteFile(path, vehicles))

	decoded, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, decoded.Vehicles, 2)
	assert.Equal(t, Text("Civic"), decoded.Vehicles[0].Model)

	price, ok := decoded.Vehicles[1].Price.Float()
	require.True(t, ok)
	assert.Equal(t, 45000.0, price)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}
