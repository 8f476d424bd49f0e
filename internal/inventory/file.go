package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AioliaTech/api-ia/internal/domain"
)

// snapshotFile is the dados.json layout.
type snapshotFile struct {
	Vehicles *[]json.RawMessage `json:"veiculos"`
}

// Decoded is the result of decoding a snapshot document.
type Decoded struct {
	Vehicles []Vehicle
	// Skipped counts records that could not be decoded and were dropped.
	Skipped int
}

// Decode reads a {"veiculos": [...]} document. A missing collection key
// is a data error; individual malformed records are skipped and counted.
func Decode(r io.Reader) (*Decoded, error) {
	var doc snapshotFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, domain.DataError("decode inventory document", err)
	}
	if doc.Vehicles == nil {
		return nil, domain.DataError(`inventory document has no "veiculos" collection`, domain.ErrInvalidSnapshot)
	}

	out := &Decoded{Vehicles: make([]Vehicle, 0, len(*doc.Vehicles))}
	for _, raw := range *doc.Vehicles {
		var v Vehicle
		if err := json.Unmarshal(raw, &v); err != nil {
			out.Skipped++
			continue
		}
		out.Vehicles = append(out.Vehicles, v)
	}
	return out, nil
}

// LoadFile decodes a snapshot file from disk.
func LoadFile(path string) (*Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.DataError("inventory file not found: "+path, domain.ErrInventoryUnavailable)
		}
		return nil, domain.IOError("open inventory file", err)
	}
	defer f.Close()

	return Decode(f)
}

// WriteFile writes vehicles as a {"veiculos": [...]} document, replacing
// path atomically so concurrent readers never see a partial file.
func WriteFile(path string, vehicles []Vehicle) error {
	data, err := json.MarshalIndent(struct {
		Vehicles []Vehicle `json:"veiculos"`
	}{Vehicles: vehicles}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".inventory-*.json")
	if err != nil {
		return domain.IOError("create temp inventory file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return domain.IOError("write inventory file", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.IOError("close inventory file", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return domain.IOError("replace inventory file", err)
	}
	return nil
}

// MarshalVehicles encodes vehicles as a JSON array.
func MarshalVehicles(vehicles []Vehicle) ([]byte, error) {
	return json.Marshal(vehicles)
}

// UnmarshalVehicles decodes a JSON array of vehicles.
func UnmarshalVehicles(data []byte) ([]Vehicle, error) {
	var vehicles []Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, domain.DataError("decode vehicles", err)
	}
	return vehicles, nil
}
