package atlas

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// schemaVersion identifies the on-disk layout. Bump it when the snapshot
// shape changes so stale files fail loudly instead of loading garbage.
const schemaVersion = 1

// ErrIncompatibleAtlas is returned by Load when the file is corrupt or its
// schema version does not match.
var ErrIncompatibleAtlas = errors.New("incompatible atlas file")

// snapshot is the serialized form of an Atlas. The path is deliberately not
// stored: a moved file should load from wherever it now lives.
type snapshot struct {
	Version   int            `json:"version"`
	Epsilon   float64        `json:"epsilon"`
	MinPoints int            `json:"min_points"`
	Elements  []Element      `json:"elements"`
	Clusters  map[int][]int  `json:"clusters"`
	Groups    [][]int        `json:"groups"`
	Grouped   bool           `json:"grouped"`
}

// Save serializes the whole atlas state to Path, overwriting any existing
// file.
func (a *Atlas) Save() error {
	data, err := json.MarshalIndent(snapshot{
		Version:   schemaVersion,
		Epsilon:   a.Epsilon,
		MinPoints: a.MinPoints,
		Elements:  a.Elements,
		Clusters:  a.Clusters,
		Groups:    a.Groups,
		Grouped:   a.Grouped,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding atlas: %w", err)
	}
	if err := os.WriteFile(a.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing atlas: %w", err)
	}
	return nil
}

// Load replaces the in-memory state with the snapshot read from Path.
func (a *Atlas) Load() error {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return fmt.Errorf("reading atlas: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleAtlas, err)
	}
	if snap.Version != schemaVersion {
		return fmt.Errorf("%w: schema version %d, want %d", ErrIncompatibleAtlas, snap.Version, schemaVersion)
	}
	if snap.Grouped != (snap.Groups != nil) {
		return fmt.Errorf("%w: grouped flag does not match groups", ErrIncompatibleAtlas)
	}

	a.Epsilon = snap.Epsilon
	a.MinPoints = snap.MinPoints
	a.Elements = snap.Elements
	a.Clusters = snap.Clusters
	if a.Clusters == nil {
		a.Clusters = make(map[int][]int)
	}
	a.Groups = snap.Groups
	a.Grouped = snap.Grouped
	return nil
}
