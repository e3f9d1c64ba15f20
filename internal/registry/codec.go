package registry

import (
	"encoding/json"

	"orthomine/internal/line"
	"orthomine/internal/ortho"
)

// snapshot is the serialization-friendly view of a Registry: exactly
// (name, provenance, lines, orthos) per the persisted-registry interface,
// with orthos carrying their full shape and position->word map.
type snapshot struct {
	Name       string          `json:"name"`
	Provenance []string        `json:"provenance"`
	Lines      []line.Line     `json:"lines"`
	Orthos     []ortho.Snapshot `json:"orthos"`
}

// Encode serializes the registry to a byte-exact, round-trippable form.
func (r *Registry) Encode() ([]byte, error) {
	orthos := r.Orthos()
	snap := snapshot{
		Name:       r.name,
		Provenance: r.Provenance(),
		Lines:      r.Lines(),
		Orthos:     make([]ortho.Snapshot, len(orthos)),
	}
	for i, o := range orthos {
		snap.Orthos[i] = o.Snapshot()
	}
	return json.Marshal(snap)
}

// Decode reconstructs a Registry from bytes produced by Encode.
func Decode(data []byte) (*Registry, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	r := New(snap.Name)
	r.provenance = append([]string(nil), snap.Provenance...)
	for _, l := range snap.Lines {
		r.AddLine(l)
	}

	orthos := make([]ortho.Ortho, len(snap.Orthos))
	for i, s := range snap.Orthos {
		orthos[i] = ortho.FromSnapshot(s)
	}
	r.Add(orthos)

	return r, nil
}
