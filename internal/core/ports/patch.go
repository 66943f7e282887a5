package ports

import "encoding/json"

// Patch carries tri-state PATCH semantics for a single field: a field absent
// from the request body leaves the stored value unchanged, an explicit null
// clears it, and a concrete value replaces it. The absent-vs-null distinction
// is load-bearing in the update-merge path and must survive JSON decoding,
// which is why plain pointers are not enough here.
type Patch[T any] struct {
	// Set is true when the field appeared in the request body at all.
	Set bool
	// Valid is true when the field carried a non-null value.
	Valid bool
	Value T
}

// PatchOf builds a set, non-null Patch. Intended for tests and internal
// callers that construct update inputs directly.
func PatchOf[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Valid: true, Value: v}
}

// PatchNull builds a set-to-null Patch (clear the field).
func PatchNull[T any]() Patch[T] {
	return Patch[T]{Set: true}
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.Set = true
	if string(data) == "null" {
		p.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &p.Value); err != nil {
		return err
	}
	p.Valid = true
	return nil
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.Set || !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}
