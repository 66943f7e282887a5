package ports

import (
	"encoding/json"
	"testing"
)

type patchProbe struct {
	Name  Patch[string] `json:"name"`
	Breed Patch[string] `json:"breed"`
	Count Patch[int]    `json:"count"`
}

func TestPatch_AbsentNullValue(t *testing.T) {
	var probe patchProbe
	body := `{"name":"Bella","breed":null}`
	if err := json.Unmarshal([]byte(body), &probe); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !probe.Name.Set || !probe.Name.Valid || probe.Name.Value != "Bella" {
		t.Errorf("value field must be set and valid, got %+v", probe.Name)
	}
	if !probe.Breed.Set || probe.Breed.Valid {
		t.Errorf("null field must be set but not valid, got %+v", probe.Breed)
	}
	if probe.Count.Set {
		t.Errorf("absent field must stay unset, got %+v", probe.Count)
	}
}

func TestPatch_TypeMismatch(t *testing.T) {
	var probe patchProbe
	if err := json.Unmarshal([]byte(`{"count":"twelve"}`), &probe); err == nil {
		t.Error("decoding a string into an int patch must fail")
	}
}

func TestPatch_Constructors(t *testing.T) {
	p := PatchOf("husky")
	if !p.Set || !p.Valid || p.Value != "husky" {
		t.Errorf("PatchOf must produce a set, valid patch, got %+v", p)
	}

	n := PatchNull[string]()
	if !n.Set || n.Valid {
		t.Errorf("PatchNull must produce a set, null patch, got %+v", n)
	}
}

func TestPatch_MarshalRoundTrip(t *testing.T) {
	out, err := json.Marshal(patchProbe{Name: PatchOf("Bella"), Breed: PatchNull[string]()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"name":"Bella","breed":null,"count":null}`
	if string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}
