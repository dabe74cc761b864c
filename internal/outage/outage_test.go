package outage

import (
	"encoding/json"
	"testing"
)

func TestOutage_RoundTripPreservesSourceFields(t *testing.T) {
	src := `{"id":"d1","begin":"2022-01-05T00:00:00.000Z","severity":"critical"}`

	var o Outage
	if err := json.Unmarshal([]byte(src), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if o.ID != "d1" || o.Begin.Year() != 2022 {
		t.Errorf("typed view = %+v", o)
	}

	enriched := Enrich([]Outage{o}, SiteInfo{Devices: []Device{{ID: "d1", Name: "Battery 1"}}})
	if len(enriched) != 1 {
		t.Fatalf("enriched = %+v, want 1 outage", enriched)
	}

	out, err := json.Marshal(enriched)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var sent []map[string]json.RawMessage
	if err := json.Unmarshal(out, &sent); err != nil {
		t.Fatalf("decode marshalled output: %v", err)
	}

	// Fields outside the typed view pass through untouched.
	if got := string(sent[0]["severity"]); got != `"critical"` {
		t.Errorf("severity = %s, want \"critical\"", got)
	}
	// The source timestamp encoding is preserved byte-for-byte.
	if got := string(sent[0]["begin"]); got != `"2022-01-05T00:00:00.000Z"` {
		t.Errorf("begin = %s, want original millisecond encoding", got)
	}
	if got := string(sent[0]["name"]); got != `"Battery 1"` {
		t.Errorf("name = %s", got)
	}
}

func TestOutage_MissingBeginIsMalformed(t *testing.T) {
	var o Outage
	if err := json.Unmarshal([]byte(`{"id":"d1"}`), &o); err == nil {
		t.Error("unmarshal accepted outage without begin")
	}

	var list []Outage
	if err := json.Unmarshal([]byte(`[{"id":"d1","begin":"2022-01-05T00:00:00Z"},{"id":"d2"}]`), &list); err == nil {
		t.Error("unmarshal accepted list with a begin-less outage")
	}
}

func TestEnrichedOutage_ConstructedFallback(t *testing.T) {
	// Built in code, not decoded — the typed view is emitted.
	o := Outage{ID: "d1", Begin: Cutoff}
	b, err := json.Marshal(EnrichedOutage{Outage: o, Name: "Battery 1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var sent map[string]json.RawMessage
	if err := json.Unmarshal(b, &sent); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(sent["id"]) != `"d1"` || string(sent["name"]) != `"Battery 1"` {
		t.Errorf("payload = %s", b)
	}
	if _, ok := sent["end"]; ok {
		t.Errorf("nil end should be omitted: %s", b)
	}
}

func TestEnrichedOutage_NameOverridesSourceField(t *testing.T) {
	var o Outage
	if err := json.Unmarshal([]byte(`{"id":"d1","begin":"2022-01-05T00:00:00Z","name":"stale"}`), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	b, err := json.Marshal(EnrichedOutage{Outage: o, Name: "Battery 1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var sent map[string]json.RawMessage
	if err := json.Unmarshal(b, &sent); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(sent["name"]) != `"Battery 1"` {
		t.Errorf("name = %s, want the device name, not the source value", sent["name"])
	}
}
