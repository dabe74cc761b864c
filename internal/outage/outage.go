package outage

import (
	"encoding/json"
	"fmt"
	"time"
)

// Outage is one device downtime interval as returned by GET /outages.
// Identity is ID; End is nil for an ongoing outage.
//
// The upstream object may carry fields beyond id/begin/end. Decoding keeps
// every field's original encoding so a resubmitted outage is byte-for-byte
// what the upstream sent (timestamp precision included), with only the
// device name added.
type Outage struct {
	ID    string
	Begin time.Time
	End   *time.Time

	// fields is the source object, verbatim. Nil for values constructed
	// in code rather than decoded.
	fields map[string]json.RawMessage
}

// UnmarshalJSON decodes the typed view and retains the source fields.
// A missing or null begin is a malformed record.
func (o *Outage) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var typed struct {
		ID    string     `json:"id"`
		Begin *time.Time `json:"begin"`
		End   *time.Time `json:"end"`
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	if typed.Begin == nil {
		return fmt.Errorf("outage %q: missing begin", typed.ID)
	}

	o.ID = typed.ID
	o.Begin = *typed.Begin
	o.End = typed.End
	o.fields = fields
	return nil
}

// MarshalJSON emits the source fields verbatim, falling back to the typed
// view for values constructed in code.
func (o Outage) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.sourceFields())
}

// sourceFields returns the original field set, synthesizing one from the
// typed view when the outage was not decoded from upstream JSON.
func (o Outage) sourceFields() map[string]json.RawMessage {
	if o.fields != nil {
		return o.fields
	}
	fields := make(map[string]json.RawMessage, 3)
	fields["id"], _ = json.Marshal(o.ID)
	fields["begin"], _ = json.Marshal(o.Begin)
	if o.End != nil {
		fields["end"], _ = json.Marshal(o.End)
	}
	return fields
}

// Device is one piece of equipment listed in a site's device inventory.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SiteInfo is the metadata record returned by GET /site-info/{siteId}.
type SiteInfo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Devices []Device `json:"devices"`
}

// EnrichedOutage is an Outage carrying the matching device's display name.
// The upstream API expects the name under the "name" key on submit.
type EnrichedOutage struct {
	Outage
	Name string
}

// MarshalJSON emits the source outage with "name" attached. A "name" field
// already present on the source object is overridden.
func (e EnrichedOutage) MarshalJSON() ([]byte, error) {
	src := e.Outage.sourceFields()
	fields := make(map[string]json.RawMessage, len(src)+1)
	for k, v := range src {
		fields[k] = v
	}

	name, err := json.Marshal(e.Name)
	if err != nil {
		return nil, err
	}
	fields["name"] = name
	return json.Marshal(fields)
}
