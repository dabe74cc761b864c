package outage

import "time"

// Cutoff is the instant before which outages are discarded.
var Cutoff = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

// Enrich filters outages against site and attaches device display names.
//
// An outage is kept iff its Begin is not before Cutoff and its ID matches a
// device in site.Devices. Relative order of kept outages is preserved. When a
// site lists the same device ID twice, the last entry wins.
func Enrich(outages []Outage, site SiteInfo) []EnrichedOutage {
	names := make(map[string]string, len(site.Devices))
	for _, d := range site.Devices {
		names[d.ID] = d.Name
	}

	out := make([]EnrichedOutage, 0, len(outages))
	for _, o := range outages {
		if o.Begin.Before(Cutoff) {
			continue
		}
		name, ok := names[o.ID]
		if !ok {
			continue
		}
		out = append(out, EnrichedOutage{Outage: o, Name: name})
	}
	return out
}
