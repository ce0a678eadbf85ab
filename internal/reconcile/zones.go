package reconcile

import "strings"

// ZoneSet resolves hostnames to the zone that contains them.
type ZoneSet struct {
	byName map[string]string
}

// NewZoneSet builds a ZoneSet from the zones visible to the account.
func NewZoneSet(zones []Zone) *ZoneSet {
	byName := make(map[string]string, len(zones))
	for _, z := range zones {
		name := NormalizeHostname(z.Name)
		if name == "" || z.ID == "" {
			continue
		}
		byName[name] = z.ID
	}
	return &ZoneSet{byName: byName}
}

// Lookup finds the zone containing a hostname by walking up its labels until
// a zone name matches. Starting from the full hostname means the longest
// (most specific) zone wins when zones nest, e.g. "internal.example.com"
// beats "example.com" for "app.internal.example.com".
func (zs *ZoneSet) Lookup(hostname string) (zoneID string, ok bool) {
	for h := NormalizeHostname(hostname); h != ""; {
		if id, ok := zs.byName[h]; ok {
			return id, true
		}
		idx := strings.Index(h, ".")
		if idx < 0 {
			break
		}
		h = h[idx+1:]
	}
	return "", false
}
