package reconcile

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultTargetSuffix is the domain suffix shared by all tunnel-routing
// CNAME targets.
const DefaultTargetSuffix = "cfargotunnel.com"

// ClassifiedRecord is a DNS record annotated with the result of
// tunnel-target classification. Only records with TunnelManaged set are
// candidates for update or delete.
type ClassifiedRecord struct {
	Record
	TunnelManaged bool
	TunnelID      string
}

// DNSCatalog groups the CNAME records of all zones by normalized hostname.
// A hostname may map to several records when duplicates exist across zones
// or when a foreign record shares the name with a tunnel-managed one.
type DNSCatalog struct {
	records   map[string][]ClassifiedRecord
	conflicts []Conflict
}

// TunnelTarget returns the CNAME target routing a hostname to a tunnel.
func TunnelTarget(tunnelID, targetSuffix string) string {
	return tunnelID + "." + targetSuffix
}

// ParseTunnelTarget extracts the tunnel ID from a CNAME target. It returns
// false when the target does not end in the tunnel target suffix, or when it
// does but carries no tunnel ID.
func ParseTunnelTarget(target, targetSuffix string) (tunnelID string, ok bool) {
	target = NormalizeHostname(target)
	suffix := "." + strings.ToLower(targetSuffix)
	if !strings.HasSuffix(target, suffix) {
		return "", false
	}
	id := strings.TrimSuffix(target, suffix)
	if id == "" {
		return "", false
	}
	return id, true
}

// BuildDNSCatalog filters the given records to CNAMEs and classifies each as
// tunnel-managed or foreign. Records the differ could never act on safely,
// such as records without an ID or zone ID, or records whose target looks
// tunnel-shaped but carries no tunnel ID, are surfaced as Unclassifiable
// conflicts and kept in the catalog as foreign so their name is still
// protected from colliding creates. Pure function over its input.
func BuildDNSCatalog(records []Record, targetSuffix string) *DNSCatalog {
	if targetSuffix == "" {
		targetSuffix = DefaultTargetSuffix
	}
	targetSuffix = strings.ToLower(targetSuffix)

	c := &DNSCatalog{records: make(map[string][]ClassifiedRecord)}
	for _, record := range records {
		if !strings.EqualFold(record.Type, "CNAME") {
			continue
		}
		name := NormalizeHostname(record.Name)
		if name == "" {
			continue
		}

		classified := ClassifiedRecord{Record: record}
		switch {
		case record.ID == "" || record.ZoneID == "":
			c.conflicts = append(c.conflicts, Conflict{
				Kind:     ConflictUnclassifiable,
				Hostname: name,
				Detail:   "record is missing its record ID or zone ID",
			})
		default:
			id, ok := ParseTunnelTarget(record.Target, targetSuffix)
			if ok {
				classified.TunnelManaged = true
				classified.TunnelID = id
			} else if t := NormalizeHostname(record.Target); t == targetSuffix || strings.HasSuffix(t, "."+targetSuffix) {
				// Tunnel-shaped target without an extractable tunnel ID.
				c.conflicts = append(c.conflicts, Conflict{
					Kind:     ConflictUnclassifiable,
					Hostname: name,
					Detail:   fmt.Sprintf("cannot extract a tunnel ID from target %q", record.Target),
				})
			}
		}
		c.records[name] = append(c.records[name], classified)
	}

	for name := range c.records {
		recs := c.records[name]
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].ZoneID != recs[j].ZoneID {
				return recs[i].ZoneID < recs[j].ZoneID
			}
			return recs[i].ID < recs[j].ID
		})
	}
	return c
}

// Records returns the classified records grouped under a hostname.
func (c *DNSCatalog) Records(hostname string) []ClassifiedRecord {
	return c.records[NormalizeHostname(hostname)]
}

// Conflicts returns the classification conflicts found while building the
// catalog.
func (c *DNSCatalog) Conflicts() []Conflict {
	return c.conflicts
}
