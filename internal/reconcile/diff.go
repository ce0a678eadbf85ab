package reconcile

import (
	"fmt"
	"sort"
)

// Diff compares the declared tunnel state against the observed DNS state and
// returns the actions needed to make them agree, plus every conflict the
// comparison surfaced. The function is total: malformed input becomes a
// conflict, never an error, so one bad record cannot block the rest of the
// run. Hostnames are processed in lexicographic order and deletes are listed
// before creates and updates, so applying the list never leaves two records
// holding the same name longer than necessary.
func Diff(tunnels *TunnelCatalog, dns *DNSCatalog, zones *ZoneSet) ([]Action, []Conflict) {
	var conflicts []Conflict
	conflicts = append(conflicts, tunnels.Conflicts()...)
	conflicts = append(conflicts, dns.Conflicts()...)

	var deletes, changes []Action
	for _, hostname := range hostnameUnion(tunnels, dns) {
		// A hostname with ambiguous ownership gets no action of any kind
		// until a human resolves which tunnel it belongs to. The conflict
		// itself was recorded when the catalog was built.
		if tunnels.Ambiguous(hostname) {
			continue
		}

		owner, declared := tunnels.Owner(hostname)
		records := dns.Records(hostname)
		managed := managedOnly(records)

		if !declared {
			// Only tunnel-managed records may be cleaned up. Anything else
			// under an undeclared name is outside this tool's authority.
			for _, record := range managed {
				deletes = append(deletes, staleDelete(tunnels, hostname, record))
			}
			continue
		}

		switch {
		case len(records) == 0:
			zoneID, ok := zones.Lookup(hostname)
			if !ok {
				conflicts = append(conflicts, Conflict{
					Kind:     ConflictUnclassifiable,
					Hostname: hostname,
					Detail:   fmt.Sprintf("no zone in the account contains %s", hostname),
				})
				continue
			}
			changes = append(changes, Action{
				Kind:     ActionCreate,
				Hostname: hostname,
				ZoneID:   zoneID,
				TunnelID: owner,
				Reason:   fmt.Sprintf("tunnel %s declares %s and no record exists", owner, hostname),
			})

		case len(managed) == 0:
			// The name is taken by records this tool does not manage.
			// Creating here would collide, so report instead.
			conflicts = append(conflicts, Conflict{
				Kind:     ConflictForeignRecord,
				Hostname: hostname,
				Detail:   fmt.Sprintf("declared by tunnel %s but an unmanaged record holds the name (target %s)", owner, records[0].Target),
			})

		default:
			correct := false
			for _, record := range managed {
				if record.TunnelID == owner {
					correct = true
					break
				}
			}
			updated := false
			for _, record := range managed {
				switch {
				case record.TunnelID == owner:
					// Already pointing at the declaring tunnel.
				case !correct && !updated:
					// Repoint exactly one record; duplicates beyond it are
					// stale and removed below.
					updated = true
					changes = append(changes, Action{
						Kind:         ActionUpdate,
						Hostname:     hostname,
						ZoneID:       record.ZoneID,
						RecordID:     record.ID,
						TunnelID:     owner,
						FromTunnelID: record.TunnelID,
						Reason:       fmt.Sprintf("record targets tunnel %s but tunnel %s declares %s", record.TunnelID, owner, hostname),
					})
				default:
					deletes = append(deletes, staleDelete(tunnels, hostname, record))
				}
			}
		}
	}

	return append(deletes, changes...), conflicts
}

// staleDelete builds the delete action for a tunnel-managed record that no
// current tunnel declaration justifies.
func staleDelete(tunnels *TunnelCatalog, hostname string, record ClassifiedRecord) Action {
	reason := fmt.Sprintf("tunnel %s no longer declares %s", record.TunnelID, hostname)
	if !tunnels.HasTunnel(record.TunnelID) {
		reason = fmt.Sprintf("tunnel %s no longer exists", record.TunnelID)
	}
	return Action{
		Kind:     ActionDelete,
		Hostname: hostname,
		ZoneID:   record.ZoneID,
		RecordID: record.ID,
		TunnelID: record.TunnelID,
		Reason:   reason,
	}
}

// hostnameUnion returns the sorted union of the hostnames known to either
// catalog, including ambiguous ones, so every rule sees every name.
func hostnameUnion(tunnels *TunnelCatalog, dns *DNSCatalog) []string {
	seen := make(map[string]bool)
	for name := range tunnels.owners {
		seen[name] = true
	}
	for name := range tunnels.ambiguous {
		seen[name] = true
	}
	for name := range dns.records {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// managedOnly filters a hostname's records down to the tunnel-managed ones.
func managedOnly(records []ClassifiedRecord) []ClassifiedRecord {
	var out []ClassifiedRecord
	for _, record := range records {
		if record.TunnelManaged {
			out = append(out, record)
		}
	}
	return out
}
