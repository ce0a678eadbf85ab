package reconcile

import (
	"fmt"
	"sort"
	"strings"
)

// TunnelCatalog maps every unambiguously declared hostname to the tunnel
// that owns it. A hostname declared by more than one tunnel has no owner:
// it is tracked as an AmbiguousOwnership conflict and treated as undeclared
// until resolved by a human.
type TunnelCatalog struct {
	owners    map[string]string
	ambiguous map[string]bool
	tunnelIDs map[string]bool
	conflicts []Conflict
}

// BuildTunnelCatalog normalizes the declared hostnames of all tunnels into a
// hostname to tunnel ID mapping. Pure function over its input.
func BuildTunnelCatalog(tunnels []Tunnel) *TunnelCatalog {
	claimants := make(map[string][]string)
	tunnelIDs := make(map[string]bool, len(tunnels))
	for _, tunnel := range tunnels {
		if tunnel.ID == "" {
			continue
		}
		tunnelIDs[tunnel.ID] = true
		for _, hostname := range tunnel.Hostnames {
			name := NormalizeHostname(hostname)
			if name == "" {
				continue
			}
			if !containsString(claimants[name], tunnel.ID) {
				claimants[name] = append(claimants[name], tunnel.ID)
			}
		}
	}

	c := &TunnelCatalog{
		owners:    make(map[string]string),
		ambiguous: make(map[string]bool),
		tunnelIDs: tunnelIDs,
	}

	names := make([]string, 0, len(claimants))
	for name := range claimants {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ids := claimants[name]
		if len(ids) == 1 {
			c.owners[name] = ids[0]
			continue
		}
		sort.Strings(ids)
		c.ambiguous[name] = true
		c.conflicts = append(c.conflicts, Conflict{
			Kind:     ConflictAmbiguousOwnership,
			Hostname: name,
			Detail:   fmt.Sprintf("declared by tunnels %s", strings.Join(ids, ", ")),
		})
	}
	return c
}

// Owner returns the tunnel that declares a hostname, if exactly one does.
func (c *TunnelCatalog) Owner(hostname string) (string, bool) {
	id, ok := c.owners[NormalizeHostname(hostname)]
	return id, ok
}

// Ambiguous reports whether more than one tunnel declares the hostname.
func (c *TunnelCatalog) Ambiguous(hostname string) bool {
	return c.ambiguous[NormalizeHostname(hostname)]
}

// HasTunnel reports whether a tunnel with the given ID currently exists.
func (c *TunnelCatalog) HasTunnel(id string) bool {
	return c.tunnelIDs[id]
}

// Conflicts returns the ownership conflicts found while building the catalog.
func (c *TunnelCatalog) Conflicts() []Conflict {
	return c.conflicts
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
