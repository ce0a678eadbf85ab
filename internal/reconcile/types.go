package reconcile

import "strings"

// Tunnel is one cloudflared tunnel together with the hostnames its ingress
// rules declare.
type Tunnel struct {
	ID        string
	Name      string
	Hostnames []string
}

// Zone is a DNS zone visible to the account.
type Zone struct {
	ID   string
	Name string
}

// Record is a CNAME record observed in a zone.
type Record struct {
	ID     string
	ZoneID string
	Name   string
	Type   string
	Target string
}

// ActionKind identifies the remote operation an Action performs.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
)

// Action is a single planned change to DNS state. Kind determines which
// fields are meaningful: creates have no RecordID, deletes carry the stale
// tunnel in TunnelID, updates carry both FromTunnelID and TunnelID.
type Action struct {
	Kind         ActionKind
	Hostname     string
	ZoneID       string
	RecordID     string
	TunnelID     string
	FromTunnelID string
	Reason       string
}

// ConflictKind classifies a condition the differ detects but must not
// resolve on its own.
type ConflictKind string

const (
	// ConflictAmbiguousOwnership marks a hostname declared by more than one
	// tunnel.
	ConflictAmbiguousOwnership ConflictKind = "ambiguous-ownership"
	// ConflictForeignRecord marks a declared hostname whose name is already
	// taken by a record this tool does not manage.
	ConflictForeignRecord ConflictKind = "foreign-record"
	// ConflictUnclassifiable marks input the differ cannot act on safely,
	// such as a record without an ID or a hostname outside every zone.
	ConflictUnclassifiable ConflictKind = "unclassifiable"
)

// Conflict is a reported condition surfaced alongside the action list. It is
// never fatal and never silently dropped.
type Conflict struct {
	Kind     ConflictKind
	Hostname string
	Detail   string
}

// NormalizeHostname lower-cases a hostname and strips any trailing dot so
// that hostnames from tunnels and from DNS compare equal.
func NormalizeHostname(hostname string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(hostname)), ".")
}
