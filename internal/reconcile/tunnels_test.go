package reconcile

import "testing"

func TestBuildTunnelCatalog(t *testing.T) {
	catalog := BuildTunnelCatalog([]Tunnel{
		{ID: "t1", Name: "alpha", Hostnames: []string{"a.example.com", "B.Example.Com."}},
		{ID: "t2", Name: "beta", Hostnames: []string{"c.example.com"}},
	})

	tests := []struct {
		hostname  string
		wantOwner string
		wantOK    bool
	}{
		{"a.example.com", "t1", true},
		{"b.example.com", "t1", true}, // normalized at build
		{"B.example.com.", "t1", true},
		{"c.example.com", "t2", true},
		{"d.example.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			owner, ok := catalog.Owner(tt.hostname)
			if ok != tt.wantOK {
				t.Errorf("Owner(%q): got ok=%v, want %v", tt.hostname, ok, tt.wantOK)
			}
			if owner != tt.wantOwner {
				t.Errorf("Owner(%q): got %q, want %q", tt.hostname, owner, tt.wantOwner)
			}
		})
	}

	if len(catalog.Conflicts()) != 0 {
		t.Errorf("expected no conflicts, got %v", catalog.Conflicts())
	}
	if !catalog.HasTunnel("t1") || !catalog.HasTunnel("t2") {
		t.Error("expected both tunnel IDs to be tracked")
	}
	if catalog.HasTunnel("t9") {
		t.Error("unexpected tunnel t9")
	}
}

func TestBuildTunnelCatalogAmbiguousOwnership(t *testing.T) {
	catalog := BuildTunnelCatalog([]Tunnel{
		{ID: "t2", Hostnames: []string{"shared.example.com"}},
		{ID: "t1", Hostnames: []string{"Shared.Example.Com", "mine.example.com"}},
	})

	if _, ok := catalog.Owner("shared.example.com"); ok {
		t.Error("ambiguous hostname must not have an owner")
	}
	if !catalog.Ambiguous("shared.example.com") {
		t.Error("expected shared.example.com to be ambiguous")
	}
	if catalog.Ambiguous("mine.example.com") {
		t.Error("mine.example.com must not be ambiguous")
	}

	conflicts := catalog.Conflicts()
	if len(conflicts) != 1 {
		t.Fatalf("expected exactly one conflict, got %d", len(conflicts))
	}
	c := conflicts[0]
	if c.Kind != ConflictAmbiguousOwnership {
		t.Errorf("expected kind %q, got %q", ConflictAmbiguousOwnership, c.Kind)
	}
	if c.Hostname != "shared.example.com" {
		t.Errorf("expected hostname shared.example.com, got %q", c.Hostname)
	}
	if c.Detail != "declared by tunnels t1, t2" {
		t.Errorf("expected sorted claimants in detail, got %q", c.Detail)
	}
}

func TestBuildTunnelCatalogDuplicateWithinOneTunnel(t *testing.T) {
	catalog := BuildTunnelCatalog([]Tunnel{
		{ID: "t1", Hostnames: []string{"a.example.com", "a.example.com", "A.Example.Com"}},
	})

	owner, ok := catalog.Owner("a.example.com")
	if !ok || owner != "t1" {
		t.Fatalf("expected t1 to own a.example.com, got %q (ok=%v)", owner, ok)
	}
	if len(catalog.Conflicts()) != 0 {
		t.Errorf("duplicates within one tunnel are not a conflict, got %v", catalog.Conflicts())
	}
}

func TestBuildTunnelCatalogSkipsEmptyInput(t *testing.T) {
	catalog := BuildTunnelCatalog([]Tunnel{
		{ID: "", Hostnames: []string{"orphan.example.com"}},
		{ID: "t1", Hostnames: []string{"", "."}},
	})

	if _, ok := catalog.Owner("orphan.example.com"); ok {
		t.Error("hostname of a tunnel without an ID must not get an owner")
	}
	if catalog.HasTunnel("") {
		t.Error("empty tunnel ID must not be tracked")
	}
}
