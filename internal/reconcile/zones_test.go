package reconcile

import "testing"

func TestZoneSetLookup(t *testing.T) {
	zs := NewZoneSet([]Zone{
		{ID: "zone-1", Name: "example.com"},
		{ID: "zone-2", Name: "internal.example.com"},
		{ID: "zone-3", Name: "Example.ORG."},
	})

	tests := []struct {
		hostname string
		wantID   string
		wantOK   bool
	}{
		{"app.example.com", "zone-1", true},
		{"deep.nested.example.com", "zone-1", true},
		{"example.com", "zone-1", true},
		{"app.internal.example.com", "zone-2", true}, // most specific zone wins
		{"internal.example.com", "zone-2", true},
		{"app.example.org", "zone-3", true},
		{"APP.Example.COM.", "zone-1", true}, // case and trailing dot
		{"app.unrelated.net", "", false},
		{"com", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			id, ok := zs.Lookup(tt.hostname)
			if ok != tt.wantOK {
				t.Errorf("Lookup(%q): got ok=%v, want %v", tt.hostname, ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("Lookup(%q): got zone %q, want %q", tt.hostname, id, tt.wantID)
			}
		})
	}
}

func TestNewZoneSetSkipsMalformedZones(t *testing.T) {
	zs := NewZoneSet([]Zone{
		{ID: "", Name: "noid.com"},
		{ID: "zone-1", Name: ""},
	})
	if _, ok := zs.Lookup("app.noid.com"); ok {
		t.Error("expected no match for zone without an ID")
	}
}
