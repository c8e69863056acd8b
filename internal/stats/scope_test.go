package stats

import (
	"reflect"
	"testing"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/drawer"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		input   string
		want    Scope
		wantErr bool
	}{
		{"", ScopeAll, false},
		{"all", ScopeAll, false},
		{"latest", ScopeLatest, false},
		{"recent", "", true},
	}

	for _, tt := range tests {
		got, err := ParseScope(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScope(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseScope(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSelect(t *testing.T) {
	hands := []drawer.Hand{{entry("W", "")}, {entry("U", "")}}

	if got := Select(hands, ScopeAll); len(got) != 2 {
		t.Errorf("Select(all) returned %d hands, want 2", len(got))
	}

	latest := Select(hands, ScopeLatest)
	if len(latest) != 1 {
		t.Fatalf("Select(latest) returned %d hands, want 1", len(latest))
	}
	if !reflect.DeepEqual(latest[0], hands[1]) {
		t.Errorf("Select(latest) = %v, want %v", latest[0], hands[1])
	}

	if got := Select(nil, ScopeLatest); got != nil {
		t.Errorf("Select(nil, latest) = %v, want nil", got)
	}
}

func TestAggregateScope_Latest(t *testing.T) {
	hands := []drawer.Hand{{entry("W", "")}, {entry("U", "Creature")}}

	snap := AggregateScope(hands, ScopeLatest)
	if snap.Scope != ScopeLatest {
		t.Errorf("Scope = %q, want latest", snap.Scope)
	}
	if got := snap.Colors.Get("White"); got != 0 {
		t.Errorf("White = %d, want 0", got)
	}
	if got := snap.Colors.Get("Blue"); got != 1 {
		t.Errorf("Blue = %d, want 1", got)
	}
	if snap.TotalHands != 2 {
		t.Errorf("TotalHands = %d, want 2", snap.TotalHands)
	}
	if snap.TotalCards != 1 {
		t.Errorf("TotalCards = %d, want 1", snap.TotalCards)
	}
}
