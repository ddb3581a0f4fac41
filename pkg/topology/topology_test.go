package topology

import (
	"testing"

	"github.com/b/snapmixer/pkg/snapcast"
)

func client(id, name, host string) snapcast.Client {
	return snapcast.Client{
		ID:     id,
		Config: snapcast.ClientConfig{Name: name},
		Host:   snapcast.Host{Name: host},
	}
}

func buildState(groups []snapcast.Group, clients ...snapcast.Client) *snapcast.State {
	s := snapcast.NewState()
	for _, g := range groups {
		s.Groups[g.ID] = g
	}
	for _, c := range clients {
		s.Clients[c.ID] = c
	}
	return s
}

func TestClientName(t *testing.T) {
	tests := []struct {
		name   string
		client snapcast.Client
		want   string
	}{
		{"configured", client("c1", "Kitchen", "pi"), "Kitchen"},
		{"host fallback", client("c1", "", "pi"), "Client on host pi"},
		{"id fallback", client("c1", "", ""), "Client with ID c1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClientName(tt.client); got != tt.want {
				t.Errorf("ClientName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupName(t *testing.T) {
	if got := GroupName(snapcast.Group{ID: "g", Name: "Attic"}); got != "Attic" {
		t.Errorf("GroupName() = %q, want %q", got, "Attic")
	}
	if got := GroupName(snapcast.Group{ID: "g"}); got != "Group with ID g" {
		t.Errorf("GroupName() = %q, want %q", got, "Group with ID g")
	}
}

func TestFlatten(t *testing.T) {
	state := buildState(
		[]snapcast.Group{
			{ID: "gb", Name: "Bedroom", Clients: []string{"c3"}},
			{ID: "ga", Name: "Attic", Clients: []string{"c2", "c1", "ghost"}},
		},
		client("c1", "Alpha", ""),
		client("c2", "Beta", ""),
		client("c3", "", "host"),
	)

	got := Flatten(state)
	want := []string{"ga", "c1", "c2", "gb", "c3"}
	if len(got) != len(want) {
		t.Fatalf("Flatten() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Flatten() = %v, want %v", got, want)
		}
	}

	groups := GroupIDs(state)
	if len(groups) != 2 || groups[0] != "ga" || groups[1] != "gb" {
		t.Errorf("GroupIDs() = %v, want [ga gb]", groups)
	}
}

func TestFlattenFallbackNamesSortByDisplayName(t *testing.T) {
	// Both groups have no name, so the id-derived label decides.
	state := buildState([]snapcast.Group{
		{ID: "zz"},
		{ID: "aa"},
		{ID: "mm", Name: "Group with ID b"},
	})

	got := GroupIDs(state)
	want := []string{"aa", "mm", "zz"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("GroupIDs() = %v, want %v", got, want)
		}
	}
}

func TestFlattenTiesBreakOnID(t *testing.T) {
	state := buildState(
		[]snapcast.Group{{ID: "g", Name: "Same", Clients: []string{"c2", "c1"}}},
		client("c2", "Twin", ""),
		client("c1", "Twin", ""),
	)

	for i := 0; i < 20; i++ {
		got := Flatten(state)
		if got[1] != "c1" || got[2] != "c2" {
			t.Fatalf("Flatten() = %v, want ties ordered by id", got)
		}
	}
}

func TestFlattenFollowsRenames(t *testing.T) {
	state := buildState(
		[]snapcast.Group{
			{ID: "g1", Name: "One", Clients: []string{"a", "b"}},
			{ID: "g2", Name: "Two"},
		},
		client("a", "Apple", ""),
		client("b", "Banana", ""),
	)

	before := Flatten(state)
	if before[0] != "g1" || before[1] != "a" {
		t.Fatalf("Flatten() = %v before rename", before)
	}

	renamed := state.Clone()
	g := renamed.Groups["g1"]
	g.Name = "Zed"
	renamed.Groups["g1"] = g
	a := renamed.Clients["a"]
	a.Config.Name = "Cherry"
	renamed.Clients["a"] = a

	after := Flatten(renamed)
	want := []string{"g2", "g1", "b", "a"}
	for i := range want {
		if after[i] != want[i] {
			t.Fatalf("Flatten() after rename = %v, want %v", after, want)
		}
	}
}

func TestFlattenEmpty(t *testing.T) {
	if got := Flatten(snapcast.NewState()); len(got) != 0 {
		t.Errorf("Flatten(empty) = %v, want empty", got)
	}
	if got := Flatten(nil); len(got) != 0 {
		t.Errorf("Flatten(nil) = %v, want empty", got)
	}
}
