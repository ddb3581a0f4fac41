package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/b/snapmixer/pkg/snapcast"
)

// scenario builds the topology [G1, c1, c2, G2, c3].
func scenario() *snapcast.State {
	s := snapcast.NewState()
	s.Groups["G1"] = snapcast.Group{ID: "G1", Name: "1", Clients: []string{"c2", "c1"}}
	s.Groups["G2"] = snapcast.Group{ID: "G2", Name: "2", Clients: []string{"c3"}}
	for _, id := range []string{"c1", "c2", "c3"} {
		s.Clients[id] = snapcast.Client{ID: id, Config: snapcast.ClientConfig{Name: id}}
	}
	return s
}

func threeGroups() *snapcast.State {
	s := scenario()
	s.Groups["G3"] = snapcast.Group{ID: "G3", Name: "3", Clients: []string{"c4"}}
	s.Clients["c4"] = snapcast.Client{ID: "c4", Config: snapcast.ClientConfig{Name: "c4"}}
	return s
}

func assertChanged(t *testing.T, m Move, want string) {
	t.Helper()
	got, ok := m.Target()
	assert.True(t, ok, "expected a move to %q", want)
	assert.Equal(t, want, got)
}

func assertUnchanged(t *testing.T, m Move) {
	t.Helper()
	_, ok := m.Target()
	assert.False(t, ok, "expected no change")
}

func TestMoveRowScenario(t *testing.T) {
	s := scenario()

	assertChanged(t, MoveRow(1, "", s), "G1")
	assertChanged(t, MoveRow(1, "c2", s), "G2")
	assertUnchanged(t, MoveRow(1, "c3", s))
}

func TestMoveRow(t *testing.T) {
	tests := []struct {
		name    string
		delta   int
		focus   string
		want    string
		changed bool
	}{
		{"unset backwards enters at last", -1, "", "c3", true},
		{"unset zero enters at last", 0, "", "c3", true},
		{"vanished forwards enters at first", 1, "gone", "G1", true},
		{"vanished backwards enters at last", -1, "gone", "c3", true},
		{"step forward", 1, "G1", "c1", true},
		{"step back", -1, "G2", "c2", true},
		{"big step clamps to end", 10, "c1", "c3", true},
		{"big step clamps to start", -10, "c2", "G1", true},
		{"at start", -1, "G1", "", false},
		{"at start big step", -5, "G1", "", false},
		{"at end", 3, "c3", "", false},
		{"zero delta", 0, "c1", "", false},
	}

	s := scenario()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MoveRow(tt.delta, tt.focus, s)
			if tt.changed {
				assertChanged(t, m, tt.want)
			} else {
				assertUnchanged(t, m)
			}
		})
	}
}

func TestMoveRowBoundaryIdempotent(t *testing.T) {
	s := scenario()
	focus := "c1"
	for i := 0; i < 5; i++ {
		if target, ok := MoveRow(-1, focus, s).Target(); ok {
			focus = target
		}
	}
	assert.Equal(t, "G1", focus)
	assertUnchanged(t, MoveRow(-1, focus, s))
}

func TestMoveRowEmpty(t *testing.T) {
	assertUnchanged(t, MoveRow(1, "", snapcast.NewState()))
	assertUnchanged(t, MoveRow(-1, "x", snapcast.NewState()))
	assertUnchanged(t, MoveGroup(1, "", snapcast.NewState()))
}

func TestMoveGroupFromClient(t *testing.T) {
	s := threeGroups()
	groups := []string{"G1", "G2", "G3"}

	for p, child := range map[int]string{0: "c1", 1: "c3", 2: "c4"} {
		assertChanged(t, MoveGroup(-1, child, s), groups[p])
		want := groups[min(p+1, len(groups)-1)]
		assertChanged(t, MoveGroup(1, child, s), want)
	}
}

func TestMoveGroup(t *testing.T) {
	tests := []struct {
		name    string
		delta   int
		focus   string
		want    string
		changed bool
	}{
		{"unset forwards", 1, "", "G1", true},
		{"unset backwards", -1, "", "G3", true},
		{"vanished", 1, "gone", "G1", true},
		{"group forward", 1, "G1", "G2", true},
		{"group back", -1, "G3", "G2", true},
		{"first group back", -1, "G1", "", false},
		{"last group forward", 1, "G3", "", false},
		{"clamped jump", 5, "G1", "G3", true},
		{"two back from child", -2, "c4", "G2", true},
		{"far forward from child clamps", 9, "c1", "G3", true},
		{"far back from child clamps", -9, "c4", "G1", true},
	}

	s := threeGroups()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MoveGroup(tt.delta, tt.focus, s)
			if tt.changed {
				assertChanged(t, m, tt.want)
			} else {
				assertUnchanged(t, m)
			}
		})
	}
}

func TestMoveGroupFromOrphanClient(t *testing.T) {
	s := scenario()
	s.Clients["lonely"] = snapcast.Client{ID: "lonely"}

	assertChanged(t, MoveGroup(1, "lonely", s), "G1")
	assertChanged(t, MoveGroup(-1, "lonely", s), "G2")
}
