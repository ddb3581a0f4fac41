// Package focus moves the selection cursor over groups and clients.
package focus

import (
	"slices"

	"github.com/b/snapmixer/pkg/snapcast"
	"github.com/b/snapmixer/pkg/topology"
)

// Move is the result of a navigation request: either a new focus id or
// no change at all.
type Move struct {
	target  string
	changed bool
}

// Changed reports a move to id.
func Changed(id string) Move { return Move{target: id, changed: true} }

// Unchanged reports that the focus stays where it is.
func Unchanged() Move { return Move{} }

// Target returns the new focus id and whether the focus moved.
func (m Move) Target() (string, bool) { return m.target, m.changed }

// MoveRow steps delta rows through groups and clients. An empty focus
// means nothing is selected.
func MoveRow(delta int, focus string, state *snapcast.State) Move {
	return step(topology.Flatten(state), delta, focus)
}

// MoveGroup steps delta groups. From a client, moving back lands on the
// client's own group and moving forward on the group after it.
func MoveGroup(delta int, focus string, state *snapcast.State) Move {
	groups := topology.GroupIDs(state)
	if len(groups) == 0 {
		return Unchanged()
	}
	if slices.Contains(groups, focus) {
		return step(groups, delta, focus)
	}

	parent, ok := state.GroupOf(focus)
	if !ok {
		return entry(groups, delta, focus)
	}
	p := slices.Index(groups, parent.ID)
	if p < 0 {
		return entry(groups, delta, focus)
	}

	t := p + delta
	if delta < 0 {
		t++
	}
	t = max(0, min(t, len(groups)-1))
	return result(groups[t], focus)
}

func step(ids []string, delta int, focus string) Move {
	if len(ids) == 0 {
		return Unchanged()
	}
	i := slices.Index(ids, focus)
	if focus == "" || i < 0 {
		return entry(ids, delta, focus)
	}

	t := i + delta
	switch {
	case t < 0:
		t = 0
	case t > len(ids)-1:
		t = len(ids) - 1
	}
	return result(ids[t], focus)
}

func entry(ids []string, delta int, focus string) Move {
	if delta > 0 {
		return result(ids[0], focus)
	}
	return result(ids[len(ids)-1], focus)
}

func result(target, focus string) Move {
	if target == focus {
		return Unchanged()
	}
	return Changed(target)
}
