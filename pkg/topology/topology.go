package topology

import (
	"sort"

	"github.com/b/snapmixer/pkg/snapcast"
)

// ClientName is the label shown for a client.
func ClientName(c snapcast.Client) string {
	if c.Config.Name != "" {
		return c.Config.Name
	}
	if c.Host.Name != "" {
		return "Client on host " + c.Host.Name
	}
	return "Client with ID " + c.ID
}

// GroupName is the label shown for a group.
func GroupName(g snapcast.Group) string {
	if g.Name != "" {
		return g.Name
	}
	return "Group with ID " + g.ID
}

// SortedGroups returns every group ordered by display name, then id.
func SortedGroups(state *snapcast.State) []snapcast.Group {
	if state == nil {
		return nil
	}
	groups := make([]snapcast.Group, 0, len(state.Groups))
	for _, g := range state.Groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		ni, nj := GroupName(groups[i]), GroupName(groups[j])
		if ni != nj {
			return ni < nj
		}
		return groups[i].ID < groups[j].ID
	})
	return groups
}

// SortedClients returns the resolvable members of groupID ordered by
// display name, then id.
func SortedClients(state *snapcast.State, groupID string) []snapcast.Client {
	clients := state.Members(groupID)
	sort.Slice(clients, func(i, j int) bool {
		ni, nj := ClientName(clients[i]), ClientName(clients[j])
		if ni != nj {
			return ni < nj
		}
		return clients[i].ID < clients[j].ID
	})
	return clients
}

// Flatten lists every group id followed by its member ids, in display
// order. It is recomputed on each call.
func Flatten(state *snapcast.State) []string {
	var ids []string
	for _, g := range SortedGroups(state) {
		ids = append(ids, g.ID)
		for _, c := range SortedClients(state, g.ID) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// GroupIDs lists the group ids in display order.
func GroupIDs(state *snapcast.State) []string {
	groups := SortedGroups(state)
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	return ids
}
