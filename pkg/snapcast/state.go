package snapcast

// Volume is a client's volume configuration. Percent is in [0,100].
type Volume struct {
	Percent int  `json:"percent"`
	Muted   bool `json:"muted"`
}

type Host struct {
	Arch string `json:"arch"`
	IP   string `json:"ip"`
	MAC  string `json:"mac"`
	Name string `json:"name"`
	OS   string `json:"os"`
}

type ClientConfig struct {
	Instance int    `json:"instance"`
	Latency  int    `json:"latency"`
	Name     string `json:"name"`
	Volume   Volume `json:"volume"`
}

// Client is a single playback endpoint.
type Client struct {
	ID        string       `json:"id"`
	Connected bool         `json:"connected"`
	Config    ClientConfig `json:"config"`
	Host      Host         `json:"host"`
}

// Group is a set of clients sharing a stream and a group-level mute flag.
// Clients holds member ids in server order.
type Group struct {
	ID       string
	Name     string
	Muted    bool
	StreamID string
	Clients  []string
}

type Stream struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// State mirrors the server's view of groups, clients and streams.
// Snapshots handed out by a Session are never mutated afterwards.
type State struct {
	Groups  map[string]Group
	Clients map[string]Client
	Streams map[string]Stream
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Groups:  make(map[string]Group),
		Clients: make(map[string]Client),
		Streams: make(map[string]Stream),
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	out := NewState()
	if s == nil {
		return out
	}
	for id, g := range s.Groups {
		g.Clients = append([]string(nil), g.Clients...)
		out.Groups[id] = g
	}
	for id, c := range s.Clients {
		out.Clients[id] = c
	}
	for id, st := range s.Streams {
		out.Streams[id] = st
	}
	return out
}

// Group returns the group with the given id.
func (s *State) Group(id string) (Group, bool) {
	if s == nil {
		return Group{}, false
	}
	g, ok := s.Groups[id]
	return g, ok
}

// Client returns the client with the given id.
func (s *State) Client(id string) (Client, bool) {
	if s == nil {
		return Client{}, false
	}
	c, ok := s.Clients[id]
	return c, ok
}

// GroupOf returns the group listing clientID as a member.
func (s *State) GroupOf(clientID string) (Group, bool) {
	if s == nil {
		return Group{}, false
	}
	for _, g := range s.Groups {
		for _, id := range g.Clients {
			if id == clientID {
				return g, true
			}
		}
	}
	return Group{}, false
}

// Members returns the group's members that exist in the client table, in
// group order. Ids without a client record are skipped.
func (s *State) Members(groupID string) []Client {
	g, ok := s.Group(groupID)
	if !ok {
		return nil
	}
	members := make([]Client, 0, len(g.Clients))
	for _, id := range g.Clients {
		if c, ok := s.Clients[id]; ok {
			members = append(members, c)
		}
	}
	return members
}
