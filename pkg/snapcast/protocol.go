package snapcast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Method names used on the control connection.
const (
	MethodGetStatus       = "Server.GetStatus"
	MethodClientSetVolume = "Client.SetVolume"
	MethodGroupSetMute    = "Group.SetMute"

	NotifyClientVolumeChanged  = "Client.OnVolumeChanged"
	NotifyClientLatencyChanged = "Client.OnLatencyChanged"
	NotifyClientNameChanged    = "Client.OnNameChanged"
	NotifyClientConnect        = "Client.OnConnect"
	NotifyClientDisconnect     = "Client.OnDisconnect"
	NotifyGroupMute            = "Group.OnMute"
	NotifyGroupNameChanged     = "Group.OnNameChanged"
	NotifyGroupStreamChanged   = "Group.OnStreamChanged"
	NotifyServerUpdate         = "Server.OnUpdate"
	NotifyStreamUpdate         = "Stream.OnUpdate"
)

const jsonrpcVersion = "2.0"

type request struct {
	ID      uint64 `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// message is any inbound object: a response (ID set) or a notification.
type message struct {
	ID     *uint64         `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
}

// RPCError is an error object returned by the server for a request.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	detail := ""
	if len(e.Data) > 0 {
		var text string
		if err := json.Unmarshal(e.Data, &text); err == nil {
			detail = text
		} else {
			detail = string(e.Data)
		}
	}
	if detail == "" || detail == e.Message {
		return e.Message
	}
	return e.Message + ": " + detail
}

type clientVolumeParams struct {
	ID     string `json:"id"`
	Volume Volume `json:"volume"`
}

type groupMuteParams struct {
	ID   string `json:"id"`
	Mute bool   `json:"mute"`
}

type wireGroup struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Muted    bool     `json:"muted"`
	StreamID string   `json:"stream_id"`
	Clients  []Client `json:"clients"`
}

type wireServer struct {
	Groups  []wireGroup `json:"groups"`
	Streams []Stream    `json:"streams"`
}

type statusResult struct {
	Server wireServer `json:"server"`
}

type volumeResult struct {
	Volume Volume `json:"volume"`
}

type muteResult struct {
	Mute bool `json:"mute"`
}

type volumeNotification struct {
	ID     string `json:"id"`
	Volume Volume `json:"volume"`
}

type latencyNotification struct {
	ID      string `json:"id"`
	Latency int    `json:"latency"`
}

type nameNotification struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type clientNotification struct {
	ID     string `json:"id"`
	Client Client `json:"client"`
}

type muteNotification struct {
	ID   string `json:"id"`
	Mute bool   `json:"mute"`
}

type streamChangedNotification struct {
	ID       string `json:"id"`
	StreamID string `json:"stream_id"`
}

type serverNotification struct {
	Server wireServer `json:"server"`
}

type streamNotification struct {
	ID     string `json:"id"`
	Stream Stream `json:"stream"`
}

// parseLine decodes one newline-delimited frame. A frame holds either a
// single object or a JSON-RPC batch array.
func parseLine(line []byte) ([]message, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, nil
	}
	if line[0] == '[' {
		var batch []message
		if err := json.Unmarshal(line, &batch); err != nil {
			return nil, fmt.Errorf("decode batch: %w", err)
		}
		return batch, nil
	}
	var single message
	if err := json.Unmarshal(line, &single); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return []message{single}, nil
}

// replaceServer swaps the whole mirror for a server description.
func (s *State) replaceServer(server wireServer) {
	s.Groups = make(map[string]Group, len(server.Groups))
	s.Clients = make(map[string]Client)
	s.Streams = make(map[string]Stream, len(server.Streams))
	for _, wg := range server.Groups {
		g := Group{
			ID:       wg.ID,
			Name:     wg.Name,
			Muted:    wg.Muted,
			StreamID: wg.StreamID,
			Clients:  make([]string, 0, len(wg.Clients)),
		}
		for _, c := range wg.Clients {
			g.Clients = append(g.Clients, c.ID)
			s.Clients[c.ID] = c
		}
		s.Groups[g.ID] = g
	}
	for _, st := range server.Streams {
		s.Streams[st.ID] = st
	}
}

func (s *State) updateClient(id string, fn func(*Client)) {
	c, ok := s.Clients[id]
	if !ok {
		return
	}
	fn(&c)
	s.Clients[id] = c
}

func (s *State) updateGroup(id string, fn func(*Group)) {
	g, ok := s.Groups[id]
	if !ok {
		return
	}
	fn(&g)
	s.Groups[id] = g
}

// applyNotification folds a server notification into the mirror. Unknown
// methods are accepted without change.
func (s *State) applyNotification(method string, params json.RawMessage) error {
	decode := func(v any) error {
		if err := json.Unmarshal(params, v); err != nil {
			return fmt.Errorf("decode %s params: %w", method, err)
		}
		return nil
	}

	switch method {
	case NotifyClientVolumeChanged:
		var n volumeNotification
		if err := decode(&n); err != nil {
			return err
		}
		s.updateClient(n.ID, func(c *Client) { c.Config.Volume = n.Volume })
	case NotifyClientLatencyChanged:
		var n latencyNotification
		if err := decode(&n); err != nil {
			return err
		}
		s.updateClient(n.ID, func(c *Client) { c.Config.Latency = n.Latency })
	case NotifyClientNameChanged:
		var n nameNotification
		if err := decode(&n); err != nil {
			return err
		}
		s.updateClient(n.ID, func(c *Client) { c.Config.Name = n.Name })
	case NotifyClientConnect, NotifyClientDisconnect:
		var n clientNotification
		if err := decode(&n); err != nil {
			return err
		}
		s.Clients[n.ID] = n.Client
	case NotifyGroupMute:
		var n muteNotification
		if err := decode(&n); err != nil {
			return err
		}
		s.updateGroup(n.ID, func(g *Group) { g.Muted = n.Mute })
	case NotifyGroupNameChanged:
		var n nameNotification
		if err := decode(&n); err != nil {
			return err
		}
		s.updateGroup(n.ID, func(g *Group) { g.Name = n.Name })
	case NotifyGroupStreamChanged:
		var n streamChangedNotification
		if err := decode(&n); err != nil {
			return err
		}
		s.updateGroup(n.ID, func(g *Group) { g.StreamID = n.StreamID })
	case NotifyServerUpdate:
		var n serverNotification
		if err := decode(&n); err != nil {
			return err
		}
		s.replaceServer(n.Server)
	case NotifyStreamUpdate:
		var n streamNotification
		if err := decode(&n); err != nil {
			return err
		}
		s.Streams[n.ID] = n.Stream
	}
	return nil
}

// pendingCall remembers what a request was about so its response can be
// folded into the mirror.
type pendingCall struct {
	method string
	target string
}

func (s *State) applyResult(call pendingCall, result json.RawMessage) error {
	switch call.method {
	case MethodGetStatus:
		var r statusResult
		if err := json.Unmarshal(result, &r); err != nil {
			return fmt.Errorf("decode %s result: %w", call.method, err)
		}
		s.replaceServer(r.Server)
	case MethodClientSetVolume:
		var r volumeResult
		if err := json.Unmarshal(result, &r); err != nil {
			return fmt.Errorf("decode %s result: %w", call.method, err)
		}
		s.updateClient(call.target, func(c *Client) { c.Config.Volume = r.Volume })
	case MethodGroupSetMute:
		var r muteResult
		if err := json.Unmarshal(result, &r); err != nil {
			return fmt.Errorf("decode %s result: %w", call.method, err)
		}
		s.updateGroup(call.target, func(g *Group) { g.Muted = r.Mute })
	}
	return nil
}
