// Package volume scales client volumes, alone or across a whole group.
//
// The engine keeps a fractional shadow of every client's volume so that
// repeated proportional scaling does not drift through integer rounding.
// The server stays authoritative: Reconcile overwrites any shadow whose
// rounded value no longer matches the reported percent.
package volume

import (
	"math"

	"go.uber.org/zap"

	"github.com/b/snapmixer/pkg/snapcast"
)

//go:generate mockgen -destination=mocks/mock_commander.go -package=mocks github.com/b/snapmixer/pkg/volume Commander

// Commander sends volume commands to the server.
type Commander interface {
	SetClientVolume(id string, v snapcast.Volume) error
	SetGroupMute(id string, muted bool) error
}

// Engine applies absolute and relative volume changes to the focused
// group or client.
type Engine struct {
	cmd    Commander
	log    *zap.Logger
	shadow map[string]float64
}

func NewEngine(cmd Commander, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		cmd:    cmd,
		log:    log,
		shadow: make(map[string]float64),
	}
}

// Shadow returns the fractional volume of a client, falling back to the
// reported percent when none is recorded.
func (e *Engine) Shadow(c snapcast.Client) float64 {
	if v, ok := e.shadow[c.ID]; ok {
		return v
	}
	return float64(c.Config.Volume.Percent)
}

// Reconcile resyncs shadows with the reported state.
func (e *Engine) Reconcile(state *snapcast.State) {
	if state == nil {
		return
	}
	for id, c := range state.Clients {
		percent := c.Config.Volume.Percent
		if v, ok := e.shadow[id]; !ok || int(math.Round(v)) != percent {
			e.shadow[id] = float64(percent)
		}
	}
}

// AbsoluteSet sets the focused client to target percent, or scales the
// focused group so its loudest member lands on target. It reports whether
// any command was sent.
func (e *Engine) AbsoluteSet(target float64, focus string, state *snapcast.State) bool {
	target = clamp(target)

	if members := state.Members(focus); len(members) > 0 {
		loudest := e.loudest(members)
		for _, c := range members {
			if loudest == 0 {
				e.shadow[c.ID] = target
			} else {
				e.shadow[c.ID] = clamp(e.Shadow(c) * target / loudest)
			}
			e.send(c, e.shadow[c.ID])
		}
		return true
	}

	if c, ok := state.Client(focus); ok {
		e.shadow[c.ID] = target
		e.send(c, target)
		return true
	}
	return false
}

// RelativeSet moves the focused client, or the loudest member of the
// focused group, by delta percent. Other group members keep their ratio
// to the loudest.
func (e *Engine) RelativeSet(delta float64, focus string, state *snapcast.State) bool {
	var current float64
	if members := state.Members(focus); len(members) > 0 {
		current = e.loudest(members)
	} else if c, ok := state.Client(focus); ok {
		current = e.Shadow(c)
	} else {
		return false
	}
	return e.AbsoluteSet(clamp(current+delta), focus, state)
}

// ToggleMute flips the mute flag of the focused group or client. A
// client keeps its volume percent.
func (e *Engine) ToggleMute(focus string, state *snapcast.State) bool {
	if g, ok := state.Group(focus); ok {
		if err := e.cmd.SetGroupMute(g.ID, !g.Muted); err != nil {
			e.log.Debug("set group mute failed", zap.String("group", g.ID), zap.Error(err))
		}
		return true
	}
	if c, ok := state.Client(focus); ok {
		v := c.Config.Volume
		v.Muted = !v.Muted
		if err := e.cmd.SetClientVolume(c.ID, v); err != nil {
			e.log.Debug("set client mute failed", zap.String("client", c.ID), zap.Error(err))
		}
		return true
	}
	return false
}

func (e *Engine) loudest(members []snapcast.Client) float64 {
	var loudest float64
	for _, c := range members {
		loudest = max(loudest, e.Shadow(c))
	}
	return loudest
}

func (e *Engine) send(c snapcast.Client, shadow float64) {
	v := c.Config.Volume
	v.Percent = int(math.Round(shadow))
	if err := e.cmd.SetClientVolume(c.ID, v); err != nil {
		e.log.Debug("set client volume failed", zap.String("client", c.ID), zap.Error(err))
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
