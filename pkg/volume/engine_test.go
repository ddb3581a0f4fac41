package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/b/snapmixer/pkg/snapcast"
	"github.com/b/snapmixer/pkg/volume/mocks"
)

type member struct {
	id      string
	percent int
	muted   bool
}

func groupState(groupMuted bool, members ...member) *snapcast.State {
	s := snapcast.NewState()
	g := snapcast.Group{ID: "G", Name: "Group", Muted: groupMuted}
	for _, m := range members {
		g.Clients = append(g.Clients, m.id)
		s.Clients[m.id] = snapcast.Client{
			ID:     m.id,
			Config: snapcast.ClientConfig{Volume: snapcast.Volume{Percent: m.percent, Muted: m.muted}},
		}
	}
	s.Groups[g.ID] = g
	return s
}

func newEngine(t *testing.T) (*Engine, *mocks.MockCommander) {
	ctrl := gomock.NewController(t)
	cmd := mocks.NewMockCommander(ctrl)
	return NewEngine(cmd, zap.NewNop()), cmd
}

func TestAbsoluteSetScalesGroup(t *testing.T) {
	e, cmd := newEngine(t)
	state := groupState(false, member{"A", 40, false}, member{"B", 20, true})
	e.Reconcile(state)

	cmd.EXPECT().SetClientVolume("A", snapcast.Volume{Percent: 60, Muted: false}).Return(nil)
	cmd.EXPECT().SetClientVolume("B", snapcast.Volume{Percent: 30, Muted: true}).Return(nil)

	assert.True(t, e.AbsoluteSet(60, "G", state))
	assert.Equal(t, 60.0, e.Shadow(state.Clients["A"]))
	assert.Equal(t, 30.0, e.Shadow(state.Clients["B"]))
}

func TestAbsoluteSetZeroLoudest(t *testing.T) {
	e, cmd := newEngine(t)
	state := groupState(false, member{"A", 0, false}, member{"B", 0, false})

	cmd.EXPECT().SetClientVolume("A", snapcast.Volume{Percent: 25}).Return(nil)
	cmd.EXPECT().SetClientVolume("B", snapcast.Volume{Percent: 25}).Return(nil)

	assert.True(t, e.AbsoluteSet(25, "G", state))
	assert.Equal(t, 25.0, e.Shadow(state.Clients["A"]))
	assert.Equal(t, 25.0, e.Shadow(state.Clients["B"]))
}

func TestAbsoluteSetPreservesRatios(t *testing.T) {
	tests := []struct {
		name    string
		members []member
		target  float64
	}{
		{"down", []member{{"A", 90, false}, {"B", 33, false}, {"C", 7, false}}, 50},
		{"up", []member{{"A", 10, false}, {"B", 3, false}}, 100},
		{"single loud member", []member{{"A", 100, false}, {"B", 0, false}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, cmd := newEngine(t)
			state := groupState(false, tt.members...)
			e.Reconcile(state)

			sent := map[string]int{}
			cmd.EXPECT().SetClientVolume(gomock.Any(), gomock.Any()).
				DoAndReturn(func(id string, v snapcast.Volume) error {
					sent[id] = v.Percent
					return nil
				}).Times(len(tt.members))

			require.True(t, e.AbsoluteSet(tt.target, "G", state))

			loudestBefore := 0.0
			for _, m := range tt.members {
				loudestBefore = max(loudestBefore, float64(m.percent))
			}
			loudestAfter := 0.0
			for _, m := range tt.members {
				loudestAfter = max(loudestAfter, e.Shadow(state.Clients[m.id]))
			}
			assert.InDelta(t, tt.target, loudestAfter, 1e-9)

			for _, m := range tt.members {
				shadow := e.Shadow(state.Clients[m.id])
				assert.InDelta(t, float64(m.percent)/loudestBefore, shadow/loudestAfter, 1e-9, m.id)
				assert.InDelta(t, shadow, float64(sent[m.id]), 0.5, m.id)
			}
		})
	}
}

func TestAbsoluteSetClampsTarget(t *testing.T) {
	e, cmd := newEngine(t)
	state := groupState(false, member{"A", 50, false})

	cmd.EXPECT().SetClientVolume("A", snapcast.Volume{Percent: 100}).Return(nil)
	assert.True(t, e.AbsoluteSet(180, "A", state))

	cmd.EXPECT().SetClientVolume("A", snapcast.Volume{Percent: 0}).Return(nil)
	assert.True(t, e.AbsoluteSet(-3, "A", state))
}

func TestAbsoluteSetNothingToDo(t *testing.T) {
	e, _ := newEngine(t)
	state := groupState(false)
	state.Groups["H"] = snapcast.Group{ID: "H", Clients: []string{"ghost"}}

	assert.False(t, e.AbsoluteSet(50, "", state))
	assert.False(t, e.AbsoluteSet(50, "missing", state))
	assert.False(t, e.AbsoluteSet(50, "G", state))
	assert.False(t, e.AbsoluteSet(50, "H", state))
	assert.False(t, e.RelativeSet(5, "H", state))
	assert.False(t, e.ToggleMute("", state))
}

func TestRelativeSetKeepsFractions(t *testing.T) {
	e, cmd := newEngine(t)
	state := groupState(false, member{"A", 40, false}, member{"B", 20, false})
	e.Reconcile(state)

	gomock.InOrder(
		cmd.EXPECT().SetClientVolume("A", snapcast.Volume{Percent: 45}).Return(nil),
		cmd.EXPECT().SetClientVolume("B", snapcast.Volume{Percent: 23}).Return(nil),
	)
	assert.True(t, e.RelativeSet(5, "G", state))
	assert.Equal(t, 22.5, e.Shadow(state.Clients["B"]))

	// The server echoes the rounded values; the shadow survives because it
	// still rounds to what was reported.
	state.Clients["A"] = withPercent(state.Clients["A"], 45)
	state.Clients["B"] = withPercent(state.Clients["B"], 23)
	e.Reconcile(state)
	assert.Equal(t, 22.5, e.Shadow(state.Clients["B"]))

	gomock.InOrder(
		cmd.EXPECT().SetClientVolume("A", snapcast.Volume{Percent: 50}).Return(nil),
		cmd.EXPECT().SetClientVolume("B", snapcast.Volume{Percent: 25}).Return(nil),
	)
	assert.True(t, e.RelativeSet(5, "G", state))
}

func TestRelativeSetClient(t *testing.T) {
	e, cmd := newEngine(t)
	state := groupState(false, member{"A", 98, true})

	cmd.EXPECT().SetClientVolume("A", snapcast.Volume{Percent: 100, Muted: true}).Return(nil)
	assert.True(t, e.RelativeSet(5, "A", state))

	cmd.EXPECT().SetClientVolume("A", snapcast.Volume{Percent: 99, Muted: true}).Return(nil)
	assert.True(t, e.RelativeSet(-1, "A", state))
}

func TestReconcileOverridesDrift(t *testing.T) {
	e, cmd := newEngine(t)
	state := groupState(false, member{"A", 40, false}, member{"B", 20, false})
	e.Reconcile(state)

	cmd.EXPECT().SetClientVolume(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	e.AbsoluteSet(33, "G", state)
	assert.Equal(t, 16.5, e.Shadow(state.Clients["B"]))

	// Another controller moved B.
	state.Clients["B"] = withPercent(state.Clients["B"], 70)
	e.Reconcile(state)
	assert.Equal(t, 70.0, e.Shadow(state.Clients["B"]))
	assert.Equal(t, 40.0, e.Shadow(state.Clients["A"]))
}

func TestToggleMute(t *testing.T) {
	e, cmd := newEngine(t)
	state := groupState(true, member{"A", 40, false})

	cmd.EXPECT().SetGroupMute("G", false).Return(nil)
	assert.True(t, e.ToggleMute("G", state))

	cmd.EXPECT().SetClientVolume("A", snapcast.Volume{Percent: 40, Muted: true}).Return(nil)
	assert.True(t, e.ToggleMute("A", state))
}

func TestCommandErrorsStillCountAsSent(t *testing.T) {
	e, cmd := newEngine(t)
	state := groupState(false, member{"A", 40, false})

	cmd.EXPECT().SetClientVolume("A", gomock.Any()).Return(snapcast.ErrNotConnected).Times(2)
	cmd.EXPECT().SetGroupMute("G", true).Return(snapcast.ErrNotConnected)

	assert.True(t, e.AbsoluteSet(10, "A", state))
	assert.True(t, e.ToggleMute("A", state))
	assert.True(t, e.ToggleMute("G", state))
}

func withPercent(c snapcast.Client, percent int) snapcast.Client {
	c.Config.Volume.Percent = percent
	return c
}
