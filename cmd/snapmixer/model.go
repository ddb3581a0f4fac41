package main

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/b/snapmixer/pkg/colors"
	"github.com/b/snapmixer/pkg/config"
	"github.com/b/snapmixer/pkg/focus"
	"github.com/b/snapmixer/pkg/health"
	"github.com/b/snapmixer/pkg/perf"
	"github.com/b/snapmixer/pkg/snapcast"
	"github.com/b/snapmixer/pkg/volume"
)

// session is the outbound side of *snapcast.Session.
type session interface {
	volume.Commander
	RequestStatus() error
}

type batchMsg snapcast.Batch

type statusMsg snapcast.Status

// timerMsg reports a watchdog deadline; gen tells live expiries from
// superseded ones.
type timerMsg struct {
	timer health.Timer
	gen   uint64
}

type suspendTickMsg time.Time

type configMsg struct{ cfg *config.Config }

type model struct {
	sess     session
	log      *zap.Logger
	state    *snapcast.State
	focus    string
	engine   *volume.Engine
	watchdog *health.Watchdog
	errors   []string

	keys     keyMap
	help     help.Model
	showHelp bool

	steps     config.Steps
	theme     colors.Theme
	themeName string
	unicode   bool

	width  int
	height int
	frame  string
}

func newModel(sess session, cfg *config.Config, log *zap.Logger) *model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &model{
		sess:     sess,
		log:      log,
		state:    snapcast.NewState(),
		engine:   volume.NewEngine(sess, log.Named("volume")),
		watchdog: health.NewWatchdog(cfg.Timing.Watchdog(), log.Named("health")),
		keys:     keys,
		help:     help.New(),
	}
	m.applyConfig(cfg)
	m.render()
	return m
}

func (m *model) applyConfig(cfg *config.Config) {
	// Resolving "auto" may query the terminal, which must not happen again
	// while the program owns stdin.
	if cfg.Theme != m.themeName || m.theme.Name == "" {
		theme, ok := colors.Resolve(cfg.Theme)
		if !ok {
			m.log.Warn("unknown theme, using default", zap.String("theme", cfg.Theme))
		}
		m.theme = theme.Legible()
		m.themeName = cfg.Theme
	}
	m.unicode = unicodeEnabled(cfg.Unicode)
	m.steps = cfg.Steps
	m.help.Styles.ShortKey = m.help.Styles.ShortKey.Foreground(color(m.theme.Text))
	m.help.Styles.FullKey = m.help.Styles.FullKey.Foreground(color(m.theme.Text))
}

func (m *model) Init() tea.Cmd {
	m.watchdog.Start(time.Now())
	return m.suspendTick()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	t := perf.Start("update")
	defer t.Stop()

	redraw, cmd := m.handle(msg)
	if redraw {
		m.render()
	}
	return m, cmd
}

// View returns the last rendered frame; Update re-renders only when a
// handled message changed something.
func (m *model) View() string {
	return m.frame
}

func (m *model) handle(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case batchMsg:
		return m.handleBatch(snapcast.Batch(msg))

	case statusMsg:
		return m.apply(m.watchdog.StatusChanged(snapcast.Status(msg)))

	case timerMsg:
		return m.apply(m.watchdog.Expired(msg.timer, msg.gen))

	case suspendTickMsg:
		redraw, cmd := m.apply(m.watchdog.Tick(time.Time(msg)))
		return redraw, tea.Batch(cmd, m.suspendTick())

	case configMsg:
		m.applyConfig(msg.cfg)
		return true, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = max(0, msg.Width-2)
		return true, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return false, nil
}

func (m *model) handleBatch(b snapcast.Batch) (bool, tea.Cmd) {
	if b.State != nil {
		m.state = b.State
	}
	applied := false
	for _, r := range b.Results {
		if r.Err != nil {
			m.log.Debug("server error", zap.String("method", r.Method), zap.Error(r.Err))
			m.errors = append(m.errors, r.Err.Error())
			continue
		}
		applied = true
	}
	if applied {
		m.engine.Reconcile(m.state)
	}

	redraw, cmd := m.apply(m.watchdog.Received())
	return redraw || len(b.Results) > 0, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	h := m.watchdog.Health()
	if !h.Connected || h.Stale {
		if key.Matches(msg, m.keys.Quit) {
			return false, tea.Quit
		}
		return false, nil
	}

	if len(m.errors) > 0 {
		if key.Matches(msg, m.keys.Dismiss) {
			m.errors = nil
			return true, nil
		}
		return false, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Dismiss):
		return false, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return true, nil
	case key.Matches(msg, m.keys.GroupUp):
		return m.move(focus.MoveGroup(-1, m.focus, m.state))
	case key.Matches(msg, m.keys.GroupDown):
		return m.move(focus.MoveGroup(1, m.focus, m.state))
	case key.Matches(msg, m.keys.Up):
		return m.move(focus.MoveRow(-1, m.focus, m.state))
	case key.Matches(msg, m.keys.Down):
		return m.move(focus.MoveRow(1, m.focus, m.state))
	case key.Matches(msg, m.keys.BigLeft):
		return m.sent(m.engine.RelativeSet(-float64(m.steps.Large), m.focus, m.state))
	case key.Matches(msg, m.keys.BigRight):
		return m.sent(m.engine.RelativeSet(float64(m.steps.Large), m.focus, m.state))
	case key.Matches(msg, m.keys.Left):
		return m.sent(m.engine.RelativeSet(-float64(m.steps.Small), m.focus, m.state))
	case key.Matches(msg, m.keys.Right):
		return m.sent(m.engine.RelativeSet(float64(m.steps.Small), m.focus, m.state))
	case key.Matches(msg, m.keys.Digit):
		if target, ok := digitPercent(msg.String()); ok {
			return m.sent(m.engine.AbsoluteSet(target, m.focus, m.state))
		}
	case key.Matches(msg, m.keys.Mute):
		return m.sent(m.engine.ToggleMute(m.focus, m.state))
	}
	return false, nil
}

func (m *model) move(mv focus.Move) (bool, tea.Cmd) {
	target, changed := mv.Target()
	if !changed {
		return false, nil
	}
	m.focus = target
	return true, nil
}

// sent arms the response timer after a command went out. The frame is
// left alone; the server's answer redraws it.
func (m *model) sent(ok bool) (bool, tea.Cmd) {
	if !ok {
		return false, nil
	}
	return false, m.expire(m.watchdog.Sent())
}

// apply carries out a watchdog outcome.
func (m *model) apply(out health.Outcome) (bool, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, len(out.Schedule)+1)
	for _, e := range out.Schedule {
		cmds = append(cmds, m.expire(e))
	}
	if out.RequestStatus {
		if err := m.sess.RequestStatus(); err != nil {
			m.log.Debug("status request failed", zap.Error(err))
		}
		if out.Sent {
			cmds = append(cmds, m.expire(m.watchdog.Sent()))
		}
	}
	return out.Redraw, tea.Batch(cmds...)
}

func (m *model) expire(e health.Expiry) tea.Cmd {
	return tea.Tick(e.After, func(time.Time) tea.Msg {
		return timerMsg{timer: e.Timer, gen: e.Generation}
	})
}

func (m *model) suspendTick() tea.Cmd {
	return tea.Tick(m.watchdog.Timing().SuspendInterval, func(t time.Time) tea.Msg {
		return suspendTickMsg(t)
	})
}
