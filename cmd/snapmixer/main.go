package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/b/snapmixer/pkg/config"
	"github.com/b/snapmixer/pkg/discovery"
	"github.com/b/snapmixer/pkg/logging"
	"github.com/b/snapmixer/pkg/paths"
	"github.com/b/snapmixer/pkg/perf"
	"github.com/b/snapmixer/pkg/snapcast"
)

var version = "dev"

type serverAddr string

type configPath string

// connectError marks the initial dial failure so it reaches the user
// without the dependency graph around it.
type connectError struct{ err error }

func (e *connectError) Error() string { return e.err.Error() }
func (e *connectError) Unwrap() error { return e.err }

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		server      string
		cfgPath     string
		discover    bool
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("snapmixer", pflag.ContinueOnError)
	flagSet.StringVarP(&server, "server", "s", fmt.Sprintf("%s:%d", config.DefaultServer, snapcast.DefaultPort), "Snapcast server `HOST[:PORT]`")
	flagSet.StringVarP(&cfgPath, "config", "c", "", "config file (default "+paths.ConfigPath()+")")
	flagSet.BoolVar(&discover, "discover", false, "find the server via mDNS unless --server is given")
	flagSet.BoolVarP(&showVersion, "version", "v", false, "print version and exit")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(os.Stdout, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(os.Stdout, flagSet)
		return nil
	}
	if showVersion {
		fmt.Printf("snapmixer %s\n", version)
		return nil
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("snapmixer needs a terminal")
	}

	log, err := logging.FromEnv()
	if err != nil {
		return err
	}
	defer log.Sync()
	perf.SetLogger(log)

	cfg, path, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr, err := resolveServer(ctx, cfg, flagSet.Changed("server"), server, discover)
	if err != nil {
		return err
	}
	log.Info("starting", zap.String("version", version), zap.String("server", addr))

	// Keep styled output to 256 colors; the overlay splices styled lines
	// and some terminals mangle partial 24-bit sequences.
	profile := termenv.EnvColorProfile()
	if profile == termenv.TrueColor {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)

	var p *tea.Program
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Supply(log, cfg, serverAddr(addr), configPath(path)),
		appOptions,
		fx.Populate(&p),
	)
	if err := app.Err(); err != nil {
		var ce *connectError
		if errors.As(err, &ce) {
			return ce
		}
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

// appOptions is the dependency graph once logger, config and server
// address are known.
var appOptions = fx.Options(
	fx.Provide(
		newSession,
		newProgram,
	),
	fx.Invoke(registerPump, registerConfigWatch),
)

func loadConfig(flagPath string) (*config.Config, string, error) {
	if flagPath != "" {
		cfg, err := config.LoadConfig(flagPath)
		return cfg, flagPath, err
	}
	path := paths.ConfigPath()
	cfg, err := config.Load(path)
	return cfg, path, err
}

// resolveServer picks the address to dial: an explicit --server, then mDNS
// when asked for, then the config file.
func resolveServer(ctx context.Context, cfg *config.Config, explicit bool, flagValue string, discover bool) (string, error) {
	switch {
	case explicit:
		return config.ParseServer(flagValue)
	case discover:
		addr, err := discovery.Find(ctx, cfg.Discovery.Service, cfg.Discovery.Domain, cfg.Discovery.Timeout)
		if err != nil {
			return "", fmt.Errorf("discover server: %w", err)
		}
		return addr, nil
	}
	return config.ParseServer(cfg.Server)
}

func newSession(lc fx.Lifecycle, addr serverAddr, log *zap.Logger) (*snapcast.Session, error) {
	sess, err := snapcast.Dial(context.Background(), string(addr), snapcast.Options{Logger: log.Named("snapcast")})
	if err != nil {
		return nil, &connectError{err: err}
	}
	lc.Append(fx.StopHook(sess.Close))
	return sess, nil
}

func newProgram(sess *snapcast.Session, cfg *config.Config, log *zap.Logger) *tea.Program {
	return tea.NewProgram(newModel(sess, cfg, log.Named("ui")), tea.WithAltScreen())
}

// registerPump forwards session events into the program until the
// session closes its channels.
func registerPump(lc fx.Lifecycle, p *tea.Program, sess *snapcast.Session) {
	lc.Append(fx.StartHook(func() {
		go pump(p, sess.Batches(), sess.Statuses())
	}))
}

func pump(p interface{ Send(tea.Msg) }, batches <-chan snapcast.Batch, statuses <-chan snapcast.Status) {
	for batches != nil || statuses != nil {
		select {
		case b, ok := <-batches:
			if !ok {
				batches = nil
				continue
			}
			p.Send(batchMsg(b))
		case st, ok := <-statuses:
			if !ok {
				statuses = nil
				continue
			}
			p.Send(statusMsg(st))
		}
	}
}

func registerConfigWatch(lc fx.Lifecycle, p *tea.Program, path configPath, log *zap.Logger) {
	var w *config.Watcher
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var err error
			w, err = config.Watch(string(path), log.Named("config"), func(cfg *config.Config) {
				p.Send(configMsg{cfg: cfg})
			})
			if err != nil {
				// Live reload is optional; a missing config dir is normal.
				log.Info("config reload disabled", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			if w == nil {
				return nil
			}
			return w.Close()
		},
	})
}

func printHelp(out io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(out, `snapmixer - terminal mixer for Snapcast

Usage:
  snapmixer [flags]

Flags:
`)
	flagSet.SetOutput(out)
	flagSet.PrintDefaults()

	ellipsis := "..."
	if unicodeEnabled(config.UnicodeAuto) {
		ellipsis = "…"
	}
	fmt.Fprintf(out, `
Keys:
  ↑/↓          navigate up and down (with shift to jump to groups)
  ←/→          adjust volume (with shift for larger increments)
  h/j/k/l      same as ←/↓/↑/→
  1/2/%[1]s/9/0   snap volume to 10%%, 20%%, %[1]s, 90%%, 100%%
  m            toggle mute
  ?            toggle key help
  esc          dismiss errors
  q/esc/^C     quit
`, ellipsis)
}
