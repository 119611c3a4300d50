package discord

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/guildroster/guild-roster/internal/roster"
	"github.com/guildroster/guild-roster/internal/shared/config"
	"github.com/guildroster/guild-roster/internal/shared/logging"
	"github.com/pkg/errors"
	"github.com/rotaria-smp/discordwebhook"
)

// SnapshotSaver persists a finished report.
type SnapshotSaver interface {
	Save(ctx context.Context, runID string, r roster.Report, takenAt time.Time) error
}

// Publisher pushes a finished report to live subscribers.
type Publisher interface {
	Publish(r roster.Report) error
}

type App struct {
	Session *discordgo.Session
	Cfg     config.Config
	Out     io.Writer

	// Optional sinks, nil when disabled.
	Store SnapshotSaver
	Feed  Publisher

	sendWebhook func(url string, msg discordwebhook.Message) error
	now         func() time.Time

	mu       sync.Mutex
	ready    bool
	identity string
	avatar   string
	pending  map[string]struct{}
	arrived  map[string]struct{}
	timer    *time.Timer

	once sync.Once
	errs chan error
}

func NewApp(sess *discordgo.Session, cfg config.Config, out io.Writer) *App {
	return &App{
		Session:     sess,
		Cfg:         cfg,
		Out:         out,
		sendWebhook: discordwebhook.SendMessage,
		now:         time.Now,
		pending:     make(map[string]struct{}),
		arrived:     make(map[string]struct{}),
		errs:        make(chan error, 1),
	}
}

func (a *App) Register() {
	a.Session.AddHandler(a.onReady)
	a.Session.AddHandler(a.onGuildCreate)
}

// Errs delivers the error that should end the process, at most once.
func (a *App) Errs() <-chan error { return a.errs }

// Run opens the gateway and blocks until ctx is done or the roster report
// fails. The session is closed on return.
func (a *App) Run(ctx context.Context) error {
	if err := a.Session.Open(); err != nil {
		return errors.Wrap(err, "discord open")
	}
	logging.L().Debug("gateway connected", "sessionID", a.Session.State.SessionID)
	defer func() {
		if err := a.Session.Close(); err != nil {
			logging.L().Warn("discord close", "error", err)
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-a.errs:
		return err
	}
}

func (a *App) fail(err error) {
	select {
	case a.errs <- err:
	default:
	}
}
