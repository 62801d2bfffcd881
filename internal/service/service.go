package service

import (
	"context"
	"time"

	"focus_engine/internal/config"
	"focus_engine/internal/logger"
	"focus_engine/internal/models"
	"focus_engine/internal/posture"
	"focus_engine/internal/repository"
	"focus_engine/internal/timer"
)

type Authorization interface {
	RegisterDevice(ctx context.Context, name, secret, pairingCode string) (int, error)
	GenerateToken(ctx context.Context, name, secret string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Focus exposes the timer and posture operations of the coordinator.
type Focus interface {
	Start(ctx context.Context, category models.Category) models.TimerState
	Pause(ctx context.Context) models.TimerState
	Toggle(ctx context.Context) models.TimerState
	Stop(ctx context.Context) (*models.FocusSession, error)
	Tick(ctx context.Context, delta float64) (*models.FocusSession, error)
	ReconcileAfterForeground(ctx context.Context, now time.Time) (*models.FocusSession, error)
	SetMode(ctx context.Context, mode models.TimerMode) (models.TimerState, error)
	Observe(ctx context.Context, landmarks *models.LandmarkGroup) models.PostureStatus
	Snapshot() Snapshot
	PostureReport() models.PostureReport
}

// Relay is the companion command channel.
type Relay interface {
	Submit(ctx context.Context, kind models.CommandKind) (models.Command, error)
	Poll(ctx context.Context) (bool, error)
	Slot(ctx context.Context) (models.CommandSlot, error)
}

// Sessions reads recorded focus sessions.
type Sessions interface {
	List(ctx context.Context, f SessionFilter) ([]models.FocusSession, error)
	Get(ctx context.Context, id string) (*models.FocusSession, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.FocusEvent, error)
}

// Host runs the background loop and handles resume-from-suspend.
// Stop via context cancellation in main() for graceful shutdown.
type Host interface {
	Run(ctx context.Context, tick time.Duration)
	Foreground(ctx context.Context) (models.TimerState, error)
}

// Service aggregates all sub-services.
type Service struct {
	Focus         Focus
	Relay         Relay
	Sessions      Sessions
	EventLog      EventLog
	Host          Host
	Authorization Authorization
}

// NewService wires the repository layer and configuration into concrete services.
func NewService(repos *repository.Repository, cfg *config.Config, log *logger.Logger) *Service {
	alerts := NewAlertScheduler(repos.Events, log, nil)
	ctrl := timer.New(cfg.TimerSettings(), alerts, nil)
	monitor := posture.NewMonitor(cfg.PostureSettings())

	focus := NewFocusService(ctrl, monitor, repos.Sessions, repos.Events, FocusOptions{
		TrackedModes: cfg.TrackedModes(),
		Log:          log,
	})
	relay := NewCommandRelay(repos.Commands, focus, repos.Events, log, nil)
	driver := NewDriver(focus, relay, DriverSettings{
		PollInterval: cfg.Relay.PollInterval,
		SuspendGap:   cfg.Relay.SuspendGap,
	}, log, nil)

	return &Service{
		Focus:    focus,
		Relay:    relay,
		Sessions: NewSessionService(repos.Sessions),
		EventLog: NewEventLogService(repos.Events),
		Host:     driver,
		Authorization: NewAuthService(repos.Devices, AuthSettings{
			SigningKey:  cfg.Auth.SigningKey,
			TokenTTL:    cfg.Auth.TokenTTL,
			PairingCode: cfg.Auth.PairingCode,
		}),
	}
}
