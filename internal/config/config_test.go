package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus_engine/internal/models"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1500, cfg.Timer.PomodoroSeconds)
	assert.Equal(t, 2700, cfg.Timer.CountdownSeconds)
	assert.Equal(t, 5*time.Second, cfg.Posture.GracePeriod)
	assert.Equal(t, time.Second, cfg.Posture.AccrualGap)
	assert.Equal(t, 0.01, cfg.Posture.MinDenominator)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
timer:
  pomodoro_seconds: 600
posture:
  grace_period: 3s
  tracked_modes: [pomodoro]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.Timer.PomodoroSeconds)
	assert.Equal(t, 2700, cfg.Timer.CountdownSeconds, "untouched keys keep defaults")
	assert.Equal(t, 3*time.Second, cfg.Posture.GracePeriod)
	assert.Equal(t, []models.TimerMode{models.ModePomodoro}, cfg.TrackedModes())
	assert.Equal(t, 600.0, cfg.TimerSettings().PomodoroSeconds)
	assert.Equal(t, 3*time.Second, cfg.PostureSettings().GracePeriod)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\n"), 0o600))
	t.Setenv("FOCUS_TIMER_COUNTDOWN_SECONDS", "1200")
	t.Setenv("FOCUS_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1200, cfg.Timer.CountdownSeconds)
	assert.Equal(t, "9100", cfg.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
log:
  level: loud
timer:
  pomodoro_seconds: 0
posture:
  tracked_modes: [pomodoro, lap]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(path)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"log.level", "timer.pomodoro_seconds", "posture.tracked_modes"}, fields)
}

func TestValidate_SuspendGapMustExceedTick(t *testing.T) {
	cfg := Default()
	cfg.Relay.SuspendGap = cfg.Timer.TickInterval

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay.suspend_gap")
}
