package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"focus_engine/internal/models"
	"focus_engine/internal/posture"
	"focus_engine/internal/timer"
)

// EnvPrefix is prepended to every environment override, e.g. FOCUS_TIMER_POMODORO_SECONDS.
const EnvPrefix = "FOCUS"

// Config represents the complete engine configuration
type Config struct {
	Port    string        `mapstructure:"port"`
	DB      DBConfig      `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
	Timer   TimerConfig   `mapstructure:"timer"`
	Posture PostureConfig `mapstructure:"posture"`
	Relay   RelayConfig   `mapstructure:"relay"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

// DBConfig controls the SQLite store
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the process logger
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
}

// TimerConfig holds the preset durations and the driver tick
type TimerConfig struct {
	PomodoroSeconds  int           `mapstructure:"pomodoro_seconds"`
	CountdownSeconds int           `mapstructure:"countdown_seconds"`
	TickInterval     time.Duration `mapstructure:"tick_interval"`
}

// PostureConfig holds the posture thresholds and debounce timing
type PostureConfig struct {
	TiltLimitDegrees float64       `mapstructure:"tilt_limit_degrees"`
	YawLimitDegrees  float64       `mapstructure:"yaw_limit_degrees"`
	PitchRatioMin    float64       `mapstructure:"pitch_ratio_min"`
	MinDenominator   float64       `mapstructure:"min_denominator"`
	GracePeriod      time.Duration `mapstructure:"grace_period"`
	AccrualGap       time.Duration `mapstructure:"accrual_gap"`
	// TrackedModes lists the timer modes that open a posture session on start
	TrackedModes []string `mapstructure:"tracked_modes"`
}

// RelayConfig controls how often the command slot is polled
type RelayConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// SuspendGap is the tick gap above which the driver reconciles instead of ticking
	SuspendGap time.Duration `mapstructure:"suspend_gap"`
}

// AuthConfig controls companion device pairing and tokens
type AuthConfig struct {
	SigningKey  string        `mapstructure:"signing_key"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	PairingCode string        `mapstructure:"pairing_code"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	tc := timer.DefaultConfig()
	pc := posture.DefaultConfig()
	return &Config{
		Port: "8080",
		DB:   DBConfig{Path: "focus.db"},
		Log:  LogConfig{Level: "info"},
		Timer: TimerConfig{
			PomodoroSeconds:  int(tc.PomodoroSeconds),
			CountdownSeconds: int(tc.CountdownSeconds),
			TickInterval:     time.Second,
		},
		Posture: PostureConfig{
			TiltLimitDegrees: pc.TiltLimitDegrees,
			YawLimitDegrees:  pc.YawLimitDegrees,
			PitchRatioMin:    pc.PitchRatioMin,
			MinDenominator:   pc.MinDenominator,
			GracePeriod:      pc.GracePeriod,
			AccrualGap:       pc.AccrualGap,
			TrackedModes: []string{
				string(models.ModePomodoro),
				string(models.ModeCountdown),
				string(models.ModeStopwatch),
			},
		},
		Relay: RelayConfig{
			PollInterval: 2 * time.Second,
			SuspendGap:   3 * time.Second,
		},
		Auth: AuthConfig{
			SigningKey:  "change-me",
			TokenTTL:    time.Hour,
			PairingCode: "000000",
		},
	}
}

// SetDefaults registers every default on v so lookups work without a config file.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("port", d.Port)
	v.SetDefault("db.path", d.DB.Path)
	v.SetDefault("log.level", d.Log.Level)

	v.SetDefault("timer.pomodoro_seconds", d.Timer.PomodoroSeconds)
	v.SetDefault("timer.countdown_seconds", d.Timer.CountdownSeconds)
	v.SetDefault("timer.tick_interval", d.Timer.TickInterval)

	v.SetDefault("posture.tilt_limit_degrees", d.Posture.TiltLimitDegrees)
	v.SetDefault("posture.yaw_limit_degrees", d.Posture.YawLimitDegrees)
	v.SetDefault("posture.pitch_ratio_min", d.Posture.PitchRatioMin)
	v.SetDefault("posture.min_denominator", d.Posture.MinDenominator)
	v.SetDefault("posture.grace_period", d.Posture.GracePeriod)
	v.SetDefault("posture.accrual_gap", d.Posture.AccrualGap)
	v.SetDefault("posture.tracked_modes", d.Posture.TrackedModes)

	v.SetDefault("relay.poll_interval", d.Relay.PollInterval)
	v.SetDefault("relay.suspend_gap", d.Relay.SuspendGap)

	v.SetDefault("auth.signing_key", d.Auth.SigningKey)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)
	v.SetDefault("auth.pairing_code", d.Auth.PairingCode)
}

// Load reads configuration into a fresh viper instance. An empty path searches
// ./configs and the working directory for config.yml; a missing file is not an
// error, defaults and FOCUS_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TimerSettings converts the timer section into the controller's immutable config.
func (c *Config) TimerSettings() timer.Config {
	return timer.Config{
		PomodoroSeconds:  float64(c.Timer.PomodoroSeconds),
		CountdownSeconds: float64(c.Timer.CountdownSeconds),
	}
}

// PostureSettings converts the posture section into the monitor's immutable config.
func (c *Config) PostureSettings() posture.Config {
	return posture.Config{
		TiltLimitDegrees: c.Posture.TiltLimitDegrees,
		YawLimitDegrees:  c.Posture.YawLimitDegrees,
		PitchRatioMin:    c.Posture.PitchRatioMin,
		MinDenominator:   c.Posture.MinDenominator,
		GracePeriod:      c.Posture.GracePeriod,
		AccrualGap:       c.Posture.AccrualGap,
	}
}

// TrackedModes returns the configured posture-tracked modes as typed values.
func (c *Config) TrackedModes() []models.TimerMode {
	out := make([]models.TimerMode, 0, len(c.Posture.TrackedModes))
	for _, m := range c.Posture.TrackedModes {
		out = append(out, models.TimerMode(strings.ToLower(strings.TrimSpace(m))))
	}
	return out
}
