package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"time"

	"focus_engine/internal/config"
	"focus_engine/internal/logger"
	"focus_engine/internal/models"
	"focus_engine/internal/repository"
	"focus_engine/internal/repository/db"
	"focus_engine/internal/service"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

var commandCmd = &cobra.Command{
	Use:       "command toggle|stop",
	Short:     "Leave a command in the shared slot for the host to apply",
	Long:      `Writes a toggle or stop request into the command slot. The running host applies it on its next poll or when brought to the foreground.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(models.CommandToggle), string(models.CommandStop)},
	RunE:      runCommand,
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded focus sessions",
	RunE:  runSessions,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

var (
	outputFormat string
	sessionsFrom string
	sessionsTo   string
)

func init() {
	sessionsCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format: json or yaml")
	sessionsCmd.Flags().StringVar(&sessionsFrom, "from", "", "start of range (YYYY-MM-DD or RFC3339)")
	sessionsCmd.Flags().StringVar(&sessionsTo, "to", "", "end of range, inclusive (YYYY-MM-DD or RFC3339)")

	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// openRepos loads config and opens the shared database for one-shot commands.
func openRepos() (*repository.Repository, *logger.Logger, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.Get(cfg.Log.Level)
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	return repository.NewRepository(conn), log, func() { _ = conn.Close() }, nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	repos, log, closeDB, err := openRepos()
	if err != nil {
		return err
	}
	defer closeDB()

	relay := service.NewCommandRelay(repos.Commands, nil, nil, log, nil)
	issued, err := relay.Submit(cmd.Context(), models.CommandKind(args[0]))
	if err != nil {
		return fmt.Errorf("submit %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s queued at %s\n", issued.Kind, issued.IssuedAt.Format(time.RFC3339Nano))
	return nil
}

func runSessions(cmd *cobra.Command, args []string) error {
	if outputFormat != "json" && outputFormat != "yaml" {
		return fmt.Errorf("unknown format %q: use json or yaml", outputFormat)
	}
	from, err := parseFlagTime(sessionsFrom, false)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parseFlagTime(sessionsTo, true)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	repos, _, closeDB, err := openRepos()
	if err != nil {
		return err
	}
	defer closeDB()

	sessions, err := service.NewSessionService(repos.Sessions).List(cmd.Context(), service.SessionFilter{From: from, To: to})
	if err != nil {
		return err
	}
	return writeSessions(cmd.OutOrStdout(), sessions, outputFormat)
}

// writeSessions renders sessions with their JSON field names in either format.
func writeSessions(w io.Writer, sessions []models.FocusSession, format string) error {
	if sessions == nil {
		sessions = []models.FocusSession{}
	}
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	// yaml goes through the JSON form so both formats share field names
	raw, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	var generic []map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(generic)
}

func parseFlagTime(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t.UTC(), nil
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "focus %s (commit %s, built %s, %s)\n", Version, Commit, BuildTime, runtime.Version())
}
