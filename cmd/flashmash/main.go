// Package main provides the CLI entrypoint for flashmash.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/flashmash/internal/app"
	"github.com/verte-zerg/flashmash/internal/classifier"
	"github.com/verte-zerg/flashmash/internal/config"
	"github.com/verte-zerg/flashmash/internal/deck"
	"github.com/verte-zerg/flashmash/internal/input"
	"github.com/verte-zerg/flashmash/internal/model"
	"github.com/verte-zerg/flashmash/internal/session"
	"github.com/verte-zerg/flashmash/internal/stats"
	"github.com/verte-zerg/flashmash/internal/statsui"
	"github.com/verte-zerg/flashmash/internal/store"
	"github.com/verte-zerg/flashmash/internal/tui"
)

const (
	defaultWeakTop     = 5
	defaultWeakWindow  = 10
	defaultCurveWindow = 10
)

var (
	practiceDeck           string
	practicePromptCol      string
	practiceAnswerCol      string
	practiceInterval       time.Duration
	practiceMinInterval    time.Duration
	practiceMaxInterval    time.Duration
	practiceSpeedUp        float64
	practiceSlowDown       float64
	practiceDwellCorrect   time.Duration
	practiceDwellIncorrect time.Duration
	practiceShuffle        bool
	practiceFocusWeak      bool
	practiceWeakTop        int
	practiceWeakWindow     int

	inputGestureCmd       string
	inputVoiceCmd         string
	inputGestureThreshold float64
	inputVoiceThreshold   float64

	statsDeck        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsCards       string
	statsSession     string

	importName      string
	importForce     bool
	importPromptCol string
	importAnswerCol string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := session.DefaultPolicy()
	rootCmd := &cobra.Command{
		Use:           "flashmash",
		Short:         "Terminal flashcard trainer with adaptive speed",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&practiceDeck, "deck", "", "deck name in the deck directory, or a path to a CSV file")
	flags.StringVar(&practicePromptCol, "prompt-col", "", "header of the prompt column (default: first column)")
	flags.StringVar(&practiceAnswerCol, "answer-col", "", "header of the answer column (default: second column)")
	flags.DurationVar(&practiceInterval, "interval", defaults.Start, "starting time each option is shown")
	flags.DurationVar(&practiceMinInterval, "min-interval", defaults.MinInterval, "fastest allowed interval")
	flags.DurationVar(&practiceMaxInterval, "max-interval", defaults.MaxInterval, "slowest allowed interval")
	flags.Float64Var(&practiceSpeedUp, "speedup", defaults.SpeedUp, "interval factor after a correct streak (0-1]")
	flags.Float64Var(&practiceSlowDown, "slowdown", defaults.SlowDown, "interval factor after an incorrect streak (>= 1)")
	flags.DurationVar(&practiceDwellCorrect, "dwell-correct", defaults.DwellCorrect, "pause after a correct answer")
	flags.DurationVar(&practiceDwellIncorrect, "dwell-incorrect", defaults.DwellIncorrect, "pause after an incorrect answer")
	flags.BoolVar(&practiceShuffle, "shuffle", false, "shuffle the deck")
	flags.BoolVar(&practiceFocusWeak, "focus-weak", false, "practice the weakest cards first")
	flags.IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak cards to move to the front")
	flags.IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak cards")
	flags.StringVar(&inputGestureCmd, "gesture-cmd", "", "gesture classifier command")
	flags.StringVar(&inputVoiceCmd, "voice-cmd", "", "voice classifier command")
	flags.Float64Var(&inputGestureThreshold, "gesture-threshold", input.GestureRule().Threshold, "minimum gesture confidence (0-1)")
	flags.Float64Var(&inputVoiceThreshold, "voice-threshold", input.VoiceRule().Threshold, "minimum voice confidence (0-1)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDecksCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyPracticeConfig(cmd, fileCfg)

	cfg := model.Config{
		Deck:           practiceDeck,
		PromptColumn:   practicePromptCol,
		AnswerColumn:   practiceAnswerCol,
		Interval:       practiceInterval,
		MinInterval:    practiceMinInterval,
		MaxInterval:    practiceMaxInterval,
		SpeedUp:        practiceSpeedUp,
		SlowDown:       practiceSlowDown,
		DwellCorrect:   practiceDwellCorrect,
		DwellIncorrect: practiceDwellIncorrect,
		Shuffle:        practiceShuffle,
		FocusWeak:      practiceFocusWeak,
		WeakTop:        practiceWeakTop,
		WeakWindow:     practiceWeakWindow,
	}
	inputCfg := model.InputConfig{
		GestureCommand:   inputGestureCmd,
		GestureThreshold: inputGestureThreshold,
		VoiceCommand:     inputVoiceCmd,
		VoiceThreshold:   inputVoiceThreshold,
	}
	if v := fileCfg.Input.GestureLabel; v != nil {
		inputCfg.GestureLabel = *v
	}
	if v := fileCfg.Input.VoiceLabel; v != nil {
		inputCfg.VoiceLabel = *v
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}
	if err := validateInput(inputCfg); err != nil {
		return err
	}

	cfg.DeckPath = deck.Resolve(env.DeckDir, cfg.Deck)
	cfg.Deck = deck.NameFromPath(cfg.DeckPath)
	cards, err := deck.Load(cfg.DeckPath, deck.Columns{Prompt: cfg.PromptColumn, Answer: cfg.AnswerColumn})
	if err != nil {
		return deckLoadError(cfg.DeckPath, err)
	}

	logger, closeLog, err := openLogger(env.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info("starting practice", "deck", cfg.Deck, "cards", len(cards), "interval", cfg.Interval)

	st, err := store.Open(context.Background(), env.DBPath, store.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m, err := tui.NewModel(cfg, cards, tui.Deps{
		Store:   st,
		Arbiter: newArbiter(inputCfg, logger),
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer m.Close()
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func applyPracticeConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	p := fileCfg.Practice
	applyStringConfig(cmd, "deck", &practiceDeck, p.Deck)
	applyStringConfig(cmd, "prompt-col", &practicePromptCol, p.PromptColumn)
	applyStringConfig(cmd, "answer-col", &practiceAnswerCol, p.AnswerColumn)
	applyDurationConfig(cmd, "interval", &practiceInterval, p.IntervalMs)
	applyDurationConfig(cmd, "min-interval", &practiceMinInterval, p.MinIntervalMs)
	applyDurationConfig(cmd, "max-interval", &practiceMaxInterval, p.MaxIntervalMs)
	applyFloatConfig(cmd, "speedup", &practiceSpeedUp, p.SpeedUp)
	applyFloatConfig(cmd, "slowdown", &practiceSlowDown, p.SlowDown)
	applyDurationConfig(cmd, "dwell-correct", &practiceDwellCorrect, p.DwellCorrectMs)
	applyDurationConfig(cmd, "dwell-incorrect", &practiceDwellIncorrect, p.DwellWrongMs)
	applyBoolConfig(cmd, "shuffle", &practiceShuffle, p.Shuffle)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, p.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, p.WeakTop)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, p.WeakWindow)

	in := fileCfg.Input
	applyStringConfig(cmd, "gesture-cmd", &inputGestureCmd, in.GestureCommand)
	applyStringConfig(cmd, "voice-cmd", &inputVoiceCmd, in.VoiceCommand)
	applyFloatConfig(cmd, "gesture-threshold", &inputGestureThreshold, in.GestureThreshold)
	applyFloatConfig(cmd, "voice-threshold", &inputVoiceThreshold, in.VoiceThreshold)
}

// newArbiter registers both classifiers. A source without a command stays
// registered so the UI can report it as unavailable.
func newArbiter(in model.InputConfig, logger *slog.Logger) *input.Arbiter {
	arb := input.NewArbiter(nil, logger)

	gesture := input.GestureRule()
	gesture.Threshold = in.GestureThreshold
	if in.GestureLabel != "" {
		gesture.Label = in.GestureLabel
	}
	voice := input.VoiceRule()
	voice.Threshold = in.VoiceThreshold
	if in.VoiceLabel != "" {
		voice.Label = in.VoiceLabel
	}

	arb.Register(input.SourceGesture, newClassifier("gesture", in.GestureCommand, logger), gesture)
	arb.Register(input.SourceVoice, newClassifier("voice", in.VoiceCommand, logger), voice)
	return arb
}

func newClassifier(name, command string, logger *slog.Logger) input.Classifier {
	if strings.TrimSpace(command) == "" {
		return nil
	}
	return classifier.New(name, command, logger)
}

func openLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	f, err := app.OpenLogFile(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	closeLog := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}
	return app.NewLogger(cfg, f), closeLog, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newDecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List imported decks",
		Args:  cobra.NoArgs,
		RunE:  runDecksCmd,
	}
}

func runDecksCmd(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	st, err := store.Open(context.Background(), env.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return listDecks(cmd.Context(), cmd.OutOrStdout(), env.DeckDir, st)
}

type deckHistory interface {
	ListDecks(ctx context.Context) ([]string, error)
	DeckAccuracy(ctx context.Context, deck string) (correct, cards int, err error)
}

// listDecks prints imported decks with their all-time accuracy, followed by
// decks that only exist in the history.
func listDecks(ctx context.Context, w io.Writer, dir string, hist deckHistory) error {
	names, err := deck.List(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read deck directory: %w", err)
	}
	played, err := hist.ListDecks(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 && len(played) == 0 {
		logErrln("No decks found. Import one with: flashmash import <file.csv>")
		return fmt.Errorf("no decks found")
	}

	imported := make(map[string]struct{}, len(names))
	for _, name := range names {
		imported[name] = struct{}{}
		line := name
		correct, cards, err := hist.DeckAccuracy(ctx, name)
		if err != nil {
			return err
		}
		if cards > 0 {
			line = fmt.Sprintf("%s\t%.1f%% over %d cards", name, float64(correct)/float64(cards)*100, cards)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	for _, name := range played {
		if _, ok := imported[name]; ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t(history only)\n", name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Validate a CSV deck and copy it into the deck directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importName, "name", "", "deck name (default: file name)")
	cmd.Flags().BoolVar(&importForce, "force", false, "overwrite an existing deck")
	cmd.Flags().StringVar(&importPromptCol, "prompt-col", "", "header of the prompt column")
	cmd.Flags().StringVar(&importAnswerCol, "answer-col", "", "header of the answer column")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	cols := deck.Columns{Prompt: importPromptCol, Answer: importAnswerCol}
	path, n, err := deck.Import(args[0], env.DeckDir, importName, cols, importForce)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards into %s\n", n, path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDeck, "deck", "", "deck filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsCards, "card", "", "comma-separated prompts for per-card curves")
	cmd.Flags().StringVar(&statsSession, "session", "", "print the report of one session by UUID")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	st, err := store.Open(context.Background(), env.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsSession != "" {
		return printSession(cmd.Context(), cmd.OutOrStdout(), st, statsSession)
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Deck:        statsDeck,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Cards:       statsCards,
	}, nil
}

type sessionGetter interface {
	GetSession(ctx context.Context, uuid string) (model.SessionStats, []model.CardResult, error)
}

// printSession renders a stored session with the same report shown when a
// deck is completed.
func printSession(ctx context.Context, w io.Writer, src sessionGetter, id string) error {
	s, results, err := src.GetSession(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", id, err)
	}
	log := make([]model.AnswerEntry, len(results))
	for i, r := range results {
		log[i] = model.AnswerEntry{
			Prompt:   r.Prompt,
			Answer:   r.Answer,
			Chosen:   r.Chosen,
			Correct:  r.Correct,
			Trigger:  r.Trigger,
			Interval: r.Interval,
		}
	}
	if _, err := fmt.Fprintf(w, "Deck: %s  Started: %s\n", s.Deck, s.StartedAt.Local().Format("2006-01-02 15:04")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return stats.Summarize(log, s.Cards, s.StartedAt, s.EndedAt).RenderSummary(w)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyDurationConfig reads a millisecond config value into a duration flag.
func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, ms *int) {
	if ms == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = time.Duration(*ms) * time.Millisecond
}

func defaultConfigTemplate() string {
	p := session.DefaultPolicy()
	gesture, voice := input.GestureRule(), input.VoiceRule()
	return fmt.Sprintf(`# flashmash configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# deck = "spanish"            # Deck name or path to a CSV file
# prompt-col = "front"        # Prompt column header (default: first column)
# answer-col = "back"         # Answer column header (default: second column)
# interval-ms = %d          # Starting time each option is shown
# min-interval-ms = %d      # Fastest allowed interval
# max-interval-ms = %d     # Slowest allowed interval
# speedup = %.3f            # Interval factor after %d correct in a row
# slowdown = %.2f             # Interval factor after %d incorrect in a row
# dwell-correct-ms = %d     # Pause after a correct answer
# dwell-incorrect-ms = %d   # Pause after an incorrect answer
# shuffle = false             # Shuffle the deck
# focus-weak = false          # Practice the weakest cards first
# weak-top = %d                # Number of weak cards to move to the front
# weak-window = %d            # Number of recent sessions to compute weak cards

[input]
# gesture-cmd = ""            # Command printing "<label> <confidence>" lines
# gesture-label = %q
# gesture-threshold = %.2f
# voice-cmd = ""
# voice-label = %q
# voice-threshold = %.2f
`,
		p.Start.Milliseconds(),
		p.MinInterval.Milliseconds(),
		p.MaxInterval.Milliseconds(),
		p.SpeedUp, p.SpeedUpEvery,
		p.SlowDown, p.SlowDownEvery,
		p.DwellCorrect.Milliseconds(),
		p.DwellIncorrect.Milliseconds(),
		defaultWeakTop,
		defaultWeakWindow,
		gesture.Label, gesture.Threshold,
		voice.Label, voice.Threshold,
	)
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.Deck) == "" {
		return fmt.Errorf("--deck is required (list decks with: flashmash decks)")
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("--interval must be > 0")
	}
	if cfg.MinInterval <= 0 {
		return fmt.Errorf("--min-interval must be > 0")
	}
	if cfg.MaxInterval < cfg.MinInterval {
		return fmt.Errorf("--max-interval must be >= --min-interval")
	}
	if cfg.SpeedUp <= 0 || cfg.SpeedUp > 1 {
		return fmt.Errorf("--speedup must be in (0, 1]")
	}
	if cfg.SlowDown < 1 {
		return fmt.Errorf("--slowdown must be >= 1")
	}
	if cfg.DwellCorrect < 0 {
		return fmt.Errorf("--dwell-correct must be >= 0")
	}
	if cfg.DwellIncorrect < 0 {
		return fmt.Errorf("--dwell-incorrect must be >= 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if err := session.PolicyFromConfig(cfg).Validate(); err != nil {
		return fmt.Errorf("invalid timing: %w", err)
	}
	return nil
}

func validateInput(in model.InputConfig) error {
	if in.GestureThreshold < 0 || in.GestureThreshold > 1 {
		return fmt.Errorf("--gesture-threshold must be between 0 and 1")
	}
	if in.VoiceThreshold < 0 || in.VoiceThreshold > 1 {
		return fmt.Errorf("--voice-threshold must be between 0 and 1")
	}
	return nil
}

func deckLoadError(path string, err error) error {
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load deck %s: %w", path, err)
	}
	hint := strings.Join([]string{
		"Run: flashmash decks",
		"Import: flashmash import <file.csv>",
	}, "\n")
	return fmt.Errorf("failed to load deck %s: %w\n%s", path, err, hint)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
