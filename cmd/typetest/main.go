// Package main provides the CLI entrypoint for typetest.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/logging"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/session"
	"github.com/verte-zerg/typetest/internal/tui"
	"github.com/verte-zerg/typetest/internal/wordlist"
)

const (
	defaultLang       = "en"
	defaultDifficulty = "medium"
	defaultCaps       = 0.0
	defaultPunct      = 0.0
	defaultTick       = 250 * time.Millisecond
	defaultLogLevel   = "info"
)

const defaultPunctSet = ".,!?;:"

var (
	testDifficulty string
	testLang       string
	testWordList   string
	testSeed       int64
	testCaps       float64
	testPunct      float64
	testPunctSet   string
	testTick       time.Duration
	testWatch      bool
	wordsShort     int
	wordsMedium    int
	wordsLong      int
	logFile        string
	logLevel       string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetest",
		Short:         "Real-time typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&testDifficulty, "difficulty", defaultDifficulty, "text length: short, medium or long")
	flags.StringVar(&testLang, "lang", defaultLang, "language code (default: en)")
	flags.StringVar(&testWordList, "wordlist", "", "word list path (default: config dir wordlists/<lang>.txt)")
	flags.Int64Var(&testSeed, "seed", 0, "random seed for text generation (0: time based)")
	flags.Float64Var(&testCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	flags.Float64Var(&testPunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	flags.StringVar(&testPunctSet, "punct-set", defaultPunctSet, "punctuation set")
	flags.DurationVar(&testTick, "tick", defaultTick, "live metrics refresh interval")
	flags.BoolVar(&testWatch, "watch", false, "reload the word list when the file changes")
	flags.IntVar(&wordsShort, "words-short", model.DefaultWordCounts.Short, "words per short text")
	flags.IntVar(&wordsMedium, "words-medium", model.DefaultWordCounts.Medium, "words per medium text")
	flags.IntVar(&wordsLong, "words-long", model.DefaultWordCounts.Long, "words per long text")
	flags.StringVar(&logFile, "log-file", "", "log file path (empty: no logging unless --log-level is set)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWordlistsCmd())
	rootCmd.AddCommand(newReplayCmd())

	return rootCmd
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg)

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, closeLog, err := logging.New(resolveLogPath(cfg), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	words, source, err := wordlist.Resolve(cfg.WordListPath, cfg.Lang)
	if err != nil {
		return wordListLoadError(cfg.Lang, cfg.WordListPath, err)
	}
	logger.Info("word list loaded", "source", source.String(), "words", len(words))

	gen, err := newGenerator(cfg, words)
	if err != nil {
		return err
	}
	engine := session.NewEngine(gen)
	m, err := tui.NewModel(engine, cfg.Difficulty, cfg.Tick, logger)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Watch {
		startWatcher(ctx, cfg, gen, program, logger)
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildConfig() (model.Config, error) {
	difficulty, err := model.ParseDifficulty(testDifficulty)
	if err != nil {
		return model.Config{}, fmt.Errorf("--difficulty: %w", err)
	}
	path := testWordList
	if path == "" {
		path = config.DefaultWordListPath(testLang)
	}
	return model.Config{
		Lang:       testLang,
		Difficulty: difficulty,
		WordCounts: model.WordCounts{
			Short:  wordsShort,
			Medium: wordsMedium,
			Long:   wordsLong,
		},
		WordListPath: path,
		Seed:         testSeed,
		CapsPct:      testCaps,
		PunctPct:     testPunct,
		PunctSet:     testPunctSet,
		Tick:         testTick,
		Watch:        testWatch,
		LogFile:      logFile,
		LogLevel:     logLevel,
	}, nil
}

func applyFileConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyConfig(cmd, "difficulty", &testDifficulty, fileCfg.Test.Difficulty)
	applyConfig(cmd, "lang", &testLang, fileCfg.Test.Lang)
	applyConfig(cmd, "wordlist", &testWordList, fileCfg.Test.WordList)
	applyConfig(cmd, "seed", &testSeed, fileCfg.Test.Seed)
	applyConfig(cmd, "caps", &testCaps, fileCfg.Test.CapsPct)
	applyConfig(cmd, "punct", &testPunct, fileCfg.Test.PunctPct)
	applyConfig(cmd, "punct-set", &testPunctSet, fileCfg.Test.PunctSet)
	applyConfig(cmd, "watch", &testWatch, fileCfg.Test.Watch)
	if tick := fileCfg.Test.Tick; tick != nil {
		applyConfig(cmd, "tick", &testTick, &tick.Duration)
	}
	applyConfig(cmd, "words-short", &wordsShort, fileCfg.Words.Short)
	applyConfig(cmd, "words-medium", &wordsMedium, fileCfg.Words.Medium)
	applyConfig(cmd, "words-long", &wordsLong, fileCfg.Words.Long)
	applyConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
}

func newGenerator(cfg model.Config, words []string) (*generator.Generator, error) {
	opts := []generator.Option{
		generator.WithCaps(cfg.CapsPct),
		generator.WithPunct(cfg.PunctPct, []rune(cfg.PunctSet)),
	}
	var (
		gen *generator.Generator
		err error
	)
	if cfg.Seed != 0 {
		gen, err = generator.NewWithSource(words, cfg.WordCounts, rand.NewSource(cfg.Seed), opts...)
	} else {
		gen, err = generator.New(words, cfg.WordCounts, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return gen, nil
}

// startWatcher swaps the generator corpus on every change to the word list.
// The running session keeps its text; the next reset uses the new words.
func startWatcher(ctx context.Context, cfg model.Config, gen *generator.Generator, program *tea.Program, logger *slog.Logger) {
	w, err := wordlist.NewWatcher(cfg.WordListPath, cfg.Lang)
	if err != nil {
		logger.Warn("word list watch disabled", "path", cfg.WordListPath, "err", err)
		return
	}
	go w.Run(ctx, func(words []string) {
		if err := gen.SetWords(words); err != nil {
			program.Send(tui.WordsReloadedMsg{Err: err})
			return
		}
		program.Send(tui.WordsReloadedMsg{Count: len(words)})
	}, func(err error) {
		program.Send(tui.WordsReloadedMsg{Err: err})
	})
}

func resolveLogPath(cfg model.Config) string {
	if cfg.LogFile != "" {
		return cfg.LogFile
	}
	if cfg.LogLevel != "" {
		return config.DefaultLogPath()
	}
	return ""
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
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// applyConfig copies a file value into target unless the flag was set.
func applyConfig[T any](cmd *cobra.Command, name string, target *T, value *T) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetest configuration
# Uncomment a value to enable it. CLI flags override config values.

[test]
# difficulty = %q     # short, medium or long
# wordlist = ""             # Word list path (default: wordlists/<lang>.txt next to this file)
# lang = %q                 # Language code
# seed = 0                  # Random seed (0: time based)
# caps = %.2f               # Probability of capitalized first letter (0-1)
# punct = %.2f              # Punctuation probability per word (0-1)
# punct-set = %q        # Punctuation set
# tick = %q             # Live metrics refresh interval
# watch = false             # Reload the word list when the file changes

[words]
# short = %d
# medium = %d
# long = %d

[log]
# file = %q
# level = %q
`,
		defaultDifficulty,
		defaultLang,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultTick.String(),
		model.DefaultWordCounts.Short,
		model.DefaultWordCounts.Medium,
		model.DefaultWordCounts.Long,
		config.DefaultLogPath(),
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	counts := map[string]int{
		"--words-short":  cfg.WordCounts.Short,
		"--words-medium": cfg.WordCounts.Medium,
		"--words-long":   cfg.WordCounts.Long,
	}
	for _, name := range []string{"--words-short", "--words-medium", "--words-long"} {
		if counts[name] <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.Tick <= 0 {
		return fmt.Errorf("--tick must be > 0")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
	}
	if errors.Is(err, wordlist.ErrNoEmbedded) {
		lines = append(lines,
			fmt.Sprintf("language %q has no built-in word list", lang),
			"Run: typetest wordlists",
		)
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
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
