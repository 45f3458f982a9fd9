package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/wordlist"
)

var installForce bool

func newWordlistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlists",
		Short: "List installed and built-in word lists",
		Args:  cobra.NoArgs,
		RunE:  runWordlistsCmd,
	}
	install := &cobra.Command{
		Use:   "install [lang...]",
		Short: "Write built-in word lists to the config dir for editing",
		RunE:  runInstallCmd,
	}
	install.Flags().BoolVar(&installForce, "force", false, "overwrite existing files")
	cmd.AddCommand(install)
	return cmd
}

func runWordlistsCmd(cmd *cobra.Command, _ []string) error {
	installed, err := installedLangs(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	return writeLangTable(cmd.OutOrStdout(), installed, wordlist.EmbeddedLangs())
}

func installedLangs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	sort.Strings(langs)
	return langs, nil
}

func writeLangTable(w io.Writer, installed, builtin []string) error {
	kinds := map[string][]string{}
	for _, lang := range builtin {
		kinds[lang] = append(kinds[lang], "built-in")
	}
	for _, lang := range installed {
		kinds[lang] = append(kinds[lang], "installed")
	}
	langs := make([]string, 0, len(kinds))
	for lang := range kinds {
		langs = append(langs, lang)
	}
	if len(langs) == 0 {
		logErrln("No word lists found.")
		return fmt.Errorf("no word lists found")
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if _, err := fmt.Fprintf(w, "%-6s %s\n", lang, strings.Join(kinds[lang], ", ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runInstallCmd(_ *cobra.Command, args []string) error {
	langs := args
	if len(langs) == 0 {
		langs = []string{defaultLang}
	}
	outDir := config.DefaultWordListDir()
	for _, lang := range langs {
		lang = strings.TrimSpace(strings.ToLower(lang))
		words, err := wordlist.Embedded(lang)
		if err != nil {
			return fmt.Errorf("%w (built-in: %s)", err, strings.Join(wordlist.EmbeddedLangs(), ", "))
		}
		outPath := filepath.Join(outDir, lang+".txt")
		if !installForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to stat word list: %w", err)
			}
		}
		if err := writeWordList(outPath, words); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		logErrf("Wrote %s\n", outPath)
	}
	return nil
}

func writeWordList(path string, words []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "wordlist-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, word := range words {
		if _, err := fmt.Fprintln(writer, word); err != nil {
			return fmt.Errorf("failed to write word list: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}
