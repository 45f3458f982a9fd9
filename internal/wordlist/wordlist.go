// Package wordlist loads word lists from files or the embedded defaults.
package wordlist

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed data/*.txt
var embedded embed.FS

// ErrNoEmbedded reports a language without a bundled list.
var ErrNoEmbedded = errors.New("no embedded word list")

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file)
}

// ReadWords reads one word per line, skipping blank lines.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Embedded returns the bundled word list for lang.
func Embedded(lang string) ([]string, error) {
	file, err := embedded.Open(path.Join("data", lang+".txt"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w for %q", ErrNoEmbedded, lang)
		}
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return ReadWords(file)
}

// EmbeddedLangs lists the languages bundled with the binary.
func EmbeddedLangs() []string {
	entries, err := embedded.ReadDir("data")
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	sort.Strings(langs)
	return langs
}

// Source describes where a loaded word list came from.
type Source struct {
	Path     string
	Embedded bool
}

func (s Source) String() string {
	if s.Embedded {
		return "embedded:" + s.Path
	}
	return s.Path
}

// Resolve loads the list at path, falling back to the embedded list for lang
// when the file does not exist. Words rejected by the language filter are
// dropped.
func Resolve(path, lang string) ([]string, Source, error) {
	words, err := LoadWords(path)
	source := Source{Path: path}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, source, fmt.Errorf("failed to load word list %s: %w", path, err)
		}
		words, err = Embedded(lang)
		if err != nil {
			return nil, source, fmt.Errorf("word list %s not found: %w", path, err)
		}
		source = Source{Path: lang, Embedded: true}
	}
	filtered := Filter(words, FilterForLang(lang))
	if len(filtered) == 0 {
		return nil, source, fmt.Errorf("word list %s has no usable %s words", source, lang)
	}
	return filtered, source, nil
}

// Filter keeps the words accepted by keep.
func Filter(words []string, keep FilterFunc) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}
