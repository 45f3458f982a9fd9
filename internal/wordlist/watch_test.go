package wordlist

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.txt")
	if err := os.WriteFile(path, []byte("first\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := NewWatcher(path, "en")
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	loaded := make(chan []string, 4)
	go func() {
		defer close(done)
		w.Run(ctx, func(words []string) { loaded <- words }, func(error) {})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("ignored\n"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(path, []byte("second\nthird\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case words := <-loaded:
		if strings.Join(words, ",") != "second,third" {
			t.Fatalf("unexpected reloaded words: %v", words)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}
}

func TestWatcherLastWriteWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.txt")
	if err := os.WriteFile(path, []byte("zero\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := NewWatcher(path, "en")
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	loaded := make(chan []string, 16)
	go func() {
		defer close(done)
		w.Run(ctx, func(words []string) { loaded <- words }, func(error) {})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	for _, content := range []string{"one\n", "two\n", "three\nfour\n"} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
	}

	var last []string
	deadline := time.After(5 * time.Second)
	for strings.Join(last, ",") != "three,four" {
		select {
		case last = <-loaded:
		case <-deadline:
			t.Fatalf("timed out waiting for final list, last got %v", last)
		}
	}
	select {
	case words := <-loaded:
		if strings.Join(words, ",") != "three,four" {
			t.Fatalf("older list delivered after the final one: %v", words)
		}
	case <-time.After(200 * time.Millisecond):
	}
}
