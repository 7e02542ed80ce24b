package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vertex-mask/internal/dataset"
	"vertex-mask/internal/logging"
)

func TestWatcherReportsCompletedPair(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, nil, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	w.Settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan dataset.Pair, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(p dataset.Pair) { got <- p })
	}()

	// An image alone never completes a pair.
	if err := os.WriteFile(filepath.Join(dir, "n1.JPEG"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case p := <-got:
		t.Fatalf("unexpected pair %+v", p)
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(filepath.Join(dir, "n1.mat"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case p := <-got:
		if p.Name != "n1" || p.Image != filepath.Join(dir, "n1.JPEG") || p.Annotation != filepath.Join(dir, "n1.mat") {
			t.Errorf("pair = %+v", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no pair reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope"), nil, nil); err == nil {
		t.Error("watching a missing directory succeeded")
	}
}

func TestRunReportsWatcherShutdown(t *testing.T) {
	w, err := New(t.TempDir(), nil, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	w.fs.Close()

	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background(), func(dataset.Pair) {})
	}()
	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("Run = %v, want ErrClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run kept going after the watcher closed")
	}
}
