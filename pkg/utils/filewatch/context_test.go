package filewatch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nauta/nauta-gui/pkg/utils/filewatch"
)

func createFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func expectCanceled(t *testing.T, ctx context.Context) {
	t.Helper()
	deadlineCh := time.After(10 * time.Second)
	if dl, ok := t.Deadline(); ok {
		deadlineCh = time.After(time.Until(dl) - 1*time.Second)
	}
	select {
	case <-ctx.Done():
		if context.Cause(ctx) == nil {
			t.Error("context is canceled without cause")
		}
	case <-deadlineCh:
		t.Fatalf("context is not canceled")
	}
}

func watch(t *testing.T, target string) context.Context {
	t.Helper()
	ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), target)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cancel)
	if err := ctx.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ctx
}

func TestUntilModifyContext(t *testing.T) {
	t.Run("when the watched file is written, it cancels context", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "config.yaml")
		createFile(t, file, "port: 8080")

		ctx := watch(t, file)
		createFile(t, file, "port: 9090")
		expectCanceled(t, ctx)
	})

	t.Run("when the watched file is deleted, it cancels context", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "config.yaml")
		createFile(t, file, "port: 8080")

		ctx := watch(t, file)
		if err := os.Remove(file); err != nil {
			t.Fatal(err)
		}
		expectCanceled(t, ctx)
	})

	t.Run("when the watched file is replaced by rename, it cancels context", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "config.yaml")
		createFile(t, file, "port: 8080")
		next := filepath.Join(dir, "config.yaml.next")
		createFile(t, next, "port: 9090")

		ctx := watch(t, file)
		if err := os.Rename(next, file); err != nil {
			t.Fatal(err)
		}
		expectCanceled(t, ctx)
	})

	t.Run("when the data directory of a ConfigMap volume is swapped, it cancels context", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.Mkdir(filepath.Join(dir, "..v1"), 0755); err != nil {
			t.Fatal(err)
		}
		createFile(t, filepath.Join(dir, "..v1", "config.yaml"), "port: 8080")
		if err := os.Symlink("..v1", filepath.Join(dir, "..data")); err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(filepath.Join("..data", "config.yaml"), filepath.Join(dir, "config.yaml")); err != nil {
			t.Fatal(err)
		}

		ctx := watch(t, filepath.Join(dir, "config.yaml"))

		if err := os.Mkdir(filepath.Join(dir, "..v2"), 0755); err != nil {
			t.Fatal(err)
		}
		createFile(t, filepath.Join(dir, "..v2", "config.yaml"), "port: 9090")
		if err := os.Symlink("..v2", filepath.Join(dir, "..data_tmp")); err != nil {
			t.Fatal(err)
		}
		if err := os.Rename(filepath.Join(dir, "..data_tmp"), filepath.Join(dir, "..data")); err != nil {
			t.Fatal(err)
		}
		expectCanceled(t, ctx)
	})

	t.Run("when another file in the same directory is written, it does not cancel context", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "config.yaml")
		createFile(t, file, "port: 8080")

		ctx := watch(t, file)
		createFile(t, filepath.Join(dir, "other.yaml"), "irrelevant")

		select {
		case <-ctx.Done():
			t.Errorf("context is canceled: %v", context.Cause(ctx))
		case <-time.After(500 * time.Millisecond):
		}
	})

	t.Run("when the watched directory does not exist, it returns error", func(t *testing.T) {
		dir := t.TempDir()
		_, _, err := filewatch.UntilModifyContext(
			context.Background(), filepath.Join(dir, "no-such-dir", "config.yaml"),
		)
		if err == nil {
			t.Error("expected error, but got nil")
		}
	})
}
