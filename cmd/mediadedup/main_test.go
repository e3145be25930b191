package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"mediadedup/internal/config"
	"mediadedup/internal/history"
	"mediadedup/internal/runlock"
	"mediadedup/internal/testsupport"
)

var duplicatePair = []testsupport.Title{
	{Name: "Movie.Title.2020.BluRay", MediaBytes: 32},
	{Name: "Movie Title (2020) WEBRip", MediaBytes: 32},
	{Name: "Unrelated 1999"},
}

func TestScanReportsWithoutChangingTree(t *testing.T) {
	env := setupCLITestEnv(t, duplicatePair...)

	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Group: movie title 2020")
	requireContains(t, out, "Duplicate directory: "+filepath.Join(env.root, "Movie Title (2020) WEBRip"))
	requireContains(t, out, "Keeping directory: "+filepath.Join(env.root, "Movie.Title.2020.BluRay"))
	requireContains(t, out, "Total")
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("output to a buffer must not be coloured: %q", out)
	}
	if got := testsupport.Dirs(t, env.root); len(got) != 3 {
		t.Fatalf("report run changed the tree: %v", got)
	}
}

func TestScanDryRunWinsOverDelete(t *testing.T) {
	env := setupCLITestEnv(t, duplicatePair...)

	out, _, err := runCLI(t, []string{"--delete", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "[DRY RUN] Would delete directory")
	if got := testsupport.Dirs(t, env.root); len(got) != 3 {
		t.Fatalf("dry-run changed the tree: %v", got)
	}
}

func TestScanDeleteRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t, duplicatePair...)

	out, _, err := runCLI(t, []string{"--delete"}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Deleted directory")
	want := []string{"Movie.Title.2020.BluRay", "Unrelated 1999"}
	got := testsupport.Dirs(t, env.root)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("remaining dirs %v, want %v", got, want)
	}

	store := testsupport.MustOpenHistory(t, env.cfg)
	runs, err := store.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(runs))
	}
	run := runs[0]
	if run.Policy != "delete" || run.Status != history.StatusCompleted || run.Deleted != 1 || run.Processed != 3 {
		t.Fatalf("unexpected run %+v", run)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, run.ID[:8])

	out, _, err = runCLI(t, []string{"history", "--run", run.ID}, env.configPath)
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	requireContains(t, out, "deleted")
	requireContains(t, out, "retained")
}

func TestScanDeleteRefusesWhenLocked(t *testing.T) {
	env := setupCLITestEnv(t, duplicatePair...)
	lock, err := runlock.Acquire(env.cfg.Lock.Path)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"--delete"}, env.configPath)
	if !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if got := testsupport.Dirs(t, env.root); len(got) != 3 {
		t.Fatalf("locked run changed the tree: %v", got)
	}

	if _, _, err := runCLI(t, nil, env.configPath); err != nil {
		t.Fatalf("report runs do not need the lock: %v", err)
	}
}

func TestScanMissingConfigFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, _, err := runCLI(t, nil, filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestScanMissingRootIsNotFatal(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Paths = []string{filepath.Join(testsupport.BaseDir(env.cfg), "gone")}
	writeTestConfig(t, env.configPath, env.cfg)

	out, stderr, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "(skipped)")
	requireContains(t, stderr, "root_missing")
}

func TestInspectShowsKeyAndScore(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.Title{Name: "Whatever BluRay", Sidecars: map[string]string{"movie.nfo": "<imdb>tt1234567</imdb>"}},
	)

	out, _, err := runCLI(t, []string{"inspect", filepath.Join(env.root, "Whatever BluRay")}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "id:tt1234567")
	requireContains(t, out, "movie.nfo")
	requireContains(t, out, "BluRay (+10)")
}

func TestInspectRejectsMissingDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"inspect", filepath.Join(env.root, "nope")}, env.configPath); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
