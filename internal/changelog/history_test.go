package changelog

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/agentx-labs/monolink/internal/versioning"
	"github.com/agentx-labs/monolink/internal/workspace"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// addCommit writes a file, commits it with msg, and returns the commit hash.
func addCommit(t *testing.T, repo *git.Repository, repoPath string, n int, msg string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	name := "file" + strconv.Itoa(n) + ".txt"
	if err := os.WriteFile(filepath.Join(repoPath, name), []byte(msg), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add: %v", err)
	}
	when := time.Date(2024, 1, 1, 0, 0, n, 0, time.UTC)
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "t@example.com", When: when}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

func initRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	return repo, dir
}

func TestLoadHistoryOldestFirst(t *testing.T) {
	repo, dir := initRepo(t)
	messages := []string{
		"feat(a): first",
		"fix(a): second",
		"release(a): 1.1.0",
		"fix(a): third",
	}
	for i, msg := range messages {
		addCommit(t, repo, dir, i, msg)
	}

	commits, err := LoadHistory(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(commits) != len(messages) {
		t.Fatalf("got %d commits, want %d", len(commits), len(messages))
	}
	for i, msg := range messages {
		if commits[i].Subject != msg {
			t.Errorf("commit %d subject = %q, want %q", i, commits[i].Subject, msg)
		}
	}
	if commits[2].Type != TypeRelease || commits[2].Scope != "a" {
		t.Errorf("release commit parsed as %+v", commits[2])
	}
}

func TestLoadHistoryFromSubdirectory(t *testing.T) {
	repo, dir := initRepo(t)
	addCommit(t, repo, dir, 0, "feat(a): first")

	sub := filepath.Join(dir, "packages", "a")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	commits, err := LoadHistory(context.Background(), sub, "")
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(commits) != 1 {
		t.Errorf("got %d commits, want 1", len(commits))
	}
}

func TestLoadHistoryFromRevision(t *testing.T) {
	repo, dir := initRepo(t)
	addCommit(t, repo, dir, 0, "feat(a): before")
	base := addCommit(t, repo, dir, 1, "fix(a): base")
	addCommit(t, repo, dir, 2, "perf(a): after")

	commits, err := LoadHistory(context.Background(), dir, base.String())
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(commits) != 1 || commits[0].Type != TypePerf {
		t.Errorf("commits = %+v, want only the perf commit", commits)
	}
}

// mergedHistory builds init, release(a) and then a branch fix merged back
// after a mainline chore. It returns the repository directory and the
// release hash.
func mergedHistory(t *testing.T) (string, plumbing.Hash) {
	t.Helper()
	repo, dir := initRepo(t)
	addCommit(t, repo, dir, 0, "feat(a): init")
	release := addCommit(t, repo, dir, 1, "release(a): 1.1.0")
	branch := addCommit(t, repo, dir, 2, "fix(a): on branch")

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := wt.Reset(&git.ResetOptions{Commit: release, Mode: git.HardReset}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	mainline := addCommit(t, repo, dir, 3, "chore: tidy")

	when := time.Date(2024, 1, 1, 0, 0, 4, 0, time.UTC)
	if _, err := wt.Commit("Merge branch 'fix'", &git.CommitOptions{
		Author:            &object.Signature{Name: "tester", Email: "t@example.com", When: when},
		Parents:           []plumbing.Hash{mainline, branch},
		AllowEmptyCommits: true,
	}); err != nil {
		t.Fatalf("merge commit: %v", err)
	}
	return dir, release
}

func TestLoadHistoryMergedBranchInTimeOrder(t *testing.T) {
	dir, _ := mergedHistory(t)

	commits, err := LoadHistory(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}

	want := []string{"feat(a): init", "release(a): 1.1.0", "fix(a): on branch", "chore: tidy", "Merge branch 'fix'"}
	if len(commits) != len(want) {
		t.Fatalf("got %d commits, want %d", len(commits), len(want))
	}
	for i, subject := range want {
		if commits[i].Subject != subject {
			t.Errorf("commit %d subject = %q, want %q", i, commits[i].Subject, subject)
		}
	}

	// The branch fix lands after the release and stays pending.
	status := GenerateStatus([]workspace.Project{project("a", "1.1.0")}, commits, true)
	if s := status["a"]; s == nil || s.Increment != versioning.Patch {
		t.Errorf("status[a] = %+v, want a pending patch", s)
	}
}

func TestLoadHistoryFromExcludesAncestors(t *testing.T) {
	dir, release := mergedHistory(t)

	commits, err := LoadHistory(context.Background(), dir, release.String())
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}

	want := []string{"fix(a): on branch", "chore: tidy", "Merge branch 'fix'"}
	if len(commits) != len(want) {
		t.Fatalf("got %d commits, want %d: %+v", len(commits), len(want), commits)
	}
	for i, subject := range want {
		if commits[i].Subject != subject {
			t.Errorf("commit %d subject = %q, want %q", i, commits[i].Subject, subject)
		}
	}
}

func TestLoadHistoryEmptyRepository(t *testing.T) {
	_, dir := initRepo(t)

	commits, err := LoadHistory(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(commits) != 0 {
		t.Errorf("expected no commits, got %d", len(commits))
	}
}

func TestLoadHistoryNotARepository(t *testing.T) {
	if _, err := LoadHistory(context.Background(), t.TempDir(), ""); err == nil {
		t.Error("expected error outside a git repository")
	}
}

func TestLoadHistoryCanceled(t *testing.T) {
	repo, dir := initRepo(t)
	addCommit(t, repo, dir, 0, "fix(a): one")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadHistory(ctx, dir, ""); err == nil {
		t.Error("expected error for canceled context")
	}
}
