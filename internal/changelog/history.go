package changelog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// LoadHistory reads the commits reachable from HEAD of the repository that
// contains dir, oldest first by committer time. When from is non-empty the
// commits reachable from that revision are left out, as in from..HEAD.
// A repository without commits has no history.
func LoadHistory(ctx context.Context, dir, from string) ([]Commit, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", dir, err)
	}
	return ReadHistory(ctx, repo, from)
}

// ReadHistory is LoadHistory for an already opened repository.
func ReadHistory(ctx context.Context, repo *git.Repository, from string) ([]Commit, error) {
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	var exclude map[plumbing.Hash]bool
	if from != "" {
		h, err := repo.ResolveRevision(plumbing.Revision(from))
		if err != nil {
			return nil, fmt.Errorf("resolving revision %q: %w", from, err)
		}
		if exclude, err = ancestors(ctx, repo, *h); err != nil {
			return nil, err
		}
	}

	// Committer-time order keeps merged branches interleaved with the
	// mainline instead of listing each parent's chain in turn.
	cIter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("reading git log: %w", err)
	}
	defer cIter.Close()

	p := NewParser()
	var newestFirst []Commit
	err = cIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if exclude[c.Hash] {
			return nil
		}
		newestFirst = append(newestFirst, p.Parse(c.Hash.String(), c.Message))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking git log: %w", err)
	}

	commits := make([]Commit, len(newestFirst))
	for i, c := range newestFirst {
		commits[len(newestFirst)-1-i] = c
	}
	return commits, nil
}

// ancestors returns from and every commit reachable from it.
func ancestors(ctx context.Context, repo *git.Repository, from plumbing.Hash) (map[plumbing.Hash]bool, error) {
	cIter, err := repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("reading git log from %s: %w", from, err)
	}
	defer cIter.Close()

	seen := make(map[plumbing.Hash]bool)
	err = cIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking git log from %s: %w", from, err)
	}
	return seen, nil
}
