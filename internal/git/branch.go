// Package git provides Git operations for escritorio.
// This file implements branch listing and the branch lifecycle operations.
package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/curillo/escritorio/internal/ctxutil"
	"github.com/curillo/escritorio/internal/domain"
	escerrors "github.com/curillo/escritorio/internal/errors"
)

// branchFieldSep separates for-each-ref format fields. NUL keeps arbitrary
// ref names and subjects parseable.
const branchFieldSep = "\x00"

// Branches returns all local and remote branches. The origin/HEAD symref
// is skipped; it is not a branch.
func (c *Client) Branches(ctx context.Context) ([]domain.Branch, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	format := strings.Join([]string{
		"%(refname)",
		"%(refname:short)",
		"%(upstream:short)",
		"%(objectname)",
		"%(subject)",
		"%(symref)",
	}, "%00")

	result, err := c.run(ctx, "for-each-ref", "--format="+format, "refs/heads", "refs/remotes")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	return parseBranches(result.Text())
}

// parseBranches parses for-each-ref output, one branch per line.
func parseBranches(output string) ([]domain.Branch, error) {
	var branches []domain.Branch

	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, branchFieldSep)
		if len(fields) != 6 {
			return nil, newParseError("malformed for-each-ref record", line)
		}

		refName, shortName, upstream, sha, subject, symref := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]
		if symref != "" {
			// origin/HEAD points at the remote's default branch.
			continue
		}

		kind := domain.BranchLocal
		if strings.HasPrefix(refName, "refs/remotes/") {
			kind = domain.BranchRemote
		}

		branches = append(branches, domain.Branch{
			Name:       shortName,
			Upstream:   upstream,
			TipSHA:     sha,
			TipSummary: subject,
			Kind:       kind,
		})
	}

	return branches, nil
}

// CurrentBranch returns the name of the currently checked out branch.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	result, err := c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	name := result.TrimmedText()
	if name == "HEAD" {
		return "", escerrors.ErrDetachedHead
	}
	return name, nil
}

// DefaultBranch resolves the repository's default branch: the remote HEAD
// when one is configured, otherwise init.defaultBranch, otherwise "main".
func (c *Client) DefaultBranch(ctx context.Context) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	result, err := c.run(ctx, "symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err == nil {
		// "origin/main" -> "main"
		name := result.TrimmedText()
		if idx := strings.IndexByte(name, '/'); idx >= 0 {
			return name[idx+1:], nil
		}
		return name, nil
	}

	result, err = c.runWithOptions(ctx,
		RunOptions{ExpectedErrors: map[int]struct{}{1: {}}},
		"config", "--get", "init.defaultBranch")
	if err == nil && result.ExitCode == 0 && result.TrimmedText() != "" {
		return result.TrimmedText(), nil
	}

	return "main", nil
}

// BranchExists checks if a local branch exists in the repository.
func (c *Client) BranchExists(ctx context.Context, name string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	result, err := c.runWithOptions(ctx,
		RunOptions{ExpectedErrors: map[int]struct{}{1: {}}},
		"show-ref", "--verify", "--quiet", "refs/heads/"+name)
	if err != nil {
		return false, fmt.Errorf("failed to check branch existence: %w", err)
	}
	return result.ExitCode == 0, nil
}

// CreateBranch creates a new branch and checks it out. If baseBranch is
// empty the branch is created from current HEAD.
func (c *Client) CreateBranch(ctx context.Context, name, baseBranch string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("branch name cannot be empty: %w", escerrors.ErrEmptyValue)
	}

	exists, err := c.BranchExists(ctx, name)
	if err != nil {
		return fmt.Errorf("checking branch existence: %w", err)
	}
	if exists {
		return fmt.Errorf("branch %q already exists: %w", name, escerrors.ErrBranchExists)
	}

	args := []string{"checkout", "-b", name}
	if baseBranch != "" {
		args = append(args, baseBranch)
	}
	if _, err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to create branch %q: %w", name, err)
	}
	return nil
}

// RenameBranch renames a local branch.
func (c *Client) RenameBranch(ctx context.Context, oldName, newName string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if oldName == "" || newName == "" {
		return fmt.Errorf("branch name cannot be empty: %w", escerrors.ErrEmptyValue)
	}

	if _, err := c.run(ctx, "branch", "-m", oldName, newName); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("branch %q: %w", oldName, escerrors.ErrBranchNotFound)
		}
		return fmt.Errorf("failed to rename branch %q: %w", oldName, err)
	}
	return nil
}

// Checkout switches the working directory to the given branch.
func (c *Client) Checkout(ctx context.Context, name string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("branch name cannot be empty: %w", escerrors.ErrEmptyValue)
	}

	if _, err := c.run(ctx, "checkout", name); err != nil {
		return fmt.Errorf("failed to checkout %q: %w", name, err)
	}
	return nil
}

// DeleteBranch deletes a local branch. Git refuses to delete the branch
// that is checked out, so deleting the current branch first checks out
// defaultBranch; with no known default branch that is a precondition error.
func (c *Client) DeleteBranch(ctx context.Context, name, defaultBranch string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("branch name cannot be empty: %w", escerrors.ErrEmptyValue)
	}

	current, err := c.CurrentBranch(ctx)
	if err != nil && !errors.Is(err, escerrors.ErrDetachedHead) {
		return fmt.Errorf("failed to resolve current branch: %w", err)
	}

	if current == name {
		if defaultBranch == "" || defaultBranch == name {
			return fmt.Errorf("cannot delete checked-out branch %q: %w", name, escerrors.ErrNoDefaultBranch)
		}
		if err := c.Checkout(ctx, defaultBranch); err != nil {
			return err
		}
	}

	if _, err := c.run(ctx, "branch", "-D", name); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("branch %q: %w", name, escerrors.ErrBranchNotFound)
		}
		return fmt.Errorf("failed to delete branch %q: %w", name, err)
	}
	return nil
}
