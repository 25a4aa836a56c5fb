// Package fetch materializes remote solution sources locally so the
// converter only ever deals with directories on disk.
package fetch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"

	"github.com/slncross/slncross/internal/msg"
)

var hostShortcuts = map[string]string{
	"gh:": "https://github.com/",
	"gl:": "https://gitlab.com/",
	"bb:": "https://bitbucket.org/",
	"sr:": "https://sr.ht/",
	"cb:": "https://codeberg.org/",
}

const gitPrefix = "git:"

var errEmptySource = errors.New("empty source spec")

// IsRemote reports whether a source spec names a remote repository rather
// than a local path.
func IsRemote(spec string) bool {
	if strings.HasPrefix(spec, gitPrefix) {
		return true
	}
	for shortcut := range hostShortcuts {
		if strings.HasPrefix(spec, shortcut) {
			return true
		}
	}
	return false
}

// Source clones a remote solution repository into destDir and returns the
// local path. Specs take the form `git:<url>` or a host shortcut like
// `gh:user/repo`, optionally suffixed with `@branch` and/or `#commit-or-tag`.
func Source(spec, destDir string) (string, error) {
	if spec == "" {
		return "", errEmptySource
	}

	if rest, ok := strings.CutPrefix(spec, gitPrefix); ok {
		return clone(rest, destDir)
	}
	for shortcut, base := range hostShortcuts {
		if rest, ok := strings.CutPrefix(spec, shortcut); ok {
			return clone(base+rest, destDir)
		}
	}
	return "", fmt.Errorf("unrecognized source spec %q", spec)
}

type remoteRef struct {
	url         string
	branch      string
	commitOrTag string
}

// user/repo@branch#ref, user/repo#ref, user/repo@branch
func parseRemoteRef(raw string) (ref remoteRef) {
	base, after, found := strings.Cut(raw, "#")
	if found {
		ref.commitOrTag = after
	}

	ref.url, after, found = strings.Cut(base, "@")
	if found {
		ref.branch = after
	}

	if !strings.HasSuffix(ref.url, ".git") {
		ref.url += ".git"
	}
	return
}

func clone(rawURL, destDir string) (string, error) {
	ref := parseRemoteRef(rawURL)

	opts := &git.CloneOptions{
		URL:      ref.url,
		Progress: &msg.IndentWriter{Indent: "    ", W: os.Stdout},
	}
	if ref.commitOrTag == "" {
		opts.Depth = 1
	}
	if ref.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref.branch)
		opts.SingleBranch = true
	}

	repo, err := git.PlainClone(destDir, opts)
	if err != nil {
		return destDir, fmt.Errorf("clone %s: %w", ref.url, err)
	}

	if ref.commitOrTag != "" {
		w, err := repo.Worktree()
		if err != nil {
			return destDir, fmt.Errorf("worktree: %w", err)
		}
		hash, err := repo.ResolveRevision(plumbing.Revision(ref.commitOrTag))
		if err != nil {
			return destDir, fmt.Errorf("resolve revision %q: %w", ref.commitOrTag, err)
		}
		if err := w.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
			return destDir, fmt.Errorf("checkout %q: %w", ref.commitOrTag, err)
		}
	}

	return destDir, nil
}
