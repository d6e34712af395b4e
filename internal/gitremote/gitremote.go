// Package gitremote derives the raw.githubusercontent.com root
// "<user>/<repo>/<branch>" from the git checkout a document lives in.
package gitremote

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// RawBaseURL prefixes every raw GitHub link.
const RawBaseURL = "https://raw.githubusercontent.com/"

// DefaultRemote is the remote consulted when none is configured.
const DefaultRemote = "origin"

// Sentinel errors for remote discovery.
var (
	ErrNoRemote   = errors.New("git remote not found")
	ErrNotGitHub  = errors.New("remote is not hosted on github.com")
	ErrNoBranch   = errors.New("cannot determine current branch")
	ErrGitFailure = errors.New("git command failed")
)

// githubURLPattern matches the scp-like, ssh:// and https:// forms of a
// GitHub remote URL.
var githubURLPattern = regexp.MustCompile(`^(?:git@github\.com:|ssh://git@github\.com/|https?://(?:[^@/]+@)?github\.com/)([^/\s]+)/([^/\s]+?)(?:\.git)?/?$`)

// rootPattern validates a user-supplied "<user>/<repo>/<branch>" root.
var rootPattern = regexp.MustCompile(`^[^/\s]+/[^/\s]+/\S+$`)

// GitFunc runs git with args in dir and returns its stdout.
type GitFunc func(ctx context.Context, dir string, args ...string) (string, error)

// ExecGit runs the git binary on PATH.
func ExecGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: git %s: %s: %v", ErrGitFailure, strings.Join(args, " "), strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}

// Root returns "<user>/<repo>/<branch>" for remote in the checkout at dir.
func Root(ctx context.Context, git GitFunc, dir, remote string) (string, error) {
	if remote == "" {
		remote = DefaultRemote
	}

	remotes, err := git(ctx, dir, "remote", "-v")
	if err != nil {
		return "", err
	}
	url, err := RemoteURL(remotes, remote)
	if err != nil {
		return "", err
	}
	user, repo, err := ParseGitHubURL(url)
	if err != nil {
		return "", err
	}

	head, err := git(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(head)
	if branch == "" || branch == "HEAD" {
		return "", fmt.Errorf("%w: detached HEAD", ErrNoBranch)
	}

	return user + "/" + repo + "/" + branch, nil
}

// RemoteURL picks the fetch URL of remote from "git remote -v" output.
func RemoteURL(output, remote string) (string, error) {
	var fallback string

	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || fields[0] != remote {
			continue
		}
		if len(fields) >= 3 && fields[2] == "(fetch)" {
			return fields[1], nil
		}
		if fallback == "" {
			fallback = fields[1]
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNoRemote, remote)
}

// ParseGitHubURL extracts user and repository from a GitHub remote URL.
func ParseGitHubURL(url string) (user, repo string, err error) {
	sub := githubURLPattern.FindStringSubmatch(strings.TrimSpace(url))
	if sub == nil {
		return "", "", fmt.Errorf("%w: %s", ErrNotGitHub, url)
	}
	return sub[1], sub[2], nil
}

// ValidRoot reports whether root has the "<user>/<repo>/<branch>" shape.
func ValidRoot(root string) bool {
	return rootPattern.MatchString(root)
}

// RawURL joins a root and a slash-separated repository path into a raw
// GitHub URL.
func RawURL(root, path string) string {
	return RawBaseURL + strings.Trim(root, "/") + "/" + strings.TrimLeft(path, "/")
}
