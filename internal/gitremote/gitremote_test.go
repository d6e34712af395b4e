package gitremote

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const sampleRemotes = "origin\tgit@github.com:LinxiFan/gitex.git (fetch)\n" +
	"origin\tgit@github.com:LinxiFan/gitex.git (push)\n" +
	"upstream\thttps://github.com/other/fork (fetch)\n" +
	"upstream\thttps://github.com/other/fork (push)\n" +
	"lab\thttps://gitlab.com/a/b.git (fetch)\n"

// ---------------------------------------------------------------------------
// TestParseGitHubURL - Remote URL forms
// ---------------------------------------------------------------------------

func TestParseGitHubURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url      string
		wantUser string
		wantRepo string
		wantErr  error
	}{
		{url: "git@github.com:user/repo.git", wantUser: "user", wantRepo: "repo"},
		{url: "git@github.com:user/repo", wantUser: "user", wantRepo: "repo"},
		{url: "https://github.com/user/repo.git", wantUser: "user", wantRepo: "repo"},
		{url: "https://github.com/user/repo/", wantUser: "user", wantRepo: "repo"},
		{url: "https://token@github.com/user/my.repo.git", wantUser: "user", wantRepo: "my.repo"},
		{url: "ssh://git@github.com/user/repo.git", wantUser: "user", wantRepo: "repo"},
		{url: "https://gitlab.com/user/repo.git", wantErr: ErrNotGitHub},
		{url: "/srv/git/repo.git", wantErr: ErrNotGitHub},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			user, repo, err := ParseGitHubURL(tt.url)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseGitHubURL(%q) error = %v, want %v", tt.url, err, tt.wantErr)
			}
			if user != tt.wantUser || repo != tt.wantRepo {
				t.Errorf("ParseGitHubURL(%q) = (%q, %q), want (%q, %q)", tt.url, user, repo, tt.wantUser, tt.wantRepo)
			}
		})
	}
}

func TestRemoteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remote  string
		want    string
		wantErr error
	}{
		{remote: "origin", want: "git@github.com:LinxiFan/gitex.git"},
		{remote: "upstream", want: "https://github.com/other/fork"},
		{remote: "missing", wantErr: ErrNoRemote},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.remote, func(t *testing.T) {
			t.Parallel()

			got, err := RemoteURL(sampleRemotes, tt.remote)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RemoteURL(%q) error = %v, want %v", tt.remote, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("RemoteURL(%q) = %q, want %q", tt.remote, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRoot - Root discovery through git
// ---------------------------------------------------------------------------

func fakeGit(remotes, head string, err error) GitFunc {
	return func(ctx context.Context, dir string, args ...string) (string, error) {
		if err != nil {
			return "", err
		}
		switch strings.Join(args, " ") {
		case "remote -v":
			return remotes, nil
		case "rev-parse --abbrev-ref HEAD":
			return head, nil
		}
		return "", errors.New("unexpected git call")
	}
}

func TestRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		git     GitFunc
		remote  string
		want    string
		wantErr error
	}{
		{
			name: "default remote",
			git:  fakeGit(sampleRemotes, "master\n", nil),
			want: "LinxiFan/gitex/master",
		},
		{
			name:   "named remote",
			git:    fakeGit(sampleRemotes, "feature/x\n", nil),
			remote: "upstream",
			want:   "other/fork/feature/x",
		},
		{
			name:    "non github remote",
			git:     fakeGit(sampleRemotes, "main\n", nil),
			remote:  "lab",
			wantErr: ErrNotGitHub,
		},
		{
			name:    "detached head",
			git:     fakeGit(sampleRemotes, "HEAD\n", nil),
			wantErr: ErrNoBranch,
		},
		{
			name:    "git fails",
			git:     fakeGit("", "", ErrGitFailure),
			wantErr: ErrGitFailure,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Root(context.Background(), tt.git, ".", tt.remote)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Root() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Root() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidRootAndRawURL(t *testing.T) {
	t.Parallel()

	for _, root := range []string{"u/r/main", "u/r/feature/x"} {
		if !ValidRoot(root) {
			t.Errorf("ValidRoot(%q) = false", root)
		}
	}
	for _, root := range []string{"", "u/r", "u r/x/y"} {
		if ValidRoot(root) {
			t.Errorf("ValidRoot(%q) = true", root)
		}
	}

	got := RawURL("u/r/main/", "/img/tex_a.png")
	want := "https://raw.githubusercontent.com/u/r/main/img/tex_a.png"
	if got != want {
		t.Errorf("RawURL() = %q, want %q", got, want)
	}
}
