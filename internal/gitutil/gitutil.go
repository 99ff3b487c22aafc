// Package gitutil shells out to git for repository discovery.
package gitutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

func run(dir string, args ...string) (string, bool) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(out)), true
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	if err == nil {
		return true
	}
	out, ok := run(dir, "rev-parse", "--is-inside-work-tree")
	return ok && out == "true"
}

// CurrentBranch returns the checked-out branch name.
func CurrentBranch(dir string) (string, bool) {
	return run(dir, "rev-parse", "--abbrev-ref", "HEAD")
}

// Root returns the top-level directory of the repository containing dir.
func Root(dir string) (string, bool) {
	return run(dir, "rev-parse", "--show-toplevel")
}

// RepoFromRemote reads the origin remote of the repository at dir and
// returns its GitHub "owner/name" slug.
func RepoFromRemote(dir string) (string, bool) {
	url, ok := run(dir, "config", "--get", "remote.origin.url")
	if !ok {
		return "", false
	}
	return ParseGitHubRemote(url)
}

// ParseGitHubRemote extracts "owner/name" from a GitHub remote URL in
// either HTTPS (https://github.com/owner/name.git) or SSH
// (git@github.com:owner/name.git) form.
func ParseGitHubRemote(url string) (string, bool) {
	if !strings.Contains(url, "github.com") {
		return "", false
	}

	var path string
	if strings.HasPrefix(url, "git@") {
		parts := strings.SplitN(url, ":", 2)
		if len(parts) != 2 {
			return "", false
		}
		path = parts[1]
	} else {
		parts := strings.Split(url, "/")
		if len(parts) < 2 {
			return "", false
		}
		path = parts[len(parts)-2] + "/" + parts[len(parts)-1]
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	if path == "" || !strings.Contains(path, "/") {
		return "", false
	}
	return path, true
}
