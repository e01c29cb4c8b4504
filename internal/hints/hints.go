// Package hints turns common failures into one-line suggestions. Every hint
// renders as "\n  hint: <text>" so callers can append it to an error line.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-bbcode/internal/fileutil"
)

const prefix = "\n  hint: "

// Env is the slice of the process environment the hints look at.
type Env struct {
	Getenv func(string) string
	// Exists reports whether a marker file is present.
	Exists func(path string) bool
}

// CurrentEnv reads the running process.
func CurrentEnv() Env {
	return Env{Getenv: os.Getenv, Exists: fileutil.FileExists}
}

var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE", "CIRCLECI"}

// Container reports whether the process seems to run in a container and
// names the signal that gave it away.
func (e Env) Container() (bool, string) {
	if e.Getenv("BBCODE_CONTAINER") == "1" {
		return true, "BBCODE_CONTAINER=1"
	}
	if e.Exists != nil && e.Exists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := e.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if e.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// CI reports whether a known CI runner variable is set.
func (e Env) CI() bool {
	for _, v := range ciVars {
		if e.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// Browser suggests the rod variables that usually fix a failed Chrome start.
func Browser(env Env) string {
	var parts []string
	container, _ := env.Container()
	if (container || env.CI()) && env.Getenv("ROD_NO_SANDBOX") != "1" {
		parts = append(parts, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if env.Getenv("ROD_BROWSER_BIN") == "" {
		parts = append(parts, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	return join(parts...)
}

// Timeout covers page loads and PDF rendering that ran out of time.
func Timeout() string {
	return join("long threads or many images need a larger --timeout")
}

// ConfigNotFound points at --config and, when one of the searched paths is
// a user config, suggests creating it.
func ConfigNotFound(searched []string) string {
	text := "use --config /path/to/file.yaml"
	for _, p := range searched {
		if strings.Contains(p, "go-bbcode") {
			text += " or create " + p
			break
		}
	}
	return join(text)
}

// OutputDirectory covers output directories that cannot be created.
func OutputDirectory() string {
	return join("check parent directory exists and is writable")
}

// Choices lists the accepted names, or falls back to where such assets
// live when the list is empty. An empty fallback yields no hint.
func Choices(available []string, fallback string) string {
	if len(available) == 0 {
		return join(fallback)
	}
	return join("available: " + strings.Join(available, ", "))
}

// UnsafeOutput covers fragments rejected by the strict audit.
func UnsafeOutput() string {
	return join("rerun with --sanitize to strip the offending markup, or drop --strict")
}

// AddressInUse covers preview servers that cannot bind.
func AddressInUse(addr string) string {
	return join("address " + addr + " is busy; pick another with --addr")
}

// join renders parts as one hint line, dropping empty parts.
func join(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return prefix + strings.Join(kept, "; ")
}
