package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	bbcode "github.com/alnah/go-bbcode"
	"github.com/alnah/go-bbcode/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	Assets   assetInfo  `json:"assets"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// assetInfo reports whether the built-in style and theme load, and which
// built-in names exist.
type assetInfo struct {
	DefaultStyle bool     `json:"default_style"`
	DefaultTheme bool     `json:"default_theme"`
	Styles       []string `json:"styles,omitempty"`
	Themes       []string `json:"themes,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
	// Pipeline is true when the canary post converts to the expected
	// fragment under the strict audit.
	Pipeline bool `json:"pipeline"`
}

// canarySource exercises formatting and a link that must stay inert.
const canarySource = "[b]ok[/b] [url=javascript:alert(1)]x[/url]"

// doctorChecks run in order; each appends its findings to the result.
var doctorChecks = []func(*doctorResult){
	checkChrome,
	checkEnvironment,
	checkAssets,
	checkPipeline,
	checkSystem,
}

// runDoctor executes the doctor command. Only errors fail it: PDF export
// is optional, so a missing Chrome is reported as a warning.
func runDoctor(args []string, env *Environment) error {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}

	result := diagnose()

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return fmt.Errorf("doctor found %d error(s)", len(result.Errors))
	}
	return nil
}

// diagnose performs all diagnostic checks.
func diagnose() *doctorResult {
	result := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	for _, check := range doctorChecks {
		check(result)
	}

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// checkChrome detects the browser used for PDF export.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found: --pdf is unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s: --pdf is unavailable", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from rod lookup or ROD_BROWSER_BIN
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	env := hints.CurrentEnv()
	result.Env.Container, result.Env.ContainerHint = env.Container()
	result.Env.CI = env.CI()

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for --pdf")
	}
}

// checkAssets loads the embedded default style and theme.
func checkAssets(result *doctorResult) {
	result.Assets.Styles = bbcode.BuiltinStyles()
	result.Assets.Themes = bbcode.BuiltinThemes()

	loader, err := bbcode.NewAssetLoader("")
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Asset loader: %v", err))
		return
	}
	_, styleErr := loader.LoadStyle(bbcode.DefaultStyle)
	_, themeErr := loader.LoadTheme(bbcode.DefaultTheme)
	result.Assets.DefaultStyle = styleErr == nil
	result.Assets.DefaultTheme = themeErr == nil
	for _, e := range []struct {
		kind, name string
		err        error
	}{
		{"style", bbcode.DefaultStyle, styleErr},
		{"theme", bbcode.DefaultTheme, themeErr},
	} {
		if e.err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Embedded %s %q: %v", e.kind, e.name, e.err))
		}
	}
}

// checkPipeline converts canarySource with the strict audit on. The link
// must come out as literal text.
func checkPipeline(result *doctorResult) {
	conv, err := bbcode.NewConverter(bbcode.WithStrict())
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Converter: %v", err))
		return
	}
	defer func() { _ = conv.Close() }()

	res, err := conv.Convert(context.Background(), bbcode.Input{Source: canarySource})
	switch {
	case err != nil:
		result.Errors = append(result.Errors, fmt.Sprintf("Conversion self-test: %v", err))
	case !strings.Contains(res.Fragment, "<strong>ok</strong>"),
		strings.Contains(res.Fragment, "href=\"javascript:"):
		result.Errors = append(result.Errors, fmt.Sprintf("Conversion self-test: unexpected fragment %q", res.Fragment))
	default:
		result.System.Pipeline = true
	}
}

// checkSystem verifies the temp directory used for PDF rendering.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "bbcode-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "bbcode doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (PDF export)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assets")
	printCheck(w, r.Assets.DefaultStyle, "Default style: embedded")
	printCheck(w, r.Assets.DefaultTheme, "Default theme: embedded")
	if len(r.Assets.Styles) > 0 {
		fmt.Fprintf(w, "  [OK] Styles: %s\n", strings.Join(r.Assets.Styles, ", "))
	}
	if len(r.Assets.Themes) > 0 {
		fmt.Fprintf(w, "  [OK] Themes: %s\n", strings.Join(r.Assets.Themes, ", "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	printCheck(w, r.System.Pipeline, "Conversion self-test")
	printCheck(w, r.System.TempWritable, "Temp directory: writable")
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printCheck(w io.Writer, ok bool, label string) {
	if ok {
		fmt.Fprintf(w, "  [OK] %s\n", label)
		return
	}
	fmt.Fprintf(w, "  [ERROR] %s\n", label)
}
