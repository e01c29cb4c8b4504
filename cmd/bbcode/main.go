package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	bbcode "github.com/alnah/go-bbcode"
	"github.com/alnah/go-bbcode/internal/config"
	"github.com/alnah/go-bbcode/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrListen         = errors.New("failed to listen")
)

// commandsWithVerbose take the -v/--verbose flag.
var commandsWithVerbose = map[string]bool{"convert": true, "watch": true, "serve": true, "config": true}

func main() {
	// Configure GOMAXPROCS so ResolvePoolSize sees the container CPU quota.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if wantsVerbose(os.Args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// wantsVerbose reports whether a command that takes -v was given it.
func wantsVerbose(args []string) bool {
	if len(args) < 2 || !commandsWithVerbose[args[1]] {
		return false
	}
	for _, a := range args[2:] {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// runMain dispatches the command and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	err := run(ctx, args, env)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// run executes the command named by args[1].
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "convert":
		return runConvert(ctx, rest, env)
	case "watch":
		return runWatch(ctx, rest, env)
	case "serve":
		return runServe(ctx, rest, env)
	case "config":
		return runConfig(rest, env)
	case "doctor":
		return runDoctor(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "go-bbcode %s\n", Version)
		return nil
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

// usageError marks flag parse failures. pflag.ErrHelp passes through so
// -h exits successfully.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, bbcode.ErrBrowserConnect),
		errors.Is(err, bbcode.ErrPageCreate):
		return hints.Browser(hints.CurrentEnv())
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, bbcode.ErrPageLoad),
		errors.Is(err, bbcode.ErrPDFGeneration):
		return hints.Timeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ConfigNotFound(userConfigCandidates())
	case errors.Is(err, ErrCreateDir):
		return hints.OutputDirectory()
	case errors.Is(err, bbcode.ErrStyleNotFound):
		return hints.Choices(bbcode.BuiltinStyles(), "")
	case errors.Is(err, bbcode.ErrThemeNotFound):
		return hints.Choices(bbcode.BuiltinThemes(), "theme presets are YAML files under <assets>/themes/")
	case errors.Is(err, bbcode.ErrUnsafeOutput):
		return hints.UnsafeOutput()
	case errors.Is(err, ErrListen):
		return hints.AddressInUse(listenAddrFrom(err))
	}
	return ""
}

// userConfigCandidates lists where a named config could be created.
func userConfigCandidates() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, config.AppDirName, "<name>.yaml")}
}

// listenAddrFrom recovers the address from an ErrListen error.
func listenAddrFrom(err error) string {
	var le *listenError
	if errors.As(err, &le) {
		return le.addr
	}
	return defaultAddr
}
