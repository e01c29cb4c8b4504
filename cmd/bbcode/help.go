package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bbcode <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert BBCode files to HTML or PDF")
	fmt.Fprintln(w, "  watch      Rewrite the HTML document on every change")
	fmt.Fprintln(w, "  serve      Preview a BBCode file over HTTP")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check PDF export prerequisites")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'bbcode help <command>' for details on a specific command.")
}

// printRenderUsage prints the flags shared by convert, watch and serve.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --style <s>           Style name, CSS file path, or CSS text")
	fmt.Fprintln(w, "      --theme <name>        Theme preset: vscode (default), system")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file appended after the style")
	fmt.Fprintln(w, "      --title <s>           Document title (default: file name)")
	fmt.Fprintln(w, "      --lang <tag>          Document language (default: en)")
	fmt.Fprintln(w, "      --highlight           Syntax highlight [code=lang] blocks")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style (default: github)")
	fmt.Fprintln(w, "      --sanitize            Filter fragments through the sanitizer")
	fmt.Fprintln(w, "      --strict              Fail when the output audit finds a violation")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF rendering timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and debug logs")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bbcode convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert .bbcode and .bb files to standalone HTML documents.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    BBCode file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --fragment            Write bare HTML fragments")
	fmt.Fprintln(w, "      --pdf                 Write PDF documents (requires Chrome)")
	fmt.Fprintln(w)
	printRenderUsage(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bbcode watch <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a BBCode file, then convert it again on every save until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: next to the source)")
	fmt.Fprintln(w, "      --fragment            Write a bare HTML fragment")
	fmt.Fprintln(w)
	printRenderUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bbcode serve <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve a live preview of a BBCode file. Pages never run scripts;")
	fmt.Fprintln(w, "--refresh makes the browser reload on its own.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Endpoints:")
	fmt.Fprintln(w, "  GET /          Document")
	fmt.Fprintln(w, "  GET /fragment  Bare fragment")
	fmt.Fprintln(w, "  GET /healthz   Liveness probe")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default: 127.0.0.1:8080)")
	fmt.Fprintln(w, "      --refresh <n>         Refresh interval in seconds (0 = off)")
	fmt.Fprintln(w)
	printRenderUsage(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bbcode config [-c name]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after merging the config file and BBCODE_* variables.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bbcode doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, sandbox settings and embedded assets.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: bbcode version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: bbcode help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
