package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// refreshUnset detects if --refresh was explicitly set.
// Since 0 is a valid value (refresh off), we use an out-of-range sentinel.
const refreshUnset = -1

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags that shape every rendered document.
type renderFlags struct {
	style          string // Name, path or CSS text
	theme          string // Theme preset name
	css            string // Extra CSS file appended last
	title          string
	lang           string
	highlight      bool
	highlightStyle string
	sanitize       bool
	strict         bool
	assetPath      string
	timeout        string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	render   renderFlags
	output   string
	workers  int
	fragment bool // Write bare fragments instead of documents
	pdf      bool // Write PDF instead of documents
}

// watchFlags holds all flags for the watch command.
type watchFlags struct {
	common   commonFlags
	render   renderFlags
	output   string
	fragment bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common  commonFlags
	render  renderFlags
	addr    string
	refresh int
}

// configFlags holds flags for the config command.
type configFlags struct {
	common commonFlags
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
}

// addRenderFlags adds document rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.style, "style", "", "style name, CSS file path, or CSS text")
	fs.StringVar(&f.theme, "theme", "", "theme preset: vscode, system, or custom name")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the style")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = file name)")
	fs.StringVar(&f.lang, "lang", "", "document language (default: en)")
	fs.BoolVar(&f.highlight, "highlight", false, "syntax highlight language-tagged code")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for --highlight")
	fs.BoolVar(&f.sanitize, "sanitize", false, "filter fragments through the HTML sanitizer")
	fs.BoolVar(&f.strict, "strict", false, "fail when the output audit reports a violation")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory (styles/, themes/)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF rendering timeout (e.g., 30s, 2m)")
}

// newFlagSet creates a FlagSet that prints usage to w on parse errors.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert", w, printConvertUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.fragment, "fragment", false, "write bare HTML fragments")
	fs.BoolVar(&f.pdf, "pdf", false, "write PDF documents (requires Chrome)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string, w io.Writer) (*watchFlags, []string, error) {
	f := &watchFlags{}
	fs := newFlagSet("watch", w, printWatchUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file")
	fs.BoolVar(&f.fragment, "fragment", false, "write a bare HTML fragment")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)

	fs.StringVar(&f.addr, "addr", "", "listen address (default: 127.0.0.1:8080)")
	fs.IntVar(&f.refresh, "refresh", refreshUnset, "browser refresh interval in seconds (0 = off)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, w io.Writer) (*configFlags, error) {
	f := &configFlags{}
	fs := newFlagSet("config", w, printConfigUsage)
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", w, printDoctorUsage)
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
