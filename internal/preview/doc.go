// Package preview hosts rendered BBCode documents outside the library.
//
// A Session owns the change subscription for one source file: it renders
// once on Open, re-renders after every debounced change and releases the
// watcher on Close. The HTTP handler serves the latest document of any
// DocumentSource with headers that keep the page script-free.
package preview
