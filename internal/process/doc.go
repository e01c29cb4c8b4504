// Package process reaps headless browser process trees left behind by PDF
// export.
package process
