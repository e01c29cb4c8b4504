package main

import (
	"io"
	"net"
	"os"
	"time"

	bbcode "github.com/alnah/go-bbcode"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, converter pools, and network listeners.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	NewPool func(n int, opts ...bbcode.Option) (Pool, error)
	Listen  func(network, address string) (net.Listener, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		NewPool: newConverterPool,
		Listen:  net.Listen,
	}
}
