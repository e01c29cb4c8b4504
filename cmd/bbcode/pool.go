package main

import (
	"context"
	"fmt"

	bbcode "github.com/alnah/go-bbcode"
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input bbcode.Input) (*bbcode.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*bbcode.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// poolAdapter exposes a *bbcode.ConverterPool through the Pool interface.
type poolAdapter struct {
	pool *bbcode.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// newConverterPool builds the production pool.
func newConverterPool(n int, opts ...bbcode.Option) (Pool, error) {
	p, err := bbcode.NewConverterPool(n, opts...)
	if err != nil {
		return nil, err
	}
	return &poolAdapter{pool: p}, nil
}

func (a *poolAdapter) Acquire() (CLIConverter, error) {
	c, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Release panics when c did not come from this pool (programmer error).
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*bbcode.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
