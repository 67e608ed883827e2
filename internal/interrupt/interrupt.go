// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package interrupt is the cancellation controller: a single "interrupted"
// flag raised asynchronously by SIGINT, SIGTERM or SIGQUIT.
//
// The signal relay does nothing but raise the flag. Everything else, such as
// refusing to start a new rank or killing outstanding children, is done by
// the scheduler when it next looks at the flag.
package interrupt

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Signals are the signals relayed into a Flag by Watch.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

// Flag is a one-way cancellation flag. The zero value is not usable; create
// one with New.
type Flag struct {
	raised atomic.Bool
	once   sync.Once
	done   chan struct{}
}

// New returns a lowered flag.
func New() *Flag {
	return &Flag{done: make(chan struct{})}
}

// Raise sets the flag. It is safe to call from any goroutine, any number of
// times.
func (f *Flag) Raise() {
	f.once.Do(func() {
		f.raised.Store(true)
		close(f.done)
	})
}

// Raised reports whether the flag has been set.
func (f *Flag) Raised() bool {
	return f.raised.Load()
}

// Done is closed once the flag is raised.
func (f *Flag) Done() <-chan struct{} {
	return f.done
}

// Bind returns a context that is cancelled when the flag is raised or the
// parent is done.
func (f *Flag) Bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-f.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Watch relays Signals into f until stop is called.
func Watch(f *Flag) (stop func()) {
	sigs := make(chan os.Signal, 1)
	quit := make(chan struct{})
	signal.Notify(sigs, Signals...)
	go func() {
		select {
		case <-sigs:
			f.Raise()
		case <-quit:
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(quit)
	}
}
