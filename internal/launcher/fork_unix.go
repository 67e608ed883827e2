// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/model"
	"golang.org/x/sys/unix"
)

// Fork sandboxes every case in a re-executed copy of the current binary.
//
// Children are never waited for individually: Wait reaps whichever child of
// this process changes state first, the way a wait(2) loop does. The
// blocking wait4 call runs in a helper goroutine so a cancelled context can
// abandon it; the next Wait picks the pending result up again.
type Fork struct {
	exe  string
	argv []string
	env  []string

	procs   map[model.Handle]*os.Process
	pending chan waitResult
}

type waitResult struct {
	exit Exit
	err  error
}

// NewFork returns a launcher re-executing this binary with args.
func NewFork(args []string) (*Fork, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("cannot locate own executable: %w", err)
	}
	return &Fork{
		exe:   exe,
		argv:  append([]string{os.Args[0]}, args...),
		env:   os.Environ(),
		procs: make(map[model.Handle]*os.Process),
	}, nil
}

// Start implements Launcher.
func (f *Fork) Start(ctx context.Context, c *model.Case) (model.Handle, error) {
	env := append(slices.Clip(f.env), ChildEnv+"="+Address(c))
	p, err := os.StartProcess(f.exe, f.argv, &os.ProcAttr{
		Env:   env,
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	})
	if err != nil {
		return model.NoHandle, fmt.Errorf("failed to start child for %s: %w", c.Path(), err)
	}
	h := model.Handle(p.Pid)
	f.procs[h] = p
	ctxlog.FromContext(ctx).Debug("Child started.", append(c.LogAttrs(), "pid", p.Pid)...)
	return h, nil
}

// Wait implements Launcher.
func (f *Fork) Wait(ctx context.Context) (Exit, error) {
	if f.pending == nil {
		ch := make(chan waitResult, 1)
		f.pending = ch
		go func() { ch <- waitAny() }()
	}

	select {
	case r := <-f.pending:
		f.pending = nil
		if r.err == nil && !r.exit.Stopped {
			if p, ok := f.procs[r.exit.Handle]; ok {
				delete(f.procs, r.exit.Handle)
				_ = p.Release()
			}
		}
		return r.exit, r.err
	case <-ctx.Done():
		return Exit{}, ctx.Err()
	}
}

// Kill implements Launcher.
func (f *Fork) Kill(h model.Handle) error {
	p, ok := f.procs[h]
	if !ok {
		return fmt.Errorf("no live child with pid %d", h)
	}
	if err := p.Signal(os.Kill); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill pid %d: %w", h, err)
	}
	return nil
}

// waitAny reaps one state change of any child, retrying on EINTR.
func waitAny() waitResult {
	var ws unix.WaitStatus
	var ru unix.Rusage
	for {
		pid, err := unix.Wait4(-1, &ws, unix.WUNTRACED, &ru)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ECHILD):
			return waitResult{err: ErrNoChildren}
		case err != nil:
			return waitResult{err: fmt.Errorf("wait4: %w", err)}
		}
		return waitResult{exit: exitFromStatus(pid, ws, &ru)}
	}
}

func exitFromStatus(pid int, ws unix.WaitStatus, ru *unix.Rusage) Exit {
	ex := Exit{Handle: model.Handle(pid)}
	switch {
	case ws.Stopped():
		ex.Stopped = true
		return ex
	case ws.Exited():
		ex.Exited = true
		ex.Code = ws.ExitStatus()
	case ws.Signaled():
		ex.Signaled = true
		ex.Signal = ws.Signal().String()
	}
	ex.Usage = &model.Usage{
		User:              time.Duration(ru.Utime.Nano()),
		System:            time.Duration(ru.Stime.Nano()),
		MaxRSS:            int64(ru.Maxrss),
		MinorFaults:       int64(ru.Minflt),
		MajorFaults:       int64(ru.Majflt),
		VoluntarySwitch:   int64(ru.Nvcsw),
		InvoluntarySwitch: int64(ru.Nivcsw),
	}
	return ex
}
