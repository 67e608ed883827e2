package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/graph"
	"github.com/specialistvlad/casegrid/internal/interrupt"
	"github.com/specialistvlad/casegrid/internal/launcher"
	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordingLauncher wraps a launcher, remembering starts and kills.
type recordingLauncher struct {
	launcher.Launcher
	started []string
	killed  []model.Handle
	onStart func(c *model.Case)
}

func (r *recordingLauncher) Start(ctx context.Context, c *model.Case) (model.Handle, error) {
	r.started = append(r.started, c.Path())
	if r.onStart != nil {
		r.onStart(c)
	}
	return r.Launcher.Start(ctx, c)
}

func (r *recordingLauncher) Kill(h model.Handle) error {
	r.killed = append(r.killed, h)
	return r.Launcher.Kill(h)
}

// failingLauncher cannot start anything.
type failingLauncher struct{ launcher.InProcess }

func (failingLauncher) Start(context.Context, *model.Case) (model.Handle, error) {
	return model.NoHandle, errors.New("fork: resource temporarily unavailable")
}

// brokenWaitLauncher starts fine but its reaper fails.
type brokenWaitLauncher struct{ *launcher.InProcess }

func (brokenWaitLauncher) Wait(context.Context) (launcher.Exit, error) {
	return launcher.Exit{}, errors.New("wait4: invalid argument")
}

// scriptedLauncher hands out handles 1, 2, ... and replays a fixed list of
// exits; once they run out, Wait reports that no children are left.
type scriptedLauncher struct {
	next  model.Handle
	exits []launcher.Exit
}

func (l *scriptedLauncher) Start(context.Context, *model.Case) (model.Handle, error) {
	l.next++
	return l.next, nil
}

func (l *scriptedLauncher) Wait(context.Context) (launcher.Exit, error) {
	if len(l.exits) == 0 {
		return launcher.Exit{}, launcher.ErrNoChildren
	}
	ex := l.exits[0]
	l.exits = l.exits[1:]
	return ex, nil
}

func (l *scriptedLauncher) Kill(model.Handle) error { return nil }

func sequenced(t *testing.T, run *model.Run) *model.Run {
	t.Helper()
	require.NoError(t, graph.SequenceRun(context.Background(), run))
	return run
}

func TestRun_SimpleRankOrder(t *testing.T) {
	// --- Arrange ---
	var order []string
	record := func(_ context.Context, c *model.Case) model.Status {
		order = append(order, c.Path())
		return model.Success
	}
	run := model.NewRun("r")
	g1 := run.AddGroup("G1")
	g1.AddCase("B", record, "A")
	g1.AddCase("A", record)
	sequenced(t, run)
	s := New(launcher.NewInProcess(), interrupt.New())

	// --- Act ---
	err := s.Run(context.Background(), run)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, uint(0), g1.Case("A").Node.Rank)
	assert.Equal(t, uint(1), g1.Case("B").Node.Rank)
	assert.Equal(t, []string{"G1/A", "G1/B"}, order)
	assert.Equal(t, model.Success, g1.Node.Status)
	assert.Equal(t, 2, s.Stats().Dispatched)
	assert.True(t, run.Succeeded())
}

func TestRun_FailedGroupSkipsDependents(t *testing.T) {
	// --- Arrange ---
	run := model.NewRun("r")
	g1 := run.AddGroup("G1")
	g1.AddCase("ok", pass)
	g1.AddCase("bad", fail)
	g2 := run.AddGroup("G2", "G1")
	g2.AddCase("X", pass)
	g2.AddCase("Y", pass, "X")
	g3 := run.AddGroup("G3", "G2")
	g3.AddCase("Z", pass)
	sequenced(t, run)

	// --- Act ---
	err := New(launcher.NewInProcess(), interrupt.New()).Run(context.Background(), run)

	// --- Assert ---
	require.NoError(t, err, "item failures are not run errors")
	assert.Equal(t, model.Failure, g1.Node.Status)
	assert.Equal(t, model.Failure, g2.Node.Status)
	assert.Equal(t, model.Skipped, g2.Case("X").Node.Status)
	assert.Equal(t, model.Skipped, g2.Case("Y").Node.Status)
	assert.Equal(t, model.Failure, g3.Node.Status)
	assert.Equal(t, model.Skipped, g3.Case("Z").Node.Status)

	assert.Equal(t, model.Synoptic{Total: 3, Failure: 3}, run.GroupTotals)
	assert.Equal(t, model.Synoptic{Total: 5, Success: 1, Failure: 1, Skipped: 3}, run.CaseTotals)
	assert.False(t, run.Succeeded())
}

func TestRun_FailedCaseSkipsDependentCase(t *testing.T) {
	run := model.NewRun("r")
	g := run.AddGroup("G")
	g.AddCase("A", fail)
	g.AddCase("B", pass, "A")
	g.AddCase("C", pass)
	sequenced(t, run)

	require.NoError(t, New(launcher.NewInProcess(), interrupt.New()).Run(context.Background(), run))

	assert.Equal(t, model.Failure, g.Case("A").Node.Status)
	assert.Equal(t, model.Skipped, g.Case("B").Node.Status)
	assert.Equal(t, model.Success, g.Case("C").Node.Status)
	assert.Equal(t, model.Failure, g.Node.Status)
}

func TestRun_SandboxedChunksInProcess(t *testing.T) {
	tests := []struct {
		name        string
		cases       int
		maxParallel int
		barriers    int
	}{
		{name: "five cases by two", cases: 5, maxParallel: 2, barriers: 3},
		{name: "five cases by one", cases: 5, maxParallel: 1, barriers: 5},
		{name: "chunk wider than rank", cases: 3, maxParallel: 8, barriers: 1},
		{name: "exact multiple", cases: 4, maxParallel: 2, barriers: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			run := model.NewRun("r")
			run.Sandboxed = true
			run.MaxParallel = tc.maxParallel
			g := run.AddGroup("G")
			for i := 0; i < tc.cases; i++ {
				g.AddCase(string(rune('a'+i)), pass)
			}
			sequenced(t, run)
			s := New(launcher.NewInProcess(), interrupt.New())

			// --- Act ---
			err := s.Run(context.Background(), run)

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, tc.barriers, s.Stats().Barriers)
			assert.Equal(t, tc.cases, s.Stats().Launched)
			assert.LessOrEqual(t, s.Stats().PeakLive, tc.maxParallel)
			assert.Equal(t, tc.cases, run.CaseTotals.Success)
			assert.Zero(t, g.Cases.Outstanding)
			for _, c := range run.Cases() {
				assert.Equal(t, model.NoHandle, c.Handle)
			}
		})
	}
}

func TestRun_SandboxedRankBarrier(t *testing.T) {
	// Rank 1 never shares a chunk with rank 0, even with spare width.
	run := model.NewRun("r")
	run.Sandboxed = true
	run.MaxParallel = 4
	g := run.AddGroup("G")
	g.AddCase("A", pass)
	g.AddCase("B", pass, "A")
	g.AddCase("C", pass)
	sequenced(t, run)
	rec := &recordingLauncher{Launcher: launcher.NewInProcess()}
	s := New(rec, interrupt.New())

	require.NoError(t, s.Run(context.Background(), run))

	assert.Equal(t, []string{"G/A", "G/C", "G/B"}, rec.started)
	assert.Equal(t, 2, s.Stats().Barriers)
	assert.Equal(t, 2, s.Stats().PeakLive)
}

func TestRun_SandboxedPlaceholderNeverLaunched(t *testing.T) {
	run := model.NewRun("r")
	run.Sandboxed = true
	g := run.AddGroup("G")
	g.AddCase("todo", nil)
	g.AddCase("after", pass, "todo")
	sequenced(t, run)
	rec := &recordingLauncher{Launcher: launcher.NewInProcess()}

	require.NoError(t, New(rec, interrupt.New()).Run(context.Background(), run))

	assert.Equal(t, []string{"G/after"}, rec.started)
	assert.Equal(t, model.Success, g.Case("todo").Node.Status)
	assert.Equal(t, model.Success, g.Case("after").Node.Status)
}

func TestRun_InProcessPanicIsAborted(t *testing.T) {
	run := model.NewRun("r")
	run.Sandboxed = true
	g := run.AddGroup("G")
	g.AddCase("boom", func(context.Context, *model.Case) model.Status { panic("boom") })
	sequenced(t, run)

	require.NoError(t, New(launcher.NewInProcess(), interrupt.New()).Run(context.Background(), run))

	assert.Equal(t, model.Aborted, g.Case("boom").Node.Status)
	assert.Equal(t, 1, run.CaseTotals.Aborted)
}

func TestRun_LaunchFailureLeavesCasePending(t *testing.T) {
	run := model.NewRun("r")
	run.Sandboxed = true
	g := run.AddGroup("G")
	g.AddCase("A", pass)
	sequenced(t, run)
	s := New(&failingLauncher{}, interrupt.New())

	require.NoError(t, s.Run(context.Background(), run))

	assert.Equal(t, model.Pending, g.Case("A").Node.Status)
	assert.Equal(t, model.Failure, g.Node.Status)
	assert.Equal(t, 1, s.Stats().LaunchFailures)
	assert.Equal(t, 1, run.CaseTotals.Pending)
	assert.False(t, run.Succeeded())
}

func TestRun_ReapSystemErrorStopsRun(t *testing.T) {
	run := model.NewRun("r")
	run.Sandboxed = true
	g := run.AddGroup("G")
	g.AddCase("A", pass)
	later := run.AddGroup("later")
	later.AddCase("B", pass)
	sequenced(t, run)

	err := New(brokenWaitLauncher{launcher.NewInProcess()}, interrupt.New()).Run(context.Background(), run)

	require.ErrorIs(t, err, ErrReap)
	assert.Equal(t, model.Pending, later.Case("B").Node.Status)
}

func TestRun_InterruptStopsAtNextRank(t *testing.T) {
	// --- Arrange ---
	flag := interrupt.New()
	run := model.NewRun("r")
	g := run.AddGroup("G")
	g.AddCase("A", func(context.Context, *model.Case) model.Status {
		flag.Raise()
		return model.Success
	})
	g.AddCase("B", pass, "A")
	next := run.AddGroup("next", "G")
	next.AddCase("C", pass)
	sequenced(t, run)

	// --- Act ---
	err := New(launcher.NewInProcess(), flag).Run(context.Background(), run)

	// --- Assert ---
	require.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, model.Success, g.Case("A").Node.Status)
	assert.Equal(t, model.Pending, g.Case("B").Node.Status)
	assert.Equal(t, model.Pending, next.Case("C").Node.Status)
}

func TestRun_InterruptBeforeStartRunsNothing(t *testing.T) {
	flag := interrupt.New()
	flag.Raise()
	run := model.NewRun("r")
	run.AddGroup("G").AddCase("A", pass)
	sequenced(t, run)
	rec := &recordingLauncher{Launcher: launcher.NewInProcess()}

	err := New(rec, flag).Run(context.Background(), run)

	require.ErrorIs(t, err, ErrInterrupted)
	assert.Empty(t, rec.started)
	assert.Equal(t, model.Pending, run.Group("G").Node.Status)
}

func TestRun_SandboxedInterruptBailsOut(t *testing.T) {
	// --- Arrange ---
	flag := interrupt.New()
	run := model.NewRun("r")
	run.Sandboxed = true
	run.MaxParallel = 2
	g := run.AddGroup("G")
	g.AddCase("A", pass)
	g.AddCase("B", pass)
	g.AddCase("C", pass, "A")
	sequenced(t, run)
	rec := &recordingLauncher{Launcher: launcher.NewInProcess()}
	rec.onStart = func(c *model.Case) {
		if c.Node.ID == "B" {
			flag.Raise()
		}
	}

	// --- Act ---
	err := New(rec, flag).Run(context.Background(), run)

	// --- Assert ---
	require.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, []string{"G/A", "G/B"}, rec.started)
	assert.Equal(t, model.Pending, g.Case("C").Node.Status)
	assert.Zero(t, g.Cases.Outstanding)
	for _, c := range run.Cases() {
		assert.Equal(t, model.NoHandle, c.Handle)
	}
}

func TestRun_Spans(t *testing.T) {
	// --- Arrange ---
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	run := model.NewRun("r")
	run.Sandboxed = true
	g := run.AddGroup("G")
	g.AddCase("A", pass)
	g.AddCase("B", fail)
	sequenced(t, run)

	// --- Act ---
	err := New(launcher.NewInProcess(), interrupt.New(), WithTracer(tp.Tracer("test"))).Run(context.Background(), run)

	// --- Assert ---
	require.NoError(t, err)
	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{"case G/A", "case G/B", "group G", "run"}, names)
}

func TestTally_Idempotent(t *testing.T) {
	run := model.NewRun("r")
	g := run.AddGroup("G")
	a := g.AddCase("A", nil)
	b := g.AddCase("B", nil)
	a.Node.Status = model.Success
	b.Node.Status = model.Aborted
	g.Node.Status = model.Failure

	Tally(run)
	first := run.CaseTotals
	Tally(run)

	assert.Equal(t, first, run.CaseTotals)
	assert.Equal(t, model.Synoptic{Total: 2, Success: 1, Aborted: 1}, run.CaseTotals)
	assert.Equal(t, model.Synoptic{Total: 1, Failure: 1}, run.GroupTotals)
	assert.Equal(t, run.CaseTotals, g.Synoptic)
}

func TestReap_EdgeExits(t *testing.T) {
	// --- Arrange ---
	run := model.NewRun("r")
	run.Sandboxed = true
	run.MaxParallel = 3
	g := run.AddGroup("G")
	g.AddCase("A", pass)
	g.AddCase("B", pass)
	g.AddCase("C", pass)
	sequenced(t, run)
	l := &scriptedLauncher{exits: []launcher.Exit{
		{Handle: 99, Exited: true},
		{Handle: 1, Stopped: true},
		{Handle: 1, Exited: true, Code: 0},
		{Handle: 2, Exited: true, Code: 7},
		{Handle: 3, Signaled: true, Signal: "segmentation fault"},
	}}
	s := New(l, interrupt.New())

	// --- Act ---
	err := s.Run(context.Background(), run)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, model.Success, g.Case("A").Node.Status)
	assert.Equal(t, model.Status(7), g.Case("B").Node.Status)
	assert.Equal(t, model.Aborted, g.Case("C").Node.Status)
	assert.Equal(t, 0, g.Cases.Outstanding)
	for _, c := range []string{"A", "B", "C"} {
		assert.Equal(t, model.NoHandle, g.Case(c).Handle, c)
	}
	assert.Equal(t, model.Failure, g.Node.Status)
	assert.Equal(t, model.Synoptic{Total: 3, Success: 1, Aborted: 2}, run.CaseTotals)
	assert.Empty(t, l.exits)
}

func TestReap_NoChildrenLeftIsIncomplete(t *testing.T) {
	// --- Arrange ---
	run := model.NewRun("r")
	g := run.AddGroup("G")
	a := g.AddCase("A", pass)
	b := g.AddCase("B", pass)
	a.Handle, b.Handle = 1, 2
	g.Cases.Outstanding = 2
	s := New(&scriptedLauncher{exits: []launcher.Exit{{Handle: 1, Exited: true}}}, interrupt.New())

	// --- Act ---
	err := s.reap(context.Background(), g.Cases)

	// --- Assert ---
	require.ErrorIs(t, err, ErrReapIncomplete)
	assert.Contains(t, err.Error(), "1 children outstanding")
	assert.Equal(t, 1, g.Cases.Outstanding)
	assert.Equal(t, model.Success, a.Node.Status)
	assert.Equal(t, model.Pending, b.Node.Status)
	assert.Equal(t, model.Handle(2), b.Handle)
}

func TestRun_CaseLogsNameGroupOnce(t *testing.T) {
	// --- Arrange ---
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(),
		slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	chatty := func(ctx context.Context, _ *model.Case) model.Status {
		ctxlog.FromContext(ctx).Info("Hello from case.")
		return model.Success
	}
	run := model.NewRun("r")
	run.AddGroup("G1").AddCase("A", chatty)
	sequenced(t, run)

	// --- Act ---
	err := New(launcher.NewInProcess(), interrupt.New()).Run(ctx, run)

	// --- Assert ---
	require.NoError(t, err)
	var caseLines int
	for _, line := range strings.Split(buf.String(), "\n") {
		if !strings.Contains(line, "case=A") {
			continue
		}
		caseLines++
		assert.Equal(t, 1, strings.Count(line, "group=G1"), line)
	}
	assert.GreaterOrEqual(t, caseLines, 2)
	assert.Contains(t, buf.String(), "Hello from case.")
}
