package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/mindlab"
	bt "github.com/fwojciec/mindlab/bubbletea"
	"github.com/fwojciec/mindlab/engine"
	"github.com/fwojciec/mindlab/focus"
	"github.com/fwojciec/mindlab/frame"
	"github.com/fwojciec/mindlab/puzzle"
	"github.com/fwojciec/mindlab/reflex"
	"github.com/fwojciec/mindlab/span"
	"github.com/fwojciec/mindlab/symbol"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the wait for an aborted run to wind down.
const shutdownTimeout = time.Second

func newTaskCmd(a *app, use, short string, build func(a *app) mindlab.Task) *cobra.Command {
	return &cobra.Command{
		Use:         use,
		Short:       short,
		Args:        cobra.NoArgs,
		Annotations: tuiAnnotations(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTask(cmd.Context(), build(a))
		},
	}
}

func newFocusCmd(a *app) *cobra.Command {
	return newTaskCmd(a, "focus", "Go/no-go test: press for every digit except the no-go digit", func(a *app) mindlab.Task {
		return focus.New(a.cfg.ResolvedFocus(), nil)
	})
}

func newReflexCmd(a *app) *cobra.Command {
	return newTaskCmd(a, "reflex", "Reaction time test with device latency calibration", func(a *app) mindlab.Task {
		return reflex.New(a.cfg.ResolvedReflex(), nil)
	})
}

func newSpanCmd(a *app) *cobra.Command {
	return newTaskCmd(a, "span", "Adaptive digit span memory test", func(a *app) mindlab.Task {
		return span.New(a.cfg.ResolvedSpan(), nil)
	})
}

func newSymbolCmd(a *app) *cobra.Command {
	return newTaskCmd(a, "symbol", "Timed symbol to digit matching", func(a *app) mindlab.Task {
		return symbol.New(a.cfg.ResolvedSymbol(), nil)
	})
}

func newPuzzleCmd(a *app) *cobra.Command {
	return newTaskCmd(a, "puzzle", "Number sequence puzzles against the clock", func(a *app) mindlab.Task {
		return puzzle.New(a.cfg.ResolvedPuzzle(), nil)
	})
}

// inputRouter submits device input to runner. Keypad lines and bare lines
// without a label are both input tokens.
func inputRouter(runner mindlab.Runner, logger *zap.Logger) *frame.Router {
	submit := func(m mindlab.Message) {
		if !runner.Submit(keypadToken(m)) {
			logger.Debug("device input outside a run", zap.String("channel", m.Channel), zap.String("value", m.Value))
		}
	}
	router := frame.NewRouter()
	router.Handle(frame.ChannelKeypad, submit)
	router.HandleRaw(submit)
	return router
}

// runTask wires the engine, the device listener and the TUI for one task.
// Device input is submitted straight to the engine, so device and keyboard
// input share one path.
func (a *app) runTask(ctx context.Context, task mindlab.Task) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := a.logger.With(zap.String("task", task.Name()))
	events := bt.NewEvents(bt.DefaultEventBuffer)
	eng := engine.New(
		engine.WithLogger(logger.Named("engine")),
		engine.WithEventHandler(events.Handle),
	)

	router := inputRouter(eng, logger)
	msgs := make(chan tea.Msg, 16)
	g, gctx := errgroup.WithContext(ctx)
	status, w := a.connect(gctx, g, router, sender(gctx, msgs))

	if r, ok := task.(*reflex.Task); ok {
		a.calibrate(gctx, r, w, router)
	}

	model := bt.New(gctx, task, eng, events.C(), a.cfg.ResolvedTheme(), bt.WithDevice(status))
	g.Go(func() error {
		defer cancel()
		err := bt.Run(gctx, model, msgs)
		events.Close()
		eng.Abort()
		waitCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if werr := eng.Wait(waitCtx); werr != nil {
			logger.Warn("run did not stop in time", zap.Error(werr))
		}
		return err
	})
	return g.Wait()
}
