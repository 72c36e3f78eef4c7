package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/mindlab"
	bt "github.com/fwojciec/mindlab/bubbletea"
	"github.com/fwojciec/mindlab/engine"
	"github.com/fwojciec/mindlab/frame"
	"github.com/fwojciec/mindlab/reflex"
	"github.com/fwojciec/mindlab/serial"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// resolvePort returns the configured port, or the first discovered one.
func (a *app) resolvePort() (string, error) {
	if a.cfg.Serial.Port != "" {
		return a.cfg.Serial.Port, nil
	}
	ports, err := serial.Discover(a.ports, a.cfg.ResolvedGlobs())
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", fmt.Errorf("no serial device found: %w", mindlab.ErrTransportUnavailable)
	}
	return ports[0], nil
}

// connect opens the input device and listens to it in g until ctx is done.
// An unavailable device is not an error: the returned status says so and the
// session runs keyboard-only. The writer is nil unless connected. A later
// disconnect is reported through send.
func (a *app) connect(ctx context.Context, g *errgroup.Group, router *frame.Router, send func(tea.Msg)) (bt.DeviceMsg, io.Writer) {
	port, err := a.resolvePort()
	if err != nil {
		a.logger.Info("no input device", zap.Error(err))
		return bt.DeviceMsg{Err: err}, nil
	}
	rwc, err := a.transport(port, a.cfg.ResolvedBaud()).Open(ctx)
	if err != nil {
		a.logger.Warn("input device unavailable", zap.String("port", port), zap.Error(err))
		return bt.DeviceMsg{Port: port, Err: err}, nil
	}
	a.logger.Info("input device connected", zap.String("port", port), zap.Int("baud", a.cfg.ResolvedBaud()))

	logger := a.logger.Named("serial")
	g.Go(func() error {
		err := serial.Listen(ctx, rwc, router, logger)
		if ctx.Err() == nil {
			send(bt.DeviceMsg{Port: port, Err: err})
		}
		return nil
	})
	return bt.DeviceMsg{Port: port, Connected: true}, rwc
}

// sender delivers messages to the running program, giving up once ctx is
// done.
func sender(ctx context.Context, ch chan<- tea.Msg) func(tea.Msg) {
	return func(msg tea.Msg) {
		select {
		case ch <- msg:
		case <-ctx.Done():
		}
	}
}

// calibrate measures device latency for task unless it is configured.
func (a *app) calibrate(ctx context.Context, task *reflex.Task, w io.Writer, router *frame.Router) {
	if a.cfg.Reflex.LatencyMS > 0 {
		return
	}
	clock := engine.SystemClock{}
	var ping reflex.Pinger
	if w != nil {
		id := time.Now().UnixMilli()
		ping = func(ctx context.Context) (time.Duration, bool, error) {
			return frame.Ping(ctx, w, router, clock, id, frame.DefaultPingTimeout)
		}
	}
	latency := reflex.Calibrate(ctx, clock, ping)
	task.SetLatency(latency)
	a.logger.Info("latency calibrated", zap.Duration("latency", latency), zap.Bool("device", w != nil))
}

// keypadToken normalizes a keypad line value to an input token.
func keypadToken(m mindlab.Message) string {
	return strings.TrimSpace(m.Value)
}
