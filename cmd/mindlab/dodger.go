package main

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/mindlab"
	bt "github.com/fwojciec/mindlab/bubbletea"
	"github.com/fwojciec/mindlab/dodger"
	"github.com/fwojciec/mindlab/frame"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newDodgerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "dodger",
		Short:       "Obstacle dodger steered by arrow keys or a distance sensor",
		Args:        cobra.NoArgs,
		Annotations: tuiAnnotations(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDodger(cmd.Context())
		},
	}
}

func (a *app) runDodger(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	logger := a.logger.Named("dodger")
	msgs := make(chan tea.Msg, 64)
	g, gctx := errgroup.WithContext(ctx)

	router := frame.NewRouter()
	router.Handle(frame.ChannelDistance, func(m mindlab.Message) {
		cm, err := frame.ParseDistance(m.Value)
		if err != nil {
			logger.Debug("malformed distance reading", zap.String("value", m.Value), zap.Error(err))
			return
		}
		// Readings are frequent; a full queue drops the stale one.
		select {
		case msgs <- bt.DistanceMsg{CM: cm}:
		default:
		}
	})
	send := sender(gctx, msgs)
	router.Handle(frame.ChannelKeypad, func(m mindlab.Message) {
		send(bt.KeypadMsg{Key: strings.ToUpper(keypadToken(m))})
	})

	status, _ := a.connect(gctx, g, router, send)

	game := dodger.New(a.cfg.ResolvedDodger(), nil)
	if !status.Connected && game.Mode == dodger.ModeDistance {
		game.SetMode(dodger.ModeKeyboard)
	}
	model := bt.NewDodger(gctx, game, store, a.cfg.ResolvedTheme(), bt.WithDodgerDevice(status))

	g.Go(func() error {
		defer cancel()
		return bt.Run(gctx, model, msgs)
	})
	return g.Wait()
}
