package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/mindlab"
	bt "github.com/fwojciec/mindlab/bubbletea"
	"github.com/fwojciec/mindlab/engine"
	"github.com/fwojciec/mindlab/frame"
	mljson "github.com/fwojciec/mindlab/json"
	"github.com/fwojciec/mindlab/mock"
	"github.com/fwojciec/mindlab/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// writeConfig writes a config file pointing data_dir at a temp directory.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("data_dir = %q\n%s", filepath.Join(dir, "data"), extra)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func testApp(ports ...string) (*app, *bytes.Buffer) {
	var out bytes.Buffer
	a := newApp()
	a.out = &out
	a.ports = func() ([]string, error) { return ports, nil }
	return a, &out
}

func execute(t *testing.T, a *app, args ...string) error {
	t.Helper()
	root := newRootCmd(a)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestPortsCmd_ListsLikelyDevices(t *testing.T) {
	t.Parallel()
	a, out := testApp("/dev/ttyS0", "/dev/ttyUSB0", "/dev/ttyACM1")
	require.NoError(t, execute(t, a, "ports", "--config", writeConfig(t, "")))
	assert.Equal(t, "/dev/ttyACM1\n/dev/ttyUSB0\n", out.String())
}

func TestPortsCmd_All(t *testing.T) {
	t.Parallel()
	a, out := testApp("/dev/ttyS0", "/dev/ttyUSB0")
	require.NoError(t, execute(t, a, "ports", "--all", "--config", writeConfig(t, "")))
	assert.Equal(t, "/dev/ttyS0\n/dev/ttyUSB0\n", out.String())
}

func TestPortsCmd_CustomGlobs(t *testing.T) {
	t.Parallel()
	a, out := testApp("/dev/ttyS0", "/dev/ttyUSB0")
	cfg := writeConfig(t, "[serial]\nglobs = [\"/dev/ttyS*\"]\n")
	require.NoError(t, execute(t, a, "ports", "--config", cfg))
	assert.Equal(t, "/dev/ttyS0\n", out.String())
}

func TestPortsCmd_NoneFound(t *testing.T) {
	t.Parallel()
	a, out := testApp("/dev/ttyS0")
	require.NoError(t, execute(t, a, "ports", "--config", writeConfig(t, "")))
	assert.Equal(t, "No serial devices found.\n", out.String())
}

func TestPortsCmd_ListError(t *testing.T) {
	t.Parallel()
	a, _ := testApp()
	boom := errors.New("enumeration failed")
	a.ports = func() ([]string, error) { return nil, boom }
	err := execute(t, a, "ports", "--config", writeConfig(t, ""))
	require.ErrorIs(t, err, boom)
}

func TestHighScoreCmd_Empty(t *testing.T) {
	t.Parallel()
	a, out := testApp()
	require.NoError(t, execute(t, a, "highscore", "--config", writeConfig(t, "")))
	assert.Equal(t, "No high score yet.\n", out.String())
}

func TestHighScoreCmd_ShowsRecord(t *testing.T) {
	t.Parallel()
	cfg := writeConfig(t, "")
	dataFile := filepath.Join(filepath.Dir(cfg), "data", "data.json")
	date := time.Date(2026, 1, 2, 12, 0, 0, 0, time.Local)
	require.NoError(t, mljson.NewStore(dataFile).Save(context.Background(), mindlab.HighScore{Score: 7, Name: "Ada", Date: date}))

	a, out := testApp()
	require.NoError(t, execute(t, a, "highscore", "--config", cfg))
	assert.Equal(t, "7 by Ada on 2026-01-02\n", out.String())
}

func TestHighScoreCmd_SQLiteStore(t *testing.T) {
	t.Parallel()
	a, out := testApp()
	require.NoError(t, execute(t, a, "highscore", "--config", writeConfig(t, "store = \"sqlite\"\n")))
	assert.Equal(t, "No high score yet.\n", out.String())
	assert.FileExists(t, a.cfg.ResolvedStorePath())
}

func TestSetup_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	a, _ := testApp()
	err := execute(t, a, "ports", "--config", writeConfig(t, "theme = \"neon\"\n"))
	require.ErrorIs(t, err, mindlab.ErrValidation)
}

func TestSetup_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()
	a, _ := testApp()
	cfg := writeConfig(t, "theme = \"nord\"\n[serial]\nport = \"/dev/ttyACM0\"\n")
	require.NoError(t, execute(t, a, "ports", "--config", cfg, "--theme", "dracula", "--device", "/dev/ttyUSB3"))
	assert.Equal(t, "dracula", a.cfg.ResolvedThemeName())
	assert.Equal(t, "/dev/ttyUSB3", a.cfg.Serial.Port)
}

func TestSetup_MissingConfigFlagFile(t *testing.T) {
	t.Parallel()
	a, _ := testApp()
	err := execute(t, a, "ports", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestResolvePort(t *testing.T) {
	t.Parallel()

	t.Run("configured port wins", func(t *testing.T) {
		t.Parallel()
		a, _ := testApp("/dev/ttyACM0")
		a.cfg.Serial.Port = "/dev/cu.usbmodem1"
		port, err := a.resolvePort()
		require.NoError(t, err)
		assert.Equal(t, "/dev/cu.usbmodem1", port)
	})

	t.Run("first discovered port", func(t *testing.T) {
		t.Parallel()
		a, _ := testApp("/dev/ttyUSB0", "/dev/ttyACM0")
		port, err := a.resolvePort()
		require.NoError(t, err)
		assert.Equal(t, "/dev/ttyACM0", port)
	})

	t.Run("no device", func(t *testing.T) {
		t.Parallel()
		a, _ := testApp("/dev/ttyS0")
		_, err := a.resolvePort()
		require.ErrorIs(t, err, mindlab.ErrTransportUnavailable)
	})
}

// pipePort is an in-memory serial port. Lines written to device reach the
// reader side; writes from the app are discarded.
type pipePort struct {
	*io.PipeReader
	device *io.PipeWriter
}

func newPipePort() *pipePort {
	r, w := io.Pipe()
	return &pipePort{PipeReader: r, device: w}
}

func (p *pipePort) Write(b []byte) (int, error) { return len(b), nil }

type messages struct {
	mu  sync.Mutex
	got []mindlab.Message
}

func (m *messages) add(msg mindlab.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.got = append(m.got, msg)
}

func (m *messages) snapshot() []mindlab.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mindlab.Message(nil), m.got...)
}

func TestConnect_RoutesDeviceLines(t *testing.T) {
	t.Parallel()
	port := newPipePort()
	a, _ := testApp("/dev/ttyACM0")
	var opened string
	a.transport = func(p string, baud int) mindlab.Transport {
		opened = fmt.Sprintf("%s@%d", p, baud)
		return &mock.Transport{OpenFn: func(context.Context) (io.ReadWriteCloser, error) { return port, nil }}
	}

	var keys messages
	router := frame.NewRouter()
	router.Handle(frame.ChannelKeypad, keys.add)
	sent := make(chan tea.Msg, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	status, w := a.connect(gctx, g, router, sender(gctx, sent))

	assert.Equal(t, bt.DeviceMsg{Port: "/dev/ttyACM0", Connected: true}, status)
	assert.NotNil(t, w)
	assert.Equal(t, "/dev/ttyACM0@9600", opened)

	_, err := io.WriteString(port.device, "Keypad: 4\r\nKeypad: 2\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(keys.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []mindlab.Message{{Channel: "Keypad", Value: "4"}, {Channel: "Keypad", Value: "2"}}, keys.snapshot())

	// Unplugging the device is reported to the program.
	require.NoError(t, port.device.Close())
	select {
	case msg := <-sent:
		dm, ok := msg.(bt.DeviceMsg)
		require.True(t, ok)
		assert.False(t, dm.Connected)
		assert.Equal(t, "/dev/ttyACM0", dm.Port)
	case <-time.After(time.Second):
		t.Fatal("disconnect was not reported")
	}
	require.NoError(t, g.Wait())
}

func TestConnect_Unavailable(t *testing.T) {
	t.Parallel()
	a, _ := testApp("/dev/ttyACM0")
	boom := fmt.Errorf("busy: %w", mindlab.ErrTransportUnavailable)
	a.transport = func(string, int) mindlab.Transport {
		return &mock.Transport{OpenFn: func(context.Context) (io.ReadWriteCloser, error) { return nil, boom }}
	}
	var g errgroup.Group
	status, w := a.connect(context.Background(), &g, frame.NewRouter(), func(tea.Msg) {})

	assert.False(t, status.Connected)
	assert.Equal(t, "/dev/ttyACM0", status.Port)
	require.ErrorIs(t, status.Err, mindlab.ErrTransportUnavailable)
	assert.Nil(t, w)
	require.NoError(t, g.Wait())
}

func TestConnect_NoDevice(t *testing.T) {
	t.Parallel()
	a, _ := testApp()
	a.transport = func(string, int) mindlab.Transport {
		t.Fatal("transport must not be opened without a port")
		return nil
	}
	var g errgroup.Group
	status, w := a.connect(context.Background(), &g, frame.NewRouter(), func(tea.Msg) {})
	assert.False(t, status.Connected)
	require.ErrorIs(t, status.Err, mindlab.ErrTransportUnavailable)
	assert.Nil(t, w)
}

func TestSender_GivesUpAfterCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	send := sender(ctx, make(chan tea.Msg))
	done := make(chan struct{})
	go func() {
		send(bt.KeypadMsg{Key: "A"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sender blocked after cancel")
	}
}

func TestKeypadToken(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "7", keypadToken(mindlab.Message{Channel: "Keypad", Value: " 7 "}))
}

func TestInputRouter_SubmitsKeypadAndBareLines(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	var submitted []string
	runner := &mock.Runner{SubmitFn: func(token string) bool {
		mu.Lock()
		defer mu.Unlock()
		submitted = append(submitted, token)
		return true
	}}
	router := inputRouter(runner, zap.NewNop())

	router.Dispatch(frame.Parse("Keypad: 4"))
	router.Dispatch(frame.Parse("5"))
	router.Dispatch(frame.Parse("Distance: 12.5"))

	assert.Equal(t, []string{"4", "5"}, submitted)
}

func TestDeviceBareLineScoresHit(t *testing.T) {
	t.Parallel()
	port := newPipePort()
	a, _ := testApp("/dev/ttyACM0")
	a.transport = func(string, int) mindlab.Transport {
		return &mock.Transport{OpenFn: func(context.Context) (io.ReadWriteCloser, error) { return port, nil }}
	}

	shown := make(chan struct{}, 1)
	eng := engine.New(engine.WithEventHandler(func(ev mindlab.Event) {
		if _, ok := ev.(mindlab.EventStimulusShown); ok {
			shown <- struct{}{}
		}
	}))
	router := inputRouter(eng, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	status, _ := a.connect(gctx, g, router, func(tea.Msg) {})
	require.True(t, status.Connected)

	stim := mindlab.Stimulus{Value: "5", Target: "5"}
	require.NoError(t, eng.Start(ctx, mindlab.Spec{
		StimulusDuration: 2 * time.Second,
		ResponseWindow:   2 * time.Second,
		Alphabet:         mindlab.Digits(1, 9),
		Sequence:         sequence.NewFixed(stim),
		CloseOnResponse:  true,
		Scorer: func(s mindlab.Stimulus, r *mindlab.Response) mindlab.Outcome {
			if r != nil && r.Token == s.Target {
				return mindlab.Outcome{Correct: true, Category: mindlab.CategoryHit}
			}
			return mindlab.Outcome{Category: mindlab.CategoryMiss}
		},
	}))

	select {
	case <-shown:
	case <-time.After(time.Second):
		t.Fatal("stimulus was not shown")
	}
	_, err := io.WriteString(port.device, "5\n")
	require.NoError(t, err)

	waitCtx, stop := context.WithTimeout(ctx, 3*time.Second)
	defer stop()
	require.NoError(t, eng.Wait(waitCtx))
	outcomes, err := eng.Results()
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, mindlab.CategoryHit, outcomes[0].Category)

	cancel()
	require.NoError(t, g.Wait())
}
