package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/flashmash/internal/config"
	"github.com/verte-zerg/flashmash/internal/input"
	"github.com/verte-zerg/flashmash/internal/model"
	"github.com/verte-zerg/flashmash/internal/session"
	"github.com/verte-zerg/flashmash/internal/store"
)

func validConfig() model.Config {
	p := session.DefaultPolicy()
	return model.Config{
		Deck:           "spanish",
		Interval:       p.Start,
		MinInterval:    p.MinInterval,
		MaxInterval:    p.MaxInterval,
		SpeedUp:        p.SpeedUp,
		SlowDown:       p.SlowDown,
		DwellCorrect:   p.DwellCorrect,
		DwellIncorrect: p.DwellIncorrect,
		WeakTop:        5,
		WeakWindow:     10,
	}
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(validConfig()))

	cases := map[string]func(*model.Config){
		"--deck":          func(c *model.Config) { c.Deck = " " },
		"--interval":      func(c *model.Config) { c.Interval = 0 },
		"--min-interval":  func(c *model.Config) { c.MinInterval = -time.Second },
		"--max-interval":  func(c *model.Config) { c.MaxInterval = time.Second },
		"--speedup":       func(c *model.Config) { c.SpeedUp = 1.5 },
		"--slowdown":      func(c *model.Config) { c.SlowDown = 0.5 },
		"--dwell-correct": func(c *model.Config) { c.DwellCorrect = -1 },
		"--weak-top":      func(c *model.Config) { c.WeakTop = -1 },
		"--weak-window":   func(c *model.Config) { c.WeakWindow = -1 },
	}
	for flag, mutate := range cases {
		t.Run(flag, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), flag)
		})
	}
}

func TestValidateInput(t *testing.T) {
	assert.NoError(t, validateInput(model.InputConfig{GestureThreshold: 0.9, VoiceThreshold: 0.75}))
	assert.Error(t, validateInput(model.InputConfig{GestureThreshold: 1.2}))
	assert.Error(t, validateInput(model.InputConfig{VoiceThreshold: -0.1}))
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.IntervalMs)
	assert.Equal(t, 5000, *cfg.Practice.IntervalMs)
	require.NotNil(t, cfg.Practice.DwellWrongMs)
	assert.Equal(t, 5000, *cfg.Practice.DwellWrongMs)
	require.NotNil(t, cfg.Input.VoiceLabel)
	assert.Equal(t, "stop", *cfg.Input.VoiceLabel)
	require.NotNil(t, cfg.Input.GestureThreshold)
	assert.InDelta(t, 0.9, *cfg.Input.GestureThreshold, 1e-9)
}

func TestWriteConfigTemplateKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashmash", "config.toml")
	require.NoError(t, writeConfigTemplate(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[practice]")

	require.NoError(t, os.WriteFile(path, []byte("[practice]\n"), 0o644))
	require.NoError(t, writeConfigTemplate(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[practice]\n", string(data))
}

func TestFlagsOverrideConfig(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--interval", "3s", "--shuffle"}))

	interval, dwell, top := 4000, 250, 2
	shuffle := false
	applyPracticeConfig(cmd, config.FileConfig{Practice: config.PracticeConfig{
		IntervalMs:     &interval,
		DwellCorrectMs: &dwell,
		Shuffle:        &shuffle,
		WeakTop:        &top,
	}})

	assert.Equal(t, 3*time.Second, practiceInterval)
	assert.True(t, practiceShuffle)
	assert.Equal(t, 250*time.Millisecond, practiceDwellCorrect)
	assert.Equal(t, 2, practiceWeakTop)
}

func TestNewArbiterMarksMissingCommandsUnavailable(t *testing.T) {
	arb := newArbiter(model.InputConfig{
		GestureCommand:   "gesture-classifier --camera 0",
		GestureThreshold: 0.8,
		VoiceThreshold:   0.75,
	}, nil)

	status, _ := arb.Status(input.SourceGesture)
	assert.Equal(t, input.StatusOff, status)
	status, err := arb.Status(input.SourceVoice)
	assert.Equal(t, input.StatusUnavailable, status)
	assert.Error(t, err)
}

type fakeHistory struct {
	played []string
	acc    map[string][2]int
}

func (f fakeHistory) ListDecks(context.Context) ([]string, error) {
	return f.played, nil
}

func (f fakeHistory) DeckAccuracy(_ context.Context, deck string) (int, int, error) {
	v := f.acc[deck]
	return v[0], v[1], nil
}

func TestListDecks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"spanish.csv", "french.csv", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("front,back\na,b\n"), 0o644))
	}
	hist := fakeHistory{
		played: []string{"german", "spanish"},
		acc:    map[string][2]int{"spanish": {3, 4}},
	}

	var buf bytes.Buffer
	require.NoError(t, listDecks(context.Background(), &buf, dir, hist))
	assert.Equal(t, "french\nspanish\t75.0% over 4 cards\ngerman\t(history only)\n", buf.String())
}

func TestListDecksEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := listDecks(context.Background(), &buf, filepath.Join(t.TempDir(), "missing"), fakeHistory{})
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestPrintSession(t *testing.T) {
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "flashmash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	_, err = st.InsertSession(context.Background(), model.SessionStats{
		UUID:          "6f1c2a4e-8c1d-4d2e-9b7a-3c5d7e9f1a2b",
		StartedAt:     start,
		EndedAt:       start.Add(65 * time.Second),
		Deck:          "spanish",
		Cards:         2,
		Correct:       1,
		DurationMs:    65000,
		StartInterval: 5 * time.Second,
		FinalInterval: 5 * time.Second,
	}, []model.CardResult{
		{Position: 0, Prompt: "gato", Answer: "cat", Chosen: "cat", Correct: true, Trigger: model.TriggerButton, Interval: 5 * time.Second},
		{Position: 1, Prompt: "perro", Answer: "dog", Chosen: "fish", Trigger: model.TriggerVoice, Interval: 5 * time.Second},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printSession(context.Background(), &buf, st, "6f1c2a4e-8c1d-4d2e-9b7a-3c5d7e9f1a2b"))
	out := buf.String()
	assert.Contains(t, out, "Deck: spanish")
	assert.Contains(t, out, "Score: 1/2 (50.0%)")
	assert.Contains(t, out, "Total time: 1m 5s")
	assert.Contains(t, out, `2. perro - dog, but you chose "fish" ❌`)

	err = printSession(context.Background(), &buf, st, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStatsConfigValidation(t *testing.T) {
	t.Cleanup(func() {
		statsSince, statsLast, statsCurveWindow, statsCards = "", 0, defaultCurveWindow, ""
	})

	statsSince, statsLast, statsCurveWindow, statsCards = "2024-02-30x", 0, 5, ""
	_, err := statsConfig()
	assert.Error(t, err)

	statsSince, statsCurveWindow = "", 0
	_, err = statsConfig()
	assert.Error(t, err)

	statsSince, statsLast, statsCurveWindow, statsCards = "2024-02-01", 3, 5, "gato,perro"
	cfg, err := statsConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.Since)
	assert.Equal(t, time.February, cfg.Since.Month())
	assert.Equal(t, 3, cfg.Last)
	assert.Equal(t, "gato,perro", cfg.Cards)
}
