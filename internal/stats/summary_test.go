package stats

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/flashmash/internal/model"
)

func entry(prompt, answer, chosen string) model.AnswerEntry {
	return model.AnswerEntry{Prompt: prompt, Answer: answer, Chosen: chosen, Correct: answer == chosen}
}

func TestSummarizePerfect(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	log := []model.AnswerEntry{
		entry("gato", "cat", "cat"),
		entry("perro", "dog", "dog"),
		entry("azul", "blue", "blue"),
		entry("rojo", "red", "red"),
	}
	s := Summarize(log, 4, start, start.Add(42*time.Second))

	assert.Equal(t, 4, s.Correct)
	assert.InDelta(t, 100.0, s.Percent, 1e-9)
	assert.Equal(t, TierPerfect, s.Tier)
	assert.Equal(t, "Score: 4/4 (100.0%) – Total time: 0m 42s", s.ScoreLine())
	assert.Equal(t, "1. gato - cat ✅", s.Lines[0])
}

func TestSummarizeMixed(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	log := []model.AnswerEntry{
		entry("gato", "cat", "cat"),
		entry("perro", "dog", "cat"),
		entry("azul", "blue", "blue"),
		entry("rojo", "red", "red"),
	}
	s := Summarize(log, 4, start, start.Add(65*time.Second+900*time.Millisecond))

	assert.Equal(t, TierRetry, s.Tier)
	assert.Equal(t, "Score: 3/4 (75.0%) – Total time: 1m 5s", s.ScoreLine())
	assert.Equal(t, `2. perro - dog, but you chose "cat" ❌`, s.Lines[1])

	var buf bytes.Buffer
	require.NoError(t, s.RenderSummary(&buf))
	assert.Equal(t, "Better luck next time!\n"+
		"Score: 3/4 (75.0%) – Total time: 1m 5s\n\n"+
		"1. gato - cat ✅\n"+
		"2. perro - dog, but you chose \"cat\" ❌\n"+
		"3. azul - blue ✅\n"+
		"4. rojo - red ✅\n", buf.String())
}

func TestTierBoundaries(t *testing.T) {
	assert.Equal(t, TierPerfect, TierFor(100))
	assert.Equal(t, TierNice, TierFor(80))
	assert.Equal(t, TierNice, TierFor(99.9))
	assert.Equal(t, TierRetry, TierFor(79.9))
	assert.Equal(t, "Nice work!", TierNice.Message())
}

func TestSummarizeSingleCard(t *testing.T) {
	start := time.Unix(0, 0)
	s := Summarize([]model.AnswerEntry{entry("gato", "cat", "dog")}, 1, start, start.Add(3*time.Second))
	assert.Equal(t, "Score: 0/1 (0.0%) – Total time: 0m 3s", s.ScoreLine())
	assert.Equal(t, TierRetry, s.Tier)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0m 0s", FormatElapsed(0))
	assert.Equal(t, "0m 0s", FormatElapsed(-time.Second))
	assert.Equal(t, "2m 0s", FormatElapsed(2*time.Minute))
	assert.Equal(t, "61m 1s", FormatElapsed(61*time.Minute+time.Second))
}
