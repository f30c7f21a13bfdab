package auxmetrics_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/insights/auxmetrics"
	"github.com/katalvlaran/insights/dataset"
)

func cohort(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("S%02d", i+1)
	}

	return out
}

func TestGenerate_OneRecordPerPair(t *testing.T) {
	tbl, err := auxmetrics.Generate(cohort(4), 42, 5)
	require.NoError(t, err)
	require.Equal(t, 20, tbl.Len())

	type key struct {
		s string
		a int
	}
	seen := make(map[key]bool)
	for _, r := range tbl.Records {
		k := key{r.StudentID, r.Attempt}
		assert.False(t, seen[k], "duplicate %v", k)
		seen[k] = true
		assert.Len(t, r.Checklist, 8)
		assert.Len(t, r.Speech, 4)
		assert.Len(t, r.Dialogue, 5)
	}
}

func TestGenerate_Bounded(t *testing.T) {
	tbl, err := auxmetrics.Generate(cohort(10), 3, 12)
	require.NoError(t, err)
	for _, r := range tbl.Records {
		for _, v := range r.Speech {
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, auxmetrics.SpeechMax)
		}
		for _, v := range r.Dialogue {
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, auxmetrics.DialogueMax)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := auxmetrics.Generate(cohort(3), 42, 4)
	require.NoError(t, err)
	b, err := auxmetrics.Generate(cohort(3), 42, 4)
	require.NoError(t, err)
	assert.Equal(t, a.Records, b.Records)

	c, err := auxmetrics.Generate(cohort(3), 43, 4)
	require.NoError(t, err)
	assert.NotEqual(t, a.Records, c.Records)
}

func TestCompletionProbability(t *testing.T) {
	assert.InDelta(t, 0.5, auxmetrics.CompletionProbability(1), 1e-12)
	assert.InDelta(t, 0.58, auxmetrics.CompletionProbability(2), 1e-12)
	assert.InDelta(t, 0.98, auxmetrics.CompletionProbability(7), 1e-12)
	assert.Equal(t, 1.0, auxmetrics.CompletionProbability(8))
	assert.Equal(t, 1.0, auxmetrics.CompletionProbability(30))

	prev := 0.0
	for a := 1; a <= 20; a++ {
		p := auxmetrics.CompletionProbability(a)
		assert.GreaterOrEqual(t, p, prev)
		assert.LessOrEqual(t, p, 1.0)
		prev = p
	}
}

func TestGenerate_LateAttemptsAlwaysComplete(t *testing.T) {
	tbl, err := auxmetrics.Generate(cohort(5), 9, 10)
	require.NoError(t, err)
	for _, r := range tbl.Records {
		if r.Attempt < 8 {
			continue
		}
		for _, done := range r.Checklist {
			assert.True(t, done)
		}
	}
}

func TestGenerate_MonotonicCompletionOverSeeds(t *testing.T) {
	const attempts = 6
	var rate [attempts + 1]float64
	var count [attempts + 1]float64
	for s := int64(0); s < 200; s++ {
		tbl, err := auxmetrics.Generate(cohort(10), s, attempts)
		require.NoError(t, err)
		for _, r := range tbl.Records {
			for _, done := range r.Checklist {
				if done {
					rate[r.Attempt]++
				}
				count[r.Attempt]++
			}
		}
	}
	for a := 2; a <= attempts; a++ {
		assert.Greater(t, rate[a]/count[a], rate[a-1]/count[a-1], "attempt %d", a)
	}
}

func TestGenerate_EdgeCases(t *testing.T) {
	_, err := auxmetrics.Generate(cohort(2), 1, -1)
	assert.ErrorIs(t, err, auxmetrics.ErrBadAttemptCount)

	tbl, err := auxmetrics.Generate(nil, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())

	tbl, err = auxmetrics.Generate(cohort(2), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())

	custom := dataset.AuxSchema{Checklist: []string{"hpi"}, Speech: []string{"pace"}}
	tbl, err = auxmetrics.Generate(cohort(1), 1, 2, auxmetrics.WithSchema(custom))
	require.NoError(t, err)
	assert.Equal(t, []string{"hpi", "pace"}, tbl.MetricNames())
}

func TestGenerate_DuplicateStudent(t *testing.T) {
	tbl, err := auxmetrics.Generate([]string{"S01", "S01"}, 42, 2)
	assert.ErrorIs(t, err, auxmetrics.ErrDuplicateStudent)
	assert.Nil(t, tbl)

	_, err = auxmetrics.Generate([]string{"S01", "S02", "S01"}, 42, 0)
	assert.ErrorIs(t, err, auxmetrics.ErrDuplicateStudent)
}
