package signals

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/mentord/internal/gamification"
	"github.com/sandeepkv93/mentord/internal/storage"
)

type recordingRewarder struct {
	calls []gamification.SignalKind
	err   error
}

func (r *recordingRewarder) ProcessSignal(_ context.Context, kind gamification.SignalKind) (gamification.Reward, error) {
	r.calls = append(r.calls, kind)
	if r.err != nil {
		return gamification.Reward{}, r.err
	}
	reward, _ := gamification.RewardFor(kind)
	return reward, nil
}

func TestParse(t *testing.T) {
	t.Run("finds each kind", func(t *testing.T) {
		for _, kind := range []gamification.SignalKind{gamification.SignalSimple, gamification.SignalHard, gamification.SignalExtreme} {
			sig, ok := Parse("feito ||ACHIEVEMENT_" + string(kind) + "||")
			require.True(t, ok)
			assert.Equal(t, kind, sig.Kind)
		}
	})

	t.Run("rejects unknown kinds and partial markers", func(t *testing.T) {
		for _, text := range []string{
			"||ACHIEVEMENT_EPIC||",
			"|ACHIEVEMENT_HARD||",
			"||achievement_hard||",
			"ACHIEVEMENT_HARD",
			"",
		} {
			_, ok := Parse(text)
			assert.False(t, ok, "text=%q", text)
		}
	})

	t.Run("first marker wins", func(t *testing.T) {
		sig, ok := Parse("a ||ACHIEVEMENT_SIMPLE|| b ||ACHIEVEMENT_EXTREME||")
		require.True(t, ok)
		assert.Equal(t, gamification.SignalSimple, sig.Kind)
		assert.Equal(t, 2, sig.Start)
	})
}

func TestProcessor_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("strips marker and rewards", func(t *testing.T) {
		rewarder := &recordingRewarder{}
		out, err := NewProcessor(rewarder).Process(ctx, "Ótimo trabalho! ||ACHIEVEMENT_HARD||")
		require.NoError(t, err)
		assert.Equal(t, "Ótimo trabalho!", out.Text)
		require.NotNil(t, out.Notice)
		assert.Equal(t, 100, out.Notice.Points)
		assert.Equal(t, "DISCIPLINA DE FERRO", out.Notice.Label)
		assert.Equal(t, gamification.SignalHard, out.Notice.Kind)
		assert.Equal(t, []gamification.SignalKind{gamification.SignalHard}, rewarder.calls)
	})

	t.Run("text without marker is returned byte for byte", func(t *testing.T) {
		rewarder := &recordingRewarder{}
		text := "  ### DIAGNÓSTICO\n\nExecute agora.  \n"
		out, err := NewProcessor(rewarder).Process(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, text, out.Text)
		assert.Nil(t, out.Notice)
		assert.Empty(t, rewarder.calls)
	})

	t.Run("only the first of several markers is processed", func(t *testing.T) {
		rewarder := &recordingRewarder{}
		out, err := NewProcessor(rewarder).Process(ctx, "ok ||ACHIEVEMENT_SIMPLE|| e ||ACHIEVEMENT_EXTREME||")
		require.NoError(t, err)
		assert.Equal(t, "ok  e ||ACHIEVEMENT_EXTREME||", out.Text)
		assert.Equal(t, []gamification.SignalKind{gamification.SignalSimple}, rewarder.calls)
	})

	t.Run("rewarder failure still strips the marker", func(t *testing.T) {
		rewarder := &recordingRewarder{err: errors.New("disk full")}
		out, err := NewProcessor(rewarder).Process(ctx, "boa ||ACHIEVEMENT_SIMPLE||")
		require.Error(t, err)
		assert.Equal(t, "boa", out.Text)
		assert.Nil(t, out.Notice)
	})
}

type fixedUser struct{}

func (fixedUser) CurrentUserID(context.Context) (string, bool) { return "usr_signals", true }

func TestProcessor_WithLedger(t *testing.T) {
	ctx := context.Background()
	ledger := gamification.NewLedger(storage.NewMemoryStore(), fixedUser{})

	out, err := NewProcessor(ledger).Process(ctx, "Primeira venda! ||ACHIEVEMENT_EXTREME||")
	require.NoError(t, err)
	require.NotNil(t, out.Notice)
	assert.Equal(t, "MARCO EXTREMO - LENDA", out.Notice.Label)

	stats := ledger.Stats(ctx)
	assert.Equal(t, 500, stats.Points)
	assert.True(t, stats.IsUnlocked("first_sale"))
}
