package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarastelive/amaraste-agent/internal/domain"
)

func testPresenter() *Presenter {
	return &Presenter{
		WordDelay: time.Millisecond,
		sleep:     func(context.Context, time.Duration) bool { return true },
	}
}

func fragChan(texts ...string) <-chan domain.Fragment {
	ch := make(chan domain.Fragment, len(texts))
	for _, t := range texts {
		ch <- domain.Fragment{Text: t}
	}
	close(ch)
	return ch
}

func TestRunRevealsWholeReply(t *testing.T) {
	p := testPresenter()

	var reveals []string
	res := p.Run(context.Background(), fragChan("Boa ", "tarde", "! ", "Como ", "vai?"), NewTurn(), func(v string) {
		reveals = append(reveals, v)
	})

	assert.Equal(t, TurnDone, res.Outcome)
	assert.Equal(t, "Boa tarde! Como vai?", res.Text)
	assert.Equal(t, "Boa tarde! Como vai?", res.Raw)
	require.NotEmpty(t, reveals)
	assert.Equal(t, "Boa tarde! Como vai?", reveals[len(reveals)-1])
}

func TestRunRevealsAreMonotonic(t *testing.T) {
	p := testPresenter()

	var reveals []string
	p.Run(context.Background(), fragChan("Um rio ", "corre ", "por dentro ", "de tudo."), NewTurn(), func(v string) {
		reveals = append(reveals, v)
	})

	for i := 1; i < len(reveals); i++ {
		assert.Truef(t, strings.HasPrefix(reveals[i], reveals[i-1]),
			"reveal %d %q does not extend %q", i, reveals[i], reveals[i-1])
	}
}

func TestRunHoldsPartialWordUntilBoundary(t *testing.T) {
	p := testPresenter()

	var reveals []string
	res := p.Run(context.Background(), fragChan("abraca", "dabra ", "aberta"), NewTurn(), func(v string) {
		reveals = append(reveals, v)
	})

	// No reveal may end in a split word: the only visible states are
	// whole-word prefixes and the final flush.
	for _, r := range reveals[:len(reveals)-1] {
		assert.Truef(t, strings.HasSuffix(r, " ") || r == "abracadabra",
			"mid-stream reveal %q exposes a partial word", r)
	}
	assert.Equal(t, TurnDone, res.Outcome)
	assert.Equal(t, "abracadabra aberta", res.Text)
}

func TestRunFinalFlushWithoutTrailingWhitespace(t *testing.T) {
	p := testPresenter()

	var last string
	res := p.Run(context.Background(), fragChan("sem espacos finais"), NewTurn(), func(v string) {
		last = v
	})

	assert.Equal(t, TurnDone, res.Outcome)
	assert.Equal(t, "sem espacos finais", res.Text)
	assert.Equal(t, "sem espacos finais", last)
}

func TestRunExtractsDirectivesOnDone(t *testing.T) {
	p := testPresenter()

	res := p.Run(context.Background(), fragChan("Texto", "||YOUTUBE::abc123", "||SIGNUP"), NewTurn(), func(string) {})

	assert.Equal(t, TurnDone, res.Outcome)
	assert.Equal(t, "Texto", res.Text)
	assert.Equal(t, "abc123", res.YouTubeID)
	assert.True(t, res.ShowSignUpButton)
	assert.Equal(t, "Texto||YOUTUBE::abc123||SIGNUP", res.Raw)
}

func TestRunStopHaltsAtWordBoundary(t *testing.T) {
	p := testPresenter()
	turn := NewTurn()

	stopAfter := 4
	var last string
	res := p.Run(context.Background(), fragChan("Boa tarde pen", "sador! ", "Tudo bem?"), turn, func(v string) {
		last = v
		stopAfter--
		if stopAfter == 0 {
			turn.Stop()
		}
	})

	assert.Equal(t, TurnCanceled, res.Outcome)
	assert.Equal(t, last, res.Text)
	// The trailing partial word was pending and must never surface.
	assert.Equal(t, "Boa tarde ", res.Text)
	assert.Empty(t, res.YouTubeID)
	assert.False(t, res.ShowSignUpButton)
}

func TestRunMultibyteWhitespaceBoundary(t *testing.T) {
	p := testPresenter()

	// U+00A0 is whitespace but not a single byte; the reveal boundary
	// must never cut through it.
	var reveals []string
	res := p.Run(context.Background(), fragChan("Boa tar", "de pen", "sador"), NewTurn(), func(v string) {
		reveals = append(reveals, v)
	})

	for _, r := range reveals {
		assert.Truef(t, utf8.ValidString(r), "reveal %q is not valid UTF-8", r)
	}
	assert.Equal(t, TurnDone, res.Outcome)
	assert.Equal(t, "Boa tarde pensador", res.Text)
}

func TestRunStopSkipsDirectiveParsing(t *testing.T) {
	p := testPresenter()
	turn := NewTurn()

	var last string
	res := p.Run(context.Background(), fragChan("Olha ", "isso ", "||YOUTUBE::abc"), turn, func(v string) {
		last = v
		turn.Stop()
	})

	assert.Equal(t, TurnCanceled, res.Outcome)
	assert.Equal(t, last, res.Text)
	assert.Empty(t, res.YouTubeID)
}

func TestRunAbortOnSourceError(t *testing.T) {
	p := testPresenter()
	srcErr := errors.New("stream torn down")

	ch := make(chan domain.Fragment, 2)
	ch <- domain.Fragment{Text: "meia "}
	ch <- domain.Fragment{Err: srcErr}
	close(ch)

	res := p.Run(context.Background(), ch, NewTurn(), func(string) {})

	assert.Equal(t, TurnAborted, res.Outcome)
	assert.Equal(t, "meia ", res.Text)
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, srcErr)
}

func TestRunAbortBeforeAnyReveal(t *testing.T) {
	p := testPresenter()

	ch := make(chan domain.Fragment, 1)
	ch <- domain.Fragment{Err: errors.New("boom")}
	close(ch)

	revealed := false
	res := p.Run(context.Background(), ch, NewTurn(), func(string) { revealed = true })

	assert.Equal(t, TurnAborted, res.Outcome)
	assert.Empty(t, res.Text)
	assert.False(t, revealed)
}

func TestRunContextCancelBehavesLikeStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Presenter{
		WordDelay: time.Millisecond,
		sleep: func(ctx context.Context, _ time.Duration) bool {
			cancel()
			return ctx.Err() == nil
		},
	}

	res := p.Run(ctx, fragChan("uma frase ", "bem longa ", "aqui"), NewTurn(), func(string) {})

	assert.Equal(t, TurnCanceled, res.Outcome)
	assert.Equal(t, "uma", res.Text)
}

func TestSplitWordsRoundTrip(t *testing.T) {
	cases := []string{
		"Boa tarde! ",
		"  dupla  folga  ",
		"uma\npalavra\tpor vez ",
		"só ",
	}
	for _, in := range cases {
		parts := splitWords(in)
		assert.Equal(t, in, strings.Join(parts, ""), "input %q", in)
	}
}
