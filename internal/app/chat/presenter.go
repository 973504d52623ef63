package chat

import (
	"context"
	"strings"
	"sync/atomic"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/amarastelive/amaraste-agent/internal/domain"
)

// DefaultWordDelay is the pacing between revealed words.
const DefaultWordDelay = 60 * time.Millisecond

// Turn carries the cooperative stop flag for one assistant reply.
// Stop may be called from any goroutine; it takes effect at the next
// word-reveal or fragment boundary, never mid-word.
type Turn struct {
	stopped atomic.Bool
}

func NewTurn() *Turn {
	return &Turn{}
}

func (t *Turn) Stop() {
	t.stopped.Store(true)
}

func (t *Turn) Stopped() bool {
	return t.stopped.Load()
}

// Outcome is the terminal state of a presented turn.
type Outcome int

const (
	// TurnDone: the stream ended cleanly and the reply was finalized.
	TurnDone Outcome = iota
	// TurnCanceled: the consumer raised Stop before the stream ended.
	TurnCanceled
	// TurnAborted: the stream source failed before completion.
	TurnAborted
)

// Result describes how a turn ended and what the transcript entry should
// hold afterwards.
type Result struct {
	Outcome Outcome

	// Text is the finalized visible text (TurnDone), or whatever was
	// revealed so far (TurnCanceled / TurnAborted).
	Text             string
	YouTubeID        string
	ShowSignUpButton bool

	// Raw is the concatenation of every received fragment.
	Raw string

	// Err is the transport failure when Outcome is TurnAborted.
	Err error
}

// Presenter turns an incremental fragment sequence into a human-paced
// revealed transcript entry plus a finalized message with trailing
// directives extracted.
//
// Only whitespace-delimited whole words are revealed while streaming: on
// each fragment, everything up to the last whitespace boundary of the
// pending buffer is animated word by word at WordDelay per step, and the
// trailing partial word stays pending until the next fragment or the
// final flush.
type Presenter struct {
	WordDelay time.Duration

	// sleep is swappable so tests can run without wall-clock pacing.
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewPresenter() *Presenter {
	return &Presenter{
		WordDelay: DefaultWordDelay,
		sleep:     sleepFor,
	}
}

// Run drives one turn to a terminal state. Each reveal step calls reveal
// with the full visible text so far; the visible text only ever grows
// until the one finalize-time rewrite. Canceling ctx behaves like Stop.
func (p *Presenter) Run(ctx context.Context, frags <-chan domain.Fragment, turn *Turn, reveal func(visible string)) Result {
	var (
		revealed strings.Builder
		raw      strings.Builder
		pending  string
	)

	canceled := false

receive:
	for frag := range frags {
		if frag.Err != nil {
			return Result{
				Outcome: TurnAborted,
				Text:    revealed.String(),
				Raw:     raw.String(),
				Err:     frag.Err,
			}
		}
		if turn.Stopped() {
			canceled = true
			break
		}

		raw.WriteString(frag.Text)
		pending += frag.Text

		boundary := lastWhitespace(pending)
		if boundary < 0 {
			continue
		}
		// Cut after the whole boundary rune; whitespace like U+00A0 is
		// more than one byte.
		_, size := utf8.DecodeRuneInString(pending[boundary:])
		animate := pending[:boundary+size]
		pending = pending[boundary+size:]

		for _, word := range splitWords(animate) {
			if turn.Stopped() {
				canceled = true
				break receive
			}
			revealed.WriteString(word)
			reveal(revealed.String())
			if !p.sleep(ctx, p.WordDelay) {
				canceled = true
				break receive
			}
		}
	}

	if canceled || turn.Stopped() {
		return Result{
			Outcome: TurnCanceled,
			Text:    revealed.String(),
			Raw:     raw.String(),
		}
	}

	// Clean end of stream: flush the trailing partial word in one step,
	// then split out directives from the full raw text.
	if pending != "" {
		revealed.WriteString(pending)
		reveal(revealed.String())
	}

	res := Result{
		Outcome: TurnDone,
		Raw:     raw.String(),
	}
	d := ParseDirectives(raw.String())
	if d.Found {
		res.Text = d.Text
		res.YouTubeID = d.YouTubeID
		res.ShowSignUpButton = d.ShowSignUpButton
	} else {
		res.Text = revealed.String()
	}
	return res
}

// lastWhitespace returns the byte index of the last whitespace rune, or
// -1 when there is none.
func lastWhitespace(s string) int {
	return strings.LastIndexFunc(s, unicode.IsSpace)
}

// splitWords splits text into words and their whitespace separators,
// preserving both so that concatenating the pieces restores the input.
func splitWords(s string) []string {
	var out []string
	start := 0
	inSpace := false
	for i, r := range s {
		isSpace := unicode.IsSpace(r)
		if i > 0 && isSpace != inSpace {
			out = append(out, s[start:i])
			start = i
		}
		inSpace = isSpace
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func sleepFor(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
