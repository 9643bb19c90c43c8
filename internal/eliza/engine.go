// Package eliza implements the keyword/decomposition/reassembly conversation
// engine: rule selection by priority, round-robin replies, pronoun
// reflection, deferred memories and the insult-triggered parity error.
package eliza

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rcliao/go-eliza/internal/reflection"
	"github.com/rcliao/go-eliza/internal/rules"
	"github.com/rcliao/go-eliza/internal/textnorm"
)

// ParityError is returned once the insult threshold has been crossed.
const ParityError = "PARITY ERROR!!! PARITY ERROR!!! SESSION TERMINATED."

// DefaultReply is used when no rule responds and there is no @none rule.
const DefaultReply = "Please go on."

// Source says where a reply came from.
type Source string

const (
	SourceRule     Source = "rule"
	SourceMemory   Source = "memory"
	SourceFallback Source = "fallback"
	SourceDefault  Source = "default"
	SourceParity   Source = "parity"
)

// Reply is a response together with how it was produced.
type Reply struct {
	Text    string `json:"text"`
	Source  Source `json:"source"`
	Keyword string `json:"keyword,omitempty"`
	// Stored is the number of memories deferred during the turn.
	Stored int `json:"stored,omitempty"`
}

// Engine answers one conversation. The rule set and reflection table are
// read-only and may be shared; all mutable data lives in the engine's State.
// An Engine must not be used by more than one goroutine at a time.
type Engine struct {
	rules   *rules.Set
	reflect reflection.Table
	state   *State
	logger  zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-turn debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine with fresh conversation state.
func New(set *rules.Set, table reflection.Table, opts ...Option) *Engine {
	e := &Engine{
		rules:   set,
		reflect: table,
		state:   NewState(set.Shape()),
		logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Respond returns the reply text for one line of user input.
func (e *Engine) Respond(input string) string {
	return e.Turn(input).Text
}

// Turn processes one line of user input.
func (e *Engine) Turn(input string) Reply {
	text := textnorm.Normalize(input)
	reply := e.turn(text)
	e.logger.Debug().
		Str("input", text).
		Str("source", string(reply.Source)).
		Str("keyword", reply.Keyword).
		Int("stored", reply.Stored).
		Int("insults", e.state.Insults()).
		Msg("turn")
	return reply
}

func (e *Engine) turn(text string) Reply {
	stored := 0
	for _, ri := range e.rules.Candidates(text) {
		rule := &e.rules.Rules[ri]
		resp, n, ok := e.apply(ri, text)
		stored += n
		if !ok {
			continue
		}
		if rule.Insult {
			e.state.RecordInsult()
			if e.state.Status() == Terminated {
				return Reply{Text: ParityError, Source: SourceParity, Keyword: rule.Keyword, Stored: stored}
			}
		}
		return Reply{Text: resp, Source: SourceRule, Keyword: rule.Keyword, Stored: stored}
	}

	// A memory deferred this turn is never replayed in the same turn.
	if stored == 0 {
		if m, ok := e.state.Recall(); ok {
			return Reply{Text: m, Source: SourceMemory}
		}
	}

	if fi, ok := e.rules.Fallback(); ok {
		rule := &e.rules.Rules[fi]
		p := &rule.Patterns[0]
		c := e.state.Next(fi, 0, len(p.Reassemblies))
		return Reply{Text: p.Reassemblies[c], Source: SourceFallback, Keyword: rule.Keyword, Stored: stored}
	}
	return Reply{Text: DefaultReply, Source: SourceDefault, Stored: stored}
}

// apply tries the patterns of one rule in order. It returns the filled
// reply and true for a direct response; a memory directive is queued and
// reported through the stored count instead.
func (e *Engine) apply(ri int, text string) (string, int, bool) {
	rule := &e.rules.Rules[ri]
	for pi := range rule.Patterns {
		p := &rule.Patterns[pi]
		m, ok := p.Match(text)
		if !ok {
			continue
		}
		tmpl := p.Reassemblies[e.state.Next(ri, pi, len(p.Reassemblies))]
		if rest, isMemory := strings.CutPrefix(tmpl, rules.MemoryPrefix); isMemory {
			e.state.Remember(e.fill(rest, m))
			return "", 1, false
		}
		return e.fill(tmpl, m), 0, true
	}
	return "", 0, false
}

// fill substitutes the first {n} placeholder for every non-empty capture n
// with the trimmed, reflected capture.
func (e *Engine) fill(tmpl string, groups []string) string {
	out := tmpl
	for i := 1; i < len(groups); i++ {
		if groups[i] == "" {
			continue
		}
		ph := "{" + strconv.Itoa(i) + "}"
		out = strings.Replace(out, ph, e.reflect.Reflect(strings.TrimSpace(groups[i])), 1)
	}
	return out
}

// HasTerminated reports whether the parity error state has been reached.
func (e *Engine) HasTerminated() bool {
	return e.state.Status() == Terminated
}

// Reset returns the engine to a fresh conversation.
func (e *Engine) Reset() {
	e.state.Reset()
}

// State exposes the conversation state for inspection.
func (e *Engine) State() *State {
	return e.state
}
