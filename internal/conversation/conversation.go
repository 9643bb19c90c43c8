// Package conversation runs one user's conversation: it feeds input to an
// engine, recognizes quit words, and records every turn to a transcript store.
package conversation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rcliao/go-eliza/internal/eliza"
	"github.com/rcliao/go-eliza/internal/langpack"
	"github.com/rcliao/go-eliza/internal/model"
	"github.com/rcliao/go-eliza/internal/store"
)

// Recorder is the part of the transcript store a conversation writes to.
type Recorder interface {
	CreateSession(ctx context.Context, lang string) (*model.Session, error)
	AppendTurn(ctx context.Context, p store.TurnParams) (*model.Turn, error)
	EndSession(ctx context.Context, p store.EndParams) error
}

// Outcome is the result of one line of input.
type Outcome struct {
	eliza.Reply
	// Quit is set when the input was a quit word; Text holds the goodbye.
	Quit bool
	// Terminated is set when the reply was the parity error.
	Terminated bool
}

// Conversation ties an engine to an optional transcript recorder.
type Conversation struct {
	pack    *langpack.Pack
	engine  *eliza.Engine
	rec     Recorder
	session *model.Session
	logger  zerolog.Logger
}

// Start begins a conversation. A nil recorder disables transcripts.
func Start(ctx context.Context, pack *langpack.Pack, rec Recorder, logger zerolog.Logger) (*Conversation, error) {
	c := &Conversation{
		pack:   pack,
		engine: pack.NewEngine(),
		rec:    rec,
		logger: logger,
	}
	if err := c.open(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Conversation) open(ctx context.Context) error {
	if c.rec == nil {
		return nil
	}
	sess, err := c.rec.CreateSession(ctx, c.pack.Lang)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	c.session = sess
	c.logger.Debug().Str("session", sess.ID).Str("lang", sess.Lang).Msg("session started")
	return nil
}

// SessionID returns the current session id, or "" when not recording.
func (c *Conversation) SessionID() string {
	if c.session == nil {
		return ""
	}
	return c.session.ID
}

// Engine returns the underlying engine.
func (c *Conversation) Engine() *eliza.Engine { return c.engine }

// Say processes one line of input. A quit word or the parity error ends the
// recorded session; further calls after that are the caller's mistake.
func (c *Conversation) Say(ctx context.Context, input string) (Outcome, error) {
	if c.pack.IsQuit(input) {
		return Outcome{Reply: eliza.Reply{Text: c.pack.Messages.Goodbye}, Quit: true},
			c.end(ctx, model.StatusQuit)
	}

	reply := c.engine.Turn(input)
	out := Outcome{Reply: reply, Terminated: reply.Source == eliza.SourceParity}

	if c.session != nil {
		_, err := c.rec.AppendTurn(ctx, store.TurnParams{
			SessionID: c.session.ID,
			Input:     input,
			Response:  reply.Text,
			Keyword:   reply.Keyword,
			Source:    string(reply.Source),
		})
		if err != nil {
			return out, fmt.Errorf("record turn: %w", err)
		}
	}

	if out.Terminated {
		c.logger.Warn().Int("insults", c.engine.State().Insults()).Msg("parity error")
		return out, c.end(ctx, model.StatusTerminated)
	}
	return out, nil
}

// Reboot ends the current session and starts a fresh one with a clean
// engine state.
func (c *Conversation) Reboot(ctx context.Context) error {
	if err := c.end(ctx, model.StatusRebooted); err != nil {
		return err
	}
	c.engine.Reset()
	return c.open(ctx)
}

// Close ends a session that is still open.
func (c *Conversation) Close(ctx context.Context) error {
	return c.end(ctx, model.StatusClosed)
}

func (c *Conversation) end(ctx context.Context, status string) error {
	if c.session == nil {
		return nil
	}
	sess := c.session
	c.session = nil
	err := c.rec.EndSession(ctx, store.EndParams{
		SessionID:   sess.ID,
		Status:      status,
		InsultCount: c.engine.State().Insults(),
	})
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	c.logger.Debug().Str("session", sess.ID).Str("status", status).Msg("session ended")
	return nil
}
