package conversation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/go-eliza/internal/eliza"
	"github.com/rcliao/go-eliza/internal/langpack"
	"github.com/rcliao/go-eliza/internal/model"
	"github.com/rcliao/go-eliza/internal/store"
)

func setup(t *testing.T) (*langpack.Pack, *store.SQLiteStore) {
	t.Helper()
	pack, err := langpack.Load(context.Background(), langpack.Embedded(), "us", zerolog.Nop())
	require.NoError(t, err)
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return pack, s
}

func TestRecordsTurnsAndQuit(t *testing.T) {
	ctx := context.Background()
	pack, s := setup(t)

	c, err := Start(ctx, pack, s, zerolog.Nop())
	require.NoError(t, err)
	id := c.SessionID()
	require.NotEmpty(t, id)

	out, err := c.Say(ctx, "I am sad")
	require.NoError(t, err)
	assert.Equal(t, "How long have you been sad?", out.Text)
	assert.False(t, out.Quit)

	out, err = c.Say(ctx, "Bye")
	require.NoError(t, err)
	assert.True(t, out.Quit)
	assert.Equal(t, pack.Messages.Goodbye, out.Text)
	assert.Empty(t, c.SessionID())

	sess, err := s.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusQuit, sess.Status)
	require.Len(t, sess.Turns, 1)
	assert.Equal(t, "I am sad", sess.Turns[0].Input)
	assert.Equal(t, "i am", sess.Turns[0].Keyword)
	assert.Equal(t, "rule", sess.Turns[0].Source)
}

func TestParityEndsSession(t *testing.T) {
	ctx := context.Background()
	pack, s := setup(t)

	c, err := Start(ctx, pack, s, zerolog.Nop())
	require.NoError(t, err)
	id := c.SessionID()

	var out Outcome
	for _, in := range []string{"stupid", "idiot", "dumb", "shut up"} {
		out, err = c.Say(ctx, in)
		require.NoError(t, err)
	}
	assert.True(t, out.Terminated)
	assert.Equal(t, eliza.ParityError, out.Text)

	sess, err := s.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTerminated, sess.Status)
	assert.Equal(t, 4, sess.InsultCount)
	assert.Len(t, sess.Turns, 4)
}

func TestReboot(t *testing.T) {
	ctx := context.Background()
	pack, s := setup(t)

	c, err := Start(ctx, pack, s, zerolog.Nop())
	require.NoError(t, err)
	first := c.SessionID()

	c.Say(ctx, "stupid")
	require.NoError(t, c.Reboot(ctx))
	assert.NotEqual(t, first, c.SessionID())
	assert.Equal(t, 0, c.Engine().State().Insults())

	sess, err := s.GetSession(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRebooted, sess.Status)

	require.NoError(t, c.Close(ctx))
	all, err := s.ListSessions(ctx, store.ListParams{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, sess := range all {
		assert.NotEqual(t, model.StatusOpen, sess.Status)
	}
}

func TestWithoutRecorder(t *testing.T) {
	ctx := context.Background()
	pack, _ := setup(t)

	c, err := Start(ctx, pack, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, c.SessionID())

	out, err := c.Say(ctx, "computer")
	require.NoError(t, err)
	assert.Equal(t, "Do computers worry you?", out.Text)
	require.NoError(t, c.Reboot(ctx))
	require.NoError(t, c.Close(ctx))
}
