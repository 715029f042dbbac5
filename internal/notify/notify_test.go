package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	got []Notification
	err error
}

func (r *recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
	return r.err
}

func (r *recorder) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.got {
		out = append(out, n.Title)
	}
	return out
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsole(&buf).Notify(context.Background(), Notification{Title: "Call mom", Time: "15:30"}))
	assert.Equal(t, "Reminder: Call mom\nTime: 03:30 PM\n\n", buf.String())

	buf.Reset()
	NewConsole(&buf).Println("Reminders for Today (2024-03-20):")
	assert.Equal(t, "Reminders for Today (2024-03-20):\n\n", buf.String())
}

func TestMulti_AttemptsAllAndReturnsFirstError(t *testing.T) {
	first := &recorder{err: errors.New("boom")}
	second := &recorder{err: errors.New("later")}
	third := &recorder{}

	err := Multi{first, nil, second, third}.Notify(context.Background(), Notification{Title: "x"})
	assert.EqualError(t, err, "boom")
	assert.Len(t, first.got, 1)
	assert.Len(t, second.got, 1)
	assert.Len(t, third.got, 1)
}

func TestQueue_PreservesOrder(t *testing.T) {
	q := NewQueue(8, nil)
	sink := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		q.Run(ctx, sink)
		close(done)
	}()

	for _, title := range []string{"a", "b", "c", "d"} {
		require.NoError(t, q.Notify(ctx, Notification{Title: title}))
	}
	require.Eventually(t, func() bool { return len(sink.titles()) == 4 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, []string{"a", "b", "c", "d"}, sink.titles())
}

func TestQueue_FlushesOnShutdown(t *testing.T) {
	q := NewQueue(4, nil)
	require.NoError(t, q.Notify(context.Background(), Notification{Title: "a"}))
	require.NoError(t, q.Notify(context.Background(), Notification{Title: "b"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recorder{}
	q.Run(ctx, sink)
	assert.Len(t, sink.titles(), 2)
}

func TestQueue_NotifyHonorsContext(t *testing.T) {
	q := NewQueue(1, nil)
	require.NoError(t, q.Notify(context.Background(), Notification{Title: "a"}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Notify(ctx, Notification{Title: "b"}), context.DeadlineExceeded)
}

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, f.err
}

func TestTelegram_Notify(t *testing.T) {
	api := &fakeSender{}
	sink := NewTelegram(api, 42)

	require.NoError(t, sink.Notify(context.Background(), Notification{ID: "abc", Title: "Stand-up", Time: "09:00"}))
	require.Len(t, api.sent, 1)

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "⏰ Reminder\n\nStand-up\nTime: 09:00 AM", msg.Text)
	assert.Len(t, msg.Entities, 2)

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 3)
	assert.Equal(t, "snooze:abc:10", *markup.InlineKeyboard[0][1].CallbackData)

	api.err = errors.New("network")
	assert.Error(t, sink.Notify(context.Background(), Notification{ID: "abc"}))
}

func TestParseSnoozeCallback(t *testing.T) {
	id, minutes, ok := ParseSnoozeCallback(SnoozeCallbackData("7f1c-uuid", 60))
	require.True(t, ok)
	assert.Equal(t, "7f1c-uuid", id)
	assert.Equal(t, 60, minutes)

	for _, bad := range []string{"", "snooze:", "snooze::5", "snooze:id:x", "other:id:5"} {
		_, _, ok := ParseSnoozeCallback(bad)
		assert.False(t, ok, bad)
	}
}
