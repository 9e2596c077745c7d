package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type countingSink struct {
	got []Notification
}

func (c *countingSink) Notify(n Notification) {
	c.got = append(c.got, n)
}

func TestNew(t *testing.T) {
	a := New(KindInfo, "title", "content")
	b := New(KindInfo, "title", "content")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, DefaultDuration, a.Duration)
	assert.Nil(t, a.Done)
}

func TestMulti(t *testing.T) {
	first, second := &countingSink{}, &countingSink{}
	m := Multi{first, nil, second}

	m.Notify(New(KindError, "failed", ""))

	assert.Len(t, first.got, 1)
	assert.Len(t, second.got, 1)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false)

	done := make(chan struct{})
	pending := New(KindPending, "Transaction in progress...", "")
	pending.Done = done
	c.Notify(pending)

	info := New(KindInfo, "Transaction Created", "Click here to view your transaction.")
	info.ActionURL = "https://explorer/tx/0xabc"
	c.Notify(info)

	close(done)
	c.Wait()

	out := buf.String()
	assert.Contains(t, out, "Transaction in progress...")
	assert.Contains(t, out, "Transaction Created")
	assert.Contains(t, out, "https://explorer/tx/0xabc")
}

// terminalLog records writes and spinner transitions in the order they happen
type terminalLog struct {
	mu     sync.Mutex
	events []string
}

func (l *terminalLog) add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *terminalLog) Write(p []byte) (int, error) {
	if s := strings.TrimSpace(string(p)); s != "" {
		l.add("write " + s)
	}
	return len(p), nil
}

func (l *terminalLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeSpinner struct {
	log *terminalLog
}

func (f *fakeSpinner) Start() { f.log.add("spinner start") }

func (f *fakeSpinner) Stop() { f.log.add("spinner stop") }

func TestConsolePausesSpinnerWhilePrinting(t *testing.T) {
	color.NoColor = true
	term := &terminalLog{}
	c := NewConsoleWriter(term, false)
	c.newSpinner = func(string) spinnerControl { return &fakeSpinner{log: term} }

	done := make(chan struct{})
	pending := New(KindPending, "", "Transaction in progress...")
	pending.Done = done
	c.Notify(pending)

	info := New(KindInfo, "Transaction Created", "")
	info.ActionURL = "https://explorer/tx/0xabc"
	c.Notify(info)

	close(done)
	c.Wait()

	assert.Equal(t, []string{
		"write Transaction in progress...",
		"spinner start",
		"spinner stop",
		"write Transaction Created",
		"write https://explorer/tx/0xabc",
		"spinner start",
		"spinner stop",
	}, term.all())

	// Settled spinners are not resumed by later output
	c.Notify(New(KindError, "", "Something went wrong. Please try again."))
	events := term.all()
	assert.Equal(t, "write Something went wrong. Please try again.", events[len(events)-1])
}

func TestKafkaPublishes(t *testing.T) {
	w := &fakeWriter{}
	k := &Kafka{writer: w}

	n := New(KindInfo, "Transaction Created", "")
	n.ActionURL = "https://explorer/tx/0xabc"
	n.Duration = 3 * time.Second
	k.Notify(n)

	require.Len(t, w.messages, 1)
	assert.Equal(t, n.ID, string(w.messages[0].Key))

	var ev Event
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &ev))
	assert.Equal(t, KindInfo, ev.Kind)
	assert.Equal(t, "https://explorer/tx/0xabc", ev.ActionURL)
	assert.Equal(t, int64(3000), ev.DurationMS)

	require.NoError(t, k.Close())
	assert.True(t, w.closed)
	assert.Error(t, k.publish(n))
}

func TestKafkaWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	k := &Kafka{writer: w}

	err := k.publish(New(KindError, "failed", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")

	// Notify swallows the error
	k.Notify(New(KindError, "failed", ""))
}
