package logging

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	source  string
	level   LogLevel
	message string
}

type recorder struct {
	mu       sync.Mutex
	messages []recorded
}

func (r *recorder) Report(source string, level LogLevel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, recorded{source, level, message})
}

func (r *recorder) Messages() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.messages...)
}

func TestSender_SubscribeFiltersByLevel(t *testing.T) {
	sender := NewSender("Lurker")
	var verbose, quiet recorder
	sender.Subscribe(verbose.Report, LevelDebug)
	sender.Subscribe(quiet.Report, LevelWarn)

	sender.Send(LevelInfo, "Logged in.")
	sender.Send(LevelError, "boom")

	assert.Equal(t, []recorded{
		{"Lurker", LevelInfo, "Logged in."},
		{"Lurker", LevelError, "boom"},
	}, verbose.Messages())
	assert.Equal(t, []recorded{
		{"Lurker", LevelError, "boom"},
	}, quiet.Messages())
}

func TestSender_Unsubscribe(t *testing.T) {
	sender := NewSender("Lurker")
	var rec recorder
	unsubscribe := sender.Subscribe(rec.Report, LevelDebug)

	sender.Send(LevelInfo, "one")
	unsubscribe()
	unsubscribe()
	sender.Send(LevelInfo, "two")

	require.Len(t, rec.Messages(), 1)
	assert.Equal(t, "one", rec.Messages()[0].message)

	_, ok := sender.MaxLevel()
	assert.False(t, ok)
}

func TestSender_SendfSkipsFormattingWithoutInterest(t *testing.T) {
	sender := NewSender("Lurker")
	var rec recorder
	sender.Subscribe(rec.Report, LevelInfo)

	calls := 0
	stringer := stringerFunc(func() string {
		calls++
		return "x"
	})
	sender.Sendf(LevelDebug, "%s", stringer)
	assert.Equal(t, 0, calls)

	sender.Sendf(LevelInfo, "[%s] +%s", "channel", stringer)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "[channel] +x", rec.Messages()[0].message)
}

func TestSender_Chain(t *testing.T) {
	outer := NewSender("Lurker")
	inner := NewSender("TMI")
	var rec recorder
	outer.Subscribe(rec.Report, LevelVerbose)
	inner.Subscribe(outer.Chain(), LevelDebug)

	inner.Send(LevelVerbose, "< PING")
	inner.Send(LevelDebug, "too chatty")

	assert.Equal(t, []recorded{
		{"Lurker/TMI", LevelVerbose, "< PING"},
	}, rec.Messages())
}

func TestSender_DelegateMayPublish(t *testing.T) {
	sender := NewSender("Lurker")
	var rec recorder
	var nested atomic.Bool
	sender.Subscribe(func(source string, level LogLevel, message string) {
		if nested.CompareAndSwap(false, true) {
			sender.Send(LevelInfo, "nested")
		}
		rec.Report(source, level, message)
	}, LevelInfo)

	sender.Send(LevelInfo, "outer")

	assert.Len(t, rec.Messages(), 2)
}

func TestSender_ConcurrentUse(t *testing.T) {
	sender := NewSender("Lurker")
	var rec recorder
	sender.Subscribe(rec.Report, LevelDebug)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unsubscribe := sender.Subscribe(func(string, LogLevel, string) {}, LevelInfo)
			sender.Send(LevelInfo, fmt.Sprintf("message %d", i))
			unsubscribe()
		}(i)
	}
	wg.Wait()

	assert.Len(t, rec.Messages(), 8)
}

type stringerFunc func() string

func (f stringerFunc) String() string { return f() }
