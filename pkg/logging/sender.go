package logging

import (
	"fmt"
	"sync"
)

// Delegate receives one diagnostic message.
type Delegate func(source string, level LogLevel, message string)

type subscription struct {
	id       int
	delegate Delegate
	maxLevel LogLevel
}

// Sender publishes diagnostic messages under a source name to any number of
// subscribers.
type Sender struct {
	name string

	mu          sync.Mutex
	nextID      int
	subscribers []subscription
}

// NewSender creates a sender publishing under the given source name.
func NewSender(name string) *Sender {
	return &Sender{name: name}
}

// Name returns the source name of the sender.
func (s *Sender) Name() string {
	return s.name
}

// Subscribe registers delegate for every message at or below maxLevel.
// The returned function removes the subscription; calling it more than once
// is harmless.
func (s *Sender) Subscribe(delegate Delegate, maxLevel LogLevel) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers = append(s.subscribers, subscription{
		id:       id,
		delegate: delegate,
		maxLevel: maxLevel,
	})
	return func() {
		s.unsubscribe(id)
	}
}

func (s *Sender) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// MaxLevel returns the most verbose level any subscriber wants, or false if
// there are no subscribers.
func (s *Sender) MaxLevel() (LogLevel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subscribers) == 0 {
		return 0, false
	}
	most := s.subscribers[0].maxLevel
	for _, sub := range s.subscribers[1:] {
		if sub.maxLevel > most {
			most = sub.maxLevel
		}
	}
	return most, true
}

// Send publishes message at level.
func (s *Sender) Send(level LogLevel, message string) {
	s.publish(s.name, level, message)
}

// Sendf publishes a formatted message at level.
func (s *Sender) Sendf(level LogLevel, format string, args ...interface{}) {
	if !s.wants(level) {
		return
	}
	s.publish(s.name, level, fmt.Sprintf(format, args...))
}

// Chain returns a delegate that republishes messages from another sender
// through this one, with the source name "<this>/<other>".
func (s *Sender) Chain() Delegate {
	return func(source string, level LogLevel, message string) {
		s.publish(s.name+"/"+source, level, message)
	}
}

func (s *Sender) wants(level LogLevel) bool {
	most, ok := s.MaxLevel()
	return ok && level <= most
}

// publish delivers outside the lock so that delegates may publish too.
func (s *Sender) publish(source string, level LogLevel, message string) {
	s.mu.Lock()
	targets := make([]subscription, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		if level <= sub.maxLevel {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range targets {
		sub.delegate(source, level, message)
	}
}
