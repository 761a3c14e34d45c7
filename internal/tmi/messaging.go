package tmi

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/rhymu8354/Lurker/pkg/logging"
)

const (
	// DefaultLoginTimeout bounds the wait for the server to accept a login.
	DefaultLoginTimeout = 5 * time.Second

	// anonymousPassword is accepted by Twitch for read-only logins.
	anonymousPassword = "SCHMOOPIIE"

	capabilities = "twitch.tv/commands twitch.tv/membership twitch.tv/tags"
)

var roomModes = []string{"emote-only", "followers-only", "r9k", "slow", "subs-only"}

type actionKind int

const (
	actionLogIn actionKind = iota
	actionJoin
	actionLeave
	actionSend
	actionLogOut
)

type action struct {
	kind    actionKind
	nick    string
	token   string
	channel string
	text    string
}

type connEvent struct {
	line         string
	disconnected bool
}

// session is the state owned by the processing goroutine.
type session struct {
	conn       Connection
	events     chan connEvent
	connDone   chan struct{}
	loggedIn   bool
	loginTimer clock.Timer
}

// Messaging is a Twitch Messaging Interface (chat) client. Commands are
// queued and executed on a processing goroutine, which also delivers every
// User callback. The goroutine runs while there is a connection or queued
// work and exits on its own afterwards.
type Messaging struct {
	diagnostics *logging.Sender

	mu           sync.Mutex
	factory      ConnectionFactory
	clock        clock.Clock
	user         User
	loginTimeout time.Duration
	queue        []action
	running      bool
	wake         chan struct{}
	idle         chan struct{}
}

// NewMessaging creates an engine with no connection factory and a real
// clock.
func NewMessaging() *Messaging {
	idle := make(chan struct{})
	close(idle)
	return &Messaging{
		diagnostics:  logging.NewSender("TMI"),
		clock:        clock.RealClock{},
		loginTimeout: DefaultLoginTimeout,
		wake:         make(chan struct{}, 1),
		idle:         idle,
	}
}

// SubscribeToDiagnostics registers a delegate for the engine's diagnostics.
func (m *Messaging) SubscribeToDiagnostics(delegate logging.Delegate, maxLevel logging.LogLevel) func() {
	return m.diagnostics.Subscribe(delegate, maxLevel)
}

// SetConnectionFactory sets the function used to create a connection for
// each login.
func (m *Messaging) SetConnectionFactory(factory ConnectionFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factory = factory
}

// SetClock sets the clock used for timeouts.
func (m *Messaging) SetClock(c clock.Clock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = c
}

// SetLoginTimeout overrides DefaultLoginTimeout.
func (m *Messaging) SetLoginTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginTimeout = timeout
}

// SetUser sets the receiver of session events.
func (m *Messaging) SetUser(user User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
}

// LogInAnonymously starts a read-only login with a generated nickname.
func (m *Messaging) LogInAnonymously() {
	m.post(action{
		kind:  actionLogIn,
		nick:  fmt.Sprintf("justinfan%d", 1000+rand.Intn(89000)),
		token: anonymousPassword,
	})
}

// LogIn starts a login with the given nickname and OAuth token.
func (m *Messaging) LogIn(nick, token string) {
	if !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}
	m.post(action{kind: actionLogIn, nick: strings.ToLower(nick), token: token})
}

// Join joins a channel. It has no effect unless logged in.
func (m *Messaging) Join(channel string) {
	m.post(action{kind: actionJoin, channel: channel})
}

// Leave leaves a channel.
func (m *Messaging) Leave(channel string) {
	m.post(action{kind: actionLeave, channel: channel})
}

// SendMessage sends a chat message to a channel.
func (m *Messaging) SendMessage(channel, text string) {
	m.post(action{kind: actionSend, channel: channel, text: text})
}

// LogOut quits with the given farewell and disconnects. User.LogOut is
// called even when there is no connection.
func (m *Messaging) LogOut(farewell string) {
	m.post(action{kind: actionLogOut, text: farewell})
}

// Idle returns a channel that is closed once the processing goroutine has
// exited.
func (m *Messaging) Idle() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idle
}

func (m *Messaging) post(a action) {
	m.mu.Lock()
	m.queue = append(m.queue, a)
	if !m.running {
		m.running = true
		m.idle = make(chan struct{})
		go m.run(m.idle)
	}
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// takeActions drains the queue. When the session is idle and nothing is
// queued it marks the goroutine stopped and returns false.
func (m *Messaging) takeActions(s *session) ([]action, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	actions := m.queue
	m.queue = nil
	if len(actions) == 0 && s.conn == nil {
		m.running = false
		return nil, false
	}
	return actions, true
}

func (m *Messaging) run(idle chan struct{}) {
	defer close(idle)
	s := &session{}
	for {
		actions, ok := m.takeActions(s)
		if !ok {
			return
		}
		for _, a := range actions {
			m.handleAction(s, a)
		}
		if s.conn == nil {
			continue
		}

		var loginTimeout <-chan time.Time
		if s.loginTimer != nil {
			loginTimeout = s.loginTimer.C()
		}
		select {
		case <-m.wake:
		case ev := <-s.events:
			if ev.disconnected {
				m.diagnostics.Send(logging.LevelInfo, "Disconnected by server")
				m.endSession(s)
			} else {
				m.handleLine(s, ev.line)
			}
		case <-loginTimeout:
			m.diagnostics.Send(logging.LevelWarn, "timeout waiting for login")
			m.endSession(s)
		}
	}
}

func (m *Messaging) handleAction(s *session, a action) {
	switch a.kind {
	case actionLogIn:
		m.startSession(s, a.nick, a.token)
	case actionJoin:
		if !s.loggedIn {
			m.diagnostics.Sendf(logging.LevelWarn, "cannot join %s: not logged in", a.channel)
			return
		}
		m.send(s, "JOIN #"+strings.ToLower(a.channel))
	case actionLeave:
		if s.loggedIn {
			m.send(s, "PART #"+strings.ToLower(a.channel))
		}
	case actionSend:
		if s.loggedIn {
			m.send(s, fmt.Sprintf("PRIVMSG #%s :%s", strings.ToLower(a.channel), a.text))
		}
	case actionLogOut:
		if s.conn == nil {
			m.withUser(User.LogOut)
			return
		}
		m.send(s, "QUIT :"+a.text)
		m.endSession(s)
	}
}

func (m *Messaging) startSession(s *session, nick, token string) {
	if s.conn != nil {
		m.diagnostics.Send(logging.LevelWarn, "already logged in or logging in")
		return
	}

	m.mu.Lock()
	factory := m.factory
	clk := m.clock
	timeout := m.loginTimeout
	m.mu.Unlock()

	var conn Connection
	if factory != nil {
		conn = factory()
	}
	if conn == nil {
		m.diagnostics.Send(logging.LevelWarn, "unable to create connection")
		m.withUser(User.LogOut)
		return
	}

	events := make(chan connEvent, 64)
	done := make(chan struct{})
	conn.SetMessageReceivedDelegate(func(line string) {
		select {
		case events <- connEvent{line: line}:
		case <-done:
		}
	})
	conn.SetDisconnectedDelegate(func() {
		select {
		case events <- connEvent{disconnected: true}:
		case <-done:
		}
	})
	if err := conn.Connect(); err != nil {
		close(done)
		m.diagnostics.Sendf(logging.LevelError, "unable to connect: %v", err)
		m.withUser(User.LogOut)
		return
	}

	s.conn = conn
	s.events = events
	s.connDone = done
	s.loggedIn = false
	s.loginTimer = clk.NewTimer(timeout)

	m.send(s, "CAP REQ :"+capabilities)
	m.send(s, "PASS "+token)
	m.send(s, "NICK "+nick)
}

// endSession tears down the connection and reports the logout.
func (m *Messaging) endSession(s *session) {
	if s.loginTimer != nil {
		s.loginTimer.Stop()
		s.loginTimer = nil
	}
	if s.conn != nil {
		close(s.connDone)
		s.conn.Disconnect()
	}
	s.conn = nil
	s.events = nil
	s.connDone = nil
	s.loggedIn = false
	m.withUser(User.LogOut)
}

func (m *Messaging) send(s *session, line string) {
	if strings.HasPrefix(line, "PASS ") {
		m.diagnostics.Send(logging.LevelDebug, "> PASS ********")
	} else {
		m.diagnostics.Send(logging.LevelDebug, "> "+line)
	}
	if err := s.conn.Send(line); err != nil {
		m.diagnostics.Sendf(logging.LevelWarn, "send failed: %v", err)
	}
}

func (m *Messaging) withUser(f func(User)) {
	m.mu.Lock()
	user := m.user
	m.mu.Unlock()
	if user != nil {
		f(user)
	}
}

func (m *Messaging) handleLine(s *session, line string) {
	m.diagnostics.Send(logging.LevelDebug, "< "+line)
	msg, err := ParseMessage(line)
	if err != nil {
		if err != ErrEmptyMessage {
			m.diagnostics.Sendf(logging.LevelWarn, "unparseable line %q: %v", line, err)
		}
		return
	}

	switch msg.Command {
	case "PING":
		m.send(s, "PONG :"+msg.Trailing())
	case "001":
		if s.loginTimer != nil {
			s.loginTimer.Stop()
			s.loginTimer = nil
		}
		s.loggedIn = true
		m.withUser(User.LogIn)
	case "RECONNECT":
		m.withUser(User.Doom)
	case "NOTICE":
		if !s.loggedIn {
			m.diagnostics.Sendf(logging.LevelError, "login rejected: %s", msg.Trailing())
			m.endSession(s)
			return
		}
		info := NoticeInfo{ID: msg.Tag("msg-id"), Message: msg.Trailing()}
		if msg.Param(0) != "*" {
			info.Channel = msg.Channel()
		}
		m.withUser(func(u User) { u.Notice(info) })
	case "JOIN":
		info := MembershipInfo{Channel: msg.Channel(), User: msg.Nick()}
		m.withUser(func(u User) { u.Join(info) })
	case "PART":
		info := MembershipInfo{Channel: msg.Channel(), User: msg.Nick()}
		m.withUser(func(u User) { u.Leave(info) })
	case "PRIVMSG":
		m.withUser(func(u User) { u.Message(messageInfo(msg)) })
	case "HOSTTARGET":
		m.withUser(func(u User) { u.Host(hostInfo(msg)) })
	case "ROOMSTATE":
		m.handleRoomState(msg)
	case "CLEARCHAT", "CLEARMSG":
		m.withUser(func(u User) { u.Clear(clearInfo(msg)) })
	case "USERNOTICE":
		m.handleUserNotice(msg)
	}
}

func messageInfo(msg Message) MessageInfo {
	content := msg.Trailing()
	isAction := false
	if strings.HasPrefix(content, "\x01ACTION ") && strings.HasSuffix(content, "\x01") {
		content = strings.TrimSuffix(strings.TrimPrefix(content, "\x01ACTION "), "\x01")
		isAction = true
	}
	return MessageInfo{
		Channel:        msg.Channel(),
		User:           msg.Nick(),
		MessageContent: content,
		IsAction:       isAction,
		Tags:           tagsFromMessage(msg),
	}
}

func hostInfo(msg Message) HostInfo {
	info := HostInfo{Hosting: msg.Channel()}
	target, viewers, _ := strings.Cut(msg.Param(1), " ")
	if target == "-" || target == "" {
		return info
	}
	info.On = true
	info.BeingHosted = target
	info.Viewers, _ = strconv.Atoi(viewers)
	return info
}

func (m *Messaging) handleRoomState(msg Message) {
	var present []string
	for _, mode := range roomModes {
		if _, ok := msg.Tags[mode]; ok {
			present = append(present, mode)
		}
	}
	// A full set of modes is the state sent on join, not a change.
	if len(present) == 0 || len(present) == len(roomModes) {
		return
	}
	for _, mode := range present {
		info := RoomModeChangeInfo{
			ChannelName: msg.Channel(),
			Mode:        mode,
			Parameter:   msg.IntTag(mode),
		}
		m.withUser(func(u User) { u.RoomModeChange(info) })
	}
}

func clearInfo(msg Message) ClearInfo {
	info := ClearInfo{
		Channel: msg.Channel(),
		Reason:  msg.Tag("ban-reason"),
		Tags:    tagsFromMessage(msg),
	}
	if msg.Command == "CLEARMSG" {
		info.Type = ClearMessage
		info.User = msg.Tag("login")
		info.OffendingMessageID = msg.Tag("target-msg-id")
		info.OffendingMessageContent = msg.Trailing()
		return info
	}
	if len(msg.Params) < 2 {
		info.Type = ClearAll
		return info
	}
	info.User = msg.Trailing()
	if _, ok := msg.Tags["ban-duration"]; ok {
		info.Type = ClearTimeout
		info.Duration = msg.IntTag("ban-duration")
	} else {
		info.Type = ClearBan
	}
	return info
}

func (m *Messaging) handleUserNotice(msg Message) {
	tags := tagsFromMessage(msg)
	channel := msg.Channel()
	systemMessage := msg.Tag("system-msg")

	switch id := msg.Tag("msg-id"); id {
	case "raid":
		info := RaidInfo{
			Channel:       channel,
			Raider:        msg.Tag("msg-param-displayName"),
			Viewers:       msg.IntTag("msg-param-viewerCount"),
			SystemMessage: systemMessage,
			Tags:          tags,
		}
		if info.Raider == "" {
			info.Raider = msg.Tag("msg-param-login")
		}
		m.withUser(func(u User) { u.Raid(info) })
	case "ritual":
		info := RitualInfo{
			Channel:       channel,
			User:          msg.Tag("login"),
			Ritual:        msg.Tag("msg-param-ritual-name"),
			SystemMessage: systemMessage,
			Tags:          tags,
		}
		m.withUser(func(u User) { u.Ritual(info) })
	default:
		if !isSubNotice(id) {
			return
		}
		info := SubInfo{
			Type:                 subType(id),
			Channel:              channel,
			User:                 msg.Tag("login"),
			PlanName:             msg.Tag("msg-param-sub-plan-name"),
			Plan:                 msg.Tag("msg-param-sub-plan"),
			Months:               msg.IntTag("msg-param-cumulative-months"),
			RecipientDisplayName: msg.Tag("msg-param-recipient-display-name"),
			RecipientUserName:    msg.Tag("msg-param-recipient-user-name"),
			SenderCount:          msg.IntTag("msg-param-sender-count"),
			MassGiftCount:        msg.IntTag("msg-param-mass-gift-count"),
			SystemMessage:        systemMessage,
			UserMessage:          msg.Trailing(),
			Tags:                 tags,
		}
		if len(msg.Params) < 2 {
			info.UserMessage = ""
		}
		if info.Months == 0 {
			info.Months = msg.IntTag("msg-param-months")
		}
		m.withUser(func(u User) { u.Sub(info) })
	}
}

func isSubNotice(id string) bool {
	return strings.Contains(id, "sub") || strings.Contains(id, "gift")
}

func subType(id string) SubType {
	switch id {
	case "sub":
		return SubNew
	case "resub":
		return SubRenewal
	case "subgift", "anonsubgift":
		return SubGifted
	case "submysterygift", "anonsubmysterygift":
		return SubMysteryGift
	default:
		return SubUnknown
	}
}
