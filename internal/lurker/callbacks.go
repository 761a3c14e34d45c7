package lurker

import (
	"github.com/rhymu8354/Lurker/internal/events"
	"github.com/rhymu8354/Lurker/internal/tmi"
)

var _ tmi.User = (*Lurker)(nil)

func (l *Lurker) Doom() {
	defer l.recoverCallback("Doom")
	l.publish(l.formatter.Doom())
}

// LogIn joins the recorded channels in order and starts the maintenance
// worker. It does nothing once the session has logged out.
func (l *Lurker) LogIn() {
	defer l.recoverCallback("LogIn")
	l.mu.Lock()
	if l.logOutSeen {
		l.mu.Unlock()
		return
	}
	channels := l.channels
	if l.state == StateLoggingIn {
		l.state = StateLoggedIn
	}
	l.mu.Unlock()

	l.publish(l.formatter.Lifecycle(events.ReasonLoggedIn))
	for _, channel := range channels {
		l.engine.Join(channel)
	}
	l.startWorker()
}

// LogOut ends the session. The worker is stopped before the session is
// marked logged out, so AwaitLogOut never returns true while it runs.
// Later calls do nothing.
func (l *Lurker) LogOut() {
	defer l.recoverCallback("LogOut")
	l.mu.Lock()
	if l.logOutSeen {
		l.mu.Unlock()
		return
	}
	l.logOutSeen = true
	l.mu.Unlock()

	l.stopWorker()
	l.publish(l.formatter.Lifecycle(events.ReasonLoggedOut))

	l.mu.Lock()
	l.state = StateLoggedOut
	close(l.loggedOutCh)
	l.mu.Unlock()
}

func (l *Lurker) Join(info tmi.MembershipInfo) {
	defer l.recoverCallback("Join")
	l.publish(l.formatter.Membership(info, true))
}

func (l *Lurker) Leave(info tmi.MembershipInfo) {
	defer l.recoverCallback("Leave")
	l.publish(l.formatter.Membership(info, false))
}

func (l *Lurker) Message(info tmi.MessageInfo) {
	defer l.recoverCallback("Message")
	l.publish(l.formatter.Message(info))
}

func (l *Lurker) Notice(info tmi.NoticeInfo) {
	defer l.recoverCallback("Notice")
	l.publish(l.formatter.Notice(info))
}

func (l *Lurker) Host(info tmi.HostInfo) {
	defer l.recoverCallback("Host")
	l.publish(l.formatter.Host(info))
}

func (l *Lurker) RoomModeChange(info tmi.RoomModeChangeInfo) {
	defer l.recoverCallback("RoomModeChange")
	l.publish(l.formatter.RoomModeChange(info))
}

func (l *Lurker) Clear(info tmi.ClearInfo) {
	defer l.recoverCallback("Clear")
	l.publish(l.formatter.Clear(info))
}

func (l *Lurker) Sub(info tmi.SubInfo) {
	defer l.recoverCallback("Sub")
	l.publish(l.formatter.Sub(info))
}

func (l *Lurker) Raid(info tmi.RaidInfo) {
	defer l.recoverCallback("Raid")
	l.publish(l.formatter.Raid(info))
}

func (l *Lurker) Ritual(info tmi.RitualInfo) {
	defer l.recoverCallback("Ritual")
	l.publish(l.formatter.Ritual(info))
}
