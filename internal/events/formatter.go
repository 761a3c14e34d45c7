package events

import (
	"fmt"
	"time"

	"github.com/rhymu8354/Lurker/internal/tmi"
	"github.com/rhymu8354/Lurker/pkg/logging"
)

// Formatter turns chat events into lines of text with a level. It holds no
// per-event state and is safe for concurrent use.
type Formatter struct {
	engine   *MessageTemplateEngine
	location *time.Location
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithLocation sets the zone timestamps are shown in. The default is the
// local zone.
func WithLocation(loc *time.Location) FormatterOption {
	return func(f *Formatter) {
		f.location = loc
	}
}

// WithTemplateEngine replaces the default template engine.
func WithTemplateEngine(engine *MessageTemplateEngine) FormatterOption {
	return func(f *Formatter) {
		f.engine = engine
	}
}

// NewFormatter creates a formatter with the default templates.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{location: time.Local}
	for _, opt := range opts {
		opt(f)
	}
	if f.engine == nil {
		f.engine = NewMessageTemplateEngine()
	}
	return f
}

// FormatTimestamp renders a server time as HH:MM:SS.mmm in loc. A zero time
// renders as the empty string.
func FormatTimestamp(seconds int64, milliseconds int, loc *time.Location) string {
	if seconds == 0 {
		return ""
	}
	return fmt.Sprintf("%s.%03d", time.Unix(seconds, 0).In(loc).Format("15:04:05"), milliseconds)
}

func (f *Formatter) line(reason EventReason, data EventData) Line {
	return Line{Level: getLevel(reason), Text: f.engine.Render(reason, data)}
}

func (f *Formatter) stamp(tags tmi.Tags) string {
	return FormatTimestamp(tags.Timestamp, tags.TimeMilliseconds, f.location)
}

// Lifecycle formats a session lifecycle event such as ReasonLoggedIn.
func (f *Formatter) Lifecycle(reason EventReason) Line {
	return f.line(reason, EventData{})
}

// Doom formats the warning that the server will disconnect soon.
func (f *Formatter) Doom() Line {
	return f.line(ReasonDoom, EventData{})
}

// Membership formats a join (joined == true) or a leave.
func (f *Formatter) Membership(info tmi.MembershipInfo, joined bool) Line {
	reason := ReasonLeave
	if joined {
		reason = ReasonJoin
	}
	return f.line(reason, EventData{Channel: info.Channel, User: info.User})
}

// Message formats a chat message. Messages carrying bits are raised to
// LevelNotice.
func (f *Formatter) Message(info tmi.MessageInfo) Line {
	reason := ReasonMessage
	if info.IsAction {
		reason = ReasonAction
	}
	l := f.line(reason, EventData{
		Channel:     info.Channel,
		Timestamp:   f.stamp(info.Tags),
		User:        info.User,
		DisplayName: info.Tags.DisplayName,
		Text:        info.MessageContent,
		Bits:        info.Tags.Bits,
	})
	if info.Tags.Bits > 0 {
		l.Level = logging.LevelNotice
	}
	return l
}

func (f *Formatter) Notice(info tmi.NoticeInfo) Line {
	return f.line(ReasonNotice, EventData{Channel: info.Channel, ID: info.ID, Text: info.Message})
}

func (f *Formatter) Host(info tmi.HostInfo) Line {
	if !info.On {
		return f.line(ReasonHostOff, EventData{Channel: info.Hosting})
	}
	return f.line(ReasonHostOn, EventData{
		Channel: info.Hosting,
		Target:  info.BeingHosted,
		Viewers: info.Viewers,
	})
}

func (f *Formatter) RoomModeChange(info tmi.RoomModeChangeInfo) Line {
	return f.line(ReasonRoomMode, EventData{
		Channel:   info.ChannelName,
		Mode:      info.Mode,
		Parameter: info.Parameter,
	})
}

// Clear formats a moderation announcement. Unknown types are reported at
// LevelError.
func (f *Formatter) Clear(info tmi.ClearInfo) Line {
	data := EventData{
		Channel:   info.Channel,
		Timestamp: f.stamp(info.Tags),
		User:      info.User,
		Reason:    info.Reason,
		Duration:  info.Duration,
		Content:   info.OffendingMessageContent,
	}
	switch info.Type {
	case tmi.ClearAll:
		return f.line(ReasonClearAll, data)
	case tmi.ClearMessage:
		return f.line(ReasonClearMessage, data)
	case tmi.ClearTimeout:
		return f.line(ReasonTimeout, data)
	case tmi.ClearBan:
		return f.line(ReasonBan, data)
	default:
		return f.line(ReasonClearUnknown, data)
	}
}

// Sub formats a subscription announcement. Unknown types are reported at
// LevelError.
func (f *Formatter) Sub(info tmi.SubInfo) Line {
	recipient := info.RecipientDisplayName
	if recipient == "" {
		recipient = info.RecipientUserName
	}
	data := EventData{
		Channel:       info.Channel,
		Timestamp:     f.stamp(info.Tags),
		User:          info.User,
		PlanName:      info.PlanName,
		Months:        info.Months,
		Recipient:     recipient,
		SenderCount:   info.SenderCount,
		MassGiftCount: info.MassGiftCount,
		SystemMessage: info.SystemMessage,
		UserMessage:   info.UserMessage,
	}
	switch info.Type {
	case tmi.SubNew:
		return f.line(ReasonSubNew, data)
	case tmi.SubRenewal:
		return f.line(ReasonSubRenewal, data)
	case tmi.SubGifted:
		return f.line(ReasonSubGifted, data)
	case tmi.SubMysteryGift:
		return f.line(ReasonSubMysteryGift, data)
	default:
		return f.line(ReasonSubUnknown, data)
	}
}

func (f *Formatter) Raid(info tmi.RaidInfo) Line {
	return f.line(ReasonRaid, EventData{
		Channel:       info.Channel,
		Timestamp:     f.stamp(info.Tags),
		Raider:        info.Raider,
		Viewers:       info.Viewers,
		SystemMessage: info.SystemMessage,
	})
}

func (f *Formatter) Ritual(info tmi.RitualInfo) Line {
	return f.line(ReasonRitual, EventData{
		Channel:       info.Channel,
		Timestamp:     f.stamp(info.Tags),
		User:          info.User,
		Ritual:        info.Ritual,
		SystemMessage: info.SystemMessage,
	})
}
