package events

import (
	"github.com/rhymu8354/Lurker/pkg/logging"
)

// EventReason identifies the kind of chat event being reported.
type EventReason string

// Session lifecycle reasons
const (
	// ReasonConfigured indicates the coordinator has been wired to its engine.
	ReasonConfigured EventReason = "Configured"

	// ReasonExiting indicates a logout was requested.
	ReasonExiting EventReason = "Exiting"

	// ReasonLoggedIn indicates the server accepted the login.
	ReasonLoggedIn EventReason = "LoggedIn"

	// ReasonLoggedOut indicates the session ended.
	ReasonLoggedOut EventReason = "LoggedOut"

	// ReasonDoom indicates the server will disconnect soon.
	ReasonDoom EventReason = "Doom"
)

// Channel membership and chat reasons
const (
	ReasonJoin    EventReason = "Join"
	ReasonLeave   EventReason = "Leave"
	ReasonMessage EventReason = "Message"

	// ReasonAction is a "/me" message.
	ReasonAction EventReason = "Action"

	// ReasonNotice is a server NOTICE, optionally tied to a channel.
	ReasonNotice EventReason = "Notice"

	ReasonHostOn   EventReason = "HostOn"
	ReasonHostOff  EventReason = "HostOff"
	ReasonRoomMode EventReason = "RoomMode"
	ReasonRaid     EventReason = "Raid"
	ReasonRitual   EventReason = "Ritual"
)

// Moderation reasons
const (
	ReasonClearAll     EventReason = "ClearAll"
	ReasonClearMessage EventReason = "ClearMessage"
	ReasonTimeout      EventReason = "Timeout"
	ReasonBan          EventReason = "Ban"

	// ReasonClearUnknown is a clear announcement of a type we do not know.
	ReasonClearUnknown EventReason = "ClearUnknown"
)

// Subscription reasons
const (
	ReasonSubNew         EventReason = "SubNew"
	ReasonSubRenewal     EventReason = "SubRenewal"
	ReasonSubGifted      EventReason = "SubGifted"
	ReasonSubMysteryGift EventReason = "SubMysteryGift"

	// ReasonSubUnknown is a sub announcement of a type we do not know.
	ReasonSubUnknown EventReason = "SubUnknown"
)

// EventData holds the values an event template may refer to.
type EventData struct {
	// Channel is the channel the event happened in, without "#".
	Channel string

	// Timestamp is the formatted server time of the event, or empty.
	Timestamp string

	// User is the login name of the user the event is about.
	User string

	// DisplayName is the user's display name, if the server sent one.
	DisplayName string

	// Text is the message body or notice text.
	Text string

	// ID is the server's identifier for a notice.
	ID string

	Bits    int
	Viewers int

	// Target is the channel being hosted.
	Target string

	Mode      string
	Parameter int

	Reason   string
	Duration int
	Content  string

	PlanName      string
	Months        int
	Recipient     string
	SenderCount   int
	MassGiftCount int
	SystemMessage string
	UserMessage   string

	Raider string
	Ritual string
}

// Line is one formatted line ready to be published as a diagnostic.
type Line struct {
	Level logging.LogLevel
	Text  string
}

// getLevel returns the level a given EventReason is published at.
func getLevel(reason EventReason) logging.LogLevel {
	switch reason {
	case ReasonClearUnknown,
		ReasonSubUnknown:
		return logging.LevelError
	case ReasonDoom:
		return logging.LevelWarn
	case ReasonNotice,
		ReasonHostOn,
		ReasonHostOff,
		ReasonRoomMode,
		ReasonRaid,
		ReasonRitual,
		ReasonClearAll,
		ReasonClearMessage,
		ReasonTimeout,
		ReasonBan,
		ReasonSubNew,
		ReasonSubRenewal,
		ReasonSubGifted,
		ReasonSubMysteryGift:
		return logging.LevelNotice
	case ReasonJoin,
		ReasonLeave:
		return logging.LevelVerbose
	case ReasonConfigured,
		ReasonExiting:
		return logging.LevelDebug
	default:
		return logging.LevelInfo
	}
}
