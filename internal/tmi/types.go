package tmi

// Tags holds the IRCv3 message tags Twitch attaches to chat traffic.
type Tags struct {
	// DisplayName is the user's display name, which may differ from the
	// login name in capitalization or script. Empty if not supplied.
	DisplayName string

	// Timestamp is the server time the message was sent, in seconds since
	// the UNIX epoch. Zero if not supplied.
	Timestamp int64

	// TimeMilliseconds is the sub-second part of the server time.
	TimeMilliseconds int

	// Bits is the number of bits cheered with the message.
	Bits int

	// ID is the unique message id.
	ID string

	// Color is the user's chat color, e.g. "#1E90FF".
	Color string

	// Badges maps badge names to versions.
	Badges map[string]string

	// All holds every tag as received, after unescaping.
	All map[string]string
}

// MembershipInfo describes a user joining or leaving a channel.
type MembershipInfo struct {
	Channel string
	User    string
}

// MessageInfo describes a chat message.
type MessageInfo struct {
	Channel        string
	User           string
	MessageContent string

	// IsAction is set for "/me" messages. The CTCP framing has already been
	// stripped from MessageContent.
	IsAction bool

	Tags Tags
}

// NoticeInfo describes a server notice.
type NoticeInfo struct {
	// Channel is empty for notices not tied to a channel.
	Channel string
	ID      string
	Message string
}

// HostInfo describes a channel starting or stopping hosting another.
type HostInfo struct {
	On          bool
	Hosting     string
	BeingHosted string
	Viewers     int
}

// RoomModeChangeInfo describes a change to one room mode.
type RoomModeChangeInfo struct {
	ChannelName string
	Mode        string
	Parameter   int
}

// ClearType identifies the kind of a ClearInfo.
type ClearType int

const (
	ClearUnknown ClearType = iota
	ClearAll
	ClearMessage
	ClearTimeout
	ClearBan
)

// ClearInfo describes a moderation action clearing chat content.
type ClearInfo struct {
	Type    ClearType
	Channel string

	// User is the target of ClearMessage, ClearTimeout and ClearBan.
	User string

	// Reason is optional.
	Reason string

	// Duration is the timeout length in seconds.
	Duration int

	OffendingMessageID      string
	OffendingMessageContent string

	Tags Tags
}

// SubType identifies the kind of a SubInfo.
type SubType int

const (
	SubUnknown SubType = iota
	SubNew
	SubRenewal
	SubGifted
	SubMysteryGift
)

// SubInfo describes a subscription announcement.
type SubInfo struct {
	Type    SubType
	Channel string

	// User is the subscriber, or the gifter for gift types.
	User string

	PlanName string
	Plan     string

	// Months is the cumulative number of months for renewals.
	Months int

	RecipientDisplayName string
	RecipientUserName    string

	// SenderCount is the gifter's running total of gifts, zero if hidden.
	SenderCount int

	// MassGiftCount is the number of subscriptions in a mystery gift.
	MassGiftCount int

	SystemMessage string
	UserMessage   string

	Tags Tags
}

// RaidInfo describes an incoming raid.
type RaidInfo struct {
	Channel       string
	Raider        string
	Viewers       int
	SystemMessage string
	Tags          Tags
}

// RitualInfo describes a chat ritual, such as a new chatter's first message.
type RitualInfo struct {
	Channel       string
	User          string
	Ritual        string
	SystemMessage string
	Tags          Tags
}
