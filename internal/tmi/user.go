package tmi

// User receives the events of a Messaging session. All methods are called
// on the engine's processing goroutine, one at a time, and must return
// quickly.
type User interface {
	// Doom is called when the server announces it will disconnect soon.
	Doom()

	// LogIn is called once the server has accepted the login.
	LogIn()

	// LogOut is called when the session has ended for any reason,
	// including a failed login.
	LogOut()

	Join(info MembershipInfo)
	Leave(info MembershipInfo)
	Message(info MessageInfo)
	Notice(info NoticeInfo)
	Host(info HostInfo)
	RoomModeChange(info RoomModeChangeInfo)
	Clear(info ClearInfo)
	Sub(info SubInfo)
	Raid(info RaidInfo)
	Ritual(info RitualInfo)
}

// Connection is the transport a Messaging session runs over. Each
// received line is handed to the message delegate without its line ending.
type Connection interface {
	Connect() error
	Disconnect()
	Send(line string) error
	SetMessageReceivedDelegate(delegate func(line string))
	SetDisconnectedDelegate(delegate func())
}

// ConnectionFactory creates a fresh connection for each login attempt. It
// returns nil if no connection can be made.
type ConnectionFactory func() Connection
