// Package lurker coordinates an anonymous Twitch chat session.
//
// A Lurker moves through these states:
//
//	Unconfigured -> Configured -> LoggingIn -> LoggedIn -> LoggingOut -> LoggedOut
//
// Configure wires it to a protocol Engine (tmi.Messaging by default) and a
// diagnostics delegate. InitiateLogIn and InitiateLogOut only queue work on
// the engine; the engine reports progress through the tmi.User callbacks
// that Lurker implements. Every chat event is turned into a line by the
// events package and published as a diagnostic under the "Lurker" source.
//
// While logged in a maintenance worker goroutine wakes every
// WorkerPollInterval. It is always stopped before the session is marked
// logged out.
//
// A controlling goroutine waits for the end of the session by calling
// AwaitLogOut with a short timeout in a loop, checking for interrupts
// between calls:
//
//	for !l.AwaitLogOut(250 * time.Millisecond) {
//		if ctx.Err() != nil {
//			break
//		}
//	}
//	l.InitiateLogOut()
//	l.AwaitLogOut(time.Second)
package lurker
