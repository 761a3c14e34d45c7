// Package events turns Twitch chat events into human-readable lines.
//
// Every event kind has an EventReason. The reason selects both a text
// template and the level the line is published at:
//
//   - LevelError: clear and sub announcements of an unknown type
//   - LevelWarn: the server's imminent disconnect warning
//   - LevelNotice: notices, hosts, room modes, moderation, subs, raids,
//     rituals and any message carrying bits
//   - LevelInfo: chat messages and login/logout
//   - LevelVerbose: joins and leaves
//   - LevelDebug: configuration and exit requests
//
// Templates use text/template with the sprig function map, so a custom
// template may for example write {{.DisplayName | default .User}}.
//
// Usage:
//
//	f := events.NewFormatter()
//	line := f.Message(info)
//	sender.Send(line.Level, line.Text)
//
// Lines for events that carry a server timestamp start with
// "[HH:MM:SS.mmm channel]" in the local zone. Events without a timestamp
// show only the channel.
package events
