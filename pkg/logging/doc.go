// Package logging provides the diagnostics publishing system for lurker.
//
// Every diagnostic message is a triple of source name, level and text. Levels
// are integers where lower values are more significant: errors are level 0 and
// always shown, higher levels are progressively more verbose. Subscribers
// choose how verbose they want to be by subscribing with a maximum level.
//
// # Senders
//
// A Sender is a named publisher. Components own one Sender each and hand
// their subscribers to it:
//
//	sender := logging.NewSender("Lurker")
//	unsubscribe := sender.Subscribe(reporter.Report, logging.LevelInfo)
//	defer unsubscribe()
//
//	sender.Send(logging.LevelInfo, "Logged in.")
//	sender.Sendf(logging.LevelNotice, "[%s] Room mode %s: %d", channel, mode, parameter)
//
// Senders can be chained so that the messages of an inner component are
// republished by an outer one with a combined source name ("Lurker/TMI"):
//
//	engine.SubscribeToDiagnostics(sender.Chain(), logging.LevelDebug)
//
// # Reporters
//
// A StreamReporter is the terminal subscriber that renders messages to an
// output stream and an error stream, either as plain text lines or as
// JSON produced by a log/slog handler.
//
// # Subsystem Helpers
//
// Code outside the session (configuration loading, file watching, bootstrap)
// logs through the package-level helpers, which publish to the delegate
// installed with Init or InitForCLI:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
//	logging.Error("Bootstrap", err, "Failed to load configuration")
//
// # Thread Safety
//
// Senders, reporters and the package-level helpers are safe for concurrent
// use. Delegates are always invoked without any sender lock held, so a
// delegate may itself publish diagnostics.
package logging
