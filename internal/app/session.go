package app

import (
	"context"

	"github.com/rhymu8354/Lurker/pkg/logging"
)

// runSession is the controlling loop. It polls for the end of the session
// with a bounded wait so that an interrupt is noticed promptly.
func (a *Application) runSession(ctx context.Context) {
	session := a.config.LurkerConfig.Session
	l := a.lurker

	l.Configure(a.report)
	l.InitiateLogIn(a.config.Channels)
	defer func() {
		l.InitiateLogOut()
		if !l.AwaitLogOut(session.ShutdownTimeout) {
			logging.Warn("Session", "Gave up waiting for logout after %s", session.ShutdownTimeout)
		}
	}()

	for !l.AwaitLogOut(session.LogOutPollInterval) {
		if ctx.Err() != nil {
			logging.Debug("Session", "Interrupted, logging out")
			return
		}
	}
}
