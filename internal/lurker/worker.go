package lurker

import (
	"time"
)

// worker is the maintenance goroutine that runs while logged in.
type worker struct {
	stop chan struct{}
	done chan struct{}
}

// startWorker starts the maintenance worker unless it is already running
// or the session has logged out.
func (l *Lurker) startWorker() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.worker != nil || l.logOutSeen {
		return
	}
	w := &worker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	l.worker = w
	go l.runWorker(w)
}

// stopWorker signals the worker and waits for it to exit. Once it returns
// no worker activity remains.
func (l *Lurker) stopWorker() {
	l.mu.Lock()
	w := l.worker
	l.worker = nil
	l.mu.Unlock()
	if w == nil {
		return
	}
	close(w.stop)
	<-w.done
}

func (l *Lurker) runWorker(w *worker) {
	defer close(w.done)
	for {
		timer := l.clock.NewTimer(l.pollInterval)
		select {
		case <-w.stop:
			timer.Stop()
			return
		case <-timer.C():
			l.maintain(l.clock.Now())
		}
	}
}

// maintain is one round of periodic upkeep. Nothing needs doing yet.
func (l *Lurker) maintain(now time.Time) {
	l.maintenanceRounds.Add(1)
}
