package ui

import (
	"time"
)

// Timer is a pending callback returned by Scheduler.AfterFunc.
type Timer interface {
	// Stop cancels the callback. It reports whether the callback was still
	// pending.
	Stop() bool
}

// Scheduler runs callbacks on the UI goroutine after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// LoopScheduler is a Scheduler backed by runtime timers. Expired callbacks
// are handed to post, which must run them on the UI goroutine.
type LoopScheduler struct {
	post func(func())
}

func NewLoopScheduler(post func(f func())) *LoopScheduler {
	return &LoopScheduler{
		post: post,
	}
}

type loopTimer struct {
	t *time.Timer
	// stopped is only accessed from the UI goroutine, both by Stop and by
	// the posted callback.
	stopped bool
}

func (t *loopTimer) Stop() bool {
	t.t.Stop()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (s *LoopScheduler) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		s.post(func() {
			if lt.stopped {
				return
			}
			lt.stopped = true
			f()
		})
	})
	return lt
}

type timerReceiver struct {
	key any
	f   func()
}

// SharedTimer is a recurring tick shared by several receivers. It only runs
// while at least one receiver is registered.
type SharedTimer struct {
	sched    Scheduler
	interval time.Duration

	receivers []timerReceiver
	pending   Timer
}

func NewSharedTimer(sched Scheduler, interval time.Duration) *SharedTimer {
	return &SharedTimer{
		sched:    sched,
		interval: interval,
	}
}

// Active reports whether the timer is ticking.
func (t *SharedTimer) Active() bool {
	return t.pending != nil
}

// Register adds f, called on every tick, under key. Registering a key twice
// replaces its callback.
func (t *SharedTimer) Register(key any, f func()) {
	for i := range t.receivers {
		if t.receivers[i].key == key {
			t.receivers[i].f = f
			return
		}
	}
	t.receivers = append(t.receivers, timerReceiver{
		key: key,
		f:   f,
	})
	if t.pending == nil {
		t.schedule()
	}
}

// Unregister removes the receiver registered under key. The timer stops when
// no receiver is left.
func (t *SharedTimer) Unregister(key any) {
	for i := range t.receivers {
		if t.receivers[i].key == key {
			t.receivers = append(t.receivers[:i], t.receivers[i+1:]...)
			break
		}
	}
	if len(t.receivers) == 0 && t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

func (t *SharedTimer) schedule() {
	t.pending = t.sched.AfterFunc(t.interval, t.tick)
}

func (t *SharedTimer) tick() {
	t.pending = nil
	// Receivers may unregister themselves from their callback.
	receivers := append([]timerReceiver(nil), t.receivers...)
	for _, r := range receivers {
		r.f()
	}
	if len(t.receivers) > 0 && t.pending == nil {
		t.schedule()
	}
}
