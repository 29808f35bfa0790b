package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// FetchState is the lifecycle of a user-data fetch cycle.
type FetchState int

const (
	StateIdle FetchState = iota
	StateFetching
	StateRetryPending
	StateSuccess
	StateFailed
)

func (s FetchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateRetryPending:
		return "retry-pending"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrProvisioningTimeout is the terminal failure after the user record
// still does not exist once every retry is spent. It is distinct from
// transport errors so the UI can show "account setup is taking longer
// than expected" instead of a generic failure.
var ErrProvisioningTimeout = errors.New("user record was not provisioned in time")

// Defaults for the retry schedule.
const (
	defaultRetryDelay  = 2 * time.Second
	defaultMaxAttempts = 3
)

// Scheduler defers a function call. The real implementation is the
// clock; tests substitute one they fire by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// UserLoader fetches the signed-in user's record into AppState, retrying
// while the identity webhook has not provisioned it yet.
//
// State machine:
//
//	Idle -> Fetching -> Success
//	                 -> RetryPending -> Fetching (repeat)
//	                 -> Failed
//
// Only ErrUserNotFound schedules a retry (fixed delay, bounded total
// attempts); any other error fails immediately. The loading flag turns
// on when the cycle starts and off exactly once when it reaches a
// terminal state, regardless of how many retries ran in between.
type UserLoader struct {
	client    *Client
	state     *AppState
	scheduler Scheduler

	retryDelay  time.Duration
	maxAttempts int

	mu       sync.Mutex
	fetchSt  FetchState
	attempts int
	lastErr  error

	// onDone, when set, observes terminal transitions. Used by UIs that
	// need a callback in addition to polling State().
	onDone func(error)
}

// NewUserLoader builds a loader over client and state with the standard
// retry schedule.
func NewUserLoader(c *Client, state *AppState) *UserLoader {
	return &UserLoader{
		client:      c,
		state:       state,
		scheduler:   clockScheduler{},
		retryDelay:  defaultRetryDelay,
		maxAttempts: defaultMaxAttempts,
	}
}

// WithScheduler substitutes the retry scheduler. Test hook.
func (l *UserLoader) WithScheduler(s Scheduler) *UserLoader {
	l.scheduler = s
	return l
}

// OnDone registers a callback fired once per cycle at the terminal
// state, with nil on success.
func (l *UserLoader) OnDone(f func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onDone = f
}

// State returns the current fetch state.
func (l *UserLoader) State() FetchState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fetchSt
}

// Err returns the terminal error of the last cycle, nil unless Failed.
func (l *UserLoader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Start begins a fetch cycle. While a cycle is pending (Fetching or
// RetryPending) further Starts are ignored; after a terminal state a new
// Start begins a fresh cycle.
func (l *UserLoader) Start(ctx context.Context) {
	l.mu.Lock()
	if l.fetchSt == StateFetching || l.fetchSt == StateRetryPending {
		l.mu.Unlock()
		return
	}
	l.fetchSt = StateFetching
	l.attempts = 0
	l.lastErr = nil
	l.mu.Unlock()

	l.state.SetLoading(true)
	l.fetch(ctx)
}

func (l *UserLoader) fetch(ctx context.Context) {
	l.mu.Lock()
	l.attempts++
	attempt := l.attempts
	l.mu.Unlock()

	user, err := l.client.FetchUserData(ctx)
	switch {
	case err == nil:
		l.state.SetUser(user)
		l.finish(StateSuccess, nil)

	case errors.Is(err, ErrUserNotFound):
		if attempt >= l.maxAttempts {
			l.finish(StateFailed, ErrProvisioningTimeout)
			return
		}
		l.mu.Lock()
		l.fetchSt = StateRetryPending
		l.mu.Unlock()
		l.scheduler.AfterFunc(l.retryDelay, func() {
			l.mu.Lock()
			if l.fetchSt != StateRetryPending {
				l.mu.Unlock()
				return
			}
			l.fetchSt = StateFetching
			l.mu.Unlock()
			l.fetch(ctx)
		})

	default:
		l.finish(StateFailed, err)
	}
}

func (l *UserLoader) finish(st FetchState, err error) {
	l.mu.Lock()
	l.fetchSt = st
	l.lastErr = err
	done := l.onDone
	l.mu.Unlock()

	l.state.SetLoading(false)
	if done != nil {
		done(err)
	}
}
