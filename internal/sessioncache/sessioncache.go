// Package sessioncache holds short-lived STS sessions in memory and
// collapses concurrent refreshes of a stale session into a single
// upstream call.
package sessioncache

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired is returned by Get when the cached session is absent
// or no longer usable.
var ErrSessionExpired = errors.New("session expired")

// DefaultWindow is how long before the hard expiration a session stops
// being handed out, leaving room to mint a replacement while the old set
// still signs requests.
const DefaultWindow = 5 * time.Minute

// Session is one cached credential set, named for the role session that
// produced it.
type Session struct {
	Name string
	sts.Credentials
}

// Expired reports whether the session is unusable at time t with the
// given safety window before its hard expiration.
func (s *Session) Expired(t time.Time, window time.Duration) bool {
	if s.Expiration == nil {
		return true
	}
	return !s.Expiration.Add(-window).After(t)
}

// RefreshFunc produces a fresh session, typically with an STS AssumeRole
// call.
type RefreshFunc func(ctx context.Context) (*Session, error)

// Store caches a single session and guarantees at most one refresh call
// is in flight at any time. The zero value is ready to use.
type Store struct {
	// Window overrides DefaultWindow when set.
	Window time.Duration

	mu      sync.Mutex
	session *Session
	flight  singleflight.Group
}

func (s *Store) window() time.Duration {
	if s.Window != 0 {
		return s.Window
	}
	return DefaultWindow
}

// Get returns the cached session, or ErrSessionExpired when there is none
// or it is inside the expiry window.
func (s *Store) Get() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || s.session.Expired(time.Now(), s.window()) {
		return nil, ErrSessionExpired
	}
	return s.session, nil
}

// Put replaces the cached session as a whole unit.
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
}

// Fetch returns the cached session if it is still valid, and otherwise
// refreshes it. Concurrent callers share one refresh call and all observe
// its session or its error. The refresh runs detached from ctx: a caller
// abandoning its wait does not abort the refresh for the rest, and the
// new session is cached for whoever asks next. A failed refresh caches
// nothing, so the next Fetch retries.
func (s *Store) Fetch(ctx context.Context, refresh RefreshFunc) (*Session, error) {
	if sess, err := s.Get(); err == nil {
		return sess, nil
	}

	ch := s.flight.DoChan("session", func() (interface{}, error) {
		// A caller racing with a completed flight can arrive here after
		// the winner already cached a fresh session.
		if sess, err := s.Get(); err == nil {
			return sess, nil
		}
		sess, err := refresh(context.Background())
		if err != nil {
			return nil, err
		}
		s.Put(sess)
		return sess, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Session), nil
	case <-ctx.Done():
		log.Debugf("Abandoning wait for session refresh: %s", ctx.Err())
		return nil, ctx.Err()
	}
}
