package ucp

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kevin07696/ucp-client/internal/adapters/ports"
	"github.com/kevin07696/ucp-client/internal/domain"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
	"github.com/kevin07696/ucp-client/pkg/timeutil"
)

// SessionState is the authentication state of a gateway connection
type SessionState int

const (
	// StateUnauthenticated - no token; the next write signs in
	StateUnauthenticated SessionState = iota
	// StateAuthenticating - a sign-in request is in flight
	StateAuthenticating
	// StateAuthenticated - a token is held and attached to requests
	StateAuthenticated
	// StateFailed - the last sign-in failed; the next write tries again
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrNotSignedIn is returned by read operations when no session exists
var ErrNotSignedIn = pkgerrors.NewAuthenticationError("not signed in", nil)

// ErrSessionExpired is returned by read operations when the token lifetime has elapsed
var ErrSessionExpired = pkgerrors.NewAuthenticationError("session expired", nil)

// SignInFunc performs one sign-in round trip
type SignInFunc func(ctx context.Context) (*domain.SessionToken, error)

const signInKey = "sign-in"

// SessionManager owns the session token. All state transitions go through mu;
// sign-ins are coordinated through a singleflight group so concurrent callers
// share one request and observe the same token or the same failure.
type SessionManager struct {
	mu         sync.RWMutex
	state      SessionState
	token      *domain.SessionToken
	lastErr    error
	generation uint64 // bumped by SignOut so a late sign-in cannot resurrect a cleared session

	group         singleflight.Group
	signIn        SignInFunc
	signInTimeout time.Duration // bounds a shared sign-in; zero leaves it to the caller's deadline
	now           func() time.Time
	logger        ports.Logger
}

// NewSessionManager creates a session manager in the Unauthenticated state
func NewSessionManager(signIn SignInFunc, logger ports.Logger) *SessionManager {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &SessionManager{
		state:  StateUnauthenticated,
		signIn: signIn,
		now:    timeutil.Now,
		logger: logger,
	}
}

// State returns the current session state (thread-safe)
func (s *SessionManager) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastError returns the error of the last failed sign-in, if the session is Failed
func (s *SessionManager) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Token returns the current token without signing in. Read paths use it.
func (s *SessionManager) Token() (*domain.SessionToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateAuthenticated || s.token == nil {
		return nil, ErrNotSignedIn
	}
	if s.token.Expired(s.now()) {
		return nil, ErrSessionExpired
	}
	return s.token, nil
}

// EnsureAuthenticated returns a usable token, signing in when there is none.
// It is a no-op while Authenticated with an unexpired token.
func (s *SessionManager) EnsureAuthenticated(ctx context.Context) (*domain.SessionToken, error) {
	if tok := s.usableToken(); tok != nil {
		return tok, nil
	}
	return s.authenticate(ctx, false)
}

// SignIn forces a fresh sign-in, replacing any held token
func (s *SessionManager) SignIn(ctx context.Context) (*domain.SessionToken, error) {
	return s.authenticate(ctx, true)
}

// SignOut clears the local session. The gateway exposes no sign-out endpoint,
// so no request is sent.
func (s *SessionManager) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	s.lastErr = nil
	s.state = StateUnauthenticated
	s.generation++
	s.logger.Info("signed out of gateway session")
}

// Invalidate drops tok if it is still the held token. The connector calls it
// when the gateway rejects a token so the next write signs in again.
func (s *SessionManager) Invalidate(tok *domain.SessionToken) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok == nil || s.token != tok {
		return
	}
	s.token = nil
	s.state = StateUnauthenticated
	s.logger.Warn("gateway rejected session token, session cleared")
}

func (s *SessionManager) usableToken() *domain.SessionToken {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == StateAuthenticated && s.token != nil && !s.token.Expired(s.now()) {
		return s.token
	}
	return nil
}

// authenticate joins or starts the shared sign-in. The flight is detached from
// the starting caller's cancellation so one caller giving up does not fail the
// others; each caller still stops waiting when its own ctx ends.
func (s *SessionManager) authenticate(ctx context.Context, force bool) (*domain.SessionToken, error) {
	ch := s.group.DoChan(signInKey, func() (interface{}, error) {
		// A flight that finished just before this one started already did the work
		if !force {
			if tok := s.usableToken(); tok != nil {
				return tok, nil
			}
		}

		flightCtx := context.WithoutCancel(ctx)
		if s.signInTimeout > 0 {
			var cancel context.CancelFunc
			flightCtx, cancel = context.WithTimeout(flightCtx, s.signInTimeout)
			defer cancel()
		}
		return s.runSignIn(flightCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.SessionToken), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *SessionManager) runSignIn(ctx context.Context) (*domain.SessionToken, error) {
	s.mu.Lock()
	// A refresh keeps serving the held token until the new one replaces it
	if s.state != StateAuthenticated || s.token == nil {
		s.state = StateAuthenticating
	}
	gen := s.generation
	s.mu.Unlock()

	start := time.Now()
	tok, err := s.signIn(ctx)
	if err == nil && tok == nil {
		err = errors.New("sign-in returned no token")
	}
	if err != nil {
		var authErr *pkgerrors.AuthenticationError
		if !errors.As(err, &authErr) {
			err = pkgerrors.NewAuthenticationError("sign-in failed", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// SignOut ran while the request was in flight
		if err == nil {
			err = pkgerrors.NewAuthenticationError("session was signed out during sign-in", nil)
		}
		return nil, err
	}

	if err != nil {
		s.state = StateFailed
		s.token = nil
		s.lastErr = err
		signInsTotal.WithLabelValues("failure").Inc()
		s.logger.Error("gateway sign-in failed",
			ports.Err(err),
			ports.Duration("elapsed", time.Since(start)),
		)
		return nil, err
	}

	s.state = StateAuthenticated
	s.token = tok
	s.lastErr = nil
	signInsTotal.WithLabelValues("success").Inc()
	s.logger.Info("gateway sign-in succeeded",
		ports.String("app_name", tok.AppName),
		ports.Int("seconds_to_expire", tok.SecondsToExpire),
		ports.Duration("elapsed", time.Since(start)),
	)
	return tok, nil
}
