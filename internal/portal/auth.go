package portal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rosterhound/internal/automation"
	"rosterhound/internal/config"
)

// AuthState is one step of the login state machine.
type AuthState int

const (
	StateIdle AuthState = iota
	StateNavigating
	StateLoginFormSearch
	StateCredentialsEntry
	StateSubmitted
	StateAuthenticated
	StateRejected
)

func (s AuthState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNavigating:
		return "navigating"
	case StateLoginFormSearch:
		return "login_form_search"
	case StateCredentialsEntry:
		return "credentials_entry"
	case StateSubmitted:
		return "submitted"
	case StateAuthenticated:
		return "authenticated"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Session is the handle to one authenticated portal context. It is owned by
// exactly one pipeline run and discarded when the run ends. Month and Year
// track the calendar month currently displayed by the portal.
type Session struct {
	ID            string
	Authenticated bool
	Month         time.Month
	Year          int
}

// Authenticator drives the identity-provider login form.
type Authenticator struct {
	drv   automation.Driver
	cfg   config.PortalConfig
	log   *zap.Logger
	state AuthState
}

// NewAuthenticator returns an authenticator in the idle state.
func NewAuthenticator(drv automation.Driver, cfg config.PortalConfig, log *zap.Logger) *Authenticator {
	return &Authenticator{
		drv:   drv,
		cfg:   cfg,
		log:   log.Named("auth"),
		state: StateIdle,
	}
}

// State reports the machine's current state.
func (a *Authenticator) State() AuthState { return a.state }

// Login runs the state machine to completion: Idle → Navigating →
// LoginFormSearch → CredentialsEntry → Submitted → Authenticated or Rejected.
// Rejection is terminal and never retried here.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*Session, error) {
	a.state = StateNavigating
	a.log.Info("navigating to login page", zap.String("url", a.cfg.LoginURL))
	if err := a.drv.Navigate(ctx, a.cfg.LoginURL, 0); err != nil {
		return nil, &NavigationTimeoutError{Stage: "login navigation", Err: err}
	}

	a.state = StateLoginFormSearch
	userField, err := a.drv.WaitForElement(ctx, a.cfg.UsernameSelectors, a.cfg.SelectorTimeout())
	if err != nil {
		a.log.Error("username field not found", zap.Strings("candidates", a.cfg.UsernameSelectors))
		return nil, fmt.Errorf("%w: username: %v", ErrFieldNotFound, err)
	}
	passField, err := a.drv.WaitForElement(ctx, a.cfg.PasswordSelectors, a.cfg.SelectorTimeout())
	if err != nil {
		a.log.Error("password field not found", zap.Strings("candidates", a.cfg.PasswordSelectors))
		return nil, fmt.Errorf("%w: password: %v", ErrFieldNotFound, err)
	}

	a.state = StateCredentialsEntry
	if err := userField.Clear(); err != nil {
		return nil, fmt.Errorf("clear username: %w", err)
	}
	if err := userField.Input(username); err != nil {
		return nil, fmt.Errorf("fill username: %w", err)
	}
	if err := passField.Clear(); err != nil {
		return nil, fmt.Errorf("clear password: %w", err)
	}
	if err := passField.Input(password); err != nil {
		return nil, fmt.Errorf("fill password: %w", err)
	}

	a.state = StateSubmitted
	if submit, err := a.drv.WaitForElement(ctx, a.cfg.SubmitSelectors, a.cfg.SelectorTimeout()); err == nil {
		if err := submit.Click(); err != nil {
			return nil, fmt.Errorf("click submit: %w", err)
		}
	} else {
		a.log.Debug("no submit control found, sending enter")
		if err := a.drv.PressEnter(ctx); err != nil {
			return nil, fmt.Errorf("confirm login: %w", err)
		}
	}

	if err := settle(ctx, a.cfg.Settle()); err != nil {
		return nil, err
	}

	url, title, err := a.drv.PageInfo(ctx)
	if err != nil {
		return nil, &NavigationTimeoutError{Stage: "post-login inspection", Err: err}
	}
	if a.stillOnIdentityProvider(url, title) {
		a.state = StateRejected
		a.log.Warn("login rejected", zap.String("url", url), zap.String("title", title))
		return nil, ErrInvalidCredentials
	}

	a.state = StateAuthenticated
	sess := &Session{
		ID:            uuid.NewString(),
		Authenticated: true,
	}
	a.log.Info("authenticated", zap.String("session", sess.ID))
	return sess, nil
}

// stillOnIdentityProvider checks the resulting URL/title for identity-provider
// markers; any hit means the form bounced the credentials.
func (a *Authenticator) stillOnIdentityProvider(url, title string) bool {
	haystack := strings.ToLower(url + " " + title)
	for _, marker := range a.cfg.IdentityMarkers {
		if strings.Contains(haystack, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// settle waits the fixed post-action interval, honoring cancellation.
func settle(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
