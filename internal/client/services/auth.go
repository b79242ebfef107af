// Package services contains the client's state managers. This file defines
// the authentication service: the session state machine behind sign-in,
// sign-up, sign-out and the silent restore of a stored session.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/cafecatalog/internal/client/client"
	"github.com/dmitrijs2005/cafecatalog/internal/client/models"
	"github.com/dmitrijs2005/cafecatalog/internal/client/tokenstore"
	"github.com/dmitrijs2005/cafecatalog/internal/logging"
)

// AuthService owns the Session.
//
// Contract:
//   - RestoreSession: once at startup; Checking → Authenticated or NotAuthenticated.
//   - SignIn / SignUp: Authenticated on success; on failure LastError is set
//     and an already authenticated session is kept.
//   - SignOut: forget the stored token; idempotent.
//   - DismissError: clear LastError, nothing else.
//
// None of the operations return errors: every failure, transport or server,
// ends up in Session.LastError. Readers use Snapshot or Subscribe.
type AuthService interface {
	RestoreSession(ctx context.Context)
	SignIn(ctx context.Context, data models.LoginData)
	SignUp(ctx context.Context, data models.RegisterData)
	SignOut(ctx context.Context)
	DismissError()
	Snapshot() models.Session
	Subscribe(fn func(models.Session)) (unsubscribe func())
}

type authService struct {
	api    client.AuthAPI
	tokens tokenstore.Store
	log    logging.Logger

	mu    sync.Mutex
	state models.Session
	subs  *observers[models.Session]
}

// NewAuthService constructs an AuthService in the Checking state.
func NewAuthService(api client.AuthAPI, tokens tokenstore.Store, log logging.Logger) AuthService {
	return &authService{
		api:    api,
		tokens: tokens,
		log:    log.With("component", "auth"),
		state:  models.Session{Status: models.StatusChecking},
		subs:   newObservers(models.Session.Clone),
	}
}

func (a *authService) Snapshot() models.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Clone()
}

func (a *authService) Subscribe(fn func(models.Session)) func() {
	return a.subs.add(fn)
}

func (a *authService) update(fn func(s *models.Session)) {
	a.mu.Lock()
	fn(&a.state)
	snap := a.state.Clone()
	a.mu.Unlock()

	a.subs.notify(snap)
}

// RestoreSession validates a stored token with the server. Without a stored
// token no request is made. A rejected token is left in the store.
func (a *authService) RestoreSession(ctx context.Context) {
	token, err := a.tokens.Load(ctx)
	if err != nil {
		a.log.Warn(ctx, "reading stored token failed", "error", err)
		token = ""
	}
	if token == "" {
		a.update(signedOut)
		return
	}

	resp, err := a.api.ValidateSession(ctx)
	if err != nil {
		a.log.Info(ctx, "stored session not accepted", "error", err)
		a.update(signedOut)
		return
	}

	if resp.Token == "" {
		resp.Token = token
	} else if err := a.tokens.Save(ctx, resp.Token); err != nil {
		a.log.Error(ctx, "saving refreshed token failed", "error", err)
		a.update(signedOut)
		return
	}

	a.update(a.signedIn(ctx, resp))
}

// SignIn logs in with e-mail and password. The failure message is the
// server's "msg", or MsgSignInFailed.
func (a *authService) SignIn(ctx context.Context, data models.LoginData) {
	a.authenticate(ctx, "sign_in", signInMessage, func() (*models.AuthResponse, error) {
		return a.api.Login(ctx, data)
	})
}

// SignUp registers a new account and logs it in. The failure message is the
// first field-validation error, else the server's "msg", else MsgSignUpFailed.
func (a *authService) SignUp(ctx context.Context, data models.RegisterData) {
	a.authenticate(ctx, "sign_up", signUpMessage, func() (*models.AuthResponse, error) {
		return a.api.Register(ctx, data)
	})
}

// authenticate persists the new token before publishing the Authenticated
// state, so a listener reacting to the transition already sends it.
func (a *authService) authenticate(ctx context.Context, op string, message func(error) string, call func() (*models.AuthResponse, error)) {
	resp, err := call()
	if err == nil && resp.Token == "" {
		err = errMissingToken
	}
	if err != nil {
		a.fail(ctx, op, err, message(err))
		return
	}

	if err := a.tokens.Save(ctx, resp.Token); err != nil {
		a.fail(ctx, op, err, MsgSessionNotSaved)
		return
	}

	a.update(a.signedIn(ctx, resp))
	a.log.Info(ctx, "signed in", "op", op, "user", resp.User.Email)
}

func (a *authService) fail(ctx context.Context, op string, err error, msg string) {
	a.log.Warn(ctx, "authentication failed", "op", op, "error", err)
	a.update(func(s *models.Session) {
		if s.Status != models.StatusAuthenticated {
			signedOut(s)
		}
		s.LastError = msg
	})
}

// SignOut removes the stored token and clears the session. When the store
// cannot be cleared the session is still cleared in memory and LastError
// says so.
func (a *authService) SignOut(ctx context.Context) {
	err := a.tokens.Remove(ctx)
	if err != nil {
		a.log.Error(ctx, "removing stored token failed", "error", err)
	}

	a.update(func(s *models.Session) {
		signedOut(s)
		if err != nil {
			s.LastError = MsgSignOutFailed
		}
	})
}

func (a *authService) DismissError() {
	a.update(func(s *models.Session) {
		s.LastError = ""
	})
}

func (a *authService) signedIn(ctx context.Context, resp *models.AuthResponse) func(s *models.Session) {
	user := resp.User
	exp := tokenExpiry(ctx, a.log, resp.Token)

	return func(s *models.Session) {
		s.Status = models.StatusAuthenticated
		s.Token = resp.Token
		s.User = &user
		s.ExpiresAt = exp
		s.LastError = ""
	}
}

func signedOut(s *models.Session) {
	s.Status = models.StatusNotAuthenticated
	s.Token = ""
	s.User = nil
	s.ExpiresAt = time.Time{}
}

func tokenExpiry(ctx context.Context, log logging.Logger, token string) time.Time {
	claims, err := client.ParseTokenClaims(token)
	if err != nil {
		log.Debug(ctx, "token claims not readable", "error", err)
		return time.Time{}
	}
	return claims.Expiry()
}

func signInMessage(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.Msg != "" {
		return apiErr.Msg
	}
	return MsgSignInFailed
}

func signUpMessage(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok {
		if m := apiErr.FirstFieldError(); m != "" {
			return m
		}
		if apiErr.Msg != "" {
			return apiErr.Msg
		}
	}
	return MsgSignUpFailed
}
