/*
Package cobrowse implements the server side of the cobrowsing demo: issuing SDK tokens for
customers and agents, and pairing them through short-lived PIN sessions.

Every operation returns its result or an error to the caller; session handles are values the
caller keeps, so concurrent sessions never share state beyond the Store.
*/
package cobrowse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"cobrowse/internal/app/session"
	"cobrowse/internal/configs"
	"cobrowse/internal/pkg/auth/token"
	"cobrowse/internal/pkg/logx"
	"cobrowse/internal/pkg/randx"
)

// maxPINAttempts bounds how often StartSession retries after a PIN collision.
const maxPINAttempts = 5

var (
	// ErrCredentialsMissing is returned when the SDK key or secret is unset or a placeholder.
	ErrCredentialsMissing = errors.New("cobrowse credentials are not configured")

	// ErrInvalidRole is returned for roles other than customer and agent.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidPIN is returned when a PIN does not have the expected shape.
	ErrInvalidPIN = errors.New("invalid pin")

	// ErrAlreadyJoined is returned when an agent tries to join an active session.
	ErrAlreadyJoined = errors.New("session already joined")

	// ErrNotParticipant is returned when the caller's token belongs to neither side of a session.
	ErrNotParticipant = errors.New("caller is not a participant of the session")
)

// IssuedToken is a signed SDK token together with what the page needs to use it.
type IssuedToken struct {
	Token    string
	Role     int
	Lifetime int
	Domain   string
	UserID   string
}

// Handle is returned to whoever started or joined a session.
type Handle struct {
	Session session.Session
	IssuedToken
}

// Inspection is the decoded view of a token plus whether its signature matches our secret.
type Inspection struct {
	Header token.Header
	Claims token.Claims
	Valid  bool
}

// Service issues tokens and manages PIN sessions.
type Service struct {
	cfg    *configs.AppConfig
	codec  *token.Codec
	store  session.Store
	now    func() time.Time
	newPIN func() (string, error)
	logger zerolog.Logger
}

// NewService wires a Service from configuration, a token codec and a session store.
func NewService(cfg *configs.AppConfig, codec *token.Codec, store session.Store) *Service {
	return &Service{
		cfg:    cfg,
		codec:  codec,
		store:  store,
		now:    time.Now,
		newPIN: randx.PIN,
		logger: logx.Component("Cobrowse"),
	}
}

// Domain returns the SDK routing domain.
func (s *Service) Domain() string {
	return s.cfg.Domain
}

// IssueToken signs a token for role. A non-positive lifetime selects the configured default.
func (s *Service) IssueToken(role, lifetimeSeconds int) (*IssuedToken, error) {
	if !s.cfg.CredentialsConfigured() {
		return nil, ErrCredentialsMissing
	}
	if role != token.RoleCustomer && role != token.RoleAgent {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRole, role)
	}
	if lifetimeSeconds <= 0 {
		lifetimeSeconds = s.cfg.TokenLifetimeSeconds
	}

	signed, err := s.codec.Encode(s.cfg.AppKey, s.cfg.AppSecret, role, lifetimeSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	_, claims, err := s.codec.Decode(signed)
	if err != nil {
		return nil, fmt.Errorf("failed to read back issued token: %w", err)
	}

	s.logger.Debug().Int("role", role).Str("user_id", claims.UserID).Int("lifetime", lifetimeSeconds).Msg("Token issued.")

	return &IssuedToken{
		Token:    signed,
		Role:     role,
		Lifetime: lifetimeSeconds,
		Domain:   s.cfg.Domain,
		UserID:   claims.UserID,
	}, nil
}

// StartSession allocates a PIN, stores a pending session and issues the customer token.
func (s *Service) StartSession(ctx context.Context) (*Handle, error) {
	issued, err := s.IssueToken(token.RoleCustomer, 0)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &session.Session{
		ID:         randx.SessionID(),
		State:      session.StatePending,
		CustomerID: issued.UserID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(s.cfg.SessionLifetimeSeconds) * time.Second),
	}

	for attempt := 1; ; attempt++ {
		pin, err := s.newPIN()
		if err != nil {
			return nil, fmt.Errorf("failed to generate pin: %w", err)
		}
		sess.PIN = pin

		err = s.store.Create(ctx, sess)
		if err == nil {
			break
		}
		if !errors.Is(err, session.ErrPINExists) || attempt >= maxPINAttempts {
			return nil, err
		}

		s.logger.Warn().Int("attempt", attempt).Msg("PIN collision, retrying.")
	}

	s.logger.Info().Str("session_id", sess.ID).Msg("Session started.")

	return &Handle{Session: *sess, IssuedToken: *issued}, nil
}

// JoinSession lets an agent join the pending session behind pin and issues the agent token.
func (s *Service) JoinSession(ctx context.Context, pin string) (*Handle, error) {
	if !randx.IsValidPIN(pin) {
		return nil, ErrInvalidPIN
	}
	if !s.cfg.CredentialsConfigured() {
		return nil, ErrCredentialsMissing
	}

	pending, err := s.store.Get(ctx, pin)
	if err != nil {
		return nil, err
	}
	if pending.State != session.StatePending {
		return nil, ErrAlreadyJoined
	}

	issued, err := s.IssueToken(token.RoleAgent, 0)
	if err != nil {
		return nil, err
	}

	sess, err := s.store.Activate(ctx, pin, issued.UserID)
	if err != nil {
		if errors.Is(err, session.ErrAlreadyActive) {
			return nil, ErrAlreadyJoined
		}
		return nil, err
	}

	s.logger.Info().Str("session_id", sess.ID).Msg("Agent joined session.")

	return &Handle{Session: *sess, IssuedToken: *issued}, nil
}

// SessionStatus returns the current session behind pin to one of its participants.
func (s *Service) SessionStatus(ctx context.Context, pin, callerID string) (*session.Session, error) {
	if !randx.IsValidPIN(pin) {
		return nil, ErrInvalidPIN
	}

	sess, err := s.store.Get(ctx, pin)
	if err != nil {
		return nil, err
	}
	if !sess.HasParticipant(callerID) {
		return nil, ErrNotParticipant
	}

	return sess, nil
}

// EndSession removes the session behind pin. callerID must be the customer or agent user_id.
func (s *Service) EndSession(ctx context.Context, pin, callerID string) error {
	if !randx.IsValidPIN(pin) {
		return ErrInvalidPIN
	}

	sess, err := s.store.Get(ctx, pin)
	if err != nil {
		return err
	}
	if !sess.HasParticipant(callerID) {
		return ErrNotParticipant
	}

	if err := s.store.Delete(ctx, pin); err != nil {
		return err
	}

	s.logger.Info().Str("session_id", sess.ID).Msg("Session ended.")
	return nil
}

// Inspect decodes a token and checks it against the configured secret.
func (s *Service) Inspect(tokenString string) (*Inspection, error) {
	header, claims, err := s.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	valid := false
	if s.cfg.CredentialsConfigured() {
		valid, err = s.codec.Verify(tokenString, s.cfg.AppSecret)
		if err != nil {
			return nil, err
		}
	}

	return &Inspection{Header: header, Claims: claims, Valid: valid}, nil
}
