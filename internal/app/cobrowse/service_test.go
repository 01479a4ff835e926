package cobrowse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cobrowse/internal/app/session"
	"cobrowse/internal/configs"
	"cobrowse/internal/pkg/auth/token"
)

func testConfig() *configs.AppConfig {
	return &configs.AppConfig{
		Environment:            "development",
		AppKey:                 "app-key",
		AppSecret:              "app-secret",
		Domain:                 "sdk.test",
		TokenLifetimeSeconds:   900,
		SessionLifetimeSeconds: 300,
	}
}

func newTestService(t *testing.T, cfg *configs.AppConfig) (*Service, *session.MemoryStore) {
	store := session.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	return NewService(cfg, token.NewCodec(), store), store
}

func TestIssueToken(t *testing.T) {
	svc, _ := newTestService(t, testConfig())

	issued, err := svc.IssueToken(token.RoleAgent, 0)
	require.NoError(t, err)

	assert.Equal(t, token.RoleAgent, issued.Role)
	assert.Equal(t, 900, issued.Lifetime)
	assert.Equal(t, "sdk.test", issued.Domain)

	_, claims, err := token.Decode(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "app-key", claims.AppKey)
	assert.Equal(t, issued.UserID, claims.UserID)
	assert.Equal(t, int64(900), claims.ExpiresAt-claims.IssuedAt)

	ok, err := token.Verify(issued.Token, "app-secret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIssueTokenRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t, testConfig())

	for _, role := range []int{0, 3, -1} {
		_, err := svc.IssueToken(role, 0)
		assert.ErrorIs(t, err, ErrInvalidRole)
	}
}

func TestIssueTokenRequiresCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.AppKey = configs.PlaceholderAppKey
	svc, _ := newTestService(t, cfg)

	_, err := svc.IssueToken(token.RoleCustomer, 0)
	assert.ErrorIs(t, err, ErrCredentialsMissing)

	_, err = svc.StartSession(context.Background())
	assert.ErrorIs(t, err, ErrCredentialsMissing)

	_, err = svc.JoinSession(context.Background(), "123456")
	assert.ErrorIs(t, err, ErrCredentialsMissing)
}

func TestStartJoinEndSession(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, testConfig())

	started, err := svc.StartSession(ctx)
	require.NoError(t, err)
	assert.Len(t, started.Session.PIN, 6)
	assert.Equal(t, session.StatePending, started.Session.State)
	assert.Equal(t, token.RoleCustomer, started.Role)
	assert.Equal(t, started.UserID, started.Session.CustomerID)
	assert.Equal(t, 1, store.Len())

	joined, err := svc.JoinSession(ctx, started.Session.PIN)
	require.NoError(t, err)
	assert.Equal(t, started.Session.ID, joined.Session.ID)
	assert.Equal(t, session.StateActive, joined.Session.State)
	assert.Equal(t, token.RoleAgent, joined.Role)
	assert.Equal(t, joined.UserID, joined.Session.AgentID)

	_, err = svc.JoinSession(ctx, started.Session.PIN)
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	status, err := svc.SessionStatus(ctx, started.Session.PIN, started.UserID)
	require.NoError(t, err)
	assert.Equal(t, session.StateActive, status.State)

	_, err = svc.SessionStatus(ctx, started.Session.PIN, "someone-else")
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.SessionStatus(ctx, "12ab", started.UserID)
	assert.ErrorIs(t, err, ErrInvalidPIN)

	err = svc.EndSession(ctx, started.Session.PIN, "someone-else")
	assert.ErrorIs(t, err, ErrNotParticipant)

	require.NoError(t, svc.EndSession(ctx, started.Session.PIN, joined.UserID))

	_, err = svc.JoinSession(ctx, started.Session.PIN)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestJoinSessionValidatesPIN(t *testing.T) {
	svc, _ := newTestService(t, testConfig())

	_, err := svc.JoinSession(context.Background(), "12ab56")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	_, err = svc.JoinSession(context.Background(), "000000")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestStartSessionRetriesPINCollision(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, testConfig())

	pins := []string{"111111", "111111", "222222"}
	svc.newPIN = func() (string, error) {
		p := pins[0]
		pins = pins[1:]
		return p, nil
	}

	first, err := svc.StartSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "111111", first.Session.PIN)

	second, err := svc.StartSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "222222", second.Session.PIN)
	assert.Equal(t, 2, store.Len())
}

func TestStartSessionGivesUpAfterRepeatedCollisions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, testConfig())
	svc.newPIN = func() (string, error) { return "999999", nil }

	_, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.StartSession(ctx)
	assert.ErrorIs(t, err, session.ErrPINExists)
}

func TestStartSessionPINGeneratorFailure(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	svc.newPIN = func() (string, error) { return "", errors.New("entropy exhausted") }

	_, err := svc.StartSession(context.Background())
	assert.ErrorContains(t, err, "entropy exhausted")
}

func TestInspect(t *testing.T) {
	svc, _ := newTestService(t, testConfig())

	issued, err := svc.IssueToken(token.RoleCustomer, 60)
	require.NoError(t, err)

	inspection, err := svc.Inspect(issued.Token)
	require.NoError(t, err)
	assert.True(t, inspection.Valid)
	assert.Equal(t, "HS256", inspection.Header.Alg)
	assert.Equal(t, token.RoleCustomer, inspection.Claims.RoleType)

	foreign, err := token.Encode("app-key", "another-secret", token.RoleCustomer, 60)
	require.NoError(t, err)

	inspection, err = svc.Inspect(foreign)
	require.NoError(t, err)
	assert.False(t, inspection.Valid)

	_, err = svc.Inspect("onlyonesegment")
	assert.ErrorIs(t, err, token.ErrMalformedToken)
}
