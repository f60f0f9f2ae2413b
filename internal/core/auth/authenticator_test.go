package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"BEARER   abc  ", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Token abc", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer abc def", "", false},
		{"abc", "", false},
	}

	for _, tc := range cases {
		token, ok := BearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, "header=%q", tc.header)
		assert.Equal(t, tc.token, token, "header=%q", tc.header)
	}
}

func TestAuthenticator_ResolvesValidToken(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{now: time.Now()})
	a := NewAuthenticator(svc, zerolog.Nop())

	want := domain.Identity{ID: "u-1", Username: "alice", Role: domain.RoleRegular}
	token, _, err := svc.Issue(want)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	assert.Equal(t, want, a.Authenticate(req))
}

func TestAuthenticator_FallsBackToAnonymous(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	svc := newTestTokenService(t, clock)
	a := NewAuthenticator(svc, zerolog.Nop())

	expired, _, err := svc.Issue(domain.Identity{ID: "u-1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	clock.now = clock.now.Add(4 * time.Hour)

	for _, header := range []string{
		"",
		"Bearer",
		"Token " + expired,
		"Bearer not-a-token",
		"Bearer " + expired,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		id := a.Authenticate(req)
		assert.True(t, id.IsAnonymous(), "header=%q resolved to %+v", header, id)
	}
}
