package sdk_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestCredentials_IsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"future expiry", signedToken(t, now.Add(time.Hour)), false},
		{"past expiry", signedToken(t, now.Add(-time.Hour)), true},
		{"opaque token never expires locally", "not-a-jwt", false},
		{"empty token never expires locally", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := sdk.Credentials{Token: tt.token}
			assert.Equal(t, tt.want, creds.IsExpired(now))
		})
	}
}

func TestDate_JSON(t *testing.T) {
	d, err := sdk.ParseDate("2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, sdk.NewDate(2025, time.January, 15), d)

	_, err = sdk.ParseDate("15/01/2025")
	require.Error(t, err)
}
