package auth_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/auth"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

func testCredentials() *sdk.Credentials {
	return &sdk.Credentials{
		Token: "header.payload.signature",
		Identity: sdk.Identity{
			ID:    42,
			Name:  "Maria Silva",
			Email: "maria@example.edu",
			Role:  sdk.RoleProfessor,
		},
		SavedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := auth.NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(testCredentials()))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "header.payload.signature", loaded.Token)
	assert.Equal(t, int64(42), loaded.Identity.ID)
	assert.Equal(t, sdk.RoleProfessor, loaded.Identity.Role)
}

func TestFileStore_LoadAbsent(t *testing.T) {
	store, err := auth.NewFileStore(t.TempDir())
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

// A record that cannot be read is treated as absent, never as an
// error: a corrupted file must not wedge startup.
func TestFileStore_CorruptedRecordReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := auth.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(testCredentials()))

	writeRecord := func(content string) {
		path := filepath.Join(dir, "credentials.json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	tests := []struct {
		name    string
		content string
	}{
		{"truncated json", `{"token": "abc", "identi`},
		{"empty file", ``},
		{"missing token", `{"identity": {"id": 1, "name": "x", "email": "x@y.z", "role": "ALUNO"}}`},
		{"empty token", `{"token": "", "identity": {"id": 1, "name": "x", "email": "x@y.z", "role": "ALUNO"}}`},
		{"unknown role", `{"token": "abc", "identity": {"id": 1, "name": "x", "email": "x@y.z", "role": "ROOT"}}`},
		{"wrong shape", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeRecord(tt.content)
			loaded, err := store.Load()
			require.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}
}

func TestFileStore_Clear(t *testing.T) {
	store, err := auth.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(testCredentials()))

	require.NoError(t, store.Clear())
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing an already absent record succeeds.
	require.NoError(t, store.Clear())
}

func TestFileStore_SaveReplaces(t *testing.T) {
	store, err := auth.NewFileStore(t.TempDir())
	require.NoError(t, err)

	first := testCredentials()
	require.NoError(t, store.Save(first))

	second := testCredentials()
	second.Token = "another.token.value"
	second.Identity.ID = 7
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "another.token.value", loaded.Token)
	assert.Equal(t, int64(7), loaded.Identity.ID)
}
