package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrs "github.com/ath31st/boosty-api-go/pkg/errors"
)

func TestStoreStartsEmpty(t *testing.T) {
	store := NewStore()

	assert.Equal(t, ModeNone, store.Mode())

	token, _ := store.AccessToken()
	assert.Empty(t, token)

	_, _, ok := store.RefreshCredentials()
	assert.False(t, ok)
}

func TestStoreSetBearer(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.SetBearer("tok1"))
	assert.Equal(t, ModeBearer, store.Mode())

	token, _ := store.AccessToken()
	assert.Equal(t, "tok1", token)
}

func TestStoreSetBearerEmpty(t *testing.T) {
	store := NewStore()

	err := store.SetBearer("")
	var cfgErr *pkgerrs.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, ModeNone, store.Mode())
}

func TestStoreSetRefreshPair(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.SetRefreshPair("rt1", "dev1"))
	assert.Equal(t, ModeRefreshPair, store.Mode())

	// The access token is populated lazily, so it is absent until the
	// first refresh.
	token, _ := store.AccessToken()
	assert.Empty(t, token)

	refreshToken, deviceID, ok := store.RefreshCredentials()
	require.True(t, ok)
	assert.Equal(t, "rt1", refreshToken)
	assert.Equal(t, "dev1", deviceID)
}

func TestStoreSetRefreshPairValidation(t *testing.T) {
	store := NewStore()

	var cfgErr *pkgerrs.ConfigError
	require.ErrorAs(t, store.SetRefreshPair("", "dev1"), &cfgErr)
	require.ErrorAs(t, store.SetRefreshPair("rt1", ""), &cfgErr)
	assert.Equal(t, ModeNone, store.Mode())
}

func TestStoreReplaceWholeState(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.SetRefreshPair("rt1", "dev1"))
	require.NoError(t, store.InstallRefreshed("at1", "rt2"))

	// Switching to a bearer token drops the refresh pair entirely.
	require.NoError(t, store.SetBearer("static"))
	assert.Equal(t, ModeBearer, store.Mode())
	_, _, ok := store.RefreshCredentials()
	assert.False(t, ok)

	// And switching back drops the bearer token and the old access token.
	require.NoError(t, store.SetRefreshPair("rt3", "dev2"))
	token, _ := store.AccessToken()
	assert.Empty(t, token)
}

func TestStoreInstallRefreshed(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.SetRefreshPair("rt1", "dev1"))

	require.NoError(t, store.InstallRefreshed("at2", "rt2"))

	token, _ := store.AccessToken()
	assert.Equal(t, "at2", token)

	refreshToken, _, ok := store.RefreshCredentials()
	require.True(t, ok)
	assert.Equal(t, "rt2", refreshToken, "refresh token should rotate")
}

func TestStoreInstallRefreshedKeepsRefreshTokenWhenNotRotated(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.SetRefreshPair("rt1", "dev1"))

	require.NoError(t, store.InstallRefreshed("at2", ""))

	refreshToken, _, ok := store.RefreshCredentials()
	require.True(t, ok)
	assert.Equal(t, "rt1", refreshToken)
}

func TestStoreInstallRefreshedInvalidState(t *testing.T) {
	var stateErr *pkgerrs.StateError

	store := NewStore()
	require.ErrorAs(t, store.InstallRefreshed("at", "rt"), &stateErr)

	require.NoError(t, store.SetBearer("tok"))
	require.ErrorAs(t, store.InstallRefreshed("at", "rt"), &stateErr)

	token, _ := store.AccessToken()
	assert.Equal(t, "tok", token, "bearer token must be untouched")
}

func TestStoreGenerationAdvancesOnTokenChange(t *testing.T) {
	store := NewStore()

	_, gen0 := store.AccessToken()
	require.NoError(t, store.SetRefreshPair("rt1", "dev1"))
	_, gen1 := store.AccessToken()
	assert.Greater(t, gen1, gen0)

	require.NoError(t, store.InstallRefreshed("at1", ""))
	_, gen2 := store.AccessToken()
	assert.Greater(t, gen2, gen1)
}

func TestStoreClear(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.SetBearer("tok"))

	store.Clear()

	assert.Equal(t, ModeNone, store.Mode())
	token, _ := store.AccessToken()
	assert.Empty(t, token)
}
