package repo

import (
	"github.com/bridgeflow/gateway/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSenderAppStore_SecretDisclosedOnceAndHashed(t *testing.T) {
	db := newTestDB(t)
	store := NewSenderAppStore(db)

	app, secret, err := store.Create("weather-station")
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	// Only the hash is persisted; the plaintext never is.
	var stored models.SenderApp
	require.NoError(t, db.First(&stored, "id = ?", app.ID).Error)
	assert.NotEqual(t, secret, stored.SecretHash)
	assert.NotContains(t, stored.SecretHash, secret)
}

func TestSenderAppStore_Verify(t *testing.T) {
	store := NewSenderAppStore(newTestDB(t))

	app, secret, err := store.Create("weather-station")
	require.NoError(t, err)

	verified, err := store.Verify(app.KeyID, secret)
	require.NoError(t, err)
	assert.Equal(t, app.ID, verified.ID)

	_, err = store.Verify(app.KeyID, "wrong-secret")
	assert.ErrorIs(t, err, ErrInvalidSenderKey)

	_, err = store.Verify("unknown-key", secret)
	assert.ErrorIs(t, err, ErrSenderAppNotFound)
}
