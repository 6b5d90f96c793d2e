package repo

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/bridgeflow/gateway/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrSenderAppNotFound = errors.New("sender app not found")
var ErrInvalidSenderKey = errors.New("invalid sender app key")

// SenderAppStore issues and verifies sender app credentials. The master key
// is generated here, returned exactly once and stored only as a bcrypt hash;
// there is deliberately no way to read it back.
type SenderAppStore struct {
	db *gorm.DB
}

func NewSenderAppStore(db *gorm.DB) *SenderAppStore {
	return &SenderAppStore{db: db}
}

// Create registers a sender app and returns it together with the one-time
// plaintext master key.
func (s *SenderAppStore) Create(name string) (*models.SenderApp, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("could not generate master key: %w", err)
	}
	secret := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("could not hash master key: %w", err)
	}

	app := &models.SenderApp{
		ID:         uuid.New(),
		Name:       name,
		KeyID:      uuid.NewString(),
		SecretHash: string(hash),
		IsActive:   true,
	}
	if err := s.db.Create(app).Error; err != nil {
		return nil, "", err
	}
	return app, secret, nil
}

// Verify authenticates a sender app by key id and master key.
func (s *SenderAppStore) Verify(keyID, secret string) (*models.SenderApp, error) {
	var app models.SenderApp
	err := s.db.First(&app, "key_id = ? AND is_active = ?", keyID, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSenderAppNotFound
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(app.SecretHash), []byte(secret)); err != nil {
		return nil, ErrInvalidSenderKey
	}
	return &app, nil
}
