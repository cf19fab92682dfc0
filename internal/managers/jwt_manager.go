package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	tokenIssuer     = "blog-server"
	defaultTokenTTL = 24 * time.Hour
)

// JWTMgr issues and validates session tokens.
type JWTMgr interface {
	GenerateJWT(userId uuid.UUID) (string, error)
	ValidateJWT(tokenString string) (uuid.UUID, error)
}

// JWTManager handles JWT generation, signing, and validation with a single Ed25519 key pair
// that is loaded once and never rotated.
type JWTManager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	ttl        time.Duration
	now        func() time.Time
}

// JWTOption customises a JWTManager.
type JWTOption func(*JWTManager)

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) JWTOption {
	return func(jm *JWTManager) {
		jm.ttl = ttl
	}
}

// WithClock replaces the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) JWTOption {
	return func(jm *JWTManager) {
		jm.now = now
	}
}

// NewJWTManager creates a new JWTManager from an existing key pair.
func NewJWTManager(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, opts ...JWTOption) JWTMgr {
	jm := &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        defaultTokenTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(jm)
	}
	return jm
}

// NewJWTManagerFromFile loads the key pair stored at path. On first boot no key exists yet,
// so a new pair is generated and persisted there.
func NewJWTManagerFromFile(path string, opts ...JWTOption) (JWTMgr, error) {
	privateKey, publicKey, err := loadKeyPair(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("No key pair found, generating a new one at ", path)
		privateKey, publicKey, err = generateKeyPair(path)
	}
	if err != nil {
		return nil, err
	}

	return NewJWTManager(privateKey, publicKey, opts...), nil
}

// GenerateJWT issues a token for the given user.
func (jm *JWTManager) GenerateJWT(userId uuid.UUID) (string, error) {
	now := jm.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   userId.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(jm.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(jm.privateKey)
}

// ValidateJWT validates the given JWT and returns the user it was issued for.
// Expired tokens yield ErrTokenExpired, every other failure ErrTokenInvalid.
func (jm *JWTManager) ValidateJWT(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jm.publicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(jm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return uuid.Nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	userId, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject: %w", ErrTokenInvalid, err)
	}

	return userId, nil
}

// generateKeyPair generates a new key pair and saves it to a file.
func generateKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	if err := saveKeyPair(privateKey, publicKey, path); err != nil {
		return nil, nil, err
	}

	return privateKey, publicKey, nil
}

// saveKeyPair saves the key pair to the specified file.
func saveKeyPair(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	keyPairBytes := make([]byte, 0, len(privateKey)+len(publicKey))
	keyPairBytes = append(keyPairBytes, privateKey...)
	keyPairBytes = append(keyPairBytes, publicKey...)
	return os.WriteFile(path, keyPairBytes, 0o600)
}

// loadKeyPair loads the key pair from the specified file.
// The file holds the private key followed by the public key.
func loadKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	keyPairBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	if len(keyPairBytes) != ed25519.PrivateKeySize+ed25519.PublicKeySize {
		return nil, nil, fmt.Errorf("invalid key pair format in %s", path)
	}

	privateKey := ed25519.PrivateKey(keyPairBytes[:ed25519.PrivateKeySize])
	publicKey := ed25519.PublicKey(keyPairBytes[ed25519.PrivateKeySize:])
	return privateKey, publicKey, nil
}
