package credentials

import (
	"context"
	"encoding/base32"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/synogpt/synogpt/internal/common"
	"github.com/synogpt/synogpt/internal/logging"
	"github.com/synogpt/synogpt/internal/server/blob"
)

// DefaultRole is assigned when a user record carries no role field.
// The role is read and carried through the session, not enforced.
const DefaultRole = "viewer"

// otpSecretBytes is the entropy of a generated TOTP secret; 20 bytes encode
// to a 32-character base32 string, the standard secret length.
const otpSecretBytes = 20

type Service struct {
	store  blob.ObjectStore
	key    string
	logger logging.Logger

	mu  sync.Mutex
	doc *Document
}

func NewService(store blob.ObjectStore, objectKey string, logger logging.Logger) *Service {
	return &Service{
		store:  store,
		key:    objectKey,
		logger: logger.With("module", "credentials"),
	}
}

// Load fetches and decodes the credentials document. The server cannot run
// without it, so the caller treats a failure here as fatal.
func (s *Service) Load(ctx context.Context) error {
	data, err := s.store.Download(ctx, s.key)
	if err != nil {
		return fmt.Errorf("credentials: load %q: %w", s.key, err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return fmt.Errorf("credentials: decode %q: %w", s.key, err)
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// Cookie returns the session cookie settings from the loaded document.
func (s *Service) Cookie() Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Cookie
}

// Authenticate verifies a username/password pair against the loaded document
// and returns a copy of the user record. Unknown users and wrong passwords
// both come back as common.ErrorUnauthorized.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.doc.Credentials.Usernames[username]
	if !ok {
		s.logger.Warn(ctx, "failed login attempt", "user", username)
		return nil, common.ErrorUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.Password), []byte(password)); err != nil {
		s.logger.Warn(ctx, "failed login attempt", "user", username)
		return nil, common.ErrorUnauthorized
	}

	user := *rec
	if user.Role == "" {
		user.Role = DefaultRole
	}
	return &user, nil
}

// EnsureOTPSecret returns the user's TOTP secret, generating and persisting
// one on first login. created reports whether a new secret was provisioned
// this call; once a secret exists it is never regenerated.
func (s *Service) EnsureOTPSecret(ctx context.Context, username string) (secret string, created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.doc.Credentials.Usernames[username]
	if !ok {
		return "", false, common.ErrorNotFound
	}

	if rec.OTPSecret != "" {
		return rec.OTPSecret, false, nil
	}

	secret = randomBase32Secret()
	rec.OTPSecret = secret

	data, err := encodeDocument(s.doc)
	if err != nil {
		rec.OTPSecret = ""
		return "", false, fmt.Errorf("credentials: encode document: %w", err)
	}
	if err := s.store.Upload(ctx, s.key, data); err != nil {
		rec.OTPSecret = ""
		return "", false, fmt.Errorf("credentials: persist otp secret: %w", err)
	}

	s.logger.Info(ctx, "generated new otp secret", "user", username)
	return secret, true, nil
}

func randomBase32Secret() string {
	raw := common.GenerateRandByteArray(otpSecretBytes)
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)
}
