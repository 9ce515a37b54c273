package devserver

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	errUserNotFound   = errors.New("user not found")
	errUserExists     = errors.New("user already exists")
	errCodeNotFound   = errors.New("code not found or expired")
	errRedisDown      = errors.New("redis unavailable")
	errBadCredentials = errors.New("invalid email or password")
)

type userRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Passkey      bool      `json:"passkey"`
	CreatedAt    time.Time `json:"created_at"`
}

// userStore keeps accounts in redis as JSON blobs keyed by email, with
// id and phone indexes pointing back at the email key.
type userStore struct {
	redis redis.UniversalClient
}

func newUserStore(rdb redis.UniversalClient) *userStore {
	return &userStore{redis: rdb}
}

func (s *userStore) emailKey(email string) string { return "du:email:" + strings.ToLower(email) }
func (s *userStore) idKey(id string) string       { return "du:id:" + id }
func (s *userStore) phoneKey(phone string) string { return "du:phone:" + phone }

func (s *userStore) Create(ctx context.Context, rec *userRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	created, err := s.redis.SetNX(ctx, s.emailKey(rec.Email), data, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", errRedisDown, err)
	}
	if !created {
		return errUserExists
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.idKey(rec.ID), rec.Email, 0)
		if rec.Phone != "" {
			pipe.Set(ctx, s.phoneKey(rec.Phone), rec.Email, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errRedisDown, err)
	}
	return nil
}

// Update rewrites an existing record in place, keyed by email.
func (s *userStore) Update(ctx context.Context, rec *userRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.emailKey(rec.Email), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", errRedisDown, err)
	}
	return nil
}

func (s *userStore) ByEmail(ctx context.Context, email string) (*userRecord, error) {
	return s.fetch(ctx, s.emailKey(email))
}

func (s *userStore) ByID(ctx context.Context, id string) (*userRecord, error) {
	email, err := s.redis.Get(ctx, s.idKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", errRedisDown, err)
	}
	return s.ByEmail(ctx, email)
}

func (s *userStore) ByPhone(ctx context.Context, phone string) (*userRecord, error) {
	email, err := s.redis.Get(ctx, s.phoneKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", errRedisDown, err)
	}
	return s.ByEmail(ctx, email)
}

func (s *userStore) fetch(ctx context.Context, key string) (*userRecord, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", errRedisDown, err)
	}

	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// codeStore holds one-time SMS codes. A code lives under its own key
// with the TTL doing expiry, and verification consumes it atomically.
type codeStore struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

func newCodeStore(rdb redis.UniversalClient, ttl time.Duration) *codeStore {
	return &codeStore{redis: rdb, ttl: ttl}
}

func (s *codeStore) key(code string) string { return "du:sms:" + code }

// Issue generates a six digit code bound to phone.
func (s *codeStore) Issue(ctx context.Context, phone string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.redis.Set(ctx, s.key(code), phone, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", errRedisDown, err)
	}
	return code, nil
}

// Consume redeems a code exactly once and returns the bound phone.
func (s *codeStore) Consume(ctx context.Context, code string) (string, error) {
	phone, err := s.redis.GetDel(ctx, s.key(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errCodeNotFound
		}
		return "", fmt.Errorf("%w: %v", errRedisDown, err)
	}
	return phone, nil
}

// sessionStore tracks live session IDs so logout can revoke a token
// before it expires.
type sessionStore struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

func newSessionStore(rdb redis.UniversalClient, ttl time.Duration) *sessionStore {
	return &sessionStore{redis: rdb, ttl: ttl}
}

func (s *sessionStore) key(sessionID string) string { return "du:sess:" + sessionID }

func (s *sessionStore) Save(ctx context.Context, sessionID, userID string) error {
	if err := s.redis.Set(ctx, s.key(sessionID), userID, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errRedisDown, err)
	}
	return nil
}

func (s *sessionStore) Alive(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", errRedisDown, err)
	}
	return n == 1, nil
}

func (s *sessionStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", errRedisDown, err)
	}
	return nil
}

// hashPassword is a salted sha256, acceptable only because this backend
// exists for local development and tests.
func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := sha256.Sum256(append(salt, []byte(password)...))
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(sum[:]), nil
}

func checkPassword(stored, password string) bool {
	saltHex, sumHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(sumHex)
	if err != nil {
		return false
	}
	got := sha256.Sum256(append(salt, []byte(password)...))
	return subtle.ConstantTimeCompare(got[:], want) == 1
}
