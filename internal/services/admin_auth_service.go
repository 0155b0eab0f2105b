package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"time"

	"fgperfume/pkg/auth"

	cache "github.com/patrickmn/go-cache"
)

const (
	// MaxLoginFailures is how many bad passwords an IP may send per window
	MaxLoginFailures = 5
	// LoginLockoutWindow is how long failures are remembered
	LoginLockoutWindow = 15 * time.Minute
)

var (
	// ErrInvalidPassword is returned for a wrong admin password
	ErrInvalidPassword = errors.New("invalid password")
	// ErrTooManyAttempts is returned while an IP is locked out
	ErrTooManyAttempts = errors.New("too many failed login attempts")
	// ErrAdminNotConfigured is returned when no admin password was set up
	ErrAdminNotConfigured = errors.New("admin login is not configured")
)

// AdminAuthService checks the admin password and issues session tokens
type AdminAuthService struct {
	sessions      *auth.SessionAuth
	passwordHash  string
	plainPassword string
	failures      *cache.Cache
}

// NewAdminAuthService creates the admin login service. passwordHash is an
// argon2id hash; plainPassword is only consulted when passwordHash is empty.
func NewAdminAuthService(sessions *auth.SessionAuth, passwordHash, plainPassword string) *AdminAuthService {
	if passwordHash == "" && plainPassword != "" {
		log.Println("⚠️  [ADMIN-AUTH] Using plaintext ADMIN_PASSWORD, set ADMIN_PASSWORD_HASH outside development")
	}
	return &AdminAuthService{
		sessions:      sessions,
		passwordHash:  passwordHash,
		plainPassword: plainPassword,
		failures:      cache.New(LoginLockoutWindow, 5*time.Minute),
	}
}

// Sessions exposes the token authority used for issued tokens
func (s *AdminAuthService) Sessions() *auth.SessionAuth {
	return s.sessions
}

// Login verifies password for a caller at ip and returns a session token
func (s *AdminAuthService) Login(ip, password string) (string, time.Time, error) {
	if s.Locked(ip) {
		return "", time.Time{}, ErrTooManyAttempts
	}

	ok, err := s.checkPassword(password)
	if err != nil {
		return "", time.Time{}, err
	}
	if !ok {
		failures := s.recordFailure(ip)
		log.Printf("⚠️  [ADMIN-AUTH] Failed admin login from %s (%d/%d)", ip, failures, MaxLoginFailures)
		return "", time.Time{}, ErrInvalidPassword
	}

	s.failures.Delete(ip)
	token, expiresAt, err := s.sessions.IssueToken("admin", auth.RoleAdmin)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue admin token: %w", err)
	}
	log.Printf("✅ [ADMIN-AUTH] Admin logged in from %s", ip)
	return token, expiresAt, nil
}

// Locked reports whether ip has used up its failed attempts
func (s *AdminAuthService) Locked(ip string) bool {
	if v, found := s.failures.Get(ip); found {
		return v.(int) >= MaxLoginFailures
	}
	return false
}

func (s *AdminAuthService) recordFailure(ip string) int {
	if err := s.failures.Add(ip, 1, cache.DefaultExpiration); err == nil {
		return 1
	}
	n, err := s.failures.IncrementInt(ip, 1)
	if err != nil {
		// Expired between Add and Increment
		s.failures.Set(ip, 1, cache.DefaultExpiration)
		return 1
	}
	return n
}

func (s *AdminAuthService) checkPassword(password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	if s.passwordHash != "" {
		ok, err := auth.VerifyPassword(s.passwordHash, password)
		if err != nil {
			return false, fmt.Errorf("admin password hash is invalid: %w", err)
		}
		return ok, nil
	}
	if s.plainPassword != "" {
		return subtle.ConstantTimeCompare([]byte(s.plainPassword), []byte(password)) == 1, nil
	}
	return false, ErrAdminNotConfigured
}
