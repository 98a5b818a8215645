package hash

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Hasher appends a process-wide secret pepper to every password before
// bcrypt. The pepper is distinct from bcrypt's per-password salt; an empty
// pepper is a no-op concatenation.
type Hasher struct {
	pepper string
}

func New(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

func (h *Hasher) Hash(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password+h.pepper), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Check reports whether password matches the stored hash. Verification
// errors (malformed hash, backend faults) are reported as "no match" so a
// corrupt stored hash cannot turn into a 5xx.
func (h *Hasher) Check(hashed, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password+h.pepper))
	if err != nil {
		if err != bcrypt.ErrMismatchedHashAndPassword {
			slog.Debug("password hash verification error", "error", err)
		}
		return false
	}
	return true
}
