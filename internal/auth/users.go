package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// User is a configured credential entry.
type User struct {
	Name         string
	PasswordHash string // bcrypt hash
	Role         string
}

// CheckPassword verifies a password against the stored bcrypt hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(
		[]byte(u.PasswordHash), []byte(password),
	) == nil
}

// ParseUsers parses a user configuration string in the format
// "user1:hash1:role1,user2:hash2:role2". Bcrypt hashes contain '$' but
// no colons, so splitting on the first two colons is unambiguous.
func ParseUsers(usersConfig string) (map[string]User, error) {
	trimmed := strings.TrimSpace(usersConfig)
	if trimmed == "" {
		return nil, fmt.Errorf("auth users config must not be empty")
	}

	users := make(map[string]User)

	for _, entry := range strings.Split(trimmed, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf(
				"invalid user entry, expected user:hash:role",
			)
		}

		username := strings.TrimSpace(parts[0])
		hash := strings.TrimSpace(parts[1])
		role := strings.TrimSpace(parts[2])

		if username == "" || hash == "" {
			return nil, fmt.Errorf(
				"username and hash must not be empty",
			)
		}

		if role != RoleAdmin && role != RoleUser {
			return nil, fmt.Errorf(
				"invalid role %q for user %s", role, username,
			)
		}

		users[username] = User{
			Name:         username,
			PasswordHash: hash,
			Role:         role,
		}
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("no valid user entries found")
	}

	return users, nil
}
