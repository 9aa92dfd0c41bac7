package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/user"
	"github.com/frahmantamala/project-expenses/internal/core/ids"
	"golang.org/x/crypto/bcrypt"
)

// User is immutable once constructed. Updates produce a new value via
// WithProfile.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewUser(name, email, passwordHash string, now time.Time) User {
	now = now.UTC()
	return User{
		ID:           ids.New(ids.PrefixUser),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// WithProfile returns a copy of u with a new name and email. An empty
// passwordHash keeps the current one.
func (u User) WithProfile(name, email, passwordHash string, now time.Time) User {
	updated := u
	updated.Name = name
	updated.Email = email
	if passwordHash != "" {
		updated.PasswordHash = passwordHash
	}
	updated.UpdatedAt = now.UTC()
	return updated
}

// CheckPassword reports whether password matches the stored hash.
func (u User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func ToDataModel(u User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) User {
	return User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}
