// ABOUTME: User model and Role enum for fitness tracker accounts.
// ABOUTME: Carries optional physiological profile fields (height, weight, notes).
package models

// Role represents the access level of an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// IsValidRole checks if a string is a known role.
func IsValidRole(s string) bool {
	return s == string(RoleAdmin) || s == string(RoleUser)
}

// User represents a tracker account.
type User struct {
	ID          int64
	Username    string
	Password    string `json:"-" yaml:"-"`
	Role        Role
	HeightCm    *float64
	WeightKg    *float64
	HealthNotes *string
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Notes returns the health notes or an empty string when unset.
func (u *User) Notes() string {
	if u.HealthNotes == nil {
		return ""
	}
	return *u.HealthNotes
}

// WithProfile sets height, weight and notes on the user.
func (u *User) WithProfile(heightCm, weightKg *float64, notes string) *User {
	u.HeightCm = heightCm
	u.WeightKg = weightKg
	if notes == "" {
		u.HealthNotes = nil
	} else {
		u.HealthNotes = &notes
	}
	return u
}
