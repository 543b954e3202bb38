package models

import "time"

// User roles. Students register with RoleStudent; admins are provisioned
// directly in the database.
const (
	RoleStudent = 0
	RoleAdmin   = 1
)

// User represents an application user. Users created through the Supabase
// bridge have a SupabaseID and no local password.
type User struct {
	Base
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Password   string     `json:"-"`
	Role       int        `gorm:"default:0" json:"role"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	SupabaseID *string    `gorm:"uniqueIndex" json:"-"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
	LastLogin  *time.Time `json:"last_login,omitempty"`

	Budget       *Budget       `gorm:"foreignKey:UserID" json:"budget,omitempty"`
	Expenses     []Expense     `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
	SavingsGoals []SavingsGoal `gorm:"foreignKey:UserID" json:"savings_goals,omitempty"`
}

// FullName assembles a display name from the name parts, falling back to
// "N/A" when neither is set.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return "N/A"
}
