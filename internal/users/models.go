package users

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Username       string         `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email          string         `json:"email" gorm:"type:varchar(254);uniqueIndex;not null"`
	FirstName      string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName       string         `json:"last_name" gorm:"type:varchar(100)"`
	Password       string         `json:"-" gorm:"not null"` // hide in json
	IsAdmin        bool           `json:"is_admin" gorm:"not null;default:false"`
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"type:varchar(10);not null;default:'pending';index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// CanLogin reports whether the account has been approved by an administrator.
func (u *User) CanLogin() bool {
	return u.ApprovalStatus == ApprovalApproved
}

func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}
