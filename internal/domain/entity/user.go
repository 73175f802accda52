package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff account. Patients never log in.
type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoleID             int       `gorm:"not null;index" json:"role_id"`
	Username           string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password           string    `gorm:"type:text;not null" json:"-"`
	FirstName          string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName           string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Position           string    `gorm:"type:varchar(100)" json:"position,omitempty"`
	Profession         string    `gorm:"type:varchar(100)" json:"profession,omitempty"`
	Phone              string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	IsActive           *bool     `gorm:"not null;default:true;index" json:"is_active"`
	MustChangePassword bool      `gorm:"not null;default:false" json:"must_change_password"`
	CreatedBy          string    `gorm:"type:varchar(50)" json:"created_by,omitempty"`
	UpdatedBy          string    `gorm:"type:varchar(50)" json:"updated_by,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Active reports whether the account may log in.
func (u *User) Active() bool {
	return u.IsActive != nil && *u.IsActive
}
