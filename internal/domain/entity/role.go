package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Status      int    `gorm:"type:smallint;not null;default:1" json:"status"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDAdmin        = 1
	RoleIDTherapist    = 2
	RoleIDReceptionist = 3
)

// RoleNames constants
const (
	RoleAdmin        = "admin"
	RoleTherapist    = "therapist"
	RoleReceptionist = "receptionist"
)
