package entity

// Clinic is a service area patients can be referred to.
type Clinic struct {
	ID     int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"type:varchar(100);not null" json:"name"`
	Status int    `gorm:"type:smallint;not null;default:1" json:"status"`
}

func (Clinic) TableName() string {
	return "clinics"
}
