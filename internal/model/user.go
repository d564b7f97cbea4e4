package model

import "time"

// swagger:model
type User struct {
	BaseModel
	Name        string     `gorm:"size:100" json:"name"`
	Email       string     `gorm:"size:191;uniqueIndex" json:"email"`
	Password    string     `gorm:"size:191" json:"-"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}
