package models

import (
	"time"
)

// User is an account that can author recipes and follow other authors.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// Subscription is a follower -> author edge. The composite unique index is
// the duplicate guard under concurrent subscribe requests.
type Subscription struct {
	ID       uint `gorm:"primarykey" json:"id"`
	UserID   uint `gorm:"not null;index;uniqueIndex:idx_subscription_user_author" json:"user_id"`
	AuthorID uint `gorm:"not null;uniqueIndex:idx_subscription_user_author" json:"author_id"`

	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}
