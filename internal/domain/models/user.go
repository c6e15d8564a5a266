// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User status values. Deleting a user flips Status to UserDeleted; the
// document is never removed.
const (
	UserDeleted = 0
	UserActive  = 1
)

// User is an account managed from the system user screens.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	UsernameCI   string             `bson:"username_ci" json:"-"` // folded for lookups and search
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	RoleID       primitive.ObjectID `bson:"role_id" json:"role_id"`
	Remark       *string            `bson:"remark,omitempty" json:"remark"`
	Status       int                `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsActive reports whether the user has not been soft-deleted.
func (u User) IsActive() bool { return u.Status == UserActive }
