// internal/domain/models/role.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Role is a named category a user belongs to.
type Role struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"role_name" json:"role_name"`
	NameCI string             `bson:"role_name_ci" json:"-"`
}
