// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/dalemusser/bizadmin/internal/app/system/auth"
	"github.com/dalemusser/bizadmin/internal/app/system/normalize"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"github.com/dalemusser/bizadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	users *mongo.Collection
	roles *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{
		users: db.Collection("users"),
		roles: db.Collection("roles"),
	}
}

// FetchUser retrieves an active user by ID and resolves the role name.
// It returns nil if the user is missing, deleted, or any error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":       1,
		"username":  1,
		"full_name": 1,
		"role_id":   1,
		"status":    1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid, "status": models.UserActive}, proj).Decode(&u); err != nil {
		return nil
	}

	su := &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Username: u.Username,
	}

	// A dangling role_id leaves Role empty, which fails every role check.
	var role models.Role
	if err := f.roles.FindOne(ctx, bson.M{"_id": u.RoleID}).Decode(&role); err == nil {
		su.Role = normalize.Role(role.Name)
	}
	return su
}
