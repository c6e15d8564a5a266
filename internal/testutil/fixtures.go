// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/bizadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the plaintext password of every fixture user.
const FixturePassword = "password123"

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db   *mongo.Database
	t    *testing.T
	hash string
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// passwordHash hashes FixturePassword once per Fixtures at the minimum cost.
func (f *Fixtures) passwordHash() string {
	if f.hash == "" {
		h, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
		if err != nil {
			f.t.Fatalf("hash fixture password: %v", err)
		}
		f.hash = string(h)
	}
	return f.hash
}

// CreateRole returns the role with the given name, inserting it if needed.
func (f *Fixtures) CreateRole(ctx context.Context, name string) models.Role {
	f.t.Helper()

	var existing models.Role
	err := f.db.Collection("roles").FindOne(ctx, bson.M{"role_name_ci": text.Fold(name)}).Decode(&existing)
	if err == nil {
		return existing
	}

	role := models.Role{
		ID:     primitive.NewObjectID(),
		Name:   name,
		NameCI: text.Fold(name),
	}
	if _, err := f.db.Collection("roles").InsertOne(ctx, role); err != nil {
		f.t.Fatalf("failed to create test role: %v", err)
	}
	return role
}

// CreateUser creates an active user with FixturePassword.
func (f *Fixtures) CreateUser(ctx context.Context, username, fullName string, roleID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.insertUser(ctx, username, fullName, roleID, models.UserActive)
}

// CreateAdmin creates an active user holding the Admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, username string) models.User {
	f.t.Helper()
	role := f.CreateRole(ctx, "Admin")
	return f.insertUser(ctx, username, "Admin "+username, role.ID, models.UserActive)
}

// CreateDeletedUser creates a soft-deleted user.
func (f *Fixtures) CreateDeletedUser(ctx context.Context, username, fullName string, roleID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.insertUser(ctx, username, fullName, roleID, models.UserDeleted)
}

func (f *Fixtures) insertUser(ctx context.Context, username, fullName string, roleID primitive.ObjectID, status int) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		PasswordHash: f.passwordHash(),
		RoleID:       roleID,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateConnection links a Facebook account to userID.
func (f *Fixtures) CreateConnection(ctx context.Context, userID primitive.ObjectID, facebookUserID string) models.FacebookConnection {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.FacebookConnection{
		ID:               primitive.NewObjectID(),
		UserID:           userID,
		FacebookUserID:   facebookUserID,
		FacebookUserName: "FB " + facebookUserID,
		AccessToken:      "token-" + facebookUserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("facebook_connections").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test connection: %v", err)
	}
	return c
}
