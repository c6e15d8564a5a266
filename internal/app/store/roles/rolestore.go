// internal/app/store/roles/rolestore.go
package rolestore

import (
	"context"
	"errors"

	"github.com/dalemusser/bizadmin/internal/app/system/normalize"
	"github.com/dalemusser/bizadmin/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultRoles are seeded into an empty roles collection.
var DefaultRoles = []string{"Admin", "Staff"}

var (
	ErrDuplicateRole = errors.New("role already exists")
	ErrNotFound      = errors.New("role not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roles")}
}

// List returns all roles ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Role, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "role_name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	roles := []models.Role{}
	if err := cur.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// NamesByID maps role ids to display names for list rendering.
func (s *Store) NamesByID(ctx context.Context) (map[primitive.ObjectID]string, error) {
	roles, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]string, len(roles))
	for _, r := range roles {
		out[r.ID] = r.Name
	}
	return out, nil
}

// Exists reports whether id names a role.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// GetByName finds a role by case-insensitive name.
func (s *Store) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var r models.Role
	err := s.c.FindOne(ctx, bson.M{"role_name_ci": text.Fold(normalize.Name(name))}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a role.
func (s *Store) Create(ctx context.Context, name string) (models.Role, error) {
	name = normalize.Name(name)
	r := models.Role{
		ID:     primitive.NewObjectID(),
		Name:   name,
		NameCI: text.Fold(name),
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Role{}, ErrDuplicateRole
		}
		return models.Role{}, err
	}
	return r, nil
}

// EnsureDefaults seeds DefaultRoles when the collection is empty and
// returns how many were inserted.
func (s *Store) EnsureDefaults(ctx context.Context) (int, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	inserted := 0
	for _, name := range DefaultRoles {
		if _, err := s.Create(ctx, name); err != nil {
			if errors.Is(err, ErrDuplicateRole) {
				continue // another instance seeded concurrently
			}
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
