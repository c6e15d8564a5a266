// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/bizadmin/internal/app/system/normalize"
	"github.com/dalemusser/bizadmin/internal/app/system/search"
	"github.com/dalemusser/bizadmin/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateUsername is returned when an active user already holds the username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrNotFound is returned for unknown or soft-deleted users.
	ErrNotFound = errors.New("user not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// ListQuery selects a page of active users.
type ListQuery struct {
	Search string
	Skip   int64
	Limit  int64
}

func listFilter(q string) bson.M {
	filter := bson.M{"status": models.UserActive}
	if m := search.Contains(q, "username_ci", "full_name_ci"); m != nil {
		filter["$or"] = m["$or"]
	}
	return filter
}

// Count returns how many active users match the search.
func (s *Store) Count(ctx context.Context, q string) (int64, error) {
	return s.c.CountDocuments(ctx, listFilter(q))
}

// List returns active users matching the search (username or full name),
// newest first, along with the total match count.
func (s *Store) List(ctx context.Context, q ListQuery) ([]models.User, int64, error) {
	filter := listFilter(q.Search)

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(q.Skip).
		SetLimit(q.Limit).
		SetProjection(bson.M{"password_hash": 0})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	users := make([]models.User, 0, q.Limit)
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GetActiveByID loads an active user. Returns ErrNotFound for unknown or
// deleted ids.
func (s *Store) GetActiveByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id, "status": models.UserActive}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername finds the active user with the given username (case-insensitive).
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{
		"username_ci": text.Fold(normalize.Username(username)),
		"status":      models.UserActive,
	}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UsernameExists reports whether an active user holds username.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, bson.M{
		"username_ci": text.Fold(normalize.Username(username)),
		"status":      models.UserActive,
	})
}

// UsernameExistsForOther is UsernameExists ignoring the user being edited.
func (s *Store) UsernameExistsForOther(ctx context.Context, username string, excludeID primitive.ObjectID) (bool, error) {
	return s.exists(ctx, bson.M{
		"username_ci": text.Fold(normalize.Username(username)),
		"status":      models.UserActive,
		"_id":         bson.M{"$ne": excludeID},
	})
}

func (s *Store) exists(ctx context.Context, filter bson.M) (bool, error) {
	err := s.c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Create inserts a new active user. PasswordHash must already be set.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Username = normalize.Username(u.Username)
	u.UsernameCI = text.Fold(u.Username)
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Remark = normalize.Optional(u.Remark)
	u.Status = models.UserActive

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds the editable fields. A nil PasswordHash keeps the current password.
type Update struct {
	Username     string
	FullName     string
	RoleID       primitive.ObjectID
	Remark       *string
	PasswordHash *string
}

// Update modifies an active user.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	username := normalize.Username(upd.Username)
	fullName := normalize.Name(upd.FullName)
	set := bson.M{
		"username":     username,
		"username_ci":  text.Fold(username),
		"full_name":    fullName,
		"full_name_ci": text.Fold(fullName),
		"role_id":      upd.RoleID,
		"updated_at":   time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if remark := normalize.Optional(upd.Remark); remark != nil {
		set["remark"] = *remark
	} else {
		update["$unset"] = bson.M{"remark": ""}
	}
	if upd.PasswordHash != nil {
		set["password_hash"] = *upd.PasswordHash
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "status": models.UserActive}, update)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateUsername
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks an active user deleted (status 0). The username becomes
// available again.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.UserActive},
		bson.M{"$set": bson.M{"status": models.UserDeleted, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActive returns the number of active users.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.UserActive})
}
