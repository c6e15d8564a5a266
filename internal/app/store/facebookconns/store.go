// internal/app/store/facebookconns/store.go
package facebookconns

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/bizadmin/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlaceholderPicture is stored when a selected page has no picture.
const PlaceholderPicture = "https://via.placeholder.com/50"

var (
	// ErrNotFound is returned when the caller has no connection for the
	// Facebook account.
	ErrNotFound = errors.New("facebook connection not found")
	// ErrConnectedElsewhere is returned when the Facebook account is already
	// linked to a different user.
	ErrConnectedElsewhere = errors.New("facebook account is connected to another user")
)

// Page is a Facebook Page chosen for a connection.
type Page struct {
	ID          string
	Name        string
	Picture     string
	AccessToken string
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("facebook_connections")}
}

// ListForUser returns the user's connections, oldest first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.FacebookConnection, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.FacebookConnection{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads the user's connection to facebookUserID.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID, facebookUserID string) (*models.FacebookConnection, error) {
	var c models.FacebookConnection
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "facebook_user_id": facebookUserID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert creates or refreshes the connection keyed by (userID, facebookUserID)
// and returns the stored document. When page is non-nil it is written in the
// same update; otherwise any selected page is left untouched.
func (s *Store) Upsert(ctx context.Context, userID primitive.ObjectID, facebookUserID, facebookUserName, accessToken string, page *Page) (*models.FacebookConnection, error) {
	now := time.Now().UTC()
	filter := bson.M{"user_id": userID, "facebook_user_id": facebookUserID}
	set := bson.M{
		"facebook_user_name": facebookUserName,
		"access_token":       accessToken,
		"updated_at":         now,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}
	if page != nil {
		setPage(update, set, *page)
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var c models.FacebookConnection
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrConnectedElsewhere
		}
		return nil, err
	}
	return &c, nil
}

// SetSelectedPage records the page chosen for the user's connection.
func (s *Store) SetSelectedPage(ctx context.Context, userID primitive.ObjectID, facebookUserID string, p Page) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	update := bson.M{"$set": set}
	setPage(update, set, p)
	res, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID, "facebook_user_id": facebookUserID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// setPage adds the selected-page fields to update. A page without its own
// token clears any previous one.
func setPage(update, set bson.M, p Page) {
	picture := p.Picture
	if picture == "" {
		picture = PlaceholderPicture
	}
	set["selected_page_id"] = p.ID
	set["selected_page_name"] = p.Name
	set["selected_page_picture"] = picture
	if p.AccessToken != "" {
		set["page_access_token"] = p.AccessToken
	} else {
		update["$unset"] = bson.M{"page_access_token": ""}
	}
}

// Delete removes the user's connection to facebookUserID.
func (s *Store) Delete(ctx context.Context, userID primitive.ObjectID, facebookUserID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "facebook_user_id": facebookUserID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
