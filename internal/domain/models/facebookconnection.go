// internal/domain/models/facebookconnection.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FacebookConnection links a bizadmin user to a Facebook account and,
// once chosen, to one of the Pages that account manages.
//
// Access tokens are stored but never serialized to JSON.
type FacebookConnection struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"user_id" json:"user_id"`
	FacebookUserID   string             `bson:"facebook_user_id" json:"facebook_user_id"`
	FacebookUserName string             `bson:"facebook_user_name" json:"facebook_user_name"`
	AccessToken      string             `bson:"access_token" json:"-"`

	SelectedPageID      *string `bson:"selected_page_id,omitempty" json:"selected_page_id"`
	SelectedPageName    *string `bson:"selected_page_name,omitempty" json:"selected_page_name"`
	SelectedPagePicture *string `bson:"selected_page_picture,omitempty" json:"selected_page_picture"`
	PageAccessToken     *string `bson:"page_access_token,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasPage reports whether a page has been selected for this connection.
func (c FacebookConnection) HasPage() bool {
	return c.SelectedPageID != nil && *c.SelectedPageID != ""
}
