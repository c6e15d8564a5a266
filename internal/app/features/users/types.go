// internal/app/features/users/types.go
package users

import (
	"time"

	"github.com/dalemusser/bizadmin/internal/app/system/paging"
	"github.com/dalemusser/bizadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userRow is one user as returned by the list and show endpoints.
type userRow struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	RoleID    string    `json:"role_id"`
	RoleName  string    `json:"role_name"`
	Remark    *string   `json:"remark"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRow(u models.User, roleNames map[primitive.ObjectID]string) userRow {
	return userRow{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		FullName:  u.FullName,
		RoleID:    u.RoleID.Hex(),
		RoleName:  roleNames[u.RoleID],
		Remark:    u.Remark,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type roleOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listResponse struct {
	Items      []userRow    `json:"items"`
	Pagination paging.Page  `json:"pagination"`
	Roles      []roleOption `json:"roles"`
	Search     string       `json:"search"`
}

type checkResponse struct {
	Exists bool `json:"exists"`
}

// userInput is the create and update body. Password rules differ between
// the two, so validation tags live on the wrappers below.
type userInput struct {
	Username             string  `json:"username"`
	FullName             string  `json:"full_name"`
	RoleID               string  `json:"role_id"`
	Remark               *string `json:"remark"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
}

type createRules struct {
	Username             string `json:"username" validate:"required,max=255"`
	FullName             string `json:"full_name" validate:"required,max=255"`
	RoleID               string `json:"role_id" validate:"required,mongodb"`
	Password             string `json:"password" validate:"required,min=8,max=72,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type updateRules struct {
	Username             string `json:"username" validate:"required,max=255"`
	FullName             string `json:"full_name" validate:"required,max=255"`
	RoleID               string `json:"role_id" validate:"required,mongodb"`
	Password             string `json:"password" validate:"omitempty,min=8,max=72,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
}
