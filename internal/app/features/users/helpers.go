// internal/app/features/users/helpers.go
package users

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/bizadmin/internal/app/system/auth"
	"github.com/dalemusser/bizadmin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/bizadmin/internal/app/system/inputval"
	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const invalidDataMsg = "The given data was invalid."

var userMessages = inputval.Messages{
	"password.eqfield": "The password field confirmation does not match.",
	"role_id.mongodb":  "The selected role id is invalid.",
}

// clean normalizes the submitted fields in place.
func (in *userInput) clean() {
	in.Username = normalize.Username(in.Username)
	in.FullName = normalize.Name(in.FullName)
	in.RoleID = strings.TrimSpace(in.RoleID)
	in.Remark = htmlsanitize.PlainTextPtr(in.Remark)
}

// validate runs the struct rules plus the database checks (role exists,
// username free). excludeID is the user being edited, or nil on create.
func (h *Handler) validate(ctx context.Context, in userInput, excludeID *primitive.ObjectID) (inputval.Errors, error) {
	var errs inputval.Errors
	if excludeID == nil {
		errs = inputval.Struct(createRules(in.rules()), userMessages)
	} else {
		errs = inputval.Struct(updateRules(in.rules()), userMessages)
	}
	if errs == nil {
		errs = inputval.Errors{}
	}

	if _, bad := errs["role_id"]; !bad {
		roleID, _ := primitive.ObjectIDFromHex(in.RoleID)
		ok, err := h.roles.Exists(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if !ok {
			errs.Add("role_id", userMessages["role_id.mongodb"])
		}
	}

	if _, bad := errs["username"]; !bad {
		var taken bool
		var err error
		if excludeID == nil {
			taken, err = h.users.UsernameExists(ctx, in.Username)
		} else {
			taken, err = h.users.UsernameExistsForOther(ctx, in.Username, *excludeID)
		}
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("username", usernameTakenMsg)
		}
	}

	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}

const usernameTakenMsg = "The username has already been taken."

// ruleFields is the field set shared by createRules and updateRules, so
// either can be built from a userInput with a conversion.
type ruleFields struct {
	Username             string
	FullName             string
	RoleID               string
	Password             string
	PasswordConfirmation string
}

func (in userInput) rules() ruleFields {
	return ruleFields{
		Username:             in.Username,
		FullName:             in.FullName,
		RoleID:               in.RoleID,
		Password:             in.Password,
		PasswordConfirmation: in.PasswordConfirmation,
	}
}

// decodeInput reads a userInput, answering 400 itself on malformed JSON.
func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (userInput, bool) {
	var in userInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode user body failed", err, "Invalid request body.")
		return in, false
	}
	in.clean()
	return in, true
}

func parseID(raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	return id, err == nil
}

// actorID is the signed-in caller's id, or "" outside the auth middleware.
func actorID(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return ""
}
