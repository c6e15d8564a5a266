// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/bizadmin/internal/app/features/errors"
	userstore "github.com/dalemusser/bizadmin/internal/app/store/users"
	"github.com/dalemusser/bizadmin/internal/app/system/auditlog"
	"github.com/dalemusser/bizadmin/internal/app/system/auth"
	"github.com/dalemusser/bizadmin/internal/app/system/inputval"
	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/normalize"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const badCredentialsMsg = "These credentials do not match our records."

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bizadmin-dummy-password"), bcrypt.DefaultCost)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger

	users   *userstore.Store
	fetcher *userstore.Fetcher
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		users:      userstore.New(db),
		fetcher:    userstore.NewFetcher(db),
	}
}

type credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionUserBody struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Message string          `json:"message"`
	User    sessionUserBody `json:"user"`
}

// readCredentials accepts a JSON body or a url-encoded form.
func readCredentials(w http.ResponseWriter, r *http.Request) (credentials, error) {
	var c credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return c, err
		}
		c.Username = r.PostFormValue("username")
		c.Password = r.PostFormValue("password")
	} else if err := jsonio.Decode(w, r, &c); err != nil {
		return c, err
	}
	c.Username = normalize.Username(c.Username)
	return c, nil
}

// HandleLoginPost verifies a username and password and starts a session.
//
// 200 {"message","user"} on success; 422 with errors.username on bad
// credentials, so the response does not reveal which part was wrong.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(w, r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "read login body failed", err, "Invalid request body.")
		return
	}
	if errs := inputval.Struct(creds, nil); errs != nil {
		jsonio.WriteValidation(w, "The given data was invalid.", errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.users.GetByUsername(ctx, creds.Username)
	if errors.Is(err, userstore.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
		h.AuditLog.LoginFailedUserNotFound(ctx, r, creds.Username)
		jsonio.WriteValidation(w, badCredentialsMsg, inputval.Errors{"username": badCredentialsMsg})
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user for login failed", err, "Failed to sign in.")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)) != nil {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, u.Username)
		jsonio.WriteValidation(w, badCredentialsMsg, inputval.Errors{"username": badCredentialsMsg})
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Failed to sign in.")
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()), zap.String("username", u.Username))
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.Username)

	body := sessionUserBody{ID: u.ID.Hex(), Username: u.Username, FullName: u.FullName}
	if su := h.fetcher.FetchUser(ctx, u.ID.Hex()); su != nil {
		body.Role = su.Role
	}
	jsonio.Write(w, http.StatusOK, loginResponse{Message: "Signed in successfully.", User: body})
}

// ServeMe returns the signed-in caller.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		jsonio.WriteMessage(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	jsonio.Write(w, http.StatusOK, sessionUserBody{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.Name,
		Role:     u.Role,
	})
}
