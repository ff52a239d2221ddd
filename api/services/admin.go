package services

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/firewatch-geo/firewatch-services/internal/authz"
	"github.com/firewatch-geo/firewatch-services/internal/events"
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type adminCreateUserRequest struct {
	Username string      `json:"username"`
	Email    *string     `json:"email,omitempty"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

func (svc *Service) requireAdmin(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return models.Principal{}, false
	}
	if !authz.CanAdministerUsers(principal) {
		HandleErrResponse(w, r, models.Forbidden("administrator access required"))
		return models.Principal{}, false
	}
	return principal, true
}

// AdminListUsersService lists users filtered by role and/or a username
// substring.
func (svc *Service) AdminListUsersService(w http.ResponseWriter, r *http.Request) {
	if _, ok := svc.requireAdmin(w, r); !ok {
		return
	}

	role := models.Role(strings.TrimSpace(r.URL.Query().Get("role")))
	if role != "" && !role.Valid() {
		HandleErrResponse(w, r, models.Validation("unknown role filter"))
		return
	}

	users, err := svc.DB.ListUsers(role, strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	WriteResponse(w, http.StatusOK, users)
}

// AdminCreateUserService creates an account with an explicit role. This is
// the only path that can mint admin accounts.
func (svc *Service) AdminCreateUserService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	principal, ok := svc.requireAdmin(w, r)
	if !ok {
		return
	}

	var req adminCreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleErrResponse(w, r, models.Validation("invalid request payload"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		HandleErrResponse(w, r, models.Validation("username is required"))
		return
	}
	if len(req.Password) < minPasswordLength {
		HandleErrResponse(w, r, models.Validation("password is too short"))
		return
	}
	if !req.Role.Valid() {
		HandleErrResponse(w, r, models.Validation("role must be admin, manager or expert"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	user, err := svc.DB.CreateUser(models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	})
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	svc.publishAudit(r, events.NewAuditEvent("create", "user", user.ID, principal.User.Username))
	logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("user created by admin")

	WriteResponse(w, http.StatusCreated, user)
}

// AdminDeleteUserService deletes an account. An admin may not delete
// themself, nor the last remaining admin; both report as validation
// failures rather than authorization ones.
func (svc *Service) AdminDeleteUserService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	principal, ok := svc.requireAdmin(w, r)
	if !ok {
		return
	}

	userID, err := strconv.ParseInt(mux.Vars(r)["user-id"], 10, 64)
	if err != nil {
		HandleErrResponse(w, r, models.Validation("invalid user id"))
		return
	}

	target, err := svc.DB.GetUserByID(userID)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	adminCount, err := svc.DB.CountAdmins()
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	if err := authz.ValidateUserDeletion(principal, *target, adminCount); err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	if err := svc.DB.DeleteUser(userID); err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	svc.publishAudit(r, events.NewAuditEvent("delete", "user", userID, principal.User.Username))
	logger.Info().Int64("user_id", userID).Msg("user deleted by admin")

	WriteResponse(w, http.StatusOK, map[string]string{"detail": "user deleted"})
}

// AdminStatsService returns aggregate counts across the system.
func (svc *Service) AdminStatsService(w http.ResponseWriter, r *http.Request) {
	if _, ok := svc.requireAdmin(w, r); !ok {
		return
	}

	stats, err := svc.DB.GetAdminStats()
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	WriteResponse(w, http.StatusOK, stats)
}
