package services

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 4

type registerRequest struct {
	Username string      `json:"username"`
	Email    *string     `json:"email,omitempty"`
	Password string      `json:"password"`
	Role     models.Role `json:"role,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

type profilePatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// tokenResponse is returned by register and login.
type tokenResponse struct {
	Access string      `json:"access"`
	User   models.User `json:"user"`
}

// RegisterService creates an account and issues a session token. Admin
// accounts cannot be self-registered.
func (svc *Service) RegisterService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req registerRequest
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
	if req.Role == "" {
		req.Role = models.RoleExpert
	}
	if req.Role != models.RoleManager && req.Role != models.RoleExpert {
		HandleErrResponse(w, r, models.Validation("role must be manager or expert"))
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

	svc.issueSession(w, r, user, http.StatusCreated)
	logger.Info().Str("username", user.Username).Msg("user registered")
}

// LoginService verifies a credential and issues a session token.
func (svc *Service) LoginService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleErrResponse(w, r, models.Validation("invalid request payload"))
		return
	}

	user, err := svc.DB.GetUserByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if apiErr, ok := models.AsAPIError(err); ok && apiErr.Kind == models.KindNotFound {
			// Same response as a wrong password, no username probing
			HandleErrResponse(w, r, models.Validation("invalid username or password"))
			return
		}
		HandleErrResponse(w, r, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		HandleErrResponse(w, r, models.Validation("invalid username or password"))
		return
	}

	svc.issueSession(w, r, user, http.StatusOK)
	logger.Info().Str("username", user.Username).Msg("user logged in")
}

func (svc *Service) issueSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	now := time.Now().UTC()
	if err := svc.DB.UpdateLastLogin(user.ID, now); err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	user.LastLogin = &now

	access, err := svc.Codec.Issue(*user, now)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	WriteResponse(w, status, tokenResponse{Access: access, User: *user})
}

// ChangePasswordService updates the caller's own password.
func (svc *Service) ChangePasswordService(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleErrResponse(w, r, models.Validation("invalid request payload"))
		return
	}

	if req.NewPassword != req.NewPasswordConfirm {
		HandleErrResponse(w, r, models.Validation("new passwords do not match"))
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		HandleErrResponse(w, r, models.Validation("new password is too short"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(principal.User.PasswordHash), []byte(req.OldPassword)) != nil {
		HandleErrResponse(w, r, models.Validation("old password is incorrect"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if err := svc.DB.UpdatePassword(principal.User.ID, string(hash)); err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	WriteResponse(w, http.StatusOK, map[string]string{"detail": "password updated successfully"})
}

// MyProfileService returns the caller's own account.
func (svc *Service) MyProfileService(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	WriteResponse(w, http.StatusOK, principal.User)
}

// UpdateProfileService applies a partial update to the caller's own
// account. Role is immutable here; only an explicit admin action changes it.
func (svc *Service) UpdateProfileService(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var patch profilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		HandleErrResponse(w, r, models.Validation("invalid request payload"))
		return
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			HandleErrResponse(w, r, models.Validation("username is required"))
			return
		}
		if err := svc.DB.UpdateUsername(principal.User.ID, username); err != nil {
			HandleErrResponse(w, r, err)
			return
		}
	}

	if patch.Email != nil {
		// An explicit empty string clears the stored address
		var email *string
		if trimmed := strings.TrimSpace(*patch.Email); trimmed != "" {
			email = &trimmed
		}
		if err := svc.DB.UpdateEmail(principal.User.ID, email); err != nil {
			HandleErrResponse(w, r, err)
			return
		}
	}

	user, err := svc.DB.GetUserByID(principal.User.ID)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	WriteResponse(w, http.StatusOK, user)
}

// ListUsersService lists users A-Z with an optional username substring
// filter. Manager or admin only.
func (svc *Service) ListUsersService(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if !principal.Caps.IsManager {
		HandleErrResponse(w, r, models.Forbidden("manager access required"))
		return
	}

	users, err := svc.DB.ListUsers("", strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	WriteResponse(w, http.StatusOK, users)
}
