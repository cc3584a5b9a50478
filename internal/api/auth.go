package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

// AuthHandler handles registration, login and account endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errors := make(map[string][]string)

	if req.Username == "" {
		errors["username"] = append(errors["username"], "Username is required.")
	}
	if req.Email == "" {
		errors["email"] = append(errors["email"], "Email is required.")
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errors["email"] = append(errors["email"], "Enter a valid email address.")
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		errors["password"] = append(errors["password"], err.Error())
	}

	// Friendlier per-field messages than the unique-index backstop below.
	if len(errors) == 0 {
		if existing, err := store.GetUserByUsername(r.Context(), h.DB, req.Username); err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		} else if existing != nil {
			errors["username"] = append(errors["username"], "This username is already taken.")
		}
		if existing, err := store.GetUserByEmail(r.Context(), h.DB, req.Email); err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		} else if existing != nil {
			errors["email"] = append(errors["email"], "This email is already registered.")
		}
	}

	if len(errors) > 0 {
		jsonFieldErrors(w, errors)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Username, req.Email, string(hash))
	if err == store.ErrDuplicateName {
		jsonError(w, http.StatusBadRequest, "username or email already registered")
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Username, user.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("user registered", "user", user.Username)
	jsonResponse(w, http.StatusCreated, tokenResponse{Success: true, Token: token})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Username, user.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("user logged in", "user", user.Username)
	jsonResponse(w, http.StatusOK, tokenResponse{Success: true, Token: token})
}

// Logout handles POST /api/auth/logout by revoking the current token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	expiresAt := time.Now().Add(auth.TokenExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, expiresAt); err != nil {
		slog.Error("failed to revoke token", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("user logged out", "user", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}

// DeleteAccount handles DELETE /api/auth/account. The account and
// everything it owns is removed.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	if err := store.DeleteUser(r.Context(), h.DB, claims.UserID); err == store.ErrNotFound {
		jsonError(w, http.StatusNotFound, "account not found")
		return
	} else if err != nil {
		slog.Error("failed to delete account", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// The token outlives the account; revoke it.
	expiresAt := time.Now().Add(auth.TokenExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, expiresAt); err != nil {
		slog.Error("failed to revoke token after account deletion", "error", err)
	}

	slog.Info("account deleted", "user", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}
