package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disasterprep/backend/internal/models"
	"github.com/disasterprep/backend/internal/progression"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTSecret is the HMAC signing key for auth tokens.
// This is a server-side secret — it never leaves the backend.
var JWTSecret = []byte(jwtSecretFromEnv())

func jwtSecretFromEnv() string {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return v
	}
	return "disaster-prep-staging-signing-key-2026"
}

type Handler struct {
	db       *sql.DB
	profiles *progression.Store
}

func NewHandler(db *sql.DB, profiles *progression.Store) *Handler {
	return &Handler{db: db, profiles: profiles}
}

// Register creates a student account with an empty progress record. The
// emergency contact list starts empty and the tutorial unseen.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Email == "" || req.Name == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Email, name, and password are required"})
		return
	}

	if len(req.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Password must be at least 8 characters"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	var userID int64
	err = h.db.QueryRow(
		`INSERT INTO users (email, name, age, class_name, section, avatar_url, password, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		req.Email, req.Name, req.Age, req.ClassName, req.Section, nullable(req.AvatarURL),
		string(hashedPassword), time.Now(), time.Now(),
	).Scan(&userID)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "An account with this email already exists"})
			return
		}
		log.Printf("[auth] register failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create account"})
		return
	}

	token, err := generateToken(userID, models.RoleStudent)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	profile, err := h.profiles.LoadProfile(userID)
	if err != nil {
		log.Printf("[auth] load profile after register failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, models.AuthResponse{Token: token, Role: models.RoleStudent, Profile: profile})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Email and password are required"})
		return
	}

	var userID int64
	var hashedPassword string
	err := h.db.QueryRow(
		`SELECT id, password FROM users WHERE email = $1`,
		req.Email,
	).Scan(&userID, &hashedPassword)

	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid email or password"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid email or password"})
		return
	}

	token, err := generateToken(userID, models.RoleStudent)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	// A corrupt or missing progress record degrades to "no session" rather
	// than crashing the login path.
	profile, err := h.profiles.LoadProfile(userID)
	if err != nil {
		log.Printf("[auth] load profile for user %d failed: %v", userID, err)
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid email or password"})
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, Role: models.RoleStudent, Profile: profile})
}

// AdminLogin checks the configured administrator credentials and issues an
// admin-role token. Admins have no progress record.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	adminEmail := getEnv("ADMIN_EMAIL", "admin@campus.edu")
	adminPassword := getEnv("ADMIN_PASSWORD", "prepared-admin")

	if !strings.EqualFold(strings.TrimSpace(req.Email), adminEmail) || req.Password != adminPassword {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid admin credentials"})
		return
	}

	token, err := generateToken(0, models.RoleAdmin)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, Role: models.RoleAdmin})
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	profile, err := h.profiles.LoadProfile(userID)
	if err != nil {
		if errors.Is(err, progression.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile applies partial identity updates. Password changes require
// the current password to match.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.NewPassword != "" || req.CurrentPassword != "" {
		if req.NewPassword == "" {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "New password cannot be empty"})
			return
		}
		if len(req.NewPassword) < 8 {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Password must be at least 8 characters"})
			return
		}

		var hashedPassword string
		if err := h.db.QueryRow(`SELECT password FROM users WHERE id = $1`, userID).Scan(&hashedPassword); err != nil {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.CurrentPassword)); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Current password does not match"})
			return
		}

		newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
			return
		}
		if _, err := h.db.Exec(`UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`, userID, string(newHash)); err != nil {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update password"})
			return
		}
	}

	if req.Name != nil {
		if _, err := h.db.Exec(`UPDATE users SET name = $2, updated_at = NOW() WHERE id = $1`, userID, strings.TrimSpace(*req.Name)); err != nil {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update profile"})
			return
		}
	}
	if req.Age != nil {
		if _, err := h.db.Exec(`UPDATE users SET age = $2, updated_at = NOW() WHERE id = $1`, userID, *req.Age); err != nil {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update profile"})
			return
		}
	}
	if req.ClassName != nil {
		if _, err := h.db.Exec(`UPDATE users SET class_name = $2, updated_at = NOW() WHERE id = $1`, userID, *req.ClassName); err != nil {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update profile"})
			return
		}
	}
	if req.Section != nil {
		if _, err := h.db.Exec(`UPDATE users SET section = $2, updated_at = NOW() WHERE id = $1`, userID, *req.Section); err != nil {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update profile"})
			return
		}
	}
	if req.AvatarURL != nil {
		if _, err := h.db.Exec(`UPDATE users SET avatar_url = $2, updated_at = NOW() WHERE id = $1`, userID, nullable(*req.AvatarURL)); err != nil {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update profile"})
			return
		}
	}

	profile, err := h.profiles.LoadProfile(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateContacts replaces the ordered emergency contact list.
func (h *Handler) UpdateContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.UpdateContactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	for _, c := range req.EmergencyContacts {
		if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Each contact needs a name and a phone number"})
			return
		}
	}

	tx, err := h.db.Begin()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM emergency_contacts WHERE user_id = $1`, userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update contacts"})
		return
	}
	for i, c := range req.EmergencyContacts {
		if _, err := tx.Exec(
			`INSERT INTO emergency_contacts (user_id, position, name, phone) VALUES ($1, $2, $3, $4)`,
			userID, i, strings.TrimSpace(c.Name), strings.TrimSpace(c.Phone),
		); err != nil {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update contacts"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update contacts"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"emergency_contacts": req.EmergencyContacts})
}

// MarkTutorialSeen sets the tutorial flag. It only ever flips to true.
func (h *Handler) MarkTutorialSeen(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	if _, err := h.db.Exec(`UPDATE users SET has_seen_tutorial = TRUE, updated_at = NOW() WHERE id = $1`, userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update tutorial state"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"has_seen_tutorial": true})
}

func generateToken(userID int64, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
