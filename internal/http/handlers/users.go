package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kisanmitra/server/internal/model"
	"github.com/kisanmitra/server/internal/repo"
)

// UserHandler handles user CRUD endpoints
type UserHandler struct {
	users repo.UserRepo
}

// NewUserHandler creates a new user handler
func NewUserHandler(users repo.UserRepo) *UserHandler {
	return &UserHandler{users: users}
}

// userResponse is the user object in API responses
type userResponse struct {
	ID          string     `json:"id"`
	PhoneNumber string     `json:"phone_number"`
	FullName    string     `json:"full_name"`
	HasFarm     *string    `json:"has_farm"`
	WaterSupply *string    `json:"water_supply"`
	FarmType    *string    `json:"farm_type"`
	IsVerified  bool       `json:"is_verified"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func toUserResponse(user model.User) userResponse {
	return userResponse{
		ID:          user.ID.String(),
		PhoneNumber: user.PhoneNumber,
		FullName:    user.FullName,
		HasFarm:     user.HasFarm,
		WaterSupply: user.WaterSupply,
		FarmType:    user.FarmType,
		IsVerified:  user.IsVerified,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// updateUserRequest is the request body for PUT /users/{userID}.
// Absent fields are left unchanged.
type updateUserRequest struct {
	FullName    *string `json:"full_name"`
	HasFarm     *string `json:"has_farm"`      // yes/no
	WaterSupply *string `json:"water_supply"`  // rain, well, river, channel
	FarmType    *string `json:"farm_type"`     // koradvahu, bagayati
}

// HandleList handles GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	responses := make([]userResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}
	respondJSON(w, http.StatusOK, responses)
}

// HandleGet handles GET /users/{userID}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleUpdate handles PUT /users/{userID}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := repo.ProfileUpdate{
		FullName:    nonBlank(req.FullName),
		HasFarm:     nonBlank(req.HasFarm),
		WaterSupply: nonBlank(req.WaterSupply),
		FarmType:    nonBlank(req.FarmType),
	}
	if err := h.users.UpdateProfile(r.Context(), userID, upd); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

// HandleDelete handles DELETE /users/{userID}. Sessions and messages owned
// by the user are removed with it.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}
	if err := h.users.Delete(r.Context(), userID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// nonBlank treats empty strings the same as absent fields.
func nonBlank(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
