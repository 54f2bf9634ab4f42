package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/kisanmitra/server/internal/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *auth.Service
	devMode     bool
}

// NewAuthHandler creates a new auth handler. In dev mode the send-OTP
// response echoes the generated code; production delivery is out-of-band.
func NewAuthHandler(authService *auth.Service, devMode bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		devMode:     devMode,
	}
}

// sendOTPRequest is the request body for POST /auth/send-otp
type sendOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// sendOTPResponse is the JSON response for send-otp
type sendOTPResponse struct {
	Message string `json:"message"`
	DevOTP  string `json:"dev_otp,omitempty"`
}

// verifyOTPRequest is the request body for POST /auth/verify-otp
type verifyOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
	OTP         string `json:"otp"`
}

// verifyOTPResponse is the JSON response for verify-otp
type verifyOTPResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Status  string `json:"status"`
}

// HandleSendOTP handles POST /auth/send-otp
func (h *AuthHandler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.PhoneNumber == "" {
		respondWithError(w, http.StatusBadRequest, "phone_number is required")
		return
	}

	code, err := h.authService.IssueOTP(r.Context(), req.PhoneNumber)
	if err != nil {
		logMaskedPhone(req.PhoneNumber, "Failed to issue OTP: %v", err)
		respondDomainError(w, err)
		return
	}

	response := sendOTPResponse{Message: "OTP sent successfully"}
	if h.devMode {
		response.DevOTP = code
	}
	respondJSON(w, http.StatusOK, response)
}

// HandleVerifyOTP handles POST /auth/verify-otp
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.OTP = strings.TrimSpace(req.OTP)
	if req.PhoneNumber == "" || req.OTP == "" {
		respondWithError(w, http.StatusBadRequest, "phone_number and otp are required")
		return
	}

	result, err := h.authService.VerifyOTP(r.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		logMaskedPhone(req.PhoneNumber, "OTP verification failed: %v", err)
		respondDomainError(w, err)
		return
	}

	message := "Login successful"
	if result.Status == auth.StatusNewUser {
		message = "User created and logged in"
	}
	respondJSON(w, http.StatusOK, verifyOTPResponse{
		Message: message,
		UserID:  result.User.ID.String(),
		Status:  result.Status,
	})
}

// logMaskedPhone logs a message with masked phone number
func logMaskedPhone(phone, format string, args ...interface{}) {
	log.Printf("Phone "+maskPhone(phone)+": "+format, args...)
}

// maskPhone masks a phone number for logging (e.g., 98******21)
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return phone[:2] + strings.Repeat("*", len(phone)-4) + phone[len(phone)-2:]
}
