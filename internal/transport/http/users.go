package http

import (
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/service"
)

// UserHandler serves registration, login and the caller's own account
type UserHandler struct {
	userService    service.UserService
	addressService service.AddressService
	mw             *Middleware
	logger         hclog.Logger
}

func NewUserHandler(us service.UserService, as service.AddressService, mw *Middleware, log hclog.Logger) *UserHandler {
	return &UserHandler{userService: us, addressService: as, mw: mw, logger: log}
}

// swagger:route POST /auth/register auth register
//
// Registers an account. The account stays disabled until its email is verified.
//
// Responses:
//
//	200: messageResponse
//	409: errorResponse
//	422: validationErrorResponse
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeBody(w, r, h.mw, &req) {
		return
	}

	if _, err := h.userService.Register(r.Context(), req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "User registered successfully. Please check your email to verify your account.",
	})
}

// swagger:route POST /auth/login auth login
//
// Exchanges credentials for a bearer token.
//
// Responses:
//
//	200: loginResponse
//	401: errorResponse
//	404: errorResponse
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeBody(w, r, h.mw, &req) {
		return
	}

	resp, err := h.userService.Login(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// swagger:route GET /auth/verify-email auth verifyEmail
//
// Enables the account owning the verification token.
//
// Responses:
//
//	200: messageResponse
//	400: errorResponse
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	msg, err := h.userService.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// swagger:route GET /users/me users currentUser
//
// Returns the caller with address and order history.
//
// Responses:
//
//	200: userResponse
//	401: errorResponse
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.CurrentUser(r.Context(), principalFrom(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// swagger:route GET /users users listUsers
//
// Returns every account. Administrators only.
//
// Responses:
//
//	200: usersResponse
//	403: errorResponse
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context(), principalFrom(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// swagger:route POST /address users saveAddress
//
// Creates or replaces the caller's address.
//
// Responses:
//
//	200: addressResponse
//	422: validationErrorResponse
func (h *UserHandler) SaveAddress(w http.ResponseWriter, r *http.Request) {
	var req domain.AddressRequest
	if !decodeBody(w, r, h.mw, &req) {
		return
	}

	address, err := h.addressService.SaveAddress(r.Context(), principalFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, address)
}
