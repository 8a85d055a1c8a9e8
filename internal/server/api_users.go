package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookhaven/bookstore-api/internal/shared/httpapi"

	usersdomain "github.com/bookhaven/bookstore-api/internal/domains/users/domain"
	userports "github.com/bookhaven/bookstore-api/internal/domains/users/ports"
)

// UserAPI wires HTTP transport to the users bounded context.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI creates a UserAPI backed by the provided service.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

type userPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserPayload(user *usersdomain.User) userPayload {
	return userPayload{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

// Post /api/users/register
// Create a customer account.
func (api *UserAPI) Register(c *gin.Context) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := api.service.Register(c.Request.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		respondUserError(c, err)
		return
	}
	httpapi.Success(c, http.StatusCreated, "user registered", gin.H{"user": toUserPayload(user)})
}

// Post /api/users/login
// Exchange credentials for a bearer token.
func (api *UserAPI) Login(c *gin.Context) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondUserError(c, err)
		return
	}
	httpapi.Success(c, http.StatusOK, "login successful", gin.H{"token": token})
}

// Post /api/users/logout
// Drop the caller's sessions.
func (api *UserAPI) Logout(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		httpapi.Unauthorized(c)
		return
	}
	api.service.Logout(c.Request.Context(), principal.Username)
	httpapi.Success(c, http.StatusOK, "logged out", nil)
}
