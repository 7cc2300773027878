package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront-service/internal/middleware"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// LoginResult is returned after a successful login
type LoginResult struct {
	User     models.User `json:"user"`
	Redirect string      `json:"redirect"`
}

// Login logs the session in
// @Summary Log in
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	auth, err := h.auth.Login(c.Request.Context(), middleware.GetSessionID(c), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, LoginResult{User: auth.User, Redirect: services.LandingPath(auth)})
}

// Register creates an account without logging in
// @Summary Register
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body models.RegisterRequest true "Account"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: models.StringPtr("Registration successful, please log in"),
	})
}

// Logout clears the session's login
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} models.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), middleware.GetSessionID(c))
	c.JSON(http.StatusOK, models.Response{Success: true})
}

// Me returns the logged-in user
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	auth, err := h.auth.Current(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, auth.User)
}
