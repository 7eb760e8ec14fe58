package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry/backend/internal/middleware"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/types"
)

type UserHandler struct {
	authService service.IAuthService
}

func NewUserHandler(authService service.IAuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	{
		user.POST("/create", h.CreateUser)
		user.POST("/token", h.CreateToken)

		me := user.Group("/me")
		me.Use(middleware.AuthMiddleware(h.authService))
		me.GET("", h.GetMe)
		me.PUT("", h.UpdateMe)
		me.PATCH("", h.UpdateMe)
	}
}

// CreateUser registers a new account
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req types.CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, userView(user))
}

// CreateToken exchanges credentials for an auth token
func (h *UserHandler) CreateToken(c *gin.Context) {
	var req types.TokenRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	token, expiresAt, err := h.authService.IssueToken(user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.TokenResponse{Token: token, ExpiresAt: expiresAt})
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, userView(user))
}

// UpdateMe changes the caller's name and/or password. PUT and PATCH behave
// the same; email is never changed.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	var req types.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.authService.UpdateUser(c.Request.Context(), userID, service.UserUpdate{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, userView(user))
}
