package handlers

import (
	"net/http"

	"silent-auction/internal/services"
	"silent-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	users *services.UserService
	log   logger.Logger
}

type UpdateProfileRequest struct {
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`
}

func NewUserHandler(users *services.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

// GetProfile handles GET /api/v1/users/:id
func (h *UserHandler) GetProfile(c echo.Context) error {
	caller, ok := requireCaller(c)
	if !ok {
		return nil
	}

	user, err := h.users.GetProfile(c.Request().Context(), c.Param("id"), caller)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/v1/users/:id
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	caller, ok := requireCaller(c)
	if !ok {
		return nil
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), c.Param("id"), caller, req.Name, req.ProfileImage)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, user)
}
