package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/middleware"
	"github.com/iliyamo/hotel-management/internal/repository"
	"github.com/iliyamo/hotel-management/internal/service"
)

// AuthHandler serves login and the current user.
type AuthHandler struct {
	Auth  *service.Auth
	Users *repository.UserRepo
}

func NewAuthHandler(a *service.Auth, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Auth: a, Users: u}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login: verify credentials and return the profile with an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	s, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"user":      s.User,
		"token":     s.Token,
		"expiresAt": s.ExpiresAt,
	})
}

// Me returns the profile of the token's user (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return service.ErrUnauthorized
	}
	u, err := h.Users.Get(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u.Profile())
}
