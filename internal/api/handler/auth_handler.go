package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

// AuthHandler exposes the account/session flows over HTTP.
type AuthHandler struct {
	authService  ports.AuthService
	sessions     ports.SessionService
	clientOrigin string
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionService, clientOrigin string) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessions:     sessions,
		clientOrigin: clientOrigin,
	}
}

type registerRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=50"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type authResponse struct {
	Message      string       `json:"message"`
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         *domain.User `json:"user,omitempty"`
}

// Register creates an account and opens a session.
//
// @Summary      Register a new account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Message:      "register is successfully",
		AccessToken:  res.Pair.AccessToken,
		RefreshToken: res.Pair.RefreshToken,
		User:         res.User,
	})
}

// Login authenticates with email and password.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Message:      "login is successfully",
		AccessToken:  res.Pair.AccessToken,
		RefreshToken: res.Pair.RefreshToken,
		User:         res.User,
	})
}

// Logout revokes all sessions of the refresh token's owner. The token must
// pass the refresh gate: valid signature AND present in the store.
//
// @Summary      Logout
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	claims, err := h.sessions.CheckRefresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), claims.UserID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Message: "logout is successfully"})
}

// Refresh rotates a refresh token into a fresh pair. The presented token is
// single-use: after one successful rotation it fails the store gate.
//
// @Summary      Refresh token pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /users/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Message:      "refresh token is successfully",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// OAuthGoogle handles the Google OAuth callback and redirects the client
// with a fresh token pair.
//
// @Summary      Google OAuth callback
// @Tags         users
// @Produce      json
// @Param        code  query     string  true  "Authorization code"
// @Success      307
// @Failure      400   {object}  map[string]string
// @Router       /users/oauth/google [get]
func (h *AuthHandler) OAuthGoogle(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	res, err := h.authService.OAuthGoogle(c.Request().Context(), code)
	if err != nil {
		return err
	}

	redirect := fmt.Sprintf("%s/login/oauth?access_token=%s&refresh_token=%s&verify=%d&new_user=%t",
		h.clientOrigin, res.Pair.AccessToken, res.Pair.RefreshToken, res.Verify, res.NewUser)
	return c.Redirect(http.StatusTemporaryRedirect, redirect)
}
