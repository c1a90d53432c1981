package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chirpnet/social-api/internal/core/ports"
)

// UserHandler exposes verification, password, and profile flows.
type UserHandler struct {
	authService  ports.AuthService
	verification ports.VerificationService
}

func NewUserHandler(authService ports.AuthService, verification ports.VerificationService) *UserHandler {
	return &UserHandler{authService: authService, verification: verification}
}

type verifyEmailRequest struct {
	EmailVerifyToken string `json:"email_verify_token" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyForgotPasswordRequest struct {
	ForgotPasswordToken string `json:"forgot_password_token" validate:"required"`
}

type resetPasswordRequest struct {
	ForgotPasswordToken string `json:"forgot_password_token" validate:"required"`
	Password            string `json:"password" validate:"required,min=6,max=50"`
	ConfirmPassword     string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	Password        string `json:"password" validate:"required,min=6,max=50"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type circleRequest struct {
	MemberIDs []string `json:"member_ids" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// VerifyEmail consumes an email-verification token. A second attempt with
// the same token reports success with an "already verified" message.
//
// @Summary      Verify email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Email verify token"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/verify-email [post]
func (h *UserHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.verification.VerifyEmail(c.Request().Context(), req.EmailVerifyToken)
	if err != nil {
		return err
	}
	if res.AlreadyVerified {
		return c.JSON(http.StatusOK, messageResponse{Message: "email is already verified"})
	}

	return c.JSON(http.StatusOK, authResponse{
		Message:      "email is verified successfully",
		AccessToken:  res.Pair.AccessToken,
		RefreshToken: res.Pair.RefreshToken,
	})
}

// ResendVerifyEmail issues a new verification token for the caller.
//
// @Summary      Resend verification email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      429  {object}  map[string]string
// @Router       /users/resend-verify-email [post]
func (h *UserHandler) ResendVerifyEmail(c echo.Context) error {
	claims, err := MustViewerClaims(c)
	if err != nil {
		return err
	}

	if err := h.verification.ResendVerifyEmail(c.Request().Context(), claims.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "verification email sent"})
}

// ForgotPassword issues a password-recovery token for the email's owner.
// Issuing a newer token supersedes any earlier unconsumed one.
//
// @Summary      Request password recovery
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /users/forgot-password [post]
func (h *UserHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.verification.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "check email to reset password"})
}

// VerifyForgotPassword checks a recovery token without consuming it, so the
// client can show the reset form only for a token that will be accepted.
//
// @Summary      Verify password-recovery token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      verifyForgotPasswordRequest  true  "Recovery token"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Router       /users/verify-forgot-password [post]
func (h *UserHandler) VerifyForgotPassword(c echo.Context) error {
	var req verifyForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if _, err := h.verification.VerifyForgotPassword(c.Request().Context(), req.ForgotPasswordToken); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "verify forgot password is successfully"})
}

// ResetPassword consumes a recovery token and stores the new password.
//
// @Summary      Reset password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Recovery token and new password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Router       /users/reset-password [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.verification.ResetPassword(c.Request().Context(), req.ForgotPasswordToken, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "reset password is successfully"})
}

// ChangePassword updates the caller's password after checking the old one.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /users/change-password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	claims, err := MustViewerClaims(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), claims.UserID, req.OldPassword, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "change password is successfully"})
}

// GetMe returns the caller's profile.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	claims, err := MustViewerClaims(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetMe(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetCircle replaces the caller's restricted-circle allow-list.
//
// @Summary      Set restricted circle
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      circleRequest  true  "Member user ids"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  map[string]string
// @Router       /users/me/circle [put]
func (h *UserHandler) SetCircle(c echo.Context) error {
	claims, err := MustViewerClaims(c)
	if err != nil {
		return err
	}

	var req circleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.SetRestrictedCircle(c.Request().Context(), claims.UserID, req.MemberIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
