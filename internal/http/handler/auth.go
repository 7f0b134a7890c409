package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"homecare/internal/http/middleware"
	"homecare/internal/service"
)

type signInRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) setSessionCookie(c *fiber.Ctx, res *service.AuthResult) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.Session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SignUp godoc
// @Summary Create an account and sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.SignUpInput true "Account"
// @Success 201 {object} service.AuthResult
// @Failure 409 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /api/v1/auth/signup [post]
func (h *Handler) SignUp(c *fiber.Ctx) error {
	var in service.SignUpInput
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	res, err := h.auth.SignUp(c.UserContext(), in)
	if err != nil {
		return h.respondError(c, err)
	}
	h.setSessionCookie(c, res)
	return c.Status(fiber.StatusCreated).JSON(res)
}

// SignIn godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signInRequest true "Credentials"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} errorPayload
// @Router /api/v1/auth/signin [post]
func (h *Handler) SignIn(c *fiber.Ctx) error {
	var in signInRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	res, err := h.auth.SignIn(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return h.respondError(c, err)
	}
	h.setSessionCookie(c, res)
	return c.JSON(res)
}

// SignOut godoc
// @Summary End the current session
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Router /api/v1/auth/signout [post]
func (h *Handler) SignOut(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	if err := h.auth.SignOut(c.UserContext(), sess.ID); err != nil {
		return h.respondError(c, err)
	}
	h.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// CurrentUser godoc
// @Summary The signed-in user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} errorPayload
// @Router /api/v1/auth/user [get]
func (h *Handler) CurrentUser(c *fiber.Ctx) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	return c.JSON(u)
}

// CurrentSession godoc
// @Summary The current session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} sessionResponse
// @Failure 401 {object} errorPayload
// @Router /api/v1/auth/session [get]
func (h *Handler) CurrentSession(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	return c.JSON(sessionResponse{ID: sess.ID, UserID: sess.UserID, ExpiresAt: sess.ExpiresAt})
}
