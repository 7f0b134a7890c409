package handler

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"homecare/internal/http/middleware"
	"homecare/internal/model"
	"homecare/internal/service"
	"homecare/internal/web"
)

func sendHTML(c *fiber.Ctx, status int, buf *bytes.Buffer) error {
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

// Home renders the landing page. A catalog outage degrades to an empty
// service list instead of failing the page.
func (h *Handler) Home(c *fiber.Ctx) error {
	data := web.HomeData{}
	if u, ok := middleware.CurrentUser(c); ok {
		data.User = u
	}

	ctx := c.UserContext()
	cats, err := h.catalog.ListCategories(ctx)
	var svcs []model.Service
	if err == nil {
		svcs, err = h.catalog.ListServices(ctx)
	}
	if err != nil {
		h.log.Warn("catalog_unavailable", zap.String("request_id", middleware.RequestIDFromCtx(c)), zap.Error(err))
	} else {
		data.Groups = web.GroupServices(cats, svcs)
	}

	var buf bytes.Buffer
	if err := h.pages.Home(&buf, data); err != nil {
		return err
	}
	return sendHTML(c, fiber.StatusOK, &buf)
}

// Dashboard renders the signed-in user's bookings or the sign-in form.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	data := web.DashboardData{}
	if u, ok := middleware.CurrentUser(c); ok {
		bookings, err := h.bookings.ListForUser(c.UserContext(), u.ID)
		if err != nil {
			return err
		}
		data.User = u
		data.Bookings = bookings
	}

	var buf bytes.Buffer
	if err := h.pages.Dashboard(&buf, data); err != nil {
		return err
	}
	return sendHTML(c, fiber.StatusOK, &buf)
}

// SignInForm handles the dashboard's sign-in form.
func (h *Handler) SignInForm(c *fiber.Ctx) error {
	var in signInRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}

	res, err := h.auth.SignIn(c.UserContext(), in.Email, in.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		var buf bytes.Buffer
		if err := h.pages.Dashboard(&buf, web.DashboardData{Error: "Invalid email or password"}); err != nil {
			return err
		}
		return sendHTML(c, fiber.StatusUnauthorized, &buf)
	}
	if err != nil {
		return err
	}

	h.setSessionCookie(c, res)
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// SignOutForm ends the session, if any, and returns to the landing page.
func (h *Handler) SignOutForm(c *fiber.Ctx) error {
	if sess, ok := middleware.CurrentSession(c); ok {
		if err := h.auth.SignOut(c.UserContext(), sess.ID); err != nil {
			return err
		}
	}
	h.clearSessionCookie(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}
