package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/policy"
	adminsvc "github.com/thabsheeribrahim2004-sudo/misbahlibrary/service/admin"
)

type Controller struct {
	Svc adminsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func caller(c echo.Context) policy.Caller {
	actor, _ := c.Get("caller").(policy.Caller)
	return actor
}

func statusFor(code adminsvc.ErrCode) (int, string) {
	switch code {
	case adminsvc.ErrUnauthorized:
		return http.StatusUnauthorized, "unauthorized"
	case adminsvc.ErrForbidden:
		return http.StatusForbidden, "forbidden"
	case adminsvc.ErrNotFound:
		return http.StatusNotFound, "user not found"
	case adminsvc.ErrAdminsExist:
		return http.StatusForbidden, "admins already exist"
	case adminsvc.ErrBadInput:
		return http.StatusBadRequest, "bad input"
	}
	return http.StatusInternalServerError, "internal error"
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	if code := adminsvc.Code(err); code != "" {
		st, msg := statusFor(code)
		return c.JSON(st, echo.Map{"message": msg, "code": string(code)})
	}
	h.Log.Error(op, "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}

// DELETE /v1/admin/users  (admin)
func (h *Controller) DeleteUser(c echo.Context) error {
	var req DeleteUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.DeleteUser(c.Request().Context(), caller(c), req.Email); err != nil {
		return h.fail(c, "delete user", err)
	}
	h.Log.Info("user deleted", "email", req.Email, "by", caller(c).ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// POST /v1/admin/bootstrap
//
// Open to any authenticated caller; the service only honors it while the
// system has no admin at all.
func (h *Controller) Bootstrap(c echo.Context) error {
	if err := h.Svc.BootstrapAdmin(c.Request().Context(), caller(c)); err != nil {
		return h.fail(c, "bootstrap admin", err)
	}
	h.Log.Info("admin bootstrapped", "user_id", caller(c).ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "admin role granted"})
}

// POST /v1/admin/roles  (admin)
func (h *Controller) ManageRole(c echo.Context) error {
	var req ManageRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	out, err := h.Svc.ManageAdminRole(c.Request().Context(), caller(c), req.Email, req.Action)
	if err != nil {
		return h.fail(c, "manage role", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"result": out})
}
