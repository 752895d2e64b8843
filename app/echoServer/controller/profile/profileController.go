package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/policy"
	profilesvc "github.com/thabsheeribrahim2004-sudo/misbahlibrary/service/profile"
)

type UpdateProfileReq struct {
	Name       string  `json:"name,omitempty"`
	RollNo     *string `json:"roll_no,omitempty"`
	Department *string `json:"department,omitempty"`
	Year       *int    `json:"year,omitempty" validate:"omitempty,gte=1,lte=8"`
}

type Controller struct {
	Svc profilesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func caller(c echo.Context) policy.Caller {
	actor, _ := c.Get("caller").(policy.Caller)
	return actor
}

// GET /v1/profile
func (h *Controller) Mine(c echo.Context) error {
	p, err := h.Svc.Mine(c.Request().Context(), caller(c))
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "profile not found"})
		}
		h.Log.Error("profile get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, p)
}

// PUT /v1/profile
func (h *Controller) Update(c echo.Context) error {
	var req UpdateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	p, err := h.Svc.UpdateMine(c.Request().Context(), caller(c), profilesvc.UpdateInput{
		Name:       req.Name,
		RollNo:     req.RollNo,
		Department: req.Department,
		Year:       req.Year,
	})
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "profile not found"})
		}
		h.Log.Error("profile update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, p)
}
