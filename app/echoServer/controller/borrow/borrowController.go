package borrow

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/policy"
	borrowsvc "github.com/thabsheeribrahim2004-sudo/misbahlibrary/service/borrow"
)

type Controller struct {
	Svc borrowsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func caller(c echo.Context) policy.Caller {
	actor, _ := c.Get("caller").(policy.Caller)
	return actor
}

func statusFor(code borrowsvc.ErrCode) (int, string) {
	switch code {
	case borrowsvc.ErrUnauthorized:
		return http.StatusUnauthorized, "unauthorized"
	case borrowsvc.ErrForbidden:
		return http.StatusForbidden, "forbidden"
	case borrowsvc.ErrNotFound:
		return http.StatusNotFound, "request not found"
	case borrowsvc.ErrBookNotFound:
		return http.StatusNotFound, "book not found"
	case borrowsvc.ErrInvalidTransition:
		return http.StatusConflict, "invalid transition"
	case borrowsvc.ErrDuplicateActive:
		return http.StatusConflict, "an active request already exists for this book"
	case borrowsvc.ErrMissingDates:
		return http.StatusBadRequest, "issue and due dates are required"
	}
	return http.StatusInternalServerError, "internal error"
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	if code := borrowsvc.Code(err); code != "" {
		st, msg := statusFor(code)
		return c.JSON(st, echo.Map{"message": msg, "code": string(code)})
	}
	h.Log.Error(op, "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}

// POST /v1/borrow-requests
func (h *Controller) Create(c echo.Context) error {
	var req CreateBorrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	id, err := h.Svc.Create(c.Request().Context(), caller(c), req.BookID)
	if err != nil {
		return h.fail(c, "borrow create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"request_id": id, "status": model.BorrowPending})
}

func (h *Controller) requestID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// POST /v1/borrow-requests/:id/approve  (admin)
func (h *Controller) Approve(c echo.Context) error {
	id, ok := h.requestID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req ApproveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "issue_date and due_date are required"})
	}

	err := h.Svc.Transition(c.Request().Context(), caller(c), id, model.BorrowApproved, borrowsvc.TransitionPayload{
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		Remarks:   req.Remarks,
	})
	if err != nil {
		return h.fail(c, "borrow approve", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "approved"})
}

// POST /v1/borrow-requests/:id/reject  (admin)
func (h *Controller) Reject(c echo.Context) error {
	id, ok := h.requestID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req RejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}

	err := h.Svc.Transition(c.Request().Context(), caller(c), id, model.BorrowRejected, borrowsvc.TransitionPayload{
		Remarks: req.Remarks,
	})
	if err != nil {
		return h.fail(c, "borrow reject", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "rejected"})
}

// POST /v1/borrow-requests/:id/return  (admin)
func (h *Controller) Return(c echo.Context) error {
	id, ok := h.requestID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	err := h.Svc.Transition(c.Request().Context(), caller(c), id, model.BorrowReturned, borrowsvc.TransitionPayload{})
	if err != nil {
		return h.fail(c, "borrow return", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "returned"})
}

// GET /v1/borrow-requests/my
func (h *Controller) ListMine(c echo.Context) error {
	rows, err := h.Svc.ListMine(c.Request().Context(), caller(c))
	if err != nil {
		return h.fail(c, "borrow list mine", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/borrow-requests  (admin; ?status= filters)
func (h *Controller) ListAll(c echo.Context) error {
	status := model.BorrowStatus(c.QueryParam("status"))
	rows, err := h.Svc.ListAll(c.Request().Context(), caller(c), status)
	if err != nil {
		return h.fail(c, "borrow list all", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/:id/availability
func (h *Controller) Availability(c echo.Context) error {
	id, ok := h.requestID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	a, err := h.Svc.Availability(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "availability", err)
	}
	return c.JSON(http.StatusOK, a)
}
