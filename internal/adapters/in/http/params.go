package http

import (
	"errors"
	"fmt"
	"strconv"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var (
	errInvalidUserID     = errors.New("invalid user id")
	errInvalidOrderID    = errors.New("invalid order id")
	errEmployeeIDMissing = fmt.Errorf("header %s with a positive employee id is required", EmployeeHeader)
)

func int64Param(c echo.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, invalidParam(name, err)
	}
	return v, nil
}

func userOrderParams(c echo.Context) (int64, kernel.UUID, error) {
	userID, err := int64Param(c, "userId")
	if err != nil {
		return 0, kernel.UUID{}, errInvalidUserID
	}
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return 0, kernel.UUID{}, errInvalidOrderID
	}
	return userID, orderID, nil
}

func adminOrderParams(c echo.Context) (int64, kernel.UUID, error) {
	employeeID, err := strconv.ParseInt(c.Request().Header.Get(EmployeeHeader), 10, 64)
	if err != nil || employeeID <= 0 {
		return 0, kernel.UUID{}, errEmployeeIDMissing
	}
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return 0, kernel.UUID{}, errInvalidOrderID
	}
	return employeeID, orderID, nil
}

func invalidParam(name string, cause error) error {
	if cause == nil {
		cause = errors.New("must be positive")
	}
	return errs.NewValueIsInvalidErrorWithCause(name, cause)
}
