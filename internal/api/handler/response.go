package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const successMessage = "The operation has been successful"

// apiResponse is the canonical success envelope for all API responses.
type apiResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, apiResponse{
		Success:    true,
		StatusCode: status,
		Message:    successMessage,
		Data:       data,
	})
}

// bindAndValidate binds the request body into req and runs schema
// validation. Violations surface as a 422 carrying every failed rule.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
