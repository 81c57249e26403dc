package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"cardvault/internal/auth"
	"cardvault/internal/repository"
)

// CallContextKey is the echo context key under which the JWT middleware
// stores the caller context.
const CallContextKey = "callContext"

// callContext returns the authenticated caller context populated by the
// JWT middleware, or an empty context on public routes.
func callContext(c echo.Context) auth.CallContext {
	if v, ok := c.Get(CallContextKey).(auth.CallContext); ok {
		return v
	}
	return auth.CallContext{}
}

// parsePageRequest reads page, size and sort query parameters. Sort uses
// the "field,asc|desc" form and defaults to createdAt ascending.
func parsePageRequest(c echo.Context, defaultSize int) repository.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	sort := "createdAt"
	desc := false
	if raw := c.QueryParam("sort"); raw != "" {
		parts := strings.SplitN(raw, ",", 2)
		sort = parts[0]
		if len(parts) == 2 && strings.EqualFold(parts[1], "desc") {
			desc = true
		}
	}

	return repository.NewPageRequest(page, size, defaultSize, sort, desc)
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest,
			map[string]string{name: fmt.Sprintf("%s must be a positive integer", name)})
	}
	return uint(id), nil
}

// bindAndValidate binds the request body and runs struct validation,
// rendering field failures as a flat {field: message} map.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			map[string]string{"body": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fieldErrors(err))
	}
	return nil
}

// fieldErrors flattens validator failures to {field: message}.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["body"] = "validation failed"
		return out
	}
	for _, fe := range verrs {
		out[jsonFieldName(fe.Field())] = fieldMessage(fe)
	}
	return out
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func fieldMessage(fe validator.FieldError) string {
	name := jsonFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", name, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", name, fe.Param())
	case "numeric":
		return name + " must contain only digits"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "datetime":
		return name + " must be a date in YYYY-MM-DD format"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	default:
		return name + " is invalid"
	}
}
