package router

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cardvault/docs"
	"cardvault/internal/auth"
	"cardvault/internal/config"
	"cardvault/internal/errors"
	"cardvault/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	cardHandler *handler.CardHandler,
	transferHandler *handler.TransferHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewCustomValidator()
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)

	// Secured routes (require a valid bearer token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		SuccessHandler: func(c echo.Context) {
			if claims, ok := c.Get("user").(*auth.Claims); ok {
				c.Set(handler.CallContextKey, auth.CallContextFromClaims(claims))
			}
		},
	}))

	// Card routes
	secured.POST("/cards", cardHandler.Create, RequireAdmin)
	secured.GET("/cards", cardHandler.ListAll, RequireAdmin)
	secured.GET("/cards/my", cardHandler.ListMy)
	secured.GET("/cards/:id", cardHandler.GetByID)
	secured.PATCH("/cards/:id/status", cardHandler.UpdateStatus)
	secured.DELETE("/cards/:id", cardHandler.Delete, RequireAdmin)

	// Transfer routes
	secured.POST("/transfers/own", transferHandler.TransferOwn)
	secured.GET("/transfers/my", transferHandler.ListMy)
	secured.GET("/transfers/:transactionId", transferHandler.GetByTransactionID)

	// Admin user management routes
	users := secured.Group("/admin/users", RequireAdmin)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
}

// RequireAdmin rejects callers without the admin authority.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		call, ok := c.Get(handler.CallContextKey).(auth.CallContext)
		if !ok || !call.IsAdmin() {
			return errors.AccessDenied("Admin role required")
		}
		return next(c)
	}
}

// ErrorHandler renders domain errors as {timestamp, status, error, message}
// bodies and passes echo errors (binding, validation, auth) through unchanged.
// Anything unrecognized becomes a redacted 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if stderrors.As(err, &he) {
		switch msg := he.Message.(type) {
		case map[string]string:
			_ = c.JSON(he.Code, msg)
		case errors.ErrorResponse:
			_ = c.JSON(he.Code, msg)
		default:
			_ = c.JSON(he.Code, map[string]interface{}{"message": he.Message})
		}
		return
	}

	status, body := errors.MapToHTTP(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	_ = c.JSON(status, body)
}

// CustomValidator wraps validator for echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator creates the request validator used by the server.
func NewCustomValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
