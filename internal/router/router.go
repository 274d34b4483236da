package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"fixif/internal/auth"
	"fixif/internal/config"
	apperrors "fixif/internal/errors"
	"fixif/internal/handler"
)

// Register wires routes and middleware. authHandler or diagnosisHandler may
// be nil when the matching backend is not configured; their routes then
// answer 503 instead of the process refusing to start.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	diagnosisHandler *handler.DiagnosisHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "ok",
			"message": "Vehicle AI Diagnosis API is running",
			"model":   cfg.OpenAIModel,
		})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	if authHandler != nil {
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
	} else {
		api.POST("/auth/register", unavailable("authentication"))
		api.POST("/auth/login", unavailable("authentication"))
	}

	// Secured routes (require a Bearer session token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.ValidateToken(tokenString)
		},
		ErrorHandler: gateErrorHandler,
	}))

	if authHandler != nil {
		secured.GET("/auth/me", authHandler.Me)
		secured.POST("/auth/logout", authHandler.Logout)
	} else {
		secured.GET("/auth/me", unavailable("authentication"))
		secured.POST("/auth/logout", unavailable("authentication"))
	}

	secured.POST("/diagnose", diagnosisHandler.Diagnose)
}

// gateErrorHandler keeps the two failure modes apart: no usable
// Authorization header versus a token that did not verify.
func gateErrorHandler(c echo.Context, err error) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "no token provided",
			Code:  "NO_TOKEN",
		})
	}
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: "invalid or expired token",
		Code:  "INVALID_TOKEN",
	})
}

func unavailable(feature string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, apperrors.ErrorResponse{
			Error: feature + " is not configured on this server",
			Code:  "FEATURE_UNAVAILABLE",
		})
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
