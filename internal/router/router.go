package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"contactbook/internal/config"
	apperrors "contactbook/internal/errors"
	"contactbook/internal/handler"
	"contactbook/internal/logging"
	appmw "contactbook/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *slog.Logger,
	identity *appmw.Identity,
	authHandler *handler.AuthHandler,
	contactHandler *handler.ContactHandler,
) {
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(appmw.Metrics())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: !slices.Contains(cfg.CORSOrigins, "*"),
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	requireUser := identity.Middleware()

	// Public routes
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Secured routes (require a valid bearer token)
	authGroup.GET("/user", authHandler.User, requireUser)
	authGroup.POST("/logout", authHandler.Logout, requireUser)

	// Route-level middleware keeps unknown paths under /contacts a 404.
	contacts := api.Group("/contacts")
	contacts.GET("", contactHandler.List, requireUser)
	contacts.POST("/create", contactHandler.Create, requireUser)
	contacts.GET("/contact/:id", contactHandler.Get, requireUser)
	contacts.PUT("/update/:id", contactHandler.Update, requireUser)
	contacts.DELETE("/delete/:id", contactHandler.Delete, requireUser)
}

// ErrorHandler renders every error as {message, code}. Unmatched routes and
// unsupported methods both surface as "Resource not found".
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := toHTTPError(err)
		if httpErr.StatusCode >= http.StatusInternalServerError {
			log.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err,
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(httpErr.StatusCode)
		} else {
			writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if writeErr != nil {
			log.Error("write error response", "error", writeErr)
		}
	}
}

func toHTTPError(err error) *apperrors.HTTPError {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return apperrors.MapErrorToHTTP(err)
	}

	switch he.Code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return apperrors.MapErrorToHTTP(apperrors.ErrRouteNotFound)
	case http.StatusInternalServerError:
		return apperrors.MapErrorToHTTP(err)
	}

	message := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok && m != "" {
		message = m
	} else if he.Message != nil {
		message = fmt.Sprint(he.Message)
	}
	return apperrors.NewHTTPError(he.Code, message, "")
}
