package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"eventhub/pkg/logger"
)

// NewErrorHandler returns the final error handler. Uncaught errors become a
// 500 with the message; the stack-bearing error detail is only logged, and
// only echoed to the client outside production.
func NewErrorHandler(env string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		log := logger.FromEcho(c)

		code := http.StatusInternalServerError
		var payload interface{} = echo.Map{"error": "internal server error"}

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			switch msg := he.Message.(type) {
			case string:
				payload = echo.Map{"error": msg}
			case echo.Map:
				payload = msg
			default:
				payload = echo.Map{"error": http.StatusText(code)}
			}
		} else if env != "production" {
			payload = echo.Map{"error": err.Error()}
		}

		if code >= http.StatusInternalServerError {
			log.Error("Unhandled error",
				zap.Error(err),
				zap.String("path", c.Request().URL.Path),
			)
		}

		_ = c.JSON(code, payload)
	}
}
