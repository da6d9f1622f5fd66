package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

// CORS allows the configured origins plus any vercel.app preview deployment
func CORS(origins []string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			if _, ok := allowed[origin]; ok {
				return true, nil
			}
			return strings.HasSuffix(origin, ".vercel.app"), nil
		},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
	})
}
