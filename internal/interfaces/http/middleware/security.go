package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inventario/backend/internal/infrastructure/config"
	"github.com/inventario/backend/internal/interfaces/http/dto"
	"github.com/unrolled/secure"
)

// Secure sets the security response headers. In development the SSL
// redirect and HSTS are turned off so plain http on localhost keeps working.
func Secure(cfg config.SecurityConfig, isDevelopment bool) gin.HandlerFunc {
	referrer := cfg.ReferrerPolicy
	if referrer == "" {
		referrer = "strict-origin-when-cross-origin"
	}
	csp := cfg.ContentSecurityPolicy
	if csp == "" {
		csp = "default-src 'none'; frame-ancestors 'none'"
	}

	s := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        referrer,
		ContentSecurityPolicy: csp,
		SSLRedirect:           cfg.SSLRedirect,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:            cfg.STSSeconds,
		STSIncludeSubdomains:  cfg.STSSeconds > 0,
		IsDevelopment:         isDevelopment,
	})

	return func(c *gin.Context) {
		if err := s.Process(c.Writer, c.Request); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Request rejected", GetRequestID(c)))
			return
		}
		// secure answered with a redirect
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}
		c.Next()
	}
}
