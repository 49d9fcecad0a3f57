package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/mercadillo/mercadillo/internal/pkg/auth"
	"github.com/mercadillo/mercadillo/internal/server/http/dto"
)

const (
	signatureHeader = "x-signature"
	requestIDHeader = "x-request-id"
)

// WebhookSignature verifies the provider signature of webhook deliveries when enabled.
// The request body is restored for the next handler.
func WebhookSignature(verifier pkgAuth.SignatureVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifier.Enabled() {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		_ = c.Request.Body.Close()
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		var req dto.WebhookRequest
		if len(bytes.TrimSpace(body)) > 0 {
			_ = json.Unmarshal(body, &req)
		}
		req.ApplyQuery(c.Request.URL.Query())

		err = verifier.Verify(c.GetHeader(signatureHeader), c.GetHeader(requestIDHeader), req.Data.ID.String())
		if err != nil {
			logger.WarnContext(c.Request.Context(), "webhook signature rejected",
				slog.String("verifier", verifier.Name()),
				slog.Any("error", err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid signature"})
			return
		}
		c.Next()
	}
}
