// Package proxy forwards public API routes to the backing services.
package proxy

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jpjss/family-finance/shared/config"
	"github.com/Jpjss/family-finance/shared/logging"
	"github.com/Jpjss/family-finance/shared/middleware"
	"github.com/Jpjss/family-finance/shared/token"
)

// maxBodyBytes caps request bodies read into memory before forwarding.
const maxBodyBytes = 1 << 20

// hop-by-hop headers are never forwarded
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

// Register mounts every public route on router. Protected routes verify the
// token here before the request reaches a service.
func Register(router *gin.Engine, codec token.Codec, upstreams *config.Gateway) {
	client := &http.Client{Timeout: upstreams.UpstreamTimeout}
	auth := middleware.AuthMiddleware(codec)

	toAuth := To(client, upstreams.AuthURL)
	toUser := To(client, upstreams.UserURL)
	toTransactions := To(client, upstreams.TransactionURL)
	toNotes := To(client, upstreams.NoteURL)

	// Auth routes (no authentication required)
	router.POST("/auth/register", toUser)
	router.POST("/auth/login", toAuth)
	router.POST("/auth/refresh", toAuth)

	router.GET("/auth/me", auth, toUser)

	transactions := router.Group("/transactions", auth)
	{
		transactions.GET("", toTransactions)
		transactions.POST("", toTransactions)
		transactions.GET("/summary", toTransactions)
		transactions.PATCH("/:id", toTransactions)
		transactions.DELETE("/:id", toTransactions)
	}

	notes := router.Group("/monthly-notes", auth)
	{
		notes.GET("", toNotes)
		notes.POST("", toNotes)
		notes.DELETE("", toNotes)
		notes.GET("/months", toNotes)
	}
}

// To returns a handler that replays the request against serviceURL and copies
// the response back. Identity headers are taken from the verified token only.
func To(client *http.Client, serviceURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := logging.FromContext(c.Request.Context())

		targetURL := serviceURL + c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			targetURL += "?" + c.Request.URL.RawQuery
		}

		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
			if err != nil {
				middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
				return
			}
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, bytes.NewReader(body))
		if err != nil {
			logger.Error("failed to build upstream request", logging.FieldError, err)
			middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		copyHeaders(req.Header, c.Request.Header)
		req.Header.Del(middleware.HeaderUserID)
		req.Header.Del(middleware.HeaderUserEmail)
		if userID, ok := middleware.GetUserID(c); ok {
			req.Header.Set(middleware.HeaderUserID, userID)
		}
		if email := c.GetString(middleware.ContextEmail); email != "" {
			req.Header.Set(middleware.HeaderUserEmail, email)
		}

		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			logger.Error("upstream request failed", "upstream", serviceURL, logging.FieldError, err)
			middleware.RespondWithError(c, http.StatusBadGateway, "Service unavailable")
			return
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			logger.Error("failed to read upstream response", "upstream", serviceURL, logging.FieldError, err)
			middleware.RespondWithError(c, http.StatusBadGateway, "Service unavailable")
			return
		}
		logger.Debug("proxied", "upstream", serviceURL, logging.FieldStatus, resp.StatusCode,
			logging.FieldDuration, time.Since(start).Milliseconds())

		for key, values := range resp.Header {
			if key == "Content-Length" || key == middleware.HeaderRequestID {
				continue
			}
			for _, value := range values {
				c.Writer.Header().Add(key, value)
			}
		}
		c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), respBody)
	}
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
}
