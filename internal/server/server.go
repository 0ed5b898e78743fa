// Package server exposes the briefing pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"repobrief/internal/github"
	"repobrief/internal/input"
	"repobrief/internal/models"
)

// Runner is the briefing flow the handlers delegate to.
type Runner interface {
	Run(ctx context.Context, in input.Input) (*models.Briefing, error)
}

// New assembles the router.
func New(runner Runner) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID())

	r.GET("/healthz", healthHandler(runner))
	r.POST("/v1/briefings", briefingHandler(runner))
	return r
}

// requestID tags every request so responses and log lines can be matched.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func healthHandler(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The mock key exercises the full pipeline wiring with zero
		// network traffic.
		b, err := runner.Run(c.Request.Context(), input.Input{
			RepoURL: "https://github.com/octocat/hello-world",
			APIKey:  input.MockAPIKey,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "briefing": b})
	}
}

func briefingHandler(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in input.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
			return
		}

		briefing, err := runner.Run(c.Request.Context(), in)
		if err != nil {
			logrus.Warnf("Briefing request %s failed: %v", c.GetString("request_id"), err)
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, briefing)
	}
}

// statusFor maps pipeline errors onto HTTP statuses: caller mistakes are
// 4xx, upstream trouble is a 502.
func statusFor(err error) int {
	var missing *input.MissingFieldError
	switch {
	case errors.As(err, &missing), errors.Is(err, input.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, github.ErrRepositoryNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
