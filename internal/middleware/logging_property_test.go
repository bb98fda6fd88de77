package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// All incoming requests must be logged with method, path, and timestamp
func TestProperty_RequestLogging(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all requests are logged with required fields", prop.ForAll(
		func(method string, path string) bool {
			// Create observed logger
			core, logs := observer.New(zapcore.InfoLevel)
			logger := zap.New(core)

			// Create test router
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestLoggingMiddleware(logger))

			// Add test route
			router.Handle(method, path, func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			// Create test request
			req := httptest.NewRequest(method, path, nil)
			w := httptest.NewRecorder()

			// Execute request
			router.ServeHTTP(w, req)

			// Verify log entry was created
			logEntries := logs.All()
			if len(logEntries) == 0 {
				t.Logf("No log entries found")
				return false
			}

			// Find the request log entry
			var requestLog *observer.LoggedEntry
			for i := range logEntries {
				if logEntries[i].Message == "Request completed" {
					requestLog = &logEntries[i]
					break
				}
			}

			if requestLog == nil {
				t.Logf("Request log entry not found")
				return false
			}

			// Verify required fields
			fields := requestLog.ContextMap()

			if fields["method"] != method {
				t.Logf("Method mismatch: expected %s, got %v", method, fields["method"])
				return false
			}

			if fields["path"] != path {
				t.Logf("Path mismatch: expected %s, got %v", path, fields["path"])
				return false
			}

			// Timestamp should be present
			if _, ok := fields["timestamp"]; !ok {
				t.Logf("timestamp field missing")
				return false
			}

			// Duration should be present
			if _, ok := fields["duration"]; !ok {
				t.Logf("duration field missing")
				return false
			}

			// Status should be present
			if _, ok := fields["status"]; !ok {
				t.Logf("status field missing")
				return false
			}

			return true
		},
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
		gen.OneConstOf("/api/v1/logs", "/api/v1/dashboard", "/api/v1/insights"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// All errors must be logged with stack traces and request context
func TestProperty_ErrorLoggingDetail(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("errors are logged with stack traces and context", prop.ForAll(
		func(errorMessage string, path string) bool {
			// Create observed logger
			core, logs := observer.New(zapcore.ErrorLevel)
			logger := zap.New(core)

			// Create test router
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(ErrorLoggingMiddleware(logger))

			// Add test route that generates an error
			router.GET(path, func(c *gin.Context) {
				c.Error(gin.Error{
					Err:  &testError{msg: errorMessage},
					Type: gin.ErrorTypePrivate,
				})
				c.Status(http.StatusInternalServerError)
			})

			// Create test request
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()

			// Execute request
			router.ServeHTTP(w, req)

			// Verify error log entry was created
			logEntries := logs.All()
			if len(logEntries) == 0 {
				t.Logf("No error log entries found")
				return false
			}

			// Find the error log entry
			var errorLog *observer.LoggedEntry
			for i := range logEntries {
				if logEntries[i].Message == "Request error occurred" {
					errorLog = &logEntries[i]
					break
				}
			}

			if errorLog == nil {
				t.Logf("Error log entry not found")
				return false
			}

			// Verify required fields
			fields := errorLog.ContextMap()

			// Error should be present
			if _, ok := fields["error"]; !ok {
				t.Logf("error field missing")
				return false
			}

			// Method should be present
			if fields["method"] != "GET" {
				t.Logf("method field missing or incorrect")
				return false
			}

			// Path should be present
			if fields["path"] != path {
				t.Logf("path field missing or incorrect")
				return false
			}

			// Stack trace should be present
			if _, ok := fields["stack_trace"]; !ok {
				t.Logf("stack_trace field missing")
				return false
			}

			return true
		},
		gen.AlphaString(),
		gen.OneConstOf("/api/v1/charts", "/api/v1/reports", "/api/v1/widgets"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Every response carries the request ID, either echoed from the caller or
// freshly generated
func TestProperty_RequestIDPropagation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("request IDs are echoed or generated", prop.ForAll(
		func(incomingID string) bool {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestIDMiddleware())
			router.GET("/api/v1/health", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/v1/health", nil)
			if incomingID != "" {
				req.Header.Set("X-Request-ID", incomingID)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			got := w.Header().Get("X-Request-ID")
			if got == "" {
				t.Logf("X-Request-ID header missing")
				return false
			}
			if incomingID != "" && got != incomingID {
				t.Logf("request ID not echoed: expected %s, got %s", incomingID, got)
				return false
			}

			return true
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Helper types

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
