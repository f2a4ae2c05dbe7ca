package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Gopher0727/InviteShare/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("creates logger with JSON format and stdout output", func(t *testing.T) {
		cfg := &config.LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		}

		logger, err := NewLogger(cfg)
		require.NoError(t, err)
		require.NotNil(t, logger)

		// Verify logger can log without errors
		logger.Info("test message")
		_ = logger.Sync()
	})

	t.Run("creates logger with text format", func(t *testing.T) {
		cfg := &config.LoggingConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
		}

		logger, err := NewLogger(cfg)
		require.NoError(t, err)
		require.NotNil(t, logger)

		logger.Debug("test debug message")
		_ = logger.Sync()
	})

	t.Run("creates logger with file output", func(t *testing.T) {
		// Create temporary directory for test logs
		tmpDir := t.TempDir()
		logFile := filepath.Join(tmpDir, "test.log")

		cfg := &config.LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: logFile,
		}

		logger, err := NewLogger(cfg)
		require.NoError(t, err)
		require.NotNil(t, logger)

		// Log a message
		logger.Info("test file message")

		// Close logger to release file handle
		err = logger.Close()
		require.NoError(t, err)

		// Verify file was created and contains the message
		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "test file message")
	})

	t.Run("handles different log levels", func(t *testing.T) {
		levels := []string{"debug", "info", "warn", "error"}

		for _, level := range levels {
			cfg := &config.LoggingConfig{
				Level:  level,
				Format: "json",
				Output: "stdout",
			}

			logger, err := NewLogger(cfg)
			require.NoError(t, err, "failed to create logger for level: %s", level)
			require.NotNil(t, logger)

			// Test that logger works
			logger.Info("test message for level: " + level)
			_ = logger.Sync()
		}
	})

	t.Run("defaults to info level for invalid level", func(t *testing.T) {
		cfg := &config.LoggingConfig{
			Level:  "invalid",
			Format: "json",
			Output: "stdout",
		}

		logger, err := NewLogger(cfg)
		require.NoError(t, err)
		require.NotNil(t, logger)
	})
}

func TestNewDevelopmentLogger(t *testing.T) {
	logger, err := NewDevelopmentLogger()
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Debug("development debug message")
	logger.Info("development info message")
	_ = logger.Sync()
}

func TestNewProductionLogger(t *testing.T) {
	logger, err := NewProductionLogger()
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("production info message")
	logger.Error("production error message")
	_ = logger.Sync()
}

func TestWithTraceID(t *testing.T) {
	logger, err := NewDevelopmentLogger()
	require.NoError(t, err)

	traceID := "test-trace-123"
	loggerWithTrace := logger.WithTraceID(traceID)

	require.NotNil(t, loggerWithTrace)
	// Verify it's a different logger instance
	assert.NotEqual(t, logger, loggerWithTrace)

	// Log with trace ID
	loggerWithTrace.Info("message with trace ID")
	_ = loggerWithTrace.Sync()
}

func TestWithContext(t *testing.T) {
	logger, err := NewDevelopmentLogger()
	require.NoError(t, err)

	t.Run("extracts trace ID from context", func(t *testing.T) {
		traceID := "context-trace-456"
		ctx := context.WithValue(context.Background(), TraceIDKey, traceID)

		loggerWithContext := logger.WithContext(ctx)
		require.NotNil(t, loggerWithContext)

		loggerWithContext.Info("message with context trace ID")
		_ = loggerWithContext.Sync()
	})

	t.Run("returns original logger when no trace ID in context", func(t *testing.T) {
		ctx := context.Background()

		loggerWithContext := logger.WithContext(ctx)
		require.NotNil(t, loggerWithContext)
		assert.Equal(t, logger, loggerWithContext)
	})
}

func TestWithFields(t *testing.T) {
	logger, err := NewDevelopmentLogger()
	require.NoError(t, err)

	fields := []zap.Field{
		zap.String("category_id", "12"),
		zap.String("client_ip", "1.2.3.4"),
		zap.Int("count", 42),
	}

	loggerWithFields := logger.WithFields(fields...)
	require.NotNil(t, loggerWithFields)

	loggerWithFields.Info("message with fields")
	_ = loggerWithFields.Sync()
}

func TestContextLoggingMethods(t *testing.T) {
	logger, err := NewDevelopmentLogger()
	require.NoError(t, err)

	traceID := "test-trace-789"
	ctx := context.WithValue(context.Background(), TraceIDKey, traceID)

	t.Run("DebugContext", func(t *testing.T) {
		logger.DebugContext(ctx, "debug message with context",
			zap.String("key", "value"))
	})

	t.Run("InfoContext", func(t *testing.T) {
		logger.InfoContext(ctx, "info message with context",
			zap.String("key", "value"))
	})

	t.Run("WarnContext", func(t *testing.T) {
		logger.WarnContext(ctx, "warn message with context",
			zap.String("key", "value"))
	})

	t.Run("ErrorContext", func(t *testing.T) {
		logger.ErrorContext(ctx, "error message with context",
			zap.String("key", "value"))
	})

	_ = logger.Sync()
}

func TestLogLevels(t *testing.T) {
	// Create a temporary file to capture logs
	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "level_test.log")

	cfg := &config.LoggingConfig{
		Level:    "warn",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	// Log at different levels
	logger.Debug("debug message - should not appear")
	logger.Info("info message - should not appear")
	logger.Warn("warn message - should appear")
	logger.Error("error message - should appear")

	// Close logger to release file handle
	err = logger.Close()
	require.NoError(t, err)

	// Read log file
	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	logContent := string(content)

	// Verify only warn and error messages appear
	assert.NotContains(t, logContent, "debug message")
	assert.NotContains(t, logContent, "info message")
	assert.Contains(t, logContent, "warn message")
	assert.Contains(t, logContent, "error message")
}

func TestJSONFormat(t *testing.T) {
	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "json_test.log")

	cfg := &config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	// Log a structured message
	logger.Info("test json message",
		zap.String("client_ip", "1.2.3.4"),
		zap.Int("count", 42),
		zap.Bool("active", true),
	)

	// Close logger to release file handle
	err = logger.Close()
	require.NoError(t, err)

	// Read and parse JSON log
	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	// Parse JSON
	var logEntry map[string]any
	err = json.Unmarshal(bytes.TrimSpace(content), &logEntry)
	require.NoError(t, err)

	// Verify JSON structure
	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "test json message", logEntry["message"])
	assert.Equal(t, "1.2.3.4", logEntry["client_ip"])
	assert.Equal(t, float64(42), logEntry["count"])
	assert.Equal(t, true, logEntry["active"])
	assert.NotEmpty(t, logEntry["timestamp"])
}

func TestTraceIDInLogs(t *testing.T) {
	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "trace_test.log")

	cfg := &config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	traceID := "trace-in-logs-123"
	ctx := context.WithValue(context.Background(), TraceIDKey, traceID)
	logger.InfoContext(ctx, "message carrying trace id")

	err = logger.Close()
	require.NoError(t, err)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var logEntry map[string]any
	err = json.Unmarshal(bytes.TrimSpace(content), &logEntry)
	require.NoError(t, err)
	assert.Equal(t, traceID, logEntry["trace_id"])
}
