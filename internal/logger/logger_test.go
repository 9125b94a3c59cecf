package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		quiet bool
		debug bool
	}{
		{
			name:  "normal mode",
			quiet: false,
			debug: false,
		},
		{
			name:  "quiet mode",
			quiet: true,
			debug: false,
		},
		{
			name:  "debug mode",
			quiet: false,
			debug: true,
		},
		{
			name:  "quiet and debug mode",
			quiet: true,
			debug: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.quiet, tt.debug)
			assert.NotNil(t, logger)
			assert.Equal(t, tt.quiet, logger.quiet)
			assert.Equal(t, tt.debug, logger.debug)
			assert.NotNil(t, logger.writer)
		})
	}
}

func TestLogger_Infof(t *testing.T) {
	tests := []struct {
		name           string
		quiet          bool
		message        string
		args           []interface{}
		expectedOutput string
	}{
		{
			name:           "info message in normal mode",
			quiet:          false,
			message:        "data stream %s created",
			args:           []interface{}{"logs-app"},
			expectedOutput: "data stream logs-app created\n",
		},
		{
			name:           "info message suppressed in quiet mode",
			quiet:          true,
			message:        "data stream %s created",
			args:           []interface{}{"logs-app"},
			expectedOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, tt.quiet, false)

			logger.Infof(tt.message, tt.args...)

			assert.Equal(t, tt.expectedOutput, buf.String())
		})
	}
}

func TestLogger_Successf(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, false)

	logger.Successf("rollover of %s complete", "logs-app")

	assert.Equal(t, "✓ rollover of logs-app complete\n", buf.String())
}

func TestLogger_Warningf(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, false)

	logger.Warningf("retention below %d days", 1)

	assert.Equal(t, "Warning: retention below 1 days\n", buf.String())
}

func TestLogger_Errorf_AlwaysShown(t *testing.T) {
	tests := []struct {
		name  string
		quiet bool
	}{
		{
			name:  "error in normal mode",
			quiet: false,
		},
		{
			name:  "error still shown in quiet mode",
			quiet: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, tt.quiet, false)

			logger.Errorf("data stream %s does not exist", "missing")

			assert.Equal(t, "Error: data stream missing does not exist\n", buf.String())
		})
	}
}

func TestLogger_Debugf(t *testing.T) {
	tests := []struct {
		name           string
		debug          bool
		expectedOutput string
	}{
		{
			name:           "debug message shown in debug mode",
			debug:          true,
			expectedOutput: "DEBUG: raw status 404\n",
		},
		{
			name:           "debug message suppressed by default",
			debug:          false,
			expectedOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, false, tt.debug)

			logger.Debugf("raw status %d", 404)

			assert.Equal(t, tt.expectedOutput, buf.String())
		})
	}
}

func TestLogger_Println(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, false)

	logger.Println()

	assert.Equal(t, "\n", buf.String())
}
