package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewWithOutput_Levels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		verbose  bool
		expected logrus.Level
	}{
		{"info", "info", false, logrus.InfoLevel},
		{"upper case warn", " WARN ", false, logrus.WarnLevel},
		{"verbose wins", "error", true, logrus.DebugLevel},
		{"invalid falls back to info", "loud", false, logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithOutput(&buf, tt.level, tt.verbose)
			assert.Equal(t, tt.expected, log.GetLevel())
		})
	}
}

func TestNewWithOutput_InvalidLevelIsReported(t *testing.T) {
	var buf bytes.Buffer
	NewWithOutput(&buf, "loud", false)
	assert.Contains(t, buf.String(), "invalid_level=loud")
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Info("hidden")
	assert.NotNil(t, log)
}
