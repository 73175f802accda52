package logger

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"clinic-management-api/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("verbose"))
}

func TestWriter_StdoutOnly(t *testing.T) {
	w := Writer(config.LogConfig{})
	assert.Equal(t, io.Writer(os.Stdout), w)
}

func TestWriter_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	w := Writer(config.LogConfig{FilePath: path, MaxSizeMB: 1})

	_, err := w.Write([]byte("{\"msg\":\"hello\"}\n"))
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
