package alarm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestPlayer_AlertDoesNotBlock(t *testing.T) {
	logger, hook := test.NewNullLogger()
	p := NewPlayer(filepath.Join(t.TempDir(), "missing.mp3"), logrus.NewEntry(logger))

	start := time.Now()
	p.Alert()
	assert.Less(t, time.Since(start), time.Second)

	assert.Eventually(t, func() bool {
		entry := hook.LastEntry()
		return entry != nil && entry.Level == logrus.ErrorLevel
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPlayer_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alarm.mp3")
	err := os.WriteFile(path, []byte("not an mp3 stream"), 0o644)
	assert.NoError(t, err)

	p := NewPlayer(path, nil)
	assert.Error(t, p.play())
}
