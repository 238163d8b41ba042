package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentFilter(t *testing.T) {
	filter := NewContentFilter()

	t.Run("plain mail passes", func(t *testing.T) {
		ok, reason := filter.Check([]byte("Subject: hi\r\n\r\nSee you at lunch?"))
		assert.True(t, ok)
		assert.Empty(t, reason)
	})

	t.Run("script tags are rejected", func(t *testing.T) {
		ok, reason := filter.Check([]byte(`<html><script>alert(1)</script></html>`))
		assert.False(t, ok)
		assert.Equal(t, "message contains active content", reason)
	})

	t.Run("a single spam keyword is tolerated", func(t *testing.T) {
		ok, _ := filter.Check([]byte("the casino opens at nine"))
		assert.True(t, ok)
	})

	t.Run("stacked spam keywords are rejected", func(t *testing.T) {
		ok, reason := filter.Check([]byte("FREE MONEY guaranteed, click here, act now"))
		assert.False(t, ok)
		assert.Equal(t, "message classified as spam", reason)
	})
}
