package notification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caseline/go-dispatch-service/pkg/notification"
)

func TestTarget(t *testing.T) {
	t.Run("Topic variant", func(t *testing.T) {
		target := notification.Topic("teachers")

		name, ok := target.Topic()
		assert.True(t, ok)
		assert.Equal(t, "teachers", name)

		_, ok = target.DeviceToken()
		assert.False(t, ok)
		assert.Equal(t, "topic:teachers", target.String())
	})

	t.Run("DeviceToken variant", func(t *testing.T) {
		target := notification.DeviceToken("abcdefghijklmnopqrstuvwxyz")

		token, ok := target.DeviceToken()
		assert.True(t, ok)
		assert.Equal(t, "abcdefghijklmnopqrstuvwxyz", token)

		_, ok = target.Topic()
		assert.False(t, ok)
		// Long tokens are shortened in log output.
		assert.Equal(t, "token:abcdefghijkl...", target.String())
	})

	t.Run("Zero value is unset", func(t *testing.T) {
		var target notification.Target
		assert.Equal(t, notification.TargetUnset, target.Kind())
		assert.Equal(t, "unset", target.String())
	})
}

func TestOutcome(t *testing.T) {
	assert.True(t, notification.Delivered().OK())
	assert.True(t, notification.MockDelivered("r-1").OK())
	assert.False(t, notification.Failed(assert.AnError).OK())
}
