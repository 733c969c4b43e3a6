package fcm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseline/go-dispatch-service/internal/fcm"
	"github.com/caseline/go-dispatch-service/pkg/notification"
)

func TestBuildMessage(t *testing.T) {
	testCases := []struct {
		name          string
		target        notification.Target
		expectedTopic string
		expectedToken string
	}{
		{
			name:          "Topic target populates topic only",
			target:        notification.Topic("teachers"),
			expectedTopic: "teachers",
		},
		{
			name:          "Path-style topic prefix is stripped",
			target:        notification.Topic("/topics/teachers"),
			expectedTopic: "teachers",
		},
		{
			name:          "Device token target populates token only",
			target:        notification.DeviceToken("device-token-123"),
			expectedToken: "device-token-123",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := notification.Request{
				Target: tc.target,
				Title:  "New Message in Case: Smith",
				Body:   "hello",
				Data:   map[string]string{"message_id": "41"},
			}

			msg, err := fcm.BuildMessage(req)

			require.NoError(t, err)
			assert.Equal(t, tc.expectedTopic, msg.Topic)
			assert.Equal(t, tc.expectedToken, msg.Token)
			// Exactly one of topic/token, never both.
			assert.True(t, (msg.Topic == "") != (msg.Token == ""))
			assert.Equal(t, "New Message in Case: Smith", msg.Notification.Title)
			assert.Equal(t, "hello", msg.Notification.Body)
			assert.Equal(t, map[string]string{"message_id": "41"}, msg.Data)
		})
	}

	t.Run("Unset target is rejected", func(t *testing.T) {
		_, err := fcm.BuildMessage(notification.Request{Title: "x"})
		assert.ErrorIs(t, err, fcm.ErrNoTarget)
	})
}
