package notification

import "fmt"

// TargetKind enumerates the two routing variants a Request can have.
type TargetKind int

const (
	TargetUnset TargetKind = iota
	TargetTopic
	TargetDeviceToken
)

// Target is a tagged union: either a broadcast topic or a single device token,
// never both. The zero value is unset and rejected by the payload builder.
type Target struct {
	kind  TargetKind
	value string
}

// Topic targets a provider-side broadcast channel.
func Topic(name string) Target {
	return Target{kind: TargetTopic, value: name}
}

// DeviceToken targets a single device directly.
func DeviceToken(value string) Target {
	return Target{kind: TargetDeviceToken, value: value}
}

func (t Target) Kind() TargetKind { return t.kind }

// Topic returns the topic name when the target is a topic.
func (t Target) Topic() (string, bool) {
	return t.value, t.kind == TargetTopic
}

// DeviceToken returns the token value when the target is a device token.
func (t Target) DeviceToken() (string, bool) {
	return t.value, t.kind == TargetDeviceToken
}

// String is a log-safe description of the target.
func (t Target) String() string {
	switch t.kind {
	case TargetTopic:
		return "topic:" + t.value
	case TargetDeviceToken:
		return "token:" + truncateForLog(t.value)
	default:
		return "unset"
	}
}

// Device tokens are opaque identifiers, not secrets, but full values bloat
// log lines; a prefix is enough to correlate.
func truncateForLog(v string) string {
	if len(v) <= 12 {
		return v
	}
	return fmt.Sprintf("%s...", v[:12])
}
