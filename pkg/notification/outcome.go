package notification

// Status classifies the terminal state of a dispatch attempt.
type Status string

const (
	StatusDelivered     Status = "delivered"
	StatusMockDelivered Status = "mock_delivered"
	StatusFailed        Status = "failed"
)

// Outcome is the typed result of a dispatch attempt. It is returned to the
// caller, never persisted. Err is set only when Status is StatusFailed.
type Outcome struct {
	Status  Status
	Receipt string
	Err     error
}

func Delivered() Outcome {
	return Outcome{Status: StatusDelivered}
}

func MockDelivered(receipt string) Outcome {
	return Outcome{Status: StatusMockDelivered, Receipt: receipt}
}

func Failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

// OK reports whether the notification was accepted, on either the real or the
// mock delivery path.
func (o Outcome) OK() bool {
	return o.Status == StatusDelivered || o.Status == StatusMockDelivered
}
