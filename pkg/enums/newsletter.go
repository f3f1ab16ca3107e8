package enums

import "fmt"

// SubscriberStatus tracks a newsletter subscriber through the double opt-in flow.
type SubscriberStatus string

const (
	SubscriberStatusPending      SubscriberStatus = "pending"
	SubscriberStatusConfirmed    SubscriberStatus = "confirmed"
	SubscriberStatusUnsubscribed SubscriberStatus = "unsubscribed"
)

var validSubscriberStatuses = []SubscriberStatus{
	SubscriberStatusPending,
	SubscriberStatusConfirmed,
	SubscriberStatusUnsubscribed,
}

// String implements fmt.Stringer.
func (s SubscriberStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubscriberStatus.
func (s SubscriberStatus) IsValid() bool {
	for _, candidate := range validSubscriberStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubscriberStatus converts raw input into a SubscriberStatus.
func ParseSubscriberStatus(value string) (SubscriberStatus, error) {
	for _, candidate := range validSubscriberStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscriber status %q", value)
}
