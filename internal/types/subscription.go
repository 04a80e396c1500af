package types

// SubscriptionStatus is the status of a subscription as reported by the
// payment provider. Cancellation is a terminal status value, not a row
// deletion.
type SubscriptionStatus string

const (
	SubscriptionStatusActive            SubscriptionStatus = "active"
	SubscriptionStatusTrialing          SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue           SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled          SubscriptionStatus = "canceled"
	SubscriptionStatusIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionStatusUnpaid            SubscriptionStatus = "unpaid"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// Validate checks that the status is one of the provider's known values
func (s SubscriptionStatus) Validate() bool {
	switch s {
	case SubscriptionStatusActive,
		SubscriptionStatusTrialing,
		SubscriptionStatusPastDue,
		SubscriptionStatusCanceled,
		SubscriptionStatusIncomplete,
		SubscriptionStatusIncompleteExpired,
		SubscriptionStatusUnpaid:
		return true
	}
	return false
}

// IsTerminal returns true for statuses after which the provider will send no
// further renewal events for the subscription
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCanceled || s == SubscriptionStatusIncompleteExpired
}
