package types

// SyncResult holds the aggregate outcome of a full reconciliation pass.
// Per-record failures are counted here instead of aborting the batch.
type SyncResult struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
	Skipped int `json:"skipped"`
}

// Add merges another result into this one
func (r *SyncResult) Add(other SyncResult) {
	r.Total += other.Total
	r.Created += other.Created
	r.Updated += other.Updated
	r.Errors += other.Errors
	r.Skipped += other.Skipped
}

// WebhookEventType is a Stripe event type handled by the webhook ingress
type WebhookEventType string

const (
	WebhookEventTypeCheckoutSessionCompleted    WebhookEventType = "checkout.session.completed"
	WebhookEventTypeCustomerSubscriptionCreated WebhookEventType = "customer.subscription.created"
	WebhookEventTypeCustomerSubscriptionUpdated WebhookEventType = "customer.subscription.updated"
	WebhookEventTypeCustomerSubscriptionDeleted WebhookEventType = "customer.subscription.deleted"
	WebhookEventTypeInvoicePaymentSucceeded     WebhookEventType = "invoice.payment_succeeded"
	WebhookEventTypeInvoicePaymentFailed        WebhookEventType = "invoice.payment_failed"
)

// MetadataKeyUserID is the metadata key the checkout flow writes on Stripe
// subscriptions and customers to link them back to a local user.
const MetadataKeyUserID = "userId"
