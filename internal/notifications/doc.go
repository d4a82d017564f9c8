// Package notifications announces batch results over ntfy.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers never check whether notifications are enabled. Delivery failures
// are returned to the caller, which logs them; a failed notification never
// changes the outcome of a batch.
package notifications
