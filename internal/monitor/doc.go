// Package monitor delivers observable-property updates to an external
// monitor endpoint and registers artifacts with an environment
// explorer.
//
// Deliveries are plain HTTP POSTs tagged with an X-Notification-Type
// header and are strictly at-most-once: there is no buffering and no
// per-notification retry. Lifecycle resets use a short fixed backoff
// schedule instead, because they gate startup and shutdown rather than
// live traffic. An optional Publisher mirrors every delivered
// notification to a message broker.
package monitor
