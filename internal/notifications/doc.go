// Package notifications delivers operational events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Access and error event classes toggle independently so a
// deployment can keep integrity alerts without announcing every asset fetch.
//
// Extend this package if you need alternative transports; callers depend only
// on the Service interface.
package notifications
