// Package admin exposes tenant provisioning over HTTP: store creation,
// branding and settings updates, custom domain assignment, and
// soft-enable/disable. The router wraps tenant.Service, so every write
// synchronously invalidates the resolution cache it shares with the
// tenant middleware.
package admin
