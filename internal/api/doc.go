// Package api contains the HTTP handlers for the service. Handlers decode
// and validate requests, delegate to the service layer and translate service
// errors into sanitized HTTP responses. Authentication and trace IDs are
// provided by the middleware subpackage; response helpers live in shared.
package api
