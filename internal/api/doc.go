// Package api handles incoming HTTP requests, request validation and
// response formatting. It is the only layer that turns service errors
// into HTTP status codes (see MapErrorToStatusCode and HandleAPIError).
package api
