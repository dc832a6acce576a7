package error

import "net/http"

// GenericError is implemented by every error that knows how it should be
// rendered over HTTP.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}

type ValidationError string

func (err ValidationError) Error() string   { return string(err) }
func (err ValidationError) ErrCode() string { return "VALIDATION_ERROR" }
func (err ValidationError) StatusCode() int { return http.StatusBadRequest }

type UnauthorizedError string

func (err UnauthorizedError) Error() string   { return string(err) }
func (err UnauthorizedError) ErrCode() string { return "UNAUTHORIZED" }
func (err UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

type ForbiddenError string

func (err ForbiddenError) Error() string   { return string(err) }
func (err ForbiddenError) ErrCode() string { return "FORBIDDEN" }
func (err ForbiddenError) StatusCode() int { return http.StatusForbidden }

type NotFoundError string

func (err NotFoundError) Error() string   { return string(err) }
func (err NotFoundError) ErrCode() string { return "NOT_FOUND_ERROR" }
func (err NotFoundError) StatusCode() int { return http.StatusNotFound }

// GatewayError reports a failed call to an upstream collaborator.
type GatewayError string

func (err GatewayError) Error() string   { return string(err) }
func (err GatewayError) ErrCode() string { return "BAD_GATEWAY" }
func (err GatewayError) StatusCode() int { return http.StatusBadGateway }

type InternalServerError string

func (err InternalServerError) Error() string   { return string(err) }
func (err InternalServerError) ErrCode() string { return "INTERNAL_SERVER_ERROR" }
func (err InternalServerError) StatusCode() int { return http.StatusInternalServerError }

// UpstreamError relays a non-2xx answer from an upstream collaborator with
// its original status code.
type UpstreamError struct {
	Status  int
	Message string
}

func (err UpstreamError) Error() string   { return err.Message }
func (err UpstreamError) ErrCode() string { return "UPSTREAM_ERROR" }
func (err UpstreamError) StatusCode() int {
	if err.Status < 400 {
		return http.StatusBadGateway
	}
	return err.Status
}
