// Package response provides the JSON envelopes written by the showroom API.
// Every body carries a success flag; vehicle lists add a count, failures add
// an error message.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/errors"
)

// Response is the envelope for single items, arbitrary data and errors.
type Response struct {
	Success bool              `json:"success"`
	Vehicle *catalogs.Vehicle `json:"vehicle,omitempty"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// ListResponse is the envelope for vehicle lists. The vehicles key is
// always present, even for an empty list.
type ListResponse struct {
	Success  bool               `json:"success"`
	Count    int                `json:"count"`
	Vehicles []catalogs.Vehicle `json:"vehicles"`
	Stale    bool               `json:"stale,omitempty"`
}

// List creates the response for a vehicle list.
func List(vehicles []catalogs.Vehicle) ListResponse {
	if vehicles == nil {
		vehicles = []catalogs.Vehicle{}
	}
	return ListResponse{Success: true, Count: len(vehicles), Vehicles: vehicles}
}

// Fail creates an error response.
func Fail(message string) Response {
	return Response{Success: false, Error: message}
}

// JSON writes v with the given status code. HTML characters are not
// escaped so descriptions and URLs round-trip unchanged.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	// Encoding errors are ignored as headers are already sent
	_ = enc.Encode(v)
}

// Vehicles writes a 200 vehicle list.
func Vehicles(w http.ResponseWriter, vehicles []catalogs.Vehicle, stale bool) {
	resp := List(vehicles)
	resp.Stale = stale
	JSON(w, http.StatusOK, resp)
}

// Vehicle writes a 200 single-vehicle response.
func Vehicle(w http.ResponseWriter, v catalogs.Vehicle) {
	JSON(w, http.StatusOK, Response{Success: true, Vehicle: &v})
}

// OK writes a successful response with arbitrary data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, Fail(message))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message string) {
	JSON(w, http.StatusNotFound, Fail(message))
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail("method "+method+" is not supported for this endpoint"))
}

// RateLimited writes a 429 error response.
func RateLimited(w http.ResponseWriter) {
	JSON(w, http.StatusTooManyRequests, Fail("rate limit exceeded, try again later"))
}

// Unauthorized writes a 401 error response.
func Unauthorized(w http.ResponseWriter, message string) {
	JSON(w, http.StatusUnauthorized, Fail(message))
}

// InternalError writes a 500 error response carrying the error message.
func InternalError(w http.ResponseWriter, err error) {
	msg := "internal server error"
	if err != nil {
		msg = err.Error()
	}
	JSON(w, http.StatusInternalServerError, Fail(msg))
}

// ErrorFromType maps typed errors to HTTP responses.
func ErrorFromType(w http.ResponseWriter, err error) {
	switch {
	case errors.IsNotFound(err):
		NotFound(w, err.Error())
	case errors.IsValidationError(err):
		BadRequest(w, err.Error())
	default:
		InternalError(w, err)
	}
}
