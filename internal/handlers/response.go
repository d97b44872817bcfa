package handlers

import (
	"encoding/json"
	"net/http"

	"booksearch/internal/books"
)

const (
	msgDescriptionRequired = "Description is required"
	msgInternal            = "Internal server error"
)

// result is either a success or a failure; no other variants exist.
type result interface {
	statusCode() int
	payload() any
}

type success struct {
	Books         []books.BookRecord `json:"books"`
	EnhancedQuery string             `json:"enhancedQuery,omitempty"`
}

func (success) statusCode() int { return http.StatusOK }
func (s success) payload() any {
	if s.Books == nil {
		s.Books = []books.BookRecord{}
	}
	return s
}

type failure struct {
	status  int
	Message string `json:"error"`
}

func (f failure) statusCode() int { return f.status }
func (f failure) payload() any { return f }

func badRequest(msg string) failure { return failure{status: http.StatusBadRequest, Message: msg} }
func internalError() failure { return failure{status: http.StatusInternalServerError, Message: msgInternal} }

// response is the transport-neutral reply; the Lambda entry points copy it
// into whichever API Gateway event type they were invoked with.
type response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

func preflight() response {
	return response{StatusCode: http.StatusOK, Headers: corsHeaders(), Body: ""}
}

func render(r result) (response, error) {
	b, err := json.Marshal(r.payload())
	if err != nil {
		return response{}, err
	}
	h := corsHeaders()
	h["Content-Type"] = "application/json"
	return response{StatusCode: r.statusCode(), Headers: h, Body: string(b)}, nil
}

// internalErrorResponse is built by hand so it cannot fail.
func internalErrorResponse() response {
	h := corsHeaders()
	h["Content-Type"] = "application/json"
	return response{
		StatusCode: http.StatusInternalServerError,
		Headers:    h,
		Body:       `{"error":"` + msgInternal + `"}`,
	}
}
