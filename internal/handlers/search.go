package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"booksearch/internal/books"
)

type QueryEnhancer interface {
	Enhance(ctx context.Context, description string) string
}

type BookSearcher interface {
	Search(ctx context.Context, query string, maxResults int) []books.BookRecord
}

type SearchHandler struct {
	enhancer   QueryEnhancer
	searcher   BookSearcher
	maxResults int
	log        *zap.Logger
}

func NewSearchHandler(enhancer QueryEnhancer, searcher BookSearcher, maxResults int, log *zap.Logger) *SearchHandler {
	if maxResults <= 0 {
		maxResults = books.DefaultMaxResults
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SearchHandler{
		enhancer:   enhancer,
		searcher:   searcher,
		maxResults: maxResults,
		log:        log,
	}
}

type SearchRequest struct {
	Description string `json:"description"`
}

type invocation struct {
	method    string
	body      string
	base64    bool
	requestID string
}

// Handle serves API Gateway REST (proxy) events.
func (h *SearchHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	res := h.serve(ctx, invocation{
		method:    req.HTTPMethod,
		body:      req.Body,
		base64:    req.IsBase64Encoded,
		requestID: requestID(ctx, req.RequestContext.RequestID),
	})
	return events.APIGatewayProxyResponse{
		StatusCode: res.StatusCode,
		Headers:    res.Headers,
		Body:       res.Body,
	}, nil
}

// HandleHTTP serves API Gateway HTTP API and function URL (payload v2) events.
func (h *SearchHandler) HandleHTTP(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	res := h.serve(ctx, invocation{
		method:    req.RequestContext.HTTP.Method,
		body:      req.Body,
		base64:    req.IsBase64Encoded,
		requestID: requestID(ctx, req.RequestContext.RequestID),
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: res.StatusCode,
		Headers:    res.Headers,
		Body:       res.Body,
	}, nil
}

func (h *SearchHandler) serve(ctx context.Context, inv invocation) (res response) {
	start := time.Now()
	log := h.log.With(zap.String("request_id", inv.requestID), zap.String("method", inv.method))

	defer func() {
		if p := recover(); p != nil {
			log.Error("search handler panic", zap.Any("panic", p), zap.Stack("stack"))
			res = internalErrorResponse()
		}
		log.Info("request handled",
			zap.Int("status", res.StatusCode),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
	}()

	if strings.EqualFold(inv.method, http.MethodOptions) {
		return preflight()
	}

	r, err := h.search(ctx, inv)
	if err != nil {
		log.Error("search request failed", zap.Error(err))
		r = internalError()
	}

	out, err := render(r)
	if err != nil {
		log.Error("encode response failed", zap.Error(err))
		return internalErrorResponse()
	}
	return out
}

func (h *SearchHandler) search(ctx context.Context, inv invocation) (result, error) {
	in := parseRequest(inv.body, inv.base64)
	if in.Description == "" {
		return badRequest(msgDescriptionRequired), nil
	}
	if h.enhancer == nil || h.searcher == nil {
		return nil, fmt.Errorf("search handler not wired: enhancer=%t searcher=%t", h.enhancer != nil, h.searcher != nil)
	}

	query := h.enhancer.Enhance(ctx, in.Description)
	found := h.searcher.Search(ctx, query, h.maxResults)

	return success{Books: found, EnhancedQuery: query}, nil
}

// parseRequest treats an unreadable body as an empty object.
func parseRequest(body string, isBase64 bool) SearchRequest {
	var in SearchRequest
	if isBase64 {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return in
		}
		body = string(raw)
	}
	if strings.TrimSpace(body) == "" {
		return in
	}
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return SearchRequest{}
	}
	return in
}

func requestID(ctx context.Context, gatewayID string) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	if gatewayID != "" {
		return gatewayID
	}
	return uuid.NewString()
}
