// Package apitest calls gin handlers directly with a shopper identity
// already resolved, and decodes the response envelope.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drobe/backend/internal/interfaces/http/dto"
	"github.com/drobe/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Request is one handler call under construction
type Request struct {
	t        *testing.T
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
}

// NewRequest builds a request. A non-nil body is sent as JSON.
func NewRequest(t *testing.T, method, path string, body any) *Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return &Request{t: t, Context: c, Recorder: w}
}

// AsCustomer marks the caller as an authenticated customer
func (r *Request) AsCustomer(id uuid.UUID) *Request {
	r.Context.Set(middleware.CustomerIDKey, id)
	return r
}

// WithSession gives the caller an anonymous session key
func (r *Request) WithSession(key string) *Request {
	r.Context.Set(middleware.SessionKeyKey, key)
	return r
}

// WithParam sets a path parameter
func (r *Request) WithParam(key, value string) *Request {
	r.Context.Params = append(r.Context.Params, gin.Param{Key: key, Value: value})
	return r
}

// WithHeader sets a request header
func (r *Request) WithHeader(key, value string) *Request {
	r.Context.Request.Header.Set(key, value)
	return r
}

// Serve runs h and decodes what it wrote
func (r *Request) Serve(h gin.HandlerFunc) *Response {
	r.t.Helper()
	h(r.Context)

	// Writer.Status also sees statuses set without a body, such as 204
	resp := &Response{Code: r.Context.Writer.Status(), Body: r.Recorder.Body.Bytes()}
	if len(resp.Body) > 0 {
		require.NoError(r.t, json.Unmarshal(resp.Body, &resp.Envelope), string(resp.Body))
	}
	return resp
}

// Envelope mirrors dto.Response with the payload left undecoded
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

// Response is what a handler wrote
type Response struct {
	Envelope
	Code int
	Body []byte
}

// AssertOK checks for a 200 success envelope
func (r *Response) AssertOK(t *testing.T) {
	t.Helper()
	assert.Equal(t, http.StatusOK, r.Code, string(r.Body))
	assert.True(t, r.Success)
	assert.Nil(t, r.Error)
}

// AssertError checks the status and the error code of a failure envelope
func (r *Response) AssertError(t *testing.T, status int, code string) {
	t.Helper()
	assert.Equal(t, status, r.Code, string(r.Body))
	assert.False(t, r.Success)
	if assert.NotNil(t, r.Error) {
		assert.Equal(t, code, r.Error.Code)
	}
}

// Data decodes the success payload into T
func Data[T any](t *testing.T, r *Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(r.Envelope.Data, &out), string(r.Body))
	return out
}
