package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultReadAttempts = 3
	defaultRetryDelay   = time.Second
)

// Gateway wraps every outbound request: it attaches the bearer credential,
// decodes the server's {message|error} envelope into the error taxonomy, and
// applies the asymmetric retry policy. Reads retry a fixed number of times
// with a delay; mutations are sent exactly once so a flaky network can never
// double-submit a payment.
type Gateway struct {
	BaseURL      string
	HTTPClient   *http.Client
	Session      *SessionStore
	ReadAttempts int
	RetryDelay   time.Duration
}

func NewGateway(baseURL string, session *SessionStore) *Gateway {
	return &Gateway{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
		Session:      session,
		ReadAttempts: defaultReadAttempts,
		RetryDelay:   defaultRetryDelay,
	}
}

// Get fetches a resource, retrying transient failures.
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	attempts := g.ReadAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return &APIError{Kind: ErrTransient, Message: ctx.Err().Error()}
			case <-time.After(g.RetryDelay * time.Duration(i)):
			}
		}
		err = g.do(ctx, http.MethodGet, path, nil, out)
		if err == nil || !isTransient(err) {
			return err
		}
		log.Printf("GET %s attempt %d failed: %s\n", path, i+1, err.Error())
	}
	return err
}

// Post, Put and Delete are mutations: one attempt, no retry.
func (g *Gateway) Post(ctx context.Context, path string, body any, out any) error {
	return g.do(ctx, http.MethodPost, path, body, out)
}

func (g *Gateway) Put(ctx context.Context, path string, body any, out any) error {
	return g.do(ctx, http.MethodPut, path, body, out)
}

func (g *Gateway) Delete(ctx context.Context, path string, out any) error {
	return g.do(ctx, http.MethodDelete, path, nil, out)
}

func (g *Gateway) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return validationErr("encoding request body: %s", err.Error())
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, reader)
	if err != nil {
		return validationErr("building request: %s", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if token := g.Session.Token(); token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	res, err := g.HTTPClient.Do(req)
	if err != nil {
		return &APIError{Kind: ErrTransient, Message: err.Error()}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &APIError{Kind: ErrTransient, Status: res.StatusCode, Message: err.Error()}
	}

	if res.StatusCode >= 400 {
		return g.errorFor(path, res.StatusCode, raw)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &APIError{Kind: ErrTransient, Status: res.StatusCode, Message: fmt.Sprintf("decoding response: %s", err.Error())}
		}
	}
	return nil
}

func (g *Gateway) errorFor(path string, status int, raw []byte) error {
	msg := serverMessage(raw)
	switch {
	case status == http.StatusUnauthorized:
		// An expired or revoked credential invalidates the whole session,
		// except when the 401 is the login endpoint rejecting a password.
		if !strings.Contains(path, "/auth/login") {
			if err := g.Session.Clear(); err != nil {
				log.Printf("Error clearing session after 401: %s\n", err.Error())
			}
		}
		return &APIError{Kind: ErrUnauthenticated, Status: status, Message: msg}
	case status == http.StatusForbidden:
		return &APIError{Kind: ErrForbidden, Status: status, Message: msg}
	case status == http.StatusConflict:
		return &APIError{Kind: ErrConflict, Status: status, Message: msg}
	case status >= 500:
		return &APIError{Kind: ErrTransient, Status: status, Message: msg}
	default:
		return &APIError{Kind: ErrValidation, Status: status, Message: msg}
	}
}

func serverMessage(raw []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Message
}

func isTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
