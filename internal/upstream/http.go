package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
	"github.com/vinifvision/alerta-conecta-mobile/internal/service"
)

// HTTPStore talks to the remote occurrence backend. The contract decides the
// payload shape on writes; reads accept either shape.
type HTTPStore struct {
	BaseURL  string
	Contract Contract
	Client   *http.Client
}

func NewHTTPStore(baseURL string, contract Contract) *HTTPStore {
	return &HTTPStore{
		BaseURL:  baseURL,
		Contract: contract,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

var defaultClient = &http.Client{Timeout: 15 * time.Second}

// client must not write to the shared store; requests run concurrently.
func (s *HTTPStore) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return defaultClient
}

func (s *HTTPStore) GetAll(ctx context.Context) ([]models.Incident, error) {
	body, err := s.do(ctx, http.MethodGet, "/occurrence/getall", nil)
	if err != nil {
		return nil, err
	}
	var wire []wireIncident
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode incident list: %w", err)
	}
	incidents := make([]models.Incident, 0, len(wire))
	for _, w := range wire {
		incidents = append(incidents, decodeIncident(w))
	}
	return incidents, nil
}

func (s *HTTPStore) GetByID(ctx context.Context, id int) (*models.Incident, error) {
	body, err := s.do(ctx, http.MethodGet, fmt.Sprintf("/occurrence/%d", id), nil)
	if err != nil {
		var subErr *SubmissionError
		if errors.As(err, &subErr) && subErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var w wireIncident
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode incident: %w", err)
	}
	inc := decodeIncident(w)
	return &inc, nil
}

func (s *HTTPStore) Create(ctx context.Context, sub service.Submission) (*models.Incident, error) {
	payload, err := encodeSubmission(sub, s.Contract)
	if err != nil {
		return nil, err
	}
	body, err := s.do(ctx, http.MethodPost, "/occurrence/registry", payload)
	if err != nil {
		return nil, err
	}
	// The legacy backend answers with an empty body on success.
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var w wireIncident
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, nil
	}
	inc := decodeIncident(w)
	return &inc, nil
}

func (s *HTTPStore) Update(ctx context.Context, id int, sub service.Submission) error {
	payload, err := encodeSubmission(sub, s.Contract)
	if err != nil {
		return err
	}
	_, err = s.do(ctx, http.MethodPut, fmt.Sprintf("/occurrence/%d", id), payload)
	return err
}

// do performs one request, forwarding the caller's bearer token, and captures
// the raw error body on non-2xx so the backend's inconsistent failure shapes
// still reach the user. There is no retry.
func (s *HTTPStore) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
