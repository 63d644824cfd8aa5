package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
)

// HTTPAuthenticator logs in against the upstream user service.
type HTTPAuthenticator struct {
	BaseURL string
	Client  *http.Client
}

type loginRequest struct {
	CPF  string `json:"cpf"`
	Pass string `json:"pass"`
}

type loginResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	CPF     string `json:"cpf"`
	Token   string `json:"token"`
}

var defaultClient = &http.Client{Timeout: 15 * time.Second}

func (a *HTTPAuthenticator) Login(ctx context.Context, cpf, pass string) (models.User, error) {
	client := a.Client
	if client == nil {
		client = defaultClient
	}

	body, _ := json.Marshal(loginRequest{CPF: cpf, Pass: pass})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/user/login", bytes.NewReader(body))
	if err != nil {
		return models.User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return models.User{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.User{}, err
	}

	var lr loginResponse
	_ = json.Unmarshal(raw, &lr)

	// The backend answers 404 on bad credentials, and a non-"sucesso" status
	// field on some 200s; both mean rejection.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (lr.Status != "" && lr.Status != "sucesso") {
		if lr.Message != "" {
			return models.User{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, lr.Message)
		}
		return models.User{}, ErrInvalidCredentials
	}

	return models.User{
		Name:   lr.Name,
		Email:  lr.Email,
		Role:   lr.Role,
		CPF:    lr.CPF,
		Token:  lr.Token,
		Status: lr.Status,
	}, nil
}
