package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/brandloom/brandloom/internal/config"
	"github.com/brandloom/brandloom/internal/payment/domain"
)

// Gateway talks to the Paystack transaction API. Amounts are passed in kobo.
type Gateway struct {
	baseURL     string
	secretKey   string
	callbackURL string
	client      *http.Client
}

func New(cfg config.Config) *Gateway {
	return &Gateway{
		baseURL:     cfg.PaystackBaseURL,
		secretKey:   cfg.PaystackSecretKey,
		callbackURL: cfg.FrontendBaseURL + "/payment/verify",
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type initializePayload struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url"`
}

type initializeResponse struct {
	Status bool `json:"status"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status string `json:"status"`
	} `json:"data"`
}

func (g *Gateway) Initialize(ctx context.Context, email string, amountMinor int64, reference string) (domain.InitializeResult, error) {
	payload, err := json.Marshal(initializePayload{
		Email:       email,
		Amount:      amountMinor,
		Reference:   reference,
		CallbackURL: g.callbackURL,
	})
	if err != nil {
		return domain.InitializeResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return domain.InitializeResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.InitializeResult{}, err
	}
	defer resp.Body.Close()

	var body initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.InitializeResult{}, err
	}
	if resp.StatusCode != http.StatusOK || !body.Status {
		return domain.InitializeResult{}, fmt.Errorf("paystack initialize failed: http %d", resp.StatusCode)
	}

	return domain.InitializeResult{
		AuthorizationURL: body.Data.AuthorizationURL,
		AccessCode:       body.Data.AccessCode,
		Reference:        body.Data.Reference,
	}, nil
}

func (g *Gateway) Verify(ctx context.Context, reference string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("paystack verify failed: http %d", resp.StatusCode)
	}

	return body.Status && body.Data.Status == "success", nil
}
