package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Cloudflare Workers AI backend.
// POST https://api.cloudflare.com/client/v4/accounts/{account_id}/ai/run/{model}
// With bearer API token.
type cloudflareBackend struct {
	accountID string
	apiToken  string
	model     string
	client    *http.Client
	baseURL   string
}

// NewCloudflareBackend returns a Backend calling Cloudflare Workers AI.
func NewCloudflareBackend(accountID, apiToken, model string, timeout time.Duration) Backend {
	return &cloudflareBackend{
		accountID: accountID,
		apiToken:  apiToken,
		model:     model,
		client:    &http.Client{Timeout: timeout},
		baseURL:   "https://api.cloudflare.com/client/v4",
	}
}

type cfResp struct {
	Success bool            `json:"success"`
	Errors  []any           `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type cfWhisperResult struct {
	Text string `json:"text"`
}

func (c *cloudflareBackend) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", &ProviderError{Kind: ErrBadResponse, Err: err}
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", &ProviderError{Kind: ErrBadResponse, Err: err}
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", &ProviderError{Kind: ErrBadResponse, Err: err}
	}
	if err := mw.Close(); err != nil {
		return "", &ProviderError{Kind: ErrBadResponse, Err: err}
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", c.baseURL, c.accountID, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", &ProviderError{Kind: ErrBadResponse, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ProviderError{Kind: ErrNetwork, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", &ProviderError{
			Kind: kindFromStatus(resp.StatusCode),
			Err:  fmt.Errorf("cloudflare http %d: %s", resp.StatusCode, string(b)),
		}
	}
	var cr cfResp
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", &ProviderError{Kind: ErrBadResponse, Err: err}
	}
	if !cr.Success {
		return "", &ProviderError{
			Kind: ErrBadResponse,
			Err:  fmt.Errorf("cloudflare response not successful: %s", string(cr.Result)),
		}
	}
	var wr cfWhisperResult
	if err := json.Unmarshal(cr.Result, &wr); err != nil {
		return "", &ProviderError{
			Kind: ErrBadResponse,
			Err:  fmt.Errorf("cloudflare unexpected result: %w", err),
		}
	}
	return wr.Text, nil
}
