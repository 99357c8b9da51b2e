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

// OpenAI speech-to-text via audio.transcriptions
type openAIBackend struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
}

// NewOpenAIBackend returns a Backend calling the OpenAI transcription API.
func NewOpenAIBackend(apiKey, model string, timeout time.Duration) Backend {
	return &openAIBackend{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		baseURL: "https://api.openai.com/v1",
	}
}

type openAIResp struct {
	Text string `json:"text"`
}

func (o *openAIBackend) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", &ProviderError{Kind: ErrBadResponse, Err: err}
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", o.model); err != nil {
		return "", &ProviderError{Kind: ErrBadResponse, Err: err}
	}
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

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", &ProviderError{Kind: ErrBadResponse, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", &ProviderError{Kind: ErrNetwork, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", &ProviderError{
			Kind: kindFromStatus(resp.StatusCode),
			Err:  fmt.Errorf("openai http %d: %s", resp.StatusCode, string(b)),
		}
	}
	var or openAIResp
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", &ProviderError{Kind: ErrBadResponse, Err: err}
	}
	return or.Text, nil
}
