package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snapnutrient/snapnutrient/domain"
)

const (
	DefaultBaseURL      = "https://api.openai.com/v1"
	defaultPollInterval = time.Second
)

// Config wires one assistant instance.
type Config struct {
	BaseURL      string
	APIKey       string
	AssistantID  string
	HTTPClient   *http.Client
	PollInterval time.Duration
}

// Assistant drives a remote assistants API: uploads, threads, runs. Every
// call looks synchronous to the caller but is an asynchronous run polled
// until a terminal status.
type Assistant struct {
	baseURL      string
	apiKey       string
	assistantID  string
	client       *http.Client
	pollInterval time.Duration
}

var _ domain.NutritionAssistant = (*Assistant)(nil)

func NewAssistant(cfg Config) *Assistant {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Assistant{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		assistantID:  cfg.AssistantID,
		client:       cfg.HTTPClient,
		pollInterval: cfg.PollInterval,
	}
}

func (a *Assistant) AnalyzeImage(ctx context.Context, image []byte) (res domain.MealAnalysis, err error) {
	fileID, err := a.uploadFile(ctx, image)
	if err != nil {
		return res, err
	}
	defer a.deleteFile(fileID)

	content := []map[string]any{
		{"type": "text", "text": "Analyze this image and provide the results in a JSON format."},
		{"type": "image_file", "image_file": map[string]string{"file_id": fileID}},
	}
	text, err := a.runThread(ctx, content)
	if err != nil {
		return res, err
	}

	if err := json.Unmarshal([]byte(text), &res); err != nil {
		logrus.Warnf("assistant returned non-JSON analysis: %v", err)
		return domain.MealAnalysis{}, domain.ErrUpstream
	}
	return res, nil
}

func (a *Assistant) Recommend(ctx context.Context, history []domain.Nutrients) (res domain.Recommendations, err error) {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return res, err
	}

	prompt := fmt.Sprintf(`You are an assistant analyzing weekly nutrient intake.
Return EXACT JSON with the following structure:

{
    "recommendations": {
        "calories": "...",
        "protein": "...",
        "carbohydrates": "...",
        "fat": "...",
        "fiber": "...",
        "sugar": "...",
        "sodium": "..."
    }
}

No extra keys, no arrays, no markdown.
Replace the dots with concise dietary suggestions.

Weekly nutrient data to analyze:
%s`, data)

	content := []map[string]any{
		{"type": "text", "text": prompt},
	}
	text, err := a.runThread(ctx, content)
	if err != nil {
		return res, err
	}

	// Malformed output is handled by the caller per key, not treated as a
	// hard failure.
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		logrus.Warnf("assistant returned non-JSON recommendations: %v", err)
		return domain.Recommendations{}, nil
	}
	return res, nil
}

// runThread runs one message through the assistant and returns the text of
// the reply.
func (a *Assistant) runThread(ctx context.Context, content []map[string]any) (string, error) {
	var thread struct {
		ID string `json:"id"`
	}
	if err := a.do(ctx, http.MethodPost, "/threads", map[string]any{}, &thread); err != nil {
		return "", err
	}

	message := map[string]any{"role": "user", "content": content}
	if err := a.do(ctx, http.MethodPost, "/threads/"+thread.ID+"/messages", message, nil); err != nil {
		return "", err
	}

	var run struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := a.do(ctx, http.MethodPost, "/threads/"+thread.ID+"/runs", map[string]any{"assistant_id": a.assistantID}, &run); err != nil {
		return "", err
	}

	for run.Status == "" || run.Status == "queued" || run.Status == "in_progress" {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(a.pollInterval):
		}
		if err := a.do(ctx, http.MethodGet, "/threads/"+thread.ID+"/runs/"+run.ID, nil, &run); err != nil {
			return "", err
		}
	}
	if run.Status != "completed" {
		logrus.Errorf("assistant run %s ended with status %s", run.ID, run.Status)
		return "", domain.ErrUpstream
	}

	var messages struct {
		Data []struct {
			Content []struct {
				Type string `json:"type"`
				Text struct {
					Value string `json:"value"`
				} `json:"text"`
			} `json:"content"`
		} `json:"data"`
	}
	if err := a.do(ctx, http.MethodGet, "/threads/"+thread.ID+"/messages", nil, &messages); err != nil {
		return "", err
	}
	if len(messages.Data) == 0 {
		return "", domain.ErrUpstream
	}
	for _, part := range messages.Data[0].Content {
		if part.Type == "text" {
			return part.Text.Value, nil
		}
	}
	return "", domain.ErrUpstream
}

func (a *Assistant) uploadFile(ctx context.Context, image []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("purpose", "assistants"); err != nil {
		return "", err
	}
	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(image); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/files", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	a.setAuthHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", domain.ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.Errorf("file upload failed with status %s", resp.Status)
		return "", domain.ErrUpstream
	}

	var file struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", domain.ErrUpstream
	}
	return file.ID, nil
}

// deleteFile is best effort cleanup, the upload only backs a single run.
func (a *Assistant) deleteFile(fileID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.do(ctx, http.MethodDelete, "/files/"+fileID, nil, nil); err != nil {
		logrus.Warnf("failed to delete uploaded file %s: %v", fileID, err)
	}
}

func (a *Assistant) setAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")
}

func (a *Assistant) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	a.setAuthHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return domain.ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		logrus.Errorf("assistant request %s %s failed: %s %s", method, path, resp.Status, data)
		return domain.ErrUpstream
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
