package feedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/rest/middleware"
	"github.com/snapnutrient/snapnutrient/internal/rest/response"
)

// FeedPage is one page of the feed as the client sees it.
type FeedPage struct {
	Posts  []domain.Post
	Cursor string
}

// PostAPI is the slice of the server surface the feed controller consumes.
// Tests substitute fakes; production uses the HTTP client below.
type PostAPI interface {
	FetchPage(ctx context.Context, cursor string, limit int64) (FeedPage, error)
	ToggleLike(ctx context.Context, authorID, photoID string) (domain.Post, error)
	AddComment(ctx context.Context, authorID, photoID, text string) (domain.Post, error)
}

// HTTPClient talks to the REST surface on behalf of one signed-in user.
type HTTPClient struct {
	baseURL string
	userID  string
	client  *http.Client
}

var _ PostAPI = (*HTTPClient)(nil)

func NewHTTPClient(baseURL, userID string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{
		baseURL: baseURL,
		userID:  userID,
		client:  client,
	}
}

func (h *HTTPClient) FetchPage(ctx context.Context, cursor string, limit int64) (res FeedPage, err error) {
	q := url.Values{}
	q.Set("limit", strconv.FormatInt(limit, 10))
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	var data response.FeedData
	if err = h.do(ctx, http.MethodGet, "/posts?"+q.Encode(), nil, &data); err != nil {
		return
	}

	posts := make([]domain.Post, 0, len(data.Posts))
	for i := range data.Posts {
		posts = append(posts, data.Posts[i].ToDomain())
	}
	res = FeedPage{Posts: posts, Cursor: data.Cursor}
	return
}

func (h *HTTPClient) ToggleLike(ctx context.Context, authorID, photoID string) (res domain.Post, err error) {
	body := map[string]string{"author": authorID, "photoId": photoID}

	var data response.Post
	if err = h.do(ctx, http.MethodPost, "/posts/like", body, &data); err != nil {
		return
	}
	res = data.ToDomain()
	return
}

func (h *HTTPClient) AddComment(ctx context.Context, authorID, photoID, text string) (res domain.Post, err error) {
	body := map[string]string{"author": authorID, "photoId": photoID, "text": text}

	var data response.Post
	if err = h.do(ctx, http.MethodPost, "/posts/comment", body, &data); err != nil {
		return
	}
	res = data.ToDomain()
	return
}

// do issues one request and unwraps the response envelope into out.
func (h *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewBuffer(b)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.IdentityHeader, h.userID)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("server: %s", msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}
	return nil
}
