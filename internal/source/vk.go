// Package source implements the VKSource struct and its methods for fetching
// the most recent batch of wall posts from the VK API.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sakurp633/Vk2TG-Repost/internal/config"
	"github.com/Sakurp633/Vk2TG-Repost/internal/model"
)

const (
	defaultEndpoint = "https://api.vk.com/method/wall.get"
	userAgent       = "VK2TG/2.0"

	// wall.get window; the watermark decides what inside it is new.
	batchSize = 10
)

type VKSource struct {
	client   *http.Client
	endpoint string
	token    string
	ownerID  int64
	version  string
	timeout  time.Duration
}

func NewVK(client *http.Client, cfg config.Source, timeout time.Duration) *VKSource {
	return &VKSource{
		client:   client,
		endpoint: defaultEndpoint,
		token:    cfg.Credential,
		ownerID:  cfg.OwnerID,
		version:  cfg.APIVersion,
		timeout:  timeout,
	}
}

// Fetch returns the latest batch of wall posts in the order VK reports them,
// which is not guaranteed chronological. Any transport, auth or parse error
// is returned to the caller; the caller treats it as an empty batch.
func (s *VKSource) Fetch(ctx context.Context) ([]model.RawPost, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("owner_id", strconv.FormatInt(s.ownerID, 10))
	q.Set("count", strconv.Itoa(batchSize))
	q.Set("access_token", s.token)
	q.Set("v", s.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build wall.get request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wall.get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wall.get: unexpected status %s", resp.Status)
	}

	var body wallResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode wall.get response: %w", err)
	}
	if body.Error != nil {
		return nil, fmt.Errorf("wall.get: api error %d: %s", body.Error.Code, body.Error.Message)
	}

	return body.Response.Items, nil
}

type wallResponse struct {
	Response struct {
		Items []model.RawPost `json:"items"`
	} `json:"response"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}
