// Package images downloads remote photos with bounded retry, accepting a
// body only if it decodes as a well-formed image.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const userAgent = "VK2TG/2.0"

type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	retries int
	delay   time.Duration
}

func New(client *http.Client, timeout time.Duration, retries int, delay time.Duration) *Fetcher {
	if retries < 1 {
		retries = 1
	}
	return &Fetcher{
		client:  client,
		timeout: timeout,
		retries: retries,
		delay:   delay,
	}
}

// Fetch downloads url, making up to the configured number of attempts with a
// constant delay between them. Every failed attempt is logged; after the last
// one the image is reported unavailable and the caller excludes it.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var (
		data    []byte
		attempt int
	)

	op := func() error {
		attempt++
		b, err := f.download(ctx, url)
		if err != nil {
			log.Printf("[WARN] attempt %d: failed to download image %s: %v", attempt, url, err)
			return err
		}
		data = b
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.delay), uint64(f.retries-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("image unavailable after %d attempts: %w", attempt, err)
	}

	return data, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("not a valid image: %w", err)
	}

	return data, nil
}
