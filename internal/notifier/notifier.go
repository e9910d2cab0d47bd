package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sakurp633/Vk2TG-Repost/internal/model"
)

// Sink performs the actual outbound calls to the destination platform.
// Implementations do not retry; an undelivered item is retried by the relay
// on the next cycle.
type Sink interface {
	SendText(text string) error
	SendPhoto(caption string, photo []byte) error
	SendMediaGroup(caption string, photos [][]byte) error
}

// ImageFetcher resolves a remote image URL to its bytes.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Notifier dispatches one relay item per call, choosing the outbound shape
// from the item's image count.
type Notifier struct {
	sink      Sink
	images    ImageFetcher
	maxImages int
}

func New(sink Sink, images ImageFetcher, maxImages int) *Notifier {
	return &Notifier{
		sink:      sink,
		images:    images,
		maxImages: maxImages,
	}
}

// Deliver sends one item: no images - plain text, one image - single photo,
// more - media group capped at maxImages (extras are dropped, not queued).
// Images are fetched sequentially before the send; a photo item whose sole
// image is unavailable fails outright, and a media group whose images all
// fail is not downgraded to text. A nil return confirms delivery and lets
// the caller advance the watermark.
func (n *Notifier) Deliver(ctx context.Context, item model.RelayItem) error {
	switch {
	case len(item.Images) == 0:
		return n.sink.SendText(item.Text)

	case len(item.Images) == 1:
		photo, err := n.images.Fetch(ctx, item.Images[0])
		if err != nil {
			return fmt.Errorf("photo post: %w", err)
		}
		return n.sink.SendPhoto(item.Text, photo)

	default:
		urls := item.Images
		if len(urls) > n.maxImages {
			urls = urls[:n.maxImages]
		}

		photos := make([][]byte, 0, len(urls))
		for _, u := range urls {
			data, err := n.images.Fetch(ctx, u)
			if err != nil {
				// Already logged by the fetcher; the group sends without it.
				continue
			}
			photos = append(photos, data)
		}

		if len(photos) == 0 {
			return errors.New("media group: no images survived download")
		}
		return n.sink.SendMediaGroup(item.Text, photos)
	}
}
