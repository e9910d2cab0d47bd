// Package relay drives the poll loop: fetch the latest wall posts, normalize
// them, filter against the watermark and deliver what is new, oldest first.
package relay

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samber/lo"

	"github.com/Sakurp633/Vk2TG-Repost/internal/model"
	"github.com/Sakurp633/Vk2TG-Repost/internal/transform"
)

// Feed returns the most recent batch of wall posts.
type Feed interface {
	Fetch(ctx context.Context) ([]model.RawPost, error)
}

// Deliverer sends one normalized item to the destination.
type Deliverer interface {
	Deliver(ctx context.Context, item model.RelayItem) error
}

// Watermark filters candidates and records confirmed deliveries.
type Watermark interface {
	SelectNew(items []model.RelayItem) []model.RelayItem
	Advance(ts int64) error
}

// Reporter forwards cycle failures to an operator chat.
type Reporter interface {
	Notify(msg string)
}

type Relay struct {
	feed     Feed
	notifier Deliverer
	cursor   Watermark
	reporter Reporter

	interval     time.Duration
	errorBackoff time.Duration
}

func New(
	feed Feed,
	notifier Deliverer,
	cursor Watermark,
	reporter Reporter,
	interval time.Duration,
) *Relay {
	return &Relay{
		feed:     feed,
		notifier: notifier,
		cursor:   cursor,
		reporter: reporter,

		interval:     interval,
		errorBackoff: time.Minute,
	}
}

// Start runs poll cycles until ctx is cancelled. A failed cycle is logged,
// reported and followed by the extended backoff instead of the normal
// interval; the loop itself never stops on error.
func (r *Relay) Start(ctx context.Context) error {
	log.Printf("[INFO] relay started")

	for {
		delay := r.interval
		if err := r.RunCycle(ctx); err != nil {
			log.Printf("[ERROR] cycle failed: %v", err)
			r.reporter.Notify("relay cycle failed: " + err.Error())
			delay = r.errorBackoff
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// RunCycle performs one fetch - transform - filter - dispatch pass. Panics
// inside the cycle are converted to errors so a poisoned batch cannot take
// the loop down.
func (r *Relay) RunCycle(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cycle panic: %v", p)
		}
	}()

	posts, err := r.feed.Fetch(ctx)
	if err != nil {
		// Non-fatal: the next cycle retries the fetch from scratch.
		log.Printf("[ERROR] failed to fetch posts: %v", err)
		return nil
	}

	items := lo.Map(posts, func(post model.RawPost, _ int) model.RelayItem {
		return transform.Process(post)
	})

	for _, item := range r.cursor.SelectNew(items) {
		if err := r.notifier.Deliver(ctx, item); err != nil {
			// The item stays a candidate; stop here so nothing newer can
			// advance the watermark past it.
			log.Printf("[WARN] failed to deliver post %d: %v", item.Timestamp, err)
			return nil
		}

		if err := r.cursor.Advance(item.Timestamp); err != nil {
			return fmt.Errorf("advance watermark: %w", err)
		}

		log.Printf("[INFO] delivered post %d (likes=%d reposts=%d views=%d)",
			item.Timestamp, item.Stats.Likes, item.Stats.Reposts, item.Stats.Views)
	}

	return nil
}
