// Package cursor persists the delivery watermark: the timestamp of the most
// recently confirmed-delivered post, stored as a single plain-text integer.
package cursor

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/Sakurp633/Vk2TG-Repost/internal/model"
)

type Cursor struct {
	path  string
	value int64
}

// Load reads the watermark from path. A missing or unparsable file yields a
// zero watermark, so a first run relays everything in the current feed window.
func Load(path string) *Cursor {
	c := &Cursor{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}

	v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		log.Printf("[WARN] ignoring unparsable watermark file %s: %v", path, err)
		return c
	}

	c.value = v
	return c
}

func (c *Cursor) Value() int64 {
	return c.value
}

// SelectNew retains items strictly newer than the watermark, sorted ascending
// by timestamp so delivery order is chronological regardless of fetch order.
// The key is the timestamp alone: two distinct posts sharing one are
// indistinguishable to this filter.
func (c *Cursor) SelectNew(items []model.RelayItem) []model.RelayItem {
	fresh := lo.Filter(items, func(item model.RelayItem, _ int) bool {
		return item.Timestamp > c.value
	})
	sort.Slice(fresh, func(i, j int) bool {
		return fresh[i].Timestamp < fresh[j].Timestamp
	})
	return fresh
}

// Advance raises the watermark to ts (never lowers it) and persists it
// synchronously. The write goes through a temp file and rename, so an abrupt
// kill can never leave a torn value on disk.
func (c *Cursor) Advance(ts int64) error {
	if ts > c.value {
		c.value = ts
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.FormatInt(c.value, 10)), 0o644); err != nil {
		return fmt.Errorf("write watermark: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace watermark: %w", err)
	}
	return nil
}
