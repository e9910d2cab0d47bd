// Package model defines the data structures used in the relay: the raw VK wall
// records as the API returns them, and the normalized RelayItem that the
// dispatcher delivers to Telegram.
package model

// RawPost is one record of a VK wall.get response. Fields the API may omit
// keep their zero values; CopyHistory is non-empty only for reposts.
type RawPost struct {
	ID          int64             `json:"id"`
	OwnerID     int64             `json:"owner_id"`
	Date        int64             `json:"date"`
	Text        string            `json:"text"`
	CopyHistory []RepostReference `json:"copy_history"`
	Attachments []Attachment      `json:"attachments"`
	Likes       *Count            `json:"likes"`
	Reposts     *Count            `json:"reposts"`
	Views       *Count            `json:"views"`
}

// RepostReference is the original post wrapped by a repost. A negative
// OwnerID denotes a group or channel, a positive one an individual account.
type RepostReference struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"owner_id"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment is a single wall attachment; only the "photo" kind is relayed.
type Attachment struct {
	Type  string `json:"type"`
	Photo *Photo `json:"photo"`
}

type Photo struct {
	Sizes []PhotoSize `json:"sizes"`
}

type PhotoSize struct {
	Type   string `json:"type"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Count wraps the {"count": N} sub-records VK uses for engagement stats.
type Count struct {
	Count int `json:"count"`
}

// Stats are the engagement counters of a post, zero when the source omits them.
type Stats struct {
	Likes   int
	Reposts int
	Views   int
}

// RelayItem is the canonical representation of one post ready for delivery.
// Images preserves attachment discovery order and is not deduplicated.
type RelayItem struct {
	Timestamp int64
	Text      string
	Images    []string
	Stats     Stats
}
