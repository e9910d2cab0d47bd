// Package transform normalizes raw wall posts into relay items: flattening
// reposts, selecting the largest photo variant per attachment and defaulting
// missing fields so a malformed post can never fail a cycle.
package transform

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/Sakurp633/Vk2TG-Repost/internal/model"
)

// Process converts one raw wall post into a relay item. For a repost the text
// is composed from the wrapping post and the original, a source link is
// appended, and images come from the original's attachments only.
func Process(post model.RawPost) model.RelayItem {
	item := model.RelayItem{
		Timestamp: post.Date,
		Stats:     stats(post),
	}

	if len(post.CopyHistory) > 0 {
		repost := post.CopyHistory[0]
		item.Text = joinTexts(post.Text, repost.Text)
		if link := sourceLink(repost.OwnerID, repost.ID); link != "" {
			item.Text += "\n\n🔗 <a href='" + link + "'>Источник</a>"
		}
		item.Images = photoURLs(repost.Attachments)
		return item
	}

	item.Text = post.Text
	item.Images = photoURLs(post.Attachments)
	return item
}

// joinTexts never produces a separator next to an empty side: if one text is
// empty the result is the other verbatim.
func joinTexts(main, repost string) string {
	if main != "" && repost != "" {
		return main + "\n\n" + repost
	}
	if main != "" {
		return main
	}
	return repost
}

// sourceLink builds the wall URL of the reposted original. Group walls
// (negative owner) live under club<id>, personal walls under id<id>.
// Returns "" when either identifier is missing.
func sourceLink(ownerID, postID int64) string {
	if ownerID == 0 || postID == 0 {
		return ""
	}
	if ownerID < 0 {
		return fmt.Sprintf("https://vk.com/club%d?w=wall%d_%d", -ownerID, ownerID, postID)
	}
	return fmt.Sprintf("https://vk.com/id%d?w=wall%d_%d", ownerID, ownerID, postID)
}

// photoURLs extracts one URL per photo attachment, preserving encounter
// order. The size variant with the largest pixel area wins; ties keep the
// first variant encountered. Non-photo attachments are ignored.
func photoURLs(attachments []model.Attachment) []string {
	var urls []string
	for _, att := range attachments {
		if att.Type != "photo" || att.Photo == nil || len(att.Photo.Sizes) == 0 {
			continue
		}
		largest := lo.MaxBy(att.Photo.Sizes, func(a, b model.PhotoSize) bool {
			return a.Width*a.Height > b.Width*b.Height
		})
		urls = append(urls, largest.URL)
	}
	return urls
}

func stats(post model.RawPost) model.Stats {
	var s model.Stats
	if post.Likes != nil {
		s.Likes = post.Likes.Count
	}
	if post.Reposts != nil {
		s.Reposts = post.Reposts.Count
	}
	if post.Views != nil {
		s.Views = post.Views.Count
	}
	return s
}
