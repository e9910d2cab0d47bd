// Package telegram implements the outbound sends against the Telegram Bot
// API. The media-group payload is built on the raw request layer so the
// caption lands only on the first element and the inline keyboard travels as
// the group-level reply_markup field.
package telegram

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client sends relay messages to one chat. Each send is a single HTTP call
// and succeeds iff the API answers 200; no retry happens at this layer.
type Client struct {
	bot    *tgbotapi.BotAPI
	chatID string
	markup tgbotapi.InlineKeyboardMarkup
}

// New wraps an authenticated bot. The single-button inline keyboard links to
// the bot's own chat and is attached to every send.
func New(bot *tgbotapi.BotAPI, chatID, buttonText, botUsername string) *Client {
	return &Client{
		bot:    bot,
		chatID: chatID,
		markup: tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(buttonText, "https://t.me/"+botUsername),
			),
		),
	}
}

func (c *Client) SendText(text string) error {
	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", c.chatID)
	params["text"] = text
	params["parse_mode"] = tgbotapi.ModeHTML
	if err := params.AddInterface("reply_markup", c.markup); err != nil {
		return err
	}

	if _, err := c.bot.MakeRequest("sendMessage", params); err != nil {
		return fmt.Errorf("sendMessage: %w", err)
	}
	return nil
}

func (c *Client) SendPhoto(caption string, photo []byte) error {
	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", c.chatID)
	params.AddNonEmpty("caption", caption)
	params["parse_mode"] = tgbotapi.ModeHTML
	if err := params.AddInterface("reply_markup", c.markup); err != nil {
		return err
	}

	files := []tgbotapi.RequestFile{{
		Name: "photo",
		Data: tgbotapi.FileBytes{Name: "image.jpg", Bytes: photo},
	}}

	if _, err := c.bot.UploadFiles("sendPhoto", params, files); err != nil {
		return fmt.Errorf("sendPhoto: %w", err)
	}
	return nil
}

// inputMediaPhoto is one element of the sendMediaGroup media array. Caption
// and parse mode are set on the first element only.
type inputMediaPhoto struct {
	Type      string `json:"type"`
	Media     string `json:"media"`
	Caption   string `json:"caption,omitempty"`
	ParseMode string `json:"parse_mode,omitempty"`
}

func (c *Client) SendMediaGroup(caption string, photos [][]byte) error {
	media := make([]inputMediaPhoto, 0, len(photos))
	files := make([]tgbotapi.RequestFile, 0, len(photos))

	for i, photo := range photos {
		m := inputMediaPhoto{
			Type:  "photo",
			Media: fmt.Sprintf("attach://photo%d", i),
		}
		if i == 0 {
			m.Caption = caption
			m.ParseMode = tgbotapi.ModeHTML
		}
		media = append(media, m)
		files = append(files, tgbotapi.RequestFile{
			Name: fmt.Sprintf("photo%d", i),
			Data: tgbotapi.FileBytes{Name: fmt.Sprintf("photo%d.jpg", i), Bytes: photo},
		})
	}

	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", c.chatID)
	if err := params.AddInterface("media", media); err != nil {
		return err
	}
	if err := params.AddInterface("reply_markup", c.markup); err != nil {
		return err
	}

	resp, err := c.bot.UploadFiles("sendMediaGroup", params, files)
	if err != nil {
		// Partial media-group failures are opaque, keep the raw response.
		if resp != nil {
			log.Printf("[ERROR] sendMediaGroup response: %s %s", resp.Description, string(resp.Result))
		}
		return fmt.Errorf("sendMediaGroup: %w", err)
	}
	return nil
}
