package telegram

import "gopkg.in/telebot.v3"

// Client is the push-delivery channel for reminders. It decouples the
// notification service from the concrete bot library; delivery over this
// channel is best-effort and the in-app list remains the system of record.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
