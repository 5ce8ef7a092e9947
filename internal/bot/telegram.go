package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingvo/internal/infrastructure/config"
)

// Telegram feeds long-polled updates into a Dispatcher.
type Telegram struct {
	api         *tgbotapi.BotAPI
	dispatcher  *Dispatcher
	pollTimeout int
	logger      logrus.FieldLogger
}

func NewTelegram(cfg config.BotConfig, dispatcher *Dispatcher, logger logrus.FieldLogger) (*Telegram, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot.token is not configured")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	api.Debug = cfg.Debug
	logger.Infof("authorized on telegram as @%s", api.Self.UserName)
	return &Telegram{api: api, dispatcher: dispatcher, pollTimeout: cfg.PollTimeout, logger: logger}, nil
}

// Run processes updates one by one until ctx is done.
func (t *Telegram) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = t.pollTimeout
	updates := t.api.GetUpdatesChan(u)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handle(ctx, update)
		}
	}
}

func (t *Telegram) handle(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.Text != "":
		chatID := update.Message.Chat.ID
		reply := t.dispatcher.HandleText(ctx, chatID, update.Message.Text)
		t.send(chatID, reply)
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		cb := update.CallbackQuery
		if _, err := t.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			t.logger.WithError(err).Warn("answer callback")
		}
		chatID := cb.Message.Chat.ID
		reply := t.dispatcher.HandleCallback(ctx, chatID, cb.Data)
		t.send(chatID, reply)
	}
}

func (t *Telegram) send(chatID int64, reply Reply) {
	if reply.Text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Keyboard) > 0 {
		msg.ReplyMarkup = keyboard(reply.Keyboard)
	}
	if _, err := t.api.Send(msg); err != nil {
		t.logger.WithError(err).WithField("chat_id", chatID).Error("send message")
	}
}

func keyboard(rows [][]Button) tgbotapi.InlineKeyboardMarkup {
	markup := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		markup = append(markup, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(markup...)
}
