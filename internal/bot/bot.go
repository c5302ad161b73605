// Package bot drives the Telegram conversation: pick a source, decide on
// extra filters, wait out the scrape, pick a sort order, receive the
// shortlist. One conversation state per chat.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/odudnyk/cvscout/internal/resume"
)

const (
	sourceWorkUa   = "work.ua"
	sourceRobotaUa = "robota.ua"
	sourceBoth     = "both"
)

// ScrapeFunc runs the full pipeline for one site and returns scored,
// filtered records. The bot stays ignorant of adapters, filters and rates.
type ScrapeFunc func(ctx context.Context, site string, narrow bool) (*resume.Resumes, error)

// sender is the slice of tgbotapi the bot uses; *tgbotapi.BotAPI satisfies it.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type state int

const (
	stateIdle state = iota
	stateChoosingSource
	stateChoosingFilters
	stateChoosingSort
)

// session is one chat's conversation state. mu serializes the update
// goroutines of that chat: a double press must not race a state transition.
type session struct {
	mu      sync.Mutex
	state   state
	source  string
	narrow  bool
	resumes *resume.Resumes
}

type Bot struct {
	api    *tgbotapi.BotAPI
	out    sender
	logger *zap.Logger
	scrape ScrapeFunc
	topN   int

	mu       sync.Mutex
	sessions map[int64]*session
}

func New(token string, logger *zap.Logger, scrape ScrapeFunc, topN int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	return &Bot{
		api:      api,
		out:      api,
		logger:   logger,
		scrape:   scrape,
		topN:     topN,
		sessions: make(map[int64]*session),
	}, nil
}

// Run consumes the long-polling update stream until ctx is cancelled. Each
// update is handled in its own goroutine so one chat's scrape does not block
// another chat's buttons.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	updates := b.api.GetUpdatesChan(cfg)
	b.logger.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	if msg.Command() != "start" {
		b.reply(msg.Chat.ID, "Надішліть /start, щоб почати пошук резюме.")
		return
	}

	b.setSession(msg.Chat.ID, &session{state: stateChoosingSource})

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Work.ua", "source:"+sourceWorkUa)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Robota.ua", "source:"+sourceRobotaUa)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Обидва ресурси", "source:"+sourceBoth)),
	)

	out := tgbotapi.NewMessage(msg.Chat.ID, "Оберіть джерело для пошуку резюме:")
	out.ReplyMarkup = keyboard
	b.send(out)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Acknowledge immediately so the client stops the spinner.
	if _, err := b.out.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("callback ack failed", zap.Error(err))
	}

	// Telegram omits the message for callbacks on old or inaccessible
	// messages; there is no chat to answer then.
	if cb.Message == nil {
		b.logger.Debug("callback without a message", zap.String("data", cb.Data))
		return
	}

	chatID := cb.Message.Chat.ID
	sess := b.getSession(chatID)
	if sess == nil {
		b.reply(chatID, "Сесію не знайдено. Надішліть /start, щоб почати заново.")
		return
	}

	// Updates run in their own goroutines; hold the session for the whole
	// transition so concurrent presses in one chat apply one at a time.
	sess.mu.Lock()
	defer sess.mu.Unlock()

	action, value, _ := strings.Cut(cb.Data, ":")

	switch {
	case sess.state == stateChoosingSource && action == "source":
		b.chooseSource(chatID, sess, value)
	case sess.state == stateChoosingFilters && action == "filters":
		sess.narrow = value == "yes"
		b.runScrape(ctx, chatID, sess)
	case sess.state == stateChoosingSort && action == "sort":
		b.sendSorted(chatID, sess, value)
	default:
		b.logger.Debug("callback out of order",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
		)
	}
}

func (b *Bot) chooseSource(chatID int64, sess *session, source string) {
	sess.source = source
	sess.state = stateChoosingFilters

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Додати фільтри", "filters:yes")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Почати пошук", "filters:no")),
	)

	out := tgbotapi.NewMessage(chatID, "Застосувати налаштовані фільтри до результатів?")
	out.ReplyMarkup = keyboard
	b.send(out)
}

func (b *Bot) runScrape(ctx context.Context, chatID int64, sess *session) {
	b.reply(chatID, "Починаю пошук. Це може зайняти кілька хвилин...")

	sites := []string{sess.source}
	if sess.source == sourceBoth {
		sites = []string{sourceWorkUa, sourceRobotaUa}
	}

	all := &resume.Resumes{}
	for _, site := range sites {
		found, err := b.scrape(ctx, site, sess.narrow)
		if err != nil {
			b.logger.Error("scrape failed", zap.String("site", site), zap.Error(err))
			b.reply(chatID, fmt.Sprintf("Помилка під час пошуку на %s: %v", site, err))
			continue
		}
		all.Append(found.Items...)
	}

	sess.resumes = all
	sess.state = stateChoosingSort

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("За релевантністю", "sort:score")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("За зарплатою", "sort:salary")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("За досвідом роботи", "sort:experience")),
	)

	out := tgbotapi.NewMessage(chatID, fmt.Sprintf("Знайдено %d резюме. Як їх відсортувати?", all.Len()))
	out.ReplyMarkup = keyboard
	b.send(out)
}

func (b *Bot) sendSorted(chatID int64, sess *session, order string) {
	resumes := sess.resumes
	if resumes == nil {
		resumes = &resume.Resumes{}
	}

	// Rank drops invalid records and gives the relevance order; the other
	// sort keys re-order the full list before the cut.
	top := resumes.Rank(-1)
	switch order {
	case "salary":
		top.SortBySalary()
	case "experience":
		top.SortByExperience()
	}
	if b.topN > 0 && top.Len() > b.topN {
		top.Items = top.Items[:b.topN]
	}

	if top.Len() == 0 {
		b.reply(chatID, "Нічого не знайдено за вашим запитом.")
	}

	for _, r := range top.Items {
		b.reply(chatID, resume.Format(r))
	}

	b.dropSession(chatID)
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.out.Send(c); err != nil {
		b.logger.Warn("sending message failed", zap.Error(err))
	}
}

func (b *Bot) getSession(chatID int64) *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions[chatID]
}

func (b *Bot) setSession(chatID int64, sess *session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[chatID] = sess
}

func (b *Bot) dropSession(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, chatID)
}
