package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"alcocontrol/internal/application"
	"alcocontrol/internal/config"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/domain/ports/adapter"
	"alcocontrol/internal/infra/metrics"
	red "alcocontrol/internal/infra/redis"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.RateLimiter, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	botLog := logger.With().Str("component", "TelegramBot").Logger()
	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           &botLog,
		updateWorkers: workers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						metrics.IncBotError()
						r.log.Error().Err(err).Int("worker", id).Msg("update handler error")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendMessage sends a plain text message to the chat.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	msg := tgbotapi.NewMessage(tgID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendButtons sends a message with inline buttons.
// - If btn.URL is set, the button opens a link
// - Else if btn.Data is set, the button sends callback data
// - Else a safe fallback uses btn.Text as callback data
func (r *RealTelegramBotAdapter) SendButtons(ctx context.Context, telegramID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kr := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			kr = append(kr, kb)
		}
		kbRows = append(kbRows, kr)
	}

	msg := tgbotapi.NewMessage(telegramID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	_, err := r.bot.Send(msg)
	return err
}

type cbHandler func(ctx context.Context, chatID int64, data string) error

// Exact-match callbacks
func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		"cmd:menu": func(ctx context.Context, id int64, _ string) error {
			return r.sendMainMenu(ctx, id, "Choose an action:")
		},
		"cmd:stats": func(ctx context.Context, id int64, _ string) error {
			text, err := r.facade.HandleStats(ctx, id)
			if err != nil {
				text = "Failed to get statistics."
			}
			return r.sendMainMenu(ctx, id, text)
		},
		"cmd:sober": func(ctx context.Context, id int64, _ string) error {
			text, err := r.facade.HandleSoberStart(ctx, id)
			if err != nil {
				text = "Failed to start a sober period."
			}
			return r.sendMainMenu(ctx, id, text)
		},
		"cmd:soberend": func(ctx context.Context, id int64, _ string) error {
			text, err := r.facade.HandleSoberEnd(ctx, id)
			if err != nil {
				text = "Failed to end the sober period."
			}
			return r.sendMainMenu(ctx, id, text)
		},
		"cmd:drink": func(ctx context.Context, id int64, _ string) error {
			return r.sendDrinkMenu(ctx, id)
		},
		"cmd:goals": func(ctx context.Context, id int64, _ string) error {
			text, err := r.facade.HandleGoals(ctx, id)
			if err != nil {
				text = "Failed to list goals."
			}
			return r.sendMainMenu(ctx, id, text)
		},
	}
}

// Prefix-match callbacks
func (r *RealTelegramBotAdapter) cbPrefixRoutes() []struct {
	Prefix string
	Fn     cbHandler
} {
	return []struct {
		Prefix string
		Fn     cbHandler
	}{
		{
			// drink:<type>:<volume_ml>:<abv>
			Prefix: "drink:",
			Fn: func(ctx context.Context, id int64, data string) error {
				parts := strings.Split(strings.TrimPrefix(data, "drink:"), ":")
				if len(parts) != 3 {
					return r.SendMessage(ctx, id, "Unknown drink selection.")
				}
				volume, err1 := strconv.ParseFloat(parts[1], 64)
				abv, err2 := strconv.ParseFloat(parts[2], 64)
				if err1 != nil || err2 != nil {
					return r.SendMessage(ctx, id, "Unknown drink selection.")
				}
				text, err := r.facade.HandleLogDrink(ctx, id, parts[0], volume, abv)
				if err != nil {
					text = "Failed to log the drink."
				}
				return r.sendMainMenu(ctx, id, text)
			},
		},
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	// ----- Inline button callbacks -----
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}

	// ----- Regular messages -----
	if update.Message == nil {
		return nil
	}
	tgUser := update.Message.From
	if tgUser == nil {
		return nil
	}
	tgID := tgUser.ID

	// Basic rate limiting per user per command
	fields := strings.Fields(update.Message.Text)
	command := "message"
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		command = fields[0]
	}
	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(tgID, command), 20, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			return r.SendMessage(ctx, tgID, "Rate limit exceeded. Please try again later.")
		}
	}
	metrics.IncBotCommand(command)

	switch command {
	case "/start":
		text, err := r.facade.HandleStart(ctx, tgID, tgUser.UserName, tgUser.FirstName, tgUser.LastName)
		if err != nil {
			return r.SendMessage(ctx, tgID, "Failed to initialize user.")
		}
		return r.sendMainMenu(ctx, tgID, text)

	case "/help":
		reply := "Commands:\n/start - register and show the menu\n/stats - your statistics\n/drink <type> <volume_ml> <abv%> - log a drink\n/sober - start a sober period\n/soberend - end the current sober period\n/goal <type> <target> <period> - set a goal\n/goals - list your goals"
		return r.SendMessage(ctx, tgID, reply)

	case "/stats":
		text, err := r.facade.HandleStats(ctx, tgID)
		if err != nil {
			text = "Failed to get statistics."
		}
		return r.sendMainMenu(ctx, tgID, text)

	case "/sober":
		text, err := r.facade.HandleSoberStart(ctx, tgID)
		if err != nil {
			text = "Failed to start a sober period."
		}
		return r.SendMessage(ctx, tgID, text)

	case "/soberend":
		text, err := r.facade.HandleSoberEnd(ctx, tgID)
		if err != nil {
			text = "Failed to end the sober period."
		}
		return r.SendMessage(ctx, tgID, text)

	case "/drink":
		// /drink <type> <volume_ml> <abv>; bare /drink opens the picker
		if len(fields) < 4 {
			return r.sendDrinkMenu(ctx, tgID)
		}
		volume, err1 := strconv.ParseFloat(fields[2], 64)
		abv, err2 := strconv.ParseFloat(fields[3], 64)
		if err1 != nil || err2 != nil {
			return r.SendMessage(ctx, tgID, "Usage: /drink <type> <volume_ml> <abv%>")
		}
		text, err := r.facade.HandleLogDrink(ctx, tgID, fields[1], volume, abv)
		if err != nil {
			text = "Failed to log the drink."
		}
		return r.SendMessage(ctx, tgID, text)

	case "/goal":
		if len(fields) < 4 {
			return r.SendMessage(ctx, tgID, "Usage: /goal <sober_days|drinks_limit|spending_limit> <target> <daily|weekly|monthly>")
		}
		target, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return r.SendMessage(ctx, tgID, "Target must be a number.")
		}
		text, err := r.facade.HandleCreateGoal(ctx, tgID, model.GoalType(fields[1]), target, model.GoalPeriod(fields[3]), nil)
		if err != nil {
			text = "Failed to create the goal."
		}
		return r.SendMessage(ctx, tgID, text)

	case "/goals":
		text, err := r.facade.HandleGoals(ctx, tgID)
		if err != nil {
			text = "Failed to list goals."
		}
		return r.SendMessage(ctx, tgID, text)

	default:
		if command != "message" {
			return r.SendMessage(ctx, tgID, "Unknown command. Try /help.")
		}
		return nil
	}
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop telegram spinner when we return
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, "")) }()

	var chatID int64
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	} else {
		chatID = query.From.ID
	}
	if chatID == 0 {
		return nil
	}

	data := strings.TrimSpace(query.Data)

	// Rate limit for callbacks
	if r.rateLimiter != nil {
		if allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(chatID, "cb:"+data), 30, time.Minute); err == nil && !allowed {
			return r.SendMessage(ctx, chatID, "Rate limit exceeded. Please try again later.")
		}
	}
	metrics.IncBotCommand("callback")

	// Exact matches
	if fn, ok := r.cbRoutes()[data]; ok {
		return fn(ctx, chatID, data)
	}
	// Prefix matches
	for _, pr := range r.cbPrefixRoutes() {
		if strings.HasPrefix(data, pr.Prefix) {
			return pr.Fn(ctx, chatID, data)
		}
	}
	return fmt.Errorf("unknown callback data %q", data)
}

// sendMainMenu shows the main actions as inline buttons.
func (r *RealTelegramBotAdapter) sendMainMenu(ctx context.Context, telegramID int64, intro string) error {
	rows := [][]adapter.InlineButton{
		{{Text: "📊 Statistics", Data: "cmd:stats"}},
		{{Text: "🥤 Add drink", Data: "cmd:drink"}},
		{{Text: "🚫 Start sober period", Data: "cmd:sober"}},
		{{Text: "⏹ End sober period", Data: "cmd:soberend"}},
		{{Text: "🎯 Goals", Data: "cmd:goals"}},
	}
	if strings.TrimSpace(intro) == "" {
		intro = "Welcome! Choose an action:"
	}
	return r.SendButtons(ctx, telegramID, intro, rows)
}

// sendDrinkMenu lists common drinks with preset volumes; pressing a button
// logs the drink directly.
func (r *RealTelegramBotAdapter) sendDrinkMenu(ctx context.Context, telegramID int64) error {
	rows := [][]adapter.InlineButton{
		{{Text: "🍺 Beer 500ml 5%", Data: "drink:beer:500:5"}},
		{{Text: "🍷 Wine 150ml 12%", Data: "drink:wine:150:12"}},
		{{Text: "🥃 Spirits 40ml 40%", Data: "drink:spirits:40:40"}},
		{{Text: "◀️ Menu", Data: "cmd:menu"}},
	}
	return r.SendButtons(ctx, telegramID, "Pick a drink (or use /drink <type> <volume_ml> <abv%>):", rows)
}
