package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"food-storefront/internal/app"
	"food-storefront/internal/cart"
	"food-storefront/internal/catalog"
	"food-storefront/internal/config"
	"food-storefront/internal/customize"
	"food-storefront/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the chat storefront: menu browsing, item customization, cart and checkout.
type Bot struct {
	api          *tgbotapi.BotAPI
	app          *app.App
	sessions     *SessionRepository
	metricsStore *metrics.Store
	cfg          *config.Config
	logger       *zap.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	application *app.App,
	sessions *SessionRepository,
	metricsStore *metrics.Store,
	logger *zap.Logger,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	logger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	logger.Info("webhook set", zap.String("description", resp.Description))

	return &Bot{
		api:          bot,
		app:          application,
		sessions:     sessions,
		metricsStore: metricsStore,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("error parsing update", zap.Error(err))
		return
	}

	var from *tgbotapi.User
	switch {
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	case update.Message != nil:
		from = update.Message.From
	default:
		return
	}

	if from == nil || !b.cfg.IsUserAllowed(from.ID) {
		if from != nil {
			b.logger.Warn("unauthorized access attempt", zap.Int64("user_id", from.ID), zap.String("username", from.UserName))
		}
		return
	}

	if update.CallbackQuery != nil {
		go b.handleCallbackQuery(update.CallbackQuery)
		return
	}
	go b.processMessage(update.Message)
}

func userKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := userKey(msg.From.ID)
	defer b.app.Carts().Lock(userID)()

	switch msg.Command() {
	case "start", "menu":
		b.sendMenu(ctx, msg.Chat.ID, userID)
		return
	case "cart":
		b.sendCart(msg.Chat.ID, 0, userID)
		return
	case "metrics":
		b.handleMetricsRequest(ctx, msg)
		return
	case "search":
		if q := strings.TrimSpace(msg.CommandArguments()); q != "" {
			b.sendSearch(ctx, msg.Chat.ID, userID, q)
			return
		}
		if _, err := b.sessions.Start(ctx, userID, SessionSearch, StateAwaitingQuery, SessionContextData{}); err != nil {
			b.logger.Error("failed to start search session", zap.String("user_id", userID), zap.Error(err))
		}
		b.send(msg.Chat.ID, "🔎 What are you looking for?")
		return
	case "":
	default:
		b.send(msg.Chat.ID, helpText)
		return
	}

	session, err := b.sessions.GetActive(ctx, userID, SessionSearch, time.Now())
	if err != nil {
		b.logger.Error("failed to load search session", zap.String("user_id", userID), zap.Error(err))
	}
	if session == nil {
		b.send(msg.Chat.ID, helpText)
		return
	}
	if err := b.sessions.End(ctx, userID, SessionSearch); err != nil {
		b.logger.Warn("failed to end search session", zap.String("user_id", userID), zap.Error(err))
	}
	b.sendSearch(ctx, msg.Chat.ID, userID, msg.Text)
}

const helpText = "Use /menu to browse, /search to find a dish and /cart to review your order."

func (b *Bot) handleMetricsRequest(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.send(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	activity, err := b.metricsStore.GetDailyActivity(ctx, 7)
	if err != nil {
		b.logger.Error("failed to fetch metrics", zap.Error(err))
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Error fetching metrics."))
		return
	}

	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))
	b.send(msg.Chat.ID, formatMetricsReport(activity, health, b.app.Carts().Len()))
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}
	ctx := context.Background()
	userID := userKey(query.From.ID)
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	// Updates run on their own goroutines; a user's taps are applied one at a time.
	defer b.app.Carts().Lock(userID)()

	action, args := parseCallback(query.Data)
	toast := ""

	switch action {
	case cbMenu:
		b.editMenu(ctx, chatID, messageID, userID)
	case cbCategory:
		b.showCategory(ctx, chatID, messageID, userID, args)
	case cbItem:
		toast = b.openItem(ctx, chatID, messageID, userID, args)
	case cbOption, cbDraftQty, cbAdd, cbCancel:
		toast = b.handleDraft(ctx, chatID, messageID, userID, action, args)
	case cbCart:
		b.sendCart(chatID, messageID, userID)
	case cbCartQty:
		if len(args) == 2 {
			id, err1 := strconv.ParseInt(args[0], 10, 64)
			qty, err2 := strconv.Atoi(args[1])
			if err1 == nil && err2 == nil {
				b.app.Carts().Get(userID).UpdateQuantity(id, qty)
			}
		}
		b.sendCart(chatID, messageID, userID)
	case cbRemove:
		if len(args) == 1 {
			if id, err := strconv.ParseInt(args[0], 10, 64); err == nil {
				b.app.Carts().Get(userID).Remove(id)
			}
		}
		b.sendCart(chatID, messageID, userID)
	case cbClear:
		b.app.Carts().Get(userID).Clear()
		b.sendCart(chatID, messageID, userID)
	case cbCheckout:
		b.checkout(ctx, chatID, messageID, userID)
	default:
		b.logger.Warn("unknown callback", zap.String("data", query.Data))
	}

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, toast))
}

func (b *Bot) sendMenu(ctx context.Context, chatID int64, userID string) {
	text, keyboard, err := b.menuScreen(ctx, userID)
	if err != nil {
		b.sendError(chatID, "loading the menu", err)
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	b.api.Send(msg)
}

func (b *Bot) editMenu(ctx context.Context, chatID int64, messageID int, userID string) {
	text, keyboard, err := b.menuScreen(ctx, userID)
	if err != nil {
		b.sendError(chatID, "loading the menu", err)
		return
	}
	b.edit(chatID, messageID, text, keyboard)
}

func (b *Bot) menuScreen(ctx context.Context, userID string) (string, tgbotapi.InlineKeyboardMarkup, error) {
	menu, err := b.app.Menu(ctx)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	snap := b.app.Carts().Get(userID).Snapshot()
	categories := menu.Categories()
	text := withCartBar(formatCategories(categories), snap, b.cfg.PriceLabel)
	return text, categoriesKeyboard(categories, snap), nil
}

func (b *Bot) showCategory(ctx context.Context, chatID int64, messageID int, userID string, args []string) {
	menu, err := b.app.Menu(ctx)
	if err != nil {
		b.sendError(chatID, "loading the menu", err)
		return
	}
	categories := menu.Categories()

	idx := -1
	if len(args) == 1 {
		idx, _ = strconv.Atoi(args[0])
	}
	if idx < 0 || idx >= len(categories) {
		// The menu changed since the keyboard was drawn.
		b.editMenu(ctx, chatID, messageID, userID)
		return
	}

	items := menu.ByCategory(categories[idx])
	engine := b.app.Carts().Get(userID)
	text := formatItemList(categories[idx], items, engine.ItemQuantity, b.cfg.PriceLabel)
	b.edit(chatID, messageID, withCartBar(text, engine.Snapshot(), b.cfg.PriceLabel), itemListKeyboard(items))
}

func (b *Bot) sendSearch(ctx context.Context, chatID int64, userID, query string) {
	menu, err := b.app.Menu(ctx)
	if err != nil {
		b.sendError(chatID, "searching the menu", err)
		return
	}

	results := menu.Search(query)
	engine := b.app.Carts().Get(userID)
	text := formatItemList(fmt.Sprintf("Results for \"%s\"", query), results, engine.ItemQuantity, b.cfg.PriceLabel)

	msg := tgbotapi.NewMessage(chatID, withCartBar(text, engine.Snapshot(), b.cfg.PriceLabel))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = itemListKeyboard(results)
	b.api.Send(msg)
}

// openItem adds plain items straight to the cart and opens a customization
// draft for the rest. It returns the callback toast.
func (b *Bot) openItem(ctx context.Context, chatID int64, messageID int, userID string, args []string) string {
	item, ok := b.findItem(ctx, args)
	if !ok {
		return "This item is no longer on the menu."
	}

	if !item.IsCustomizable() {
		if err := b.app.Carts().Get(userID).Add(item, nil, 1); err != nil {
			b.logger.Error("failed to add item", zap.String("user_id", userID), zap.Int64("item_id", item.ID), zap.Error(err))
			return "Could not add this item."
		}
		return fmt.Sprintf("Added %s", item.Name)
	}

	draft := customize.NewDraft(item)
	state := draft.State()
	if _, err := b.sessions.Start(ctx, userID, SessionDraft, StateCustomizing, SessionContextData{Draft: &state, MessageID: messageID}); err != nil {
		b.logger.Error("failed to start draft session", zap.String("user_id", userID), zap.Error(err))
		return "Something went wrong, please try again."
	}
	b.edit(chatID, messageID, formatDraft(draft, b.cfg.PriceLabel), draftKeyboard(draft, b.cfg.PriceLabel))
	return ""
}

func (b *Bot) findItem(ctx context.Context, args []string) (catalog.MenuItem, bool) {
	if len(args) != 1 {
		return catalog.MenuItem{}, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return catalog.MenuItem{}, false
	}
	item, ok, err := b.app.Item(ctx, id)
	if err != nil {
		b.logger.Error("failed to load menu item", zap.Int64("item_id", id), zap.Error(err))
		return catalog.MenuItem{}, false
	}
	return item, ok
}

var (
	errDraftExpired = errors.New("draft session expired")
	errItemGone     = errors.New("item no longer on the menu")
)

// loadDraft restores the user's live customization draft from its session.
func (b *Bot) loadDraft(ctx context.Context, userID string) (*Session, *customize.Draft, error) {
	session, err := b.sessions.GetActive(ctx, userID, SessionDraft, time.Now())
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, errDraftExpired
	}
	data, err := session.GetContextData()
	if err != nil || data.Draft == nil {
		return nil, nil, errDraftExpired
	}

	item, ok, err := b.app.Item(ctx, data.Draft.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		b.sessions.Delete(ctx, session.ID)
		return nil, nil, errItemGone
	}
	return session, customize.Restore(item, *data.Draft), nil
}

// commitDraft adds the draft to the user's cart and closes its session, so a
// repeated add finds no draft.
func (b *Bot) commitDraft(ctx context.Context, userID string, session *Session, draft *customize.Draft) (cart.Snapshot, error) {
	engine := b.app.Carts().Get(userID)
	if err := draft.AddTo(engine); err != nil {
		return cart.Snapshot{}, err
	}
	if err := b.sessions.Delete(ctx, session.ID); err != nil {
		b.logger.Warn("failed to close draft session", zap.String("user_id", userID), zap.Error(err))
	}
	return engine.Snapshot(), nil
}

// handleDraft applies a customization button press to the user's live draft.
func (b *Bot) handleDraft(ctx context.Context, chatID int64, messageID int, userID, action string, args []string) string {
	session, draft, err := b.loadDraft(ctx, userID)
	switch {
	case errors.Is(err, errDraftExpired):
		return "This item view expired, please open it again."
	case errors.Is(err, errItemGone):
		return "This item is no longer on the menu."
	case err != nil:
		b.sendError(chatID, "loading your item", err)
		return ""
	}
	item := draft.Item()

	switch action {
	case cbCancel:
		b.sessions.Delete(ctx, session.ID)
		b.editMenu(ctx, chatID, messageID, userID)
		return ""

	case cbAdd:
		snap, err := b.commitDraft(ctx, userID, session, draft)
		if err != nil {
			var missing *cart.RequiredOptionMissingError
			if errors.As(err, &missing) {
				return "Please choose: " + strings.Join(missing.Categories, ", ")
			}
			b.logger.Error("failed to add draft", zap.String("user_id", userID), zap.Error(err))
			return "Could not add this item."
		}
		text := withCartBar(fmt.Sprintf("✅ Added %d x *%s*", draft.Quantity(), md(item.Name)), snap, b.cfg.PriceLabel)
		b.edit(chatID, messageID, text, tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("⬅️ Menu", cbMenu),
				tgbotapi.NewInlineKeyboardButtonData("🛒 Cart", cbCart),
			),
		))
		return ""

	case cbOption:
		if len(args) != 2 {
			return ""
		}
		ci, err1 := strconv.Atoi(args[0])
		oi, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			return ""
		}
		if err := draft.SelectIndex(ci, oi); err != nil {
			return "That option is no longer available."
		}

	case cbDraftQty:
		if len(args) != 1 {
			return ""
		}
		switch args[0] {
		case "+":
			draft.Increment()
		case "-":
			draft.Decrement()
		default:
			return ""
		}
	}

	state := draft.State()
	if err := b.sessions.Update(ctx, session.ID, StateCustomizing, SessionContextData{Draft: &state, MessageID: messageID}); err != nil {
		b.logger.Error("failed to update draft session", zap.String("user_id", userID), zap.Error(err))
	}
	b.edit(chatID, messageID, formatDraft(draft, b.cfg.PriceLabel), draftKeyboard(draft, b.cfg.PriceLabel))
	return ""
}

// sendCart shows the cart, editing messageID in place when it is non-zero.
func (b *Bot) sendCart(chatID int64, messageID int, userID string) {
	snap := b.app.Carts().Get(userID).Snapshot()
	text := formatCart(snap, b.cfg.PriceLabel)
	keyboard := cartKeyboard(snap)

	if messageID != 0 {
		b.edit(chatID, messageID, text, keyboard)
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	b.api.Send(msg)
}

func (b *Bot) checkout(ctx context.Context, chatID int64, messageID int, userID string) {
	h, err := b.app.Checkout(ctx, userID)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			b.sendCart(chatID, messageID, userID)
			return
		}
		b.sendError(chatID, "placing your order", err)
		return
	}

	b.logger.Info("checkout complete", zap.String("user_id", userID), zap.String("reference", h.Reference.String()))
	b.edit(chatID, messageID, formatThankYou(h, b.cfg.PriceLabel), tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽 Order more", cbMenu),
		),
	))
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Warn("failed to edit message", zap.Int64("chat_id", chatID), zap.Int("message_id", messageID), zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, doing string, err error) {
	b.logger.Error("request failed", zap.String("while", doing), zap.Error(err))
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	b.send(chatID, fmt.Sprintf("❌ *Error %s:*\n```\n%v\n```", doing, safeErr))
}
