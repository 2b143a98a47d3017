package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"meal-shopping-planner/internal/aggregate"
	"meal-shopping-planner/internal/app"
	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/config"
	"meal-shopping-planner/internal/metrics"
	"meal-shopping-planner/internal/shopping"
)

const decisionTTL = 30 * time.Minute

// Bot wraps the Telegram API and the shopping list application.
type Bot struct {
	api      *tgbotapi.BotAPI
	app      *app.App
	sessions *SessionRepository
	cfg      *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, sessions *SessionRepository) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:      bot,
		app:      application,
		sessions: sessions,
		cfg:      cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the given mux.
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
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.CallbackQuery != nil {
		if !b.cfg.IsAllowed(update.CallbackQuery.From.ID) {
			log.Printf("⚠️ Unauthorized callback from UserID: %d", update.CallbackQuery.From.ID)
			return
		}
		go b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.cfg.IsAllowed(update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "metrics":
		b.handleMetricsRequest(msg)
	case "lists":
		b.handleLists(ctx, msg.Chat.ID)
	case "list":
		b.handleShowList(ctx, msg.Chat.ID, args)
	case "sync":
		b.handleSync(ctx, msg, args)
	case "done":
		b.handleDone(ctx, msg.Chat.ID, args)
	case "generate":
		b.handleGenerate(ctx, msg.Chat.ID, args)
	default:
		b.send(msg.Chat.ID, helpText)
	}
}

const helpText = `🛒 *Shopping lists*

/lists - active lists
/list <n> - show list n with check buttons
/sync <n> - update list n from the meal plan
/done <n> - mark list n as completed
/generate [strategy] - lists for the next 7 days`

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.send(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}
	b.handleMetricsCommand(msg.Chat.ID)
}

func (b *Bot) activeList(ctx context.Context, arg string) (app.ListOverview, error) {
	lists, err := b.app.Lists(ctx, shopping.StatusActive)
	if err != nil {
		return app.ListOverview{}, err
	}
	idx, err := parseIndex(arg, len(lists))
	if err != nil {
		return app.ListOverview{}, err
	}
	return lists[idx], nil
}

func (b *Bot) handleLists(ctx context.Context, chatID int64) {
	lists, err := b.app.Lists(ctx, shopping.StatusActive)
	if err != nil {
		log.Printf("Error listing shopping lists: %v", err)
		b.send(chatID, "❌ Error fetching lists.")
		return
	}
	b.send(chatID, formatLists(lists))
}

func (b *Bot) handleShowList(ctx context.Context, chatID int64, arg string) {
	overview, err := b.activeList(ctx, arg)
	if err != nil {
		b.send(chatID, "❌ "+err.Error())
		return
	}
	detail, err := b.app.ShowList(ctx, overview.List.ID)
	if err != nil {
		log.Printf("Error loading list %s: %v", overview.List.ID, err)
		b.send(chatID, "❌ Error loading list.")
		return
	}

	reply := tgbotapi.NewMessage(chatID, formatList(detail))
	reply.ParseMode = "Markdown"
	if len(detail.Items) > 0 {
		reply.ReplyMarkup = itemKeyboard(detail.Items)
	}
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("Failed to send list: %v", err)
	}
}

func (b *Bot) handleSync(ctx context.Context, msg *tgbotapi.Message, arg string) {
	chatID := msg.Chat.ID
	overview, err := b.activeList(ctx, arg)
	if err != nil {
		b.send(chatID, "❌ "+err.Error())
		return
	}
	list := overview.List

	report, items, err := b.app.Sync(ctx, list.ID)
	if errors.Is(err, shopping.ErrDecisionRequired) {
		userID := strconv.FormatInt(msg.From.ID, 10)
		_, err := b.sessions.Create(ctx, userID, SessionSyncDecision, StateAwaitDecision, SessionContextData{
			ListID:         list.ID,
			ListName:       list.Name,
			RemovedRecipes: removedIDs(report),
		}, decisionTTL)
		if err != nil {
			log.Printf("Failed to create sync session: %v", err)
			b.send(chatID, "❌ Error starting sync.")
			return
		}

		reply := tgbotapi.NewMessage(chatID, formatConflicts(list.Name, report))
		reply.ParseMode = "Markdown"
		reply.ReplyMarkup = decisionKeyboard()
		if _, err := b.api.Send(reply); err != nil {
			log.Printf("Failed to send sync prompt: %v", err)
		}
		return
	}
	if err != nil {
		log.Printf("Error syncing list %s: %v", list.ID, err)
		b.send(chatID, "❌ Error syncing list.")
		return
	}
	b.send(chatID, formatSynced(list.Name, report, items))
}

func (b *Bot) handleDone(ctx context.Context, chatID int64, arg string) {
	overview, err := b.activeList(ctx, arg)
	if err != nil {
		b.send(chatID, "❌ "+err.Error())
		return
	}
	if err := b.app.SetListStatus(ctx, overview.List.ID, shopping.StatusCompleted); err != nil {
		log.Printf("Error completing list %s: %v", overview.List.ID, err)
		b.send(chatID, "❌ Error updating list.")
		return
	}
	b.send(chatID, fmt.Sprintf("🏁 *%s* completed.", escape(overview.List.Name)))
}

func (b *Bot) handleGenerate(ctx context.Context, chatID int64, arg string) {
	today := calendar.Day(time.Now())
	rng := calendar.NewRange(today, calendar.AddDays(today, 6))

	var strategy shopping.Strategy
	if arg != "" {
		s, err := shopping.ParseStrategy(arg)
		if err != nil {
			b.send(chatID, "❌ "+err.Error())
			return
		}
		strategy = s
	} else {
		s, warnings, err := b.app.Recommend(ctx, rng)
		if err != nil {
			log.Printf("Error recommending strategy: %v", err)
			b.send(chatID, "❌ Error reading the meal plan.")
			return
		}
		strategy = s
		if warnings > 0 {
			b.send(chatID, fmt.Sprintf("💡 %d item(s) would be bought too early, using *%s*.", warnings, strategy))
		}
	}

	lists, err := b.app.GenerateLists(ctx, shopping.GenerateRequest{
		Name:     "Week of " + calendar.Format(today),
		Range:    rng,
		Strategy: strategy,
	})
	if err != nil {
		log.Printf("Error generating lists: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		b.send(chatID, fmt.Sprintf("❌ *Error generating list:*\n```\n%v\n```", safeErr))
		return
	}

	var sb strings.Builder
	sb.WriteString("✅ *Created*\n")
	for _, l := range lists {
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", escape(l.Name), l.Range()))
	}
	sb.WriteString("\nUse /lists to see them.")
	b.send(chatID, sb.String())
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	action, arg, _ := strings.Cut(query.Data, "|")

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	if query.Message == nil {
		return
	}
	chatID, messageID := query.Message.Chat.ID, query.Message.MessageID

	switch action {
	case "check", "uncheck":
		item, err := b.app.CheckItem(ctx, arg, action == "check")
		if err != nil || item == nil {
			log.Printf("Error toggling item %s: %v", arg, err)
			return
		}
		detail, err := b.app.ShowList(ctx, item.ListID)
		if err != nil {
			log.Printf("Error reloading list %s: %v", item.ListID, err)
			return
		}
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, formatList(detail), itemKeyboard(detail.Items))
		edit.ParseMode = "Markdown"
		b.api.Send(edit)

	case "sync":
		b.handleDecision(ctx, query, arg == "keep")
	}
}

func (b *Bot) handleDecision(ctx context.Context, query *tgbotapi.CallbackQuery, keep bool) {
	chatID, messageID := query.Message.Chat.ID, query.Message.MessageID
	userID := strconv.FormatInt(query.From.ID, 10)

	session, err := b.sessions.GetActive(ctx, userID)
	if err != nil || session == nil || session.SessionType != SessionSyncDecision {
		b.editText(chatID, messageID, "⌛ This decision has expired. Run /sync again.")
		return
	}
	data, err := session.GetContextData()
	if err != nil {
		log.Printf("Corrupt session %d: %v", session.ID, err)
		return
	}

	items, err := b.app.Reconcile(ctx, data.ListID, keep)
	if err != nil {
		log.Printf("Error reconciling list %s: %v", data.ListID, err)
		b.editText(chatID, messageID, "❌ Error syncing list.")
		return
	}
	if err := b.sessions.Delete(ctx, session.ID); err != nil {
		log.Printf("Warning: failed to delete session %d: %v", session.ID, err)
	}

	choice := "kept"
	if !keep {
		choice = "removed"
	}
	b.editText(chatID, messageID, fmt.Sprintf("✅ *%s* synced: %d item(s), purchased items %s.", escape(data.ListName), len(items), choice))
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	activity, err := b.app.DailyActivity(7)
	if err != nil {
		b.send(chatID, "❌ Error fetching metrics.")
		return
	}

	stats, err := b.app.Stats(context.Background())
	if err != nil {
		log.Printf("Error counting stored data: %v", err)
	}

	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))
	b.send(chatID, formatMetrics(activity, stats, health))
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (b *Bot) editText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

// parseIndex turns a 1-based list number into an index.
func parseIndex(arg string, n int) (int, error) {
	if n == 0 {
		return 0, errors.New("no active lists")
	}
	if arg == "" {
		if n == 1 {
			return 0, nil
		}
		return 0, fmt.Errorf("which list? pick 1-%d", n)
	}
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("no list %q, pick 1-%d", arg, n)
	}
	return i - 1, nil
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func formatLists(lists []app.ListOverview) string {
	if len(lists) == 0 {
		return "🛒 No active lists. Use /generate to create one."
	}
	var sb strings.Builder
	sb.WriteString("🛒 *Active lists*\n\n")
	for i, l := range lists {
		sb.WriteString(fmt.Sprintf("%d. *%s* (%s)", i+1, escape(l.List.Name), l.List.Range()))
		if l.NeedsSync {
			sb.WriteString(" 🔄")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatList(d app.ListDetail) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *%s*\n_%s_\n", escape(d.List.Name), d.List.Range()))
	if d.NeedsSync {
		sb.WriteString("🔄 The meal plan changed, use /sync to update.\n")
	}

	title := cases.Title(language.English)
	categories, byCategory := groupByCategory(d.Items)
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", escape(title.String(cat))))
		for _, it := range byCategory[cat] {
			mark := "⬜"
			if it.Checked {
				mark = "✅"
			}
			sb.WriteString(fmt.Sprintf("%s %s, %s", mark, escape(it.Name), it.QuantityString()))
			switch {
			case it.FreshnessWarning && it.FreshnessStatus == aggregate.StatusFreeze:
				sb.WriteString(" ❄️ freeze")
			case it.FreshnessWarning:
				sb.WriteString(" ⏳ buy later")
			}
			if it.Split != nil {
				sb.WriteString(fmt.Sprintf(" (now %s, rest on %s)",
					aggregate.FormatValue(it.Split.BuyNowQty), it.Split.BuyLaterDate.Format("Mon 2 Jan")))
			}
			sb.WriteString("\n")
		}
	}
	if len(d.Items) == 0 {
		sb.WriteString("\n_Nothing to buy._\n")
	}
	return sb.String()
}

func groupByCategory(items []shopping.Item) ([]string, map[string][]shopping.Item) {
	byCategory := make(map[string][]shopping.Item)
	for _, it := range items {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	return categories, byCategory
}

func itemKeyboard(items []shopping.Item) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, it := range items {
		label, action := "⬜ "+it.Name, "check|"
		if it.Checked {
			label, action = "✅ "+it.Name, "uncheck|"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, action+it.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func decisionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Keep purchased", "sync|keep"),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Remove them", "sync|discard"),
		),
	)
}

func removedIDs(report shopping.ConflictReport) []string {
	ids := make([]string, 0, len(report.Removed))
	for _, r := range report.Removed {
		ids = append(ids, r.RecipeID)
	}
	return ids
}

func formatConflicts(listName string, report shopping.ConflictReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔄 *%s*\n\nThese recipes left the plan but you already bought some of their items:\n", escape(listName)))
	for _, r := range report.Removed {
		sb.WriteString(fmt.Sprintf("• %s: %s\n", escape(r.RecipeID), escape(strings.Join(r.CheckedItems, ", "))))
	}
	if len(report.Added) > 0 {
		sb.WriteString(fmt.Sprintf("\nNew recipes: %s\n", escape(strings.Join(report.Added, ", "))))
	}
	sb.WriteString("\nKeep the purchased items on the list?")
	return sb.String()
}

func formatSynced(listName string, report shopping.ConflictReport, items []shopping.Item) string {
	if report.Empty() {
		return fmt.Sprintf("✅ *%s* is up to date (%d items).", escape(listName), len(items))
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ *%s* synced: %d item(s)\n", escape(listName), len(items)))
	if len(report.Added) > 0 {
		sb.WriteString(fmt.Sprintf("➕ %s\n", escape(strings.Join(report.Added, ", "))))
	}
	if len(report.RemovedClean) > 0 {
		sb.WriteString(fmt.Sprintf("➖ %s\n", escape(strings.Join(report.RemovedClean, ", "))))
	}
	return sb.String()
}

func formatMetrics(activity []metrics.DailyActivity, stats app.Stats, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Activity*\n")
	if len(activity) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range activity {
		sb.WriteString(fmt.Sprintf("• *%s* %s: %d runs, %d items, %dms avg\n", d.Date, d.Operation, d.Runs, d.Items, d.AvgLatencyMS))
	}

	sb.WriteString("\n📦 *Data*\n")
	sb.WriteString(fmt.Sprintf("• Recipes: %d\n", stats.Recipes))
	sb.WriteString(fmt.Sprintf("• Catalog entries: %d\n", stats.CatalogEntries))
	sb.WriteString(fmt.Sprintf("• Lists needing sync: %d\n", stats.ListsNeedingSync))

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	if health.Uptime != "" {
		sb.WriteString(fmt.Sprintf("• Up: %s\n", health.Uptime))
	}
	return sb.String()
}
