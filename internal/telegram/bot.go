package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nutrition-planner/internal/clipper"
	"nutrition-planner/internal/config"
	"nutrition-planner/internal/metrics"
	"nutrition-planner/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API, the meal planner and the recipe clipper.
type Bot struct {
	api          *tgbotapi.BotAPI
	planner      *planner.Planner
	clipper      *clipper.Clipper
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	planner *planner.Planner,
	clipper *clipper.Clipper,
	metricsStore *metrics.Store,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		planner:      planner,
		clipper:      clipper,
		metricsStore: metricsStore,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
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

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	if msg.Text == "/metrics" {
		b.handleMetricsRequest(msg)
		return
	}
	if msg.Text == "/start" || msg.Text == "/help" {
		b.sendMarkdown(msg.Chat.ID, helpText)
		return
	}

	// A URL switches to clipper mode; anything else is a plan request.
	if strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://") {
		b.handleClipperRequest(msg)
		return
	}

	b.handlePlannerRequest(msg)
}

const helpText = "🥗 *Nutrition Planner*\n\n" +
	"Send me your profile to get a daily meal plan:\n" +
	"`/plan <age> <sex> <weight_kg> <height_cm> <goal>`\n" +
	"Example: `/plan 30 male 80 180 maintenance`\n" +
	"Goals: loss, maintenance, gain.\n\n" +
	"Or send a recipe URL to add it to your catalog."

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.sendMarkdown(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}
	b.handleMetricsCommand(msg.Chat.ID)
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	sentMsg, err := b.sendMarkdown(msg.Chat.ID, "✂️ *Clipping recipe...* \n(Extracting nutrition facts and saving)")
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	result, err := b.clipper.ClipURL(ctx, msg.Text)
	var finalText string
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", safeErr)
	} else {
		finalText = formatClipResult(result.Record)
		_ = b.metricsStore.Record(metrics.MapUsage("RecipeClipper", result.Usage, result.Latency))
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handlePlannerRequest(msg *tgbotapi.Message) {
	req, err := parsePlanCommand(msg.Text)
	if err != nil {
		b.sendMarkdown(msg.Chat.ID, fmt.Sprintf("🤔 %v\n\n%s", err, helpText))
		return
	}

	sentMsg, err := b.sendMarkdown(msg.Chat.ID, "🧑‍🍳 *Thinking...* \n(Scoring recipes against your macro targets)")
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Printf("Generating plan for request: %s", msg.Text)
	result, err := b.planner.GeneratePlan(ctx, req)

	var finalText string
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", safeErr)
	} else {
		finalText = formatPlanMarkdown(result)
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

// parsePlanCommand parses "/plan <age> <sex> <weight_kg> <height_cm> <goal>".
// The leading "/plan" is optional so a bare profile line works too.
func parsePlanCommand(text string) (planner.Request, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) > 0 && fields[0] == "/plan" {
		fields = fields[1:]
	}
	if len(fields) != 5 {
		return planner.Request{}, fmt.Errorf("expected 5 values: age, sex, weight, height, goal")
	}

	age, err := strconv.Atoi(fields[0])
	if err != nil {
		return planner.Request{}, fmt.Errorf("invalid age %q", fields[0])
	}
	weight, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return planner.Request{}, fmt.Errorf("invalid weight %q", fields[2])
	}
	height, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return planner.Request{}, fmt.Errorf("invalid height %q", fields[3])
	}

	return planner.Request{
		Age:      age,
		Sex:      strings.ToLower(fields[1]),
		WeightKg: weight,
		HeightCm: height,
		Goal:     strings.ToLower(fields[4]),
	}, nil
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Error fetching metrics."))
		return
	}

	health := metrics.GetSysHealth("data")

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	b.sendMarkdown(chatID, sb.String())
}

func (b *Bot) sendMarkdown(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	return b.api.Send(msg)
}
