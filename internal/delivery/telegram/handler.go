package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
	"github.com/yourusername/retail-insights-bot/internal/usecase"
)

type forecastStage int

const (
	forecastStageNeedProduct forecastStage = iota
	forecastStageNeedWindow
	forecastStageNeedPeriods
)

type forecastSession struct {
	Stage      forecastStage
	Product    string
	Window     int
	StartedAt  time.Time
	LastUpdate time.Time
}

// lastForecast keeps the most recent forecast per user so it can be
// exported afterwards.
type lastForecast struct {
	Selector string
	Series   entity.MonthlySeries
	Forecast entity.ForecastSeries
}

// BotHandler is the interactive reporting shell.
type BotHandler struct {
	bot             *tgbotapi.BotAPI
	analyticsUC     usecase.AnalyticsUseCase
	forecastUC      usecase.ForecastUseCase
	cleaningUC      usecase.CleaningUseCase
	datasetUC       usecase.DatasetUseCase
	adminUC         usecase.AdminUseCase
	insightsUC      usecase.InsightsUseCase
	exporter        repository.Exporter
	charts          repository.ChartRenderer
	chartsDir       string
	exportDir       string
	defaultWindow   int
	defaultPeriods  int

	forecastMu       sync.RWMutex
	forecastSessions map[int64]*forecastSession
	lastForecastMu   sync.RWMutex
	lastForecasts    map[int64]lastForecast
	mu               sync.RWMutex
	awaitingPassword map[int64]bool
}

// NewBotHandler builds the bot shell.
func NewBotHandler(
	token string,
	analyticsUC usecase.AnalyticsUseCase,
	forecastUC usecase.ForecastUseCase,
	cleaningUC usecase.CleaningUseCase,
	datasetUC usecase.DatasetUseCase,
	adminUC usecase.AdminUseCase,
	insightsUC usecase.InsightsUseCase,
	exporter repository.Exporter,
	charts repository.ChartRenderer,
	chartsDir, exportDir string,
	defaultWindow, defaultPeriods int,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &BotHandler{
		bot:              bot,
		analyticsUC:      analyticsUC,
		forecastUC:       forecastUC,
		cleaningUC:       cleaningUC,
		datasetUC:        datasetUC,
		adminUC:          adminUC,
		insightsUC:       insightsUC,
		exporter:         exporter,
		charts:           charts,
		chartsDir:        chartsDir,
		exportDir:        exportDir,
		defaultWindow:    defaultWindow,
		defaultPeriods:   defaultPeriods,
		forecastSessions: make(map[int64]*forecastSession),
		lastForecasts:    make(map[int64]lastForecast),
		awaitingPassword: make(map[int64]bool),
	}, nil
}

// Start runs the update loop until the context is cancelled.
func (h *BotHandler) Start(ctx context.Context) error {
	log.Printf("Bot @%s is running!", h.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Println("Bot shutting down...")
			return ctx.Err()
		case update := <-updates:
			if update.CallbackQuery != nil {
				go h.handleCallback(ctx, update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			go h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	if h.isAwaitingPassword(userID) {
		h.handlePasswordInput(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	if h.hasForecastSession(userID) {
		h.handleForecastFlow(ctx, userID, message.Text, message.Chat.ID)
		return
	}

	if message.Text != "" {
		h.handleQuestion(ctx, userID, message.Text, message.Chat.ID)
	}
}

func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		h.sendMessage(message.Chat.ID, h.getWelcomeMessage())
	case "help":
		h.sendMessage(message.Chat.ID, h.getHelpMessage())
	case "summary":
		h.handleSummaryCommand(ctx, message)
	case "alerts":
		h.handleAlertsCommand(ctx, message)
	case "missing":
		h.handleMissingCommand(ctx, message)
	case "clean":
		h.handleCleanCommand(ctx, message)
	case "forecast":
		h.handleForecastCommand(ctx, message)
	case "charts":
		h.handleChartsCommand(ctx, message)
	case "export":
		h.handleExportCommand(ctx, message)
	case "history":
		h.handleHistoryCommand(ctx, message)
	case "clearhistory":
		h.handleClearHistoryCommand(ctx, message)
	case "dataset":
		h.handleDatasetCommand(ctx, message)
	case "clear":
		h.handleClearCommand(ctx, message)
	case "actions":
		h.handleActionsCommand(ctx, message)
	case "admin":
		h.handleAdminCommand(ctx, message)
	case "logout":
		h.handleLogoutCommand(ctx, message)
	case "cancel":
		h.clearForecastSession(message.From.ID)
		h.sendMessage(message.Chat.ID, "Cancelled.")
	default:
		h.sendMessage(message.Chat.ID, "Unknown command. /help for the command list.")
	}
}

// requireDataset reports whether records are loaded, telling the user
// what to do when they are not.
func (h *BotHandler) requireDataset(ctx context.Context, chatID int64) bool {
	has, err := h.datasetUC.HasRecords(ctx)
	if err != nil {
		log.Printf("❌ dataset check failed: %v", err)
		h.sendMessage(chatID, "❌ Could not read the dataset.")
		return false
	}
	if !has {
		h.sendMessage(chatID, "📭 No dataset is loaded. An admin can upload an .xlsx file after /admin login.")
		return false
	}
	return true
}

func (h *BotHandler) handleSummaryCommand(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireDataset(ctx, message.Chat.ID) {
		return
	}

	summary, err := h.analyticsUC.RevenueSummary(ctx)
	if err != nil {
		log.Printf("❌ revenue summary failed: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Failed to build the summary.")
		return
	}
	topProducts, err := h.analyticsUC.TopProductsByRevenue(ctx, 10)
	if err != nil {
		log.Printf("❌ top products failed: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Failed to build the summary.")
		return
	}
	topRegions, err := h.analyticsUC.TopRegionsByRevenue(ctx, 10)
	if err != nil {
		log.Printf("❌ top regions failed: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Failed to build the summary.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 Revenue Summary\n\n")
	fmt.Fprintf(&sb, "Total revenue: %s\n\n", summary.TotalRevenue.StringFixed(2))

	sb.WriteString("By category:\n")
	for _, g := range summary.ByCategory {
		fmt.Fprintf(&sb, "• %s: %s\n", g.Key, g.Total.StringFixed(2))
	}

	sb.WriteString("\n🏆 Top products by revenue:\n")
	for i, g := range topProducts {
		fmt.Fprintf(&sb, "%d. %s — %s\n", i+1, g.Key, g.Total.StringFixed(2))
	}

	sb.WriteString("\n🌍 Top regions by revenue:\n")
	for i, g := range topRegions {
		fmt.Fprintf(&sb, "%d. %s — %s\n", i+1, g.Key, g.Total.StringFixed(2))
	}

	h.sendMessage(message.Chat.ID, sb.String())
	_ = h.insightsUC.LogReport(ctx, message.From.ID, "summary", "", fmt.Sprintf("total=%s", summary.TotalRevenue.StringFixed(2)))
}

func (h *BotHandler) handleAlertsCommand(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireDataset(ctx, message.Chat.ID) {
		return
	}

	alerts, err := h.analyticsUC.ReorderAlerts(ctx)
	if err != nil {
		log.Printf("❌ reorder alerts failed: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Failed to compute reorder alerts.")
		return
	}

	if len(alerts) == 0 {
		h.sendMessage(message.Chat.ID, "✅ No products need reordering.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 Products needing reorder: %d\n\n", len(alerts))
	for _, a := range alerts {
		fmt.Fprintf(&sb, "• %s (%s)\n  stock %.0f ≤ reorder level %.0f — supplier: %s\n",
			a.ProductName, a.Region, a.StockAvailable, a.ReorderLevel, a.Supplier)
	}
	sb.WriteString("\nUse /export to save these alerts to Excel.")

	h.sendMessage(message.Chat.ID, sb.String())
	_ = h.insightsUC.LogReport(ctx, message.From.ID, "alerts", "", fmt.Sprintf("%d alerts", len(alerts)))
}

func (h *BotHandler) handleMissingCommand(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireDataset(ctx, message.Chat.ID) {
		return
	}

	report, err := h.cleaningUC.MissingValues(ctx)
	if err != nil {
		log.Printf("❌ missing values failed: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Failed to count missing values.")
		return
	}

	text := fmt.Sprintf(`🧹 Missing values (%d records)

• date: %d
• product id: %d
• product name: %d
• region: %d
• category: %d
• supplier: %d

Numeric fields default to 0 at load time. Use /clean for cleanup actions.`,
		report.TotalRecords, report.Date, report.ProductID, report.ProductName,
		report.Region, report.Category, report.Supplier)
	h.sendMessage(message.Chat.ID, text)
}

func (h *BotHandler) handleCleanCommand(ctx context.Context, message *tgbotapi.Message) {
	isAdmin, _ := h.adminUC.IsAdmin(ctx, message.From.ID)
	if !isAdmin {
		h.sendMessage(message.Chat.ID, "🔐 Cleaning modifies the dataset. Log in with /admin first.")
		return
	}
	if !h.requireDataset(ctx, message.Chat.ID) {
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Drop rows without dates", "clean:drop_dates"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Remove duplicates (product id)", "clean:dedupe"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Normalize text fields", "clean:normalize"),
		),
	)

	msg := tgbotapi.NewMessage(message.Chat.ID, "🧹 Choose a cleaning action:")
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("❌ failed to send clean menu: %v", err)
	}
}

func (h *BotHandler) handleForecastCommand(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireDataset(ctx, message.Chat.ID) {
		return
	}

	names, err := h.datasetUC.ProductNames(ctx)
	if err != nil || len(names) == 0 {
		h.sendMessage(message.Chat.ID, "❌ No products available to forecast.")
		return
	}

	h.startForecastSession(message.From.ID)

	var sb strings.Builder
	sb.WriteString("📈 Demand forecast\n\nSend a product name or id. Available products:\n")
	limit := len(names)
	if limit > 25 {
		limit = 25
	}
	for _, name := range names[:limit] {
		fmt.Fprintf(&sb, "• %s\n", name)
	}
	if len(names) > limit {
		fmt.Fprintf(&sb, "… and %d more\n", len(names)-limit)
	}
	sb.WriteString("\n/cancel to abort.")
	h.sendMessage(message.Chat.ID, sb.String())
}

// handleForecastFlow walks the staged forecast dialog:
// product -> window -> periods.
func (h *BotHandler) handleForecastFlow(ctx context.Context, userID int64, text string, chatID int64) {
	h.forecastMu.Lock()
	session, ok := h.forecastSessions[userID]
	if !ok {
		h.forecastMu.Unlock()
		return
	}
	session.LastUpdate = time.Now()

	switch session.Stage {
	case forecastStageNeedProduct:
		session.Product = strings.TrimSpace(text)
		session.Stage = forecastStageNeedWindow
		h.forecastMu.Unlock()
		h.sendMessage(chatID, fmt.Sprintf("Moving-average window in months, 1-12 (default %d):", h.defaultWindow))
		return

	case forecastStageNeedWindow:
		window, err := parseBoundedInt(text, h.defaultWindow)
		if err != nil {
			h.forecastMu.Unlock()
			h.sendMessage(chatID, "Please send a number between 1 and 12, or /cancel.")
			return
		}
		session.Window = window
		session.Stage = forecastStageNeedPeriods
		h.forecastMu.Unlock()
		h.sendMessage(chatID, fmt.Sprintf("Months to forecast, 1-12 (default %d):", h.defaultPeriods))
		return

	case forecastStageNeedPeriods:
		periods, err := parseBoundedInt(text, h.defaultPeriods)
		if err != nil {
			h.forecastMu.Unlock()
			h.sendMessage(chatID, "Please send a number between 1 and 12, or /cancel.")
			return
		}
		product := session.Product
		window := session.Window
		delete(h.forecastSessions, userID)
		h.forecastMu.Unlock()

		h.runForecast(ctx, userID, chatID, product, window, periods)
	}
}

// parseBoundedInt reads a 1-12 integer, treating an empty message as
// the default.
func parseBoundedInt(text string, def int) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return def, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, err
	}
	if v < 1 || v > 12 {
		return 0, fmt.Errorf("out of range: %d", v)
	}
	return v, nil
}

func (h *BotHandler) runForecast(ctx context.Context, userID, chatID int64, product string, window, periods int) {
	series, forecast, err := h.forecastUC.Forecast(ctx, product, window, periods)
	if err != nil {
		log.Printf("❌ forecast failed: %v", err)
		h.sendMessage(chatID, fmt.Sprintf("❌ Forecast failed: %v", err))
		return
	}

	if len(series) == 0 {
		h.sendMessage(chatID, fmt.Sprintf("📭 No time series data for %q. Check the product name or id.", product))
		return
	}

	h.lastForecastMu.Lock()
	h.lastForecasts[userID] = lastForecast{Selector: product, Series: series, Forecast: forecast}
	h.lastForecastMu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 %s — monthly units (window %d, horizon %d)\n\nHistory:\n", product, window, periods)

	history := series
	if len(history) > 24 {
		history = history[len(history)-24:] // last 24 months
	}
	for _, p := range history {
		fmt.Fprintf(&sb, "%s: %.1f\n", p.Month, p.Units)
	}

	sb.WriteString("\nForecast:\n")
	for _, p := range forecast {
		fmt.Fprintf(&sb, "%s: %.1f\n", p.Month, p.Units)
	}
	sb.WriteString("\nUse /export to save this forecast to Excel.")

	h.sendMessage(chatID, sb.String())
	_ = h.insightsUC.LogReport(ctx, userID, "forecast",
		fmt.Sprintf("product=%s window=%d periods=%d", product, window, periods),
		fmt.Sprintf("%d observed months, flat projection %.1f", len(series), forecast[0].Units))
}

func (h *BotHandler) handleChartsCommand(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireDataset(ctx, message.Chat.ID) {
		return
	}

	h.sendMessage(message.Chat.ID, "📊 Rendering charts...")

	records, err := h.datasetUC.Records(ctx)
	if err != nil {
		log.Printf("❌ charts failed: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Failed to render charts.")
		return
	}

	paths, err := h.charts.RenderCharts(ctx, records, h.chartsDir)
	if err != nil {
		log.Printf("❌ charts failed: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Failed to render charts.")
		return
	}
	if len(paths) == 0 {
		h.sendMessage(message.Chat.ID, "📭 Not enough data to draw charts.")
		return
	}

	for name, path := range paths {
		photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FilePath(path))
		photo.Caption = name
		if _, err := h.bot.Send(photo); err != nil {
			log.Printf("❌ failed to send chart %s: %v", name, err)
		}
	}
	_ = h.insightsUC.LogReport(ctx, message.From.ID, "charts", "", fmt.Sprintf("%d charts", len(paths)))
}

func (h *BotHandler) handleExportCommand(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireDataset(ctx, message.Chat.ID) {
		return
	}

	rows := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Cleaned data", "export:records"),
		tgbotapi.NewInlineKeyboardButtonData("Reorder alerts", "export:alerts"),
	}

	h.lastForecastMu.RLock()
	_, hasForecast := h.lastForecasts[message.From.ID]
	h.lastForecastMu.RUnlock()
	if hasForecast {
		rows = append(rows, tgbotapi.NewInlineKeyboardButtonData("Last forecast", "export:forecast"))
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(rows...))
	msg := tgbotapi.NewMessage(message.Chat.ID, "💾 What should I export?")
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("❌ failed to send export menu: %v", err)
	}
}

func (h *BotHandler) handleHistoryCommand(ctx context.Context, message *tgbotapi.Message) {
	entries, err := h.insightsUC.History(ctx, message.From.ID, 10)
	if err != nil {
		log.Printf("❌ history failed: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Failed to read report history.")
		return
	}
	if len(entries) == 0 {
		h.sendMessage(message.Chat.ID, "📭 No reports generated yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🗂 Recent reports:\n\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "• %s  %s", e.CreatedAt.Format("2006-01-02 15:04"), e.Kind)
		if e.Params != "" {
			fmt.Fprintf(&sb, " (%s)", e.Params)
		}
		if e.Summary != "" {
			fmt.Fprintf(&sb, " — %s", firstLine(e.Summary))
		}
		sb.WriteString("\n")
	}
	h.sendMessage(message.Chat.ID, sb.String())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120] + "…"
	}
	return s
}

func (h *BotHandler) handleClearHistoryCommand(ctx context.Context, message *tgbotapi.Message) {
	if err := h.insightsUC.ClearHistory(ctx, message.From.ID); err != nil {
		log.Printf("❌ clear history failed: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Failed to clear report history.")
		return
	}
	h.sendMessage(message.Chat.ID, "🗑 Report history cleared.")
}

func (h *BotHandler) handleClearCommand(ctx context.Context, message *tgbotapi.Message) {
	if err := h.adminUC.ClearAll(ctx, message.From.ID); err != nil {
		h.sendMessage(message.Chat.ID, "🔐 Clearing the dataset requires /admin login.")
		return
	}
	h.sendMessage(message.Chat.ID, "🗑 Dataset cleared.")
}

func (h *BotHandler) handleActionsCommand(ctx context.Context, message *tgbotapi.Message) {
	actions, err := h.adminUC.RecentActions(ctx, message.From.ID, 15)
	if err != nil {
		h.sendMessage(message.Chat.ID, "🔐 The audit trail requires /admin login.")
		return
	}
	if len(actions) == 0 {
		h.sendMessage(message.Chat.ID, "📭 No operator actions recorded yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Recent operator actions:\n\n")
	for _, a := range actions {
		fmt.Fprintf(&sb, "• %s  %s — %s\n", a.Timestamp.Format("2006-01-02 15:04"), a.Action, a.Details)
	}
	h.sendMessage(message.Chat.ID, sb.String())
}

func (h *BotHandler) handleDatasetCommand(ctx context.Context, message *tgbotapi.Message) {
	info, err := h.adminUC.DatasetInfo(ctx)
	if err != nil {
		h.sendMessage(message.Chat.ID, "📭 No dataset is loaded.")
		return
	}
	h.sendMessage(message.Chat.ID, info)
}

func (h *BotHandler) handleAdminCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	isAdmin, _ := h.adminUC.IsAdmin(ctx, userID)
	if isAdmin {
		h.sendMessage(message.Chat.ID, "You are already logged in.")
		return
	}

	h.setAwaitingPassword(userID, true)
	h.sendMessage(message.Chat.ID, "🔐 Enter the admin password:")
}

func (h *BotHandler) handlePasswordInput(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	password := message.Text

	h.setAwaitingPassword(userID, false)

	// Remove the password message
	deleteMsg := tgbotapi.NewDeleteMessage(message.Chat.ID, message.MessageID)
	h.bot.Send(deleteMsg)

	success, err := h.adminUC.Login(ctx, userID, password)
	if err != nil {
		log.Printf("Login error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Login failed.")
		return
	}
	if !success {
		h.sendMessage(message.Chat.ID, "❌ Wrong password!")
		return
	}

	h.sendMessage(message.Chat.ID, `✅ Welcome, operator!

You can now:
• Upload an .xlsx dataset by sending it as a document
• Run /clean actions
• /logout when done`)
}

func (h *BotHandler) handleLogoutCommand(ctx context.Context, message *tgbotapi.Message) {
	if err := h.adminUC.Logout(ctx, message.From.ID); err != nil {
		log.Printf("Logout error: %v", err)
	}
	h.sendMessage(message.Chat.ID, "👋 Logged out.")
}

func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	doc := message.Document

	isAdmin, _ := h.adminUC.IsAdmin(ctx, userID)
	if !isAdmin {
		h.sendMessage(message.Chat.ID, "🔐 Only an admin can replace the dataset. /admin to log in.")
		return
	}

	name := strings.ToLower(doc.FileName)
	if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xlsm") {
		h.sendMessage(message.Chat.ID, "❌ Please send an Excel file (.xlsx).")
		return
	}

	h.sendMessage(message.Chat.ID, "⏳ Loading dataset...")

	data, err := h.downloadFile(doc.FileID)
	if err != nil {
		log.Printf("❌ file download failed: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Failed to download the file.")
		return
	}

	count, err := h.adminUC.UploadDataset(ctx, userID, data, doc.FileName)
	if err != nil {
		log.Printf("❌ dataset upload failed: %v", err)
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ Failed to load dataset: %v", err))
		return
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ Loaded %d records from %s.\nTry /summary, /alerts or /forecast.", count, doc.FileName))
}

func (h *BotHandler) downloadFile(fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	resp, err := http.Get(file.Link(h.bot.Token))
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// handleQuestion routes free text to the AI insights layer.
func (h *BotHandler) handleQuestion(ctx context.Context, userID int64, text string, chatID int64) {
	if !h.insightsUC.Enabled() {
		h.sendMessage(chatID, "I only understand commands. /help for the list.")
		return
	}
	if !h.requireDataset(ctx, chatID) {
		return
	}

	typing := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	h.bot.Send(typing)

	answer, err := h.insightsUC.Ask(ctx, userID, text)
	if err != nil {
		log.Printf("❌ insights failed: %v", err)
		h.sendMessage(chatID, "❌ Could not answer that right now.")
		return
	}
	h.sendMessage(chatID, answer)
}

func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	// Always answer so the button stops spinning
	callback := tgbotapi.NewCallback(cq.ID, "")
	if _, err := h.bot.Request(callback); err != nil {
		log.Printf("❌ callback answer failed: %v", err)
	}

	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	switch cq.Data {
	case "clean:drop_dates":
		h.runCleanAction(ctx, userID, chatID, "drop_dates")
	case "clean:dedupe":
		h.runCleanAction(ctx, userID, chatID, "dedupe")
	case "clean:normalize":
		h.runCleanAction(ctx, userID, chatID, "normalize")
	case "export:records":
		h.runExportRecords(ctx, userID, chatID)
	case "export:alerts":
		h.runExportAlerts(ctx, userID, chatID)
	case "export:forecast":
		h.runExportForecast(ctx, userID, chatID)
	}
}

func (h *BotHandler) runCleanAction(ctx context.Context, userID, chatID int64, action string) {
	isAdmin, _ := h.adminUC.IsAdmin(ctx, userID)
	if !isAdmin {
		h.sendMessage(chatID, "🔐 Admin login required.")
		return
	}

	switch action {
	case "drop_dates":
		dropped, err := h.cleaningUC.DropMissingDates(ctx)
		if err != nil {
			log.Printf("❌ clean failed: %v", err)
			h.sendMessage(chatID, "❌ Cleaning failed.")
			return
		}
		h.adminUC.RecordAction(ctx, userID, "clean", fmt.Sprintf("dropped %d dateless records", dropped))
		h.sendMessage(chatID, fmt.Sprintf("🧹 Dropped %d records without dates.", dropped))
	case "dedupe":
		dropped, err := h.cleaningUC.RemoveDuplicates(ctx)
		if err != nil {
			log.Printf("❌ clean failed: %v", err)
			h.sendMessage(chatID, "❌ Cleaning failed.")
			return
		}
		h.adminUC.RecordAction(ctx, userID, "clean", fmt.Sprintf("removed %d duplicates", dropped))
		h.sendMessage(chatID, fmt.Sprintf("🧹 Removed %d duplicate records.", dropped))
	case "normalize":
		if err := h.cleaningUC.NormalizeText(ctx); err != nil {
			log.Printf("❌ clean failed: %v", err)
			h.sendMessage(chatID, "❌ Cleaning failed.")
			return
		}
		h.adminUC.RecordAction(ctx, userID, "clean", "normalized text fields")
		h.sendMessage(chatID, "🧹 Normalized text fields.")
	}
}

func (h *BotHandler) runExportRecords(ctx context.Context, userID, chatID int64) {
	records, err := h.datasetUC.Records(ctx)
	if err != nil {
		log.Printf("❌ export failed: %v", err)
		h.sendMessage(chatID, "❌ Export failed.")
		return
	}

	path := filepath.Join(h.exportDir, "cleaned_data.xlsx")
	written, err := h.exporter.ExportRecords(ctx, records, path)
	if err != nil {
		log.Printf("❌ export failed: %v", err)
		h.sendMessage(chatID, "❌ Export failed.")
		return
	}
	h.sendDocument(chatID, written)
	_ = h.insightsUC.LogReport(ctx, userID, "export", "cleaned_data", written)
}

func (h *BotHandler) runExportAlerts(ctx context.Context, userID, chatID int64) {
	alerts, err := h.analyticsUC.ReorderAlerts(ctx)
	if err != nil {
		log.Printf("❌ export failed: %v", err)
		h.sendMessage(chatID, "❌ Export failed.")
		return
	}

	path := filepath.Join(h.exportDir, "reorder_alerts.xlsx")
	written, err := h.exporter.ExportAlerts(ctx, alerts, path)
	if err != nil {
		log.Printf("❌ export failed: %v", err)
		h.sendMessage(chatID, "❌ Export failed.")
		return
	}
	h.sendDocument(chatID, written)
	_ = h.insightsUC.LogReport(ctx, userID, "export", "reorder_alerts", written)
}

func (h *BotHandler) runExportForecast(ctx context.Context, userID, chatID int64) {
	h.lastForecastMu.RLock()
	last, ok := h.lastForecasts[userID]
	h.lastForecastMu.RUnlock()
	if !ok {
		h.sendMessage(chatID, "Run /forecast first.")
		return
	}

	path := filepath.Join(h.exportDir, "forecast.xlsx")
	written, err := h.exporter.ExportForecast(ctx, last.Selector, last.Series, last.Forecast, path)
	if err != nil {
		log.Printf("❌ export failed: %v", err)
		h.sendMessage(chatID, "❌ Export failed.")
		return
	}
	h.sendDocument(chatID, written)
	_ = h.insightsUC.LogReport(ctx, userID, "export", "forecast "+last.Selector, written)
}

// session helpers

func (h *BotHandler) startForecastSession(userID int64) {
	h.forecastMu.Lock()
	defer h.forecastMu.Unlock()
	h.forecastSessions[userID] = &forecastSession{
		Stage:      forecastStageNeedProduct,
		StartedAt:  time.Now(),
		LastUpdate: time.Now(),
	}
}

func (h *BotHandler) hasForecastSession(userID int64) bool {
	h.forecastMu.RLock()
	defer h.forecastMu.RUnlock()
	_, ok := h.forecastSessions[userID]
	return ok
}

func (h *BotHandler) clearForecastSession(userID int64) {
	h.forecastMu.Lock()
	defer h.forecastMu.Unlock()
	delete(h.forecastSessions, userID)
}

func (h *BotHandler) isAwaitingPassword(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.awaitingPassword[userID]
}

func (h *BotHandler) setAwaitingPassword(userID int64, awaiting bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.awaitingPassword[userID] = awaiting
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("❌ failed to send message: %v", err)
	}
}

func (h *BotHandler) sendDocument(chatID int64, path string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	if _, err := h.bot.Send(doc); err != nil {
		log.Printf("❌ failed to send document: %v", err)
	}
}

func (h *BotHandler) getWelcomeMessage() string {
	return `👋 Retail Insights Bot

I report on a retail sales & inventory dataset: revenue summaries,
reorder alerts, per-product demand forecasts, charts and Excel exports.

/summary — revenue summary and leaderboards
/alerts — products needing reorder
/forecast — moving-average demand forecast
/charts — report charts
/export — save reports to Excel
/help — everything else`
}

func (h *BotHandler) getHelpMessage() string {
	help := `Commands:

📊 /summary — total revenue, by category, top products & regions
📦 /alerts — stock at or below reorder level
🧹 /missing — missing value counts
🧹 /clean — cleanup actions (admin)
📈 /forecast — per-product monthly forecast
📉 /charts — render and send report charts
💾 /export — export cleaned data / alerts / forecast to .xlsx
🗂 /history — your recent reports
🗑 /clearhistory — wipe your report history
📦 /dataset — loaded dataset info
🗑 /clear — wipe the dataset (admin)
📋 /actions — operator audit trail (admin)
🔐 /admin — operator login (dataset upload, cleaning)
👋 /logout — end operator session
✋ /cancel — abort the current dialog`

	if h.insightsUC.Enabled() {
		help += "\n\nOr just ask a question about the data in plain text."
	}
	return help
}
