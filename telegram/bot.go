package telegram

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smitenet/smite-panel/database/model"
	"github.com/smitenet/smite-panel/logger"
	"github.com/smitenet/smite-panel/service"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AppServices defines the interface the bot needs to interact with the main app
type AppServices interface {
	RestartApp()
	GetTunnels() ([]model.Tunnel, error)
	GetTunnelByName(name string) (*model.Tunnel, error)
	StartTunnel(tunnel *model.Tunnel) error
	StopTunnel(tunnel *model.Tunnel) error
	GetStatus() *service.SystemStatus
	GetLogs(count int, level string) []string
	ExportTunnels() ([]byte, error)
}

var (
	adminIDs   = make(map[int64]bool)
	services   AppServices
	currentBot *bot.Bot
)

// Start initializes and starts the Telegram bot
func Start(ctx context.Context, config *Config, appServices AppServices) {
	if !config.Enabled || config.BotToken == "" {
		logger.Info("telegram bot is disabled or token is not configured")
		return
	}

	services = appServices

	for _, id := range config.AdminUserIDs {
		adminIDs[id] = true
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(handler),
	}

	b, err := bot.New(config.BotToken, opts...)
	if err != nil {
		logger.Error("create telegram bot failed:", err)
		return
	}
	currentBot = b

	logger.Info("telegram bot started")
	b.Start(ctx)
}

func Stop() {
	if currentBot != nil {
		currentBot.Close(context.Background())
		currentBot = nil
	}
}

func handler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	userID := update.Message.From.ID
	if !isAdmin(userID) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "You are not authorized to use this bot.",
		})
		return
	}

	if strings.HasPrefix(update.Message.Text, "/") {
		handleCommand(ctx, b, update.Message)
	}
}

func isAdmin(userID int64) bool {
	_, ok := adminIDs[userID]
	return ok
}

func handleCommand(ctx context.Context, b *bot.Bot, message *models.Message) {
	command, args := parseCommand(message.Text)

	switch command {
	case "/start":
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: message.Chat.ID,
			Text:   "Welcome to Smite Panel Admin Bot. Send /help to see available commands.",
		})
	case "/help":
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: message.Chat.ID,
			Text: "Available commands:\n" +
				"/tunnels\n" +
				"/start_tunnel <name>\n" +
				"/stop_tunnel <name>\n" +
				"/status\n" +
				"/logs [count] [level]\n" +
				"/backup\n" +
				"/restart",
		})
	case "/tunnels":
		handleListTunnels(ctx, b, message)
	case "/start_tunnel":
		handleStartTunnel(ctx, b, message, args)
	case "/stop_tunnel":
		handleStopTunnel(ctx, b, message, args)
	case "/status":
		handleStatus(ctx, b, message)
	case "/logs":
		handleLogs(ctx, b, message, args)
	case "/backup":
		handleBackup(ctx, b, message)
	case "/restart":
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: "Restarting panel..."})
		services.RestartApp()
	default:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: message.Chat.ID,
			Text:   "Unknown command. Send /help to see available commands.",
		})
	}
}

func handleListTunnels(ctx context.Context, b *bot.Bot, message *models.Message) {
	tunnels, err := services.GetTunnels()
	if err != nil {
		logger.Warning("bot: get tunnels failed:", err)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: "Error getting tunnels."})
		return
	}

	if len(tunnels) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: "No tunnels configured."})
		return
	}

	var response strings.Builder
	response.WriteString("Configured Tunnels:\n")
	for _, tunnel := range tunnels {
		response.WriteString(fmt.Sprintf("\n- Name: *%s*\n", tunnel.Name))
		response.WriteString(fmt.Sprintf("  Engine: %s (%s)\n", tunnel.Engine, tunnel.Transport))
		response.WriteString(fmt.Sprintf("  Status: %s\n", tunnel.Status))
		if tunnel.ErrorMessage != "" {
			response.WriteString(fmt.Sprintf("  Error: `%s`\n", tunnel.ErrorMessage))
		}
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    message.Chat.ID,
		Text:      response.String(),
		ParseMode: models.ParseModeMarkdown,
	})
}

func handleStartTunnel(ctx context.Context, b *bot.Bot, message *models.Message, args []string) {
	if len(args) != 1 {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: "Usage: /start_tunnel <name>"})
		return
	}
	name := args[0]
	tunnel, err := services.GetTunnelByName(name)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: fmt.Sprintf("Tunnel '%s' not found.", name)})
		return
	}
	if err := services.StartTunnel(tunnel); err != nil {
		logger.Warningf("bot: start tunnel %s failed: %v", name, err)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: fmt.Sprintf("Error starting tunnel '%s': %v", name, err)})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: fmt.Sprintf("Tunnel '%s' started.", name)})
}

func handleStopTunnel(ctx context.Context, b *bot.Bot, message *models.Message, args []string) {
	if len(args) != 1 {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: "Usage: /stop_tunnel <name>"})
		return
	}
	name := args[0]
	tunnel, err := services.GetTunnelByName(name)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: fmt.Sprintf("Tunnel '%s' not found.", name)})
		return
	}
	if err := services.StopTunnel(tunnel); err != nil {
		logger.Warningf("bot: stop tunnel %s failed: %v", name, err)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: fmt.Sprintf("Error stopping tunnel '%s': %v", name, err)})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: fmt.Sprintf("Tunnel '%s' stopped.", name)})
}

func handleStatus(ctx context.Context, b *bot.Bot, message *models.Message) {
	status := services.GetStatus()

	var response strings.Builder
	response.WriteString("System Status:\n")
	response.WriteString(fmt.Sprintf("CPU: %.1f%%\n", status.CPU))
	if status.MemTotal > 0 {
		response.WriteString(fmt.Sprintf("Memory: %d / %d MB\n", status.MemUsed/1024/1024, status.MemTotal/1024/1024))
	}
	response.WriteString(fmt.Sprintf("Uptime: %s\n", (time.Duration(status.Uptime) * time.Second).String()))
	response.WriteString(fmt.Sprintf("Tunnels: %d total, %d active, %d in error\n",
		status.Tunnels.Total, status.Tunnels.Active, status.Tunnels.Error))

	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: response.String()})
}

func handleLogs(ctx context.Context, b *bot.Bot, message *models.Message, args []string) {
	count := 10
	level := "info"
	if len(args) > 0 {
		fmt.Sscanf(args[0], "%d", &count)
	}
	if len(args) > 1 {
		level = args[1]
	}

	logs := services.GetLogs(count, level)
	if len(logs) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: "No logs found."})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: "Logs:\n" + strings.Join(logs, "\n")})
}

func handleBackup(ctx context.Context, b *bot.Bot, message *models.Message) {
	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: "Creating tunnel export..."})

	data, err := services.ExportTunnels()
	if err != nil {
		logger.Warning("bot: export tunnels failed:", err)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: message.Chat.ID, Text: "Error creating export."})
		return
	}

	fileName := fmt.Sprintf("smite-tunnels-%s.yaml", time.Now().Format("2006-01-02-15-04-05"))
	b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   message.Chat.ID,
		Document: &models.InputFileUpload{Filename: fileName, Data: bytes.NewReader(data)},
		Caption:  "Here is your tunnel export.",
	})
}

func parseCommand(text string) (string, []string) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}
