package telegram

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
)

const (
	helpText = `🐾 VetAid helps injured animals.

/firstaid - open the first aid chat
Send a photo of the animal, then describe the injury (or use /send <text>).

/shelters - find veterinary clinics near you
Share your location first with the 📍 attachment button.

/volunteers - show or hide the volunteer list
/refresh_volunteers - reload the volunteer list`

	defaultContactName = "Volunteer"
)

type FirstAidService interface {
	ShowChatPanel(ctx context.Context, chatID int64)
	PickImage(ctx context.Context, chatID int64, data []byte)
	Send(ctx context.Context, chatID int64, injury string)
}

type ShelterService interface {
	SetLocation(ctx context.Context, chatID int64, loc domain.Location)
	FindNearby(ctx context.Context, chatID int64)
}

type VolunteerService interface {
	Toggle(ctx context.Context, chatID int64)
	Fetch(ctx context.Context, chatID int64)
}

type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string)
	SendContact(ctx context.Context, chatID int64, phone, name string) error
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

type handler struct {
	firstAidService  FirstAidService
	shelterService   ShelterService
	volunteerService VolunteerService
	messenger        Messenger
}

func NewHandler(
	firstAidService FirstAidService,
	shelterService ShelterService,
	volunteerService VolunteerService,
	messenger Messenger,
) *handler {
	return &handler{
		firstAidService:  firstAidService,
		shelterService:   shelterService,
		volunteerService: volunteerService,
		messenger:        messenger,
	}
}

func (h *handler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)

	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	}
}

func (h *handler) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		slog.WarnContext(ctx, "Callback without message", "data", callback.Data)
		return
	}
	chatID := callback.Message.Chat.ID
	ctx = logger.ContextWithChatID(ctx, chatID)

	switch {
	case strings.HasPrefix(callback.Data, DialCallbackPrefix):
		phone, err := parseDialCallback(callback.Data)
		if err != nil {
			slog.WarnContext(ctx, "Invalid dial callback", logger.Err(err))
			return
		}
		if err := h.messenger.SendContact(ctx, chatID, phone, contactName(callback.Message.Text)); err != nil {
			slog.ErrorContext(ctx, "Failed to send contact", logger.Err(err))
		}
	default:
		slog.WarnContext(ctx, "Unhandled callback", "data", callback.Data)
	}
}

func (h *handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	ctx = logger.ContextWithChatID(ctx, chatID)

	switch {
	case msg.Location != nil:
		h.shelterService.SetLocation(ctx, chatID, domain.Location{
			Latitude:  msg.Location.Latitude,
			Longitude: msg.Location.Longitude,
		})

	case len(msg.Photo) > 0:
		h.pickImage(ctx, chatID, msg.Photo[len(msg.Photo)-1].FileID)
		if caption := strings.TrimSpace(msg.Caption); caption != "" {
			h.firstAidService.Send(ctx, chatID, caption)
		}

	case msg.Document != nil:
		if !strings.HasPrefix(msg.Document.MimeType, "image/") {
			slog.InfoContext(ctx, "Ignoring non-image document", "mimeType", msg.Document.MimeType)
			h.firstAidService.PickImage(ctx, chatID, nil)
			return
		}
		h.pickImage(ctx, chatID, msg.Document.FileID)
		if caption := strings.TrimSpace(msg.Caption); caption != "" {
			h.firstAidService.Send(ctx, chatID, caption)
		}

	case msg.IsCommand():
		h.handleCommand(ctx, chatID, msg.Command(), msg.CommandArguments())

	case msg.Text != "":
		h.firstAidService.Send(ctx, chatID, msg.Text)
	}
}

func (h *handler) handleCommand(ctx context.Context, chatID int64, cmd, args string) {
	switch strings.ToLower(cmd) {
	case "start", "help":
		h.messenger.SendText(ctx, chatID, helpText)

	case "firstaid":
		h.firstAidService.ShowChatPanel(ctx, chatID)

	case "send":
		h.firstAidService.Send(ctx, chatID, args)

	case "shelters":
		h.shelterService.FindNearby(ctx, chatID)

	case "volunteers":
		h.volunteerService.Toggle(ctx, chatID)

	case "refresh_volunteers":
		h.volunteerService.Fetch(ctx, chatID)

	default:
		slog.WarnContext(ctx, "Unhandled command", "cmd", cmd)
		h.messenger.SendText(ctx, chatID, helpText)
	}
}

// pickImage downloads an upload. A failed download counts as a cancelled pick.
func (h *handler) pickImage(ctx context.Context, chatID int64, fileID string) {
	data, err := h.messenger.DownloadFile(ctx, fileID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to download image", logger.Err(err))
	}
	h.firstAidService.PickImage(ctx, chatID, data)
}

// contactName takes the volunteer name from the first line of the item message.
func contactName(itemText string) string {
	name, _, _ := strings.Cut(itemText, "\n")
	if name = strings.TrimSpace(name); name == "" {
		return defaultContactName
	}
	return name
}
