package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
)

type recorder struct {
	calls       []string
	downloadErr error
}

func (r *recorder) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) ShowChatPanel(_ context.Context, chatID int64) { r.record("panel %d", chatID) }
func (r *recorder) PickImage(_ context.Context, _ int64, data []byte) {
	r.record("pick %q", data)
}
func (r *recorder) Send(_ context.Context, _ int64, injury string) { r.record("send %q", injury) }
func (r *recorder) SetLocation(_ context.Context, _ int64, loc domain.Location) {
	r.record("location %s", loc)
}
func (r *recorder) FindNearby(context.Context, int64) { r.record("shelters") }
func (r *recorder) Toggle(context.Context, int64)     { r.record("toggle") }
func (r *recorder) Fetch(context.Context, int64)      { r.record("fetch") }
func (r *recorder) SendText(_ context.Context, _ int64, text string) {
	r.record("text %s", strings.SplitN(text, "\n", 2)[0])
}
func (r *recorder) SendContact(_ context.Context, _ int64, phone, name string) error {
	r.record("contact %s %s", phone, name)
	return nil
}
func (r *recorder) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	if r.downloadErr != nil {
		return nil, r.downloadErr
	}
	return []byte("data-" + fileID), nil
}

func message(text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}, From: &tgbotapi.User{ID: 7}, Text: text}
	if strings.HasPrefix(text, "/") {
		cmd, _, _ := strings.Cut(text, " ")
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return msg
}

func TestHandleUpdate(t *testing.T) {
	tests := []struct {
		name   string
		update tgbotapi.Update
		want   []string
	}{
		{
			name:   "start",
			update: tgbotapi.Update{Message: message("/start")},
			want:   []string{"text 🐾 VetAid helps injured animals."},
		},
		{
			name:   "first aid panel",
			update: tgbotapi.Update{Message: message("/firstaid@vetaid_bot")},
			want:   []string{"panel 42"},
		},
		{
			name:   "send command",
			update: tgbotapi.Update{Message: message("/send broken leg")},
			want:   []string{`send "broken leg"`},
		},
		{
			name:   "plain text sends",
			update: tgbotapi.Update{Message: message("bleeding ear")},
			want:   []string{`send "bleeding ear"`},
		},
		{
			name:   "shelters",
			update: tgbotapi.Update{Message: message("/shelters")},
			want:   []string{"shelters"},
		},
		{
			name:   "volunteers",
			update: tgbotapi.Update{Message: message("/volunteers")},
			want:   []string{"toggle"},
		},
		{
			name:   "refresh volunteers",
			update: tgbotapi.Update{Message: message("/refresh_volunteers")},
			want:   []string{"fetch"},
		},
		{
			name:   "unknown command",
			update: tgbotapi.Update{Message: message("/draw")},
			want:   []string{"text 🐾 VetAid helps injured animals."},
		},
		{
			name: "location",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				Chat:     &tgbotapi.Chat{ID: 42},
				Location: &tgbotapi.Location{Latitude: 31.5, Longitude: 74.25},
			}},
			want: []string{"location 31.5,74.25"},
		},
		{
			name: "photo with caption",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				Chat:    &tgbotapi.Chat{ID: 42},
				Photo:   []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}},
				Caption: " limping ",
			}},
			want: []string{`pick "data-large"`, `send "limping"`},
		},
		{
			name: "image document",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				Chat:     &tgbotapi.Chat{ID: 42},
				Document: &tgbotapi.Document{FileID: "doc", MimeType: "image/jpeg"},
			}},
			want: []string{`pick "data-doc"`},
		},
		{
			name: "non image document",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				Chat:     &tgbotapi.Chat{ID: 42},
				Document: &tgbotapi.Document{FileID: "doc", MimeType: "application/pdf"},
			}},
			want: []string{`pick ""`},
		},
		{
			name: "dial callback",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				ID:      "cb",
				Data:    "dial:+923001234567",
				Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}, Text: "Ayesha\nContact: 0300 1234567"},
			}},
			want: []string{"contact +923001234567 Ayesha"},
		},
		{
			name: "unknown callback",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				Data:    "ttl_1h",
				Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			h := NewHandler(r, r, r, r)

			h.HandleUpdate(context.Background(), &tt.update)

			assert.Equal(t, tt.want, r.calls)
		})
	}
}

func TestHandlePhotoDownloadFailure(t *testing.T) {
	r := &recorder{downloadErr: errors.New("timeout")}
	h := NewHandler(r, r, r, r)

	h.HandleUpdate(context.Background(), &tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 42},
		Photo: []tgbotapi.PhotoSize{{FileID: "p"}},
	}})

	assert.Equal(t, []string{`pick ""`}, r.calls)
}

func TestContactName(t *testing.T) {
	assert.Equal(t, "Bilal", contactName("Bilal\nContact: 1\nStatus: 🔴 Busy"))
	assert.Equal(t, defaultContactName, contactName(""))
}
