package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

const maxChatPromptLen = 8000

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Cross-origin policy is enforced by the CORS layer and the token
	// check; the upgrade itself accepts any origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

type chatMessage struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

type chatReply struct {
	Text      string `json:"text"`
	RequestID string `json:"request_id,omitempty"`
	Model     string `json:"model"`
	Error     string `json:"error,omitempty"`
}

// HandleChat relays free-form prompts to the configured model over a
// websocket, one reply per message. Each prompt is a single upstream
// attempt, same as the analysis pipeline.
func (h *AIHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := chatUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var msg chatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("chat read: %v", err)
			}
			return
		}
		prompt := strings.TrimSpace(msg.Prompt)
		if prompt == "" || len(prompt) > maxChatPromptLen {
			if err := conn.WriteJSON(chatReply{Error: "prompt must be 1-8000 characters"}); err != nil {
				return
			}
			continue
		}
		model := strings.TrimSpace(msg.Model)
		if model == "" {
			model = h.chatModel
		}

		inv, err := h.chat.Invoke(r.Context(), prompt, model)
		if err != nil {
			log.Printf("chat invoke: %v", err)
			if err := conn.WriteJSON(chatReply{Model: model, Error: "model temporarily unavailable"}); err != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(chatReply{Text: inv.Text, RequestID: inv.RequestID, Model: inv.ModelUsed}); err != nil {
			return
		}
	}
}
