package domain

// ChatMessage is one entry of the first aid transcript. It is rendered once and never mutated.
type ChatMessage struct {
	Text       string
	IsFromUser bool
}

func UserMessage(text string) ChatMessage {
	return ChatMessage{Text: text, IsFromUser: true}
}

func BotMessage(text string) ChatMessage {
	return ChatMessage{Text: text}
}
