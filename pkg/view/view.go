// Package view renders record lists into whatever item views a host UI can create and destroy.
package view

import "context"

// Kind selects the item template on the host side.
type Kind string

const (
	KindUserMessage Kind = "user_message"
	KindBotMessage  Kind = "bot_message"
	KindPlace       Kind = "place"
	KindVolunteer   Kind = "volunteer"
)

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionOpenURL
	ActionDial
)

// Action is what happens when the user interacts with an item.
type Action struct {
	Kind   ActionKind
	Label  string
	Target string
}

func OpenURL(label, url string) Action {
	return Action{Kind: ActionOpenURL, Label: label, Target: url}
}

// Dial returns no action for an empty number.
func Dial(label, phone string) Action {
	if phone == "" {
		return Action{}
	}
	return Action{Kind: ActionDial, Label: label, Target: phone}
}

// View is one item to render. Text is already in host markup.
type View struct {
	Kind   Kind
	Text   string
	Action Action
}

// Handle identifies a created item view.
type Handle int64

// Factory creates and destroys item views inside one container.
type Factory interface {
	Create(ctx context.Context, v View) (Handle, error)
	Destroy(ctx context.Context, h Handle) error
}

type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

// Layouter is implemented by factories whose container needs explicit layout passes.
type Layouter interface {
	Relayout(ctx context.Context)
	ScrollTo(ctx context.Context, edge Edge)
}
