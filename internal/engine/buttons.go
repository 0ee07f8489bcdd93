package engine

import (
	"fmt"

	"github.com/tartampluch/contact-birthday/internal/config"
)

// Action is one of the two birthday greeting channels.
type Action int

const (
	ActionEmail Action = iota
	ActionCard
)

// Actions lists the supported actions in display order.
var Actions = []Action{ActionEmail, ActionCard}

// String returns the wire name of the action ("email" or "card").
func (a Action) String() string {
	switch a {
	case ActionEmail:
		return config.ActionNameEmail
	case ActionCard:
		return config.ActionNameCard
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction maps a wire name back to its Action.
func ParseAction(name string) (Action, error) {
	switch name {
	case config.ActionNameEmail:
		return ActionEmail, nil
	case config.ActionNameCard:
		return ActionCard, nil
	default:
		return 0, fmt.Errorf("%s: %q", config.ErrUnknownAction, name)
	}
}

// ToastKeys returns the header and message label keys notified when the action is sent.
func (a Action) ToastKeys() (header, message LabelKey) {
	switch a {
	case ActionCard:
		return LabelCardToastHeader, LabelCardToastMessage
	default:
		return LabelEmailToastHeader, LabelEmailToastMessage
	}
}

// ButtonState is the render state of one action button.
type ButtonState struct {
	Label    string `json:"label"`
	Title    string `json:"title"`
	IconName string `json:"iconName"`
	Disabled bool   `json:"disabled"`
}

// Sent reports whether the button reached its terminal state.
func (s ButtonState) Sent() bool {
	return s.Disabled
}

// ButtonStates holds the state of both buttons. It is a value type: every
// transition returns a new ButtonStates and leaves the receiver untouched.
type ButtonStates struct {
	Email ButtonState `json:"email"`
	Card  ButtonState `json:"card"`
}

// NewButtonStates builds the initial, enabled state of both buttons from bound labels.
// titleFor produces the hover title of an action; nil uses the built-in English titles.
func NewButtonStates(labels LabelSet, firstName string, titleFor func(Action, string) string) ButtonStates {
	if titleFor == nil {
		titleFor = DefaultButtonTitle
	}
	return ButtonStates{
		Email: ButtonState{
			Label:    labels.Get(LabelEmailButton),
			Title:    titleFor(ActionEmail, firstName),
			IconName: config.IconEmail,
		},
		Card: ButtonState{
			Label:    labels.Get(LabelCardButton),
			Title:    titleFor(ActionCard, firstName),
			IconName: config.IconSend,
		},
	}
}

// DefaultButtonTitle returns "Send <name> a Birthday email" or "... card".
func DefaultButtonTitle(a Action, firstName string) string {
	if a == ActionCard {
		return fmt.Sprintf(config.FallbackTitleCard, firstName)
	}
	return fmt.Sprintf(config.FallbackTitleEmail, firstName)
}

// Get returns the state of one action.
func (b ButtonStates) Get(a Action) ButtonState {
	if a == ActionCard {
		return b.Card
	}
	return b.Email
}

// with returns a copy of b where only action a is replaced.
func (b ButtonStates) with(a Action, s ButtonState) ButtonStates {
	switch a {
	case ActionCard:
		b.Card = s
	default:
		b.Email = s
	}
	return b
}

// Trigger moves action a from Active to Sent. It returns the new states and
// true on transition. An action that is already Sent is left as is and false
// is returned.
func (b ButtonStates) Trigger(a Action) (ButtonStates, bool) {
	s := b.Get(a)
	if s.Sent() {
		return b, false
	}
	s.Disabled = true
	s.IconName = config.IconConfirmed
	return b.with(a, s), true
}

// carrySent keeps the Sent status of prev on top of the freshly built b.
func (b ButtonStates) carrySent(prev ButtonStates) ButtonStates {
	for _, a := range Actions {
		if prev.Get(a).Sent() {
			b, _ = b.Trigger(a)
		}
	}
	return b
}
