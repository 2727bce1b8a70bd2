package engine

import (
	"errors"
	"fmt"
)

// ChatState is the conversation half of a Flow.
type ChatState string

const (
	ChatIdle             ChatState = "IDLE"
	ChatAwaitingResponse ChatState = "AWAITING_RESPONSE"
)

// ModalState is the outcome-screen half of a Flow.
type ModalState string

const (
	ModalClosed ModalState = "CLOSED"
	ModalOpen   ModalState = "OPEN"
)

// Event drives a Flow.
type Event string

const (
	EventMessageSent      Event = "MESSAGE_SENT"
	EventResponseResolved Event = "RESPONSE_RESOLVED"
	EventActionRaised     Event = "ACTION_RAISED"
	EventModalDismissed   Event = "MODAL_DISMISSED"
)

var ErrInvalidTransition = errors.New("invalid flow transition")

var chatTransitions = map[ChatState]map[Event]ChatState{
	ChatIdle:             {EventMessageSent: ChatAwaitingResponse},
	ChatAwaitingResponse: {EventResponseResolved: ChatIdle},
}

var modalTransitions = map[ModalState]map[Event]ModalState{
	ModalClosed: {EventActionRaised: ModalOpen},
	ModalOpen:   {EventModalDismissed: ModalClosed},
}

// Flow tracks one conversation view: whether a reply is pending and whether
// an outcome modal is open. The two regions move independently.
// A Flow is not safe for concurrent use; the owning session guards it.
type Flow struct {
	chat   ChatState
	modal  ModalState
	action Action
}

// NewFlow returns a flow in its initial Idle/Closed state.
func NewFlow() *Flow {
	return &Flow{chat: ChatIdle, modal: ModalClosed}
}

// Fire applies an event. ActionRaised needs the action being raised; other
// events ignore it. On error the flow is unchanged.
func (f *Flow) Fire(event Event, action Action) error {
	if next, ok := chatTransitions[f.chat][event]; ok {
		f.chat = next
		return nil
	}

	next, ok := modalTransitions[f.modal][event]
	if !ok {
		return fmt.Errorf("%w: %s in %s/%s", ErrInvalidTransition, event, f.chat, f.modal)
	}
	if event == EventActionRaised {
		if action == ActionNone {
			return fmt.Errorf("%w: %s without action", ErrInvalidTransition, event)
		}
		f.action = action
	} else {
		f.action = ActionNone
	}
	f.modal = next
	return nil
}

// Chat returns the conversation state.
func (f *Flow) Chat() ChatState { return f.chat }

// Modal returns the modal state.
func (f *Flow) Modal() ModalState { return f.modal }

// OpenAction is the action behind the open modal, ActionNone when closed.
func (f *Flow) OpenAction() Action { return f.action }
