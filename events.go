// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import "unsafe"

// EventGroups is the bitset of event categories a handler subscribes to.
type EventGroups uint32

const (
	HandleInitialization EventGroups = 0x0000
	HandleMouse          EventGroups = 0x0001
	HandleKey            EventGroups = 0x0002
	HandleFocus          EventGroups = 0x0004
	HandleScroll         EventGroups = 0x0008
	HandleTimer          EventGroups = 0x0010
	HandleSize           EventGroups = 0x0020
	HandleDraw           EventGroups = 0x0040
	HandleDataArrived    EventGroups = 0x0080
	HandleBehaviorEvent  EventGroups = 0x0100
	HandleMethodCall     EventGroups = 0x0200
	HandleScriptingCall  EventGroups = 0x0400
	HandleTiscriptCall   EventGroups = 0x0800
	HandleExchange       EventGroups = 0x1000
	HandleGesture        EventGroups = 0x2000
	HandleSom            EventGroups = 0x4000
	HandleAll            EventGroups = 0xFFFF

	// subscriptionsRequest is the pseudo-group the engine dispatches once,
	// right after attachment, to ask for the handler's subscription mask.
	subscriptionsRequest uint32 = 0xFFFFFFFF
)

// DefaultEvents is the subscription the engine applies on its own when a
// handler reports none: behavior events plus scripting method calls.
func DefaultEvents() EventGroups {
	return HandleBehaviorEvent | HandleScriptingCall
}

// Initialization event codes carried by HANDLE_INITIALIZATION payloads.
const (
	behaviorDetach uint32 = 0
	behaviorAttach uint32 = 1
)

// BehaviorEvent identifies a UI state change routed through BEHAVIOR_EVENT.
type BehaviorEvent uint32

const (
	ButtonClick            BehaviorEvent = 0
	ButtonPress            BehaviorEvent = 1
	ButtonStateChanged     BehaviorEvent = 2
	EditValueChanging      BehaviorEvent = 3
	EditValueChanged       BehaviorEvent = 4
	SelectSelectionChanged BehaviorEvent = 5
	SelectStateChanged     BehaviorEvent = 6

	HyperlinkClick BehaviorEvent = 0x80

	DocumentComplete     BehaviorEvent = 0x98
	DocumentCreated      BehaviorEvent = 0xC0
	DocumentCloseRequest BehaviorEvent = 0xC1
	DocumentClose        BehaviorEvent = 0xC2
	DocumentReady        BehaviorEvent = 0xC3

	VideoInitialized BehaviorEvent = 0xD1
	VideoStarted     BehaviorEvent = 0xD2
	VideoStopped     BehaviorEvent = 0xD3
	VideoBindRequest BehaviorEvent = 0xD4

	// FirstApplicationEvent is the base for application-defined event codes
	// fired via Element.FireEvent.
	FirstApplicationEvent BehaviorEvent = 0x100
)

// Phase tells where in event propagation the handler is being called.
type Phase uint32

const (
	Bubbling Phase = 0
	Sinking  Phase = 0x08000000
	// Handled marks bubbling delivery to the handler that consumed the event.
	Handled Phase = 0x10000000
)

// Event code and phase share one 32-bit command word.
const (
	eventCodeMask  uint32 = 0x00000FFF
	eventPhaseMask uint32 = 0xFFFFF000
)

// ClickReason tells what provoked a button or hyperlink event.
type ClickReason uint32

const (
	ByMouseClick  ClickReason = 0
	ByKeyClick    ClickReason = 1
	Synthesized   ClickReason = 2
	ByMouseOnIcon ClickReason = 3
)

// EditChangedReason tells what provoked an edit value change.
type EditChangedReason uint32

const (
	ByInsChar  EditChangedReason = 0
	ByInsChars EditChangedReason = 1
	ByDelChar  EditChangedReason = 2
	ByDelChars EditChangedReason = 3
	ByUndoRedo EditChangedReason = 4
)

// EventReason is the per-event-kind detail attached to a behavior event.
// It is one of GeneralEvent, EditChangedEvent or VideoBindEvent, chosen by
// the event code.
type EventReason interface {
	isEventReason()
}

// GeneralEvent carries the click reason of button, hyperlink and similar
// events.
type GeneralEvent struct {
	Reason ClickReason
}

// EditChangedEvent carries the change reason of EDIT_VALUE_CHANGING and
// EDIT_VALUE_CHANGED.
type EditChangedEvent struct {
	Reason EditChangedReason
}

// VideoBindEvent carries the video site pointer of VIDEO_BIND_RQ. Target is
// only meaningful during the second (BUBBLING) delivery; bind a video
// destination by adopting it as an Asset.
type VideoBindEvent struct {
	Target unsafe.Pointer
}

func (GeneralEvent) isEventReason()     {}
func (EditChangedEvent) isEventReason() {}
func (VideoBindEvent) isEventReason()   {}

// EventHandler receives engine events for a window, an element, or a behavior
// instance. Embed BaseHandler to get no-op defaults and implement only the
// methods of interest.
//
// All methods run on the engine thread.
type EventHandler interface {
	// Subscription returns the event groups to receive. Returning false
	// leaves the request unanswered and the engine applies its own
	// default (DefaultEvents plus initialization, which is always
	// delivered).
	Subscription() (EventGroups, bool)

	// Attached is called once when the handler is bound to root.
	Attached(root HELEMENT)
	// Detached is called once when the handler is unbound. After it returns
	// the handler receives no further events.
	Detached(root HELEMENT)

	// DocumentComplete is called when the document of target has finished
	// loading, before OnEvent sees the same notification.
	DocumentComplete(root, target HELEMENT)
	// DocumentClose is called when the document of target is being closed,
	// before OnEvent sees the same notification.
	DocumentClose(root, target HELEMENT)

	// OnScriptCall handles a script-side call of a native method. Returning
	// false reports the method as unsupported; the returned value is handed
	// back to script otherwise. Arguments are owned by the handler.
	OnScriptCall(root HELEMENT, name string, args []Value) (Value, bool)

	// OnEvent handles a behavior event. Returning true consumes the event
	// and stops propagation.
	OnEvent(root, source, target HELEMENT, code BehaviorEvent, phase Phase, reason EventReason) bool

	// OnTimer handles a timer tick started via Element.StartTimer.
	// Returning true keeps the timer running.
	OnTimer(root HELEMENT, timerID uint64) bool
}

// BaseHandler is a no-op EventHandler for embedding.
type BaseHandler struct{}

func (BaseHandler) Subscription() (EventGroups, bool) { return 0, false }
func (BaseHandler) Attached(HELEMENT)                 {}
func (BaseHandler) Detached(HELEMENT)                 {}
func (BaseHandler) DocumentComplete(HELEMENT, HELEMENT) {}
func (BaseHandler) DocumentClose(HELEMENT, HELEMENT)    {}
func (BaseHandler) OnScriptCall(HELEMENT, string, []Value) (Value, bool) {
	return Value{}, false
}
func (BaseHandler) OnEvent(HELEMENT, HELEMENT, HELEMENT, BehaviorEvent, Phase, EventReason) bool {
	return false
}
func (BaseHandler) OnTimer(HELEMENT, uint64) bool { return false }
