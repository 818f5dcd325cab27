package object

// EventID identifies a kind of event an Object may emit. The built-in
// ids below are shared process-wide; components may define additional
// ids above EventUserBase for private signalling between packages
// (e.g. the desktop-shell's popup-grab-done notification).
type EventID uint32

const (
	// EventDestroy fires from Object.Fini before any state is torn
	// down. Every component attaches a destroy listener to borrowed
	// references (buffers, focus targets, parents) so it can null
	// them out cleanly.
	EventDestroy EventID = iota

	EventCompositorOutputAdd
	EventCompositorOutputRemove
	EventCompositorSeatAdd
	EventCompositorSeatRemove
	EventCompositorInputDeviceAdd
	EventCompositorInputDeviceRemove

	EventSurfaceCommit

	EventBufferRelease

	EventFocusEnter
	EventFocusLeave

	EventPointerMotion
	EventPointerButton
	EventPointerAxis

	EventKeyboardKey
	EventKeyboardModifiers

	EventTouchDown
	EventTouchUp
	EventTouchMotion
	EventTouchFrame

	EventSeatDeviceAdd
	EventSeatDeviceRemove
	EventSeatPointerAdd
	EventSeatPointerRemove
	EventSeatKeyboardAdd
	EventSeatKeyboardRemove
	EventSeatTouchAdd
	EventSeatTouchRemove

	EventViewStackChange

	EventOutputMove
	EventOutputModeChange

	// EventUserBase is the first id available to component-private
	// events (e.g. shell-show-window-menu).
	EventUserBase EventID = 1000
)

// EventAll matches every event of an object when used as the id
// argument to AddEventListener. Emitting EventAll is forbidden: Emit
// returns ErrEmitAll.
const EventAll EventID = ^EventID(0)
