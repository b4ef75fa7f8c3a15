package core

// DeviceID distinguishes pointer devices when a platform reports more than
// one.
type DeviceID uint64

// MouseButton identifies which button a pointer event refers to.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonBack
	MouseButtonForward
)

// KeyState reports whether a key went down or up.
type KeyState int

const (
	KeyPressed KeyState = iota
	KeyReleased
)

// Named logical keys the dispatcher itself reacts to. Everything else is
// passed through to widgets untouched.
const (
	KeyTab    = "Tab"
	KeyEscape = "Escape"
	KeyEnter  = "Enter"
	KeySpace  = " "
)

// KeyEvent is one keyboard transition delivered to the focused widget.
type KeyEvent struct {
	// Key is the logical key name.
	Key string
	// Text is the text produced by the keypress, if any.
	Text string
	// State is whether the key was pressed or released.
	State KeyState
	// Repeat marks events synthesized by key auto-repeat.
	Repeat bool
	// Modifiers holds the modifier keys held during the event.
	Modifiers Modifiers
}

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// Held reports whether all of the given modifiers are held.
func (m Modifiers) Held(mods Modifiers) bool {
	return m&mods == mods
}
