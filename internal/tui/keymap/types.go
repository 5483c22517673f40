// Package keymap provides key binding definitions and lookup for the TUI.
// Bindings are declared per focus mode so the model's Update can map a key
// to a named command without a tangle of nested switches.
package keymap

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents which pane has keyboard focus.
// Different modes have different key bindings active.
type Mode string

const (
	ModeInput  Mode = "input"  // Typing a filter pattern
	ModeList   Mode = "list"   // Navigating the filter list
	ModeNormal Mode = "normal" // Scrolling the results
	ModeGlobal Mode = "global" // Bindings active in every mode
)

// FocusOrder is the order Tab cycles through.
var FocusOrder = []Mode{ModeInput, ModeList, ModeNormal}

// Next returns the mode that follows m in FocusOrder.
func (m Mode) Next() Mode {
	return m.step(1)
}

// Prev returns the mode that precedes m in FocusOrder.
func (m Mode) Prev() Mode {
	return m.step(len(FocusOrder) - 1)
}

func (m Mode) step(delta int) Mode {
	for i, mode := range FocusOrder {
		if mode == m {
			return FocusOrder[(i+delta)%len(FocusOrder)]
		}
	}
	return ModeInput
}

// Command represents a named action that can be triggered by a key binding.
type Command string

// Global commands
const (
	CmdFocusNext   Command = "focus_next"
	CmdFocusPrev   Command = "focus_prev"
	CmdToggleBlank Command = "toggle_blank_lines"
	CmdSaveFilters Command = "save_filters"
	CmdLoadFilters Command = "load_filters"
	CmdForceQuit   Command = "force_quit"
)

// Input mode commands
const (
	CmdAddFilter  Command = "add_filter"
	CmdClearInput Command = "clear_input"
)

// List mode commands
const (
	CmdCursorUp       Command = "cursor_up"
	CmdCursorDown     Command = "cursor_down"
	CmdCursorTop      Command = "cursor_top"
	CmdCursorBottom   Command = "cursor_bottom"
	CmdTogglePolarity Command = "toggle_polarity"
	CmdDeleteFilter   Command = "delete_filter"
	CmdSelectTarget   Command = "select_target"
	CmdBackToInput    Command = "back_to_input"
)

// Normal mode commands
const (
	CmdScrollDown       Command = "scroll_down"
	CmdScrollUp         Command = "scroll_up"
	CmdScrollHalfPageUp Command = "scroll_half_page_up"
	CmdScrollHalfPageDn Command = "scroll_half_page_down"
	CmdScrollPageUp     Command = "scroll_page_up"
	CmdScrollPageDown   Command = "scroll_page_down"
	CmdScrollToTop      Command = "scroll_to_top"
	CmdScrollToBottom   Command = "scroll_to_bottom"
	CmdReload           Command = "reload"
	CmdToggleHelp       Command = "toggle_help"
	CmdQuit             Command = "quit"
)

// Modifier represents keyboard modifiers. Ctrl combinations are expressed
// through tea.KeyCtrl* key types, so only Alt is matched here.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModAlt  Modifier = 1 << iota
)

// String returns a human-readable representation of modifiers.
func (m Modifier) String() string {
	if m&ModAlt != 0 {
		return "alt+"
	}
	return ""
}

// KeyBinding represents a single key binding configuration.
type KeyBinding struct {
	// KeyType is the key for this binding. For rune keys use tea.KeyRunes
	// and set Rune.
	KeyType tea.KeyType

	// Rune is the character for rune-based keys (when KeyType is tea.KeyRunes).
	Rune rune

	Modifiers   Modifier
	Command     Command
	Description string

	// Category groups related bindings together in help display.
	Category string
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	wantAlt := kb.Modifiers&ModAlt != 0
	if msg.Alt != wantAlt {
		return false
	}

	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}
	return msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	prefix := kb.Modifiers.String()

	if kb.KeyType != tea.KeyRunes {
		return prefix + kb.KeyType.String()
	}
	return prefix + string(kb.Rune)
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	Name  string
	Modes map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode only.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// Lookup resolves a key in mode, falling back to the global bindings.
func (km *Keymap) Lookup(msg tea.KeyMsg, mode Mode) (Command, bool) {
	if cmd, ok := km.GetBinding(msg, mode); ok {
		return cmd, true
	}
	return km.GetBinding(msg, ModeGlobal)
}

// GetModeBindings returns all bindings for a specific mode.
func (km *Keymap) GetModeBindings(mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}
	return mb.Bindings
}

// GetBindingsForCommand returns all bindings that trigger a specific command.
func (km *Keymap) GetBindingsForCommand(cmd Command, mode Mode) []KeyBinding {
	var result []KeyBinding
	for _, binding := range km.GetModeBindings(mode) {
		if binding.Command == cmd {
			result = append(result, binding)
		}
	}
	return result
}

// GetCategories returns all unique categories in a mode's bindings, in
// declaration order.
func (km *Keymap) GetCategories(mode Mode) []string {
	seen := make(map[string]bool)
	var categories []string

	for _, binding := range km.GetModeBindings(mode) {
		if binding.Category != "" && !seen[binding.Category] {
			seen[binding.Category] = true
			categories = append(categories, binding.Category)
		}
	}
	return categories
}
