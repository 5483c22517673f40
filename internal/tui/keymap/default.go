package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the built-in key bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[Mode]*ModeBindings{
			ModeGlobal: defaultGlobalBindings(),
			ModeInput:  defaultInputBindings(),
			ModeList:   defaultListBindings(),
			ModeNormal: defaultNormalBindings(),
		},
	}
}

func defaultGlobalBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeGlobal,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyTab, Command: CmdFocusNext, Description: "Next pane", Category: "Focus"},
			{KeyType: tea.KeyShiftTab, Command: CmdFocusPrev, Description: "Previous pane", Category: "Focus"},
			{KeyType: tea.KeyCtrlB, Command: CmdToggleBlank, Description: "Toggle blank lines", Category: "Filters"},
			{KeyType: tea.KeyCtrlS, Command: CmdSaveFilters, Description: "Save filter set", Category: "Filters"},
			{KeyType: tea.KeyCtrlO, Command: CmdLoadFilters, Description: "Load filter set", Category: "Filters"},
			{KeyType: tea.KeyCtrlC, Command: CmdForceQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultInputBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeInput,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdAddFilter, Description: "Add filter", Category: "Filters"},
			{KeyType: tea.KeyEsc, Command: CmdClearInput, Description: "Clear input and target", Category: "Filters"},
		},
	}
}

func defaultListBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeList,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdCursorUp, Description: "Previous filter", Category: "Navigation"},
			{KeyType: tea.KeyUp, Command: CmdCursorUp, Description: "Previous filter", Category: "Navigation"},
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdCursorDown, Description: "Next filter", Category: "Navigation"},
			{KeyType: tea.KeyDown, Command: CmdCursorDown, Description: "Next filter", Category: "Navigation"},
			{KeyType: tea.KeyRunes, Rune: 'g', Command: CmdCursorTop, Description: "First filter", Category: "Navigation"},
			{KeyType: tea.KeyHome, Command: CmdCursorTop, Description: "First filter", Category: "Navigation"},
			{KeyType: tea.KeyRunes, Rune: 'G', Command: CmdCursorBottom, Description: "Last filter", Category: "Navigation"},
			{KeyType: tea.KeyEnd, Command: CmdCursorBottom, Description: "Last filter", Category: "Navigation"},

			{KeyType: tea.KeySpace, Command: CmdTogglePolarity, Description: "Toggle include/exclude", Category: "Filters"},
			{KeyType: tea.KeyRunes, Rune: 'd', Command: CmdDeleteFilter, Description: "Delete filter", Category: "Filters"},
			{KeyType: tea.KeyDelete, Command: CmdDeleteFilter, Description: "Delete filter", Category: "Filters"},
			{KeyType: tea.KeyBackspace, Command: CmdDeleteFilter, Description: "Delete filter", Category: "Filters"},
			{KeyType: tea.KeyEnter, Command: CmdSelectTarget, Description: "AND next filter with this group", Category: "Filters"},
			{KeyType: tea.KeyRunes, Rune: 'a', Command: CmdSelectTarget, Description: "AND next filter with this group", Category: "Filters"},
			{KeyType: tea.KeyEsc, Command: CmdBackToInput, Description: "Back to input", Category: "Focus"},

			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultNormalBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeNormal,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdScrollDown, Description: "Scroll down", Category: "Scrolling"},
			{KeyType: tea.KeyDown, Command: CmdScrollDown, Description: "Scroll down", Category: "Scrolling"},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdScrollUp, Description: "Scroll up", Category: "Scrolling"},
			{KeyType: tea.KeyUp, Command: CmdScrollUp, Description: "Scroll up", Category: "Scrolling"},
			{KeyType: tea.KeyCtrlU, Command: CmdScrollHalfPageUp, Description: "Scroll half page up", Category: "Scrolling"},
			{KeyType: tea.KeyCtrlD, Command: CmdScrollHalfPageDn, Description: "Scroll half page down", Category: "Scrolling"},
			{KeyType: tea.KeyPgUp, Command: CmdScrollPageUp, Description: "Scroll page up", Category: "Scrolling"},
			{KeyType: tea.KeyCtrlF, Command: CmdScrollPageDown, Description: "Scroll page down", Category: "Scrolling"},
			{KeyType: tea.KeyPgDown, Command: CmdScrollPageDown, Description: "Scroll page down", Category: "Scrolling"},
			{KeyType: tea.KeyRunes, Rune: 'g', Command: CmdScrollToTop, Description: "Go to top", Category: "Scrolling"},
			{KeyType: tea.KeyRunes, Rune: 'G', Command: CmdScrollToBottom, Description: "Go to bottom", Category: "Scrolling"},

			{KeyType: tea.KeyRunes, Rune: 'r', Command: CmdReload, Description: "Reload file", Category: "File"},
			{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "Toggle help", Category: "Application"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}
