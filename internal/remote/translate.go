package remote

// Action is a host page action triggered by a key.
type Action string

const (
	ActionNone             Action = ""
	ActionSelect           Action = "select"
	ActionLoadProfile      Action = "loadProfile"
	ActionToggleHelp       Action = "toggleHelp"
	ActionCloseHelp        Action = "closeHelp"
	ActionEditProfile      Action = "editProfile"
	ActionCreateProfile    Action = "createProfile"
	ActionRemoveProfile    Action = "removeProfile"
	ActionSave             Action = "save"
	ActionBack             Action = "back"
	ActionToggleFullscreen Action = "toggleFullscreen"
)

// ScreenKind identifies the host screen receiving keys.
type ScreenKind string

const (
	ScreenProfiles ScreenKind = "profiles"
	ScreenConfig   ScreenKind = "config"
	ScreenPortal   ScreenKind = "portal"
)

// gridColumns is the width of the profile grid.
const gridColumns = 5

// Grid is the profile grid state of the profiles screen.
type Grid struct {
	Total     int  `json:"total,omitempty"`
	Selected  int  `json:"selected,omitempty"`
	ModalOpen bool `json:"modalOpen,omitempty"`
	HelpOpen  bool `json:"helpOpen,omitempty"`
}

// Screen is the translation context.
type Screen struct {
	Kind ScreenKind `json:"kind"`
	Grid Grid       `json:"grid,omitempty"`
}

// ProfilesScreen returns a profiles screen context.
func ProfilesScreen(g Grid) Screen { return Screen{Kind: ScreenProfiles, Grid: g} }

// ConfigScreen returns a profile configuration screen context.
func ConfigScreen() Screen { return Screen{Kind: ScreenConfig} }

// PortalScreen returns a portal screen context.
func PortalScreen() Screen { return Screen{Kind: ScreenPortal} }

// Decision tells the host what to do with a key-down.
type Decision struct {
	// PreventDefault suppresses the browser's default action.
	PreventDefault bool `json:"preventDefault"`
	// Consumed stops further propagation.
	Consumed bool   `json:"consumed"`
	Action   Action `json:"action,omitempty"`
	// Selected is the new grid selection for ActionSelect.
	Selected int           `json:"selected"`
	Forward  *ForwardedKey `json:"forward,omitempty"`
}

func consume(action Action) Decision {
	return Decision{PreventDefault: true, Consumed: true, Action: action}
}

// isSuppressedFunctionKey reports F1 to F4, whose browser defaults are
// always suppressed.
func isSuppressedFunctionKey(key string) bool {
	switch key {
	case "F1", "F2", "F3", "F4":
		return true
	}
	return false
}

// Translate decides how the host handles ev on screen. Each key-down,
// including auto-repeats, yields at most one forwarded key.
func Translate(screen Screen, ev KeyEvent) Decision {
	var d Decision
	switch screen.Kind {
	case ScreenProfiles:
		d = translateProfiles(screen.Grid, ev)
	case ScreenConfig:
		d = translateConfig(ev)
	case ScreenPortal:
		d = translatePortal(ev)
	}
	if isSuppressedFunctionKey(ev.Key) {
		d.PreventDefault = true
		d.Consumed = true
	}
	return d
}

func translateProfiles(g Grid, ev KeyEvent) Decision {
	if g.ModalOpen || g.Total <= 0 {
		return Decision{}
	}
	sel := min(max(g.Selected, 0), g.Total-1)

	move := func(i int) Decision {
		d := consume(ActionSelect)
		d.Selected = i
		return d
	}

	switch ev.Key {
	case "ArrowRight":
		return move((sel + 1) % g.Total)
	case "ArrowLeft":
		return move((sel - 1 + g.Total) % g.Total)
	case "ArrowDown":
		return move(min(sel+gridColumns, g.Total-1))
	case "ArrowUp":
		return move(max(sel-gridColumns, 0))
	case "Enter":
		return withSelection(consume(ActionLoadProfile), sel)
	case "F1":
		return withSelection(consume(ActionToggleHelp), sel)
	case "F2":
		return withSelection(consume(ActionEditProfile), sel)
	case "F3":
		return withSelection(consume(ActionCreateProfile), sel)
	case "F4":
		return withSelection(consume(ActionRemoveProfile), sel)
	case "Escape":
		if g.HelpOpen {
			return withSelection(consume(ActionCloseHelp), sel)
		}
		return withSelection(consume(ActionNone), sel)
	}
	return Decision{}
}

func withSelection(d Decision, sel int) Decision {
	d.Selected = sel
	return d
}

func translateConfig(ev KeyEvent) Decision {
	switch ev.Key {
	case "F2":
		return consume(ActionSave)
	case "Escape":
		return consume(ActionBack)
	}
	return Decision{}
}

func translatePortal(ev KeyEvent) Decision {
	switch ev.Key {
	case "Backspace":
		return consume(ActionBack)
	case "F11":
		return consume(ActionToggleFullscreen)
	}

	code, ok := DefaultKeyMap.Code(ev.Key)
	if !ok {
		return Decision{}
	}
	d := consume(ActionNone)
	d.Forward = &ForwardedKey{KeyCode: code, Which: code, Modifiers: ev.Modifiers()}
	return d
}
