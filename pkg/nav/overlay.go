package nav

// OverlayKind identifies a modal overlay.
type OverlayKind int

const (
	HelpOverlay OverlayKind = iota
	FilterInput
	SortMenu
	SaveAsDialog
	ConfirmDialog
	EncodingMenu
)

func (k OverlayKind) String() string {
	switch k {
	case HelpOverlay:
		return "help"
	case FilterInput:
		return "filter"
	case SortMenu:
		return "sort"
	case SaveAsDialog:
		return "save as"
	case ConfirmDialog:
		return "confirm"
	case EncodingMenu:
		return "encoding"
	default:
		return "unknown"
	}
}

// Overlay suspends the frame below it until it is closed.
type Overlay struct {
	Kind  OverlayKind
	Title string
	// Items and Cursor are used by menus.
	Items  []string
	Cursor int
	// Text is the input of FilterInput and SaveAsDialog, the message of
	// ConfirmDialog.
	Text string
	// Original is the filter in place when FilterInput was opened.
	Original string
}

// MoveCursor moves the cursor of a menu, wrapping around.
func (o *Overlay) MoveCursor(delta int) {
	n := len(o.Items)
	if n == 0 {
		return
	}
	o.Cursor = ((o.Cursor+delta)%n + n) % n
}

// BannerLevel is the severity of a banner.
type BannerLevel int

const (
	Info BannerLevel = iota
	Success
	Warn
	Error
)

// Banner is the notification shown under the current view.
type Banner struct {
	Level   BannerLevel
	Message string
}
