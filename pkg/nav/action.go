package nav

import "slices"

// Action is a logical user action. Key bindings are resolved to actions
// outside the machine.
type Action int

const (
	ActionNone Action = iota
	MoveDown
	MoveUp
	GoTop
	GoBottom
	PageDown
	PageUp
	Open
	Back
	BackToRoot
	Refresh
	Filter
	ResetFilter
	Sort
	Versions
	Preview
	Download
	DownloadAs
	Encoding
	ToggleWrap
	ToggleNumbers
	OpenConsole
	CancelDownload
	Help
	Quit
)

var actionNames = map[Action]string{
	MoveDown:       "move down",
	MoveUp:         "move up",
	GoTop:          "go to top",
	GoBottom:       "go to bottom",
	PageDown:       "page down",
	PageUp:         "page up",
	Open:           "open",
	Back:           "back",
	BackToRoot:     "back to bucket list",
	Refresh:        "refresh",
	Filter:         "filter",
	ResetFilter:    "reset filter",
	Sort:           "sort",
	Versions:       "versions",
	Preview:        "preview",
	Download:       "download",
	DownloadAs:     "download as",
	Encoding:       "encoding",
	ToggleWrap:     "toggle wrap",
	ToggleNumbers:  "toggle line numbers",
	OpenConsole:    "open management console",
	CancelDownload: "cancel download",
	Help:           "help",
	Quit:           "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

var common = []Action{Help, Quit, CancelDownload}

var viewActions = map[ViewKind][]Action{
	BucketList: {MoveDown, MoveUp, GoTop, GoBottom, PageDown, PageUp, Open,
		Refresh, Filter, ResetFilter, Sort, Download, DownloadAs, OpenConsole},
	ObjectList: {MoveDown, MoveUp, GoTop, GoBottom, PageDown, PageUp, Open, Back,
		BackToRoot, Refresh, Filter, ResetFilter, Sort, Preview, Download,
		DownloadAs, OpenConsole},
	ObjectDetail: {Open, Back, BackToRoot, Refresh, Versions, Preview,
		Download, DownloadAs, OpenConsole},
	ObjectVersions: {MoveDown, MoveUp, GoTop, GoBottom, PageDown, PageUp, Open,
		Back, BackToRoot, Refresh, Preview, Download, DownloadAs},
	ObjectPreview: {MoveDown, MoveUp, GoTop, GoBottom, PageDown, PageUp, Back,
		BackToRoot, Refresh, Encoding, ToggleWrap, ToggleNumbers, Download,
		DownloadAs},
}

// Actions returns the actions available in a view kind.
func Actions(kind ViewKind) []Action {
	return append(append([]Action(nil), viewActions[kind]...), common...)
}

// Allowed reports whether action is available in a view kind.
func Allowed(kind ViewKind, action Action) bool {
	return slices.Contains(Actions(kind), action)
}
