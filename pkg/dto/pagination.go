package dto

// Window describes the part of a list that fits on screen.
// Start and End are 0-indexed positions usable as items[Start:End], Page is
// 1-indexed.
type Window struct {
	// Total is the number of items in the list.
	Total int `json:"total"`

	// Height is the maximum number of rows displayed at once.
	Height int `json:"height"`

	// Start is the 0-indexed position of the first visible row.
	Start int `json:"start"`

	// End is the 0-indexed position (exclusive) of the last visible row.
	End int `json:"end"`

	// Page is the page containing the selection (1-indexed).
	Page int `json:"page"`

	// Pages is the number of pages of Height rows.
	// When Total is 0, Pages is 1 (not 0).
	Pages int `json:"pages"`
}

// NewWindow computes the visible window of a list of total rows, keeping the
// previous offset when the selection is still inside it and scrolling the
// least amount otherwise.
// A negative selected (no selection) keeps the window at offset.
func NewWindow(total, height, selected, offset int) Window {
	if height < 1 {
		height = 1
	}
	pages := 1
	if total > 0 {
		pages = (total + height - 1) / height
	}

	maxOffset := max(total-height, 0)
	offset = min(max(offset, 0), maxOffset)
	if selected >= 0 {
		if selected < offset {
			offset = selected
		} else if selected >= offset+height {
			offset = selected - height + 1
		}
	}

	page := 1
	if selected > 0 {
		page = selected/height + 1
	}

	return Window{
		Total:  total,
		Height: height,
		Start:  offset,
		End:    min(offset+height, total),
		Page:   page,
		Pages:  pages,
	}
}
