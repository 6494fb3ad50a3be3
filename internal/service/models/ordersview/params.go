package ordersview

import (
	"net/url"
	"strconv"
	"strings"
)

// Params is the complete user-driven state of the orders table.
// It is a value: every event produces a new Params through Apply.
type Params struct {
	Search      string `json:"search"`
	Page        int    `json:"page"`
	FilterIndex int    `json:"filter"`
	SelectedID  string `json:"selected,omitempty"`
	ModalOpen   bool   `json:"modal"`
}

// Event is a user interaction on the table.
type Event interface {
	isEvent()
}

// SearchChanged is a keystroke in the search box.
type SearchChanged struct{ Text string }

// SearchCleared is the "Clear search" empty-state action.
type SearchCleared struct{}

// PageChanged is a click on the paging control.
type PageChanged struct{ Page int }

// FilterSelected is a click on a filter menu item.
type FilterSelected struct{ Index int }

// MoreDetails is a click on a row's "More details" action.
type MoreDetails struct{ OrderID string }

// ModalClosed closes the detail modal.
type ModalClosed struct{}

func (SearchChanged) isEvent()  {}
func (SearchCleared) isEvent()  {}
func (PageChanged) isEvent()    {}
func (FilterSelected) isEvent() {}
func (MoreDetails) isEvent()    {}
func (ModalClosed) isEvent()    {}

// NormalizeSearch lower-cases search input the way the search box does.
func NormalizeSearch(s string) string {
	return strings.ToLower(s)
}

// Apply returns the state that follows p after e.
// Closing the modal keeps the selected order; only the open flag is cleared.
func Apply(p Params, e Event) Params {
	switch ev := e.(type) {
	case SearchChanged:
		p.Search = NormalizeSearch(ev.Text)
		p.Page = 0
	case SearchCleared:
		p.Search = ""
		p.Page = 0
	case PageChanged:
		p.Page = max(ev.Page, 0)
	case FilterSelected:
		p.FilterIndex = max(ev.Index, 0)
	case MoreDetails:
		p.SelectedID = ev.OrderID
		p.ModalOpen = true
	case ModalClosed:
		p.ModalOpen = false
	}

	return p
}

// Values encodes p as query parameters, omitting defaults.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.FilterIndex > 0 {
		v.Set("filter", strconv.Itoa(p.FilterIndex))
	}
	if p.SelectedID != "" {
		v.Set("selected", p.SelectedID)
	}
	if p.ModalOpen {
		v.Set("modal", "true")
	}

	return v
}

// Href is the relative link that reproduces p.
func (p Params) Href() string {
	encoded := p.Values().Encode()
	if encoded == "" {
		return "?"
	}

	return "?" + encoded
}
