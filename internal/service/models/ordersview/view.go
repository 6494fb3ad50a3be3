package ordersview

import (
	"fmt"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/eventfilter"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/fetchstatus"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
)

// Kind is the rendering variant of the orders table.
type Kind string

const (
	KindLoading         Kind = "loading"
	KindFailed          Kind = "failed"
	KindEmptyNoSearch   Kind = "empty_no_search"
	KindEmptyWithSearch Kind = "empty_with_search"
	KindPopulated       Kind = "populated"
)

// Columns is the table head.
var Columns = []string{"Order ID", "Attendee", "Event", "Ticket type", "Ticket cost", "Created", ""}

// Snapshot is everything the view needs from the data source.
type Snapshot struct {
	Status  fetchstatus.Status
	Orders  []order.Order
	Filters []eventfilter.Filter
}

// Action is a button on an empty state.
type Action struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// EmptyState replaces the table when there are no rows to show.
type EmptyState struct {
	Icon        string  `json:"icon"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Outline     *Action `json:"outline,omitempty"`
	Primary     *Action `json:"primary,omitempty"`
}

// FilterItem is a filter menu entry. Selecting one does not change the rows.
type FilterItem struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
	Href     string `json:"href"`
}

// Row is an order as displayed in the table.
type Row struct {
	order.Order
	Cost        string `json:"ticketCostFormatted"`
	DetailsHref string `json:"detailsHref"`
}

// View is the fully derived table for one Params value.
type View struct {
	Kind       Kind         `json:"kind"`
	Params     Params       `json:"params"`
	Heading    string       `json:"heading"`
	CountLabel string       `json:"countLabel"`
	Columns    []string     `json:"columns"`
	Rows       []Row        `json:"rows"`
	TotalItems int          `json:"totalItems"`
	TotalPages int          `json:"totalPages"`
	Pager      *Pager       `json:"pager,omitempty"`
	Empty      *EmptyState  `json:"empty,omitempty"`
	Filters    []FilterItem `json:"filters"`
	Selected   *order.Order `json:"selected,omitempty"`
	ModalOpen  bool         `json:"modalOpen"`
	CloseHref  string       `json:"closeHref"`
}

// Derive computes the view for p over snap. It is pure: the same inputs
// always give the same view, and nothing in snap is modified.
func Derive(snap Snapshot, p Params) View {
	p.Search = NormalizeSearch(p.Search)
	p.FilterIndex = clampIndex(p.FilterIndex, len(snap.Filters))

	v := View{
		Heading: heading(p.Search),
		Columns: Columns,
		Rows:    []Row{},
	}

	if sel, ok := find(snap.Orders, p.SelectedID); ok {
		v.Selected = &sel
	}
	p.ModalOpen = p.ModalOpen && v.Selected != nil
	v.ModalOpen = p.ModalOpen

	switch snap.Status {
	case fetchstatus.StatusFailure:
		v.Kind = KindFailed
		v.Empty = failedState(p)
	case fetchstatus.StatusIdle, fetchstatus.StatusLoading:
		v.Kind = KindLoading
		v.Empty = loadingState()
	default:
		matched := Filter(snap.Orders, p.Search)
		v.TotalItems = len(matched)
		v.TotalPages = TotalPages(v.TotalItems)
		p.Page = ClampPage(p.Page, v.TotalPages)

		for _, o := range Paginate(matched, p.Page) {
			v.Rows = append(v.Rows, Row{
				Order:       o,
				Cost:        o.FormattedCost(),
				DetailsHref: Apply(p, MoreDetails{OrderID: o.ID}).Href(),
			})
		}

		switch {
		case len(v.Rows) > 0:
			v.Kind = KindPopulated
			v.Pager = pager(p, v.TotalPages)
		case p.Search != "":
			v.Kind = KindEmptyWithSearch
			v.Empty = noResultsState(p)
		default:
			v.Kind = KindEmptyNoSearch
			v.Empty = noOrdersState()
		}
	}

	if v.Kind != KindPopulated {
		p.Page = 0
	}
	v.Params = p
	v.CountLabel = countLabel(v.TotalItems)
	v.CloseHref = Apply(p, ModalClosed{}).Href()
	v.Filters = filterItems(snap.Filters, p)

	return v
}

func heading(search string) string {
	if search == "" {
		return "All events"
	}

	return fmt.Sprintf("Result for \"%s\"", search)
}

func countLabel(total int) string {
	switch total {
	case 0:
		return "No order"
	case 1:
		return "1 order"
	default:
		return fmt.Sprintf("%d orders", total)
	}
}

func find(orders []order.Order, id string) (order.Order, bool) {
	if id == "" {
		return order.Order{}, false
	}
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}

	return order.Order{}, false
}

func clampIndex(i, n int) int {
	if i < 0 || n == 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}

	return i
}

func filterItems(filters []eventfilter.Filter, p Params) []FilterItem {
	base := Apply(p, ModalClosed{})
	items := make([]FilterItem, 0, len(filters))
	for i, f := range filters {
		items = append(items, FilterItem{
			Index:    i,
			Label:    f.Label,
			Selected: i == p.FilterIndex,
			Href:     Apply(base, FilterSelected{Index: i}).Href(),
		})
	}

	return items
}

func pager(p Params, totalPages int) *Pager {
	base := Apply(p, ModalClosed{})
	pg := NewPager(p.Page, totalPages)
	for i := range pg.Links {
		pg.Links[i].Href = Apply(base, PageChanged{Page: pg.Links[i].Page}).Href()
	}
	pg.PreviousHref = Apply(base, PageChanged{Page: pg.Previous}).Href()
	pg.NextHref = Apply(base, PageChanged{Page: pg.Next}).Href()

	return &pg
}

func loadingState() *EmptyState {
	return &EmptyState{
		Icon:        "loading",
		Title:       "Loading orders",
		Description: "Fetching the latest orders for your events.",
	}
}

func failedState(p Params) *EmptyState {
	return &EmptyState{
		Icon:  "event-caution",
		Title: "Something went wrong",
		Description: "We had some trouble loading this page. Please refresh the page " +
			"to try again or get in touch if the problem sticks around!",
		Outline: &Action{Label: "Contact support", Href: "/support"},
		Primary: &Action{Label: "Refresh page", Href: p.Href()},
	}
}

func noResultsState(p Params) *EmptyState {
	return &EmptyState{
		Icon:        "search-empty",
		Title:       "No result",
		Description: fmt.Sprintf("Your search “%s” did not match any order. Please try again.", p.Search),
		Outline:     &Action{Label: "Clear search", Href: Apply(p, SearchCleared{}).Href()},
		Primary:     &Action{Label: "Refresh page", Href: p.Href()},
	}
}

func noOrdersState() *EmptyState {
	return &EmptyState{
		Icon:        "orders-empty",
		Title:       "No purchases yet on your events",
		Description: "All orders made will live here for you to view and manage effectively.",
		Outline:     &Action{Label: "Need help?", Href: "/need-help"},
		Primary:     &Action{Label: "Create event", Href: "/create-event"},
	}
}
