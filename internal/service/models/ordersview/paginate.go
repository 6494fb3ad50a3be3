package ordersview

import (
	"strconv"
	"strings"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
)

const (
	// PageSize is the fixed number of rows per page.
	PageSize = 8

	marginPages = 2
	pageRange   = 5
)

// Filter returns every order whose event title or category contains search,
// ignoring case. An empty search matches all orders.
func Filter(orders []order.Order, search string) []order.Order {
	search = NormalizeSearch(search)
	if search == "" {
		return orders
	}

	matched := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.EventTitle), search) ||
			strings.Contains(strings.ToLower(o.EventCategory), search) {
			matched = append(matched, o)
		}
	}

	return matched
}

// TotalPages is ceil(total / PageSize).
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}

	return (total + PageSize - 1) / PageSize
}

// ClampPage bounds page to [0, totalPages).
func ClampPage(page, totalPages int) int {
	if page < 0 || totalPages == 0 {
		return 0
	}
	if page >= totalPages {
		return totalPages - 1
	}

	return page
}

// Paginate returns the half-open slice [page*PageSize, page*PageSize+PageSize)
// of orders, cut at the end of the list.
func Paginate(orders []order.Order, page int) []order.Order {
	if page < 0 {
		return nil
	}

	start := page * PageSize
	if start >= len(orders) {
		return nil
	}
	end := min(start+PageSize, len(orders))

	return orders[start:end:end]
}

// PageLink is one entry of the paging control.
type PageLink struct {
	Label   string `json:"label"`
	Page    int    `json:"page"`
	Current bool   `json:"current,omitempty"`
	Break   bool   `json:"break,omitempty"`
	Href    string `json:"href"`
}

// Pager is the paging control below the table.
type Pager struct {
	Previous    int        `json:"previous"`
	Next        int        `json:"next"`
	HasPrevious bool       `json:"hasPrevious"`
	HasNext     bool       `json:"hasNext"`
	Links       []PageLink `json:"links"`

	PreviousHref string `json:"previousHref"`
	NextHref     string `json:"nextHref"`
}

// NewPager builds the control for current out of total pages: the first and
// last two pages, a window of five pages and "..." for gaps. Near either end
// the window shifts the way react-paginate shifts it.
func NewPager(current, total int) Pager {
	p := Pager{
		Previous:    max(current-1, 0),
		Next:        min(current+1, max(total-1, 0)),
		HasPrevious: current > 0,
		HasNext:     current < total-1,
	}
	if total <= 0 {
		return p
	}

	lo, hi := pageWindow(current, total)
	for i := range total {
		inMargin := i < marginPages || i >= total-marginPages
		inWindow := total <= pageRange || (float64(i) >= lo && float64(i) <= hi)
		if inMargin || inWindow {
			p.Links = append(p.Links, PageLink{
				Label:   strconv.Itoa(i + 1),
				Page:    i,
				Current: i == current,
			})

			continue
		}
		if n := len(p.Links); n > 0 && !p.Links[n-1].Break {
			p.Links = append(p.Links, PageLink{Label: "...", Page: i, Break: true})
		}
	}

	return p
}

// pageWindow returns the inclusive page bounds around current. The halves of
// an odd range are fractional, so bounds are compared as floats.
func pageWindow(current, total int) (lo, hi float64) {
	half := float64(pageRange) / 2
	left, right := half, float64(pageRange)-half

	switch cur := float64(current); {
	case cur > float64(total)-half:
		right = float64(total - current)
		left = float64(pageRange) - right
	case cur < half:
		left = cur
		right = float64(pageRange) - left
	}
	if current == 0 && pageRange > 1 {
		right--
	}

	return float64(current) - left, float64(current) + right
}
