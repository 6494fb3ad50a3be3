package cli

import (
	"fmt"
	"io"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/ordersview"
	"github.com/olekukonko/tablewriter"
)

// RenderView prints the table, or the empty state that replaces it,
// followed by a paging footer.
func RenderView(w io.Writer, view ordersview.View) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", view.Heading, view.CountLabel); err != nil {
		return err
	}

	if view.Empty != nil {
		return renderEmpty(w, view.Empty)
	}

	table := tablewriter.NewWriter(w)
	header := make([]any, 0, len(view.Columns))
	for _, c := range view.Columns {
		if c != "" {
			header = append(header, c)
		}
	}
	table.Header(header...)

	rows := make([][]string, 0, len(view.Rows))
	for _, r := range view.Rows {
		rows = append(rows, []string{r.ID, r.AttendeeName, r.EventTitle, r.TicketType, r.Cost, r.Created})
	}
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to add rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, err := fmt.Fprintln(w, Footer(view))

	return err
}

// Footer summarizes the page position, e.g. "page 1 of 2 · 10 orders".
func Footer(view ordersview.View) string {
	page := 0
	if view.TotalPages > 0 {
		page = view.Params.Page + 1
	}

	return fmt.Sprintf("page %d of %d · %s", page, view.TotalPages, view.CountLabel)
}

func renderEmpty(w io.Writer, empty *ordersview.EmptyState) error {
	if _, err := fmt.Fprintf(w, "\n%s\n%s\n", empty.Title, empty.Description); err != nil {
		return err
	}
	for _, a := range []*ordersview.Action{empty.Outline, empty.Primary} {
		if a == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "  [%s] %s\n", a.Label, a.Href); err != nil {
			return err
		}
	}

	return nil
}

// RenderOrder prints a single order as a two column field table.
func RenderOrder(w io.Writer, o order.Order) error {
	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")
	if err := table.Bulk([][]string{
		{"Order ID", o.ID},
		{"Attendee", o.AttendeeName},
		{"Event", o.EventTitle},
		{"Category", o.EventCategory},
		{"Ticket type", o.TicketType},
		{"Ticket cost", o.FormattedCost()},
		{"Created", o.Created},
	}); err != nil {
		return fmt.Errorf("failed to add rows: %w", err)
	}

	return table.Render()
}
