package eventfilter

// Filter is one entry of the dashboard filter menu.
type Filter struct {
	Label string `json:"filter" db:"label"`
}

// Defaults is the menu used when the data source does not provide one.
var Defaults = []Filter{
	{Label: "All events"},
	{Label: "Live events"},
	{Label: "Past events"},
	{Label: "Draft events"},
}
