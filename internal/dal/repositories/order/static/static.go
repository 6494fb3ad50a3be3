package staticrepo

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/eventfilter"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
	"github.com/go-playground/validator/v10"
)

//go:embed seed.json
var defaultSeed []byte

var ErrDuplicateOrder = errors.New("duplicate order id")

// seedFile is the on-disk layout of a seed document.
type seedFile struct {
	Filters []eventfilter.Filter `json:"filters"`
	Orders  []order.Order        `json:"orders"  validate:"dive"`
}

// Repository serves a fixed list of orders read once at startup.
type Repository struct {
	orders  []order.Order
	filters []eventfilter.Filter
}

// NewRepository decodes and validates a seed document.
func NewRepository(r io.Reader) (*Repository, error) {
	var seed seedFile
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}

	if err := validator.New().Struct(seed); err != nil {
		return nil, fmt.Errorf("failed to validate seed: %w", err)
	}

	seen := make(map[string]struct{}, len(seed.Orders))
	for _, o := range seed.Orders {
		if _, ok := seen[o.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOrder, o.ID)
		}
		seen[o.ID] = struct{}{}
	}

	if len(seed.Filters) == 0 {
		seed.Filters = eventfilter.Defaults
	}

	return &Repository{
		orders:  seed.Orders,
		filters: seed.Filters,
	}, nil
}

// MustNewRepository loads the seed at path, or the embedded seed when path is empty.
func MustNewRepository(path string) *Repository {
	data := defaultSeed
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			panic("error while reading seed file: " + err.Error())
		}
	}

	repo, err := NewRepository(bytes.NewReader(data))
	if err != nil {
		panic(err)
	}

	return repo
}

// List returns a copy of all orders in seed order.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return slices.Clone(r.orders), nil
}

// Filters returns the filter menu options.
func (r *Repository) Filters(ctx context.Context) ([]eventfilter.Filter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return slices.Clone(r.filters), nil
}
