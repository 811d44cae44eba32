package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"
	"takeout/internal/pkg/guard"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var ErrSearchOrdersQueryIsNotConstructed = errors.New(
	"SearchOrdersQuery must be created via NewSearchOrdersQuery constructor",
)

// OrderFilter narrows a search. Zero fields do not filter.
type OrderFilter struct {
	UserID int64
	Status order.Status
	Number string
	Phone  string
	Begin  *time.Time
	End    *time.Time
}

// SearchOrdersQuery pages through orders, newest first.
type SearchOrdersQuery struct {
	filter   OrderFilter
	page     int
	pageSize int

	guard guard.ConstructorGuard
}

// NewSearchOrdersQuery defaults page to 1 and pageSize to DefaultPageSize.
// Number and phone match as substrings.
func NewSearchOrdersQuery(filter OrderFilter, page, pageSize int) (SearchOrdersQuery, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		return SearchOrdersQuery{}, errs.NewValueIsOutOfRangeError("page size", pageSize, 1, MaxPageSize)
	}
	if filter.Status != order.Unknown {
		if err := filter.Status.Validate(); err != nil {
			return SearchOrdersQuery{}, err
		}
	}
	if filter.Begin != nil && filter.End != nil && filter.End.Before(*filter.Begin) {
		return SearchOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"time range", fmt.Errorf("end %s is before begin %s",
				filter.End.Format(time.RFC3339), filter.Begin.Format(time.RFC3339)),
		)
	}

	filter.Number = strings.TrimSpace(filter.Number)
	filter.Phone = strings.TrimSpace(filter.Phone)

	return SearchOrdersQuery{
		filter:   filter,
		page:     page,
		pageSize: pageSize,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q SearchOrdersQuery) Validate() error {
	return q.guard.Validate(ErrSearchOrdersQueryIsNotConstructed)
}

func (q SearchOrdersQuery) Filter() OrderFilter {
	return q.filter
}

func (q SearchOrdersQuery) Page() int {
	return q.page
}

func (q SearchOrdersQuery) PageSize() int {
	return q.pageSize
}

// OrderPage is one page of a search plus the total number of matches.
type OrderPage struct {
	Total  int64
	Orders []OrderView
}
