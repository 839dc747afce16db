package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wfjournal/wfj-backend/internal/meals"
	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseMealFilter interprets the list-endpoint query parameters. Each
// malformed value is rejected with a message naming the parameter.
func ParseMealFilter(r *http.Request) (meals.Filter, error) {
	var filter meals.Filter
	query := r.URL.Query()

	wishlist, err := queryBool(query.Get("wishlist"), "wishlist")
	if err != nil {
		return meals.Filter{}, err
	}
	filter.Wishlist = wishlist

	for _, spec := range []struct {
		key  string
		dest **int
	}{
		{"minRating", &filter.MinRating},
		{"maxRating", &filter.MaxRating},
		{"minDiff", &filter.MinDiff},
		{"maxDiff", &filter.MaxDiff},
	} {
		value, err := queryInt(query.Get(spec.key), spec.key)
		if err != nil {
			return meals.Filter{}, err
		}
		*spec.dest = value
	}

	filter.CntryCds = queryMulti(query["cntryCd"])
	filter.Name = strings.TrimSpace(query.Get("name"))

	minDate, err := queryDate(query.Get("minDateUTC"), "minDateUTC")
	if err != nil {
		return meals.Filter{}, err
	}
	filter.MinDate = minDate

	maxDate, err := queryDate(query.Get("maxDateUTC"), "maxDateUTC")
	if err != nil {
		return meals.Filter{}, err
	}
	filter.MaxDate = maxDate

	return filter, nil
}

func queryBool(raw, key string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, queryError(key, "must be a boolean")
	}
	return &value, nil
}

func queryInt(raw, key string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, queryError(key, "must be numeric")
	}
	return &value, nil
}

// queryDate accepts RFC3339 timestamps or plain YYYY-MM-DD days, normalized
// to UTC midnight.
func queryDate(raw, key string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t := parsed.UTC()
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day, nil
		}
	}
	return nil, queryError(key, "must be an RFC3339 timestamp or a YYYY-MM-DD date")
}

// queryMulti splits repeated and comma-separated values into one list.
func queryMulti(raw []string) []string {
	var values []string
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

func queryError(key, constraint string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("query parameter %s %s", key, constraint)).
		WithDetails(map[string]string{key: constraint})
}
