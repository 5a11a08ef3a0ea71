package utils

import (
	"net/url"
	"strconv"
	"strings"

	"dispatch-system/pkg/types"
)

// ParseFilterFromQuery reads filter[...]/sort[...]/search/limit/offset query
// params into a types.Filter.
func ParseFilterFromQuery(query url.Values) types.Filter {
	filter := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  10,
		Offset: 0,
		Page:   1,
	}

	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			filterKey := key[7 : len(key)-1]
			filter.Filter[filterKey] = values[0]
		}
		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			sortKey := key[5 : len(key)-1]
			filter.Sort[sortKey] = values[0]
		}
	}

	filter.Search = query.Get("search")

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filter.Limit = l
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filter.Offset = o
			if filter.Limit > 0 {
				filter.Page = (o / filter.Limit) + 1
			}
		}
	}
	if wp := query.Get("withPagination"); wp != "" {
		filter.WithPagination = wp == "true" || wp == "1"
	}

	return filter
}

// ParseUint64Slice converts a slice of decimal strings, skipping blanks.
func ParseUint64Slice(strs []string) ([]uint64, error) {
	out := make([]uint64, 0, len(strs))
	for _, s := range strs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
