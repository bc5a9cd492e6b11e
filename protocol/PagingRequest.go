package protocol

import (
	"net/url"
	"strconv"
	"strings"
)

// PagingRequest carries the query options of a branch find. All fields come
// from URL query parameters and have zero-value defaults.
type PagingRequest struct {
	// Limit bounds the page size. 0 is unbounded.
	Limit int `json:"limit"`
	// Skip is the row offset into the result
	Skip int `json:"skip"`
	// SortBy names the field to order by
	SortBy string `json:"sort"`
	// SortDescending reverses the sort direction
	SortDescending bool `json:"sortDescending"`
	// Fields projects the response to the named fields
	Fields []string `json:"fields"`
	// Populate resolves the named reference fields into embedded documents
	Populate []string `json:"populate"`
	// IncludeArchived lifts the default non-archived visibility constraint
	IncludeArchived bool `json:"includeArchived"`
	// ArchivedOnly returns archived entities exclusively
	ArchivedOnly bool `json:"archivedOnly"`
	// Source narrows to branches cloned from the named branch
	Source string `json:"source"`
	// Name narrows to branches with the exact name
	Name string `json:"name"`
	// CreatedBy narrows to branches created by the named user
	CreatedBy string `json:"createdBy"`
	// ArchivedBy narrows to branches archived by the named user
	ArchivedBy string `json:"archivedBy"`
	// Tag narrows to tags or working branches when present
	Tag *bool `json:"tag"`
	// Custom maps dot paths inside the custom document to required values
	Custom map[string]string `json:"custom"`
}

// reservedParams are query keys with dedicated fields; everything else
// prefixed custom. becomes a custom document search term.
var reservedParams = map[string]bool{
	"limit": true, "skip": true, "sort": true, "order": true,
	"fields": true, "populate": true, "includeArchived": true,
	"archivedOnly": true, "source": true, "name": true,
	"createdBy": true, "archivedBy": true, "tag": true, "ids": true,
}

// NewPagingRequestFromURLValues parses query parameters into a
// PagingRequest. Malformed numbers and booleans fall back to defaults; the
// service layers validate semantics.
func NewPagingRequestFromURLValues(values url.Values) PagingRequest {
	pr := PagingRequest{
		SortBy:    values.Get("sort"),
		Source:    values.Get("source"),
		Name:      values.Get("name"),
		CreatedBy: values.Get("createdBy"),
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		pr.Limit = limit
	}
	if skip, err := strconv.Atoi(values.Get("skip")); err == nil && skip > 0 {
		pr.Skip = skip
	}
	pr.SortDescending = strings.EqualFold(values.Get("order"), "desc")
	pr.Fields = splitList(values.Get("fields"))
	pr.Populate = splitList(values.Get("populate"))
	pr.IncludeArchived = parseBool(values.Get("includeArchived"))
	pr.ArchivedOnly = parseBool(values.Get("archivedOnly"))
	pr.ArchivedBy = values.Get("archivedBy")
	if raw := values.Get("tag"); raw != "" {
		tag := parseBool(raw)
		pr.Tag = &tag
	}
	for key := range values {
		if strings.HasPrefix(key, "custom.") && !reservedParams[key] {
			if pr.Custom == nil {
				pr.Custom = make(map[string]string)
			}
			pr.Custom[strings.TrimPrefix(key, "custom.")] = values.Get(key)
		}
	}
	return pr
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBool(raw string) bool {
	parsed, err := strconv.ParseBool(raw)
	return err == nil && parsed
}
