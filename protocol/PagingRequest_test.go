package protocol

import (
	"net/url"
	"testing"
)

func TestNewPagingRequestFromURLValues(t *testing.T) {
	values, _ := url.ParseQuery("limit=25&skip=50&sort=name&order=desc&fields=id,name&populate=source&includeArchived=true&source=master&tag=false&custom.team=sysml")
	pr := NewPagingRequestFromURLValues(values)

	if pr.Limit != 25 || pr.Skip != 50 {
		t.Errorf("paging not parsed: limit=%d skip=%d", pr.Limit, pr.Skip)
	}
	if pr.SortBy != "name" || !pr.SortDescending {
		t.Errorf("sort not parsed: %s desc=%v", pr.SortBy, pr.SortDescending)
	}
	if len(pr.Fields) != 2 || pr.Fields[1] != "name" {
		t.Errorf("fields not parsed: %v", pr.Fields)
	}
	if len(pr.Populate) != 1 || pr.Populate[0] != "source" {
		t.Errorf("populate not parsed: %v", pr.Populate)
	}
	if !pr.IncludeArchived || pr.ArchivedOnly {
		t.Errorf("archive flags not parsed: %v %v", pr.IncludeArchived, pr.ArchivedOnly)
	}
	if pr.Source != "master" {
		t.Errorf("source not parsed: %s", pr.Source)
	}
	if pr.Tag == nil || *pr.Tag {
		t.Error("tag=false should yield a set false pointer")
	}
	if pr.Custom["team"] != "sysml" {
		t.Errorf("custom terms not parsed: %v", pr.Custom)
	}
}

func TestNewPagingRequestDefaults(t *testing.T) {
	pr := NewPagingRequestFromURLValues(url.Values{})
	if pr.Limit != 0 || pr.Skip != 0 || pr.SortBy != "" || pr.Tag != nil || pr.Custom != nil {
		t.Errorf("zero query should yield zero options: %+v", pr)
	}
}

func TestNewPagingRequestIgnoresMalformedNumbers(t *testing.T) {
	values, _ := url.ParseQuery("limit=banana&skip=-3")
	pr := NewPagingRequestFromURLValues(values)
	if pr.Limit != 0 || pr.Skip != 0 {
		t.Errorf("malformed paging should fall back to defaults: %+v", pr)
	}
}
