package dao

import (
	"strings"
	"testing"
)

func TestBuildOrderByWhitelist(t *testing.T) {
	got := buildOrderBy(PagingRequest{SortBy: "name", SortDescending: true})
	if got != " order by name desc" {
		t.Errorf("unexpected order clause: %q", got)
	}
	got = buildOrderBy(PagingRequest{SortBy: "name; drop table branch"})
	if got != " order by id asc" {
		t.Errorf("unknown sort column must fall back to id, got %q", got)
	}
}

func TestBuildLimit(t *testing.T) {
	if got := buildLimit(PagingRequest{}); got != "" {
		t.Errorf("unbounded paging should render nothing, got %q", got)
	}
	if got := buildLimit(PagingRequest{Limit: 10, Skip: 20}); got != " limit 10 offset 20" {
		t.Errorf("unexpected limit clause: %q", got)
	}
	if got := buildLimit(PagingRequest{Skip: 5}); !strings.Contains(got, "offset 5") {
		t.Errorf("skip without limit should still offset, got %q", got)
	}
}

func TestGetSanitizedLimit(t *testing.T) {
	if got := GetSanitizedLimit(-1); got != 0 {
		t.Errorf("negative limit should be unbounded, got %d", got)
	}
	if got := GetSanitizedLimit(25); got != 25 {
		t.Errorf("in-range limit should pass through, got %d", got)
	}
	if got := GetSanitizedLimit(MaxPageSize + 1); got != MaxPageSize {
		t.Errorf("oversize limit should clamp to %d, got %d", MaxPageSize, got)
	}
}

func TestInPlaceholders(t *testing.T) {
	if got := inPlaceholders(3); got != "(?,?,?)" {
		t.Errorf("unexpected placeholders: %q", got)
	}
	if got := inPlaceholders(1); got != "(?)" {
		t.Errorf("unexpected placeholders: %q", got)
	}
}

func TestValidCustomPath(t *testing.T) {
	for _, p := range []string{"site", "meta.release", "a.b.c", "k_1"} {
		if !ValidCustomPath(p) {
			t.Errorf("expected %q valid", p)
		}
	}
	for _, p := range []string{"", ".leading", "trailing.", "a..b", `x")=1 or ("1`} {
		if ValidCustomPath(p) {
			t.Errorf("expected %q invalid", p)
		}
	}
}
