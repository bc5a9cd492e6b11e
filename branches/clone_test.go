package branches

import (
	"testing"
	"time"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
)

var cloneNow = time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)

func cloneTargets(ids ...string) []models.MCFBranch {
	var out []models.MCFBranch
	for _, id := range ids {
		out = append(out, models.MCFBranch{ID: id, Project: "o:p"})
	}
	return out
}

func TestCloneElementsRekeysAndRebases(t *testing.T) {
	source := "o:p:master"
	elements := []models.MCFElement{
		{ID: "o:p:master:root", Project: "o:p", Branch: source, Name: "root"},
		{ID: "o:p:master:child", Project: "o:p", Branch: source,
			Parent: models.ToNullString("o:p:master:root")},
		{ID: "o:p:master:link", Project: "o:p", Branch: source,
			Parent: models.ToNullString("o:p:master:root"),
			Source: models.ToNullString("o:p:master:child"),
			Target: models.ToNullString("o:p:master:root")},
	}

	clones, err := CloneElements(source, elements, cloneTargets("o:p:dev", "o:p:qa"), "alice", cloneNow)
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	if len(clones) != 6 {
		t.Fatalf("expected 3 elements x 2 branches = 6 clones, got %d", len(clones))
	}

	byID := make(map[string]models.MCFElement)
	for _, clone := range clones {
		byID[clone.ID] = clone
	}
	for _, branch := range []string{"o:p:dev", "o:p:qa"} {
		link, ok := byID[branch+":link"]
		if !ok {
			t.Fatalf("missing clone %s:link", branch)
		}
		if link.Branch != branch {
			t.Errorf("clone owner should be %s, got %s", branch, link.Branch)
		}
		if link.Parent.String != branch+":root" {
			t.Errorf("parent not rebased onto %s: %s", branch, link.Parent.String)
		}
		if link.Source.String != branch+":child" || link.Target.String != branch+":root" {
			t.Errorf("relationship endpoints not rebased onto %s: %s -> %s",
				branch, link.Source.String, link.Target.String)
		}
		if link.ModifiedBy != "alice" || !link.ModifiedDate.Equal(cloneNow) {
			t.Errorf("clone not stamped: %s at %s", link.ModifiedBy, link.ModifiedDate)
		}
	}

	root := byID["o:p:dev:root"]
	if root.Parent.Valid {
		t.Error("root element should keep its null parent")
	}
}

func TestCloneElementsPreservesForeignReferences(t *testing.T) {
	source := "o:p:master"
	elements := []models.MCFElement{
		{ID: "o:p:master:link", Project: "o:p", Branch: source,
			Source: models.ToNullString("o:p:other:thing"),
			Target: models.ToNullString("org2:px:master:thing")},
	}

	clones, err := CloneElements(source, elements, cloneTargets("o:p:dev"), "alice", cloneNow)
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	clone := clones[0]
	if clone.Source.String != "o:p:other:thing" {
		t.Errorf("other-branch reference should be copied verbatim: %s", clone.Source.String)
	}
	if clone.Target.String != "org2:px:master:thing" {
		t.Errorf("other-project reference should be copied verbatim: %s", clone.Target.String)
	}
}

func TestCloneElementsPassesMalformedReferencesThrough(t *testing.T) {
	source := "o:p:master"
	elements := []models.MCFElement{
		{ID: "o:p:master:link", Project: "o:p", Branch: source,
			Source: models.ToNullString("nodelimiter")},
	}

	clones, err := CloneElements(source, elements, cloneTargets("o:p:dev"), "alice", cloneNow)
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	if clones[0].Source.String != "nodelimiter" {
		t.Errorf("malformed reference should be untouched: %s", clones[0].Source.String)
	}
}

func TestCloneElementsCopyIsDeep(t *testing.T) {
	source := "o:p:master"
	elements := []models.MCFElement{
		{ID: "o:p:master:e", Project: "o:p", Branch: source,
			Name: "original", Documentation: "text", Type: "block"},
	}

	clones, err := CloneElements(source, elements, cloneTargets("o:p:dev"), "alice", cloneNow)
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	clones[0].Name = "changed"
	if elements[0].Name != "original" {
		t.Error("mutating a clone must not reach the source element")
	}
	if clones[0].Documentation != "text" || clones[0].Type != "block" {
		t.Errorf("payload fields should carry over: %+v", clones[0])
	}
}

func TestCloneArtifactsSharesContent(t *testing.T) {
	artifacts := []models.MCFArtifact{
		{ID: "o:p:master:file_bin", Project: "o:p", Branch: "o:p:master",
			Filename: "file.bin", Location: "o/p/5d41402a", Strategy: "gridfs",
			Size: models.NullInt64{}},
	}

	clones, err := CloneArtifacts(artifacts, cloneTargets("o:p:dev", "o:p:qa"), "alice", cloneNow)
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	if len(clones) != 2 {
		t.Fatalf("expected 1 artifact x 2 branches = 2 clones, got %d", len(clones))
	}
	for _, clone := range clones {
		if clone.Location != "o/p/5d41402a" {
			t.Errorf("clone should address the same content: %s", clone.Location)
		}
		if clone.Filename != "file.bin" {
			t.Errorf("filename should carry over: %s", clone.Filename)
		}
	}
	if clones[0].ID != "o:p:dev:file_bin" || clones[1].ID != "o:p:qa:file_bin" {
		t.Errorf("artifact ids not rebased: %s, %s", clones[0].ID, clones[1].ID)
	}
}
