package branches

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/Open-MBEE/mcf-sub004/apperrors"
	"github.com/Open-MBEE/mcf-sub004/auth"
	"github.com/Open-MBEE/mcf-sub004/dao"
	"github.com/Open-MBEE/mcf-sub004/events"
	"github.com/Open-MBEE/mcf-sub004/metadata/models"
)

// recordingQueue captures published events for assertions.
type recordingQueue struct {
	published []events.Event
}

func (q *recordingQueue) Publish(e events.Event) {
	q.published = append(q.published, e)
}

func (q *recordingQueue) actions() []string {
	var out []string
	for _, e := range q.published {
		out = append(out, e.EventAction())
	}
	return out
}

var testUser = models.MCFUser{Username: "alice"}

// newTestFixture seeds a fake store with one org, one project, a master
// branch carrying three elements (one hierarchy, one relationship), one
// artifact, and one webhook scoped to master.
func newTestFixture() (*Controller, *dao.FakeDAO, *auth.FakeAuth, *recordingQueue) {
	d := dao.NewFakeDAO()
	a := &auth.FakeAuth{}
	q := &recordingQueue{}

	d.Orgs["org1"] = models.MCFOrganization{ID: "org1", Permissions: types.JSONText(`{}`)}
	d.Projects["org1:proj1"] = models.MCFProject{ID: "org1:proj1", Org: "org1", Permissions: types.JSONText(`{}`)}

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	master := models.MCFBranch{ID: "org1:proj1:master", Project: "org1:proj1", Name: "master"}
	master.StampCreate("system", now)
	d.Branches[master.ID] = master

	root := models.MCFElement{ID: "org1:proj1:master:root", Project: "org1:proj1", Branch: master.ID, Name: "root"}
	child := models.MCFElement{
		ID: "org1:proj1:master:block_a", Project: "org1:proj1", Branch: master.ID,
		Parent: models.ToNullString(root.ID), Name: "Block A",
	}
	rel := models.MCFElement{
		ID: "org1:proj1:master:rel_1", Project: "org1:proj1", Branch: master.ID,
		Parent: models.ToNullString(root.ID),
		Source: models.ToNullString(child.ID),
		Target: models.ToNullString("org2:projx:master:external"),
		Type:   "relationship",
	}
	for _, e := range []models.MCFElement{root, child, rel} {
		e.StampCreate("system", now)
		d.Elements[e.ID] = e
	}

	artifact := models.MCFArtifact{
		ID: "org1:proj1:master:diagram_png", Project: "org1:proj1", Branch: master.ID,
		Filename: "diagram.png", Location: "org1/proj1/ab12cd", Strategy: "gridfs",
	}
	artifact.StampCreate("system", now)
	d.Artifacts[artifact.ID] = artifact

	d.Webhooks["hook1"] = models.MCFWebhook{ID: "hook1", Reference: master.ID, URL: "https://ci.example.com"}

	c := NewController(d, q, a)
	return c, d, a, q
}

func TestCreateClonesSubtree(t *testing.T) {
	c, d, _, q := newTestFixture()

	specs := []BranchSpec{
		{ID: "dev", Source: "master"},
		{ID: "rel-1", Source: "master", Name: "Release 1", Tag: true},
	}
	result, err := c.Create(testUser, "org1", "proj1", specs, FindOptions{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(result.Branches) != 2 {
		t.Fatalf("expected 2 created branches, got %d", len(result.Branches))
	}

	// Every element of master exists again under each new branch.
	for _, branchID := range []string{"org1:proj1:dev", "org1:proj1:rel-1"} {
		elements, _ := d.GetElementsByBranch(branchID)
		if len(elements) != 3 {
			t.Errorf("branch %s should hold 3 cloned elements, got %d", branchID, len(elements))
		}
		artifacts, _ := d.GetArtifactsByBranch(branchID)
		if len(artifacts) != 1 {
			t.Errorf("branch %s should hold 1 cloned artifact, got %d", branchID, len(artifacts))
		}
	}

	// The clone re-keys and rebases; the original is untouched.
	clone, ok := d.Elements["org1:proj1:dev:rel_1"]
	if !ok {
		t.Fatal("cloned relationship org1:proj1:dev:rel_1 not found")
	}
	if clone.Parent.String != "org1:proj1:dev:root" {
		t.Errorf("parent not rebased: %s", clone.Parent.String)
	}
	if clone.Source.String != "org1:proj1:dev:block_a" {
		t.Errorf("intra-branch source not rebased: %s", clone.Source.String)
	}
	if clone.Target.String != "org2:projx:master:external" {
		t.Errorf("cross-project target should be untouched: %s", clone.Target.String)
	}
	if clone.ModifiedBy != "alice" {
		t.Errorf("clone should be stamped by the requesting user, got %s", clone.ModifiedBy)
	}
	original := d.Elements["org1:proj1:master:rel_1"]
	if original.Source.String != "org1:proj1:master:block_a" {
		t.Errorf("source branch element mutated: %s", original.Source.String)
	}

	// Artifact clones share content.
	art := d.Artifacts["org1:proj1:dev:diagram_png"]
	if art.Location != "org1/proj1/ab12cd" {
		t.Errorf("artifact clone should keep the content location, got %s", art.Location)
	}

	if got := q.actions(); len(got) != 1 || got[0] != events.ActionBranchesCreated {
		t.Errorf("expected one %s event, got %v", events.ActionBranchesCreated, got)
	}
}

func TestCreateArchivedOnCreate(t *testing.T) {
	c, d, _, _ := newTestFixture()

	_, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "frozen", Source: "master", Archived: true}}, FindOptions{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	branch := d.Branches["org1:proj1:frozen"]
	if !branch.IsArchived || branch.ArchivedBy.String != "alice" {
		t.Errorf("branch should be archived by alice on create: %+v", branch.MCFArchivable)
	}

	// Archived-on-create branches are invisible to a default find.
	result, err := c.Find(testUser, "org1", "proj1", nil, FindOptions{})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	for _, b := range result.Branches {
		if b.ID == "org1:proj1:frozen" {
			t.Error("default find should exclude the archived branch")
		}
	}
}

func TestCreateRejectsExistingAndDuplicateIDs(t *testing.T) {
	c, _, _, q := newTestFixture()

	specs := []BranchSpec{
		{ID: "master", Source: "master"},
		{ID: "dev", Source: "master"},
		{ID: "dev", Source: "master"},
	}
	_, err := c.Create(testUser, "org1", "proj1", specs, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindOperation) {
		t.Fatalf("expected OperationError, got %v", err)
	}
	for _, id := range []string{"org1:proj1:master", "org1:proj1:dev"} {
		if !strings.Contains(err.Error(), id) {
			t.Errorf("error should enumerate offending id %s: %v", id, err)
		}
	}
	if len(q.published) != 0 {
		t.Error("failed create should not publish events")
	}
}

func TestCreateRejectsMixedSources(t *testing.T) {
	c, _, _, _ := newTestFixture()

	specs := []BranchSpec{
		{ID: "dev", Source: "master"},
		{ID: "dev2", Source: "dev"},
	}
	_, err := c.Create(testUser, "org1", "proj1", specs, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindDataFormat) {
		t.Fatalf("expected DataFormatError, got %v", err)
	}
	if !strings.Contains(err.Error(), "source field is not the same") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestCreateRejectsBadSegments(t *testing.T) {
	c, _, _, _ := newTestFixture()

	for _, id := range []string{"", "Has Spaces", "UPPER", "login", "branch", "-leading"} {
		_, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: id, Source: "master"}}, FindOptions{})
		if !apperrors.IsKind(err, apperrors.KindDataFormat) {
			t.Errorf("id %q: expected DataFormatError, got %v", id, err)
		}
	}
}

func TestCreateRejectsMissingSource(t *testing.T) {
	c, _, _, _ := newTestFixture()

	_, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "nope"}}, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	_, err = c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev"}}, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindDataFormat) {
		t.Fatalf("missing source field: expected DataFormatError, got %v", err)
	}
}

func TestCreateCloneShortfallRollsBack(t *testing.T) {
	c, d, _, q := newTestFixture()
	d.ElementShortfall = 1

	_, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "master"}}, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindDatabase) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
	if !strings.Contains(err.Error(), "not all elements were cloned") {
		t.Errorf("unexpected message: %v", err)
	}

	// Cleanup removed the partial write.
	if _, ok := d.Branches["org1:proj1:dev"]; ok {
		t.Error("failed create should delete the inserted branch")
	}
	if elements, _ := d.GetElementsByBranch("org1:proj1:dev"); len(elements) != 0 {
		t.Errorf("failed create should delete cloned elements, %d remain", len(elements))
	}
	if len(q.published) != 0 {
		t.Error("failed create should not publish events")
	}
	// The source branch survives untouched.
	if elements, _ := d.GetElementsByBranch("org1:proj1:master"); len(elements) != 3 {
		t.Errorf("source branch elements should be untouched, got %d", len(elements))
	}
}

func TestCreateCleanupFailurePreservesBothErrors(t *testing.T) {
	c, d, _, _ := newTestFixture()
	d.ElementShortfall = 1
	d.Err["DeleteBranches"] = errors.New("connection lost")

	_, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "master"}}, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindDatabase) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
	if !strings.Contains(err.Error(), "not all elements were cloned") {
		t.Errorf("original cause missing: %v", err)
	}
	if !strings.Contains(err.Error(), "cleanup") {
		t.Errorf("cleanup failure missing: %v", err)
	}
}

func TestFindArchiveVisibility(t *testing.T) {
	c, d, _, _ := newTestFixture()

	archived := models.MCFBranch{ID: "org1:proj1:old", Project: "org1:proj1", Name: "old",
		Source: models.ToNullString("org1:proj1:master")}
	archived.Archive("bob", time.Now().UTC())
	d.Branches[archived.ID] = archived

	byDefault, err := c.Find(testUser, "org1", "proj1", nil, FindOptions{})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(byDefault.Branches) != 1 || byDefault.Branches[0].ID != "org1:proj1:master" {
		t.Errorf("default find should return only master, got %+v", byDefault.Branches)
	}

	all, _ := c.Find(testUser, "org1", "proj1", nil, FindOptions{IncludeArchived: true})
	if len(all.Branches) != 2 {
		t.Errorf("includeArchived find should return 2 branches, got %d", len(all.Branches))
	}

	onlyArchived, _ := c.Find(testUser, "org1", "proj1", nil, FindOptions{ArchivedOnly: true})
	if len(onlyArchived.Branches) != 1 || onlyArchived.Branches[0].ID != "org1:proj1:old" {
		t.Errorf("archivedOnly find should return only old, got %+v", onlyArchived.Branches)
	}
}

func TestFindByIDsAndSourceFilter(t *testing.T) {
	c, _, _, _ := newTestFixture()

	if _, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "master"}}, FindOptions{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	named, err := c.Find(testUser, "org1", "proj1", []string{"dev"}, FindOptions{})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(named.Branches) != 1 || named.Branches[0].ID != "org1:proj1:dev" {
		t.Errorf("find by leaf id should qualify and match, got %+v", named.Branches)
	}

	children, err := c.Find(testUser, "org1", "proj1", nil, FindOptions{Filter: SearchFilter{Source: "master"}})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(children.Branches) != 1 || children.Branches[0].Source.String != "org1:proj1:master" {
		t.Errorf("source filter should qualify the leaf, got %+v", children.Branches)
	}
}

func TestFindRejectsBadCustomPath(t *testing.T) {
	c, _, _, _ := newTestFixture()

	opts := FindOptions{Filter: SearchFilter{Custom: map[string]string{"a'); drop table branch;--": "x"}}}
	_, err := c.Find(testUser, "org1", "proj1", nil, opts)
	if !apperrors.IsKind(err, apperrors.KindDataFormat) {
		t.Fatalf("expected DataFormatError, got %v", err)
	}
}

func TestFindUnknownOrgAndProject(t *testing.T) {
	c, _, _, _ := newTestFixture()

	if _, err := c.Find(testUser, "nope", "proj1", nil, FindOptions{}); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Errorf("unknown org: expected NotFoundError, got %v", err)
	}
	if _, err := c.Find(testUser, "org1", "nope", nil, FindOptions{}); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Errorf("unknown project: expected NotFoundError, got %v", err)
	}
}

func TestPermissionDenialMapsToPermissionError(t *testing.T) {
	c, _, a, _ := newTestFixture()
	a.Err = auth.ErrUserNotAuthorized

	if _, err := c.Find(testUser, "org1", "proj1", nil, FindOptions{}); !apperrors.IsKind(err, apperrors.KindPermission) {
		t.Errorf("find: expected PermissionError, got %v", err)
	}
	if _, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "master"}}, FindOptions{}); !apperrors.IsKind(err, apperrors.KindPermission) {
		t.Errorf("create: expected PermissionError, got %v", err)
	}
	if _, err := c.Remove(testUser, "org1", "proj1", []string{"dev"}); !apperrors.IsKind(err, apperrors.KindPermission) {
		t.Errorf("remove: expected PermissionError, got %v", err)
	}
}

func TestPermissionActionsPerOperation(t *testing.T) {
	c, _, a, _ := newTestFixture()

	c.Find(testUser, "org1", "proj1", nil, FindOptions{})
	c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "master"}}, FindOptions{})
	c.Remove(testUser, "org1", "proj1", []string{"dev"})

	want := []auth.Action{auth.ActionRead, auth.ActionWrite, auth.ActionDelete}
	if len(a.Calls) != len(want) {
		t.Fatalf("expected %d permission checks, got %d", len(want), len(a.Calls))
	}
	for i, action := range want {
		if a.Calls[i] != action {
			t.Errorf("check %d: expected %s, got %s", i, action, a.Calls[i])
		}
	}
}

func TestUpdateFields(t *testing.T) {
	c, d, _, q := newTestFixture()

	if _, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "master"}}, FindOptions{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	q.published = nil

	name := "Development"
	updates := []BranchUpdate{{ID: "dev", Name: &name, Custom: []byte(`{"team":"sysml"}`)}}
	result, err := c.Update(testUser, "org1", "proj1", updates, FindOptions{})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(result.Branches) != 1 || result.Branches[0].Name != "Development" {
		t.Errorf("name not updated: %+v", result.Branches)
	}
	if got := string(d.Branches["org1:proj1:dev"].Custom); got != `{"team":"sysml"}` {
		t.Errorf("custom not updated: %s", got)
	}
	if d.Branches["org1:proj1:dev"].ModifiedBy != "alice" {
		t.Error("update should stamp lastModifiedBy")
	}
	if got := q.actions(); len(got) != 1 || got[0] != events.ActionBranchesUpdated {
		t.Errorf("expected one %s event, got %v", events.ActionBranchesUpdated, got)
	}
}

func TestUpdateArchiveRoundTrip(t *testing.T) {
	c, d, _, _ := newTestFixture()

	if _, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "master"}}, FindOptions{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	archive := true
	if _, err := c.Update(testUser, "org1", "proj1", []BranchUpdate{{ID: "dev", Archived: &archive}}, FindOptions{}); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	branch := d.Branches["org1:proj1:dev"]
	if !branch.IsArchived || branch.ArchivedBy.String != "alice" || !branch.ArchivedDate.Valid {
		t.Errorf("archive state not recorded: %+v", branch.MCFArchivable)
	}

	// Archived branches refuse every change except unarchival.
	name := "x"
	_, err := c.Update(testUser, "org1", "proj1", []BranchUpdate{{ID: "dev", Name: &name}}, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindOperation) {
		t.Fatalf("archived branch field update: expected OperationError, got %v", err)
	}
	unarchive := false
	_, err = c.Update(testUser, "org1", "proj1", []BranchUpdate{{ID: "dev", Archived: &unarchive, Name: &name}}, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindOperation) {
		t.Fatalf("unarchive combined with field change: expected OperationError, got %v", err)
	}

	if _, err := c.Update(testUser, "org1", "proj1", []BranchUpdate{{ID: "dev", Archived: &unarchive}}, FindOptions{}); err != nil {
		t.Fatalf("unarchive failed: %v", err)
	}
	branch = d.Branches["org1:proj1:dev"]
	if branch.IsArchived || branch.ArchivedBy.Valid || branch.ArchivedDate.Valid {
		t.Errorf("unarchive should clear archive state: %+v", branch.MCFArchivable)
	}
}

func TestUpdateMasterCannotBeArchived(t *testing.T) {
	c, _, _, _ := newTestFixture()

	archive := true
	_, err := c.Update(testUser, "org1", "proj1", []BranchUpdate{{ID: "master", Archived: &archive}}, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindOperation) {
		t.Fatalf("expected OperationError, got %v", err)
	}
}

func TestUpdateMissingBranches(t *testing.T) {
	c, _, _, _ := newTestFixture()

	name := "x"
	updates := []BranchUpdate{{ID: "ghost", Name: &name}, {ID: "phantom", Name: &name}}
	_, err := c.Update(testUser, "org1", "proj1", updates, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	for _, id := range []string{"org1:proj1:ghost", "org1:proj1:phantom"} {
		if !strings.Contains(err.Error(), id) {
			t.Errorf("error should enumerate %s: %v", id, err)
		}
	}
}

func TestUpdateRejectsBadFieldValues(t *testing.T) {
	c, _, _, _ := newTestFixture()

	bad := "has<markup>"
	_, err := c.Update(testUser, "org1", "proj1", []BranchUpdate{{ID: "master", Name: &bad}}, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindDataFormat) {
		t.Errorf("invalid name: expected DataFormatError, got %v", err)
	}

	_, err = c.Update(testUser, "org1", "proj1", []BranchUpdate{{ID: "master", Custom: []byte(`[1,2]`)}}, FindOptions{})
	if !apperrors.IsKind(err, apperrors.KindDataFormat) {
		t.Errorf("non-object custom: expected DataFormatError, got %v", err)
	}
}

func TestRemoveCascades(t *testing.T) {
	c, d, _, q := newTestFixture()

	if _, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "master"}}, FindOptions{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	d.Webhooks["hook2"] = models.MCFWebhook{ID: "hook2", Reference: "org1:proj1:dev"}
	q.published = nil

	deleted, err := c.Remove(testUser, "org1", "proj1", []string{"dev", "dev"})
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "org1:proj1:dev" {
		t.Errorf("remove should dedupe and return composite ids, got %v", deleted)
	}

	if _, ok := d.Branches["org1:proj1:dev"]; ok {
		t.Error("branch should be deleted")
	}
	if elements, _ := d.GetElementsByBranch("org1:proj1:dev"); len(elements) != 0 {
		t.Errorf("cascade should delete elements, %d remain", len(elements))
	}
	if artifacts, _ := d.GetArtifactsByBranch("org1:proj1:dev"); len(artifacts) != 0 {
		t.Errorf("cascade should delete artifacts, %d remain", len(artifacts))
	}
	if _, ok := d.Webhooks["hook2"]; ok {
		t.Error("cascade should delete webhooks referencing the branch")
	}
	if _, ok := d.Webhooks["hook1"]; !ok {
		t.Error("webhooks on other branches must survive")
	}

	// Master and its subtree are untouched.
	if elements, _ := d.GetElementsByBranch("org1:proj1:master"); len(elements) != 3 {
		t.Errorf("master elements should survive, got %d", len(elements))
	}
	if got := q.actions(); len(got) != 1 || got[0] != events.ActionBranchesDeleted {
		t.Errorf("expected one %s event, got %v", events.ActionBranchesDeleted, got)
	}
}

func TestRemoveMasterForbidden(t *testing.T) {
	c, d, _, _ := newTestFixture()

	_, err := c.Remove(testUser, "org1", "proj1", []string{"master"})
	if !apperrors.IsKind(err, apperrors.KindOperation) {
		t.Fatalf("expected OperationError, got %v", err)
	}
	if _, ok := d.Branches["org1:proj1:master"]; !ok {
		t.Error("master must survive a rejected remove")
	}
	if elements, _ := d.GetElementsByBranch("org1:proj1:master"); len(elements) != 3 {
		t.Error("rejected remove must not cascade")
	}
}

func TestRemoveMissingAndEmpty(t *testing.T) {
	c, _, _, _ := newTestFixture()

	_, err := c.Remove(testUser, "org1", "proj1", []string{"ghost"})
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Errorf("missing branch: expected NotFoundError, got %v", err)
	}

	_, err = c.Remove(testUser, "org1", "proj1", nil)
	if !apperrors.IsKind(err, apperrors.KindDataFormat) {
		t.Errorf("empty id list: expected DataFormatError, got %v", err)
	}
}

func TestRemoveWorksOnArchivedScope(t *testing.T) {
	c, d, _, _ := newTestFixture()

	if _, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "master", Archived: true}}, FindOptions{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// Archiving the project must not block deletion of its branches.
	project := d.Projects["org1:proj1"]
	project.Archive("bob", time.Now().UTC())
	d.Projects["org1:proj1"] = project

	if _, err := c.Remove(testUser, "org1", "proj1", []string{"dev"}); err != nil {
		t.Fatalf("remove of archived branch in archived project failed: %v", err)
	}
}

func TestUpdateWorksOnArchivedScope(t *testing.T) {
	c, d, _, _ := newTestFixture()

	if _, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "master", Archived: true}}, FindOptions{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	project := d.Projects["org1:proj1"]
	project.Archive("bob", time.Now().UTC())
	d.Projects["org1:proj1"] = project

	unarchive := false
	updates := []BranchUpdate{{ID: "dev", Archived: &unarchive}}

	// Without opting into archived visibility the scope stays closed.
	if _, err := c.Update(testUser, "org1", "proj1", updates, FindOptions{}); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected NotFoundError for archived project, got %v", err)
	}

	// Opting in permits unarchiving a branch inside the archived project.
	if _, err := c.Update(testUser, "org1", "proj1", updates, FindOptions{IncludeArchived: true}); err != nil {
		t.Fatalf("update of branch in archived project failed: %v", err)
	}
	if d.Branches["org1:proj1:dev"].IsArchived {
		t.Error("branch should be unarchived")
	}
}

func TestResolveSources(t *testing.T) {
	c, _, _, _ := newTestFixture()

	if _, err := c.Create(testUser, "org1", "proj1", []BranchSpec{{ID: "dev", Source: "master"}, {ID: "dev2", Source: "master"}}, FindOptions{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	result, err := c.Find(testUser, "org1", "proj1", nil, FindOptions{})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	sources, err := c.ResolveSources(result)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("two branches share one source, expected 1 resolved, got %d", len(sources))
	}
	if _, ok := sources["org1:proj1:master"]; !ok {
		t.Error("master should be the resolved source")
	}
}
