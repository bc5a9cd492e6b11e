package branches

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/apperrors"
	"github.com/Open-MBEE/mcf-sub004/auth"
	"github.com/Open-MBEE/mcf-sub004/dao"
	"github.com/Open-MBEE/mcf-sub004/events"
	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

// Controller orchestrates the branch lifecycle: find, create (with subtree
// cloning), update, and remove. All collaborators are injected; the
// controller holds no ambient state. Operations are linear pipelines with
// no internal fan-out; the store is the only shared mutable state.
type Controller struct {
	d                dao.DAO
	queue            events.Publisher
	authz            auth.Authorization
	logger           *zap.Logger
	maxSegmentLength int
}

// Opt sets an option on a Controller.
type Opt func(*Controller)

// WithLogger sets a custom logger on a Controller.
func WithLogger(logger *zap.Logger) Opt {
	return func(c *Controller) { c.logger = logger }
}

// WithMaxSegmentLength overrides the identifier segment length bound.
func WithMaxSegmentLength(n int) Opt {
	return func(c *Controller) { c.maxSegmentLength = n }
}

// NewController constructs a Controller with defaults and options.
func NewController(d dao.DAO, queue events.Publisher, authz auth.Authorization, opts ...Opt) *Controller {
	c := &Controller{
		d:                d,
		queue:            queue,
		authz:            authz,
		logger:           zap.NewNop(),
		maxSegmentLength: models.DefaultMaxSegmentLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// projectContext is the resolved org and project a request operates in.
type projectContext struct {
	org     models.MCFOrganization
	project models.MCFProject
}

// resolveContext validates the org and project exist and, unless archive
// inclusion was requested, that neither is archived. Runs before any
// permission check so absence is reported as such.
func (c *Controller) resolveContext(orgID string, projectID string, allowArchived bool) (projectContext, error) {
	var pc projectContext

	org, err := c.d.GetOrganization(orgID)
	if err == sql.ErrNoRows {
		return pc, apperrors.NewNotFoundError("org [%s] does not exist", orgID)
	}
	if err != nil {
		return pc, apperrors.NewDatabaseError(err, "error retrieving org [%s]", orgID)
	}
	if org.IsArchived && !allowArchived {
		return pc, apperrors.NewNotFoundError("org [%s] is archived", orgID)
	}

	qualified, err := models.CreateID(orgID, projectID)
	if err != nil {
		return pc, err
	}
	project, err := c.d.GetProject(qualified)
	if err == sql.ErrNoRows {
		return pc, apperrors.NewNotFoundError("project [%s] does not exist", projectID)
	}
	if err != nil {
		return pc, apperrors.NewDatabaseError(err, "error retrieving project [%s]", projectID)
	}
	if project.IsArchived && !allowArchived {
		return pc, apperrors.NewNotFoundError("project [%s] is archived", projectID)
	}

	pc.org = org
	pc.project = project
	return pc, nil
}

// checkPermission maps the permission gate's answers onto the error
// taxonomy.
func (c *Controller) checkPermission(user models.MCFUser, pc projectContext, action auth.Action) error {
	err := c.authz.CheckPermission(user, pc.org, pc.project, action)
	switch err {
	case nil:
		return nil
	case auth.ErrUserNotAuthorized, auth.ErrUserNotSpecified:
		return apperrors.NewPermissionError("user [%s] does not have permission to %s on project [%s]", user.Username, action, pc.project.ID)
	default:
		return apperrors.NewDatabaseError(err, "error checking permission on project [%s]", pc.project.ID)
	}
}

// qualifyBranchID joins org, project, and branch leaf into a composite id.
func qualifyBranchID(orgID string, projectID string, leaf string) (string, error) {
	return models.CreateID(orgID, projectID, leaf)
}

// Find retrieves branches in a project, optionally narrowed to explicit
// leaf ids and a search filter. Default visibility excludes archived
// branches; see FindOptions.
func (c *Controller) Find(user models.MCFUser, orgID string, projectID string, branchIDs []string, opts FindOptions) (models.MCFBranchResultset, error) {
	defer util.Time("BranchesFind")()
	var response models.MCFBranchResultset

	pc, err := c.resolveContext(orgID, projectID, opts.IncludeArchived || opts.ArchivedOnly)
	if err != nil {
		return response, err
	}
	if err := c.checkPermission(user, pc, auth.ActionRead); err != nil {
		return response, err
	}

	qualified := make([]string, 0, len(branchIDs))
	for _, leaf := range branchIDs {
		id, err := qualifyBranchID(orgID, projectID, leaf)
		if err != nil {
			return response, err
		}
		qualified = append(qualified, id)
	}

	qualifiedSource := ""
	if opts.Filter.Source != "" {
		if qualifiedSource, err = qualifyBranchID(orgID, projectID, opts.Filter.Source); err != nil {
			return response, err
		}
	}
	for path := range opts.Filter.Custom {
		if !dao.ValidCustomPath(path) {
			return response, apperrors.NewDataFormatError("invalid custom search path [%s]", path)
		}
	}

	response, err = c.d.GetBranches(pc.project.ID, qualified, opts.storeFilter(qualifiedSource), opts.storePaging())
	if err != nil {
		return response, apperrors.NewDatabaseError(err, "error retrieving branches for project [%s]", pc.project.ID)
	}
	return response, nil
}

// ResolveSources fetches the distinct source branches referenced by a
// result set, for reference-field population.
func (c *Controller) ResolveSources(result models.MCFBranchResultset) (map[string]models.MCFBranch, error) {
	sources := make(map[string]models.MCFBranch)
	for _, branch := range result.Branches {
		if !branch.Source.Valid {
			continue
		}
		id := branch.Source.String
		if _, done := sources[id]; done {
			continue
		}
		source, err := c.d.GetBranch(id)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, apperrors.NewDatabaseError(err, "error populating source branch [%s]", id)
		}
		sources[id] = source
	}
	return sources, nil
}

// Create creates one or more branches, cloning the full element and
// artifact subtree of the shared source branch into each. On any failure
// after the branch insert a single compensating cleanup deletes whatever
// this call already wrote; the returned error preserves the original
// cause, and the cleanup failure too if cleanup also failed.
func (c *Controller) Create(user models.MCFUser, orgID string, projectID string, specs []BranchSpec, opts FindOptions) (models.MCFBranchResultset, error) {
	defer util.Time("BranchesCreate")()
	var response models.MCFBranchResultset

	if len(specs) == 0 {
		return response, apperrors.NewDataFormatError("no branches given to create")
	}

	pc, err := c.resolveContext(orgID, projectID, false)
	if err != nil {
		return response, err
	}
	if err := c.checkPermission(user, pc, auth.ActionWrite); err != nil {
		return response, err
	}

	// Validate and qualify every spec before touching the store.
	sourceLeaf := specs[0].Source
	newIDs := make([]string, 0, len(specs))
	seen := make(map[string]bool)
	var duplicates []string
	for _, spec := range specs {
		if spec.ID == "" {
			return response, apperrors.NewDataFormatError("branch spec is missing an id")
		}
		if err := models.ValidateSegment(spec.ID, c.maxSegmentLength); err != nil {
			return response, err
		}
		if spec.Source == "" {
			return response, apperrors.NewDataFormatError("branch spec [%s] is missing a source", spec.ID)
		}
		if spec.Source != sourceLeaf {
			return response, apperrors.NewDataFormatError("source field is not the same")
		}
		if spec.Custom != nil {
			if err := models.ValidateBranchField("custom", spec.Custom); err != nil {
				return response, err
			}
		}
		id, err := qualifyBranchID(orgID, projectID, spec.ID)
		if err != nil {
			return response, err
		}
		if seen[id] {
			duplicates = append(duplicates, id)
			continue
		}
		seen[id] = true
		newIDs = append(newIDs, id)
	}

	existing, err := c.d.GetBranches(pc.project.ID, newIDs, dao.BranchFilter{IncludeArchived: true}, dao.PagingRequest{})
	if err != nil {
		return response, apperrors.NewDatabaseError(err, "error checking for existing branches")
	}
	for _, branch := range existing.Branches {
		duplicates = append(duplicates, branch.ID)
	}
	if len(duplicates) > 0 {
		return response, apperrors.NewOperationError("branch ids already exist: %s", apperrors.EnumerateIDs(duplicates))
	}

	// The source is shared across the batch; resolve it once.
	sourceID, err := qualifyBranchID(orgID, projectID, sourceLeaf)
	if err != nil {
		return response, err
	}
	source, err := c.d.GetBranch(sourceID)
	if err == sql.ErrNoRows {
		return response, apperrors.NewNotFoundError("source branch [%s] does not exist", sourceLeaf)
	}
	if err != nil {
		return response, apperrors.NewDatabaseError(err, "error retrieving source branch [%s]", sourceLeaf)
	}

	now := time.Now().UTC()
	newBranches := make([]models.MCFBranch, 0, len(specs))
	for _, spec := range specs {
		id, _ := qualifyBranchID(orgID, projectID, spec.ID)
		branch := models.MCFBranch{
			ID:      id,
			Project: pc.project.ID,
			Source:  models.ToNullString(source.ID),
			Name:    spec.Name,
			Tag:     spec.Tag,
			Custom:  normalizeCustom(spec.Custom),
		}
		if branch.Name == "" {
			branch.Name = spec.ID
		}
		branch.StampCreate(user.Username, now)
		if spec.Archived {
			branch.Archive(user.Username, now)
		}
		newBranches = append(newBranches, branch)
	}

	if err := c.d.CreateBranches(newBranches); err != nil {
		original := apperrors.NewDatabaseError(err, "error creating branches")
		return response, c.cleanupCreate(newIDs, original)
	}

	if err := c.cloneSubtree(source.ID, newBranches, user.Username, now); err != nil {
		return response, c.cleanupCreate(newIDs, err)
	}

	c.emit(events.ActionBranchesCreated, pc.project.ID, user.Username, newBranches)

	response, err = c.d.GetBranches(pc.project.ID, newIDs, dao.BranchFilter{IncludeArchived: true}, opts.storePaging())
	if err != nil {
		return response, apperrors.NewDatabaseError(err, "error retrieving created branches")
	}
	return response, nil
}

// cloneSubtree copies every element and artifact of the source branch into
// each new branch. The post-insert count check is the integrity gate: the
// store offers no transaction spanning these writes, so a mismatch is
// fatal rather than silently accepted.
func (c *Controller) cloneSubtree(sourceID string, newBranches []models.MCFBranch, username string, now time.Time) error {
	elements, err := c.d.GetElementsByBranch(sourceID)
	if err != nil {
		return apperrors.NewDatabaseError(err, "error retrieving elements of source branch [%s]", sourceID)
	}
	if len(elements) > 0 {
		clones, err := CloneElements(sourceID, elements, newBranches, username, now)
		if err != nil {
			return err
		}
		inserted, err := c.d.CreateElements(clones)
		if err != nil {
			return apperrors.NewDatabaseError(err, "error cloning elements of source branch [%s]", sourceID)
		}
		if inserted != int64(len(elements)*len(newBranches)) {
			return apperrors.NewDatabaseError(nil, "not all elements were cloned")
		}
	}

	artifacts, err := c.d.GetArtifactsByBranch(sourceID)
	if err != nil {
		return apperrors.NewDatabaseError(err, "error retrieving artifacts of source branch [%s]", sourceID)
	}
	if len(artifacts) == 0 {
		return nil
	}
	clones, err := CloneArtifacts(artifacts, newBranches, username, now)
	if err != nil {
		return err
	}
	inserted, err := c.d.CreateArtifacts(clones)
	if err != nil {
		return apperrors.NewDatabaseError(err, "error cloning artifacts of source branch [%s]", sourceID)
	}
	if inserted != int64(len(artifacts)*len(newBranches)) {
		return apperrors.NewDatabaseError(nil, "not all artifacts were cloned")
	}
	return nil
}

// cleanupCreate is the single compensating cleanup attempt for a failed
// create: delete whatever elements, artifacts, and branches this call
// already wrote, then surface the original error. Best-effort only; a
// crash between the inserts and this cleanup can leave orphans.
func (c *Controller) cleanupCreate(branchIDs []string, original error) error {
	c.logger.Warn("create failed, running compensating cleanup",
		zap.Strings("branches", branchIDs), zap.Error(original))

	var cleanupErr error
	if _, err := c.d.DeleteElementsByBranches(branchIDs); err != nil {
		cleanupErr = err
	}
	if _, err := c.d.DeleteArtifactsByBranches(branchIDs); err != nil && cleanupErr == nil {
		cleanupErr = err
	}
	if _, err := c.d.DeleteBranches(branchIDs); err != nil && cleanupErr == nil {
		cleanupErr = err
	}
	if cleanupErr != nil {
		c.logger.Error("compensating cleanup failed", zap.Error(cleanupErr))
	}
	return apperrors.CombineErrors(original, cleanupErr)
}

// Update applies one or more branch updates as a single batched store
// write. Archived branches accept nothing but unarchival; the master
// branch can never be archived. Opting into archived visibility also
// permits updates inside an archived org or project, so a branch can be
// unarchived without first unarchiving its scope.
func (c *Controller) Update(user models.MCFUser, orgID string, projectID string, updates []BranchUpdate, opts FindOptions) (models.MCFBranchResultset, error) {
	defer util.Time("BranchesUpdate")()
	var response models.MCFBranchResultset

	if len(updates) == 0 {
		return response, apperrors.NewDataFormatError("no branch updates given")
	}

	pc, err := c.resolveContext(orgID, projectID, opts.IncludeArchived)
	if err != nil {
		return response, err
	}
	if err := c.checkPermission(user, pc, auth.ActionWrite); err != nil {
		return response, err
	}

	ids := make([]string, 0, len(updates))
	seen := make(map[string]bool)
	for _, update := range updates {
		if update.ID == "" {
			return response, apperrors.NewDataFormatError("branch update is missing an id")
		}
		id, err := qualifyBranchID(orgID, projectID, update.ID)
		if err != nil {
			return response, err
		}
		if seen[id] {
			return response, apperrors.NewDataFormatError("duplicate branch id [%s] in one update", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}

	existing, err := c.d.GetBranches(pc.project.ID, ids, dao.BranchFilter{IncludeArchived: true}, dao.PagingRequest{})
	if err != nil {
		return response, apperrors.NewDatabaseError(err, "error retrieving branches to update")
	}
	byID := make(map[string]models.MCFBranch, len(existing.Branches))
	for _, branch := range existing.Branches {
		byID[branch.ID] = branch
	}
	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return response, apperrors.NewNotFoundError("branches do not exist: %s", apperrors.EnumerateIDs(missing))
	}

	now := time.Now().UTC()
	patches := make([]dao.BranchPatch, 0, len(updates))
	for _, update := range updates {
		id, _ := qualifyBranchID(orgID, projectID, update.ID)
		branch := byID[id]
		patch, err := buildBranchPatch(branch, update, user.Username, now)
		if err != nil {
			return response, err
		}
		patches = append(patches, patch)
	}

	if err := c.d.UpdateBranches(patches); err != nil {
		return response, apperrors.NewDatabaseError(err, "error updating branches")
	}

	c.emit(events.ActionBranchesUpdated, pc.project.ID, user.Username, ids)

	response, err = c.d.GetBranches(pc.project.ID, ids, dao.BranchFilter{IncludeArchived: true}, opts.storePaging())
	if err != nil {
		return response, apperrors.NewDatabaseError(err, "error retrieving updated branches")
	}
	return response, nil
}

// buildBranchPatch validates one update against the branch's current state
// and the field validator registry, and renders the store patch.
func buildBranchPatch(branch models.MCFBranch, update BranchUpdate, username string, now time.Time) (dao.BranchPatch, error) {
	patch := dao.BranchPatch{ID: branch.ID, Fields: make(map[string]interface{})}

	// An archived branch accepts exactly one change: archived=false.
	if branch.IsArchived {
		unarchiving := update.Archived != nil && !*update.Archived
		if !unarchiving || update.hasFieldChangesBesidesArchived() {
			return patch, apperrors.NewOperationError("branch [%s] is archived and must be unarchived first", branch.ID)
		}
	}

	if update.Name != nil {
		if err := models.ValidateBranchField("name", *update.Name); err != nil {
			return patch, err
		}
		patch.Fields["name"] = *update.Name
	}
	if update.Custom != nil {
		if err := models.ValidateBranchField("custom", update.Custom); err != nil {
			return patch, err
		}
		patch.Fields["custom"] = []byte(update.Custom)
	}
	if update.Archived != nil {
		if err := models.ValidateBranchField("archived", *update.Archived); err != nil {
			return patch, err
		}
		switch {
		case *update.Archived && !branch.IsArchived:
			if branch.IsMaster() {
				return patch, apperrors.NewOperationError("master branch [%s] cannot be archived", branch.ID)
			}
			patch.Fields["archived"] = true
			patch.Fields["archivedBy"] = models.ToNullString(username)
			patch.Fields["archivedOn"] = models.ToNullTime(now)
		case !*update.Archived && branch.IsArchived:
			patch.Fields["archived"] = false
			patch.Fields["archivedBy"] = models.NullString{}
			patch.Fields["archivedOn"] = models.NullTime{}
		}
	}

	patch.Fields["lastModifiedBy"] = username
	patch.Fields["updatedOn"] = models.ToNullTime(now)
	return patch, nil
}

// Remove deletes branches and cascades to every element, artifact, and
// webhook referencing them. A shortfall in the branch delete count is
// logged, not thrown: the branches the store did delete are gone either
// way, and an orphaned document is lower severity than failing a delete
// the caller already committed to.
func (c *Controller) Remove(user models.MCFUser, orgID string, projectID string, branchIDs []string) ([]string, error) {
	defer util.Time("BranchesRemove")()

	if len(branchIDs) == 0 {
		return nil, apperrors.NewDataFormatError("no branch ids given to remove")
	}

	pc, err := c.resolveContext(orgID, projectID, true)
	if err != nil {
		return nil, err
	}
	if err := c.checkPermission(user, pc, auth.ActionDelete); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(branchIDs))
	seen := make(map[string]bool)
	for _, leaf := range branchIDs {
		id, err := qualifyBranchID(orgID, projectID, leaf)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	existing, err := c.d.GetBranches(pc.project.ID, ids, dao.BranchFilter{IncludeArchived: true}, dao.PagingRequest{})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err, "error retrieving branches to remove")
	}
	found := make(map[string]models.MCFBranch, len(existing.Branches))
	for _, branch := range existing.Branches {
		found[branch.ID] = branch
	}
	var missing []string
	var protected []string
	for _, id := range ids {
		branch, ok := found[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if branch.IsMaster() {
			protected = append(protected, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewNotFoundError("branches do not exist: %s", apperrors.EnumerateIDs(missing))
	}
	if len(protected) > 0 {
		return nil, apperrors.NewOperationError("master branch cannot be deleted: %s", apperrors.EnumerateIDs(protected))
	}

	if _, err := c.d.DeleteElementsByBranches(ids); err != nil {
		return nil, apperrors.NewDatabaseError(err, "error deleting elements of branches")
	}
	if _, err := c.d.DeleteArtifactsByBranches(ids); err != nil {
		return nil, apperrors.NewDatabaseError(err, "error deleting artifacts of branches")
	}
	if _, err := c.d.DeleteWebhooksByReferences(ids); err != nil {
		return nil, apperrors.NewDatabaseError(err, "error deleting webhooks of branches")
	}

	deleted, err := c.d.DeleteBranches(ids)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err, "error deleting branches")
	}
	if deleted != int64(len(ids)) {
		c.logger.Warn("not all branches were deleted",
			zap.Int64("deleted", deleted), zap.Int("expected", len(ids)))
	}

	c.emit(events.ActionBranchesDeleted, pc.project.ID, user.Username, ids)
	return ids, nil
}

// emit publishes a lifecycle event. Fire-and-forget.
func (c *Controller) emit(action string, projectID string, username string, payload interface{}) {
	c.queue.Publish(events.MCFEvent{
		Action:    action,
		Project:   projectID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Username:  username,
		Payload:   payload,
	})
}

// normalizeCustom defaults an absent custom document to an empty object.
func normalizeCustom(custom json.RawMessage) types.JSONText {
	if len(custom) == 0 {
		return types.JSONText("{}")
	}
	return types.JSONText(custom)
}
