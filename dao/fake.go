package dao

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
)

// FakeDAO is suitable for tests. It keeps entities in maps and mirrors the
// DataAccessLayer's observable semantics: sql.ErrNoRows for missing rows,
// duplicate-key failures on insert, row counts on bulk writes. Err lets a
// test force a failure for a named method, and ElementShortfall makes
// CreateElements under-report its count to exercise the clone integrity
// gate.
type FakeDAO struct {
	sync.Mutex
	Orgs      map[string]models.MCFOrganization
	Projects  map[string]models.MCFProject
	Users     map[string]models.MCFUser
	Branches  map[string]models.MCFBranch
	Elements  map[string]models.MCFElement
	Artifacts map[string]models.MCFArtifact
	Webhooks  map[string]models.MCFWebhook
	Err       map[string]error
	// ElementShortfall is subtracted from the count CreateElements reports.
	ElementShortfall int64
	Logger           *zap.Logger
}

var _ DAO = (*FakeDAO)(nil)

// NewFakeDAO constructs an empty FakeDAO.
func NewFakeDAO() *FakeDAO {
	return &FakeDAO{
		Orgs:      make(map[string]models.MCFOrganization),
		Projects:  make(map[string]models.MCFProject),
		Users:     make(map[string]models.MCFUser),
		Branches:  make(map[string]models.MCFBranch),
		Elements:  make(map[string]models.MCFElement),
		Artifacts: make(map[string]models.MCFArtifact),
		Webhooks:  make(map[string]models.MCFWebhook),
		Err:       make(map[string]error),
		Logger:    zap.NewNop(),
	}
}

func (fake *FakeDAO) forced(method string) error {
	return fake.Err[method]
}

// GetLogger for FakeDAO
func (fake *FakeDAO) GetLogger() *zap.Logger { return fake.Logger }

// GetDBState for FakeDAO
func (fake *FakeDAO) GetDBState() (models.DBState, error) {
	return models.DBState{SchemaVersion: SchemaVersion, Identifier: "fake"}, fake.forced("GetDBState")
}

// GetOrganization for FakeDAO
func (fake *FakeDAO) GetOrganization(id string) (models.MCFOrganization, error) {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("GetOrganization"); err != nil {
		return models.MCFOrganization{}, err
	}
	org, ok := fake.Orgs[id]
	if !ok {
		return models.MCFOrganization{}, sql.ErrNoRows
	}
	return org, nil
}

// GetProject for FakeDAO
func (fake *FakeDAO) GetProject(id string) (models.MCFProject, error) {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("GetProject"); err != nil {
		return models.MCFProject{}, err
	}
	project, ok := fake.Projects[id]
	if !ok {
		return models.MCFProject{}, sql.ErrNoRows
	}
	return project, nil
}

// GetUserByUsername for FakeDAO
func (fake *FakeDAO) GetUserByUsername(username string) (models.MCFUser, error) {
	fake.Lock()
	defer fake.Unlock()
	user, ok := fake.Users[username]
	if !ok {
		return models.MCFUser{}, sql.ErrNoRows
	}
	return user, nil
}

// GetBranch for FakeDAO
func (fake *FakeDAO) GetBranch(id string) (models.MCFBranch, error) {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("GetBranch"); err != nil {
		return models.MCFBranch{}, err
	}
	branch, ok := fake.Branches[id]
	if !ok {
		return models.MCFBranch{}, sql.ErrNoRows
	}
	return branch, nil
}

// GetBranches for FakeDAO
func (fake *FakeDAO) GetBranches(projectID string, branchIDs []string, filter BranchFilter, paging PagingRequest) (models.MCFBranchResultset, error) {
	fake.Lock()
	defer fake.Unlock()
	response := models.MCFBranchResultset{}
	if err := fake.forced("GetBranches"); err != nil {
		return response, err
	}
	requested := make(map[string]bool)
	for _, id := range branchIDs {
		requested[id] = true
	}
	ids := make([]string, 0, len(fake.Branches))
	for id := range fake.Branches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		branch := fake.Branches[id]
		if branch.Project != projectID {
			continue
		}
		if len(requested) > 0 && !requested[id] {
			continue
		}
		if !matchBranchFilter(branch, filter) {
			continue
		}
		response.Branches = append(response.Branches, branch)
	}
	response.TotalRows = len(response.Branches)
	skip := GetSanitizedSkip(paging.Skip)
	if skip > len(response.Branches) {
		skip = len(response.Branches)
	}
	response.Branches = response.Branches[skip:]
	if limit := GetSanitizedLimit(paging.Limit); limit > 0 && limit < len(response.Branches) {
		response.Branches = response.Branches[:limit]
	}
	response.PageRows = len(response.Branches)
	return response, nil
}

func matchBranchFilter(branch models.MCFBranch, filter BranchFilter) bool {
	switch {
	case filter.ArchivedOnly:
		if !branch.IsArchived {
			return false
		}
	case !filter.IncludeArchived:
		if branch.IsArchived {
			return false
		}
	}
	if filter.Source != "" && branch.Source.String != filter.Source {
		return false
	}
	if filter.Name != "" && branch.Name != filter.Name {
		return false
	}
	if filter.CreatedBy != "" && branch.CreatedBy != filter.CreatedBy {
		return false
	}
	if filter.ArchivedBy != "" && branch.ArchivedBy.String != filter.ArchivedBy {
		return false
	}
	if filter.Tag != nil && branch.Tag != *filter.Tag {
		return false
	}
	if len(filter.Custom) > 0 {
		var custom map[string]interface{}
		if err := json.Unmarshal(branch.Custom, &custom); err != nil {
			return false
		}
		for path, want := range filter.Custom {
			if fmt.Sprintf("%v", lookupPath(custom, path)) != want {
				return false
			}
		}
	}
	return true
}

func lookupPath(doc map[string]interface{}, path string) interface{} {
	parts := strings.Split(path, ".")
	var current interface{} = doc
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}

// CreateBranches for FakeDAO
func (fake *FakeDAO) CreateBranches(branches []models.MCFBranch) error {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("CreateBranches"); err != nil {
		return err
	}
	for _, branch := range branches {
		if _, exists := fake.Branches[branch.ID]; exists {
			return fmt.Errorf("Error 1062: Duplicate entry '%s' for key 'branch.PRIMARY'", branch.ID)
		}
	}
	for _, branch := range branches {
		fake.Branches[branch.ID] = branch
	}
	return nil
}

// UpdateBranches for FakeDAO
func (fake *FakeDAO) UpdateBranches(patches []BranchPatch) error {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("UpdateBranches"); err != nil {
		return err
	}
	for _, patch := range patches {
		branch, ok := fake.Branches[patch.ID]
		if !ok {
			continue
		}
		for field, value := range patch.Fields {
			if _, allowed := branchPatchColumns[field]; !allowed {
				return fmt.Errorf("field %s is not an updatable branch column", field)
			}
			applyBranchPatchField(&branch, field, value)
		}
		fake.Branches[patch.ID] = branch
	}
	return nil
}

func applyBranchPatchField(branch *models.MCFBranch, field string, value interface{}) {
	switch field {
	case "name":
		branch.Name, _ = value.(string)
	case "custom":
		switch v := value.(type) {
		case []byte:
			branch.Custom = types.JSONText(v)
		case string:
			branch.Custom = types.JSONText(v)
		}
	case "archived":
		branch.IsArchived, _ = value.(bool)
	case "archivedBy":
		branch.ArchivedBy, _ = value.(models.NullString)
	case "archivedOn":
		branch.ArchivedDate, _ = value.(models.NullTime)
	case "lastModifiedBy":
		branch.ModifiedBy, _ = value.(string)
	case "updatedOn":
		if t, ok := value.(models.NullTime); ok && t.Valid {
			branch.ModifiedDate = t.Time
		}
	}
}

// DeleteBranches for FakeDAO
func (fake *FakeDAO) DeleteBranches(branchIDs []string) (int64, error) {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("DeleteBranches"); err != nil {
		return 0, err
	}
	var deleted int64
	for _, id := range branchIDs {
		if _, ok := fake.Branches[id]; ok {
			delete(fake.Branches, id)
			deleted++
		}
	}
	return deleted, nil
}

// GetElementsByBranch for FakeDAO
func (fake *FakeDAO) GetElementsByBranch(branchID string) ([]models.MCFElement, error) {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("GetElementsByBranch"); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(fake.Elements))
	for id := range fake.Elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var elements []models.MCFElement
	for _, id := range ids {
		if fake.Elements[id].Branch == branchID {
			elements = append(elements, fake.Elements[id])
		}
	}
	return elements, nil
}

// CreateElements for FakeDAO
func (fake *FakeDAO) CreateElements(elements []models.MCFElement) (int64, error) {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("CreateElements"); err != nil {
		return 0, err
	}
	for _, element := range elements {
		if _, exists := fake.Elements[element.ID]; exists {
			return 0, fmt.Errorf("Error 1062: Duplicate entry '%s' for key 'element.PRIMARY'", element.ID)
		}
	}
	for _, element := range elements {
		fake.Elements[element.ID] = element
	}
	return int64(len(elements)) - fake.ElementShortfall, nil
}

// DeleteElementsByBranches for FakeDAO
func (fake *FakeDAO) DeleteElementsByBranches(branchIDs []string) (int64, error) {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("DeleteElementsByBranches"); err != nil {
		return 0, err
	}
	return deleteWhere(fake.Elements, func(e models.MCFElement) string { return e.Branch }, branchIDs), nil
}

// GetArtifactsByBranch for FakeDAO
func (fake *FakeDAO) GetArtifactsByBranch(branchID string) ([]models.MCFArtifact, error) {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("GetArtifactsByBranch"); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(fake.Artifacts))
	for id := range fake.Artifacts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var artifacts []models.MCFArtifact
	for _, id := range ids {
		if fake.Artifacts[id].Branch == branchID {
			artifacts = append(artifacts, fake.Artifacts[id])
		}
	}
	return artifacts, nil
}

// CreateArtifacts for FakeDAO
func (fake *FakeDAO) CreateArtifacts(artifacts []models.MCFArtifact) (int64, error) {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("CreateArtifacts"); err != nil {
		return 0, err
	}
	for _, artifact := range artifacts {
		fake.Artifacts[artifact.ID] = artifact
	}
	return int64(len(artifacts)), nil
}

// DeleteArtifactsByBranches for FakeDAO
func (fake *FakeDAO) DeleteArtifactsByBranches(branchIDs []string) (int64, error) {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("DeleteArtifactsByBranches"); err != nil {
		return 0, err
	}
	return deleteWhere(fake.Artifacts, func(a models.MCFArtifact) string { return a.Branch }, branchIDs), nil
}

// DeleteWebhooksByReferences for FakeDAO
func (fake *FakeDAO) DeleteWebhooksByReferences(references []string) (int64, error) {
	fake.Lock()
	defer fake.Unlock()
	if err := fake.forced("DeleteWebhooksByReferences"); err != nil {
		return 0, err
	}
	return deleteWhere(fake.Webhooks, func(w models.MCFWebhook) string { return w.Reference }, references), nil
}

func deleteWhere[T any](entities map[string]T, key func(T) string, ids []string) int64 {
	wanted := make(map[string]bool)
	for _, id := range ids {
		wanted[id] = true
	}
	var deleted int64
	for id, entity := range entities {
		if wanted[key(entity)] {
			delete(entities, id)
			deleted++
		}
	}
	return deleted
}
