package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

// GetBranches retrieves branches scoped to a project, optionally narrowed
// to explicit ids, a search filter, and a page window. Insertion order by
// id is preserved unless a sort is requested.
func (dao *DataAccessLayer) GetBranches(projectID string, branchIDs []string, filter BranchFilter, paging PagingRequest) (models.MCFBranchResultset, error) {
	defer util.Time("GetBranches")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return models.MCFBranchResultset{}, err
	}
	response, err := getBranchesInTransaction(tx, projectID, branchIDs, filter, paging)
	if err != nil {
		dao.GetLogger().Error("error in GetBranches", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return response, err
}

func getBranchesInTransaction(tx *sqlx.Tx, projectID string, branchIDs []string, filter BranchFilter, paging PagingRequest) (models.MCFBranchResultset, error) {
	response := models.MCFBranchResultset{}

	where, args := buildBranchWhere(projectID, branchIDs, filter)

	query := `select ` + branchColumns + ` from branch ` + where + buildOrderBy(paging) + buildLimit(paging)
	if err := tx.Select(&response.Branches, query, args...); err != nil {
		return response, err
	}

	countQuery := `select count(*) from branch ` + where
	if err := tx.Get(&response.TotalRows, countQuery, args...); err != nil {
		return response, err
	}

	response.PageSize = GetSanitizedLimit(paging.Limit)
	response.PageRows = len(response.Branches)
	if response.PageSize > 0 {
		response.PageNumber = GetSanitizedSkip(paging.Skip)/response.PageSize + 1
		response.PageCount = (response.TotalRows + response.PageSize - 1) / response.PageSize
	} else {
		response.PageNumber = 1
		response.PageCount = 1
	}
	return response, nil
}

func buildBranchWhere(projectID string, branchIDs []string, filter BranchFilter) (string, []interface{}) {
	where := `where projectId = ?`
	args := []interface{}{projectID}

	if len(branchIDs) > 0 {
		where += ` and id in ` + inPlaceholders(len(branchIDs))
		for _, id := range branchIDs {
			args = append(args, id)
		}
	}

	switch {
	case filter.ArchivedOnly:
		where += ` and archived = 1`
	case !filter.IncludeArchived:
		where += ` and archived = 0`
	}

	if filter.Source != "" {
		where += ` and sourceId = ?`
		args = append(args, filter.Source)
	}
	if filter.Name != "" {
		where += ` and name = ?`
		args = append(args, filter.Name)
	}
	if filter.CreatedBy != "" {
		where += ` and createdBy = ?`
		args = append(args, filter.CreatedBy)
	}
	if filter.ArchivedBy != "" {
		where += ` and archivedBy = ?`
		args = append(args, filter.ArchivedBy)
	}
	if filter.Tag != nil {
		where += ` and tag = ?`
		args = append(args, *filter.Tag)
	}
	for path, value := range filter.Custom {
		if !ValidCustomPath(path) {
			continue
		}
		// path is validated against a strict charset before embedding
		where += ` and json_unquote(json_extract(custom, '$.` + path + `')) = ?`
		args = append(args, value)
	}

	return where, args
}
