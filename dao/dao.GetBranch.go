package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

const branchColumns = `
        id, projectId, sourceId, name, tag, custom,
        createdBy, createdOn, lastModifiedBy, updatedOn,
        archived, archivedBy, archivedOn`

// GetBranch retrieves a single branch by its composite id regardless of
// archive state.
func (dao *DataAccessLayer) GetBranch(id string) (models.MCFBranch, error) {
	defer util.Time("GetBranch")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return models.MCFBranch{}, err
	}
	branch, err := getBranchInTransaction(tx, id)
	if err != nil {
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return branch, err
}

func getBranchInTransaction(tx *sqlx.Tx, id string) (models.MCFBranch, error) {
	var branch models.MCFBranch
	getStatement := `select ` + branchColumns + ` from branch where id = ?`
	err := tx.Get(&branch, getStatement, id)
	return branch, err
}
