package dao

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

// CreateBranches bulk-inserts branch documents in one statement. The
// unique key on id is the safety net for concurrent creates racing on the
// same identifier.
func (dao *DataAccessLayer) CreateBranches(branches []models.MCFBranch) error {
	defer util.Time("CreateBranches")()
	if len(branches) == 0 {
		return errors.New("no branches given to create")
	}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return err
	}
	err = createBranchesInTransaction(tx, branches)
	if err != nil {
		dao.GetLogger().Error("error in CreateBranches", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return err
}

func createBranchesInTransaction(tx *sqlx.Tx, branches []models.MCFBranch) error {
	insertStatement := `
    insert into branch (` + branchColumns + `)
    values (:id, :projectId, :sourceId, :name, :tag, :custom,
            :createdBy, :createdOn, :lastModifiedBy, :updatedOn,
            :archived, :archivedBy, :archivedOn)`
	_, err := tx.NamedExec(insertStatement, branches)
	return err
}
