package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

const elementColumns = `
        id, projectId, branchId, parentId, sourceId, targetId,
        name, documentation, type, custom,
        createdBy, createdOn, lastModifiedBy, updatedOn,
        archived, archivedBy, archivedOn`

// GetElementsByBranch retrieves every element owned by a branch as full
// documents. The clone engine needs all fields for the rewrite, so no
// projection is applied, and archived elements are included.
func (dao *DataAccessLayer) GetElementsByBranch(branchID string) ([]models.MCFElement, error) {
	defer util.Time("GetElementsByBranch")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return nil, err
	}
	elements, err := getElementsByBranchInTransaction(tx, branchID)
	if err != nil {
		dao.GetLogger().Error("error in GetElementsByBranch", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return elements, err
}

func getElementsByBranchInTransaction(tx *sqlx.Tx, branchID string) ([]models.MCFElement, error) {
	var elements []models.MCFElement
	query := `select ` + elementColumns + ` from element where branchId = ? order by id asc`
	err := tx.Select(&elements, query, branchID)
	return elements, err
}
