package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

// CreateElements bulk-inserts element documents in one statement and
// returns the inserted row count. The count is the clone engine's
// integrity gate; the store offers no multi-document transaction spanning
// branch and element writes.
func (dao *DataAccessLayer) CreateElements(elements []models.MCFElement) (int64, error) {
	defer util.Time("CreateElements")()
	if len(elements) == 0 {
		return 0, nil
	}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return 0, err
	}
	inserted, err := createElementsInTransaction(tx, elements)
	if err != nil {
		dao.GetLogger().Error("error in CreateElements", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return inserted, err
}

func createElementsInTransaction(tx *sqlx.Tx, elements []models.MCFElement) (int64, error) {
	insertStatement := `
    insert into element (` + elementColumns + `)
    values (:id, :projectId, :branchId, :parentId, :sourceId, :targetId,
            :name, :documentation, :type, :custom,
            :createdBy, :createdOn, :lastModifiedBy, :updatedOn,
            :archived, :archivedBy, :archivedOn)`
	result, err := tx.NamedExec(insertStatement, elements)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
