package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/util"
)

// DeleteBranches removes branch documents by id and reports how many rows
// were actually deleted. Callers compare the count against what they
// resolved; a shortfall is their anomaly to report.
func (dao *DataAccessLayer) DeleteBranches(branchIDs []string) (int64, error) {
	defer util.Time("DeleteBranches")()
	if len(branchIDs) == 0 {
		return 0, nil
	}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return 0, err
	}
	deleted, err := deleteBranchesInTransaction(tx, branchIDs)
	if err != nil {
		dao.GetLogger().Error("error in DeleteBranches", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return deleted, err
}

func deleteBranchesInTransaction(tx *sqlx.Tx, branchIDs []string) (int64, error) {
	args := make([]interface{}, len(branchIDs))
	for i, id := range branchIDs {
		args[i] = id
	}
	result, err := tx.Exec(`delete from branch where id in `+inPlaceholders(len(branchIDs)), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
