package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/util"
)

// DeleteElementsByBranches removes every element owned by any of the given
// branches and reports the deleted row count.
func (dao *DataAccessLayer) DeleteElementsByBranches(branchIDs []string) (int64, error) {
	defer util.Time("DeleteElementsByBranches")()
	if len(branchIDs) == 0 {
		return 0, nil
	}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return 0, err
	}
	deleted, err := deleteByBranchesInTransaction(tx, "element", "branchId", branchIDs)
	if err != nil {
		dao.GetLogger().Error("error in DeleteElementsByBranches", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return deleted, err
}

func deleteByBranchesInTransaction(tx *sqlx.Tx, table string, column string, branchIDs []string) (int64, error) {
	args := make([]interface{}, len(branchIDs))
	for i, id := range branchIDs {
		args[i] = id
	}
	result, err := tx.Exec(`delete from `+table+` where `+column+` in `+inPlaceholders(len(branchIDs)), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
