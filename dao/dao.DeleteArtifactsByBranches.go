package dao

import (
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/util"
)

// DeleteArtifactsByBranches removes every artifact owned by any of the
// given branches and reports the deleted row count. Blob content cleanup
// is the caller's concern.
func (dao *DataAccessLayer) DeleteArtifactsByBranches(branchIDs []string) (int64, error) {
	defer util.Time("DeleteArtifactsByBranches")()
	if len(branchIDs) == 0 {
		return 0, nil
	}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return 0, err
	}
	deleted, err := deleteByBranchesInTransaction(tx, "artifact", "branchId", branchIDs)
	if err != nil {
		dao.GetLogger().Error("error in DeleteArtifactsByBranches", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return deleted, err
}
