package dao

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/util"
)

// UpdateBranches applies a batch of (id, patch) pairs as one store-level
// bulk operation: one write per branch, all within a single transaction.
// Patch fields outside the column allow-list abort the whole batch.
func (dao *DataAccessLayer) UpdateBranches(patches []BranchPatch) error {
	defer util.Time("UpdateBranches")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return err
	}
	err = updateBranchesInTransaction(tx, patches)
	if err != nil {
		dao.GetLogger().Error("error in UpdateBranches", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return err
}

func updateBranchesInTransaction(tx *sqlx.Tx, patches []BranchPatch) error {
	for _, patch := range patches {
		if patch.ID == "" {
			return fmt.Errorf("branch patch is missing an id")
		}
		if len(patch.Fields) == 0 {
			continue
		}
		set := ""
		args := make([]interface{}, 0, len(patch.Fields)+1)
		for field, value := range patch.Fields {
			column, ok := branchPatchColumns[field]
			if !ok {
				return fmt.Errorf("field %s is not an updatable branch column", field)
			}
			if set != "" {
				set += ", "
			}
			set += column + " = ?"
			args = append(args, value)
		}
		args = append(args, patch.ID)
		if _, err := tx.Exec(`update branch set `+set+` where id = ?`, args...); err != nil {
			return err
		}
	}
	return nil
}
