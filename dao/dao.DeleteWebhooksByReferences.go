package dao

import (
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/util"
)

// DeleteWebhooksByReferences removes every webhook subscribed to any of
// the given org, project, or branch ids.
func (dao *DataAccessLayer) DeleteWebhooksByReferences(references []string) (int64, error) {
	defer util.Time("DeleteWebhooksByReferences")()
	if len(references) == 0 {
		return 0, nil
	}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return 0, err
	}
	deleted, err := deleteByBranchesInTransaction(tx, "webhook", "reference", references)
	if err != nil {
		dao.GetLogger().Error("error in DeleteWebhooksByReferences", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return deleted, err
}
