package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

// GetDBState retrieves the schema version and instance identifier recorded
// at migration time.
func (dao *DataAccessLayer) GetDBState() (models.DBState, error) {
	defer util.Time("GetDBState")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return models.DBState{}, err
	}
	dbState, err := getDBStateInTransaction(tx)
	if err != nil {
		dao.GetLogger().Error("error in GetDBState", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbState, err
}

func getDBStateInTransaction(tx *sqlx.Tx) (models.DBState, error) {
	var dbState models.DBState
	getStatement := `select createdDate, modifiedDate, schemaVersion, identifier from dbstate`
	err := tx.Get(&dbState, getStatement)
	return dbState, err
}
