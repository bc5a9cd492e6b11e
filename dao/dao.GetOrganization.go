package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

// GetOrganization retrieves an organization by its id. sql.ErrNoRows is
// returned unwrapped so callers can distinguish absence from failure.
func (dao *DataAccessLayer) GetOrganization(id string) (models.MCFOrganization, error) {
	defer util.Time("GetOrganization")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return models.MCFOrganization{}, err
	}
	org, err := getOrganizationInTransaction(tx, id)
	if err != nil {
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return org, err
}

func getOrganizationInTransaction(tx *sqlx.Tx, id string) (models.MCFOrganization, error) {
	var org models.MCFOrganization
	getStatement := `
    select
        id, name, permissions, custom,
        createdBy, createdOn, lastModifiedBy, updatedOn,
        archived, archivedBy, archivedOn
    from organization
    where id = ?`
	err := tx.Get(&org, getStatement, id)
	return org, err
}
