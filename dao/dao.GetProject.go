package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

// GetProject retrieves a project by its composite id.
func (dao *DataAccessLayer) GetProject(id string) (models.MCFProject, error) {
	defer util.Time("GetProject")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return models.MCFProject{}, err
	}
	project, err := getProjectInTransaction(tx, id)
	if err != nil {
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return project, err
}

func getProjectInTransaction(tx *sqlx.Tx, id string) (models.MCFProject, error) {
	var project models.MCFProject
	getStatement := `
    select
        id, orgId, name, visibility, permissions, custom,
        createdBy, createdOn, lastModifiedBy, updatedOn,
        archived, archivedBy, archivedOn
    from project
    where id = ?`
	err := tx.Get(&project, getStatement, id)
	return project, err
}
