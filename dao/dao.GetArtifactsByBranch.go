package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

const artifactColumns = `
        id, projectId, branchId, filename, location, strategy, size,
        description, custom,
        createdBy, createdOn, lastModifiedBy, updatedOn,
        archived, archivedBy, archivedOn`

// GetArtifactsByBranch retrieves every artifact owned by a branch as full
// documents, archived included, for the clone engine.
func (dao *DataAccessLayer) GetArtifactsByBranch(branchID string) ([]models.MCFArtifact, error) {
	defer util.Time("GetArtifactsByBranch")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return nil, err
	}
	artifacts, err := getArtifactsByBranchInTransaction(tx, branchID)
	if err != nil {
		dao.GetLogger().Error("error in GetArtifactsByBranch", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return artifacts, err
}

func getArtifactsByBranchInTransaction(tx *sqlx.Tx, branchID string) ([]models.MCFArtifact, error) {
	var artifacts []models.MCFArtifact
	query := `select ` + artifactColumns + ` from artifact where branchId = ? order by id asc`
	err := tx.Select(&artifacts, query, branchID)
	return artifacts, err
}
