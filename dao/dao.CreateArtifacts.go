package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

// CreateArtifacts bulk-inserts artifact documents in one statement and
// returns the inserted row count for the clone integrity gate.
func (dao *DataAccessLayer) CreateArtifacts(artifacts []models.MCFArtifact) (int64, error) {
	defer util.Time("CreateArtifacts")()
	if len(artifacts) == 0 {
		return 0, nil
	}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return 0, err
	}
	inserted, err := createArtifactsInTransaction(tx, artifacts)
	if err != nil {
		dao.GetLogger().Error("error in CreateArtifacts", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return inserted, err
}

func createArtifactsInTransaction(tx *sqlx.Tx, artifacts []models.MCFArtifact) (int64, error) {
	insertStatement := `
    insert into artifact (` + artifactColumns + `)
    values (:id, :projectId, :branchId, :filename, :location, :strategy, :size,
            :description, :custom,
            :createdBy, :createdOn, :lastModifiedBy, :updatedOn,
            :archived, :archivedBy, :archivedOn)`
	result, err := tx.NamedExec(insertStatement, artifacts)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
