package dao

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

// GetUserByUsername retrieves a user account by its unique username.
func (dao *DataAccessLayer) GetUserByUsername(username string) (models.MCFUser, error) {
	defer util.Time("GetUserByUsername")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("could not begin transaction", zap.Error(err))
		return models.MCFUser{}, err
	}
	user, err := getUserByUsernameInTransaction(tx, username)
	if err != nil {
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return user, err
}

func getUserByUsernameInTransaction(tx *sqlx.Tx, username string) (models.MCFUser, error) {
	var user models.MCFUser
	getStatement := `
    select
        username, email, fname, lname, admin,
        createdBy, createdOn, lastModifiedBy, updatedOn,
        archived, archivedBy, archivedOn
    from user
    where username = ?`
	err := tx.Get(&user, getStatement, username)
	return user, err
}
