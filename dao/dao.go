package dao

import (
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Open-MBEE/mcf-sub004/config"
	"github.com/Open-MBEE/mcf-sub004/metadata/models"
)

// SchemaVersion marks compatibility with previously created databases.
// On startup we check the recorded schema version and refuse to serve
// against an unknown one.
var SchemaVersion = "20260901"

// DAO defines the contract our app has with the database.
type DAO interface {
	CreateArtifacts(artifacts []models.MCFArtifact) (int64, error)
	CreateBranches(branches []models.MCFBranch) error
	CreateElements(elements []models.MCFElement) (int64, error)
	DeleteArtifactsByBranches(branchIDs []string) (int64, error)
	DeleteBranches(branchIDs []string) (int64, error)
	DeleteElementsByBranches(branchIDs []string) (int64, error)
	DeleteWebhooksByReferences(references []string) (int64, error)
	GetArtifactsByBranch(branchID string) ([]models.MCFArtifact, error)
	GetBranch(id string) (models.MCFBranch, error)
	GetBranches(projectID string, branchIDs []string, filter BranchFilter, paging PagingRequest) (models.MCFBranchResultset, error)
	GetDBState() (models.DBState, error)
	GetElementsByBranch(branchID string) ([]models.MCFElement, error)
	GetOrganization(id string) (models.MCFOrganization, error)
	GetProject(id string) (models.MCFProject, error)
	GetUserByUsername(username string) (models.MCFUser, error)
	UpdateBranches(patches []BranchPatch) error
	GetLogger() *zap.Logger
}

// BranchFilter narrows a branch query. Zero values mean "no constraint";
// the archive flags follow find's visibility contract: by default only
// non-archived rows are returned, IncludeArchived lifts the constraint,
// ArchivedOnly inverts it.
type BranchFilter struct {
	IncludeArchived bool
	ArchivedOnly    bool
	Source          string
	Name            string
	CreatedBy       string
	ArchivedBy      string
	Tag             *bool
	// Custom maps dot-delimited JSON paths inside the custom document to
	// required string values.
	Custom map[string]string
}

// PagingRequest bounds and orders a branch query. Limit 0 is unbounded.
type PagingRequest struct {
	Limit          int
	Skip           int
	SortBy         string
	SortDescending bool
}

// BranchPatch is one (key, patch) pair for a batch update. Fields maps
// updatable field names to their new values; the DAO rejects any field
// outside its column allow-list.
type BranchPatch struct {
	ID     string
	Fields map[string]interface{}
}

// DataAccessLayer is a concrete DAO implementation with a true DB connection.
type DataAccessLayer struct {
	// MetadataDB is the connection.
	MetadataDB *sqlx.DB
	// Logger has a default, but can be updated by passing options to constructor.
	Logger *zap.Logger
}

// Opt sets an option on DataAccessLayer.
type Opt func(*DataAccessLayer)

// WithLogger sets a custom logger on DataAccessLayer.
func WithLogger(logger *zap.Logger) Opt {
	return func(d *DataAccessLayer) {
		d.Logger = logger
	}
}

// NewDataAccessLayer constructs a new DataAccessLayer with defaults and
// options. The database instance identifier is also returned.
func NewDataAccessLayer(conf config.DatabaseConfiguration, opts ...Opt) (*DataAccessLayer, string, error) {

	db, err := conf.GetDatabaseHandle()
	if err != nil {
		return nil, "", err
	}
	d := DataAccessLayer{MetadataDB: db}

	defaults(&d)
	for _, opt := range opts {
		opt(&d)
	}

	if err := pingDB(&d); err != nil {
		return nil, "", fmt.Errorf("could not ping database: %v", err)
	}

	state, err := d.GetDBState()
	if err != nil {
		return nil, "", fmt.Errorf("getting db state failed: %v", err)
	}
	if state.SchemaVersion != SchemaVersion {
		return nil, "", fmt.Errorf("schema version %s does not match required %s", state.SchemaVersion, SchemaVersion)
	}

	return &d, state.Identifier, nil
}

func defaults(d *DataAccessLayer) {
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.InfoLevel)
	d.Logger = zap.New(core).With(zap.String("node", config.NodeID))
}

// GetLogger is a logger, probably for this session
func (d *DataAccessLayer) GetLogger() *zap.Logger {
	return d.Logger
}

func daoCompileCheck() DAO {
	// function exists to make compiler complain when interface changes.
	return &DataAccessLayer{}
}

func pingDB(d *DataAccessLayer) error {

	logger := d.GetLogger()

	attempts := 0
	max := 20
	sleep := 3

	var err error

	for attempts < max {

		attempts++

		err = d.MetadataDB.Ping()
		if err != nil {
			logger.Info("db sleep for retry")
			time.Sleep(time.Duration(sleep) * time.Second)
			continue
		}
		if _, err = d.GetDBState(); err != nil {
			logger.Info("db available but schema not populated")
			time.Sleep(time.Duration(sleep) * time.Second)
			continue
		}
		break
	}
	return err
}
