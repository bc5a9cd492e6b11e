package config

import (
	"fmt"
	"io/ioutil"
	"strings"

	// Registers the driver GetDatabaseHandle opens connections with.
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v2"
)

var (
	defaultDBDriver = "mysql"
	defaultDBHost   = "metadatadb"
	defaultDBPort   = "3306"
)

// AppConfiguration is a structure that defines the known configuration format
// for this application.
type AppConfiguration struct {
	DatabaseConnection DatabaseConfiguration       `yaml:"database"`
	ServerSettings     ServerSettingsConfiguration `yaml:"server"`
	EventQueue         EventQueueConfiguration     `yaml:"event_queue"`
	ContentStore       ContentStoreConfiguration   `yaml:"content_store"`
}

// DatabaseConfiguration is a structure that defines the attributes
// needed for setting up database connection
type DatabaseConfiguration struct {
	// Driver specifies the database driver. Only "mysql" is supported.
	Driver string `yaml:"driver"`
	// Username is the database username.
	Username string `yaml:"username"`
	// Password is the database password.
	Password string `yaml:"password"`
	// Protocol specifies the network protocol. Only "tcp" is supported.
	Protocol string `yaml:"protocol"`
	// Host is the database hostname.
	Host string `yaml:"host"`
	// Port is the database port. Commonly 3306 for MySQL.
	Port string `yaml:"port"`
	// Schema is the database name to connect to.
	Schema string `yaml:"schema"`
	// Params are custom connection params injected into the DSN. These
	// will vary depending on your server's configuration.
	Params string `yaml:"conn_params"`
}

// ServerSettingsConfiguration holds the attributes needed for
// setting up the server listener.
type ServerSettingsConfiguration struct {
	// ListenPort is the TCP port the server listens on.
	ListenPort string `yaml:"port"`
	// ListenBind is the network address the server binds to.
	ListenBind string `yaml:"bind"`
	// BasePath is the base url prepended to every route.
	BasePath string `yaml:"base_path"`
	// MaxSegmentLength bounds a single identifier segment. 0 takes the
	// built-in default.
	MaxSegmentLength int `yaml:"max_segment_length"`
}

// EventQueueConfiguration holds the attributes needed for publishing
// lifecycle events to Kafka.
type EventQueueConfiguration struct {
	// KafkaAddrs is a list of host:port pairs of Kafka brokers. If set,
	// brokers are dialed directly and ZKAddrs is ignored.
	KafkaAddrs []string `yaml:"kafka_addrs"`
	// ZKAddrs is a list of host:port pairs of a ZooKeeper cluster that
	// holds Kafka broker registrations.
	ZKAddrs []string `yaml:"zk_addrs"`
	// PublishSuccessActions filters the event actions published. An entry
	// "*" publishes everything.
	PublishSuccessActions []string `yaml:"publish_success_actions"`
	// Topic overrides the default event topic.
	Topic string `yaml:"topic"`
}

// ContentStoreConfiguration holds the attributes needed for reaching the
// artifact content store.
type ContentStoreConfiguration struct {
	// Region is the AWS region of the bucket.
	Region string `yaml:"region"`
	// Endpoint overrides the S3 endpoint, for local stacks.
	Endpoint string `yaml:"endpoint"`
	// Bucket is the bucket artifact content is written to.
	Bucket string `yaml:"bucket"`
}

// NewAppConfiguration loads the YAML configuration file at path, then
// applies environment variable overrides. An empty path yields a
// configuration built from environment and defaults alone.
func NewAppConfiguration(path string) (AppConfiguration, error) {
	var conf AppConfiguration
	if path != "" {
		raw, err := ioutil.ReadFile(path)
		if err != nil {
			return conf, fmt.Errorf("could not read configuration file: %v", err)
		}
		if err := yaml.Unmarshal(raw, &conf); err != nil {
			return conf, fmt.Errorf("could not parse configuration file: %v", err)
		}
	}
	conf.DatabaseConnection = newDatabaseConfigFromEnv(conf)
	conf.ServerSettings = newServerSettingsFromEnv(conf)
	conf.EventQueue = newEventQueueFromEnv(conf)
	conf.ContentStore = newContentStoreFromEnv(conf)
	return conf, nil
}

func newDatabaseConfigFromEnv(confFile AppConfiguration) DatabaseConfiguration {
	var conf DatabaseConfiguration
	conf.Driver = cascade(MCF_DB_DRIVER, confFile.DatabaseConnection.Driver, defaultDBDriver)
	conf.Username = cascade(MCF_DB_USERNAME, confFile.DatabaseConnection.Username, "")
	conf.Password = cascade(MCF_DB_PASSWORD, confFile.DatabaseConnection.Password, "")
	conf.Protocol = cascade(MCF_DB_PROTOCOL, confFile.DatabaseConnection.Protocol, "tcp")
	conf.Host = cascade(MCF_DB_HOST, confFile.DatabaseConnection.Host, defaultDBHost)
	conf.Port = cascade(MCF_DB_PORT, confFile.DatabaseConnection.Port, defaultDBPort)
	conf.Schema = cascade(MCF_DB_SCHEMA, confFile.DatabaseConnection.Schema, "mcf")
	conf.Params = cascade(MCF_DB_CONN_PARAMS, confFile.DatabaseConnection.Params, "parseTime=true&collation=utf8mb4_unicode_ci")
	return conf
}

func newServerSettingsFromEnv(confFile AppConfiguration) ServerSettingsConfiguration {
	var conf ServerSettingsConfiguration
	conf.ListenPort = cascade(MCF_SERVER_PORT, confFile.ServerSettings.ListenPort, "4567")
	conf.ListenBind = cascade(MCF_SERVER_BIND, confFile.ServerSettings.ListenBind, "0.0.0.0")
	conf.BasePath = cascade(MCF_SERVER_BASEPATH, confFile.ServerSettings.BasePath, "/api")
	conf.MaxSegmentLength = cascadeInt(MCF_ID_MAX_LENGTH, confFile.ServerSettings.MaxSegmentLength, 0)
	return conf
}

func newEventQueueFromEnv(confFile AppConfiguration) EventQueueConfiguration {
	var conf EventQueueConfiguration
	conf.KafkaAddrs = cascadeList(MCF_EVENT_KAFKA_ADDRS, confFile.EventQueue.KafkaAddrs)
	conf.ZKAddrs = cascadeList(MCF_EVENT_ZK_ADDRS, confFile.EventQueue.ZKAddrs)
	conf.PublishSuccessActions = confFile.EventQueue.PublishSuccessActions
	if len(conf.PublishSuccessActions) == 0 {
		conf.PublishSuccessActions = []string{"*"}
	}
	conf.Topic = cascade(MCF_EVENT_TOPIC, confFile.EventQueue.Topic, "")
	return conf
}

func newContentStoreFromEnv(confFile AppConfiguration) ContentStoreConfiguration {
	var conf ContentStoreConfiguration
	conf.Region = cascade(MCF_AWS_REGION, confFile.ContentStore.Region, "us-east-1")
	conf.Endpoint = cascade(MCF_AWS_S3_ENDPOINT, confFile.ContentStore.Endpoint, "")
	conf.Bucket = cascade(MCF_AWS_S3_BUCKET, confFile.ContentStore.Bucket, "")
	return conf
}

// GetDatabaseHandle initializes database connection using the configuration
func (r *DatabaseConfiguration) GetDatabaseHandle() (*sqlx.DB, error) {
	db, err := sqlx.Open(r.Driver, r.buildDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(int(getEnvOrDefaultInt(MCF_DB_MAXIDLECONNS, 10)))
	db.SetMaxOpenConns(int(getEnvOrDefaultInt(MCF_DB_MAXOPENCONNS, 10)))
	return db, nil
}

// buildDSN prepares a Data Source Name suitable for the mysql driver:
// https://github.com/go-sql-driver/mysql.
func (r *DatabaseConfiguration) buildDSN() string {
	var dbDSN = ""
	if len(r.Username) > 0 {
		dbDSN += r.Username
		if len(r.Password) > 0 {
			dbDSN += ":" + r.Password
		}
		dbDSN += "@"
	}
	if len(r.Protocol) > 0 {
		dbDSN += r.Protocol + "("
		if len(r.Host) > 0 {
			dbDSN += r.Host
		} else {
			dbDSN += defaultDBHost
		}
		dbDSN += ":"
		if len(r.Port) > 0 {
			dbDSN += r.Port
		} else {
			dbDSN += defaultDBPort
		}
		dbDSN += ")"
	}
	dbDSN += "/" + r.Schema
	if len(r.Params) > 0 {
		dbDSN += "?" + r.Params
	}
	logDSN := dbDSN
	if len(r.Password) > 0 {
		logDSN = strings.Replace(logDSN, r.Password, "{password}", -1)
	}
	RootLogger.Info("using this connection string", zap.String("dbdsn", logDSN))
	return dbDSN
}
