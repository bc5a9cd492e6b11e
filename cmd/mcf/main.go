package main

import (
	"fmt"
	"os"
	"time"

	"github.com/samuel/go-zookeeper/zk"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/auth"
	"github.com/Open-MBEE/mcf-sub004/branches"
	"github.com/Open-MBEE/mcf-sub004/config"
	"github.com/Open-MBEE/mcf-sub004/dao"
	"github.com/Open-MBEE/mcf-sub004/events"
	"github.com/Open-MBEE/mcf-sub004/server"
	"github.com/Open-MBEE/mcf-sub004/services/filestore"
	"github.com/Open-MBEE/mcf-sub004/services/kafka"
)

var logger = config.RootLogger

// Services that require network
const (
	DatabaseService  = "db"
	KafkaService     = "kafka"
	S3Service        = "s3"
	ZookeeperService = "zk"
)

// zkKafkaPath is where Kafka brokers register themselves in ZooKeeper.
const zkKafkaPath = "/brokers/ids"

func main() {

	cliParser := cli.NewApp()
	cliParser.Name = "mcf"
	cliParser.Usage = "model configuration framework server binary"
	cliParser.Version = "1.0"

	cliParser.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "conf",
			Usage: "Path to yaml configuration file.",
			Value: "",
		},
	}

	cliParser.Commands = []cli.Command{
		{
			Name:  "env",
			Usage: "Print all environment variables",
			Action: func(ctx *cli.Context) error {
				for _, v := range config.Vars() {
					fmt.Println(v)
				}
				return nil
			},
		},
		{
			Name:   "migrate",
			Usage:  "Create the database schema and record the schema version",
			Action: runMigrate,
		},
		{
			Name:   "testService",
			Usage:  "Run network diagnostic test against a service dependency. Values: db, kafka, s3, zk",
			Action: runServiceTest,
		},
	}

	cliParser.Action = func(c *cli.Context) error {
		conf, err := loadConfig(c)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		startApplication(conf)
		return nil
	}

	cliParser.Run(os.Args)
}

func loadConfig(ctx *cli.Context) (config.AppConfiguration, error) {
	conf, err := config.NewAppConfiguration(ctx.GlobalString("conf"))
	if err != nil {
		return conf, fmt.Errorf("error loading configuration: %v", err)
	}
	return conf, nil
}

// runMigrate applies the schema statements and seeds the dbstate record
// that NewDataAccessLayer checks on startup. Statements are idempotent,
// so re-running against an initialized database is safe.
func runMigrate(ctx *cli.Context) error {
	conf, err := loadConfig(ctx)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	db, err := conf.DatabaseConnection.GetDatabaseHandle()
	if err != nil {
		fmt.Printf("Cannot open database handle: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	for _, stmt := range dao.SchemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			fmt.Printf("Schema statement failed: %v\n", err)
			os.Exit(1)
		}
	}
	var count int
	if err := db.Get(&count, "select count(*) from dbstate"); err != nil {
		fmt.Printf("Cannot read dbstate: %v\n", err)
		os.Exit(1)
	}
	if count == 0 {
		_, err := db.Exec("insert into dbstate (schemaVersion, identifier) values (?, ?)",
			dao.SchemaVersion, config.NodeID)
		if err != nil {
			fmt.Printf("Cannot seed dbstate: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Database migrated to schema version %s\n", dao.SchemaVersion)
	return nil
}

func runServiceTest(ctx *cli.Context) error {
	conf, err := loadConfig(ctx)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	service := ctx.Args().First()
	switch service {
	case DatabaseService:
		_, identifier, err := dao.NewDataAccessLayer(conf.DatabaseConnection)
		if err != nil {
			fmt.Printf("Cannot connect to database: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Database reachable. Instance identifier: %s\n", identifier)
	case KafkaService:
		if len(conf.EventQueue.KafkaAddrs) == 0 {
			fmt.Println("No kafka brokers configured. Set MCF_EVENT_KAFKA_ADDRS.")
			os.Exit(1)
		}
		_, err := kafka.NewAsyncProducer(conf.EventQueue.KafkaAddrs, kafka.WithLogger(logger))
		if err != nil {
			fmt.Printf("Cannot connect to kafka brokers: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Kafka brokers reachable.")
	case ZookeeperService:
		if len(conf.EventQueue.ZKAddrs) == 0 {
			fmt.Println("No zookeeper addresses configured. Set MCF_EVENT_ZK_ADDRS.")
			os.Exit(1)
		}
		conn, _, err := zk.Connect(conf.EventQueue.ZKAddrs, 5*time.Second)
		if err != nil {
			fmt.Printf("Cannot connect to zookeeper: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		children, _, err := conn.Children(zkKafkaPath)
		if err != nil {
			fmt.Printf("Cannot read %s: %v\n", zkKafkaPath, err)
			os.Exit(1)
		}
		fmt.Printf("Zookeeper reachable. %d kafka brokers registered.\n", len(children))
	case S3Service:
		store := filestore.NewS3ContentStore(conf.ContentStore, logger)
		if err := store.Test(); err != nil {
			fmt.Printf("Cannot access content store: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Can read and write bucket referenced by MCF_AWS_S3_BUCKET")
	default:
		fmt.Println("Unknown service:", service)
		os.Exit(1)
	}
	return nil
}

func startApplication(conf config.AppConfiguration) {

	app, err := server.NewAppServer(conf.ServerSettings)
	if err != nil {
		logger.Error("error creating server", zap.Error(err))
		os.Exit(1)
	}

	d, dbID, err := dao.NewDataAccessLayer(conf.DatabaseConnection, dao.WithLogger(logger))
	if err != nil {
		logger.Error("error configuring dao, check environment variable settings for MCF_DB_*", zap.Error(err))
		os.Exit(1)
	}
	app.RootDAO = d

	logger.Info("join cluster", zap.String("database", dbID), zap.String("node", config.NodeID))

	app.EventQueue = connectEventQueue(conf.EventQueue)

	app.Branches = branches.NewController(d, app.EventQueue, auth.ProjectAuthorization{},
		branches.WithLogger(logger),
		branches.WithMaxSegmentLength(conf.ServerSettings.MaxSegmentLength),
	)

	if err := app.ListenAndServe(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

// connectEventQueue wires the lifecycle event publisher. Brokers given
// directly take precedence; otherwise brokers are discovered through
// ZooKeeper and the producer behind the returned publisher is swapped
// when the broker set changes. With neither configured, events are
// dropped.
func connectEventQueue(conf config.EventQueueConfiguration) events.Publisher {
	opts := []kafka.Opt{
		kafka.WithLogger(logger),
		kafka.WithPublishActions(conf.PublishSuccessActions),
		kafka.WithTopic(conf.Topic),
	}
	if len(conf.KafkaAddrs) > 0 {
		ap, err := kafka.NewAsyncProducer(conf.KafkaAddrs, opts...)
		if err != nil {
			logger.Error("cannot connect to kafka brokers", zap.Strings("addrs", conf.KafkaAddrs), zap.Error(err))
			os.Exit(1)
		}
		logger.Info("event queue connected", zap.Strings("brokers", conf.KafkaAddrs))
		return ap
	}
	if len(conf.ZKAddrs) > 0 {
		conn, _, err := zk.Connect(conf.ZKAddrs, 5*time.Second)
		if err != nil {
			logger.Error("cannot connect to zookeeper", zap.Strings("addrs", conf.ZKAddrs), zap.Error(err))
			os.Exit(1)
		}
		queue := events.NewSwappablePublisher(events.NullPublisher{})
		setter := func(ap *kafka.AsyncProducer) {
			queue.Swap(ap)
		}
		ap, err := kafka.DiscoverKafka(conn, zkKafkaPath, setter, opts...)
		if err != nil {
			logger.Error("cannot discover kafka from zookeeper", zap.Error(err))
			os.Exit(1)
		}
		queue.Swap(ap)
		logger.Info("event queue connected via zookeeper discovery")
		return queue
	}
	logger.Info("no event queue configured, events will be dropped")
	return events.NullPublisher{}
}
