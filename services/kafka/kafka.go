package kafka

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/samuel/go-zookeeper/zk"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/events"
)

// Topic is the queue every branch lifecycle event is published to.
const Topic = "mcf-event"

// AsyncProducer is an events.Publisher implementation for Kafka queues.
type AsyncProducer struct {
	producer  sarama.AsyncProducer
	logger    *zap.Logger
	reconnect bool
	actions   []string
	topic     string
}

// Publish implements the events.Publisher interface. Only actions listed
// at construction are published; "*" publishes everything.
func (ap *AsyncProducer) Publish(e events.Event) {

	publishEvent := stringInSlice("*", ap.actions) || stringInSlice(e.EventAction(), ap.actions)
	if !publishEvent {
		return
	}

	msg := sarama.ProducerMessage{
		Topic: ap.topic,
		Value: sarama.ByteEncoder(e.Yield()),
	}

	ap.producer.Input() <- &msg
}

func stringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}

// Reconnect reports whether the producer has seen an error that requires
// re-establishing the connection.
func (ap *AsyncProducer) Reconnect() bool {
	return ap.reconnect
}

// Opt sets an option on an AsyncProducer.
type Opt func(*AsyncProducer)

// WithLogger sets a custom logger on an AsyncProducer.
func WithLogger(logger *zap.Logger) Opt {
	return func(ap *AsyncProducer) {
		ap.logger = logger
	}
}

// WithPublishActions restricts which event actions are published.
func WithPublishActions(actions []string) Opt {
	return func(ap *AsyncProducer) {
		ap.actions = actions
	}
}

// WithTopic overrides the default event topic.
func WithTopic(topic string) Opt {
	return func(ap *AsyncProducer) {
		if topic != "" {
			ap.topic = topic
		}
	}
}

// NewAsyncProducer constructs an AsyncProducer with internal defaults and
// supplied options.
func NewAsyncProducer(brokerList []string, opts ...Opt) (*AsyncProducer, error) {

	producer, err := sarama.NewAsyncProducer(brokerList, nil)
	if err != nil {
		return nil, err
	}
	ap := AsyncProducer{producer: producer, reconnect: false}
	defaults(&ap)
	for _, opt := range opts {
		opt(&ap)
	}
	ap.start()

	return &ap, nil
}

func defaults(ap *AsyncProducer) {
	ap.logger = zap.NewNop()
	ap.actions = []string{"*"}
	ap.topic = Topic
}

// DiscoverKafka keeps a connection to Kafka alive. A discovered instance
// is returned early, and a setter callback is invoked when nodes in the
// cluster change.
func DiscoverKafka(conn *zk.Conn, path string, setter func(*AsyncProducer), opts ...Opt) (*AsyncProducer, error) {

	brokers := buildBrokers(conn, path)
	if len(brokers) < 1 {
		return nil, errors.New("no broker data found at Kafka path")
	}

	ap, err := NewAsyncProducer(brokers, opts...)
	if err != nil {
		return nil, fmt.Errorf("broker data found, but could not establish connection to Kafka")
	}

	// Get the chan zk.Event for changes to children
	_, _, zkEvents, err := conn.ChildrenW(path)
	if err != nil {
		return nil, err
	}
	l := ap.logger

	go func() {
		for e := range zkEvents {
			l.Info("zk event watching kafka path", zap.String("type", e.Type.String()))
			if e.Type == zk.EventNodeChildrenChanged {
				brokers := buildBrokers(conn, path)
				if len(brokers) < 1 {
					l.Error("no kafka brokers found at zk path", zap.String("path", path))
					continue
				}
				p, err := NewAsyncProducer(brokers, opts...)
				if err != nil {
					l.Error("error re-creating Kafka connection", zap.Error(err))
					continue
				}
				l.Info("found kafka brokers", zap.Strings("brokers", brokers))
				// invoke the callback with a new instance
				setter(p)
			}
		}
	}()

	return ap, nil
}

type addr struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// buildBrokers queries a zookeeper path and returns a string slice of
// host:port pairs suitable for the kafka library's constructor. Errors are
// ignored, because the caller can decide what to do if a zero-length list
// of brokers is returned.
func buildBrokers(conn *zk.Conn, path string) []string {

	var brokers []string

	children, _, _ := conn.Children(path)
	for _, c := range children {
		data, _, err := conn.Get(path + "/" + c)
		if err != nil {
			break
		}
		var a addr
		if err := json.Unmarshal(data, &a); err != nil {
			break
		}
		brokers = append(brokers, fmt.Sprintf("%s:%v", a.Host, a.Port))
	}
	return brokers
}

func (ap *AsyncProducer) start() {

	go func() {
		defer func() { ap.reconnect = true }()
		for err := range ap.producer.Errors() {
			ap.logger.Error("kafka producer error", zap.Error(err))
			if requiresReconnect(err) {
				ap.reconnect = true
			}
		}
	}()

}

func requiresReconnect(err error) bool {

	pe, ok := err.(*sarama.ProducerError)
	if !ok {
		return false
	}

	if v, ok := pe.Err.(sarama.KError); ok {
		switch v {
		case sarama.ErrUnknown,
			sarama.ErrClosedClient,
			sarama.ErrUnknownTopicOrPartition,
			sarama.ErrLeaderNotAvailable,
			sarama.ErrNotLeaderForPartition,
			sarama.ErrBrokerNotAvailable,
			sarama.ErrNetworkException,
			sarama.ErrNotEnoughReplicas,
			sarama.ErrNotEnoughReplicasAfterAppend:
			return true
		}
	}
	return false
}
