package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NodeID is a random identifier for this process instance, used to
// correlate log lines and event payloads across a cluster.
var NodeID = RandomID()

// RootLogger is the process-wide logger that request loggers derive from.
var RootLogger = newRootLogger()

func newRootLogger() *zap.Logger {
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.InfoLevel)
	return zap.New(core).With(zap.String("node", NodeID))
}

// RandomID returns a short random hex identifier.
func RandomID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(buf)
}
