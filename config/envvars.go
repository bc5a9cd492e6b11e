package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Environment variables. Each overrides the corresponding YAML field.
const (
	MCF_AWS_ACCESS_KEY_ID     = "MCF_AWS_ACCESS_KEY_ID"
	MCF_AWS_REGION            = "MCF_AWS_REGION"
	MCF_AWS_S3_BUCKET         = "MCF_AWS_S3_BUCKET"
	MCF_AWS_S3_ENDPOINT       = "MCF_AWS_S3_ENDPOINT"
	MCF_AWS_SECRET_ACCESS_KEY = "MCF_AWS_SECRET_ACCESS_KEY"
	MCF_DB_CONN_PARAMS        = "MCF_DB_CONN_PARAMS"
	MCF_DB_DRIVER             = "MCF_DB_DRIVER"
	MCF_DB_HOST               = "MCF_DB_HOST"
	MCF_DB_MAXIDLECONNS       = "MCF_DB_MAXIDLECONNS"
	MCF_DB_MAXOPENCONNS       = "MCF_DB_MAXOPENCONNS"
	MCF_DB_PASSWORD           = "MCF_DB_PASSWORD"
	MCF_DB_PORT               = "MCF_DB_PORT"
	MCF_DB_PROTOCOL           = "MCF_DB_PROTOCOL"
	MCF_DB_SCHEMA             = "MCF_DB_SCHEMA"
	MCF_DB_USERNAME           = "MCF_DB_USERNAME"
	MCF_EVENT_KAFKA_ADDRS     = "MCF_EVENT_KAFKA_ADDRS"
	MCF_EVENT_TOPIC           = "MCF_EVENT_TOPIC"
	MCF_EVENT_ZK_ADDRS        = "MCF_EVENT_ZK_ADDRS"
	MCF_ID_MAX_LENGTH         = "MCF_ID_MAX_LENGTH"
	MCF_SERVER_BASEPATH       = "MCF_SERVER_BASEPATH"
	MCF_SERVER_BIND           = "MCF_SERVER_BIND"
	MCF_SERVER_PORT           = "MCF_SERVER_PORT"
)

var maskedVars = map[string]bool{
	MCF_AWS_SECRET_ACCESS_KEY: true,
	MCF_DB_PASSWORD:           true,
}

// Vars lists every recognized environment variable with its current value,
// masking secrets, for the env diagnostic command.
func Vars() []string {
	names := []string{
		MCF_AWS_ACCESS_KEY_ID, MCF_AWS_REGION, MCF_AWS_S3_BUCKET,
		MCF_AWS_S3_ENDPOINT, MCF_AWS_SECRET_ACCESS_KEY, MCF_DB_CONN_PARAMS,
		MCF_DB_DRIVER, MCF_DB_HOST, MCF_DB_MAXIDLECONNS, MCF_DB_MAXOPENCONNS,
		MCF_DB_PASSWORD, MCF_DB_PORT, MCF_DB_PROTOCOL, MCF_DB_SCHEMA,
		MCF_DB_USERNAME, MCF_EVENT_KAFKA_ADDRS, MCF_EVENT_TOPIC,
		MCF_EVENT_ZK_ADDRS, MCF_ID_MAX_LENGTH, MCF_SERVER_BASEPATH,
		MCF_SERVER_BIND, MCF_SERVER_PORT,
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		value := os.Getenv(name)
		if maskedVars[name] && value != "" {
			value = "{masked}"
		}
		out = append(out, fmt.Sprintf("%s=%s", name, value))
	}
	return out
}

// cascade prefers the environment value, then the file value, then the
// built-in default.
func cascade(envVar, fileVal, defaultVal string) string {
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	if fileVal != "" {
		return fileVal
	}
	return defaultVal
}

func cascadeInt(envVar string, fileVal int, defaultVal int) int {
	if envVal := os.Getenv(envVar); envVal != "" {
		if parsed, err := strconv.Atoi(envVal); err == nil {
			return parsed
		}
	}
	if fileVal != 0 {
		return fileVal
	}
	return defaultVal
}

func cascadeList(envVar string, fileVal []string) []string {
	if envVal := os.Getenv(envVar); envVal != "" {
		var out []string
		for _, part := range strings.Split(envVal, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return fileVal
}

func getEnvOrDefaultInt(envVar string, defaultVal int64) int64 {
	if envVal := os.Getenv(envVar); envVal != "" {
		if parsed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}
