package settings

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	IP                         = "ip"
	Port                       = "port"
	Loglevel                   = "loglevel"
	DataDirectory              = "directories.data"
	HistoryRecoveryPolicy      = "history.recoveryPolicy"
	HistoryCompress            = "history.compress"
	HistoryFsync               = "history.fsync"
	HistoryQueueWarnThreshold  = "history.queueWarnThreshold"
	CommitRateLimitingDuration = "commitRateLimiting.duration"
	CommitRateLimitingPoints   = "commitRateLimiting.points"
	DBType                     = "dbType"
	DBSettingsHost             = "dbSettings.host"
	DBSettingsUser             = "dbSettings.user"
	DBSettingsPassword         = "dbSettings.password"
	DBSettingsDatabase         = "dbSettings.database"
	DBSettingsPort             = "dbSettings.port"
	DBSettingsFilename         = "dbSettings.filename"
)

type ConfigKey struct {
	Key         string
	Default     any
	Description string
	// Secret values are masked by config show and config dump.
	Secret bool
}

const envPrefix = "WEBPROTEGE"

func EnvVar(key string) string {
	return envPrefix + "_" + strings.ToUpper(
		strings.ReplaceAll(key, ".", "_"),
	)
}

var Registry = []ConfigKey{
	// ---------------------------------------------------------------------
	// Core
	// ---------------------------------------------------------------------
	{Key: IP, Default: "0.0.0.0", Description: "Bind address"},
	{Key: Port, Default: "7777", Description: "HTTP server port"},
	{Key: Loglevel, Default: "info", Description: "Log level (debug, info, warn, error)"},
	{
		Key:         DataDirectory,
		Default:     "/srv/webprotege",
		Description: "Root of the data store, change histories live below it",
	},

	// ---------------------------------------------------------------------
	// Change history
	// ---------------------------------------------------------------------
	{
		Key:         HistoryRecoveryPolicy,
		Default:     "prefix",
		Description: "What loading keeps from a corrupt history: prefix, fail or resync",
	},
	{Key: HistoryCompress, Default: true, Description: "Compress revision blocks with snappy"},
	{Key: HistoryFsync, Default: true, Description: "Sync the history file after every revision"},
	{
		Key:         HistoryQueueWarnThreshold,
		Default:     1000,
		Description: "Pending writes per document before a warning is logged",
	},

	{
		Key:         CommitRateLimitingDuration,
		Default:     1,
		Description: "Window in seconds for revision submissions per client",
	},
	{
		Key:         CommitRateLimitingPoints,
		Default:     10,
		Description: "Revision submissions allowed per client and window, 0 disables the limit",
	},

	// ---------------------------------------------------------------------
	// Catalog database
	// ---------------------------------------------------------------------
	{Key: DBType, Default: SQLITE, Description: "Catalog database type (memory, sqlite, postgres)"},
	{Key: DBSettingsHost, Default: nil, Description: "Database host"},
	{Key: DBSettingsUser, Default: nil, Description: "Database user"},
	{Key: DBSettingsPassword, Default: nil, Description: "Database password", Secret: true},
	{Key: DBSettingsDatabase, Default: nil, Description: "Database name"},
	{Key: DBSettingsPort, Default: nil, Description: "Database port"},
	{
		Key:         DBSettingsFilename,
		Default:     "var/catalog.db",
		Description: "SQLite database filename",
	},
}

func ApplyRegistryDefaults() {
	for _, c := range Registry {
		viper.SetDefault(c.Key, c.Default)
	}
}
