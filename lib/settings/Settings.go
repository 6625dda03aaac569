package settings

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type DBSettings struct {
	Filename string
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

type HistorySettings struct {
	// RecoveryPolicy is one of prefix, fail or resync.
	RecoveryPolicy     string
	Compress           bool
	Fsync              bool
	QueueWarnThreshold int
}

type CommitRateLimiting struct {
	// Duration of the window in seconds.
	Duration int
	Points   int
}

type Settings struct {
	Root               string
	SettingsFilename   string
	IP                 string `json:"ip"`
	Port               string `json:"port"`
	LogLevel           string `json:"loglevel"`
	DataDirectory      string `json:"dataDirectory"`
	History            HistorySettings
	CommitRateLimiting CommitRateLimiting
	DBType             IDBType     `json:"dbType"`
	DBSettings         *DBSettings `json:"dbSettings"`
}

// Displayed holds the settings the process was started with.
var Displayed Settings

const settingsPathEnv = "WEBPROTEGE_SETTINGS_PATH"

// SettingsPath is the settings.json to read, from WEBPROTEGE_SETTINGS_PATH or
// the working directory.
func SettingsPath() string {
	if dir := os.Getenv(settingsPathEnv); dir != "" {
		return filepath.Join(dir, "settings.json")
	}
	return "settings.json"
}

// InitSettings reads settings.json when present and falls back to defaults.
func InitSettings(logger *zap.SugaredLogger) (*Settings, error) {
	settingsFilePath := SettingsPath()
	content, err := os.ReadFile(settingsFilePath)
	if err != nil {
		logger.Infof("Could not read %s, default settings will be used", settingsFilePath)
		content = nil
	}

	setting, err := ReadConfig(string(content))
	if err != nil {
		return nil, err
	}
	setting.SettingsFilename = settingsFilePath
	setting.Root, _ = filepath.Abs(filepath.Dir(settingsFilePath))
	Displayed = *setting
	return setting, nil
}
