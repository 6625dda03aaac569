package settings

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ReadConfig builds the settings from jsonStr, the environment and the
// registry defaults, in that order of precedence after the environment.
func ReadConfig(jsonStr string) (*Settings, error) {
	viper.Reset()
	viper.SetConfigName("settings")
	viper.SetConfigType("json")

	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	ApplyRegistryDefaults()

	if strings.TrimSpace(jsonStr) != "" {
		if err := viper.ReadConfig(strings.NewReader(jsonStr)); err != nil {
			return nil, err
		}
	}

	dbTypeToUse, err := ParseDBType(viper.GetString(DBType))
	if err != nil {
		return nil, err
	}

	policy := viper.GetString(HistoryRecoveryPolicy)
	switch policy {
	case "prefix", "fail", "resync":
	default:
		return nil, fmt.Errorf("unknown recovery policy: %q", policy)
	}

	s := &Settings{
		IP:            viper.GetString(IP),
		Port:          viper.GetString(Port),
		LogLevel:      viper.GetString(Loglevel),
		DataDirectory: viper.GetString(DataDirectory),
		History: HistorySettings{
			RecoveryPolicy:     policy,
			Compress:           viper.GetBool(HistoryCompress),
			Fsync:              viper.GetBool(HistoryFsync),
			QueueWarnThreshold: viper.GetInt(HistoryQueueWarnThreshold),
		},
		CommitRateLimiting: CommitRateLimiting{
			Duration: viper.GetInt(CommitRateLimitingDuration),
			Points:   viper.GetInt(CommitRateLimitingPoints),
		},
		DBType: dbTypeToUse,
		DBSettings: &DBSettings{
			Host:     viper.GetString(DBSettingsHost),
			Port:     viper.GetString(DBSettingsPort),
			Database: viper.GetString(DBSettingsDatabase),
			User:     viper.GetString(DBSettingsUser),
			Password: viper.GetString(DBSettingsPassword),
			Filename: viper.GetString(DBSettingsFilename),
		},
	}

	return s, nil
}
