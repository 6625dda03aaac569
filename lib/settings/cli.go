package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	ErrUnknownConfigCommand = errors.New("unknown config command")
	ErrUnknownConfigKey     = errors.New("unknown config key")
)

const maskedValue = "********"

// HandleConfigCommand runs "config <command>" against the settings in effect
// and exits.
func HandleConfigCommand(logger *zap.SugaredLogger) {
	if len(os.Args) < 3 {
		printConfigHelp(os.Stderr)
		os.Exit(1)
	}

	retrievedSettings, err := InitSettings(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if err := RunConfigCommand(os.Stdout, retrievedSettings, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, ErrUnknownConfigCommand) {
			printConfigHelp(os.Stderr)
		}
		os.Exit(1)
	}
	os.Exit(0)
}

// RunConfigCommand expects viper to hold the values retrievedSettings was
// read from.
func RunConfigCommand(out io.Writer, retrievedSettings *Settings, args []string) error {
	if len(args) == 0 {
		return ErrUnknownConfigCommand
	}
	switch args[0] {
	case "show":
		configShow(out)
	case "dump":
		return configDump(out)
	case "env":
		configEnv(out)
	case "get":
		return configGet(out, args[1:])
	case "init":
		return configInit(out)
	case "check":
		return configCheck(out, retrievedSettings)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigCommand, args[0])
	}
	return nil
}

// section groups keys by their first path element, "server" for top level keys.
func section(key string) string {
	if head, _, found := strings.Cut(key, "."); found {
		return head
	}
	return "server"
}

func currentValue(c ConfigKey) any {
	value := viper.Get(c.Key)
	if c.Secret && value != nil && value != "" {
		return maskedValue
	}
	return value
}

func configShow(out io.Writer) {
	current := ""
	for _, c := range Registry {
		if s := section(c.Key); s != current {
			current = s
			fmt.Fprintf(out, "\n[%s]\n", current)
			fmt.Fprintf(out, "%-32s %-44s %-20s %-20s %s\n", "JSON KEY", "ENV VAR", "CURRENT", "DEFAULT", "DESCRIPTION")
		}
		fmt.Fprintf(out, "%-32s %-44s %-20v %-20v %s\n",
			c.Key, EnvVar(c.Key), currentValue(c), c.Default, c.Description)
	}
}

func configDump(out io.Writer) error {
	values := map[string]any{}
	for _, c := range Registry {
		values[c.Key] = currentValue(c)
	}
	return writeJSON(out, nest(values))
}

func configEnv(out io.Writer) {
	fmt.Fprintf(out, "%-44s %s\n", "ENV VAR", "JSON KEY")
	for _, c := range Registry {
		fmt.Fprintf(out, "%-44s %s\n", EnvVar(c.Key), c.Key)
	}
}

func configGet(out io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: webprotege-revisions config get <json-key>")
	}
	for _, c := range Registry {
		if strings.EqualFold(c.Key, args[0]) {
			fmt.Fprintln(out, viper.Get(c.Key))
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownConfigKey, args[0])
}

// configInit prints a settings.json holding every default, nested the way
// the settings file is read back.
func configInit(out io.Writer) error {
	values := map[string]any{}
	for _, c := range Registry {
		values[c.Key] = c.Default
	}
	return writeJSON(out, nest(values))
}

// configCheck reports the settings that would stop the service from storing
// revisions, and returns an error when there is at least one.
func configCheck(out io.Writer, retrievedSettings *Settings) error {
	var problems []error

	data := retrievedSettings.DataDirectory
	if info, err := os.Stat(data); err == nil && !info.IsDir() {
		problems = append(problems, fmt.Errorf("%s %s is not a directory", DataDirectory, data))
	} else if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "%s %s does not exist yet, it is created with the first document\n", DataDirectory, data)
	}
	if !filepath.IsAbs(data) {
		fmt.Fprintf(out, "%s %s is relative to the working directory\n", DataDirectory, data)
	}

	if retrievedSettings.History.QueueWarnThreshold < 0 {
		problems = append(problems, fmt.Errorf("%s must not be negative", HistoryQueueWarnThreshold))
	}
	if !retrievedSettings.History.Fsync {
		fmt.Fprintf(out, "%s is off, saved revisions may be lost on power failure\n", HistoryFsync)
	}

	if rate := retrievedSettings.CommitRateLimiting; rate.Points > 0 && rate.Duration <= 0 {
		problems = append(problems, fmt.Errorf("%s must be positive when %s is set", CommitRateLimitingDuration, CommitRateLimitingPoints))
	}

	problems = append(problems, checkCatalog(out, retrievedSettings)...)

	if len(problems) > 0 {
		for _, problem := range problems {
			fmt.Fprintln(out, "problem:", problem)
		}
		return errors.Join(problems...)
	}
	fmt.Fprintln(out, "settings ok")
	return nil
}

func checkCatalog(out io.Writer, retrievedSettings *Settings) []error {
	if !retrievedSettings.DBType.Persistent() {
		fmt.Fprintf(out, "%s %s keeps no catalog across restarts, run reindex after starting\n",
			DBType, retrievedSettings.DBType)
	}
	db := retrievedSettings.DBSettings
	switch retrievedSettings.DBType {
	case SQLITE:
		if db.Filename == "" {
			return []error{fmt.Errorf("%s is required for %s", DBSettingsFilename, SQLITE)}
		}
	case POSTGRES:
		var problems []error
		for key, value := range map[string]string{
			DBSettingsHost:     db.Host,
			DBSettingsDatabase: db.Database,
			DBSettingsUser:     db.User,
			DBSettingsPort:     db.Port,
		} {
			if value == "" {
				problems = append(problems, fmt.Errorf("%s is required for %s", key, POSTGRES))
			}
		}
		return problems
	}
	return nil
}

// nest turns dotted keys into the nested objects of a settings file.
func nest(flat map[string]any) map[string]any {
	nested := map[string]any{}
	for key, value := range flat {
		parts := strings.Split(key, ".")
		node := nested
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return nested
}

func writeJSON(out io.Writer, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}

func printConfigHelp(out io.Writer) {
	fmt.Fprintln(out, `Usage:
  webprotege-revisions config show             keys by section with current values
  webprotege-revisions config dump             current values as a settings file
  webprotege-revisions config env              environment variable per key
  webprotege-revisions config get <json-key>
  webprotege-revisions config init             default settings file
  webprotege-revisions config check            validate data directory, history and catalog settings`)
}
