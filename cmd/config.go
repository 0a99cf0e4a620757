package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "mutenv"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	matchFlagName   = "match"
	ignoreFlagName  = "ignore"
	startFlagName   = "start"
	requireFlagName = "require"
	envFlagName     = "env"
	timingsFlagName = "timings"

	loadPathFlagName = "load-path"

	matchConfigKey    = "match.subjects"
	ignoreConfigKey   = "match.ignore"
	startConfigKey    = "match.start"
	requireConfigKey  = "world.require"
	loadPathConfigKey = "world.load_path"
	worldEnvKey       = "world.env"

	integrationTimeoutKey = "integration.timeout"

	handoffFlagName  = "handoff"
	snapshotFlagName = "snapshot"
	handoffConfigKey = "output.handoff"

	defaultHandoffPath        = ".mutenv/mutations.gob"
	defaultIntegrationTimeout = 30 * time.Second

	envPrefix = "MUTENV"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".mutenv.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(matchConfigKey, []string{})
	viper.SetDefault(ignoreConfigKey, []string{})
	viper.SetDefault(startConfigKey, []string{})
	viper.SetDefault(requireConfigKey, []string{})
	viper.SetDefault(loadPathConfigKey, []string{})
	viper.SetDefault(worldEnvKey, map[string]string{})
	viper.SetDefault(handoffConfigKey, defaultHandoffPath)
	viper.SetDefault(integrationTimeoutKey, int64(defaultIntegrationTimeout.Seconds()))

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil && !ignorableConfigError(err) {
		// A present but unreadable config file falls back to defaults;
		// the user still gets told why their settings were not picked up.
		slog.Warn("config file ignored", "file", configFileName, "error", err)
	}
}

// ignorableConfigError reports whether a config read failure just means no
// config file is present. The file is optional; every key has a default.
func ignorableConfigError(err error) bool {
	var notFound viper.ConfigFileNotFoundError

	return errors.As(err, &notFound) || os.IsNotExist(err)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
