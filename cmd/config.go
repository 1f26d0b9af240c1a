package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"vpiscope.dev/pkg/vpiscope/internal/controller"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "vpiscope"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	designFlagName  = "design"
	compatFlagName  = "compat"
	outputFlagName  = "output"
	logFileFlagName = "log-file"
	verboseFlagName = "verbose"

	stepsFlagName    = "steps"
	clockFlagName    = "clock"
	periodFlagName   = "period"
	watchFlagName    = "watch"
	journalFlagName  = "journal"
	metricsFlagName  = "metrics"
	parallelFlagName = "parallel"

	designKey        = "design"
	compatKey        = "compat.versions"
	outputFormatKey  = "output.format"
	runStepsKey      = "run.steps"
	runClockKey      = "run.clock"
	runPeriodKey     = "run.period"
	runWatchKey      = "run.watch"
	runJournalKey    = "run.journal"
	runMetricsKey    = "run.metrics"
	checkParallelKey = "check.parallel"

	defaultOutputFormat  = controller.FormatTable
	defaultRunSteps      = 100
	defaultRunPeriod     = 1
	defaultCheckParallel = 4

	envPrefix = "VPISCOPE"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".vpiscope.log"
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
	viper.SetDefault(designKey, "")
	viper.SetDefault(compatKey, []string{})
	viper.SetDefault(outputFormatKey, defaultOutputFormat)
	viper.SetDefault(runStepsKey, defaultRunSteps)
	viper.SetDefault(runClockKey, "")
	viper.SetDefault(runPeriodKey, defaultRunPeriod)
	viper.SetDefault(runWatchKey, []string{})
	viper.SetDefault(runJournalKey, "")
	viper.SetDefault(runMetricsKey, false)
	viper.SetDefault(checkParallelKey, defaultCheckParallel)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	// A missing config file is fine; a broken one is reported and ignored.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return
		}

		slog.Warn("failed to read config file", "file", configFileName, "error", err)
	}
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

// outputFormat is read by the UI each time it prints.
func outputFormat() string {
	return viper.GetString(outputFormatKey)
}
