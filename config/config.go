package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/juho05/log"
)

type environment map[string]string

type Config struct {
	DBUser     string
	DBPassword string
	DBName     string
	DBHost     string
	DBPort     int
	DataDir    string
	ListenAddr string

	AutoMigrate bool
	LogLevel    log.Severity
	LogFile     *os.File

	LrcLibURL      string
	ITunesURL      string
	MusicBrainzURL string
	LastFMApiKey   string
}

// Load loads the configuration from environment variables into Config.
// env should be of the same format as os.Environ()
func Load(environ []string) (Config, []error) {
	env := make(environment, len(environ))
	for _, e := range environ {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) != 2 {
			log.Fatalf("invalid environment variable format: %s", e)
		}
		env[parts[0]] = parts[1]
	}

	var errors []error

	var config Config
	var err error

	config.DBUser, err = requiredString(env, "DB_USER")
	if err != nil {
		errors = append(errors, err)
	}

	config.DBPassword, err = requiredString(env, "DB_PASSWORD")
	if err != nil {
		errors = append(errors, err)
	}

	config.DBName, err = requiredString(env, "DB_NAME")
	if err != nil {
		errors = append(errors, err)
	}

	config.DBHost, err = requiredString(env, "DB_HOST")
	if err != nil {
		errors = append(errors, err)
	}

	config.DBPort, err = requiredInt(env, "DB_PORT")
	if err != nil {
		errors = append(errors, err)
	}

	config.DataDir, err = requiredString(env, "DATA_DIR")
	if err != nil {
		errors = append(errors, err)
	}

	config.ListenAddr = optionalString(env, "LISTEN_ADDR", "0.0.0.0:8080")

	config.AutoMigrate, err = boolean(env, "AUTO_MIGRATE", true)
	if err != nil {
		errors = append(errors, err)
	}

	config.LogLevel, err = loadLogLevel(env)
	if err != nil {
		errors = append(errors, err)
	}

	config.LogFile, err = loadLogFile(env)
	if err != nil {
		errors = append(errors, err)
	}

	config.LrcLibURL = strings.TrimSuffix(optionalString(env, "LRCLIB_URL", "https://lrclib.net"), "/")
	config.ITunesURL = strings.TrimSuffix(optionalString(env, "ITUNES_URL", "https://itunes.apple.com"), "/")
	config.MusicBrainzURL = strings.TrimSuffix(optionalString(env, "MUSICBRAINZ_URL", "https://musicbrainz.org/ws/2"), "/")
	config.LastFMApiKey = optionalString(env, "LASTFM_API_KEY", "")

	return config, errors
}

func loadLogLevel(env environment) (log.Severity, error) {
	key := "LOG_LEVEL"
	def := log.INFO
	logLevelStr := env[key]
	if logLevelStr == "" {
		return def, nil
	}
	level, err := strconv.Atoi(logLevelStr)
	if err != nil {
		return def, newError(key, "invalid log level: must be an integer")
	}
	if level < int(log.NONE) || level > int(log.TRACE) {
		return def, newError(key, "invalid log level: valid values: 0 (none), 1 (fatal), 2 (error), 3 (warning), 4 (info), 5 (trace)")
	}
	return log.Severity(level), nil
}

func loadLogFile(env environment) (*os.File, error) {
	key := "LOG_FILE"
	def := os.Stderr
	if env[key] == "" {
		return def, nil
	}
	appnd, _ := strconv.ParseBool(env["LOG_APPEND"])
	if appnd {
		file, err := os.OpenFile(env[key], os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return def, newError(key, fmt.Sprintf("failed to open log file (append): %s", err))
		}
		return file, nil
	} else {
		file, err := os.Create(env[key])
		if err != nil {
			return def, newError(key, fmt.Sprintf("failed to open log file: %s", err))
		}
		return file, nil
	}
}

func optionalString(env environment, key, def string) string {
	str := env[key]
	if str == "" {
		return def
	}
	return str
}

func requiredString(env environment, key string) (string, error) {
	str := env[key]
	if str == "" {
		return "", newError(key, "must not be empty")
	}
	return str, nil
}

func requiredInt(env environment, key string) (int, error) {
	str := env[key]
	if str == "" {
		return 0, newError(key, "must not be empty")
	}
	i, err := strconv.Atoi(str)
	if err != nil {
		return 0, newError(key, "must be an integer")
	}
	return i, nil
}

func boolean(env environment, key string, def bool) (bool, error) {
	str := env[key]
	if str == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(str)
	if err != nil {
		return false, newError(key, "must be a boolean")
	}
	return b, nil
}
