package server

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/swapd/errors"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Configuration keys. Every key can be set in the config.toml file, with
// a command line flag of the same name or with an environment variable,
// ie. SWAPD_ABCI_BIND.
const (
	KeyHome          = "home"
	KeyABCIBind      = "abci.bind"
	KeyHTTPBind      = "http.bind"
	KeyLogLevel      = "log.level"
	KeyLogFile       = "log.file"
	KeyLogMaxSizeMB  = "log.max_size_mb"
	KeyDBBackend     = "db.backend"
	KeyDBHistory     = "db.history"
	KeyDebug         = "debug"
	KeyMetricsEnable = "metrics.enable"
)

// Config is the runtime configuration of the node.
type Config struct {
	Home          string
	ABCIBind      string
	HTTPBind      string
	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	DBBackend     string
	DBHistory     int64
	Debug         bool
	MetricsEnable bool
}

// DefaultHome is the directory used when none is configured.
func DefaultHome() string {
	return filepath.Join(os.ExpandEnv("$HOME"), ".swapd")
}

// SetDefaults registers the default value of every configuration key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyHome, DefaultHome())
	v.SetDefault(KeyABCIBind, "tcp://localhost:26658")
	v.SetDefault(KeyHTTPBind, "localhost:8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSizeMB, 100)
	v.SetDefault(KeyDBBackend, "goleveldb")
	v.SetDefault(KeyDBHistory, 0)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyMetricsEnable, true)
}

// LoadConfig reads the configuration. The optional config.toml file is
// looked up in the home directory.
func LoadConfig(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("swapd")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	home := v.GetString(KeyHome)
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(home)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, errors.Wrapf(errors.ErrInvalidInput, "config file: %s", err)
		}
	}

	conf := Config{
		Home:          home,
		ABCIBind:      v.GetString(KeyABCIBind),
		HTTPBind:      v.GetString(KeyHTTPBind),
		LogLevel:      v.GetString(KeyLogLevel),
		LogFile:       v.GetString(KeyLogFile),
		LogMaxSizeMB:  v.GetInt(KeyLogMaxSizeMB),
		DBBackend:     v.GetString(KeyDBBackend),
		DBHistory:     v.GetInt64(KeyDBHistory),
		Debug:         v.GetBool(KeyDebug),
		MetricsEnable: v.GetBool(KeyMetricsEnable),
	}
	if conf.DBHistory < 0 {
		return conf, errors.Wrap(errors.ErrInvalidInput, "db history must not be negative")
	}
	return conf, nil
}

// NewLogger returns a logger filtered by the configured level. When a log
// file is configured it is rotated by size, otherwise logs go to stdout.
// The returned closer must be called on shutdown.
func NewLogger(conf Config) (log.Logger, io.Closer, error) {
	var out io.WriteCloser = nopCloser{os.Stdout}
	if conf.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    conf.LogMaxSizeMB,
			MaxBackups: 3,
			Compress:   true,
		}
	}
	level, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(out))
	return log.NewFilter(logger, level).With("module", "swapd"), out, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
