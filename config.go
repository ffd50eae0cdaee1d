package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit    string        `yaml:"git_commit" envconfig:"DMON_GIT_COMMIT"`
	GitTag       string        `yaml:"git_tag" envconfig:"DMON_GIT_TAG"`
	BuildTime    string        `yaml:"build_time" envconfig:"DMON_BUILD_TIME"`
	IsProduction bool          `yaml:"is_production" envconfig:"DMON_IS_PRODUCTION"`
	LogLevel     zapcore.Level `yaml:"log_level" envconfig:"DMON_LOG_LEVEL"`
	LogFile      string        `yaml:"log_file" envconfig:"DMON_LOG_FILE"`
	Mongo        MongoConfig   `yaml:"mongo"`
	BoltDB       BoltDBConfig  `yaml:"boltdb"`
	Report       ReportConfig  `yaml:"report"`
}

type MongoConfig struct {
	URI            string        `yaml:"uri" envconfig:"DMON_MONGO_URI"`
	Database       string        `yaml:"database" envconfig:"DMON_MONGO_DATABASE"`
	Collection     string        `yaml:"collection" envconfig:"DMON_MONGO_COLLECTION"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"DMON_MONGO_CONNECT_TIMEOUT"`
	CloseTimeout   time.Duration `yaml:"close_timeout" envconfig:"DMON_MONGO_CLOSE_TIMEOUT"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"DMON_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"DMON_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"DMON_BOLTDB_BUCKET_NAME"`
}

type ReportConfig struct {
	PageSize   int `yaml:"page_size" envconfig:"DMON_REPORT_PAGE_SIZE"`
	PageNumber int `yaml:"page_number" envconfig:"DMON_REPORT_PAGE_NUMBER"`
	QueueSize  int `yaml:"queue_size" envconfig:"DMON_REPORT_QUEUE_SIZE"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Mongo.URI) == 0 {
		return errors.New("make sure to set a valid mongodb uri in configuration file")
	}

	if len(config.Mongo.Database) == 0 || len(config.Mongo.Collection) == 0 {
		return errors.New("make sure to set valid mongodb database and collection names in configuration file")
	}

	if config.Mongo.ConnectTimeout == 0 {
		config.Mongo.ConnectTimeout = 10 * time.Second
	}

	if config.Mongo.CloseTimeout == 0 {
		config.Mongo.CloseTimeout = 5 * time.Second
	}

	if config.Report.PageSize == 0 {
		config.Report.PageSize = 5
	}

	if config.Report.PageNumber == 0 {
		config.Report.PageNumber = 2
	}

	if config.Report.QueueSize == 0 {
		config.Report.QueueSize = 32
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `DMON`.
	err = LoadConfigEnvs("DMON", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
