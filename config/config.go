package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"colselect-go/schema"
)

var (
	kiloByte = 1024
	megaByte = 1024 * kiloByte
)

type Config struct {
	Log     logConfig     `yaml:"log"`
	Resolve resolveConfig `yaml:"resolve"`
	Source  sourceConfig  `yaml:"source"`
	S3      s3Config      `yaml:"s3"`
	Catalog catalogConfig `yaml:"catalog"`
}
type logConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // logfmt or json
}
type resolveConfig struct {
	// exact or assignable; used by ofType selections that do not name a mode
	TypeMatching string `yaml:"type_matching"`
}
type sourceConfig struct {
	CSVInferenceRows  int  `yaml:"csv_inference_rows"` // rows read to infer csv column types
	CSVHasHeader      bool `yaml:"csv_has_header"`
	MaxDownloadSizeMB int  `yaml:"max_download_size_mb"` // max size to download from external sources like S3
	ParquetBatchSize  int  `yaml:"parquet_batch_size"`
}
type s3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}
type catalogConfig struct {
	Path           string `yaml:"path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // how long to wait for the file lock
}

func defaults() *Config {
	return &Config{
		Log: logConfig{
			Level:  "info",
			Format: "logfmt",
		},
		Resolve: resolveConfig{
			TypeMatching: "exact",
		},
		Source: sourceConfig{
			CSVInferenceRows:  100,
			CSVHasHeader:      true,
			MaxDownloadSizeMB: 10, // 10MB
			ParquetBatchSize:  1024 * 8,
		},
		S3: s3Config{
			Region: "us-east-1",
			UseSSL: true,
		},
		Catalog: catalogConfig{
			Path:           "colselect.db",
			TimeoutSeconds: 1,
		},
	}
}

var configInstance = defaults()

func GetConfig() *Config {
	return configInstance
}

// MaxDownloadBytes is Source.MaxDownloadSizeMB in bytes.
func (c *Config) MaxDownloadBytes() int64 {
	return int64(c.Source.MaxDownloadSizeMB) * int64(megaByte)
}

// overwrite global instance with loaded config
func Decode(filePath string) error {
	suffix := strings.Split(filePath, ".")[len(strings.Split(filePath, "."))-1]
	if suffix != "yaml" && suffix != "yml" {
		return errors.New("file must be a .yaml or .yml file")
	}
	r, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer r.Close()
	config := make(map[string]interface{})
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(config); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	mergeConfig(configInstance, config)
	return validate(configInstance)
}

func validate(c *Config) error {
	if _, err := schema.ParseMatcher(c.Resolve.TypeMatching); err != nil {
		return fmt.Errorf("resolve.type_matching: %w", err)
	}
	return nil
}

func mergeConfig(dst *Config, src map[string]interface{}) {
	// =============================
	// LOG
	// =============================
	if log, ok := src["log"].(map[string]interface{}); ok {
		if v, ok := log["level"].(string); ok {
			dst.Log.Level = v
		}
		if v, ok := log["format"].(string); ok {
			dst.Log.Format = v
		}
	}

	// =============================
	// RESOLVE
	// =============================
	if resolve, ok := src["resolve"].(map[string]interface{}); ok {
		if v, ok := resolve["type_matching"].(string); ok {
			dst.Resolve.TypeMatching = v
		}
	}

	// =============================
	// SOURCE
	// =============================
	if source, ok := src["source"].(map[string]interface{}); ok {
		if v, ok := source["csv_inference_rows"].(int); ok {
			dst.Source.CSVInferenceRows = v
		}
		if v, ok := source["csv_has_header"].(bool); ok {
			dst.Source.CSVHasHeader = v
		}
		if v, ok := source["max_download_size_mb"].(int); ok {
			dst.Source.MaxDownloadSizeMB = v
		}
		if v, ok := source["parquet_batch_size"].(int); ok {
			dst.Source.ParquetBatchSize = v
		}
	}

	// =============================
	// S3
	// =============================
	if s3, ok := src["s3"].(map[string]interface{}); ok {
		if v, ok := s3["endpoint"].(string); ok {
			dst.S3.Endpoint = v
		}
		if v, ok := s3["region"].(string); ok {
			dst.S3.Region = v
		}
		if v, ok := s3["bucket"].(string); ok {
			dst.S3.Bucket = v
		}
		if v, ok := s3["access_key"].(string); ok {
			dst.S3.AccessKey = v
		}
		if v, ok := s3["secret_key"].(string); ok {
			dst.S3.SecretKey = v
		}
		if v, ok := s3["use_ssl"].(bool); ok {
			dst.S3.UseSSL = v
		}
	}

	// =============================
	// CATALOG
	// =============================
	if catalog, ok := src["catalog"].(map[string]interface{}); ok {
		if v, ok := catalog["path"].(string); ok {
			dst.Catalog.Path = v
		}
		if v, ok := catalog["timeout_seconds"].(int); ok {
			dst.Catalog.TimeoutSeconds = v
		}
	}
}

// environment overrides, applied after the yaml file
const (
	envLogLevel      = "COLSELECT_LOG_LEVEL"
	envTypeMatching  = "COLSELECT_TYPE_MATCHING"
	envMaxDownloadMB = "COLSELECT_MAX_DOWNLOAD_MB"
	envCatalogPath   = "COLSELECT_CATALOG_PATH"
	envS3Endpoint    = "COLSELECT_S3_ENDPOINT"
	envS3Region      = "COLSELECT_S3_REGION"
	envS3Bucket      = "COLSELECT_S3_BUCKET"
	envS3AccessKey   = "COLSELECT_S3_ACCESS_KEY"
	envS3SecretKey   = "COLSELECT_S3_SECRET_KEY"
	envS3UseSSL      = "COLSELECT_S3_USE_SSL"
)

// LoadEnv reads the given .env files (".env" when none are given) into the
// process environment and applies every COLSELECT_* variable to the config.
// Missing files are not an error; variables already set in the environment
// win over the files.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return applyEnv(configInstance)
}

func applyEnv(dst *Config) error {
	if v, ok := os.LookupEnv(envLogLevel); ok {
		dst.Log.Level = v
	}
	if v, ok := os.LookupEnv(envTypeMatching); ok {
		dst.Resolve.TypeMatching = v
	}
	if v, ok := os.LookupEnv(envMaxDownloadMB); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envMaxDownloadMB, err)
		}
		dst.Source.MaxDownloadSizeMB = n
	}
	if v, ok := os.LookupEnv(envCatalogPath); ok {
		dst.Catalog.Path = v
	}
	if v, ok := os.LookupEnv(envS3Endpoint); ok {
		dst.S3.Endpoint = v
	}
	if v, ok := os.LookupEnv(envS3Region); ok {
		dst.S3.Region = v
	}
	if v, ok := os.LookupEnv(envS3Bucket); ok {
		dst.S3.Bucket = v
	}
	if v, ok := os.LookupEnv(envS3AccessKey); ok {
		dst.S3.AccessKey = v
	}
	if v, ok := os.LookupEnv(envS3SecretKey); ok {
		dst.S3.SecretKey = v
	}
	if v, ok := os.LookupEnv(envS3UseSSL); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envS3UseSSL, err)
		}
		dst.S3.UseSSL = b
	}
	return validate(dst)
}
