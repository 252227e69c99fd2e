package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/filevault/internal/flagx"
	"github.com/dmitrijs2005/filevault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO (Data Transfer Object) used only for
// reading JSON configuration files. After unmarshalling, its fields are
// copied into the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP  string         `json:"endpoint_addr_http"`
	SecretKey         string         `json:"secret_key"`
	S3AccessKeyID     string         `json:"s3_access_key_id"`
	S3SecretAccessKey string         `json:"s3_secret_access_key"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3UsePathStyle    *bool          `json:"s3_use_path_style"`
	UploadURLTTL      timex.Duration `json:"upload_url_ttl"`
	DownloadURLTTL    timex.Duration `json:"download_url_ttl"`
	ShareMinTTL       timex.Duration `json:"share_min_ttl"`
	ShareMaxTTL       timex.Duration `json:"share_max_ttl"`
	StoreCallTimeout  timex.Duration `json:"store_call_timeout"`
	SignConcurrency   int            `json:"sign_concurrency"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If it is not set, no JSON file is loaded.
//
// If the file path is found, parseJson attempts to read and unmarshal it
// into a JsonConfig. Non-empty values are then copied into the target
// Config, so a partial JSON file only overrides the fields it mentions.
// If the file cannot be read or contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.S3AccessKeyID != "" {
		config.S3AccessKeyID = c.S3AccessKeyID
	}
	if c.S3SecretAccessKey != "" {
		config.S3SecretAccessKey = c.S3SecretAccessKey
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.S3UsePathStyle != nil {
		config.S3UsePathStyle = *c.S3UsePathStyle
	}
	if c.UploadURLTTL.Duration != 0 {
		config.UploadURLTTL = time.Duration(c.UploadURLTTL.Duration)
	}
	if c.DownloadURLTTL.Duration != 0 {
		config.DownloadURLTTL = time.Duration(c.DownloadURLTTL.Duration)
	}
	if c.ShareMinTTL.Duration != 0 {
		config.ShareMinTTL = time.Duration(c.ShareMinTTL.Duration)
	}
	if c.ShareMaxTTL.Duration != 0 {
		config.ShareMaxTTL = time.Duration(c.ShareMaxTTL.Duration)
	}
	if c.StoreCallTimeout.Duration != 0 {
		config.StoreCallTimeout = time.Duration(c.StoreCallTimeout.Duration)
	}
	if c.SignConcurrency != 0 {
		config.SignConcurrency = c.SignConcurrency
	}
}
