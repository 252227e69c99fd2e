// Package config handles configuration for the gateway server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the FileVault gateway.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - SecretKey: HMAC secret for verifying bearer tokens (HS256). Do not use
//     test defaults in prod.
//   - S3AccessKeyID / S3SecretAccessKey: credentials for the S3-compatible
//     backend. Never handed to clients; clients only ever see presigned URLs.
//   - S3Bucket / S3Region / S3BaseEndpoint / S3UsePathStyle: object storage
//     settings. An empty S3BaseEndpoint means the SDK default (AWS).
//   - UploadURLTTL: validity of presigned PUT URLs issued on the upload path.
//   - DownloadURLTTL: validity of presigned GET URLs embedded in listings.
//   - ShareMinTTL / ShareMaxTTL: clamp bounds for caller-requested share
//     link lifetimes.
//   - StoreCallTimeout: per-call deadline for synchronous store operations
//     (list, delete, head).
//   - SignConcurrency: max parallel per-object signing calls during listing.
type Config struct {
	EndpointAddrHTTP  string
	SecretKey         string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3Region          string
	S3BaseEndpoint    string
	S3UsePathStyle    bool
	UploadURLTTL      time.Duration
	DownloadURLTTL    time.Duration
	ShareMinTTL       time.Duration
	ShareMaxTTL       time.Duration
	StoreCallTimeout  time.Duration
	SignConcurrency   int
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.SecretKey = "secretKey"
	c.S3AccessKeyID = "admin"
	c.S3SecretAccessKey = "secretpassword"
	c.S3Bucket = "filevault"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3UsePathStyle = true
	c.UploadURLTTL = 1 * time.Hour
	c.DownloadURLTTL = 1 * time.Hour
	c.ShareMinTTL = 60 * time.Second
	c.ShareMaxTTL = 7 * 24 * time.Hour
	c.StoreCallTimeout = 10 * time.Second
	c.SignConcurrency = 8
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
