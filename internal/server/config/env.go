package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. FINSYNC_SECRET_KEY.
const EnvPrefix = "FINSYNC"

// envFile is loaded into the process environment if it exists. Variables
// already set in the environment win.
var envFile = ".env"

// parseEnv overlays FINSYNC_* environment variables onto config.
func parseEnv(config *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	strs := map[string]*string{
		"endpoint_addr_grpc": &config.EndpointAddrGRPC,
		"endpoint_addr_http": &config.EndpointAddrHTTP,
		"store_backend":      &config.StoreBackend,
		"database_dsn":       &config.DatabaseDSN,
		"sqlite_path":        &config.SQLitePath,
		"snapshot_path":      &config.SnapshotPath,
		"secret_key":         &config.SecretKey,
		"log_backend":        &config.LogBackend,
		"log_level":          &config.LogLevel,
		"s3_access_key":      &config.S3AccessKey,
		"s3_secret_key":      &config.S3SecretKey,
		"s3_bucket":          &config.S3Bucket,
		"s3_region":          &config.S3Region,
		"s3_base_endpoint":   &config.S3BaseEndpoint,
	}
	for key, dst := range strs {
		if err := v.BindEnv(key); err != nil {
			return err
		}
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	for _, key := range []string{"access_token_validity_duration", "trust_client_updated_at", "cors_origins"} {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}

	if v.IsSet("access_token_validity_duration") {
		d := v.GetDuration("access_token_validity_duration")
		if d <= 0 {
			return fmt.Errorf("invalid %s_ACCESS_TOKEN_VALIDITY_DURATION %q", EnvPrefix, v.GetString("access_token_validity_duration"))
		}
		config.AccessTokenValidityDuration = d
	}
	if v.IsSet("trust_client_updated_at") {
		config.TrustClientUpdatedAt = v.GetBool("trust_client_updated_at")
	}
	if v.IsSet("cors_origins") {
		config.CORSOrigins = splitList(v.GetString("cors_origins"))
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
