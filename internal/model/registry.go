package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// RegistryClient resolves artifact locations to local files. Plain paths
// pass through untouched; http(s) locations are downloaded with retries
// into the cache directory and reused on later runs.
type RegistryClient struct {
	httpClient *http.Client
	cacheDir   string
	log        zerolog.Logger
}

// NewRegistryClient creates a registry client caching downloads under
// cacheDir.
func NewRegistryClient(cacheDir string, log zerolog.Logger) *RegistryClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.HTTPClient = &http.Client{
		Timeout: 60 * time.Second,
	}
	retryClient.Logger = nil
	return &RegistryClient{
		httpClient: retryClient.StandardClient(),
		cacheDir:   cacheDir,
		log:        log,
	}
}

// Resolve returns a local filesystem path for the artifact location.
func (c *RegistryClient) Resolve(location string) (string, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return location, nil
	}

	sum := sha256.Sum256([]byte(location))
	cached := filepath.Join(c.cacheDir, hex.EncodeToString(sum[:8])+".json")
	if _, err := os.Stat(cached); err == nil {
		c.log.Debug().Str("location", location).Str("cached", cached).Msg("artifact cache hit")
		return cached, nil
	}

	if err := c.download(location, cached); err != nil {
		return "", &LoadError{Path: location, Reason: err.Error()}
	}
	return cached, nil
}

func (c *RegistryClient) download(location, dest string) error {
	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return fmt.Errorf("creating artifact cache directory: %w", err)
	}

	resp, err := c.httpClient.Get(location)
	if err != nil {
		return fmt.Errorf("fetching artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching artifact: unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(c.cacheDir, "artifact-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing artifact file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("storing artifact in cache: %w", err)
	}

	c.log.Info().Str("location", location).Str("cached", dest).Msg("artifact downloaded")
	return nil
}
