// Package webdav pushes and pulls the library bundle as a single JSON file
// on a WebDAV share. Transfers only happen when the user asks for them.
package webdav

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/httpclient"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
)

// ErrNotConfigured is returned when no endpoint is stored or configured
var ErrNotConfigured = errors.New("no WebDAV config")

// Config locates the remote bundle
type Config struct {
	Endpoint   string `json:"endpoint"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	RemotePath string `json:"remotePath"`
}

// URL joins the endpoint and remote path
func (c *Config) URL() string {
	return strings.TrimRight(c.Endpoint, "/") + "/" + strings.TrimLeft(c.RemotePath, "/")
}

// RemoteInfo describes the remote bundle file
type RemoteInfo struct {
	Exists bool   `json:"exists"`
	ETag   string `json:"etag,omitempty"`
}

// Bundler produces and consumes bundle bytes
type Bundler interface {
	WriteTo(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, data []byte) (*models.ImportReport, error)
}

// Client transfers the bundle. The config saved in the key/value store
// under common.KeyWebDAVConfig wins over the [webdav] config section.
type Client struct {
	kv       interfaces.KeyValueStorage
	defaults Config
	timeout  time.Duration
	logger   arbor.ILogger

	// newHTTPClient builds a client carrying the Basic credentials
	newHTTPClient func(cfg *Config) *http.Client
}

func NewClient(kv interfaces.KeyValueStorage, config *common.Config, logger arbor.ILogger) *Client {
	timeout := config.WebDAVTimeout()
	return &Client{
		kv: kv,
		defaults: Config{
			Endpoint:   config.WebDAV.Endpoint,
			Username:   config.WebDAV.Username,
			Password:   config.WebDAV.Password,
			RemotePath: config.WebDAV.RemotePath,
		},
		timeout: timeout,
		logger:  logger,
		newHTTPClient: func(cfg *Config) *http.Client {
			return httpclient.NewBasicAuthClient(cfg.Username, cfg.Password, timeout)
		},
	}
}

// SaveConfig stores cfg in the key/value store
func (c *Client) SaveConfig(ctx context.Context, cfg *Config) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if cfg.RemotePath == "" {
		cfg.RemotePath = c.defaults.RemotePath
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode WebDAV config: %w", err)
	}
	return c.kv.Set(ctx, common.KeyWebDAVConfig, string(data), "WebDAV bundle transport settings")
}

// LoadConfig returns the stored config, falling back to the [webdav]
// section. ErrNotConfigured when neither names an endpoint.
func (c *Client) LoadConfig(ctx context.Context) (*Config, error) {
	raw, err := c.kv.Get(ctx, common.KeyWebDAVConfig)
	switch {
	case err == nil:
		var cfg Config
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode WebDAV config: %w", err)
		}
		if cfg.Endpoint != "" {
			return &cfg, nil
		}
	case !errors.Is(err, interfaces.ErrKeyNotFound):
		return nil, err
	}

	if c.defaults.Endpoint == "" {
		return nil, ErrNotConfigured
	}
	cfg := c.defaults
	return &cfg, nil
}

// ClearConfig removes the stored config
func (c *Client) ClearConfig(ctx context.Context) error {
	return c.kv.Delete(ctx, common.KeyWebDAVConfig)
}

// Upload PUTs data to the remote path
func (c *Client) Upload(ctx context.Context, data []byte) error {
	resp, cfg, err := c.do(ctx, http.MethodPut, bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed: %d", resp.StatusCode)
	}
	c.logger.Info().Str("url", cfg.URL()).Int("bytes", len(data)).Msg("Bundle uploaded")
	return nil
}

// Download GETs the remote bundle
func (c *Client) Download(ctx context.Context) ([]byte, error) {
	resp, cfg, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download failed: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	c.logger.Info().Str("url", cfg.URL()).Int("bytes", len(data)).Msg("Bundle downloaded")
	return data, nil
}

// Stat HEADs the remote path
func (c *Client) Stat(ctx context.Context) (*RemoteInfo, error) {
	resp, _, err := c.do(ctx, http.MethodHead, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	return &RemoteInfo{Exists: ok, ETag: resp.Header.Get("ETag")}, nil
}

// Push exports the library and uploads it
func (c *Client) Push(ctx context.Context, bundler Bundler) error {
	var buf bytes.Buffer
	if err := bundler.WriteTo(ctx, &buf); err != nil {
		return err
	}
	return c.Upload(ctx, buf.Bytes())
}

// Pull downloads the remote bundle and merges it into the library
func (c *Client) Pull(ctx context.Context, bundler Bundler) (*models.ImportReport, error) {
	data, err := c.Download(ctx)
	if err != nil {
		return nil, err
	}
	return bundler.Import(ctx, data)
}

func (c *Client) do(ctx context.Context, method string, body io.Reader) (*http.Response, *Config, error) {
	cfg, err := c.LoadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.URL(), body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	switch method {
	case http.MethodPut:
		req.Header.Set("Content-Type", "application/json")
	case http.MethodGet:
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.newHTTPClient(cfg).Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("WebDAV %s failed: %w", method, err)
	}
	return resp, cfg, nil
}
