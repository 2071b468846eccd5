package elastic

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/metrics"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Default timeouts per class of operation.
const (
	DefaultMetadataTimeout = 30 * time.Second
	DefaultRequestTimeout  = 60 * time.Second
)

// Config holds connection parameters for an Elasticsearch store.
type Config struct {
	URL      string
	APIKey   string
	Username string
	Password string

	CACertPath    string
	SkipVerify    bool
	ContainerMode bool

	// MaxRetries <= 0 disables retries.
	MaxRetries         int
	DisableCompression bool
	MetadataTimeout    time.Duration
	RequestTimeout     time.Duration
	UserAgent          string

	Logger *zap.Logger
}

// Store implements db.Store via go-elasticsearch. It owns one pooled HTTP
// transport shared by all callers.
type Store struct {
	client          *elasticsearch.Client
	transport       *http.Transport
	metadataTimeout time.Duration
	requestTimeout  time.Duration
	closeOnce       sync.Once
}

// NewStore creates an Elasticsearch store. The API key takes precedence over
// basic credentials. An unreadable CA certificate is logged and ignored.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	address := cfg.URL
	if cfg.ContainerMode {
		address = rewriteLocalhost(cfg.URL, net.LookupHost)
		if address != cfg.URL {
			logger.Info("Container mode: rewrote localhost address",
				zap.String("from", cfg.URL), zap.String("to", address))
		}
	}

	transport := newTransport(cfg, logger)

	esCfg := elasticsearch.Config{
		Addresses:           []string{address},
		CompressRequestBody: !cfg.DisableCompression,
		MaxRetries:          cfg.MaxRetries,
		DisableRetry:        cfg.MaxRetries <= 0,
		Transport:           metrics.InstrumentRoundTripper(transport),
	}
	if cfg.UserAgent != "" {
		esCfg.Header = http.Header{"User-Agent": []string{cfg.UserAgent}}
	}
	switch {
	case cfg.APIKey != "":
		esCfg.APIKey = cfg.APIKey
	case cfg.Username != "":
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s := &Store{
		client:          client,
		transport:       transport,
		metadataTimeout: cfg.MetadataTimeout,
		requestTimeout:  cfg.RequestTimeout,
	}
	if s.metadataTimeout <= 0 {
		s.metadataTimeout = DefaultMetadataTimeout
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = DefaultRequestTimeout
	}
	return s, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.metadataTimeout)
	defer cancel()

	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	_, err = read(db.OpPing, res, err)
	return err
}

// Close releases pooled connections. Safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(s.transport.CloseIdleConnections)
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := s.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for elasticsearch: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// read drains res and converts transport failures and error statuses into *db.Error.
func read(op string, res *esapi.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, transportError(op, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, transportError(op, err)
	}
	if res.IsError() {
		return nil, responseError(op, res.StatusCode, body)
	}
	return body, nil
}

func decode(op string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &db.Error{Op: op, Kind: db.ErrStore, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func newTransport(cfg Config, logger *zap.Logger) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.SkipVerify {
		tlsCfg.InsecureSkipVerify = true //nolint:gosec // explicitly requested via ssl_skip_verify
	}
	if cfg.CACertPath != "" {
		pool, err := loadCACert(cfg.CACertPath)
		if err != nil {
			logger.Warn("Failed to load CA certificate, falling back to system roots",
				zap.String("path", cfg.CACertPath), zap.Error(err))
		} else {
			tlsCfg.RootCAs = pool
		}
	}
	transport.TLSClientConfig = tlsCfg
	return transport
}

func loadCACert(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read ca cert: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("no PEM certificates in %s", path)
	}
	return pool, nil
}

// containerHosts resolve to the host machine from inside Docker or Podman.
var containerHosts = []string{"host.docker.internal", "host.containers.internal"}

// rewriteLocalhost points a loopback URL at the first container host alias that resolves.
func rewriteLocalhost(raw string, lookup func(string) ([]string, error)) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
	default:
		return raw
	}
	for _, host := range containerHosts {
		if addrs, err := lookup(host); err == nil && len(addrs) > 0 {
			if port := u.Port(); port != "" {
				u.Host = net.JoinHostPort(host, port)
			} else {
				u.Host = host
			}
			return u.String()
		}
	}
	return raw
}

func bodyReader(body []byte) io.Reader {
	if len(body) == 0 {
		return nil
	}
	return bytes.NewReader(body)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
