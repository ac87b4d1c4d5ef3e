package fuzzdex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/fuzzdex/internal/db/driver"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string
	addrs    []string
	username string
	password string
	db       int

	readinessTimeout time.Duration
	searchTimeout    time.Duration

	defaultLimit  int
	maxLimit      int
	maxNeedle     int
	minScore      float64
	precision     int
	normalization Normalization
	parallelism   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis connects to a Redis instance or cluster through rueidis.
func WithRedis(addr, password string) Option {
	return withDriver(driver.Redis, addr, password)
}

// WithValkey connects to a Valkey instance or cluster through rueidis.
func WithValkey(addr, password string) Option {
	return withDriver(driver.Valkey, addr, password)
}

// WithGoRedis connects through go-redis instead of rueidis.
func WithGoRedis(addr, password string) Option {
	return withDriver(driver.GoRedis, addr, password)
}

func withDriver(name, addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = name
		c.addrs = append(c.addrs[:0], addr)
		c.password = password
	})
}

// WithAddrs adds seed addresses, e.g. further cluster nodes.
func WithAddrs(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = append(c.addrs, addrs...)
	})
}

// WithUsername sets the ACL user.
func WithUsername(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithDB selects the logical database.
func WithDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithReadinessTimeout bounds how long New waits for the store. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithSearchTimeout bounds the store round-trip of each search.
func WithSearchTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchTimeout = d
	})
}

// WithDefaultLimit sets the number of results returned when a search does
// not pass Limit. Default: 10.
func WithDefaultLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = n
	})
}

// WithMaxLimit caps Limit. Default: 0, no cap.
func WithMaxLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxLimit = n
	})
}

// WithMaxNeedleBytes caps the needle size in bytes. Default: 0, no cap.
func WithMaxNeedleBytes(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxNeedle = n
	})
}

// WithMinScore drops matches below v in every search.
func WithMinScore(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.minScore = v
	})
}

// WithPrecision rounds similarities in SearchJSON output to n significant
// digits. 14 reproduces the output of Lua cjson based implementations.
func WithPrecision(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.precision = n
	})
}

// WithNormalization applies a Unicode normal form to needles and members.
// Default: NormalizationNone.
func WithNormalization(n Normalization) Option {
	return optionFunc(func(c *clientConfig) {
		c.normalization = n
	})
}

// WithParallelism bounds concurrent searches in SearchMany. Default: 8.
func WithParallelism(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.parallelism = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// SearchOption tunes a single search.
type SearchOption func(*searchParams)

type searchParams struct {
	limit    int
	minScore float64
}

// Limit sets the maximum number of matches.
func Limit(n int) SearchOption {
	return func(p *searchParams) { p.limit = n }
}

// MinScore drops matches with a lower similarity.
func MinScore(v float64) SearchOption {
	return func(p *searchParams) { p.minScore = v }
}
