package config

import (
	"errors"
	"flag"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr        string
	DBUrl       string
	TokenSecret string
	TokenTTL    time.Duration
	MemoSize    int
	Debug       bool
	Upstream    Upstream
}

// Upstream locates the ERP and forms APIs. Read from PORTAL_* variables.
type Upstream struct {
	ERPURL        string        `envconfig:"ERP_URL"`
	ConteleURL    string        `envconfig:"CONTELE_URL"`
	ConteleAPIKey string        `envconfig:"CONTELE_API_KEY"`
	Timeout       time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"30s"`
}

func ParseFlags() (cfg Config, err error) {
	return parse(flag.CommandLine, os.Args[1:])
}

func parse(fs *flag.FlagSet, args []string) (cfg Config, err error) {
	var host string
	fs.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	fs.UintVar(&port, "port", 80, "listen port number (default 80)")
	fs.StringVar(&cfg.DBUrl, "db-url", "portal.sqlite", "path to SQLite3 DB file (default portal.sqlite)")
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "secret key for token encryption and decryption")
	var ttl uint
	fs.UintVar(&ttl, "token-ttl", 3600, "token TTL in seconds (default 3600)")
	fs.IntVar(&cfg.MemoSize, "memo-size", 256, "checklist views kept in memory (default 256)")
	fs.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")

	if err = fs.Parse(args); err != nil {
		return
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	if err = envconfig.Process("portal", &cfg.Upstream); err != nil {
		return
	}

	err = cfg.Validate()
	return
}

// Validate reports every missing or malformed setting at once.
func (cfg Config) Validate() error {
	var result *multierror.Error
	if cfg.TokenSecret == "" {
		result = multierror.Append(result, errors.New("missing parameter -token-secret"))
	}
	if cfg.MemoSize < 1 {
		result = multierror.Append(result, errors.New("parameter -memo-size must be positive"))
	}
	if err := checkURL("PORTAL_ERP_URL", cfg.Upstream.ERPURL); err != nil {
		result = multierror.Append(result, err)
	}
	if err := checkURL("PORTAL_CONTELE_URL", cfg.Upstream.ConteleURL); err != nil {
		result = multierror.Append(result, err)
	}
	if cfg.Upstream.ConteleAPIKey == "" {
		result = multierror.Append(result, errors.New("missing PORTAL_CONTELE_API_KEY"))
	}
	return result.ErrorOrNil()
}

func checkURL(name, raw string) error {
	if raw == "" {
		return errors.New("missing " + name)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(name + " is not an absolute URL")
	}
	return nil
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
