package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-realtime-address websocket push endpoint URL
//	-d local database DSN (SQLite file path)
//	-c/-config json file path with configs
//	-location location identifier served by this terminal
//	-terminal terminal identifier
//	-request-timeout request timeout (e.g., "10s", "1m")
//	-sync-interval sync engine interval (e.g., "30s")
//	-retention-window synced entry retention (e.g., "24h")
//	-max-retries replay attempts before an entry is frozen
//	-cache-fresh-for cache freshness window (e.g., "30s")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var realtimeAddress string
	var databaseDSN string
	var jsonConfigPath string
	var locationID string
	var terminalID string
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var retentionWindow time.Duration
	var maxRetries int
	var cacheFreshFor time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&realtimeAddress, "realtime-address", "", "Websocket push endpoint URL")
	flag.StringVar(&databaseDSN, "d", "", "Local database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&locationID, "location", "", "Location identifier")
	flag.StringVar(&terminalID, "terminal", "", "Terminal identifier")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s, 1m)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Sync engine interval (e.g., 30s)")
	flag.DurationVar(&retentionWindow, "retention-window", 0, "Synced entry retention (e.g., 24h)")
	flag.IntVar(&maxRetries, "max-retries", 0, "Replay attempts before freezing an entry")
	flag.DurationVar(&cacheFreshFor, "cache-fresh-for", 0, "Cache freshness window (e.g., 30s)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			LocationID: locationID,
			TerminalID: terminalID,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Adapter: Adapter{
			HTTPAddress:     serverAddress.String(),
			RealtimeAddress: realtimeAddress,
			RequestTimeout:  requestTimeout,
		},
		Workers: Workers{
			SyncInterval:    syncInterval,
			RetentionWindow: retentionWindow,
			MaxRetries:      maxRetries,
		},
		Cache: Cache{
			FreshFor: cacheFreshFor,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("invalid host: must be IP address or `localhost`")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
