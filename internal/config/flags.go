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
//	-a dev server listen address in format [host]:[port]
//	-d local sqlite store path
//	-r remote store base URL
//	-auth-token bearer token for remote requests
//	-c/-config json file path with configs
//	-device-label human-readable name of this install
//	-sync-interval periodic sync interval (e.g., "15m")
//	-request-timeout remote request timeout (e.g., "30s")
//	-sign-key dev server token sign key
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var storagePath string
	var remoteBaseURL string
	var authToken string
	var jsonConfigPath string
	var deviceLabel string
	var syncInterval time.Duration
	var requestTimeout time.Duration
	var signKey string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&storagePath, "d", "", "Local sqlite store path")
	flag.StringVar(&remoteBaseURL, "r", "", "Remote store base URL")
	flag.StringVar(&authToken, "auth-token", "", "Bearer token for remote requests")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&deviceLabel, "device-label", "", "Device label")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Periodic sync interval (e.g., 15m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Remote request timeout (e.g., 30s, 1m)")
	flag.StringVar(&signKey, "sign-key", "", "Dev server token sign key")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			DeviceLabel: deviceLabel,
		},
		Storage: Storage{
			DSN: storagePath,
		},
		Adapter: Adapter{
			BaseURL:        remoteBaseURL,
			AuthToken:      authToken,
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			Interval: syncInterval,
		},
		Server: Server{
			Address: serverAddress.String(),
			SignKey: signKey,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string so the
// config merge treats the flag as unset.
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

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
