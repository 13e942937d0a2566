package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for the JSON file
// source. Durations are accepted both as strings ("15m") and as raw
// nanosecond numbers via the [Duration] wrapper.
type StructuredJSONConfig struct {
	App struct {
		DeviceLabel string `json:"device_label"`
		Passphrase  string `json:"passphrase"`
		LogPath     string `json:"log_path"`
	} `json:"app,omitempty"`

	Storage struct {
		DSN string `json:"dsn"`
	} `json:"storage,omitempty"`

	Adapter struct {
		BaseURL        string   `json:"base_url"`
		AuthToken      string   `json:"auth_token"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Sync struct {
		Interval      Duration `json:"interval"`
		RetryBase     Duration `json:"retry_base"`
		RetryCap      Duration `json:"retry_cap"`
		RetryAttempts uint64   `json:"retry_attempts"`
	} `json:"sync,omitempty"`

	Server struct {
		Address string `json:"address"`
		SignKey string `json:"sign_key"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			DeviceLabel: jsonCfg.App.DeviceLabel,
			Passphrase:  jsonCfg.App.Passphrase,
			LogPath:     jsonCfg.App.LogPath,
		},
		Storage: Storage{
			DSN: jsonCfg.Storage.DSN,
		},
		Adapter: Adapter{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			AuthToken:      jsonCfg.Adapter.AuthToken,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Sync: Sync{
			Interval:      time.Duration(jsonCfg.Sync.Interval),
			RetryBase:     time.Duration(jsonCfg.Sync.RetryBase),
			RetryCap:      time.Duration(jsonCfg.Sync.RetryCap),
			RetryAttempts: jsonCfg.Sync.RetryAttempts,
		},
		Server: Server{
			Address: jsonCfg.Server.Address,
			SignKey: jsonCfg.Server.SignKey,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
