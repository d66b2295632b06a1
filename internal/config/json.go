package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		LocationID string `json:"location_id"`
		TerminalID string `json:"terminal_id"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Adapter struct {
		HTTPAddress     string   `json:"http_address"`
		RealtimeAddress string   `json:"realtime_address"`
		RequestTimeout  Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SyncInterval    Duration `json:"sync_interval"`
		RetentionWindow Duration `json:"retention_window"`
		MaxRetries      int      `json:"max_retries"`
	} `json:"workers,omitempty"`

	Cache struct {
		FreshFor Duration `json:"fresh_for"`
	} `json:"cache,omitempty"`
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
			LocationID: jsonCfg.App.LocationID,
			TerminalID: jsonCfg.App.TerminalID,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Adapter: Adapter{
			HTTPAddress:     jsonCfg.Adapter.HTTPAddress,
			RealtimeAddress: jsonCfg.Adapter.RealtimeAddress,
			RequestTimeout:  time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Workers: Workers{
			SyncInterval:    time.Duration(jsonCfg.Workers.SyncInterval),
			RetentionWindow: time.Duration(jsonCfg.Workers.RetentionWindow),
			MaxRetries:      jsonCfg.Workers.MaxRetries,
		},
		Cache: Cache{
			FreshFor: time.Duration(jsonCfg.Cache.FreshFor),
		},
		JSONFilePath: "",
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
