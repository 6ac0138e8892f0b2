package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// FileFrom renders cfg back into its on-disk shape. Key material is
// never written.
func FileFrom(cfg Link) File {
	return File{
		Endpoint:         cfg.Endpoint,
		Name:             cfg.Link.Name,
		SystemID:         int(cfg.SystemID),
		ComponentID:      int(cfg.ComponentID),
		Heartbeat:        cfg.HeartbeatInterval.String(),
		ReadBufferSize:   cfg.Link.ReadBufferSize,
		SubscriberBuffer: cfg.Link.SubscriberBuffer,
		ConnectTimeout:   cfg.Link.ConnectTimeout.String(),
		MaxDialAttempts:  cfg.Link.Backoff.MaxAttempts,
		LinkID:           int(cfg.LinkID),
		RequireSigned:    cfg.Link.RequireSigned,
		AdminAddr:        cfg.AdminAddr,
		AllowOrigins:     cfg.AllowOrigins,
		NATSURL:          cfg.NATSURL,
		Prefix:           cfg.Prefix,
		RedisAddr:        cfg.RedisAddr,
		RedisDB:          cfg.RedisDB,
		PeerTTL:          cfg.PeerTTL.String(),
	}
}

// Template is the default configuration as TOML.
func Template() ([]byte, error) {
	data, err := toml.Marshal(FileFrom(Default()))
	if err != nil {
		return nil, fmt.Errorf("render linkctl template: %w", err)
	}
	return data, nil
}

func WriteTemplate(path string, overwrite bool) error {
	data, err := Template()
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, data, 0o600)
}
