package buildCFG

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"davet/internal/mailer"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type AuthConfig struct {
	AdminID       int
	AdminPassword string
}

type NotifyConfig struct {
	SMTP      mailer.SMTPConfig
	Recipient string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("database.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("database.master_dsn is required")
	}

	var slaveDSNs []string
	if raw := cfg.GetString("database.slave_dsns"); raw != "" {
		for _, dsn := range strings.Split(raw, ",") {
			if dsn = strings.TrimSpace(dsn); dsn != "" {
				slaveDSNs = append(slaveDSNs, dsn)
			}
		}
	}

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("database.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: time.Duration(cfg.GetInt("database.conn_max_lifetime_seconds")) * time.Second,
	}

	log.Info().
		Int("slaves", len(slaveDSNs)).
		Int("max_open_conns", opts.MaxOpenConns).
		Msg("database configuration built")

	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.Url == "" || rc.Exchange == "" || rc.Queue == "" {
		return RabbitConfig{}, fmt.Errorf("rabbit.url, rabbit.exchange and rabbit.queue are required")
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbit configuration built")
	return rc, nil
}

func BuildAuthConfig(cfg *config.Config, log *zerolog.Logger) (AuthConfig, error) {
	ac := AuthConfig{
		AdminID:       cfg.GetInt("auth.admin_id"),
		AdminPassword: cfg.GetString("auth.admin_password"),
	}
	if ac.AdminID == 0 || ac.AdminPassword == "" {
		return AuthConfig{}, fmt.Errorf("auth.admin_id and auth.admin_password are required")
	}
	return ac, nil
}

func BuildNotifyConfig(cfg *config.Config, log *zerolog.Logger) NotifyConfig {
	nc := NotifyConfig{
		SMTP: mailer.SMTPConfig{
			Host:     cfg.GetString("smtp.host"),
			Port:     cfg.GetInt("smtp.port"),
			From:     cfg.GetString("smtp.from"),
			Password: cfg.GetString("smtp.password"),
		},
		Recipient: cfg.GetString("smtp.notify"),
	}
	if nc.Recipient == "" {
		log.Warn().Msg("smtp.notify not set, response notifications will be dropped")
	}
	return nc
}
