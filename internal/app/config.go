package app

import (
	"strings"
	"time"

	"github.com/videoshowcase/backend/internal/envutil"
	"github.com/videoshowcase/backend/internal/logger"
)

type Config struct {
	JWTSecretKey    string
	OwnerOpenID     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AllowOrigins    []string
	SecureCookies   bool
	ListenAddr      string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		OwnerOpenID:     envutil.String("OWNER_OPEN_ID", ""),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		SecureCookies:   envutil.Bool("SECURE_COOKIES", false),
		ListenAddr:      envutil.String("LISTEN_ADDR", ":8080"),
	}
	origins := envutil.String("ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}
	if cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set, using insecure default")
	}
	if cfg.OwnerOpenID == "" {
		log.Info("OWNER_OPEN_ID not set, no owner bootstrap will occur")
	}
	return cfg
}
