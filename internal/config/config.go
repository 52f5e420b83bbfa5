package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Production = "production"

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"8080"`

	DatabaseURL   string `env:"DATABASE_URL"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"false"`

	RabbitMQURL string `env:"RABBITMQ_URL"`
	RedisURL    string `env:"REDIS_URL"`

	JWTSecret             string        `env:"JWT_SECRET"`
	JWTTTL                time.Duration `env:"JWT_TTL" envDefault:"12h"`
	AdminMasterCredential string        `env:"ADMIN_MASTER_CREDENTIAL"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	Mail  MailOptions
	Kommo KommoOptions
}

type MailOptions struct {
	Host              string `env:"MAIL_HOST"`
	Port              int    `env:"MAIL_PORT" envDefault:"587"`
	User              string `env:"MAIL_USER"`
	Password          string `env:"MAIL_PASS"`
	From              string `env:"MAIL_FROM" envDefault:"nao-responda@oneconsig.com.br"`
	ImportReportEmail string `env:"IMPORT_REPORT_EMAIL"`
}

func (m MailOptions) Enabled() bool {
	return m.Host != "" && m.ImportReportEmail != ""
}

type KommoOptions struct {
	APIToken string `env:"KOMMO_API_TOKEN"`
	BaseURL  string `env:"KOMMO_BASE_URL"`
	StatusID int    `env:"KOMMO_STATUS_ID"`
}

func (k KommoOptions) Enabled() bool {
	return k.APIToken != "" && k.BaseURL != ""
}

// Load lê os arquivos .env que existirem e depois as variáveis de ambiente.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.local"}
	}

	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("erro ao ler %s: %w", strings.Join(existing, ", "), err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}
	return cfg, nil
}

// Validate checa o mínimo para subir a API.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL é obrigatória")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET é obrigatória")
	}
	if c.AppEnv == Production && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET precisa de pelo menos 32 caracteres em produção")
	}
	return nil
}
