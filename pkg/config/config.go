package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa a configuração da aplicação (leitura via Viper de env e opcionalmente arquivo).
type Config struct {
	App      AppConfig
	ERP      ERPConfig
	Connect  DBConfig
	Solution DBConfig
	Robot    RobotConfig
	HTTP     HTTPConfig
}

// AppConfig configuração geral da aplicação.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// ERPConfig acesso ao ERP web (alvo da automação).
type ERPConfig struct {
	URL      string
	User     string
	Password string
	Headless bool
}

// RobotConfig parâmetros do ciclo de processamento.
type RobotConfig struct {
	Limit           int    // notas por ciclo
	IntervalSeconds int    // pausa entre ciclos
	LogDir          string // diretório de logs e screenshots por nota
}

// Interval devolve a pausa entre ciclos como Duration.
func (c RobotConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// DBConfig configuração de um PostgreSQL. A aplicação usa dois bancos
// independentes: o operacional (connect) e o do ERP (solution).
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN devolve a connection string do PostgreSQL com URL encoding para caracteres especiais.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig configuração do servidor de observabilidade.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devolve o endereço de escuta (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lê a configuração de variáveis de ambiente (e opcionalmente de arquivo .env).
// As env vars têm prioridade. Nomes esperados: APP_ENV, ERP_URL, DB_HOST_CONNECT, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: arquivo de configuração (.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos erro se não existir

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "nfe-robot"),
		},
		ERP: ERPConfig{
			URL:      getString(v, "ERP_URL", ""),
			User:     getString(v, "ERP_USER", "SUPERVISOR"),
			Password: getString(v, "ERP_PASSWORD", ""),
			Headless: getBool(v, "ERP_HEADLESS", true),
		},
		Connect: DBConfig{
			Host:     getString(v, "DB_HOST_CONNECT", "localhost"),
			Port:     getInt(v, "DB_PORT_CONNECT", 5432),
			User:     getString(v, "DB_USER_CONNECT", "postgres"),
			Password: getString(v, "DB_PASSWORD_CONNECT", ""),
			DBName:   getString(v, "DB_NAME_CONNECT", "fourmaqconnect"),
			SSLMode:  getString(v, "DB_SSLMODE_CONNECT", "disable"),
		},
		Solution: DBConfig{
			Host:     getString(v, "DB_HOST_SOLUTION", "localhost"),
			Port:     getInt(v, "DB_PORT_SOLUTION", 5432),
			User:     getString(v, "DB_USER_SOLUTION", "postgres"),
			Password: getString(v, "DB_PASSWORD_SOLUTION", ""),
			DBName:   getString(v, "DB_NAME_SOLUTION", "solution"),
			SSLMode:  getString(v, "DB_SSLMODE_SOLUTION", "disable"),
		},
		Robot: RobotConfig{
			Limit:           getInt(v, "ROBOT_LIMIT", 4),
			IntervalSeconds: getInt(v, "ROBOT_INTERVAL_SECONDS", 30),
			LogDir:          getString(v, "ROBOT_LOG_DIR", "logs"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
	}

	if cfg.ERP.URL == "" {
		return nil, fmt.Errorf("ERP_URL é obrigatória")
	}
	if cfg.Robot.Limit <= 0 {
		return nil, fmt.Errorf("ROBOT_LIMIT deve ser maior que zero")
	}
	// Valor não numérico vira zero no parse; intervalo zero martelaria o
	// banco em loop quente.
	if cfg.Robot.IntervalSeconds <= 0 {
		return nil, fmt.Errorf("ROBOT_INTERVAL_SECONDS deve ser maior que zero")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
