package config

import "github.com/spf13/viper"

// Config holds the application configuration.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	LoggerLevel   string `mapstructure:"LOGGER_LEVEL"`

	PostgresConn string `mapstructure:"POSTGRES_CONN"`
	PostgresUser string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost string `mapstructure:"POSTGRES_HOST"`
	PostgresPort string `mapstructure:"POSTGRES_PORT"`
	PostgresDB   string `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL string `mapstructure:"MIGRATION_URL"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	BaseURL   string `mapstructure:"BASE_URL"`
	UploadDir string `mapstructure:"UPLOAD_DIR"`

	SMTPHost  string `mapstructure:"SMTP_HOST"`
	SMTPPort  string `mapstructure:"SMTP_PORT"`
	SMTPUser  string `mapstructure:"SMTP_USERNAME"`
	SMTPPass  string `mapstructure:"SMTP_PASSWORD"`
	EmailFrom string `mapstructure:"EMAIL_FROM"`

	OneSignalAppID  string `mapstructure:"ONESIGNAL_APP_ID"`
	OneSignalAPIKey string `mapstructure:"ONESIGNAL_REST_API_KEY"`
}

// LoadConfig loads the configuration from app.env in the given path.
func LoadConfig(path string) (cfg Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}
	err = viper.Unmarshal(&cfg)
	return
}
