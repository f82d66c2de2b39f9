package config

import (
	"log"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	DB struct {
		URI  string `mapstructure:"uri"`
		Name string `mapstructure:"name"`
	} `mapstructure:"db"`
}

func LoadConfig(path string) (cfg Config, err error) {

	if err = godotenv.Load(path + "/.env"); err != nil {
		log.Println("warning: .env file not found, use environment only.")
	}

	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err = viper.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read environment only. Error: %v", err)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("db.name", "portfolio")

	viper.BindEnv("app.port", "APP_PORT")
	viper.BindEnv("app.env", "APP_ENV")
	viper.BindEnv("db.uri", "MONGODB_URI")
	viper.BindEnv("db.name", "MONGODB_DB")

	err = viper.Unmarshal(&cfg)
	return
}

// Validate enforces the settings the process cannot start without. A missing
// connection endpoint is fatal misconfiguration, not something to retry.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c.DB,
		validation.Field(&c.DB.URI, validation.Required),
		validation.Field(&c.DB.Name, validation.Required),
	)
	if err != nil {
		return apperror.NewConfig("connection target not configured: set MONGODB_URI")
	}
	return validation.ValidateStruct(&c.App,
		validation.Field(&c.App.Port, validation.Required),
	)
}
