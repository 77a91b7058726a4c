package dotenv

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load подгружает .env (или переданные файлы) без перезаписи уже выставленных переменных.
func Load(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// ApplyFlags применяет флаги командной строки поверх окружения.
func ApplyFlags() error {
	overrides := map[string]*string{
		"PORT":      flag.String("port", "", "Server port (overrides PORT environment variable)"),
		"LOG_LEVEL": flag.String("log-level", "", "Log level (overrides LOG_LEVEL environment variable)"),
	}
	flag.Parse()

	for env, value := range overrides {
		if *value == "" {
			continue
		}
		if err := os.Setenv(env, *value); err != nil {
			return fmt.Errorf("failed to set %s environment variable: %w", env, err)
		}
	}
	return nil
}
