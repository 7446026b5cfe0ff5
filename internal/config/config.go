package config

import "os"

type Config struct {
	Port        string
	DatabaseURL string // Пустое значение - работаем с JSON-файлом
	TasksFile   string
}

func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TasksFile:   getEnv("TASKS_FILE", "data/tasks.json"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
