package utils

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads the given .env files and returns them merged with the process
// environment. Earlier files win over later ones and the process environment
// wins over all files, matching godotenv.Load semantics.
func LoadEnv(files ...string) map[string]string {
	config := make(map[string]string)

	// Read files last-to-first so earlier files override later ones
	for i := len(files) - 1; i >= 0; i-- {
		file := files[i]
		if _, err := os.Stat(file); err != nil {
			continue
		}

		values, err := godotenv.Read(file)
		if err != nil {
			log.Printf("[UTILS]: Warning, could not load %s: %v", file, err)
			continue
		}

		for key, value := range values {
			config[key] = value
		}
	}

	for _, env := range os.Environ() {
		if key, value, ok := strings.Cut(env, "="); ok && key != "" {
			config[key] = value
		}
	}

	return config
}

// EnvFile returns the .env file to load, honouring ENV_FILE
func EnvFile() string {
	if file := os.Getenv("ENV_FILE"); file != "" {
		return file
	}
	return ".env"
}
