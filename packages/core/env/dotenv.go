package env

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// DefaultDotEnv is the env file loaded from the working directory.
const DefaultDotEnv = ".env"

// LoadDotEnv parses a .env file and returns its key-value pairs without
// touching the process environment.
func LoadDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read env file: %w", err)
	}
	return vars, nil
}

// LoadAndExportDotEnv exports the variables of a .env file so that
// {{$VAR}} references resolve. Variables already set in the process
// environment win. A missing file is not an error when optional is true.
func LoadAndExportDotEnv(path string, optional bool) error {
	if err := godotenv.Load(path); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("cannot load env file: %w", err)
	}
	return nil
}
