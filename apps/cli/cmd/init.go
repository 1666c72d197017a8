package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/webreq/packages/core/config"
	"github.com/spf13/cobra"
)

// defaultInitMode is written to settings.json unless --mode is given.
const defaultInitMode = "DEV"

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new webreq workspace",
	Long: `Initialize a new webreq workspace in the current directory.

This creates:
  - settings.json                      - Runtime settings
  - requests/example.json.example      - Example namespace, rename to use it

Examples:
  webreq init
  webreq init --mode PROD --force`,
	Args: usageArgs(cobra.NoArgs),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

// initSettings is the subset of settings written by init, in file order.
type initSettings struct {
	Mode         string `json:"mode"`
	LiveReload   bool   `json:"liveReload"`
	ContentOnly  bool   `json:"contentOnly"`
	RequestsDir  string `json:"requestsDir"`
	ResponsesDir string `json:"responsesDir"`
}

const exampleNamespace = `{
  "url": {
    "PROD": "https://api.example.com",
    "DEV": "http://localhost:3000"
  },
  "variables": {
    "pageSize": 20
  },
  "common": {
    "headers": {
      "Accept": "application/json"
    }
  },
  "requests": {
    "health": {
      "endpoint": "health",
      "method": "GET"
    },
    "listItems": {
      "endpoint": "items",
      "method": "GET",
      "parameters": {
        "page": 1,
        "size": "{{pageSize}}"
      }
    },
    "getItem": {
      "endpoint": "items",
      "method": "GET",
      "id": 42
    },
    "createItem": {
      "endpoint": "items",
      "method": "POST",
      "headers": {
        "X-Request-Id": "{{uuid()}}"
      },
      "body": {
        "name": "Example item",
        "createdAt": "{{now()}}"
      }
    },
    "replaceItem": {
      "endpoint": "items",
      "method": "PUT",
      "id": 42,
      "body": {
        "name": "Replaced item"
      },
      "basicAuth": {
        "username": "{{$EXAMPLE_USER}}",
        "password": "{{$EXAMPLE_PASSWORD}}"
      }
    },
    "seed": {
      "endpoint": "admin/seed",
      "method": "POST",
      "mode": "DEV",
      "body": {
        "count": 10
      }
    }
  }
}
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	settingsFile := filepath.Join(cwd, config.SettingsName+".json")
	requestsDir := filepath.Join(cwd, config.DefaultRequestsDir)
	exampleFile := filepath.Join(requestsDir, "example.json.example")

	if !forceInit {
		for _, f := range []string{settingsFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	mode, _ := cmd.Flags().GetString("mode")
	if mode == "" {
		mode = defaultInitMode
	}

	settingsJSON, err := json.MarshalIndent(initSettings{
		Mode:         mode,
		RequestsDir:  config.DefaultRequestsDir,
		ResponsesDir: config.DefaultResponsesDir,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(settingsFile, append(settingsJSON, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", settingsFile)

	if err := os.MkdirAll(requestsDir, 0755); err != nil {
		return fmt.Errorf("failed to create requests directory: %w", err)
	}
	if err := os.WriteFile(exampleFile, []byte(exampleNamespace), 0644); err != nil {
		return fmt.Errorf("failed to create example namespace: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nRename %s to <namespace>.json and run webreq.\n", filepath.Base(exampleFile))
	return nil
}
