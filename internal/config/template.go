package config

import (
	"fmt"
	"os"
)

// Template is the configuration written by 'commitflow init'
const Template = `{
  "activeModel": "deepseek",
  "fallbackModel": "local",
  "models": {
    "deepseek": {
      "provider": "deepseek",
      "model": "deepseek-chat",
      "apiKey": "${DEEPSEEK_API_KEY}"
    },
    "openai": {
      "provider": "openai",
      "model": "gpt-4o-mini",
      "apiKey": "${OPENAI_API_KEY}"
    },
    "gemini": {
      "provider": "gemini",
      "model": "gemini-2.0-flash",
      "apiKey": "${GEMINI_API_KEY}"
    },
    "local": {
      "provider": "ollama",
      "model": "llama3.2",
      "baseUrl": "http://localhost:11434"
    }
  },
  "temperature": 0.3,
  "maxTokens": 500,
  "language": "en",
  "emoji": false,
  "checks": {
    "build": {"command": "go build ./...", "blocking": true, "timeout": 120},
    "lint": {"command": "go vet ./...", "blocking": false, "timeout": 60},
    "test": {"command": "go test ./...", "blocking": true, "timeout": 300, "enabled": false}
  },
  "prompts": {
    "confirmStage": true,
    "confirmCommit": true,
    "confirmPush": true,
    "similarCommits": 5,
    "maxRetries": 5
  },
  "workflow": ["stage-confirm", "check", "commit-interactive", "push-confirm"],
  "workflows": {
    "release": ["stage", "check-build", "check-test", "commit-confirm", "push-confirm"]
  },
  "history": {"backend": "git", "maxCommits": 200},
  "ui": {"theme": "default", "color": true, "spinner": true}
}
`

// WriteTemplate writes Template to path. An existing file is only replaced when force is set.
func WriteTemplate(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}
	if err := os.WriteFile(path, []byte(Template), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
