package output

import (
	"os"
	"path/filepath"
)

// LogFilePath returns the path to the log file.
// If GLU_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.glu/logs/glu.log
func LogFilePath() string {
	if customPath := os.Getenv("GLU_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "glu.log"
	}

	return filepath.Join(homeDir, ".glu", "logs", "glu.log")
}
