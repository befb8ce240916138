// =============================================================================
// TimePro Timesheet - File Manager Utility
// =============================================================================
//
// This module provides the file handling behind the export command:
//   - Output directory management
//   - Output file naming from a placeholder format
//   - Writing files without leaving partial output behind
//
// WRITE STRATEGY:
//   - Output is written to a temporary file in the output directory
//   - The temporary file is renamed into place only when writing succeeds
//   - On failure the temporary file is removed
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager writes output files into one directory.
type FileManager struct {
	// OutputDir is the directory where output files are placed.
	OutputDir string
}

// NewFileManager creates a new FileManager for outputDir.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{OutputDir: outputDir}
}

// EnsureOutputDir creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureOutputDir() error {
	if err := os.MkdirAll(fm.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// WriteFile creates name in the output directory and fills it with write.
//
// PARAMETERS:
//   - name: The file name, relative to the output directory.
//   - write: Writes the file content.
//
// RETURNS:
//   - The path of the written file.
//   - An error if the directory, the file or the content cannot be written.
//     No file is left behind in that case.
func (fm *FileManager) WriteFile(name string, write func(io.Writer) error) (string, error) {
	if err := fm.EnsureOutputDir(); err != nil {
		return "", err
	}

	path := filepath.Join(fm.OutputDir, name)
	tmp, err := os.CreateTemp(fm.OutputDir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move output file into place: %w", err)
	}

	return path, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//             plus one placeholder per key of params, e.g. {start}.
//   - extension: Appended unless the name already ends with it.
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name. Path separators in the result are replaced
//     so the name always stays inside the output directory.
//
// EXAMPLE:
//   format: "timesheet_{start}_{end}_{uuid}"
//   params: {"start": "2021-06-14", "end": "2021-06-18"}
//   output: "timesheet_2021-06-14_2021-06-18_a1b2c3d4-e5f6-7890-abcd-ef1234567890.csv"
func GenerateOutputFileName(format, extension string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	result = strings.NewReplacer("/", "_", `\`, "_").Replace(result)

	if extension != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(extension)) {
		result += extension
	}
	return result
}
