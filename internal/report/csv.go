package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
)

// WriteCSV writes a header row and data rows to a CSV file.
func WriteCSV(path string, headers []string, rows [][]string) (string, error) {
	return saveWithFallback(path, func(p string) error {
		file, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("create csv file: %w", err)
		}
		defer func() { _ = file.Close() }()

		buffered := bufio.NewWriter(file)
		writer := csv.NewWriter(buffered)

		if len(headers) > 0 {
			if err := writer.Write(headers); err != nil {
				return fmt.Errorf("write header: %w", err)
			}
		}
		for _, row := range rows {
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}

		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}
		if err := buffered.Flush(); err != nil {
			return fmt.Errorf("flush buffered csv: %w", err)
		}
		return file.Close()
	})
}
