// Writer implementation printing observations to STDOUT
package history

import (
	"encoding/json"
	"fmt"
)

// StdoutWriter prints observation rows to STDOUT.
type StdoutWriter struct{}

// Write outputs a single observation row.
func (w *StdoutWriter) Write(row Row) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteBatch outputs multiple observation rows.
func (w *StdoutWriter) WriteBatch(rows []Row) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}
