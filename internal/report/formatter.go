package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatMsgPack Format = "msgpack"
)

// Write encodes the report to w in the given format. CSV is the default.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatCSV, "":
		return writeCSV(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatMsgPack:
		return writeMsgPack(w, r)
	default:
		return fmt.Errorf("unsupported report format %q", string(format))
	}
}

// WriteFile writes the report to path, creating or truncating it.
func WriteFile(path string, r *Report, format Format) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(file, r, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeCSV(w io.Writer, r *Report) error {
	writer := csv.NewWriter(w)

	header := []string{"period"}
	for _, s := range r.Series {
		header = append(header, s.Column())
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	labels := r.Labels()
	for i, row := range r.Rows() {
		record := make([]string, 0, len(row)+1)
		record = append(record, labels[i])
		for _, level := range row {
			record = append(record, strconv.FormatFloat(level, 'f', 3, 64))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeMsgPack(w io.Writer, r *Report) error {
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(r)
}
