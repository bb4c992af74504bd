package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tagwatch/tagwatch-go/pkg/notify"
)

// RunExport exports the journal to the specified format.
func RunExport(path, format, output string) error {
	reader, err := notify.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return export(reader, format, w)
}

func export(reader *notify.Reader, format string, w io.Writer) error {
	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

// jsonEntry is the JSONL shape of a journal entry.
type jsonEntry struct {
	Timestamp      string  `json:"timestamp"`
	SubscriptionID string  `json:"subscription_id"`
	PlaceID        string  `json:"place_id,omitempty"`
	PlaceName      string  `json:"place_name,omitempty"`
	Transition     string  `json:"transition"`
	Title          string  `json:"title"`
	Message        string  `json:"message"`
	DistanceMeters float64 `json:"distance_m,omitempty"`
}

func exportJSONL(reader *notify.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		n, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}
		entry := jsonEntry{
			Timestamp:      n.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
			SubscriptionID: n.SubscriptionID,
			PlaceID:        n.PlaceID,
			PlaceName:      n.PlaceName,
			Transition:     n.Transition.String(),
			Title:          n.Title,
			Message:        n.Message,
			DistanceMeters: n.DistanceMeters,
		}
		if err := encoder.Encode(entry); err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *notify.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	// Write header
	header := []string{"timestamp", "subscription_id", "place_id", "place_name", "transition", "title", "message", "distance_m"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		n, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}

		row := []string{
			n.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
			n.SubscriptionID,
			n.PlaceID,
			n.PlaceName,
			n.Transition.String(),
			n.Title,
			n.Message,
			strconv.FormatFloat(n.DistanceMeters, 'f', 1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
