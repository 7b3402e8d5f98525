package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pevans/newsorder/newsfeed"
)

var csvHeader = []string{"index", "timestamp", "title", "url", "id"}

// WriteCSV writes one row per item: index, ISO timestamp, title, url, id.
func WriteCSV(w io.Writer, items []newsfeed.Item) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, item := range items {
		record := []string{
			strconv.Itoa(i),
			item.ISOTimestamp(),
			item.Title,
			item.URL,
			item.ID,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV back into items. Only id, title,
// url and the second-precision timestamp survive the round trip.
func ReadCSV(r io.Reader) ([]newsfeed.Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if header[0] != csvHeader[0] {
		return nil, fmt.Errorf("unexpected csv header: %v", header)
	}

	var items []newsfeed.Item
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339, record[1])
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", record[1], err)
		}

		items = append(items, newsfeed.Item{
			ID:               record[4],
			Title:            record[2],
			URL:              record[3],
			TimestampSeconds: ts.Unix(),
		})
	}

	return items, nil
}
