package output

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sugawarayuuta/sonnet"

	"github.com/decibelcooper/hcreco/internal/sink"
)

// JSONLines writes one JSON object per event with every table as a map of
// column name to values.
type JSONLines struct {
	f *os.File
	w *bufio.Writer
}

type jsonRecord struct {
	Run    int64                     `json:"run"`
	Event  int64                     `json:"event"`
	Tables map[string]map[string]any `json:"tables"`
}

func CreateJSONLines(path string) (*JSONLines, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &JSONLines{f: f, w: bufio.NewWriter(f)}, nil
}

func (j *JSONLines) Write(rec Record) error {
	out := jsonRecord{Run: rec.Run, Event: rec.Event, Tables: map[string]map[string]any{}}
	for _, t := range rec.Tables {
		cols := map[string]any{}
		for _, c := range t.Columns {
			switch c.Kind {
			case sink.Int:
				cols[c.Name] = c.Ints
			case sink.Bool:
				cols[c.Name] = c.Bools
			default:
				cols[c.Name] = c.Floats
			}
		}
		out.Tables[t.Name] = cols
	}
	data, err := sonnet.Marshal(out)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(data); err != nil {
		return err
	}
	return j.w.WriteByte('\n')
}

func (j *JSONLines) Close() error {
	if err := j.w.Flush(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}
