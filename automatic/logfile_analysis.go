package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// AnalyzeLogFile reads a log written by StartCompVCompGames and
// summarizes it.
func AnalyzeLogFile(filepath string) (*Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return analyzeLog(file)
}

func analyzeLog(rd io.Reader) (*Summary, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = 6
	s := NewSummary()
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "gameID" {
			continue
		}
		res, err := parseRecord(record)
		if err != nil {
			return nil, err
		}
		s.Add(res)
	}
	return s, nil
}

func parseRecord(record []string) (*GameResult, error) {
	var ints [4]int
	for i := range ints {
		v, err := strconv.Atoi(record[i])
		if err != nil {
			return nil, fmt.Errorf("bad log record %v: %w", record, err)
		}
		ints[i] = v
	}
	res := &GameResult{
		GameID:     ints[0],
		Winner:     ints[1],
		Turns:      ints[2],
		FirstMover: ints[3],
		Reason:     record[4],
		Moves:      strings.Fields(record[5]),
	}
	if res.Winner < -1 || res.Winner > 1 || res.FirstMover < 0 || res.FirstMover > 1 {
		return nil, fmt.Errorf("bad log record %v: player out of range", record)
	}
	return res, nil
}
