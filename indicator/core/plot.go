package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

/* -------------------------------------------------------------------------
   Plotting utilities
--------------------------------------------------------------------------*/

// PlotData is one chart-ready line: a series zipped with the timestamps of
// the bars it was derived from.
type PlotData struct {
	Name      string  `json:"name"`
	Type      string  `json:"type,omitempty"`
	Pane      string  `json:"pane,omitempty"`
	Timestamp []int64 `json:"timestamp"`
	Y         Series  `json:"y"`
}

// NewPlotData zips a series with the bar timestamps.
func NewPlotData(name, plotType, pane string, bars []Bar, y Series) (PlotData, error) {
	if len(bars) != len(y) {
		return PlotData{}, fmt.Errorf("mismatched bars and series lengths for %s: %d vs %d", name, len(bars), len(y))
	}
	return PlotData{
		Name:      name,
		Type:      plotType,
		Pane:      pane,
		Timestamp: Timestamps(bars),
		Y:         y,
	}, nil
}

// Tail keeps the last n points.
func (p PlotData) Tail(n int) PlotData {
	p.Timestamp = KeepLast(p.Timestamp, n)
	p.Y = KeepLast(p.Y, n)
	return p
}

func GenerateTimestamps(startTime int64, count int, interval int64) []int64 {
	if count <= 0 {
		return nil
	}
	ts := make([]int64, count)
	for i := 0; i < count; i++ {
		ts[i] = startTime + int64(i)*interval
	}
	return ts
}

func FormatPlotDataJSON(data []PlotData) (string, error) {
	if len(data) == 0 {
		return "[]", nil
	}
	for _, d := range data {
		if len(d.Timestamp) != len(d.Y) {
			return "", fmt.Errorf("mismatched timestamp and Y lengths for %s: %d vs %d", d.Name, len(d.Timestamp), len(d.Y))
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal plot data: %w", err)
	}
	return string(b), nil
}

// FormatPlotDataCSV writes one row per point; undefined values are left empty.
func FormatPlotDataCSV(data []PlotData) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	var sb strings.Builder
	sb.WriteString("Name,Pane,Type,Timestamp,Y\n")
	for _, d := range data {
		if len(d.Timestamp) != len(d.Y) {
			return "", fmt.Errorf("mismatched timestamp and Y lengths for %s: %d vs %d", d.Name, len(d.Timestamp), len(d.Y))
		}
		for i := range d.Y {
			y := ""
			if v, ok := d.Y.Value(i); ok {
				y = strconv.FormatFloat(v, 'f', -1, 64)
			}
			fmt.Fprintf(&sb, "%s,%s,%s,%d,%s\n", d.Name, d.Pane, d.Type, d.Timestamp[i], y)
		}
	}
	return sb.String(), nil
}
