package tuning

import "github.com/james-see/microtune/pkg/notes"

// Row is one note of a tuning chart
type Row struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Cents12   float64 `json:"cents12"`
	Tuned     float64 `json:"tuned"`
	Deviation float64 `json:"deviation"`
}

// Chart samples src at every MIDI note from..to inclusive
func Chart(src *Source, from, to int) ([]Row, error) {
	if to < from {
		return nil, nil
	}
	rows := make([]Row, 0, to-from+1)
	for i := from; i <= to; i++ {
		tuned, err := src.Detune(float64(i))
		if err != nil {
			return nil, err
		}
		std := notes.Cents12(i)
		rows = append(rows, Row{
			Index:     i,
			Name:      notes.Name(i),
			Cents12:   std,
			Tuned:     tuned,
			Deviation: tuned - std,
		})
	}
	return rows, nil
}
