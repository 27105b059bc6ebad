package net

import (
	"errors"
	"fmt"
	"strings"

	"dotmatrix/internal/state"
)

// TypeSnapshot tags a full board snapshot.
const TypeSnapshot = "snapshot"

// ErrMalformedMessage is returned when a message cannot describe a grid.
var ErrMalformedMessage = errors.New("net: malformed message")

// Message is the mirror wire format. Rows holds one string per grid row with
// '1' for on cells and '0' for off cells.
type Message struct {
	Type     string   `json:"type"`
	Session  string   `json:"session"`
	Revision uint64   `json:"revision"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	DotSize  float64  `json:"dot_size"`
	Rows     []string `json:"rows"`
}

// SnapshotMessage encodes s for viewers. The reference image stays local.
func SnapshotMessage(session string, s state.Snapshot) Message {
	d := s.Dimensions()
	rows := make([]string, 0, d.Height)
	if s.Grid != nil {
		var sb strings.Builder
		for _, cols := range s.Grid.Rows() {
			sb.Reset()
			for _, on := range cols {
				if on {
					sb.WriteByte('1')
				} else {
					sb.WriteByte('0')
				}
			}
			rows = append(rows, sb.String())
		}
	}
	return Message{
		Type:     TypeSnapshot,
		Session:  session,
		Revision: s.Revision,
		Width:    d.Width,
		Height:   d.Height,
		DotSize:  s.DotSize,
		Rows:     rows,
	}
}

// Snapshot decodes m back into a board snapshot.
func (m Message) Snapshot() (state.Snapshot, error) {
	if m.Type != TypeSnapshot {
		return state.Snapshot{}, fmt.Errorf("%w: type %q", ErrMalformedMessage, m.Type)
	}
	g, err := state.NewGrid(m.Width, m.Height)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if len(m.Rows) != m.Height {
		return state.Snapshot{}, fmt.Errorf("%w: %d rows for height %d", ErrMalformedMessage, len(m.Rows), m.Height)
	}
	for row, line := range m.Rows {
		if len(line) != m.Width {
			return state.Snapshot{}, fmt.Errorf("%w: row %d has %d cells", ErrMalformedMessage, row, len(line))
		}
		for col := 0; col < len(line); col++ {
			switch line[col] {
			case '1':
				g.Set(state.Cell{Col: col, Row: row}, true)
			case '0':
			default:
				return state.Snapshot{}, fmt.Errorf("%w: row %d col %d", ErrMalformedMessage, row, col)
			}
		}
	}
	return state.Snapshot{Grid: g, DotSize: m.DotSize, Revision: m.Revision}, nil
}
