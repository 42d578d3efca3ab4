package game

import (
	"fmt"
)

// Row is one rendered board line: the decoded confirmed-correct cells, the
// guess as typed and the decoded confirmed-absent cells after that turn.
type Row struct {
	Turn    int    `json:"turn"`
	Label   string `json:"label"`
	Correct string `json:"correct"`
	Guess   string `json:"guess"`
	Absent  string `json:"absent"`
	Cells   []Cell `json:"cells"`
}

// Cell exposes the raw dots behind one position of a row. Hit is what that
// row's guess matched on its own; Dots numbers the confirmed dots for drawing.
type Cell struct {
	Correct string `json:"correct"`
	Absent  string `json:"absent"`
	Unknown string `json:"unknown"`
	Hit     string `json:"hit"`
	Dots    []int  `json:"dots"`
}

// Board is the whole rendered session.
type Board struct {
	GameID   string `json:"gameId"`
	State    State  `json:"state"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
	Turn     int    `json:"turn"`
	MaxTurns int    `json:"maxTurns"`
	Length   int    `json:"length"`
	Rows     []Row  `json:"rows"`
}

// Row renders turn n (1-based).
func (s *Session) Row(n int) (Row, bool) {
	if n < 1 || n > len(s.guesses) {
		return Row{}, false
	}
	acc := s.history[n-1]
	g := s.guesses[n-1]
	ph := s.opts.Placeholder
	hit := Delta(g, s.target, s.opts.Policy)

	cells := make([]Cell, acc.Len())
	for i := range cells {
		cells[i] = Cell{
			Correct: acc.Correct[i].String(),
			Absent:  acc.Absent[i].String(),
			Unknown: acc.Unknown(i, g.Patterns[i]).String(),
			Hit:     hit.Correct[i].String(),
			Dots:    acc.Correct[i].Dots(),
		}
	}
	return Row{
		Turn:    n,
		Label:   fmt.Sprintf("%d/%d", n, s.opts.MaxTurns),
		Correct: s.symbols.DecodeString(acc.Correct, ph),
		Guess:   g.Text,
		Absent:  s.symbols.DecodeString(acc.Absent, ph),
		Cells:   cells,
	}, true
}

// Board renders every accepted turn in order.
func (s *Session) Board() Board {
	rows := make([]Row, 0, len(s.guesses))
	for n := 1; n <= len(s.guesses); n++ {
		r, _ := s.Row(n)
		rows = append(rows, r)
	}
	return Board{
		GameID:   s.ID,
		State:    s.state,
		Status:   s.status,
		Message:  s.status.Message(),
		Turn:     len(s.guesses),
		MaxTurns: s.opts.MaxTurns,
		Length:   s.target.Len(),
		Rows:     rows,
	}
}
