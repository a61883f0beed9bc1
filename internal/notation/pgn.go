package notation

import (
	"fmt"
	"strings"
	"time"

	"github.com/park285/hotseat-chess/internal/rules"
)

// Header carries the PGN tag pairs written before the move text.
type Header struct {
	Event       string
	Site        string
	Date        time.Time
	White       string
	Black       string
	Termination string
}

const (
	ResultWhite   = "1-0"
	ResultBlack   = "0-1"
	ResultPending = "*"
)

// Result maps the winner of a finished game to a PGN result token.
func Result(finished bool, winner rules.Color) string {
	if !finished {
		return ResultPending
	}
	if winner == rules.Black {
		return ResultBlack
	}
	return ResultWhite
}

// PGN renders the tag section and numbered move text.
func PGN(h Header, san []string, result string) string {
	if strings.TrimSpace(result) == "" {
		result = ResultPending
	}
	date := h.Date
	if date.IsZero() {
		date = time.Now()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[Event \"%s\"]\n", orDefault(sanitize(h.Event), "Hot-seat game"))
	fmt.Fprintf(&b, "[Site \"%s\"]\n", orDefault(sanitize(h.Site), "?"))
	fmt.Fprintf(&b, "[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day())
	fmt.Fprintf(&b, "[White \"%s\"]\n", orDefault(sanitize(h.White), "White"))
	fmt.Fprintf(&b, "[Black \"%s\"]\n", orDefault(sanitize(h.Black), "Black"))
	if t := sanitize(h.Termination); t != "" {
		fmt.Fprintf(&b, "[Termination \"%s\"]\n", strings.ToLower(t))
	}
	fmt.Fprintf(&b, "[Result \"%s\"]\n\n", result)

	for i := 0; i < len(san); i += 2 {
		fmt.Fprintf(&b, "%d. %s ", i/2+1, strings.TrimSpace(san[i]))
		if i+1 < len(san) {
			b.WriteString(strings.TrimSpace(san[i+1]))
			b.WriteByte(' ')
		}
	}
	b.WriteString(result)
	return b.String()
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
