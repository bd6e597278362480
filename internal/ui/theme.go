package ui

import (
	"strings"

	"github.com/idilsaglam/taskboard/internal/model"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending, Progress string
	CornerTL, CornerTR, CornerBL, CornerBR                  string
	H, V                                                    string
	SymDone, SymProgress, SymPending                        string
}

var current Theme

func init() { SetTheme("classic") }

// Themes lists the names SetTheme knows.
var Themes = []string{"classic", "neon", "mono"}

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m", Progress: "\033[96m",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymDone: "◼", SymProgress: "◧", SymPending: "◻",
		}
	case "mono":
		disableColor = true
		current = Theme{
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymDone: "[x]", SymProgress: "[~]", SymPending: "[ ]",
		}
	default: // classic
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow, Progress: fgBlue,
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymDone: "✔", SymProgress: "◐", SymPending: "•",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }

// Status returns the color and symbol of a task status.
func (t Theme) Status(s model.Status) (color, sym string) {
	switch s {
	case model.Finished:
		return t.Success, t.SymDone
	case model.InProgress:
		return t.Progress, t.SymProgress
	default:
		return t.Pending, t.SymPending
	}
}
