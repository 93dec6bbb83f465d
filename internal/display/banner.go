package display

import (
	"fmt"
	"io"

	"github.com/fngarvin/moviegen/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, ` __  __            _       ____
|  \/  | _____   _(_) ___ / ___| ___ _ __
| |\/| |/ _ \ \ / / |/ _ \ |  _ / _ \ '_ \
| |  | | (_) \ V /| |  __/ |_| |  __/ | | |
|_|  |_|\___/ \_/ |_|\___|\____|\___|_| |_|
`)
	fmt.Fprint(w, term.NC)
	fmt.Fprintln(w)
}
