package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Skirmish.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Red-team to blue-team gradient
	s1 := termenv.String("      _    _                _     _     ").Foreground(p.Color("#f87171"))
	s2 := termenv.String("  ___| | _(_)_ __ _ __ ___ (_)___| |__  ").Foreground(p.Color("#fb923c"))
	s3 := termenv.String(" / __| |/ / | '__| '_ ` _ \\| / __| '_ \\ ").Foreground(p.Color("#e879f9"))
	s4 := termenv.String(" \\__ \\   <| | |  | | | | | | \\__ \\ | | |").Foreground(p.Color("#a78bfa"))
	s5 := termenv.String(" |___/_|\\_\\_|_|  |_| |_| |_|_|___/_| |_|").Foreground(p.Color("#60a5fa"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
