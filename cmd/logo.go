package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const asciiLogo = `
 _ __ ___   ___  _ __ __ _  __ _  ___ _ __ | |_ ___
| '_ ` + "`" + ` _ \ / _ \| '__/ _` + "`" + ` |/ _` + "`" + ` |/ _ \ '_ \| __/ __|
| | | | | | (_) | | | (_| | (_| |  __/ | | | |_\__ \
|_| |_| |_|\___/|_|  \__,_|\__, |\___|_| |_|\__|___/
                           |___/`

var logoStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("99"))

// PrintLogo prints the moragents ASCII art logo
func PrintLogo() {
	fmt.Println(logoStyle.Render(asciiLogo))
}
