package player

import (
	"chainreaction/game"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ownerStyles = map[game.Player]lipgloss.Style{
		game.PlayerA: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		game.PlayerB: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	}
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	indexStyle = lipgloss.NewStyle().Faint(true)
)

// Render draws the board with row and column indexes. Owners are colored
// when the terminal supports it.
func Render(g *game.Grid) string {
	const width = 4
	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", width))
	for col := range g.Cols() {
		sb.WriteString(indexStyle.Render(fmt.Sprintf("%*d", width, col)))
	}
	for row := range g.Rows() {
		sb.WriteByte('\n')
		sb.WriteString(indexStyle.Render(fmt.Sprintf("%*d", width, row)))
		for col := range g.Cols() {
			cell := g.At(row, col)
			if cell.Empty() {
				sb.WriteString(emptyStyle.Render(fmt.Sprintf("%*s", width, ".")))
				continue
			}
			token := strconv.Itoa(cell.Count) + cell.Owner.String()
			sb.WriteString(ownerStyles[cell.Owner].Render(fmt.Sprintf("%*s", width, token)))
		}
	}
	return sb.String()
}
