package alps

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// renderMarkdown renders md for the terminal. Plain output, or a renderer
// failure, returns md unchanged.
func renderMarkdown(md string, width int) string {
	if !styledHelp {
		return md
	}
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}

func newGuideCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:     "guide",
		Short:   MsgGuideShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(MsgGuide, width))
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, MsgFlagWidth)
	return cmd
}
