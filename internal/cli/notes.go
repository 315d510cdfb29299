package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mrz1836/relpack/internal/errors"
	"github.com/mrz1836/relpack/internal/tui"
)

// notesWordWrap is the column at which rendered notes are wrapped.
const notesWordWrap = 100

// AddNotesCommand adds the notes command to the root command.
func AddNotesCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newNotesCmd(flags))
}

func newNotesCmd(flags *GlobalFlags) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "notes [file]",
		Short: "Show the rendered release notes",
		Long: `Render RELEASE_NOTES.md from the package output directory in the terminal.

Examples:
  relpack notes
  relpack notes --raw
  relpack notes dist/RELEASE_NOTES.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newCommandEnv(cmd, flags)
			if err != nil {
				return err
			}
			path := notesPath(env)
			if len(args) == 1 {
				path = args[0]
				if !filepath.IsAbs(path) {
					path = filepath.Join(env.workDir, path)
				}
			}
			return runNotes(env, path, raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source without rendering")

	return cmd
}

// notesPath is where the packager writes the release notes.
func notesPath(env *commandEnv) string {
	dir := env.cfg.Package.OutputDir
	switch {
	case dir == "":
		dir = env.workDir
	case !filepath.IsAbs(dir):
		dir = filepath.Join(env.workDir, dir)
	}
	return filepath.Join(dir, env.cfg.Package.NotesFile)
}

// notesResult is the JSON shape of the notes command.
type notesResult struct {
	Path     string `json:"path"`
	Markdown string `json:"markdown"`
}

func runNotes(env *commandEnv, path string, raw bool) error {
	content, err := os.ReadFile(path) //nolint:gosec // Path is built from config or given on the command line
	if err != nil {
		return fmt.Errorf("%w: %s (run 'relpack package' first)", errors.ErrBundleInputMissing, path)
	}

	if env.jsonOutput() {
		return env.finish(notesResult{Path: path, Markdown: string(content)}, nil)
	}

	if raw || !tui.HasColorSupport() {
		_, err = env.w.Write(content)
		return err
	}

	_, err = fmt.Fprint(env.w, renderMarkdown(string(content)))
	return err
}

// renderMarkdown renders markdown with glamour, falling back to the source
// when the renderer is unavailable.
func renderMarkdown(markdown string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(notesWordWrap),
	)
	if err != nil {
		return markdown
	}
	rendered, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}
