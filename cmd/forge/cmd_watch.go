// Package main watch command: re-render a template whenever its source
// changes and show what the edit changed in the output.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"promptforge/internal/constraint"
	"promptforge/internal/diff"
	"promptforge/internal/loader"
	"promptforge/internal/prompt"
)

var watchCmd = &cobra.Command{
	Use:   "watch <template>",
	Short: "Re-render on template change and diff against the previous render",
	Long: `Watches the template source file; each save re-parses and re-renders,
then prints a diff against the previous render so the effect of an edit is
visible immediately. Parse errors are printed in full and watching
continues.

Uses the same --topic/--spec/--standards/--seo/--constraints flags as
render.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&renderTopicPath, "topic", "", "topic JSON file (required)")
	watchCmd.Flags().StringVar(&renderSpecPath, "spec", "", "research spec JSON file")
	watchCmd.Flags().StringVar(&renderStandardsPath, "standards", "", "content standards JSON file")
	watchCmd.Flags().StringVar(&renderSEOPath, "seo", "", "SEO guidelines JSON file")
	watchCmd.Flags().BoolVar(&renderConstraints, "constraints", false, "derive and append guardrail constraints")
	_ = watchCmd.MarkFlagRequired("topic")
}

func runWatch(cmd *cobra.Command, args []string) error {
	topic, spec, standards, seo, err := loadDomainObjects()
	if err != nil {
		return err
	}
	ctx := prompt.BuildContext(topic, spec, standards, seo)

	opts := prompt.RenderOptions{}
	if renderConstraints {
		c := constraint.Build(topic, spec, standards)
		opts.Constraints = &c
	}

	templatePath := args[0]
	if !filepath.IsAbs(templatePath) {
		templatePath = filepath.Join(cfg.TemplatesDir, templatePath)
	}

	previous := renderOnce(templatePath, ctx, opts, "")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops
	// per-file watches.
	if err := watcher.Add(filepath.Dir(templatePath)); err != nil {
		return fmt.Errorf("failed to watch template directory: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", templatePath)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != templatePath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("template changed", zap.String("event", event.String()))
			previous = renderOnce(templatePath, ctx, opts, previous)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-sigCh:
			return nil
		}
	}
}

// renderOnce parses and renders the template, printing either the full
// output (first render) or a diff against the previous render. Returns the
// rendered text, or the previous text unchanged when this render failed.
func renderOnce(templatePath string, ctx *prompt.Context, opts prompt.RenderOptions, previous string) string {
	name, source, err := loader.LoadTemplate("", templatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read failed: %v\n", err)
		return previous
	}

	tpl, err := prompt.Parse(name, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return previous
	}

	rendered, err := prompt.Render(tpl, ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return previous
	}

	if previous == "" {
		fmt.Print(rendered)
		if rendered != "" && rendered[len(rendered)-1] != '\n' {
			fmt.Println()
		}
		return rendered
	}

	result := diff.Compare(previous, rendered)
	fmt.Println(diff.Format(result))
	return rendered
}
