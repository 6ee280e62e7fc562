// Command render_preview writes a printable template rendering of a resume
// document to an HTML file, without starting the server or Chrome.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-builder/internal/model"
	"resume-builder/internal/view"
)

func main() {
	var in, tpl, out string

	cmd := &cobra.Command{
		Use:   "render_preview",
		Short: "Render a resume document with one template to HTML",
		RunE: func(_ *cobra.Command, _ []string) error {
			return render(in, tpl, out)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Document JSON file (default: sample document)")
	cmd.Flags().StringVar(&tpl, "template", string(model.TemplateModern), "modern, minimal or creative")
	cmd.Flags().StringVar(&out, "out", "resume_preview.html", "Output HTML file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(2)
	}
}

func render(in, tplName, out string) error {
	doc := model.DefaultDocument()
	if in != "" {
		b, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		if doc, err = model.DecodeDocument(b); err != nil {
			return err
		}
	}

	tpl, err := model.ParseTemplate(tplName)
	if err != nil {
		return err
	}
	rendered, err := view.Render(tpl, doc)
	if err != nil {
		return err
	}
	root, err := view.PreviewRoot(rendered)
	if err != nil {
		return err
	}
	page, err := view.Printable(root)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, page, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}
