package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"planerly/internal/document"
	"planerly/internal/errors"
)

// Export formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// ExportCommand handles the export command
type ExportCommand struct {
	app *App
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app}
}

// Execute writes every project in the format given as format=json|yaml|csv.
// JSON is the default and matches the saved document.
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	format := FormatJSON
	positional, fields := parseArgs(args, "format")
	if len(positional) > 0 {
		return errors.NewInvalidInputError("format", positional[0], "invalid format option")
	}
	if f, ok := fields["format"]; ok {
		format = f
	}

	doc := c.app.planner.Document(ctx)
	switch format {
	case FormatJSON:
		return c.outputJSON(doc)
	case FormatYAML:
		return c.outputYAML(doc)
	case FormatCSV:
		return c.outputCSV(doc)
	default:
		return errors.NewInvalidInputError("format", format, "unsupported format")
	}
}

func (c *ExportCommand) outputJSON(doc *document.Document) error {
	data, err := document.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	c.app.printf("%s\n", data)
	return nil
}

func (c *ExportCommand) outputYAML(doc *document.Document) error {
	encoder := yaml.NewEncoder(c.app.out)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return encoder.Close()
}

// outputCSV writes one row per task.
func (c *ExportCommand) outputCSV(doc *document.Document) error {
	writer := csv.NewWriter(c.app.out)

	header := []string{"Project", "Task ID", "Title", "Description", "Due Date", "Priority", "Completed", "Checklist Done", "Checklist Total", "Created At"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, project := range doc.Projects {
		for _, task := range project.Tasks {
			done := 0
			for _, item := range task.Checklist {
				if item.Completed {
					done++
				}
			}
			record := []string{
				project.Name,
				task.ID,
				task.Title,
				task.Description,
				task.DueDate.Format(time.DateOnly),
				task.Priority,
				strconv.FormatBool(task.Completed),
				strconv.Itoa(done),
				strconv.Itoa(len(task.Checklist)),
				task.CreatedAt.Format(time.RFC3339),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
