// Package document defines the persisted JSON layout of a projects list and
// the codec that reads and writes it.
package document

import (
	"encoding/json"
	"fmt"
	"time"
)

// CurrentSchemaVersion is written into every encoded document.
// Documents without a version are treated as version 1.
const CurrentSchemaVersion = 1

// Document is the single JSON value stored under the persistence key.
type Document struct {
	SchemaVersion    int             `json:"schema_version" yaml:"schema_version"`
	CurrentProjectID string          `json:"current_project_id,omitempty" yaml:"current_project_id,omitempty"`
	Projects         []ProjectRecord `json:"projects" yaml:"projects"`
}

// ProjectRecord is the persisted form of a project.
type ProjectRecord struct {
	ID    string       `json:"id" yaml:"id"`
	Name  string       `json:"name" yaml:"name"`
	Tasks []TaskRecord `json:"tasks" yaml:"tasks"`
}

// TaskRecord is the persisted form of a task. DueDate is midnight UTC of the
// due calendar date.
type TaskRecord struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	DueDate     time.Time         `json:"dueDate" yaml:"dueDate"`
	Priority    string            `json:"priority" yaml:"priority"`
	Completed   bool              `json:"completed" yaml:"completed"`
	Checklist   []ChecklistRecord `json:"checklist" yaml:"checklist"`
	CreatedAt   time.Time         `json:"createdAt" yaml:"createdAt"`
}

// ChecklistRecord is the persisted form of a checklist item.
type ChecklistRecord struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// New returns an empty document at the current schema version.
func New() *Document {
	return &Document{
		SchemaVersion: CurrentSchemaVersion,
		Projects:      []ProjectRecord{},
	}
}

// Encode serializes doc as indented JSON. Nil slices are written as empty arrays.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("encode document: nil document")
	}
	out := *doc
	if out.SchemaVersion == 0 {
		out.SchemaVersion = CurrentSchemaVersion
	}
	out.Projects = normalizeProjects(out.Projects)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Decode parses data, validates it against the document schema and rejects
// documents written by a newer schema version.
func Decode(data []byte) (*Document, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = 1
	}
	if doc.SchemaVersion > CurrentSchemaVersion {
		return nil, &VersionError{Found: doc.SchemaVersion, Supported: CurrentSchemaVersion}
	}
	doc.Projects = normalizeProjects(doc.Projects)

	return &doc, nil
}

// VersionError is returned for documents newer than this build understands.
type VersionError struct {
	Found     int
	Supported int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("document schema version %d is newer than supported version %d", e.Found, e.Supported)
}

// normalizeProjects returns a copy of projects with nil task and checklist
// slices replaced by empty ones. The input is left untouched.
func normalizeProjects(projects []ProjectRecord) []ProjectRecord {
	out := make([]ProjectRecord, len(projects))
	for i, p := range projects {
		tasks := make([]TaskRecord, len(p.Tasks))
		for j, t := range p.Tasks {
			if t.Checklist == nil {
				t.Checklist = []ChecklistRecord{}
			}
			tasks[j] = t
		}
		p.Tasks = tasks
		out[i] = p
	}
	return out
}
