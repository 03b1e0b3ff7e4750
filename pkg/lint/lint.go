// Package lint checks stored fixtures for records that would be skipped
// or served wrongly at replay time.
package lint

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/getmockd/httpfixture/pkg/fixture"
	"github.com/getmockd/httpfixture/pkg/resource"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "response.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Store is a fixture store that can enumerate its records.
type Store interface {
	resource.Store
	resource.Lister
}

// Problem is a single finding.
type Problem struct {
	// File is the slash path of the record, relative to the store.
	File string `json:"file"`
	// Field is the offending field, in dot notation, when known.
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	if p.Field != "" {
		return fmt.Sprintf("%s: %s: %s", p.File, p.Field, p.Message)
	}
	return fmt.Sprintf("%s: %s", p.File, p.Message)
}

// Report is the result of linting a store.
type Report struct {
	Checked  int       `json:"checked"`
	Problems []Problem `json:"problems,omitempty"`
}

// OK reports whether no problems were found.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

func (r *Report) add(file, field, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{File: file, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Lint checks every record matched by pattern (resource.DefaultListPattern
// when empty). Errors are returned only when the store itself fails.
func Lint(s Store, pattern string) (*Report, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	files, err := s.List(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}

	report := &Report{}
	for _, file := range files {
		if !strings.HasSuffix(file, fixture.RecordSuffix) {
			continue
		}
		report.Checked++
		if err := lintRecord(s, sch, file, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func lintRecord(s Store, sch *jsonschema.Schema, file string, report *Report) error {
	folder, name := path.Split(file)
	folder = strings.TrimSuffix(folder, "/")

	data, found, err := resource.Load(s, folder, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	if !found {
		report.add(file, "", "listed but not readable")
		return nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		report.add(file, "", "invalid JSON: %v", err)
		return nil
	}
	if err := sch.Validate(doc); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok {
			addSchemaErrors(file, verr, report)
		} else {
			report.add(file, "", "%v", err)
		}
		return nil
	}

	rec, err := fixture.ParseRecord(data)
	if err != nil {
		report.add(file, "", "%v", err)
		return nil
	}
	if rec.ContentFileName == nil {
		return nil
	}
	return lintContent(s, file, folder, rec, report)
}

func lintContent(s Store, file, folder string, rec *fixture.ResponseRecord, report *Report) error {
	contentName := *rec.ContentFileName
	content, found, err := resource.Load(s, folder, contentName)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path.Join(folder, contentName), err)
	}
	if !found {
		report.add(file, "ContentFileName", "content file %s is missing", contentName)
		return nil
	}

	contentType := http.Header(rec.ContentHeaders).Get("Content-Type")
	if contentType == "" {
		return nil
	}
	ext, ok := fixture.ExtensionForMIMEType(contentType)
	if !ok {
		return nil
	}
	if !strings.HasSuffix(contentName, ext) {
		report.add(file, "ContentFileName", "content type %s expects a %s file", contentType, ext)
	}
	if ext == ".json" && !json.Valid(content) {
		report.add(file, "ContentFileName", "content file %s is not valid JSON", contentName)
	}
	return nil
}

func addSchemaErrors(file string, err *jsonschema.ValidationError, report *Report) {
	if len(err.Causes) == 0 {
		report.add(file, fieldFromPointer(err.InstanceLocation), "%s", err.Message)
		return
	}
	for _, cause := range err.Causes {
		addSchemaErrors(file, cause, report)
	}
}

func fieldFromPointer(p string) string {
	p = strings.TrimPrefix(p, "/")
	return strings.ReplaceAll(p, "/", ".")
}
