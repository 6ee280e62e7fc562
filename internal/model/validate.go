package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/resume.schema.json
var resumeSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(resumeSchema)

// SchemaError lists every schema violation found in an imported document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema validation failed: %s", strings.Join(e.Problems, "; "))
}

// ValidateJSON validates raw document JSON against resume.schema.json.
func ValidateJSON(raw []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &SchemaError{Problems: []string{err.Error()}}
	}
	if res.Valid() {
		return nil
	}
	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return &SchemaError{Problems: problems}
}

// DecodeDocument validates raw JSON and decodes it. Ids must be unique
// within each section.
func DecodeDocument(raw []byte) (Document, error) {
	if err := ValidateJSON(raw); err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, &SchemaError{Problems: []string{fmt.Sprintf("decode document: %v", err)}}
	}

	var problems []string
	problems = append(problems, duplicateIDs(SectionEducation, doc.Education, func(e EducationEntry) int64 { return e.ID })...)
	problems = append(problems, duplicateIDs(SectionExperience, doc.Experience, func(e ExperienceEntry) int64 { return e.ID })...)
	problems = append(problems, duplicateIDs(SectionProjects, doc.Projects, func(e ProjectEntry) int64 { return e.ID })...)
	if len(problems) > 0 {
		return Document{}, &SchemaError{Problems: problems}
	}
	return doc.Clone(), nil
}

func duplicateIDs[T any](section Section, entries []T, id func(T) int64) []string {
	seen := make(map[int64]struct{}, len(entries))
	var out []string
	for _, e := range entries {
		v := id(e)
		if _, ok := seen[v]; ok {
			out = append(out, fmt.Sprintf("%s: duplicate id %d", section, v))
			continue
		}
		seen[v] = struct{}{}
	}
	return out
}
