package model

import "fmt"

// Tab selects which editor panel is shown.
type Tab string

const (
	TabPersonal   Tab = "personal"
	TabEducation  Tab = "education"
	TabExperience Tab = "experience"
	TabProjects   Tab = "projects"
	TabSkills     Tab = "skills"
)

// Tabs lists the editor tabs in display order.
var Tabs = []Tab{TabPersonal, TabEducation, TabExperience, TabProjects, TabSkills}

// Template selects the preview layout.
type Template string

const (
	TemplateModern   Template = "modern"
	TemplateMinimal  Template = "minimal"
	TemplateCreative Template = "creative"
)

// Templates lists the preview layouts in display order.
var Templates = []Template{TemplateModern, TemplateMinimal, TemplateCreative}

// Section names one of the id-keyed entry sequences.
type Section string

const (
	SectionEducation  Section = "education"
	SectionExperience Section = "experience"
	SectionProjects   Section = "projects"
)

// ViewState is per-session UI selection. It is not part of the document.
type ViewState struct {
	ActiveTab      Tab      `json:"activeTab"`
	ActiveTemplate Template `json:"activeTemplate"`
}

func DefaultViewState() ViewState {
	return ViewState{ActiveTab: TabPersonal, ActiveTemplate: TemplateModern}
}

func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

func ParseTemplate(s string) (Template, error) {
	for _, t := range Templates {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown template %q", s)
}

func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionEducation, SectionExperience, SectionProjects:
		return Section(s), nil
	}
	return "", fmt.Errorf("unknown section %q", s)
}
