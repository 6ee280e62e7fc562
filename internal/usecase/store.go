package usecase

import (
	"sync"

	"resume-builder/internal/model"
)

const (
	newSchool  = "New School"
	newCompany = "New Company"
	newProject = "New Project"
	newSkill   = "New Skill"
)

// Observer is notified with a private copy of the document after every
// mutation. Observers run under the store lock and must not call back into
// the store.
type Observer interface {
	Notify(doc model.Document, state model.ViewState)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(doc model.Document, state model.ViewState)

func (f ObserverFunc) Notify(doc model.Document, state model.ViewState) { f(doc, state) }

// Store holds one resume document and its view state. Each mutation and the
// notification of all observers happen under a single lock, so concurrent
// requests against the same session never see a half-applied change.
type Store struct {
	mu        sync.Mutex
	doc       model.Document
	state     model.ViewState
	nextID    int64
	observers []subscription
	nextSub   int
}

type subscription struct {
	id int
	o  Observer
}

// NewStore returns a store seeded with doc. Fresh ids start above every id
// already present in doc.
func NewStore(doc model.Document) *Store {
	return &Store{
		doc:       doc.Clone(),
		state:     model.DefaultViewState(),
		nextID:    doc.MaxID() + 1,
	}
}

// Subscribe registers o and notifies it once with the current state.
// The returned func removes the subscription.
func (s *Store) Subscribe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.observers = append(s.observers, subscription{id: id, o: o})
	o.Notify(s.doc.Clone(), s.state)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

func (s *Store) ViewState() model.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AddEntry appends a default entry to section and returns its id.
// An unknown section, or an id counter past model.MaxEntryID, changes
// nothing and returns 0.
func (s *Store) AddEntry(section model.Section) int64 {
	var id int64
	s.mutate(func() bool {
		if s.nextID > model.MaxEntryID {
			return false
		}
		id = s.nextID
		switch section {
		case model.SectionEducation:
			s.doc.Education = append(s.doc.Education, model.EducationEntry{ID: id, School: newSchool})
		case model.SectionExperience:
			s.doc.Experience = append(s.doc.Experience, model.ExperienceEntry{ID: id, Company: newCompany})
		case model.SectionProjects:
			s.doc.Projects = append(s.doc.Projects, model.ProjectEntry{ID: id, Name: newProject})
		default:
			id = 0
			return false
		}
		s.nextID++
		return true
	})
	return id
}

// RemoveEntry deletes the entry with the given id. Missing ids are ignored.
func (s *Store) RemoveEntry(section model.Section, id int64) {
	s.mutate(func() bool {
		switch section {
		case model.SectionEducation:
			return removeByID(&s.doc.Education, id, func(e model.EducationEntry) int64 { return e.ID })
		case model.SectionExperience:
			return removeByID(&s.doc.Experience, id, func(e model.ExperienceEntry) int64 { return e.ID })
		case model.SectionProjects:
			return removeByID(&s.doc.Projects, id, func(e model.ProjectEntry) int64 { return e.ID })
		}
		return false
	})
}

func (s *Store) AddSkill() {
	s.mutate(func() bool {
		s.doc.Skills = append(s.doc.Skills, newSkill)
		return true
	})
}

// RemoveSkill deletes the skill at index. Out of range is ignored.
func (s *Store) RemoveSkill(index int) {
	s.mutate(func() bool {
		if index < 0 || index >= len(s.doc.Skills) {
			return false
		}
		s.doc.Skills = append(s.doc.Skills[:index:index], s.doc.Skills[index+1:]...)
		return true
	})
}

// SetSkill overwrites the skill at index. Out of range is ignored.
func (s *Store) SetSkill(index int, value string) {
	s.mutate(func() bool {
		if index < 0 || index >= len(s.doc.Skills) {
			return false
		}
		s.doc.Skills[index] = value
		return true
	})
}

// SetPersonalField writes one personal info field. It reports false when
// the field name is unknown.
func (s *Store) SetPersonalField(field, value string) bool {
	known := true
	s.mutate(func() bool {
		p := &s.doc.Personal
		switch field {
		case "fullName":
			p.FullName = value
		case "email":
			p.Email = value
		case "phone":
			p.Phone = value
		case "location":
			p.Location = value
		case "linkedin":
			p.LinkedIn = value
		case "summary":
			p.Summary = value
		default:
			known = false
			return false
		}
		return true
	})
	return known
}

// SetEntryField writes one field of the entry with the given id. It reports
// false when the field name is not part of the section's shape. A missing
// entry is not an error.
func (s *Store) SetEntryField(section model.Section, id int64, field, value string) bool {
	if !entryFieldKnown(section, field) {
		return false
	}
	s.mutate(func() bool {
		switch section {
		case model.SectionEducation:
			for i := range s.doc.Education {
				if e := &s.doc.Education[i]; e.ID == id {
					return setEducationField(e, field, value)
				}
			}
		case model.SectionExperience:
			for i := range s.doc.Experience {
				if e := &s.doc.Experience[i]; e.ID == id {
					return setExperienceField(e, field, value)
				}
			}
		case model.SectionProjects:
			for i := range s.doc.Projects {
				if p := &s.doc.Projects[i]; p.ID == id {
					return setProjectField(p, field, value)
				}
			}
		}
		return false
	})
	return true
}

func (s *Store) SetActiveTab(tab model.Tab) {
	s.mutate(func() bool {
		s.state.ActiveTab = tab
		return true
	})
}

func (s *Store) SetActiveTemplate(t model.Template) {
	s.mutate(func() bool {
		s.state.ActiveTemplate = t
		return true
	})
}

// Replace swaps in a whole document. The id counter moves past every id in
// doc so later additions stay unique.
func (s *Store) Replace(doc model.Document) {
	s.mutate(func() bool {
		s.doc = doc.Clone()
		if max := doc.MaxID(); max >= s.nextID {
			s.nextID = max + 1
		}
		return true
	})
}

// mutate runs fn under the lock and notifies observers if fn reports a change.
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !fn() {
		return
	}
	for _, sub := range s.observers {
		sub.o.Notify(s.doc.Clone(), s.state)
	}
}

func removeByID[T any](entries *[]T, id int64, idOf func(T) int64) bool {
	for i, e := range *entries {
		if idOf(e) == id {
			*entries = append((*entries)[:i:i], (*entries)[i+1:]...)
			return true
		}
	}
	return false
}

var entryFields = map[model.Section][]string{
	model.SectionEducation:  {"school", "degree", "date", "gpa", "details"},
	model.SectionExperience: {"company", "role", "location", "date", "details"},
	model.SectionProjects:   {"name", "technologies", "link", "details"},
}

func entryFieldKnown(section model.Section, field string) bool {
	for _, f := range entryFields[section] {
		if f == field {
			return true
		}
	}
	return false
}

func setEducationField(e *model.EducationEntry, field, value string) bool {
	switch field {
	case "school":
		e.School = value
	case "degree":
		e.Degree = value
	case "date":
		e.Date = value
	case "gpa":
		e.GPA = value
	case "details":
		e.Details = value
	default:
		return false
	}
	return true
}

func setExperienceField(e *model.ExperienceEntry, field, value string) bool {
	switch field {
	case "company":
		e.Company = value
	case "role":
		e.Role = value
	case "location":
		e.Location = value
	case "date":
		e.Date = value
	case "details":
		e.Details = value
	default:
		return false
	}
	return true
}

func setProjectField(p *model.ProjectEntry, field, value string) bool {
	switch field {
	case "name":
		p.Name = value
	case "technologies":
		p.Technologies = value
	case "link":
		p.Link = value
	case "details":
		p.Details = value
	default:
		return false
	}
	return true
}
