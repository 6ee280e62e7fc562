package model

// Go models that match resume.schema.json, used for editing, validation and rendering.

type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	Summary  string `json:"summary"`
}

type EducationEntry struct {
	ID      int64  `json:"id"`
	School  string `json:"school"`
	Degree  string `json:"degree"`
	Date    string `json:"date"`
	GPA     string `json:"gpa"`
	Details string `json:"details"`
}

type ExperienceEntry struct {
	ID       int64  `json:"id"`
	Company  string `json:"company"`
	Role     string `json:"role"`
	Location string `json:"location"`
	Date     string `json:"date"`
	Details  string `json:"details"`
}

type ProjectEntry struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Technologies string `json:"technologies"`
	Link         string `json:"link"`
	Details      string `json:"details"`
}

// Document is the whole resume. It owns every entry; nothing outside the
// store holds a reference into it.
type Document struct {
	Personal   PersonalInfo      `json:"personal"`
	Education  []EducationEntry  `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
	Projects   []ProjectEntry    `json:"projects"`
	Skills     []string          `json:"skills"`
}

// Clone returns a deep copy. Slices are never nil in the copy so JSON
// output always carries arrays.
func (d Document) Clone() Document {
	out := Document{Personal: d.Personal}
	out.Education = append(make([]EducationEntry, 0, len(d.Education)), d.Education...)
	out.Experience = append(make([]ExperienceEntry, 0, len(d.Experience)), d.Experience...)
	out.Projects = append(make([]ProjectEntry, 0, len(d.Projects)), d.Projects...)
	out.Skills = append(make([]string, 0, len(d.Skills)), d.Skills...)
	return out
}

// MaxEntryID is the largest id an entry may carry. It is the largest integer
// a JSON number holds exactly, so ids survive a round trip through the page.
const MaxEntryID int64 = 1<<53 - 1

// MaxID returns the largest entry id across all sections.
func (d Document) MaxID() int64 {
	var max int64
	for _, e := range d.Education {
		if e.ID > max {
			max = e.ID
		}
	}
	for _, e := range d.Experience {
		if e.ID > max {
			max = e.ID
		}
	}
	for _, p := range d.Projects {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

// DefaultDocument is the sample every new editor session starts from.
func DefaultDocument() Document {
	return Document{
		Personal: PersonalInfo{
			FullName: "Alex Chen",
			Email:    "alex.chen@univ.edu",
			Phone:    "(555) 123-4567",
			Location: "San Francisco, CA",
			LinkedIn: "linkedin.com/in/alex",
			Summary:  "CS Senior seeking full stack roles. Passionate about React, Python, and scalable systems.",
		},
		Education: []EducationEntry{
			{ID: 1, School: "Tech University", Degree: "B.S. Computer Science", Date: "2025", GPA: "3.8", Details: "Data Structures, Algorithms"},
		},
		Experience: []ExperienceEntry{
			{ID: 1, Company: "StartUp Inc", Role: "Intern", Location: "Remote", Date: "Summer 2024", Details: "Built React dashboard. Optimized API calls."},
		},
		Projects: []ProjectEntry{
			{ID: 1, Name: "Task App", Technologies: "React, Firebase", Link: "github.com", Details: "Real-time task manager with drag and drop."},
		},
		Skills: []string{"Python", "JavaScript", "React", "Flask", "SQL"},
	}
}
