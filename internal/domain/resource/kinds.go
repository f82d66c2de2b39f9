package resource

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Profile is the singleton resource: reads target the first document, writes
// upsert it, and there is no delete.
var Profile = Kind{
	Name:       "Profile",
	Path:       "/profile",
	Collection: "profiles",
	Singleton:  true,
	Fields: []Field{
		{Name: "name", Type: TypeString, Required: true},
		{Name: "title", Type: TypeString, Required: true},
		{Name: "bio", Type: TypeString},
		{Name: "email", Type: TypeString, Lowercase: true, Pattern: emailPattern, PatternMessage: "Invalid email format"},
		{Name: "phone", Type: TypeString},
		{Name: "location", Type: TypeString},
		{Name: "socialLinks", Type: TypeObject, Sub: []Field{
			{Name: "github", Type: TypeString},
			{Name: "linkedin", Type: TypeString},
			{Name: "twitter", Type: TypeString},
		}},
		{Name: "skills", Type: TypeStringList},
	},
}

var Project = Kind{
	Name:       "Project",
	Path:       "/projects",
	Collection: "projects",
	SortKey:    "createdAt",
	Deletable:  true,
	Fields: []Field{
		{Name: "title", Type: TypeString, Required: true},
		{Name: "description", Type: TypeString, Required: true},
		{Name: "technologies", Type: TypeStringList},
		{Name: "imageUrl", Type: TypeString},
		{Name: "projectUrl", Type: TypeString},
		{Name: "githubUrl", Type: TypeString},
		{Name: "featured", Type: TypeBool, Default: false},
		{Name: "category", Type: TypeString},
		{Name: "startDate", Type: TypeDate},
		{Name: "endDate", Type: TypeDate},
	},
}

var Venture = Kind{
	Name:       "Venture",
	Path:       "/ventures",
	Collection: "ventures",
	SortKey:    "createdAt",
	Deletable:  true,
	Fields: []Field{
		{Name: "title", Type: TypeString, Required: true},
		{Name: "description", Type: TypeString, Required: true},
		{Name: "type", Type: TypeString, Required: true},
		{Name: "imageUrl", Type: TypeString},
		{Name: "externalUrl", Type: TypeString},
		{Name: "featured", Type: TypeBool, Default: false},
	},
}

// Milestone sorts by the event date rather than creation time.
var Milestone = Kind{
	Name:       "Milestone",
	Path:       "/milestones",
	Collection: "milestones",
	SortKey:    "date",
	Deletable:  true,
	Fields: []Field{
		{Name: "title", Type: TypeString, Required: true},
		{Name: "description", Type: TypeString},
		{Name: "date", Type: TypeDate, Required: true},
		{Name: "category", Type: TypeString},
		{Name: "icon", Type: TypeString},
	},
}

func Kinds() []Kind {
	return []Kind{Profile, Project, Venture, Milestone}
}
