package mapper

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/astrelya/cv-to-dc/internal/dateparse"
	"github.com/astrelya/cv-to-dc/internal/schema"
)

// GeneratedDateLayout is the French short date stamped on generated documents.
const GeneratedDateLayout = "02/01/2006"

// TemplateData is the flat object merged into document templates. The JSON
// names are the placeholder vocabulary; every key is always present.
type TemplateData struct {
	FullName        string              `json:"fullName"`
	FirstName       string              `json:"firstName"`
	LastName        string              `json:"lastName"`
	Headline        string              `json:"headline"`
	Email           string              `json:"email"`
	Phone           string              `json:"phone"`
	Address         string              `json:"address"`
	PostalCode      string              `json:"postalCode"`
	City            string              `json:"city"`
	LinkedIn        string              `json:"linkedin"`
	GitHub          string              `json:"github"`
	Website         string              `json:"website"`
	YearsExperience string              `json:"years_experience"`
	Summary         string              `json:"summary"`
	Experience      []ExperienceItem    `json:"experience"`
	Education       []EducationItem     `json:"education"`
	Skills          SkillSet            `json:"skills"`
	Certifications  []CertificationItem `json:"certifications"`
	Projects        []ProjectItem       `json:"projects"`
	Languages       []LanguageItem      `json:"languages"`
	Awards          []AwardItem         `json:"awards"`
	Affiliations    []string            `json:"affiliations"`
	Interests       string              `json:"interests"`
	Notes           string              `json:"notes"`
	GeneratedDate   string              `json:"generatedDate"`
}

type ExperienceItem struct {
	Title            string      `json:"title"`
	Company          string      `json:"company"`
	Location         string      `json:"location"`
	StartDate        string      `json:"start_date"`
	EndDate          string      `json:"end_date"`
	Period           string      `json:"period"`
	Current          bool        `json:"current"`
	Description      Description `json:"description"`
	Responsibilities []string    `json:"responsibilities"`
	Achievements     []string    `json:"achievements"`
	Technologies     []string    `json:"technologies"`
}

// Description renders as a single string, or as a list of lines when Lines
// is set.
type Description struct {
	Text  string
	Lines []string
}

func (d Description) MarshalJSON() ([]byte, error) {
	if d.Lines != nil {
		return json.Marshal(d.Lines)
	}
	return json.Marshal(d.Text)
}

type EducationItem struct {
	Degree      string   `json:"degree"`
	Field       string   `json:"field"`
	Institution string   `json:"institution"`
	Location    string   `json:"location"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Period      string   `json:"period"`
	Year        string   `json:"year"`
	GPA         string   `json:"gpa"`
	Honors      []string `json:"honors"`
	Description string   `json:"description"`
	Current     bool     `json:"current"`
}

type CertificationItem struct {
	Name       string `json:"name"`
	Issuer     string `json:"issuer"`
	Date       string `json:"date"`
	Year       string `json:"year"`
	ExpiryDate string `json:"expiryDate"`
}

type ProjectItem struct {
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Organization string   `json:"organization"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Description  string   `json:"description"`
	Duration     string   `json:"duration"`
	Link         string   `json:"link"`
	Highlights   []string `json:"highlights"`
	TechStack    []string `json:"tech_stack"`
	Technologies []string `json:"technologies"`
}

type LanguageItem struct {
	Name        string `json:"name"`
	Level       string `json:"level"`
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
	IsLast      bool   `json:"isLast"`
}

// AwardItem renders as a bare string when the source award was one.
type AwardItem struct {
	Name        string `json:"name"`
	Issuer      string `json:"issuer"`
	Year        string `json:"year"`
	Description string `json:"description"`
	Plain       bool   `json:"-"`
}

func (a AwardItem) MarshalJSON() ([]byte, error) {
	if a.Plain {
		return json.Marshal(a.Name)
	}
	type plain AwardItem
	return json.Marshal(plain(a))
}

// SkillSet is one of LegacySkills, CustomSkills or SkillGroups.
type SkillSet interface {
	isSkillSet()
}

type LegacySkills struct {
	Technical []string `json:"technical"`
	Languages []string `json:"languages"`
	Soft      []string `json:"soft"`
	Tools     []string `json:"tools"`
}

// Marker carries loop position flags so templates can place separators.
type Marker struct {
	Label   string `json:"label"`
	IsFirst bool   `json:"isFirst"`
	IsLast  bool   `json:"isLast"`
}

// CustomSkills mirrors the extraction categories. CICD holds at most one
// empty element: templates print a fixed CI/CD block once when the category
// is non-empty. CICDList keeps the names.
type CustomSkills struct {
	Cloud             []Marker   `json:"cloud"`
	PlatformsOS       []string   `json:"platforms_os"`
	Containers        []string   `json:"containers"`
	Orchestration     []string   `json:"orchestration"`
	IaC               []string   `json:"iac"`
	CICD              []struct{} `json:"ci_cd"`
	CICDList          []string   `json:"ci_cd_list"`
	VersionControl    []string   `json:"version_control"`
	MonitoringLogging []string   `json:"monitoring_logging"`
	DatabasesCache    []string   `json:"databases_cache"`
	Search            []string   `json:"search"`
	Security          []string   `json:"security"`
	Scripting         []string   `json:"scripting"`
	OtherTools        []string   `json:"other_tools"`
}

// SkillGroups is the grouped shape produced from form data.
type SkillGroups []SkillGroup

type SkillGroup struct {
	Category string      `json:"category"`
	Skills   []SkillItem `json:"skills"`
}

type SkillItem struct {
	Name   string `json:"name"`
	Level  string `json:"level"`
	IsLast bool   `json:"isLast"`
}

func (LegacySkills) isSkillSet() {}
func (CustomSkills) isSkillSet() {}
func (SkillGroups) isSkillSet() {}

// ToTemplate maps an extraction to template data stamped with now.
func ToTemplate(ext schema.Extraction, now time.Time) (*TemplateData, error) {
	switch cv := ext.(type) {
	case *schema.CustomCV:
		return customTemplate(cv, now), nil
	case *schema.LegacyCV:
		return legacyTemplate(cv, now), nil
	default:
		return nil, fmt.Errorf("%w: cannot map %T to template data", schema.ErrUnknownSchema, ext)
	}
}

func customTemplate(cv *schema.CustomCV, now time.Time) *TemplateData {
	d := newTemplateData(now)
	d.FullName = cv.Name.String()
	d.FirstName, d.LastName = splitNameText(cv.Name.String())
	d.Headline = cv.Headline.String()
	d.YearsExperience = cv.YearsExperience.String()
	d.Summary = cv.Summary.String()
	d.Notes = cv.Notes.String()

	if c := cv.Contact; c != nil {
		d.Email = c.Email.String()
		d.Phone = c.Phone.String()
		d.Address, d.PostalCode, d.City = c.Location.Flatten()
		d.LinkedIn = c.Links.LinkedIn.String()
		d.GitHub = c.Links.GitHub.String()
		d.Website = c.Links.Website.String()
	}

	for _, exp := range cv.Experience {
		r := dateparse.ParseRange(exp.StartDate.String(), exp.EndDate.String())
		d.Experience = append(d.Experience, ExperienceItem{
			Title:            exp.Title.String(),
			Company:          exp.Company.String(),
			Location:         exp.Location.String(),
			StartDate:        exp.StartDate.String(),
			EndDate:          exp.EndDate.String(),
			Period:           period(exp.StartDate.String(), exp.EndDate.String()),
			Current:          r.IsCurrent,
			Description:      Description{Text: exp.Description.String()},
			Responsibilities: values(exp.Responsibilities),
			Achievements:     values(exp.Achievements),
			Technologies:     values(exp.Technologies),
		})
	}

	for _, edu := range cv.Education {
		r := dateparse.ParseRange(edu.StartDate.String(), edu.EndDate.String())
		d.Education = append(d.Education, EducationItem{
			Degree:      edu.Degree.String(),
			Field:       edu.Field.String(),
			Institution: edu.Institution.String(),
			Location:    edu.Location.String(),
			StartDate:   edu.StartDate.String(),
			EndDate:     edu.EndDate.String(),
			Period:      period(edu.StartDate.String(), edu.EndDate.String()),
			Honors:      values(edu.Honors),
			Description: edu.Description.String(),
			Current:     r.IsCurrent,
		})
	}

	s := cv.Skills
	cicd := values(s.CICD)
	d.Skills = CustomSkills{
		Cloud:             withFlags(values(s.Cloud)),
		PlatformsOS:       values(s.PlatformsOS),
		Containers:        values(s.Containers),
		Orchestration:     values(s.Orchestration),
		IaC:               values(s.IaC),
		CICD:              singleMarker(cicd),
		CICDList:          cicd,
		VersionControl:    values(s.VersionControl),
		MonitoringLogging: values(s.MonitoringLogging),
		DatabasesCache:    values(s.DatabasesCache),
		Search:            values(s.Search),
		Security:          values(s.Security),
		Scripting:         values(s.Scripting),
		OtherTools:        values(s.OtherTools),
	}

	d.Certifications = certifications(cv.Certifications)
	d.Projects = projects(cv.Projects)
	d.Languages = languages(cv.Languages)
	d.Awards = awards(cv.Awards)
	d.Affiliations = values(cv.Affiliations)
	return d.normalize()
}

func legacyTemplate(cv *schema.LegacyCV, now time.Time) *TemplateData {
	d := newTemplateData(now)

	if p := cv.PersonalInfo; p != nil {
		d.FullName = p.FullName.String()
		d.FirstName, d.LastName = splitNameText(p.FullName.String())
		d.Email = p.Email.String()
		d.Phone = p.Phone.String()
		d.Address = p.Address.String()
		if p.Location != nil {
			address, postcode, city := p.Location.Flatten()
			if strings.TrimSpace(d.Address) == "" {
				d.Address = address
			}
			d.PostalCode, d.City = postcode, city
		}
		d.LinkedIn = p.LinkedIn.String()
		d.GitHub = p.GitHub.String()
		d.Website = p.Website.String()
	}

	d.Summary = cv.ProfessionalSummary.String()
	if strings.TrimSpace(d.Summary) == "" {
		d.Summary = cv.ExtractedText.String()
	}

	for _, exp := range cv.WorkExperience {
		r := dateparse.ParseDuration(exp.Duration.String())
		d.Experience = append(d.Experience, ExperienceItem{
			Title:            exp.JobTitle.String(),
			Company:          exp.Company.String(),
			Location:         exp.Location.String(),
			Period:           exp.Duration.String(),
			Current:          r.IsCurrent,
			Description:      Description{Text: exp.Duration.String()},
			Responsibilities: values(exp.Responsibilities),
			Achievements:     values(exp.Achievements),
		})
	}

	for _, edu := range cv.Education {
		d.Education = append(d.Education, EducationItem{
			Degree:      edu.Degree.String(),
			Institution: edu.Institution.String(),
			Year:        edu.Year.String(),
			Period:      edu.Year.String(),
			Location:    edu.Location.String(),
			GPA:         edu.GPA.String(),
			Honors:      values(edu.Honors),
		})
	}

	d.Skills = LegacySkills{
		Technical: values(cv.Skills.Technical),
		Languages: values(cv.Skills.Languages),
		Soft:      values(cv.Skills.Soft),
		Tools:     values(cv.Skills.Tools),
	}

	d.Certifications = certifications(cv.Certifications)
	d.Projects = projects(cv.Projects)
	d.Languages = languages(cv.Languages)
	d.Awards = awards(cv.Awards)
	return d.normalize()
}

func newTemplateData(now time.Time) *TemplateData {
	return &TemplateData{GeneratedDate: now.Format(GeneratedDateLayout)}
}

// normalize replaces nil lists so templates always range over arrays.
func (d *TemplateData) normalize() *TemplateData {
	d.Experience = nonNil(d.Experience)
	d.Education = nonNil(d.Education)
	d.Certifications = nonNil(d.Certifications)
	d.Projects = nonNil(d.Projects)
	d.Languages = nonNil(d.Languages)
	d.Awards = nonNil(d.Awards)
	d.Affiliations = nonNil(d.Affiliations)
	for i := range d.Experience {
		e := &d.Experience[i]
		e.Responsibilities = nonNil(e.Responsibilities)
		e.Achievements = nonNil(e.Achievements)
		e.Technologies = nonNil(e.Technologies)
	}
	for i := range d.Education {
		d.Education[i].Honors = nonNil(d.Education[i].Honors)
	}
	for i := range d.Projects {
		p := &d.Projects[i]
		p.Highlights = nonNil(p.Highlights)
		p.TechStack = nonNil(p.TechStack)
		p.Technologies = nonNil(p.Technologies)
	}
	if d.Skills == nil {
		d.Skills = SkillGroups{}
	}
	return d
}

func certifications(items schema.Items[schema.Certification]) []CertificationItem {
	out := make([]CertificationItem, 0, len(items))
	for _, c := range items {
		out = append(out, CertificationItem{
			Name:       c.Name.String(),
			Issuer:     c.Issuer.String(),
			Date:       c.Date.String(),
			Year:       c.Year.String(),
			ExpiryDate: c.ExpiryDate.String(),
		})
	}
	return out
}

func projects(items schema.Items[schema.Project]) []ProjectItem {
	out := make([]ProjectItem, 0, len(items))
	for _, p := range items {
		out = append(out, ProjectItem{
			Name:         p.Name.String(),
			Role:         p.Role.String(),
			Organization: p.Organization.String(),
			StartDate:    p.StartDate.String(),
			EndDate:      p.EndDate.String(),
			Description:  p.Description.String(),
			Duration:     p.Duration.String(),
			Link:         p.Link.String(),
			Highlights:   values(p.Highlights),
			TechStack:    values(p.TechStack),
			Technologies: values(p.Technologies),
		})
	}
	return out
}

func languages(items schema.Items[schema.Language]) []LanguageItem {
	out := make([]LanguageItem, 0, len(items))
	for _, l := range items {
		if l.Language.Trim() == "" {
			continue
		}
		out = append(out, LanguageItem{
			Name:        l.Language.String(),
			Level:       l.Proficiency.String(),
			Language:    l.Language.String(),
			Proficiency: l.Proficiency.String(),
		})
	}
	if len(out) > 0 {
		out[len(out)-1].IsLast = true
	}
	return out
}

func awards(items schema.Items[schema.Award]) []AwardItem {
	out := make([]AwardItem, 0, len(items))
	for _, a := range items {
		name := a.Name.String()
		if name == "" {
			name = a.Title.String()
		}
		out = append(out, AwardItem{
			Name:        name,
			Issuer:      a.Issuer.String(),
			Year:        a.Year.String(),
			Description: a.Description.String(),
			Plain:       a.Plain,
		})
	}
	return out
}

// withFlags wraps items with their loop position.
func withFlags(items []string) []Marker {
	out := make([]Marker, len(items))
	for i, item := range items {
		out[i] = Marker{Label: item, IsFirst: i == 0, IsLast: i == len(items)-1}
	}
	return out
}

func singleMarker(items []string) []struct{} {
	if len(items) == 0 {
		return []struct{}{}
	}
	return []struct{}{{}}
}

// values keeps non-blank entries untouched.
func values(items schema.Items[schema.Text]) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Trim() != "" {
			out = append(out, item.String())
		}
	}
	return out
}

func period(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}

func splitNameText(full string) (string, string) {
	first, last, _ := strings.Cut(strings.TrimSpace(full), " ")
	return first, strings.TrimSpace(last)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
