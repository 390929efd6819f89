// Package mapper turns a decoded extraction into relational records and into
// the flat data consumed by document templates.
package mapper

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/astrelya/cv-to-dc/internal/dateparse"
	"github.com/astrelya/cv-to-dc/internal/models"
	"github.com/astrelya/cv-to-dc/internal/schema"
)

// DefaultSkillLevel is stored for every skill; extraction never yields one.
const DefaultSkillLevel = "Intermédiaire"

type skillGroup struct {
	label string
	items schema.Items[schema.Text]
}

func customSkillGroups(s schema.CustomSkills) []skillGroup {
	return []skillGroup{
		{"Cloud", s.Cloud},
		{"Platforms & OS", s.PlatformsOS},
		{"Containers", s.Containers},
		{"Orchestration", s.Orchestration},
		{"Infrastructure as Code (IaC)", s.IaC},
		{"CI/CD & DevOps", s.CICD},
		{"Version Control", s.VersionControl},
		{"Monitoring & Logging", s.MonitoringLogging},
		{"Bases de données", s.DatabasesCache},
		{"Search Engines", s.Search},
		{"Security", s.Security},
		{"Scripting", s.Scripting},
		{"Tools & Others", s.OtherTools},
	}
}

func legacySkillGroups(s schema.LegacySkills) []skillGroup {
	return []skillGroup{
		{"Technique", s.Technical},
		{"Langages de programmation", s.Languages},
		{"Soft Skills", s.Soft},
		{"Outils", s.Tools},
	}
}

// ToRecords maps an extraction to the records stored for a CV. IDs and CV
// foreign keys are left for the repository to assign.
func ToRecords(ext schema.Extraction) (*models.RecordSet, error) {
	switch cv := ext.(type) {
	case *schema.CustomCV:
		return customRecords(cv), nil
	case *schema.LegacyCV:
		return legacyRecords(cv), nil
	default:
		return nil, fmt.Errorf("%w: cannot map %T to records", schema.ErrUnknownSchema, ext)
	}
}

func customRecords(cv *schema.CustomCV) *models.RecordSet {
	rs := &models.RecordSet{}

	if cv.Name.Trim() != "" || cv.Headline.Trim() != "" || cv.Contact != nil {
		first, last := splitName(cv.Name.String())
		info := &models.PersonalInfo{
			FirstName: first,
			LastName:  last,
			Headline:  nullable(cv.Headline.String()),
		}
		if c := cv.Contact; c != nil {
			address, postcode, city := c.Location.Flatten()
			info.Email = nullable(c.Email.String())
			info.Phone = nullable(c.Phone.String())
			info.Address = nullable(address)
			info.PostalCode = nullable(postcode)
			info.City = nullable(city)
			info.LinkedIn = nullable(c.Links.LinkedIn.String())
			info.GitHub = nullable(c.Links.GitHub.String())
			info.Website = nullable(c.Links.Website.String())
		}
		rs.PersonalInfo = info
	}

	if cv.Summary.Trim() != "" || cv.YearsExperience.Trim() != "" {
		rs.Profile = &models.Profile{
			Summary:         nullable(cv.Summary.String()),
			YearsExperience: nullable(cv.YearsExperience.String()),
		}
	}

	rs.Experiences = make([]models.Experience, 0, len(cv.Experience))
	for i, exp := range cv.Experience {
		r := dateparse.ParseRange(exp.StartDate.String(), exp.EndDate.String())
		rs.Experiences = append(rs.Experiences, models.Experience{
			Title:            firstNonEmpty(exp.Title.Trim(), exp.Company.Trim(), fmt.Sprintf("Experience %d", i+1)),
			Company:          nullable(exp.Company.String()),
			Location:         nullable(exp.Location.String()),
			StartMonth:       r.StartMonth,
			StartYear:        r.StartYear,
			EndMonth:         r.EndMonth,
			EndYear:          r.EndYear,
			Current:          r.IsCurrent,
			Description:      nullable(exp.Description.String()),
			Responsibilities: cleanList(exp.Responsibilities),
			Achievements:     cleanList(exp.Achievements),
			Technologies:     cleanList(exp.Technologies),
			Order:            i,
		})
	}

	rs.Educations = make([]models.Education, 0, len(cv.Education))
	for i, edu := range cv.Education {
		r := dateparse.ParseRange(edu.StartDate.String(), edu.EndDate.String())
		rs.Educations = append(rs.Educations, models.Education{
			Degree:      firstNonEmpty(edu.Degree.Trim(), edu.Field.Trim(), fmt.Sprintf("Education %d", i+1)),
			Institution: nullable(edu.Institution.String()),
			Location:    nullable(edu.Location.String()),
			StartMonth:  r.StartMonth,
			StartYear:   r.StartYear,
			EndMonth:    r.EndMonth,
			EndYear:     r.EndYear,
			Current:     r.IsCurrent,
			Finished:    !r.IsCurrent,
			Description: nullable(firstNonEmpty(edu.Field.Trim(), edu.Description.Trim())),
			Honors:      cleanList(edu.Honors),
			Activities:  cleanList(edu.Activities),
			Order:       i,
		})
	}

	rs.Skills = skillRecords(customSkillGroups(cv.Skills))
	rs.Languages = languageRecords(cv.Languages)
	return rs
}

func legacyRecords(cv *schema.LegacyCV) *models.RecordSet {
	rs := &models.RecordSet{}

	if p := cv.PersonalInfo; p != nil {
		first, last := splitName(p.FullName.String())
		address := p.Address.Trim()
		var postcode, city string
		if p.Location != nil {
			var locAddress string
			locAddress, postcode, city = p.Location.Flatten()
			if address == "" {
				address = locAddress
			}
		}
		rs.PersonalInfo = &models.PersonalInfo{
			FirstName:  first,
			LastName:   last,
			Email:      nullable(p.Email.String()),
			Phone:      nullable(p.Phone.String()),
			Address:    nullable(address),
			PostalCode: nullable(postcode),
			City:       nullable(city),
			LinkedIn:   nullable(p.LinkedIn.String()),
			GitHub:     nullable(p.GitHub.String()),
			Website:    nullable(p.Website.String()),
		}
	}

	if cv.ProfessionalSummary.Trim() != "" {
		rs.Profile = &models.Profile{Summary: nullable(cv.ProfessionalSummary.String())}
	}

	rs.Experiences = make([]models.Experience, 0, len(cv.WorkExperience))
	for i, exp := range cv.WorkExperience {
		r := dateparse.ParseDuration(exp.Duration.String())
		rs.Experiences = append(rs.Experiences, models.Experience{
			Title:            firstNonEmpty(exp.JobTitle.Trim(), exp.Company.Trim(), fmt.Sprintf("Experience %d", i+1)),
			Company:          nullable(exp.Company.String()),
			Location:         nullable(exp.Location.String()),
			StartMonth:       r.StartMonth,
			StartYear:        r.StartYear,
			EndMonth:         r.EndMonth,
			EndYear:          r.EndYear,
			Current:          r.IsCurrent,
			Responsibilities: cleanList(exp.Responsibilities),
			Achievements:     cleanList(exp.Achievements),
			Technologies:     pq.StringArray{},
			Order:            i,
		})
	}

	rs.Educations = make([]models.Education, 0, len(cv.Education))
	for i, edu := range cv.Education {
		r := dateparse.ParseDuration(edu.Year.String())
		rs.Educations = append(rs.Educations, models.Education{
			Degree:      firstNonEmpty(edu.Degree.Trim(), fmt.Sprintf("Education %d", i+1)),
			Institution: nullable(edu.Institution.String()),
			Location:    nullable(edu.Location.String()),
			StartMonth:  r.StartMonth,
			StartYear:   r.StartYear,
			EndMonth:    r.EndMonth,
			EndYear:     r.EndYear,
			Current:     r.IsCurrent,
			Finished:    !r.IsCurrent,
			GPA:         nullable(edu.GPA.String()),
			Honors:      cleanList(edu.Honors),
			Activities:  pq.StringArray{},
			Order:       i,
		})
	}

	rs.Skills = skillRecords(legacySkillGroups(cv.Skills))
	rs.Languages = languageRecords(cv.Languages)
	return rs
}

// skillRecords numbers skills with one counter across all groups.
func skillRecords(groups []skillGroup) []models.Skill {
	skills := []models.Skill{}
	order := 0
	for _, g := range groups {
		for _, item := range g.items {
			name := item.Trim()
			if name == "" {
				continue
			}
			skills = append(skills, models.Skill{
				Category: g.label,
				Name:     name,
				Level:    DefaultSkillLevel,
				Order:    order,
			})
			order++
		}
	}
	return skills
}

// languageRecords drops unnamed entries before numbering.
func languageRecords(items schema.Items[schema.Language]) []models.Language {
	languages := []models.Language{}
	for _, l := range items {
		name := l.Language.Trim()
		if name == "" {
			continue
		}
		languages = append(languages, models.Language{
			Name:  name,
			Level: nullable(l.Proficiency.String()),
			Order: len(languages),
		})
	}
	return languages
}

// splitName puts the first token in the first name and the rest in the last name.
func splitName(full string) (*string, *string) {
	first, last, _ := strings.Cut(strings.TrimSpace(full), " ")
	return nullable(first), nullable(last)
}

// cleanList trims, drops empty entries and removes duplicates, keeping order.
func cleanList(items schema.Items[schema.Text]) pq.StringArray {
	out := pq.StringArray{}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		v := item.Trim()
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
