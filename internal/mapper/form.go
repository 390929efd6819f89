package mapper

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/astrelya/cv-to-dc/internal/dateparse"
	"github.com/astrelya/cv-to-dc/internal/models"
)

const (
	presentLabel    = "Présent"
	inProgressLabel = "En cours"
)

var lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</li>`)

// FromForm maps hand-edited form data to template data. Dates are rendered
// with French month names.
func FromForm(f models.FormData, now time.Time) *TemplateData {
	p := f.PersonalInfo
	d := newTemplateData(now)
	d.FirstName = strings.TrimSpace(p.FirstName)
	d.LastName = strings.TrimSpace(p.LastName)
	d.FullName = strings.TrimSpace(d.FirstName + " " + d.LastName)
	d.Headline = p.Headline
	d.Email = p.Email
	d.Phone = p.Phone
	d.Address = p.Address
	d.PostalCode = p.PostalCode
	d.City = p.City
	d.LinkedIn = p.LinkedIn
	d.GitHub = p.GitHub
	d.Website = p.Website
	d.YearsExperience = f.YearsOfExperience
	d.Summary = strings.Join(htmlLines(f.Summary), "\n")

	for _, exp := range f.Experiences {
		start := dateparse.FormatMonthYear(exp.StartMonth, exp.StartYear)
		end := presentLabel
		if !exp.Current {
			end = dateparse.FormatMonthYear(exp.EndMonth, exp.EndYear)
		}
		d.Experience = append(d.Experience, ExperienceItem{
			Title:        exp.Title,
			Company:      exp.Company,
			Location:     exp.Location,
			StartDate:    start,
			EndDate:      end,
			Period:       period(start, end),
			Current:      exp.Current,
			Description:  Description{Lines: htmlLines(exp.Description)},
			Technologies: trimmed(exp.Technologies),
		})
	}

	for _, edu := range f.Educations {
		start := dateparse.FormatMonthYear(edu.StartMonth, edu.StartYear)
		end := inProgressLabel
		if !edu.Current {
			end = dateparse.FormatMonthYear(edu.EndMonth, edu.EndYear)
		}
		d.Education = append(d.Education, EducationItem{
			Degree:      edu.Degree,
			Institution: edu.Institution,
			Location:    edu.Location,
			StartDate:   start,
			EndDate:     end,
			Period:      period(start, end),
			Year:        edu.EndYear,
			Description: strings.Join(htmlLines(edu.Description), "\n"),
			Current:     edu.Current,
		})
	}

	groups := SkillGroups{}
	for _, g := range f.SkillGroups {
		group := SkillGroup{Category: strings.TrimSpace(g.Name), Skills: []SkillItem{}}
		for _, s := range g.Skills {
			if name := strings.TrimSpace(s.Name); name != "" {
				group.Skills = append(group.Skills, SkillItem{Name: name, Level: strings.TrimSpace(s.Level)})
			}
		}
		if group.Category == "" && len(group.Skills) == 0 {
			continue
		}
		if n := len(group.Skills); n > 0 {
			group.Skills[n-1].IsLast = true
		}
		groups = append(groups, group)
	}
	d.Skills = groups

	for _, l := range f.Languages {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		level := strings.TrimSpace(l.Level)
		d.Languages = append(d.Languages, LanguageItem{Name: name, Level: level, Language: name, Proficiency: level})
	}
	if n := len(d.Languages); n > 0 {
		d.Languages[n-1].IsLast = true
	}

	var interests []string
	for _, i := range f.Interests {
		if name := strings.TrimSpace(i.Name); name != "" {
			interests = append(interests, name)
		}
	}
	d.Interests = strings.Join(interests, ", ")

	return d.normalize()
}

// htmlLines splits editor HTML on line breaks and keeps the text only.
func htmlLines(s string) []string {
	text := lineBreakRe.ReplaceAllString(s, "\n")
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
		text = doc.Text()
	}
	text = strings.ReplaceAll(text, "\u00a0", " ")
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func trimmed(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}
