package mapper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/astrelya/cv-to-dc/internal/dateparse"
	"github.com/astrelya/cv-to-dc/internal/models"
	"github.com/astrelya/cv-to-dc/internal/schema"
)

const (
	bullet    = "• "
	bulletSep = "<br>"
)

// bulletSplitRe splits free text on bullet glyphs and line breaks.
var bulletSplitRe = regexp.MustCompile(`(?m)[•*\n]|^\s*-\s+`)

// ToForm maps an extraction to the editable form. Custom extractions go
// through the flexible date parser, legacy ones through the duration parser.
// Descriptions are "• item" lines joined with <br>.
func ToForm(ext schema.Extraction) (models.FormData, error) {
	switch cv := ext.(type) {
	case *schema.CustomCV:
		return customForm(cv), nil
	case *schema.LegacyCV:
		return legacyForm(cv), nil
	default:
		return models.FormData{}, fmt.Errorf("%w: cannot map %T to a form", schema.ErrUnknownSchema, ext)
	}
}

func customForm(cv *schema.CustomCV) models.FormData {
	f := emptyForm()

	first, last := splitNameText(cv.Name.String())
	f.PersonalInfo.FirstName = first
	f.PersonalInfo.LastName = last
	f.PersonalInfo.Headline = cv.Headline.Trim()
	if c := cv.Contact; c != nil {
		address, postcode, city := c.Location.Flatten()
		f.PersonalInfo.Email = c.Email.Trim()
		f.PersonalInfo.Phone = c.Phone.Trim()
		f.PersonalInfo.Address = address
		f.PersonalInfo.PostalCode = postcode
		f.PersonalInfo.City = city
		f.PersonalInfo.LinkedIn = c.Links.LinkedIn.Trim()
		f.PersonalInfo.GitHub = c.Links.GitHub.Trim()
		f.PersonalInfo.Website = c.Links.Website.Trim()
	}
	f.Summary = cv.Summary.Trim()
	f.YearsOfExperience = cv.YearsExperience.Trim()

	for _, exp := range cv.Experience {
		r := dateparse.ParseAdvanced(exp.StartDate.String(), exp.EndDate.String())
		points := splitBullets(exp.Description.String())
		points = append(points, textList(exp.Responsibilities)...)
		points = append(points, textList(exp.Achievements)...)
		f.Experiences = append(f.Experiences, models.FormExperience{
			Title:        exp.Title.Trim(),
			Company:      exp.Company.Trim(),
			Location:     exp.Location.Trim(),
			StartMonth:   value(r.StartMonth),
			StartYear:    value(r.StartYear),
			EndMonth:     value(r.EndMonth),
			EndYear:      value(r.EndYear),
			Current:      r.IsCurrent,
			Description:  bullets(points),
			Technologies: textList(exp.Technologies),
		})
	}

	for _, edu := range cv.Education {
		r := dateparse.ParseAdvanced(edu.StartDate.String(), edu.EndDate.String())
		var points []string
		if d := edu.Description.Trim(); d != "" {
			points = append(points, d)
		}
		points = append(points, textList(edu.Activities)...)
		points = append(points, textList(edu.Honors)...)
		f.Educations = append(f.Educations, models.FormEducation{
			Degree:      joinNonEmpty(" - ", edu.Degree.Trim(), edu.Field.Trim()),
			Institution: edu.Institution.Trim(),
			Location:    edu.Location.Trim(),
			StartMonth:  value(r.StartMonth),
			StartYear:   value(r.StartYear),
			EndMonth:    value(r.EndMonth),
			EndYear:     value(r.EndYear),
			Current:     r.IsCurrent,
			Description: bullets(points),
		})
	}

	for _, g := range customSkillGroups(cv.Skills) {
		skills := []models.FormSkill{}
		for _, name := range textList(g.items) {
			skills = append(skills, models.FormSkill{Name: name, Level: DefaultSkillLevel})
		}
		if len(skills) > 0 {
			f.SkillGroups = append(f.SkillGroups, models.FormSkillGroup{Name: g.label, Skills: skills})
		}
	}

	f.Languages = formLanguages(cv.Languages)

	// awards and affiliations have no form section of their own
	for _, a := range cv.Awards {
		if name := firstNonEmpty(a.Name.Trim(), a.Title.Trim()); name != "" {
			f.Interests = append(f.Interests, models.FormInterest{Name: name})
		}
	}
	for _, name := range textList(cv.Affiliations) {
		f.Interests = append(f.Interests, models.FormInterest{Name: name})
	}
	return f
}

func legacyForm(cv *schema.LegacyCV) models.FormData {
	f := emptyForm()

	if p := cv.PersonalInfo; p != nil {
		first, last := splitNameText(p.FullName.String())
		address := p.Address.Trim()
		var postcode, city string
		if p.Location != nil {
			var locAddress string
			locAddress, postcode, city = p.Location.Flatten()
			if address == "" {
				address = locAddress
			}
		}
		f.PersonalInfo = models.FormPersonalInfo{
			FirstName:  first,
			LastName:   last,
			Email:      p.Email.Trim(),
			Phone:      p.Phone.Trim(),
			Address:    address,
			PostalCode: postcode,
			City:       city,
			LinkedIn:   p.LinkedIn.Trim(),
			GitHub:     p.GitHub.Trim(),
			Website:    p.Website.Trim(),
		}
	}
	f.Summary = cv.ProfessionalSummary.Trim()

	for _, exp := range cv.WorkExperience {
		r := dateparse.ParseDuration(exp.Duration.String())
		points := append(textList(exp.Responsibilities), textList(exp.Achievements)...)
		f.Experiences = append(f.Experiences, models.FormExperience{
			Title:        exp.JobTitle.Trim(),
			Company:      exp.Company.Trim(),
			Location:     exp.Location.Trim(),
			StartMonth:   value(r.StartMonth),
			StartYear:    value(r.StartYear),
			EndMonth:     value(r.EndMonth),
			EndYear:      value(r.EndYear),
			Current:      r.IsCurrent,
			Description:  bullets(points),
			Technologies: []string{},
		})
	}

	// a single year is a graduation date, so education is never current
	for _, edu := range cv.Education {
		r := dateparse.ParseDuration(edu.Year.String())
		f.Educations = append(f.Educations, models.FormEducation{
			Degree:      edu.Degree.Trim(),
			Institution: edu.Institution.Trim(),
			Location:    edu.Location.Trim(),
			StartMonth:  value(r.StartMonth),
			StartYear:   value(r.StartYear),
			EndMonth:    value(r.EndMonth),
			EndYear:     value(r.EndYear),
			Description: bullets(textList(edu.Honors)),
		})
	}

	var skills []models.FormSkill
	for _, items := range []schema.Items[schema.Text]{cv.Skills.Technical, cv.Skills.Tools, cv.Skills.Soft} {
		for _, name := range textList(items) {
			skills = append(skills, models.FormSkill{Name: name, Level: DefaultSkillLevel})
		}
	}
	if len(skills) > 0 {
		f.SkillGroups = append(f.SkillGroups, models.FormSkillGroup{Skills: skills})
	}

	f.Languages = formLanguages(cv.Languages)
	return f
}

func emptyForm() models.FormData {
	return models.FormData{
		Experiences: []models.FormExperience{},
		Educations:  []models.FormEducation{},
		SkillGroups: []models.FormSkillGroup{},
		Languages:   []models.FormLanguage{},
		Interests:   []models.FormInterest{},
	}
}

func formLanguages(items schema.Items[schema.Language]) []models.FormLanguage {
	out := []models.FormLanguage{}
	for _, l := range items {
		if name := l.Language.Trim(); name != "" {
			out = append(out, models.FormLanguage{Name: name, Level: l.Proficiency.Trim()})
		}
	}
	return out
}

// splitBullets breaks a description written as a list back into items.
func splitBullets(s string) []string {
	var out []string
	for _, part := range bulletSplitRe.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func bullets(points []string) string {
	if len(points) == 0 {
		return ""
	}
	return bullet + strings.Join(points, bulletSep+bullet)
}

func textList(items schema.Items[schema.Text]) []string {
	out := []string{}
	for _, item := range items {
		if v := item.Trim(); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
