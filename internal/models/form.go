package models

// FormData is the hand-edited CV sent by the web editor.
type FormData struct {
	PersonalInfo      FormPersonalInfo `json:"personalInfo"`
	YearsOfExperience string           `json:"yearsOfExperience"`
	Summary           string           `json:"summary"`
	Experiences       []FormExperience `json:"experience"`
	Educations        []FormEducation  `json:"education"`
	SkillGroups       []FormSkillGroup `json:"skills"`
	Languages         []FormLanguage   `json:"languages"`
	Interests         []FormInterest   `json:"interests"`
}

type FormPersonalInfo struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Headline   string `json:"headline"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	LinkedIn   string `json:"linkedin"`
	GitHub     string `json:"github"`
	Website    string `json:"website"`
}

type FormExperience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	StartMonth   string   `json:"startMonth"`
	StartYear    string   `json:"startYear"`
	EndMonth     string   `json:"endMonth"`
	EndYear      string   `json:"endYear"`
	Current      bool     `json:"current"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

type FormEducation struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Location    string `json:"location"`
	StartMonth  string `json:"startMonth"`
	StartYear   string `json:"startYear"`
	EndMonth    string `json:"endMonth"`
	EndYear     string `json:"endYear"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type FormSkillGroup struct {
	Name   string      `json:"name"`
	Skills []FormSkill `json:"skills"`
}

type FormSkill struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type FormLanguage struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type FormInterest struct {
	Name string `json:"name"`
}
