package schema

// LegacyCV is the shape produced for image sources.
type LegacyCV struct {
	PersonalInfo        *PersonalInfo          `json:"personalInfo"`
	ProfessionalSummary Text                   `json:"professionalSummary"`
	WorkExperience      Items[WorkExperience]  `json:"workExperience"`
	Education           Items[LegacyEducation] `json:"education"`
	Skills              LegacySkills           `json:"skills"`
	Certifications      Items[Certification]   `json:"certifications"`
	Projects            Items[Project]         `json:"projects"`
	Languages           Items[Language]        `json:"languages"`
	Awards              Items[Award]           `json:"awards"`
	ExtractedText       Text                   `json:"extractedText"`
	Confidence          Number                 `json:"confidence"`
	ProcessingNotes     Items[Text]            `json:"processingNotes"`
}

func (*LegacyCV) Tag() Tag { return TagLegacy }

func (*LegacyCV) isExtraction() {}

func (c *LegacyCV) UnmarshalJSON(b []byte) error {
	type plain LegacyCV
	return decodeObject(b, (*plain)(c))
}

type PersonalInfo struct {
	FullName Text      `json:"fullName"`
	Email    Text      `json:"email"`
	Phone    Text      `json:"phone"`
	Address  Text      `json:"address"`
	Location *Location `json:"location"`
	LinkedIn Text      `json:"linkedin"`
	GitHub   Text      `json:"github"`
	Website  Text      `json:"website"`
}

func (p *PersonalInfo) UnmarshalJSON(b []byte) error {
	type plain PersonalInfo
	return decodeObject(b, (*plain)(p))
}

type WorkExperience struct {
	JobTitle         Text        `json:"jobTitle"`
	Company          Text        `json:"company"`
	Duration         Text        `json:"duration"`
	Location         Text        `json:"location"`
	Responsibilities Items[Text] `json:"responsibilities"`
	Achievements     Items[Text] `json:"achievements"`
}

func (w *WorkExperience) UnmarshalJSON(b []byte) error {
	type plain WorkExperience
	return decodeObject(b, (*plain)(w))
}

type LegacyEducation struct {
	Degree      Text        `json:"degree"`
	Institution Text        `json:"institution"`
	Year        Text        `json:"year"`
	Location    Text        `json:"location"`
	GPA         Text        `json:"gpa"`
	Honors      Items[Text] `json:"honors"`
}

func (e *LegacyEducation) UnmarshalJSON(b []byte) error {
	type plain LegacyEducation
	return decodeObject(b, (*plain)(e))
}

type LegacySkills struct {
	Technical Items[Text] `json:"technical"`
	Languages Items[Text] `json:"languages"`
	Soft      Items[Text] `json:"soft"`
	Tools     Items[Text] `json:"tools"`
}

func (s *LegacySkills) UnmarshalJSON(b []byte) error {
	type plain LegacySkills
	return decodeObject(b, (*plain)(s))
}
