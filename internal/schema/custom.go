package schema

// CustomCV is the shape produced for PDF sources.
type CustomCV struct {
	Name            Text                    `json:"name"`
	Headline        Text                    `json:"headline"`
	YearsExperience Text                    `json:"years_experience"`
	Contact         *Contact                `json:"contact"`
	Summary         Text                    `json:"summary"`
	Experience      Items[CustomExperience] `json:"experience"`
	Education       Items[CustomEducation]  `json:"education"`
	Certifications  Items[Certification]    `json:"certifications"`
	Skills          CustomSkills            `json:"skills"`
	Languages       Items[Language]         `json:"languages"`
	Projects        Items[Project]          `json:"projects"`
	Affiliations    Items[Text]             `json:"affiliations"`
	Awards          Items[Award]            `json:"awards"`
	Notes           Text                    `json:"notes"`
}

func (*CustomCV) Tag() Tag { return TagCustom }

func (*CustomCV) isExtraction() {}

func (c *CustomCV) UnmarshalJSON(b []byte) error {
	type plain CustomCV
	return decodeObject(b, (*plain)(c))
}

type Contact struct {
	Email    Text     `json:"email"`
	Phone    Text     `json:"phone"`
	Location Location `json:"location"`
	Links    Links    `json:"links"`
}

func (c *Contact) UnmarshalJSON(b []byte) error {
	type plain Contact
	return decodeObject(b, (*plain)(c))
}

type Links struct {
	LinkedIn Text `json:"linkedin"`
	GitHub   Text `json:"github"`
	Website  Text `json:"website"`
}

func (l *Links) UnmarshalJSON(b []byte) error {
	type plain Links
	return decodeObject(b, (*plain)(l))
}

type CustomExperience struct {
	Title            Text        `json:"title"`
	Company          Text        `json:"company"`
	Location         Text        `json:"location"`
	StartDate        Text        `json:"start_date"`
	EndDate          Text        `json:"end_date"`
	Description      Text        `json:"description"`
	Responsibilities Items[Text] `json:"responsibilities"`
	Achievements     Items[Text] `json:"achievements"`
	Technologies     Items[Text] `json:"technologies"`
}

func (e *CustomExperience) UnmarshalJSON(b []byte) error {
	type plain CustomExperience
	return decodeObject(b, (*plain)(e))
}

type CustomEducation struct {
	Degree      Text        `json:"degree"`
	Field       Text        `json:"field"`
	Institution Text        `json:"institution"`
	StartDate   Text        `json:"start_date"`
	EndDate     Text        `json:"end_date"`
	Location    Text        `json:"location"`
	Description Text        `json:"description"`
	Honors      Items[Text] `json:"honors"`
	Activities  Items[Text] `json:"activities"`
}

func (e *CustomEducation) UnmarshalJSON(b []byte) error {
	type plain CustomEducation
	return decodeObject(b, (*plain)(e))
}

type CustomSkills struct {
	Cloud             Items[Text] `json:"cloud"`
	PlatformsOS       Items[Text] `json:"platforms_os"`
	Containers        Items[Text] `json:"containers"`
	Orchestration     Items[Text] `json:"orchestration"`
	IaC               Items[Text] `json:"iac"`
	CICD              Items[Text] `json:"ci_cd"`
	VersionControl    Items[Text] `json:"version_control"`
	MonitoringLogging Items[Text] `json:"monitoring_logging"`
	DatabasesCache    Items[Text] `json:"databases_cache"`
	Search            Items[Text] `json:"search"`
	Security          Items[Text] `json:"security"`
	Scripting         Items[Text] `json:"scripting"`
	OtherTools        Items[Text] `json:"other_tools"`
}

func (s *CustomSkills) UnmarshalJSON(b []byte) error {
	type plain CustomSkills
	return decodeObject(b, (*plain)(s))
}
