package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const experienceGuidance = `Experience description formatting requirements:
- The "description" of each experience MUST be a single string formatted as a bulleted list.
- Start each bullet with "- " (dash + space). One bullet per line. No numbering.
- If the FINAL bullet is only a tools list (e.g. starts with "Technologies:", "Tech stack:", "Stack:", "Tools:", "Environment:", "Environnement technique:"), remove it from "description" and put those items (deduplicated) into "technologies". Do NOT remove non-final bullets.
- Capture responsibilities, deliverables and outcomes (with metrics), scale, architecture, infrastructure, CI/CD, security, performance, data, team and methods when the CV mentions them.
- Aim for 6-12 concise bullets per role when information allows; fewer if the source text is limited.
- Keep bullets factual and sourced from the CV; do NOT invent details.

Additional parsing guidance:
- "years_experience": compute from the career timeline (first start to last end or "present"), adjust for gaps >6 months, and round to one decimal place.
- Put individual tools/technologies in the appropriate "skills" categories; avoid duplicates.
- Use reverse-chronological order for "experience" and "projects".
- Preserve diacritics and original casing for names and titles.
- Do not include commentary outside the JSON.`

// BuildPDFSystemPrompt asks for the technical profile shape used for text extracted from PDFs.
func (pb *PromptBuilder) BuildPDFSystemPrompt() string {
	return `You are an expert CV/Resume parser specializing in technical profiles. Analyze the provided CV text and extract all information in the exact JSON format specified.

Pay special attention to:
1. Technical skills categorization (cloud, containers, orchestration, IaC, CI/CD, etc.)
2. Years of experience calculation from career timeline
3. Technology stacks and tools mentioned
4. Professional projects and achievements
5. Contact information and social profiles

Return ONLY valid JSON matching this EXACT structure (do not add extra fields or modify the structure):
{
  "name": "",
  "headline": "",
  "years_experience": "",
  "contact": {
    "email": "",
    "phone": "",
    "location": { "address": "", "postcode": "", "city": "" },
    "links": { "linkedin": "", "github": "", "website": "" }
  },
  "summary": "",
  "experience": [
    { "title": "", "company": "", "location": "", "start_date": "", "end_date": "", "description": "", "technologies": [] }
  ],
  "education": [
    { "degree": "", "field": "", "institution": "", "start_date": "", "end_date": "", "location": "" }
  ],
  "certifications": [
    { "name": "", "issuer": "", "date": "" }
  ],
  "skills": {
    "cloud": [], "platforms_os": [], "containers": [], "orchestration": [], "iac": [], "ci_cd": [],
    "version_control": [], "monitoring_logging": [], "databases_cache": [], "search": [],
    "security": [], "scripting": [], "other_tools": []
  },
  "languages": [
    { "language": "", "proficiency": "" }
  ],
  "projects": [
    { "name": "", "role": "", "organization": "", "start_date": "", "end_date": "", "highlights": [], "tech_stack": [] }
  ],
  "affiliations": [],
  "awards": [],
  "notes": ""
}

Guidelines for skill categorization:
- cloud: AWS, Azure, GCP, Cloud platforms
- platforms_os: Linux, Windows, macOS, Unix variants
- containers: Docker, Podman, LXC
- orchestration: Kubernetes, Docker Swarm, Nomad
- iac: Terraform, CloudFormation, Ansible, Pulumi
- ci_cd: Jenkins, GitLab CI, GitHub Actions, Azure DevOps
- version_control: Git, SVN, Mercurial
- monitoring_logging: Prometheus, Grafana, ELK Stack, Splunk
- databases_cache: PostgreSQL, MongoDB, Redis, MySQL
- search: Elasticsearch, Solr, Algolia
- security: OAuth, JWT, SSL/TLS, Vault
- scripting: Python, Bash, PowerShell, JavaScript
- other_tools: Any other technical tools not fitting above categories

` + experienceGuidance + `

Language proficiency scale (MANDATORY):
For each item in "languages", "proficiency" MUST be one of ["A1","A2","B1","B2","C1","C2","Natif"].
Normalize detected terms (beginner, intermediate, fluent, native, CEFR levels) to the closest value. If unclear, use "".`
}

// BuildImageSystemPrompt asks for the general purpose shape used for scanned CVs.
func (pb *PromptBuilder) BuildImageSystemPrompt() string {
	return `You are an expert CV/Resume parser. Analyze the provided CV image and extract all information in a structured JSON format.

Extract personal information, professional summary, work experience, education, categorized skills (technical, languages, soft, tools), certifications, projects, languages with proficiency levels, awards and the full extracted text content.

Provide a confidence level (0-100) and processing notes for any unclear sections.

Return ONLY valid JSON matching this exact structure:
{
  "personalInfo": {
    "fullName": "string",
    "email": "string",
    "phone": "string",
    "location": { "address": "string", "postcode": "string", "city": "string" },
    "linkedin": "string",
    "github": "string",
    "website": "string"
  },
  "professionalSummary": "string",
  "workExperience": [
    { "jobTitle": "string", "company": "string", "duration": "string", "location": "string", "responsibilities": ["string"], "achievements": ["string"] }
  ],
  "education": [
    { "degree": "string", "institution": "string", "year": "string", "location": "string", "gpa": "string", "honors": ["string"] }
  ],
  "skills": {
    "technical": ["string"],
    "languages": ["string"],
    "soft": ["string"],
    "tools": ["string"]
  },
  "certifications": [
    { "name": "string", "issuer": "string", "year": "string", "expiryDate": "string" }
  ],
  "projects": [
    { "name": "string", "description": "string", "technologies": ["string"], "duration": "string", "link": "string" }
  ],
  "languages": [
    { "language": "string", "proficiency": "string" }
  ],
  "awards": [
    { "name": "string", "issuer": "string", "year": "string", "description": "string" }
  ],
  "extractedText": "complete raw text content",
  "confidence": 95,
  "processingNotes": ["any notes about unclear sections"]
}

` + experienceGuidance
}

func (pb *PromptBuilder) BuildPDFUserPrompt(text string) string {
	return fmt.Sprintf("Please analyze this CV text and extract all information in the structured JSON format specified:\n\n%s", text)
}

func (pb *PromptBuilder) BuildImageUserPrompt() string {
	return "Please analyze this CV/Resume and extract all information in the structured JSON format specified."
}
