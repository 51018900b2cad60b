package jobtitles

// Built-in taxonomy mirroring the database seed, used by MemoryRepo.

func intPtr(v int) *int { return &v }

var seedTitles = []CanonicalJobTitle{
	{Title: "Software Engineer", Category: "engineering", Seniority: "Mid", Industry: "technology"},
	{Title: "Senior Software Engineer", Category: "engineering", Seniority: "Senior", Industry: "technology"},
	{Title: "Frontend Engineer", Category: "engineering", Seniority: "Mid", Industry: "technology"},
	{Title: "Backend Engineer", Category: "engineering", Seniority: "Mid", Industry: "technology"},
	{Title: "Full Stack Engineer", Category: "engineering", Seniority: "Mid", Industry: "technology"},
	{Title: "Machine Learning Engineer", Category: "engineering", Seniority: "Mid", Industry: "technology"},
	{Title: "DevOps Engineer", Category: "engineering", Seniority: "Mid", Industry: "technology"},
	{Title: "Site Reliability Engineer", Category: "engineering", Seniority: "Mid", Industry: "technology"},
	{Title: "QA Engineer", Category: "engineering", Seniority: "Mid", Industry: "technology"},
	{Title: "Data Scientist", Category: "data", Seniority: "Mid", Industry: "technology"},
	{Title: "Data Engineer", Category: "data", Seniority: "Mid", Industry: "technology"},
	{Title: "Data Analyst", Category: "data", Seniority: "Junior", Industry: "technology"},
	{Title: "Product Manager", Category: "product", Seniority: "Mid", Industry: "technology"},
	{Title: "Project Manager", Category: "management", Seniority: "Mid"},
	{Title: "Engineering Manager", Category: "management", Seniority: "Lead", Industry: "technology"},
	{Title: "Marketing Manager", Category: "management", Seniority: "Mid"},
	{Title: "UX Designer", Category: "design", Seniority: "Mid"},
	{Title: "UI Designer", Category: "design", Seniority: "Mid"},
	{Title: "Business Analyst", Category: "business", Seniority: "Mid"},
	{Title: "Accountant", Category: "finance", Seniority: "Mid"},
	{Title: "Sales Representative", Category: "sales", Seniority: "Mid"},
	{Title: "Manager", Category: "management", IsGeneric: true},
	{Title: "Engineer", Category: "engineering", IsGeneric: true},
	{Title: "Developer", Category: "engineering", IsGeneric: true},
	{Title: "Analyst", Category: "business", IsGeneric: true},
	{Title: "Consultant", Category: "business", IsGeneric: true},
	{Title: "Designer", Category: "design", IsGeneric: true},
	{Title: "Director", Category: "management", IsGeneric: true},
	{Title: "Specialist", Category: "business", IsGeneric: true},
}

var seedVariations = []Variation{
	{Variation: "swe", Canonical: "Software Engineer", Confidence: 95},
	{Variation: "software developer", Canonical: "Software Engineer", Confidence: 95},
	{Variation: "software dev", Canonical: "Software Engineer", Confidence: 90},
	{Variation: "programmer", Canonical: "Software Engineer", Confidence: 85},
	{Variation: "sr software engineer", Canonical: "Senior Software Engineer", Confidence: 95},
	{Variation: "senior swe", Canonical: "Senior Software Engineer", Confidence: 95},
	{Variation: "front end developer", Canonical: "Frontend Engineer", Confidence: 95},
	{Variation: "front-end developer", Canonical: "Frontend Engineer", Confidence: 95},
	{Variation: "frontend developer", Canonical: "Frontend Engineer", Confidence: 95},
	{Variation: "back end developer", Canonical: "Backend Engineer", Confidence: 95},
	{Variation: "back-end developer", Canonical: "Backend Engineer", Confidence: 95},
	{Variation: "backend developer", Canonical: "Backend Engineer", Confidence: 95},
	{Variation: "full stack developer", Canonical: "Full Stack Engineer", Confidence: 95},
	{Variation: "fullstack developer", Canonical: "Full Stack Engineer", Confidence: 95},
	{Variation: "ml engineer", Canonical: "Machine Learning Engineer", Confidence: 95},
	{Variation: "mle", Canonical: "Machine Learning Engineer", Confidence: 90},
	{Variation: "sre", Canonical: "Site Reliability Engineer", Confidence: 95},
	{Variation: "devops", Canonical: "DevOps Engineer", Confidence: 90},
	{Variation: "pm", Canonical: "Product Manager", Confidence: 85},
	{Variation: "product owner", Canonical: "Product Manager", Confidence: 85},
	{Variation: "qa", Canonical: "QA Engineer", Confidence: 85},
	{Variation: "quality assurance engineer", Canonical: "QA Engineer", Confidence: 95},
	{Variation: "test engineer", Canonical: "QA Engineer", Confidence: 90},
	{Variation: "ux", Canonical: "UX Designer", Confidence: 85},
	{Variation: "user experience designer", Canonical: "UX Designer", Confidence: 95},
	{Variation: "ui", Canonical: "UI Designer", Confidence: 85},
	{Variation: "ba", Canonical: "Business Analyst", Confidence: 85},
	{Variation: "cpa", Canonical: "Accountant", Confidence: 90},
	{Variation: "sales rep", Canonical: "Sales Representative", Confidence: 95},
	{Variation: "salesperson", Canonical: "Sales Representative", Confidence: 90},
}

var seedTemplates = []RoleTemplate{
	{
		Canonical:        "Software Engineer",
		RequiredSkills:   []string{"programming", "data structures", "algorithms", "version control"},
		PreferredSkills:  []string{"cloud platforms", "CI/CD", "testing"},
		RequiredKeywords: []string{"software", "development", "engineering"},
		ATSKeywords:      []string{"software engineer", "developer", "agile", "git"},
		MinYears:         2,
		MaxYears:         intPtr(6),
		Education:        []string{"BS Computer Science or equivalent"},
	},
	{
		Canonical:        "Senior Software Engineer",
		RequiredSkills:   []string{"system design", "mentoring", "programming", "code review"},
		PreferredSkills:  []string{"distributed systems", "performance tuning"},
		RequiredKeywords: []string{"senior", "software", "architecture"},
		ATSKeywords:      []string{"senior software engineer", "technical lead", "system design"},
		MinYears:         5,
		Education:        []string{"BS Computer Science or equivalent"},
	},
	{
		Canonical:        "Data Scientist",
		RequiredSkills:   []string{"python", "statistics", "machine learning", "sql"},
		PreferredSkills:  []string{"deep learning", "experiment design"},
		RequiredKeywords: []string{"data science", "modeling", "analysis"},
		ATSKeywords:      []string{"data scientist", "machine learning", "python", "statistics"},
		MinYears:         2,
		MaxYears:         intPtr(8),
		Education:        []string{"MS or PhD in quantitative field preferred"},
	},
	{
		Canonical:        "Product Manager",
		RequiredSkills:   []string{"roadmapping", "stakeholder management", "analytics"},
		PreferredSkills:  []string{"sql", "a/b testing"},
		RequiredKeywords: []string{"product", "strategy", "requirements"},
		ATSKeywords:      []string{"product manager", "roadmap", "stakeholder"},
		MinYears:         3,
		Education:        []string{"Bachelor's degree"},
	},
}
