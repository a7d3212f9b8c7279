package cv

import (
	"sort"
	"strings"
)

// Domain labels.
const (
	DomainBackend     = "Backend Development"
	DomainFrontend    = "Frontend Development"
	DomainMobile      = "Mobile Development"
	DomainDatabase    = "Database Management"
	DomainDevOps      = "DevOps & Cloud"
	DomainLanguages   = "Programming Languages"
	DomainAI          = "AI & Machine Learning"
	DomainDataScience = "Data Science"
	DomainTools       = "Development Tools"
	DomainSecurity    = "Security & Authentication"
	DomainBlockchain  = "Blockchain"
	DomainOther       = "Other Technologies"
)

// skillDomains maps a lowercased skill name to its domain. It is never
// written after package initialization.
var skillDomains = buildSkillDomains(map[string][]string{
	DomainBackend: {
		"node.js", "express.js", "django", "flask", "spring", "fastapi", "nest.js",
		"restful apis", "graphql",
	},
	DomainFrontend: {
		"react.js", "react", "vue.js", "angular", "html", "css", "javascript", "typescript",
		"next.js", "socket.io", "html 5", "html5", "tailwind css", "bootstrap", "sass", "scss",
		"webpack",
	},
	DomainMobile: {
		"react native", "flutter", "kotlin", "swift", "android", "ios",
	},
	DomainDatabase: {
		"mongodb", "mysql", "postgresql", "sql", "redis", "dynamodb", "vector databases",
		"sqlite", "oracle",
	},
	DomainDevOps: {
		"docker", "kubernetes", "aws", "azure", "gcp", "ci/cd", "jenkins", "terraform",
	},
	DomainLanguages: {
		"python", "java", "c++", "c#", "go", "rust", "c",
	},
	DomainAI: {
		"tensorflow", "pytorch", "keras", "scikit-learn", "langchain", "generative ai",
		"gemini api", "supervised learning", "unsupervised learning",
		"artificial neural networks (ann)", "convolutional neural networks (cnn)",
		"model training", "evaluation & optimization", "nlp techniques",
		"speech recognition apis", "mediapipe", "opencv", "neural networks", "deep learning",
		"machine learning", "computer vision", "xgboost", "lightgbm", "catboost",
	},
	DomainDataScience: {
		"pandas", "numpy", "matplotlib", "beautiful soup", "youtube data api", "streamlit",
		"seaborn", "plotly", "data analysis", "data visualization",
	},
	DomainTools: {
		"git", "postman", "multer", "jupyter notebook", "google colab", "github", "gitlab",
		"vscode", "visual studio code", "pycharm",
	},
	DomainSecurity: {
		"jwt-based authentication", "oauth",
	},
	DomainBlockchain: {
		"web3", "blockchain technology",
	},
})

func buildSkillDomains(byDomain map[string][]string) map[string]string {
	out := make(map[string]string)
	for domain, skills := range byDomain {
		for _, s := range skills {
			out[s] = domain
		}
	}
	return out
}

// DomainOf returns the domain for a skill name, or DomainOther when unknown.
func DomainOf(name string) string {
	if d, ok := skillDomains[strings.ToLower(name)]; ok {
		return d
	}
	return DomainOther
}

// DomainTotal is the aggregated mention count of one domain.
type DomainTotal struct {
	Domain   string `json:"domain"`
	Mentions int    `json:"mentions"`
}

// DomainTotals aggregates mentions per domain and ranks them by descending
// total. Ties keep the order in which domains were first seen in skills.
func DomainTotals(skills []Skill) []DomainTotal {
	index := make(map[string]int)
	totals := make([]DomainTotal, 0)
	for _, s := range skills {
		d := DomainOf(s.Name)
		i, ok := index[d]
		if !ok {
			i = len(totals)
			index[d] = i
			totals = append(totals, DomainTotal{Domain: d})
		}
		totals[i].Mentions += s.Mentions
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Mentions > totals[j].Mentions
	})

	return totals
}

// ClassifyDomains returns the two highest ranked domains. Both are empty for
// no skills; secondary is empty when only one domain exists.
func ClassifyDomains(skills []Skill) (primary, secondary string) {
	totals := DomainTotals(skills)
	if len(totals) > 0 {
		primary = totals[0].Domain
	}
	if len(totals) > 1 {
		secondary = totals[1].Domain
	}
	return primary, secondary
}

// RankSkills returns the two most mentioned individual skills, ties broken by
// case-insensitive name.
func RankSkills(skills []Skill) (primary, secondary string) {
	ranked := cloneSkills(skills)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Mentions != ranked[j].Mentions {
			return ranked[i].Mentions > ranked[j].Mentions
		}
		return strings.ToLower(ranked[i].Name) < strings.ToLower(ranked[j].Name)
	})

	if len(ranked) > 0 {
		primary = ranked[0].Name
	}
	if len(ranked) > 1 {
		secondary = ranked[1].Name
	}
	return primary, secondary
}
