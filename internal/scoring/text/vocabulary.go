package text

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DomainVocabulary is a keyword set selected when the question text
// contains any of its hints.
type DomainVocabulary struct {
	Name     string   `yaml:"name"`
	Hints    []string `yaml:"hints"`
	Keywords []string `yaml:"keywords"`
}

// Vocabulary holds every word list the heuristic rules consult.
type Vocabulary struct {
	Domains        []DomainVocabulary `yaml:"domains"`
	General        []string           `yaml:"general"`
	ActionVerbs    []string           `yaml:"action_verbs"`
	Technologies   []string           `yaml:"technologies"`
	Professional   []string           `yaml:"professional"`
	Leadership     []string           `yaml:"leadership"`
	TechnicalTerms []string           `yaml:"technical_terms"`
	Tools          []string           `yaml:"tools"`
	Transitions    []string           `yaml:"transitions"`
	Stopwords      []string           `yaml:"stopwords"`
}

// LoadVocabulary reads a YAML file over the defaults; lists present in the
// file replace the built-in ones, absent lists keep their defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	v := DefaultVocabulary()
	if path == "" {
		return v, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("op=vocabulary.load: %w", err)
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("op=vocabulary.parse: %w", err)
	}
	return v, nil
}

// DefaultVocabulary returns the built-in word lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Domains: []DomainVocabulary{
			{
				Name:  "software",
				Hints: []string{"software", "develop", "developer", "code", "coding", "programming", "engineer", "engineering", "technical", "api", "backend", "frontend"},
				Keywords: []string{
					"code", "testing", "tests", "deploy", "deployment", "architecture", "api", "apis", "database",
					"debug", "debugging", "refactor", "refactoring", "scalable", "performance", "framework",
					"backend", "frontend", "microservices", "git", "agile", "algorithm", "cloud", "pipeline", "review",
				},
			},
			{
				Name:  "management",
				Hints: []string{"manage", "manager", "management", "lead", "leader", "leadership", "team", "project", "stakeholder"},
				Keywords: []string{
					"team", "stakeholders", "budget", "planning", "deadline", "deadlines", "delegate", "roadmap",
					"prioritize", "strategy", "mentor", "coordinate", "schedule", "milestone", "milestones",
					"resources", "kpi", "kpis", "hiring", "performance", "goals",
				},
			},
			{
				Name:  "sales",
				Hints: []string{"sales", "sell", "selling", "marketing", "customer", "customers", "client", "clients", "revenue", "market"},
				Keywords: []string{
					"revenue", "quota", "pipeline", "client", "clients", "customer", "customers", "leads", "conversion",
					"campaign", "campaigns", "brand", "retention", "negotiation", "market", "growth", "crm", "target", "targets",
				},
			},
			{
				Name:  "design",
				Hints: []string{"design", "designer", "ux", "ui", "creative", "visual", "user experience"},
				Keywords: []string{
					"user", "users", "prototype", "prototypes", "wireframe", "wireframes", "research", "usability", "figma",
					"layout", "typography", "accessibility", "interface", "journey", "persona", "personas", "visual", "iteration",
				},
			},
		},
		General: []string{
			"communication", "organized", "responsible", "customer", "quality", "team", "goal", "goals", "improve",
			"process", "processes", "solution", "solutions", "professional", "deadline", "collaborate", "results", "service",
		},
		ActionVerbs: []string{
			"achieved", "built", "created", "delivered", "designed", "developed", "implemented", "improved", "increased",
			"launched", "led", "managed", "optimized", "reduced", "resolved", "streamlined", "spearheaded", "established",
			"negotiated", "mentored", "automated", "coordinated", "organized", "initiated", "transformed",
		},
		Technologies: []string{
			"python", "java", "javascript", "typescript", "go", "golang", "sql", "aws", "azure", "gcp", "docker",
			"kubernetes", "react", "node", "excel", "salesforce", "jira", "figma", "tableau", "git", "linux",
			"terraform", "postgresql", "mongodb", "kafka", "redis",
		},
		Professional: []string{
			"collaborate", "collaborated", "collaboration", "communicate", "communicated", "stakeholders", "professional",
			"strategy", "strategic", "objective", "objectives", "initiative", "initiatives", "efficient", "effectively",
			"analyze", "analyzed", "prioritize", "prioritized", "deliverables", "feedback", "accountable", "proactive",
		},
		Leadership: []string{
			"led", "lead", "leading", "managed", "mentored", "mentoring", "coached", "ownership", "owned", "responsible",
			"responsibility", "decision", "decided", "guided", "supervised", "delegated", "coordinated", "drove", "championed",
		},
		TechnicalTerms: []string{
			"algorithm", "architecture", "database", "api", "framework", "infrastructure", "deployment", "integration",
			"optimization", "scalability", "security", "automation", "analytics", "protocol", "pipeline", "machine learning",
			"data model", "latency", "throughput", "continuous integration",
		},
		Tools: []string{
			"python", "java", "javascript", "typescript", "golang", "c++", "c#", "rust", "ruby", "php", "sql", "aws",
			"azure", "gcp", "docker", "kubernetes", "react", "angular", "vue", "node.js", "excel", "salesforce", "jira",
			"figma", "tableau", "power bi", "git", "linux", "terraform", "postgresql", "mysql", "mongodb", "kafka", "redis",
		},
		Transitions: []string{
			"however", "therefore", "additionally", "furthermore", "moreover", "consequently", "meanwhile", "first",
			"second", "finally", "also", "because", "although", "thus", "then",
		},
		Stopwords: []string{
			"a", "an", "and", "are", "as", "at", "be", "been", "but", "by", "can", "could", "did", "do", "does", "for",
			"from", "had", "has", "have", "how", "if", "in", "into", "is", "it", "its", "me", "my", "of", "on", "or",
			"our", "please", "so", "that", "the", "their", "them", "there", "they", "this", "to", "us", "was", "we",
			"were", "what", "when", "where", "which", "who", "why", "will", "with", "would", "you", "your", "i",
			"describe", "tell", "about", "explain", "give", "any", "some",
		},
	}
}
