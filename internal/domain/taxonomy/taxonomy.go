// Package taxonomy maps free-text specialization strings onto a closed set of
// canonical categories and scores category compatibility.
//
// All tables in this package are process-wide immutable configuration: they are
// never mutated after init, so Normalize and MatchScore are safe to call from
// concurrent ranking requests without synchronization.
package taxonomy

import "strings"

// Category is a canonical specialization label.
type Category string

// Canonical categories. Bioinformatics keeps its Russian label because that is
// the canonical spelling used by the upstream student records.
const (
	MachineLearning  Category = "Machine Learning"
	DataScience      Category = "Data Science"
	NLP              Category = "NLP"
	ComputerVision   Category = "Computer Vision"
	DataEngineering  Category = "Data Engineering"
	Backend          Category = "Backend"
	Frontend         Category = "Frontend"
	Android          Category = "Android"
	DevOps           Category = "DevOps"
	QA               Category = "QA"
	UIUX             Category = "UI/UX"
	GameDev          Category = "GameDev"
	Bioinformatics   Category = "Биоинформатика"
	Cybersecurity    Category = "Cybersecurity"
	Robotics         Category = "Robotics"
	ProductAnalytics Category = "Product Analytics"
	Other            Category = "Other"
)

// entry binds a category to its accepted spellings. Variants are stored
// lowercase; matching is case-insensitive.
type entry struct {
	cat      Category
	variants []string
}

// entries is scanned top to bottom and left to right; the first match wins.
// The slice order is fixed and is part of the normalization contract — do not
// reorder without versioning the taxonomy.
var entries = []entry{
	{MachineLearning, []string{"machine learning", "ml", "ai", "машинное обучение"}},
	{DataScience, []string{"data science", "data analytics", "анализ данных"}},
	{NLP, []string{"nlp", "natural language processing", "обработка текста"}},
	{ComputerVision, []string{"computer vision", "cv", "компьютерное зрение"}},
	{DataEngineering, []string{"data engineering", "etl", "big data", "инженерия данных"}},
	{Backend, []string{"backend", "api", "microservices", "server-side", "бэкенд", "back-end"}},
	{Frontend, []string{"frontend", "ui", "ux", "web", "react", "vue", "фронтенд", "front-end"}},
	{Android, []string{"android", "mobile", "kotlin", "мобильная разработка", "mobile development"}},
	{DevOps, []string{"devops", "cloud", "ci/cd", "infrastructure", "девопс"}},
	{QA, []string{"qa", "testing", "test automation", "quality assurance", "тестирование"}},
	// "ui" and "ux" are shadowed by the Frontend entry above; kept so the
	// table mirrors the historical mapping.
	{UIUX, []string{"ui/ux", "design", "user experience", "interface", "дизайн", "ui", "ux"}},
	{GameDev, []string{"gamedev", "game development", "vr", "ar", "геймдев"}},
	{Bioinformatics, []string{"биоинформатика", "bioinformatics", "genomics", "biology", "геномика"}},
	{Cybersecurity, []string{"cybersecurity", "security", "infosec", "кибербезопасность"}},
	{Robotics, []string{"robotics", "robots", "automation", "робототехника"}},
	{ProductAnalytics, []string{"product analytics", "analytics", "bi", "business intelligence", "аналитика"}},
	{Other, []string{"other", "другое", "прочее", "разное"}},
}

// ruFallback maps Russian phrases to categories. It fires only after the
// variant tables above failed both exact and substring matching, so most
// entries are reachable only for inputs that dodge every variant. Kept as-is
// for compatibility with the historical normalization behavior.
var ruFallback = []struct {
	ru  string
	cat Category
}{
	{"машинное обучение", MachineLearning},
	{"анализ данных", DataScience},
	{"обработка текста", NLP},
	{"компьютерное зрение", ComputerVision},
	{"инженерия данных", DataEngineering},
	{"бэкенд", Backend},
	{"фронтенд", Frontend},
	{"мобильная разработка", Android},
	{"девопс", DevOps},
	{"тестирование", QA},
	{"дизайн", UIUX},
	{"геймдев", GameDev},
	{"биоинформатика", Bioinformatics},
	{"кибербезопасность", Cybersecurity},
	{"робототехника", Robotics},
	{"аналитика", ProductAnalytics},
}

// All returns every canonical category, Other last.
func All() []Category {
	cats := make([]Category, 0, len(entries))
	for _, e := range entries {
		cats = append(cats, e.cat)
	}
	return cats
}

// Normalize maps a raw specialization string to its canonical category.
//
// Priority order, first match wins:
//  1. empty / "nan" / "none" input resolves to Other
//  2. case-insensitive exact match against any variant
//  3. case-insensitive substring match, either direction, in table order
//  4. Russian phrase fallback
//  5. Other
//
// Normalize is pure; canonical category names normalize to themselves.
func Normalize(raw string) Category {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Other
	}
	lower := strings.ToLower(s)
	if lower == "nan" || lower == "none" {
		return Other
	}

	for _, e := range entries {
		for _, v := range e.variants {
			if v == lower {
				return e.cat
			}
		}
	}

	for _, e := range entries {
		for _, v := range e.variants {
			if strings.Contains(lower, v) || strings.Contains(v, lower) {
				return e.cat
			}
		}
	}

	for _, m := range ruFallback {
		if strings.Contains(lower, m.ru) {
			return m.cat
		}
	}

	return Other
}

// related lists categories considered adjacent to the key. The table is
// intentionally asymmetric ("Data Analytics" is not a canonical category and
// is unreachable after Normalize); MatchScore checks it in both directions.
var related = map[Category][]Category{
	MachineLearning: {DataScience, NLP, ComputerVision, "Data Analytics"},
	DataScience:     {MachineLearning, DataEngineering, NLP, ProductAnalytics},
	NLP:             {MachineLearning, DataScience},
	ComputerVision:  {MachineLearning, DataScience},
	Backend:         {DevOps, DataEngineering},
	Frontend:        {UIUX, Android},
	Android:         {Frontend, UIUX},
	DevOps:          {Backend, DataEngineering},
	DataEngineering: {DataScience, Backend, DevOps},
	UIUX:            {Frontend, Android},
}

// MatchScore scores how well a candidate's category satisfies the required
// one: 1.0 for an exact match, 0.7 when either side lists the other as
// related, 0 otherwise.
func MatchScore(candidate, required Category) float64 {
	if candidate == required {
		return 1.0
	}
	if listsRelated(candidate, required) || listsRelated(required, candidate) {
		return 0.7
	}
	return 0.0
}

func listsRelated(from, to Category) bool {
	for _, r := range related[from] {
		if r == to {
			return true
		}
	}
	return false
}
