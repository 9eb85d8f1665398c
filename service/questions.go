package service

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryPlan describes the follow-up questions for one equipment category.
// A category matches a free-text equipment description when every substring
// in All is contained in it and, if Any is non-empty, at least one substring
// in Any is too. Matching is case-insensitive; plans are checked in order so
// more specific categories must come before generic ones.
type CategoryPlan struct {
	Key           string   `yaml:"key"`
	Any           []string `yaml:"any,omitempty"`
	All           []string `yaml:"all,omitempty"`
	Labels        []string `yaml:"labels"`
	FallbackLabel string   `yaml:"fallback_label,omitempty"`
}

func (p *CategoryPlan) matches(normalized string) bool {
	for _, sub := range p.All {
		if !strings.Contains(normalized, sub) {
			return false
		}
	}
	if len(p.Any) == 0 {
		return len(p.All) > 0
	}
	for _, sub := range p.Any {
		if strings.Contains(normalized, sub) {
			return true
		}
	}
	return false
}

type planFile struct {
	DefaultLabel string         `yaml:"default_label"`
	Categories   []CategoryPlan `yaml:"categories"`
}

// QuestionPlanner classifies an equipment description into a category and
// sequences that category's follow-up questions. An unmatched description
// falls through to a zero-question default.
type QuestionPlanner struct {
	plans        []CategoryPlan
	defaultLabel string
}

// NewQuestionPlanner returns a planner with the built-in category table.
func NewQuestionPlanner() *QuestionPlanner {
	return &QuestionPlanner{
		defaultLabel: "Características del equipo",
		plans: []CategoryPlan{
			{
				Key:    "soldadora",
				Any:    []string{"soldadora", "soldar"},
				Labels: []string{"Amperaje/electrodo requerido"},
			},
			{
				Key:    "compresor",
				Any:    []string{"compresor"},
				Labels: []string{"Capacidad de volumen de aire/herramienta"},
			},
			{
				Key:    "torre_iluminacion",
				All:    []string{"torre", "iluminacion"},
				Labels: []string{"Requerimiento LED"},
			},
			{
				Key: "plataforma_elevacion",
				Any: []string{"lgmg", "plataforma"},
				Labels: []string{
					"Altura de trabajo necesaria",
					"Actividad a realizar",
					"Ubicación (exterior/interior)",
				},
				FallbackLabel: "Características de trabajo LGMG",
			},
			{
				Key: "generador",
				Any: []string{"generador"},
				Labels: []string{
					"Actividad para la que se requiere",
					"Capacidad en kVA o kW",
				},
				FallbackLabel: "Características del generador",
			},
			{
				Key:    "rompedor",
				Any:    []string{"rompedor"},
				Labels: []string{"Uso del rompedor"},
			},
		},
	}
}

// LoadQuestionPlans reads a category table from a YAML file.
func LoadQuestionPlans(path string) (*QuestionPlanner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question plans: %w", err)
	}
	var pf planFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse question plans: %w", err)
	}
	if len(pf.Categories) == 0 {
		return nil, fmt.Errorf("question plans: no categories defined")
	}
	p := &QuestionPlanner{plans: pf.Categories, defaultLabel: pf.DefaultLabel}
	if p.defaultLabel == "" {
		p.defaultLabel = "Características del equipo"
	}
	return p, nil
}

// Classify returns the first category plan matching the description, or nil
// for the default category.
func (q *QuestionPlanner) Classify(description string) *CategoryPlan {
	normalized := normalizeDescription(description)
	for i := range q.plans {
		if q.plans[i].matches(normalized) {
			return &q.plans[i]
		}
	}
	return nil
}

// QuestionCount reports how many follow-up questions the description's
// category asks. The default category asks none.
func (q *QuestionPlanner) QuestionCount(description string) int {
	if plan := q.Classify(description); plan != nil {
		return len(plan.Labels)
	}
	return 0
}

// HasMoreQuestions reports whether another question follows the one at
// index for the description's category.
func (q *QuestionPlanner) HasMoreQuestions(description string, index int) bool {
	plan := q.Classify(description)
	if plan == nil {
		return false
	}
	return index < len(plan.Labels)-1
}

// DescribeAnswer turns a raw answer into a labeled characteristic string
// using the category-and-index-specific label.
func (q *QuestionPlanner) DescribeAnswer(description, message string, index int) string {
	plan := q.Classify(description)
	label := q.defaultLabel
	switch {
	case plan == nil:
	case index >= 0 && index < len(plan.Labels):
		label = plan.Labels[index]
	case plan.FallbackLabel != "":
		label = plan.FallbackLabel
	default:
		label = plan.Labels[len(plan.Labels)-1]
	}
	return fmt.Sprintf("%s: %s", label, message)
}

func normalizeDescription(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	// fold the accented vowels that show up in equipment descriptions
	r := strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n")
	return r.Replace(s)
}
