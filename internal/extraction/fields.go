package extraction

// DefaultFields returns the study-screening field set: the PICOTT elements
// commonly extracted when screening clinical papers.
func DefaultFields() []FieldSpec {
	return []FieldSpec{
		{
			Name: "population",
			Patterns: []Pattern{
				{Regex: `(?i)(patients?|participants?|subjects?|population).*?(?:with|diagnosed|having)\s+([^.]+)`, Weight: 0.5},
				{Regex: `(?i)included\s+(\d+)\s+(patients?|participants?|subjects?)`, Weight: 0.5},
				{Regex: `(?i)eligibility.*?criteria.*?([^.]+)`, Weight: 0.5},
			},
			Keywords: []string{"patients", "participants", "subjects"},
		},
		{
			Name: "intervention",
			Patterns: []Pattern{
				{Regex: `(?i)(intervention|treatment|therapy).*?(?:was|consisted|included)\s+([^.]+)`, Weight: 0.5},
				{Regex: `(?i)received\s+([^.]+)`, Weight: 0.5},
				{Regex: `(?i)experimental.*?group.*?([^.]+)`, Weight: 0.5},
			},
			Keywords: []string{"treatment", "therapy", "intervention"},
		},
		{
			Name: "comparator",
			Patterns: []Pattern{
				{Regex: `(?i)(control|comparator|comparison).*?(?:group|arm).*?([^.]+)`, Weight: 0.5},
				{Regex: `(?i)compared.*?(?:to|with)\s+([^.]+)`, Weight: 0.5},
				{Regex: `(?i)placebo.*?([^.]+)`, Weight: 0.5},
			},
		},
		{
			Name: "outcome",
			Patterns: []Pattern{
				{Regex: `(?i)primary.*?outcome.*?(?:was|included)\s+([^.]+)`, Weight: 0.5},
				{Regex: `(?i)secondary.*?outcome.*?([^.]+)`, Weight: 0.5},
				{Regex: `(?i)endpoint.*?([^.]+)`, Weight: 0.5},
			},
		},
		{
			Name: "time",
			Patterns: []Pattern{
				{Regex: `(?i)follow.?up.*?(\d+\s*(?:days?|weeks?|months?|years?))`, Weight: 0.5},
				{Regex: `(?i)duration.*?(\d+\s*(?:days?|weeks?|months?|years?))`, Weight: 0.5},
				{Regex: `(?i)(?:from|between).*?(\d{4}).*?(?:to|and).*?(\d{4})`, Weight: 0.5},
			},
		},
		{
			Name: "study_type",
			Patterns: []Pattern{
				{Regex: `(?i)(randomized|RCT|cohort|case.?control|cross.?sectional|retrospective|prospective)`, Weight: 0.5},
				{Regex: `(?i)study.*?design.*?([^.]+)`, Weight: 0.5},
				{Regex: `(?i)this.*?(randomized|observational|experimental).*?study`, Weight: 0.5},
			},
			Keywords:     []string{"randomized", "rct", "cohort"},
			KeywordBoost: 0.3,
		},
	}
}

// biasKeywords boost a bias domain's confidence when the matched sentence
// describes the methodology as adequate.
var biasKeywords = []string{"properly", "adequate", "appropriate", "successful"}

// BiasFields returns the risk-of-bias field set: one field per Cochrane-style
// bias domain, each capturing the sentence that mentions the domain. A
// methodology keyword in that sentence lifts confidence from 0.4 to 0.7.
func BiasFields() []FieldSpec {
	return []FieldSpec{
		{
			Name: "random_sequence_generation",
			Patterns: []Pattern{
				{Regex: `(?i)([^.]*random(?:ization|isation|ized|ised|\s+sequence)[^.]*)`, Weight: 0.4},
			},
			Keywords:     biasKeywords,
			KeywordBoost: 0.3,
		},
		{
			Name: "allocation_concealment",
			Patterns: []Pattern{
				{Regex: `(?i)([^.]*(?:allocation|concealment|sealed envelopes)[^.]*)`, Weight: 0.4},
			},
			Keywords:     biasKeywords,
			KeywordBoost: 0.3,
		},
		{
			Name: "blinding_participants",
			Patterns: []Pattern{
				{Regex: `(?i)([^.]*(?:double.?blind|single.?blind|blinding|blinded|masked)[^.]*)`, Weight: 0.4},
			},
			Keywords:     biasKeywords,
			KeywordBoost: 0.3,
		},
		{
			Name: "blinding_assessment",
			Patterns: []Pattern{
				{Regex: `(?i)([^.]*(?:outcome assessment|assessor.?blind\w*|evaluator.?blind\w*)[^.]*)`, Weight: 0.4},
			},
			Keywords:     biasKeywords,
			KeywordBoost: 0.3,
		},
		{
			Name: "incomplete_outcome",
			Patterns: []Pattern{
				{Regex: `(?i)([^.]*(?:lost to follow.?up|attrition|dropout|missing data)[^.]*)`, Weight: 0.4},
			},
			Keywords:     biasKeywords,
			KeywordBoost: 0.3,
		},
		{
			Name: "selective_reporting",
			Patterns: []Pattern{
				{Regex: `(?i)([^.]*(?:protocol|pre.?registered|all outcomes reported)[^.]*)`, Weight: 0.4},
			},
			Keywords:     biasKeywords,
			KeywordBoost: 0.3,
		},
		{
			Name: "other_bias",
			Patterns: []Pattern{
				{Regex: `(?i)([^.]*(?:baseline imbalance|conflict of interest|funding)[^.]*)`, Weight: 0.4},
			},
			Keywords:     biasKeywords,
			KeywordBoost: 0.3,
		},
	}
}
