package domain

// Nutrient names one of the fixed nutrient fields of a NutritionRecord
type Nutrient string

const (
	Calories      Nutrient = "calories"
	Carbohydrates Nutrient = "carbohydrates"
	Protein       Nutrient = "protein"
	Fats          Nutrient = "fats"
	FreeSugar     Nutrient = "freeSugar"
	Fiber         Nutrient = "fiber"
	Sodium        Nutrient = "sodium"
	Calcium       Nutrient = "calcium"
	Iron          Nutrient = "iron"
	VitaminC      Nutrient = "vitaminC"
	Folate        Nutrient = "folate"
)

// AllNutrients lists every nutrient in display order
var AllNutrients = []Nutrient{
	Calories, Carbohydrates, Protein, Fats, FreeSugar, Fiber,
	Sodium, Calcium, Iron, VitaminC, Folate,
}

// nutrientLabels maps nutrients to the column labels used by the nutrition API
var nutrientLabels = map[Nutrient]string{
	Calories:      "Calories (kcal)",
	Carbohydrates: "Carbohydrates (g)",
	Protein:       "Protein (g)",
	Fats:          "Fats (g)",
	FreeSugar:     "Free Sugar (g)",
	Fiber:         "Fibre (g)",
	Sodium:        "Sodium (mg)",
	Calcium:       "Calcium (mg)",
	Iron:          "Iron (mg)",
	VitaminC:      "Vitamin C (mg)",
	Folate:        "Folate (µg)",
}

// Label returns the API/display label, e.g. "Calories (kcal)"
func (n Nutrient) Label() string {
	if l, ok := nutrientLabels[n]; ok {
		return l
	}
	return string(n)
}

// NutritionRecord holds per-serving nutrient amounts for one dish
type NutritionRecord struct {
	Calories      float64 `json:"calories"`
	Carbohydrates float64 `json:"carbohydrates"`
	Protein       float64 `json:"protein"`
	Fats          float64 `json:"fats"`
	FreeSugar     float64 `json:"freeSugar"`
	Fiber         float64 `json:"fiber"`
	Sodium        float64 `json:"sodium"`
	Calcium       float64 `json:"calcium"`
	Iron          float64 `json:"iron"`
	VitaminC      float64 `json:"vitaminC"`
	Folate        float64 `json:"folate"`
}

// Value returns the amount of nutrient n. Unknown nutrients are 0.
func (r NutritionRecord) Value(n Nutrient) float64 {
	if p := r.field(n); p != nil {
		return *p
	}
	return 0
}

func (r *NutritionRecord) field(n Nutrient) *float64 {
	switch n {
	case Calories:
		return &r.Calories
	case Carbohydrates:
		return &r.Carbohydrates
	case Protein:
		return &r.Protein
	case Fats:
		return &r.Fats
	case FreeSugar:
		return &r.FreeSugar
	case Fiber:
		return &r.Fiber
	case Sodium:
		return &r.Sodium
	case Calcium:
		return &r.Calcium
	case Iron:
		return &r.Iron
	case VitaminC:
		return &r.VitaminC
	case Folate:
		return &r.Folate
	}
	return nil
}

// Scale multiplies every nutrient by factor
func (r NutritionRecord) Scale(factor float64) NutritionRecord {
	var out NutritionRecord
	for _, n := range AllNutrients {
		*out.field(n) = r.Value(n) * factor
	}
	return out
}

// Add returns the nutrient-wise sum of r and o
func (r NutritionRecord) Add(o NutritionRecord) NutritionRecord {
	var out NutritionRecord
	for _, n := range AllNutrients {
		*out.field(n) = r.Value(n) + o.Value(n)
	}
	return out
}

// Labels renders the record keyed by API labels
func (r NutritionRecord) Labels() map[string]float64 {
	out := make(map[string]float64, len(AllNutrients))
	for _, n := range AllNutrients {
		out[n.Label()] = r.Value(n)
	}
	return out
}

// RecordFromLabels builds a record from API label keys. Missing labels are
// zero and negative amounts are clamped to zero.
func RecordFromLabels(values map[string]float64) NutritionRecord {
	var r NutritionRecord
	for _, n := range AllNutrients {
		v := values[n.Label()]
		if v < 0 {
			v = 0
		}
		*r.field(n) = v
	}
	return r
}
