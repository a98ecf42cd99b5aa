package risk

// ChestPain describes one of the accepted chest pain types. It is
// collected for reference only and does not affect the score.
type ChestPain struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var chestPainReference = []ChestPain{
	{
		Type:        "typical",
		Label:       "Typical Angina",
		Description: "Classic angina characterized by chest pressure or heaviness, typically triggered by physical activity or stress",
	},
	{
		Type:        "atypical",
		Label:       "Atypical Angina",
		Description: "Chest pain that shares some characteristics with typical angina but may present differently",
	},
	{
		Type:        "nonanginal",
		Label:       "Non-Anginal",
		Description: "Chest pain that is not related to heart problems, possibly caused by other factors like muscle strain or anxiety",
	},
	{
		Type:        "asymptomatic",
		Label:       "Asymptomatic",
		Description: "No chest pain symptoms present",
	},
}

// ChestPainReference returns a copy of the chest pain vocabulary.
func ChestPainReference() []ChestPain {
	out := make([]ChestPain, len(chestPainReference))
	copy(out, chestPainReference)
	return out
}

// ChestPainTypes returns the accepted chest pain type values.
func ChestPainTypes() []string {
	types := make([]string, 0, len(chestPainReference))
	for _, cp := range chestPainReference {
		types = append(types, cp.Type)
	}
	return types
}
