package upstream

// Option is one selectable entry for the form's dropdowns and filter chips.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormOptions is the catalog the register form consumes. The backend has no
// options endpoint yet, so the catalog is served from here for every store.
type FormOptions struct {
	Types      []Option            `json:"types"`
	SubTypes   map[string][]Option `json:"sub_types"`
	Priorities []Option            `json:"priorities"`
	Regions    []string            `json:"regions"`
}

func Options() FormOptions {
	return FormOptions{
		Types: []Option{
			{Value: "1", Label: "Incêndio"},
			{Value: "2", Label: "Resgate"},
			{Value: "3", Label: "APH"},
			{Value: "4", Label: "Prevenção"},
			{Value: "5", Label: "Ambiental"},
			{Value: "6", Label: "Administrativa"},
			{Value: "7", Label: "Desastre"},
		},
		SubTypes: map[string][]Option{
			"1": {
				{Value: "101", Label: "Incêndio em Edificação"},
				{Value: "102", Label: "Incêndio Florestal"},
			},
			"2": {
				{Value: "201", Label: "Resgate em Altura"},
				{Value: "202", Label: "Resgate Veicular"},
			},
			"3": {
				{Value: "301", Label: "Atendimento Clínico"},
				{Value: "302", Label: "Trauma"},
			},
		},
		Priorities: []Option{
			{Value: "Baixa", Label: "Baixa"},
			{Value: "Media", Label: "Média"},
			{Value: "Alta", Label: "Alta"},
			{Value: "Critica", Label: "Crítica"},
		},
		Regions: []string{"RMR", "Zona da Mata", "Agreste", "Sertão"},
	}
}
