package model

type Milestone struct {
	Points      int
	Label       string
	Description string
}

var defaultMilestones = []Milestone{
	{Points: 0, Label: "INÍCIO", Description: "O primeiro passo."},
	{Points: 500, Label: "DESPERTAR", Description: "Saindo da inércia."},
	{Points: 1000, Label: "CONSISTÊNCIA", Description: "Disciplina instalada."},
	{Points: 2500, Label: "APRENDIZ", Description: "Expansão de consciência."},
	{Points: 5000, Label: "PRATICANTE", Description: "Domínio das ferramentas."},
	{Points: 7500, Label: "DOMÍNIO", Description: "Alta performance."},
	{Points: 10000, Label: "AUTORIDADE", Description: "A lenda viva."},
}

// DefaultMilestones returns a copy of the progression table.
func DefaultMilestones() []Milestone {
	return append([]Milestone(nil), defaultMilestones...)
}
