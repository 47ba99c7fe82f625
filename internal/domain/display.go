package domain

// DisplayMeta carries the presentation attributes for an enumerated value.
type DisplayMeta struct {
	Label string
	Color string
	Icon  string
}

// statusMeta is the exhaustive display mapping for statuses. Lookups for
// unknown values report ok=false instead of falling back to a default.
var statusMeta = map[Status]DisplayMeta{
	StatusNovo:              {Label: "Novo", Color: "blue", Icon: "sparkles"},
	StatusAguardandoInfo:    {Label: "Aguardando Info", Color: "amber", Icon: "clock"},
	StatusAprovado:          {Label: "Aprovado", Color: "green", Icon: "check"},
	StatusEmAnalise:         {Label: "Em Análise", Color: "blue", Icon: "magnifier"},
	StatusPlanejado:         {Label: "Planejado", Color: "purple", Icon: "calendar"},
	StatusAtribuido:         {Label: "Atribuído", Color: "teal", Icon: "user"},
	StatusEmDesenvolvimento: {Label: "Em Desenvolvimento", Color: "blue", Icon: "code"},
	StatusCodeReview:        {Label: "Code Review", Color: "orange", Icon: "eye"},
	StatusTeste:             {Label: "Teste", Color: "purple", Icon: "flask"},
	StatusConcluido:         {Label: "Concluído", Color: "green", Icon: "check-circle"},
}

var stageMeta = map[Stage]DisplayMeta{
	StageClient:     {Label: "Cliente", Color: "blue", Icon: "inbox"},
	StageManagement: {Label: "Gestão", Color: "purple", Icon: "clipboard"},
	StageDev:        {Label: "Desenvolvimento", Color: "green", Icon: "terminal"},
}

// StatusDisplay returns presentation metadata for a status.
func StatusDisplay(s Status) (DisplayMeta, bool) {
	meta, ok := statusMeta[s]
	return meta, ok
}

// StageDisplay returns presentation metadata for a stage.
func StageDisplay(s Stage) (DisplayMeta, bool) {
	meta, ok := stageMeta[s]
	return meta, ok
}
