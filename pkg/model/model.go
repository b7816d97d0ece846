// Package model holds the parliamentary initiative records as published in the
// Parlamento open-data JSON export. Field names follow the export; nullable
// values in the export decode to their zero value and are treated as absent.
package model

// NoTitle is shown when an initiative carries neither a title nor an epigraph.
const NoTitle = "No Title"

// NotAvailable is the placeholder for an absent scalar attribute.
const NotAvailable = "N/A"

// Initiative is a bill, resolution or petition record, the top-level unit of the dataset.
type Initiative struct {
	ID          string         `json:"IniId"`
	Number      string         `json:"IniNr,omitempty"`
	Legislature string         `json:"IniLeg,omitempty"`
	Title       string         `json:"IniTitulo,omitempty"`
	Epigraph    string         `json:"IniEpigrafe,omitempty"`
	Type        string         `json:"IniTipo,omitempty"`
	TypeDesc    string         `json:"IniDescTipo,omitempty"`
	TermStart   string         `json:"DataInicioleg,omitempty"`
	TextLink    string         `json:"IniLinkTexto,omitempty"`
	Note        string         `json:"IniObs,omitempty"`
	Groups      []AuthorGroup  `json:"IniAutorGruposParlamentares,omitempty"`
	Deputies    []AuthorMember `json:"IniAutorDeputados,omitempty"`
	Attachments []Attachment   `json:"IniAnexos,omitempty"`
	Events      []Event        `json:"IniEventos,omitempty"`
}

// AuthorGroup is a parliamentary group credited as author.
type AuthorGroup struct {
	GP string `json:"GP"`
}

// AuthorMember is an individual deputy credited as author.
type AuthorMember struct {
	GP   string `json:"GP,omitempty"`
	ID   string `json:"idCadastro,omitempty"`
	Name string `json:"nome,omitempty"`
}

// Attachment is a document attached to an initiative.
type Attachment struct {
	Name string `json:"anexoNome,omitempty"`
	File string `json:"anexoFich,omitempty"`
}

// Event is one procedural step of an initiative.
type Event struct {
	ID           string        `json:"EvtId,omitempty"`
	PhaseCode    string        `json:"CodigoFase,omitempty"`
	Phase        string        `json:"Fase,omitempty"`
	PhaseDate    string        `json:"DataFase,omitempty"`
	Note         string        `json:"ObsFase,omitempty"`
	Votes        []Vote        `json:"Votacao,omitempty"`
	Committees   []Committee   `json:"Comissao,omitempty"`
	Publications []Publication `json:"PublicacaoFase,omitempty"`
}

// Committee is a committee involved in an event. Its votes are committee-level
// votes, distinct from the votes held on the event itself.
type Committee struct {
	ID    string `json:"IdComissao,omitempty"`
	Name  string `json:"Nome,omitempty"`
	Sigla string `json:"Sigla,omitempty"`
	Votes []Vote `json:"Votacao,omitempty"`
}

// Outcome is the result of a vote.
type Outcome string

const (
	Approved Outcome = "Aprovado"
	Rejected Outcome = "Rejeitado"
)

// Valid reports whether o is one of the two recognised outcomes.
func (o Outcome) Valid() bool {
	return o == Approved || o == Rejected
}

// Vote is a single voting record.
type Vote struct {
	ID        string   `json:"id,omitempty"`
	Date      string   `json:"data,omitempty"`
	Result    Outcome  `json:"resultado,omitempty"`
	Detail    string   `json:"detalhe,omitempty"`
	Unanimous string   `json:"unanime,omitempty"`
	Absences  []string `json:"ausencias,omitempty"`
}

// Publication is a journal publication attached to an event.
type Publication struct {
	Date string `json:"pubdt,omitempty"`
	Type string `json:"pubTipo,omitempty"`
	Note string `json:"obs,omitempty"`
	URL  string `json:"URLDiario,omitempty"`
}

// DisplayTitle resolves the title shown for an initiative: the title, then the
// epigraph, then NoTitle.
func (i Initiative) DisplayTitle() string {
	return FirstNonEmpty(i.Title, i.Epigraph, NoTitle)
}

// VoteCount returns the number of event and committee votes recorded on the initiative.
func (i Initiative) VoteCount() int {
	n := 0
	for _, ev := range i.Events {
		n += len(ev.Votes)
		for _, c := range ev.Committees {
			n += len(c.Votes)
		}
	}
	return n
}

// FirstNonEmpty returns the first non-empty value, or "" when all are empty.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// OrNA returns s, or NotAvailable when s is empty.
func OrNA(s string) string {
	return FirstNonEmpty(s, NotAvailable)
}
