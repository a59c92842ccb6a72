package domain

// Metadata describes where a chunk came from. Year and Quarter are empty
// when the source filename did not carry a parseable date.
type Metadata struct {
	Company  string  `json:"company"`
	Filename string  `json:"filename"`
	Year     string  `json:"year,omitempty"`
	Quarter  Quarter `json:"quarter,omitempty"`
}

// Chunk is a bounded window of transcript text plus its source metadata,
// the atomic unit of retrieval. Immutable once created.
type Chunk struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// SearchResult is a matching chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// QueryFilter narrows retrieval to one (company, year, quarter) triple.
// Zero-valued fields mean "not specified".
type QueryFilter struct {
	Company string
	Year    string
	Quarter Quarter
}

// Complete reports whether all three fields are set. Retrieval treats a
// partial filter the same as no filter at all.
func (f QueryFilter) Complete() bool {
	return f.Company != "" && f.Year != "" && f.Quarter != ""
}

// Role tags one side of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message in the conversation history.
type Turn struct {
	Role Role
	Text string
}

// Embedder converts free text into a fixed-dimension numeric vector.
// The same embedder must serve index build and query time.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Generator produces answer text for a fully assembled prompt.
type Generator interface {
	Generate(prompt string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
