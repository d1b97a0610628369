package llm

// Chunk is one unit of textbook content as it appears in the corpus JSON.
// Lesson and sublesson numbering starts at 1.
type Chunk struct {
	Text      string `json:"text"`
	Lesson    int    `json:"lesson"`
	Sublesson int    `json:"sublesson"`
	Topic     string `json:"topic"`
	ChunkID   string `json:"chunk_id"`
}

// SearchFilter constrains a similarity search to a lesson and optionally a
// sublesson. A nil *SearchFilter means the whole collection. A sublesson
// constraint is never present without a lesson constraint.
type SearchFilter struct {
	Lesson    int
	Sublesson int // 0 means lesson-only (sublessons start at 1)
}

// HasSublesson reports whether the filter also constrains the sublesson.
func (f *SearchFilter) HasSublesson() bool {
	return f != nil && f.Sublesson > 0
}

// RetrievedChunk is a search hit: the stored text plus its metadata, in rank
// order by similarity. Metadata fields missing from the index stay nil.
type RetrievedChunk struct {
	Text      string
	Lesson    *int
	Sublesson *int
	Topic     string
	ChunkID   string
}

// SourceEntry is the display-ready citation attached to a committed answer.
type SourceEntry struct {
	Lesson    *int   `json:"lesson"`
	Sublesson *int   `json:"sublesson"`
	Topic     string `json:"topic,omitempty"`
	Snippet   string `json:"snippet"`
}

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation. Sources are only present on
// committed assistant messages.
type Message struct {
	Role    Role
	Content string
	Sources []SourceEntry
}
