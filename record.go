package scripts

import "time"

type ScriptType string

const (
	Full        ScriptType = "Full"
	Teensyville ScriptType = "Teensyville"
)

// Metadata holds the mutable fields of a version. Uploading identical
// content again only changes these.
type Metadata struct {
	Author     string     `json:"author"`
	Notes      string     `json:"notes,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	PDF        string     `json:"pdf,omitempty"`
	ScriptType ScriptType `json:"script_type"`
	Uploader   string     `json:"uploader,omitempty"`
}

// merge applies an update on top of the stored metadata. Author, script type
// and tags are always replaced, notes and pdf only when supplied.
func (md Metadata) merge(update Metadata) Metadata {
	merged := md
	merged.Author = update.Author
	merged.ScriptType = update.ScriptType
	merged.Tags = copyTags(update.Tags)

	if update.Notes != "" {
		merged.Notes = update.Notes
	}

	if update.PDF != "" {
		merged.PDF = update.PDF
	}

	return merged
}

func (md Metadata) Clone() Metadata {
	cp := md
	cp.Tags = copyTags(md.Tags)
	return cp
}

func copyTags(tags []string) []string {
	if tags == nil {
		return nil
	}

	cp := make([]string, len(tags))
	copy(cp, tags)
	return cp
}

// Record is one stored version of a script.
type Record struct {
	ID       string  `json:"id"`
	ScriptID string  `json:"script_id"`
	Version  Version `json:"version"`
	Latest   bool    `json:"latest"`
	Content  Content `json:"content"`
	Metadata
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Record) Name() string {
	return r.Content.Name()
}
