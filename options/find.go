package options

type Order string

const (
	Ascend  Order = "ASC"
	Descend Order = "DESC"
)

// FindOptions narrows a version listing. Records are ordered by script id
// and then by version.
type FindOptions struct {
	O         Order
	ScriptID  string
	Latest    bool
	Character string
	Uploader  string
}

func (fo *FindOptions) SetOrder(o Order) *FindOptions {
	fo.O = o
	return fo
}

func (fo *FindOptions) Script(id string) *FindOptions {
	fo.ScriptID = id
	return fo
}

// LatestOnly skips every record that is not the latest version of its script.
func (fo *FindOptions) LatestOnly() *FindOptions {
	fo.Latest = true
	return fo
}

// Containing keeps records whose content has a character with the given id.
func (fo *FindOptions) Containing(character string) *FindOptions {
	fo.Character = character
	return fo
}

func (fo *FindOptions) UploadedBy(uploader string) *FindOptions {
	fo.Uploader = uploader
	return fo
}

func Find() *FindOptions {
	return &FindOptions{O: Ascend}
}
