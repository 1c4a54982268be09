package domain

// SearchResult is one candidate offered by a search provider.
type SearchResult struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	IsFile bool   `json:"isFile"`
}

// Token is the delimiter-bounded segment of the text around the cursor.
// Start and End are rune offsets into the full text; Text is trimmed.
type Token struct {
	Text  string
	Start int
	End   int
}

// Empty reports whether the token carries no query text.
func (t Token) Empty() bool { return t.Text == "" }

// SameSpan reports whether both tokens cover the same replacement range.
func (t Token) SameSpan(o Token) bool { return t.Start == o.Start && t.End == o.End }

// FileEntry is a single indexed file or directory.
type FileEntry struct {
	Root  string // absolute root the entry was found under
	Path  string // slash separated, relative to Root
	IsDir bool
}

// Result converts the entry to what providers hand back.
func (e FileEntry) Result() SearchResult {
	name := e.Path
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			name = name[i+1:]
			break
		}
	}
	return SearchResult{Path: e.Path, Name: name, IsFile: !e.IsDir}
}

// ScanProgress represents the current indexing state
type ScanProgress struct {
	IsScanning bool
	FilesFound int
	Roots      []string
}
