package domain

// ClauseKind identifies one filter clause of a todo search. Clauses are
// combined with AND by the storage adapter, which translates them into its
// native query language.
type ClauseKind int

const (
	// ClauseVisibleTo restricts results to todos owned by a user or whose id
	// is in the user's granted share set.
	ClauseVisibleTo ClauseKind = iota
	// ClauseCategory matches the category, case-insensitive.
	ClauseCategory
	// ClauseTag matches todos carrying the tag, case-insensitive.
	ClauseTag
	// ClauseCompleted matches the completed flag.
	ClauseCompleted
	// ClauseArchived matches the archived flag.
	ClauseArchived
	// ClauseSearch matches a case-insensitive substring of title or
	// description.
	ClauseSearch
)

// Clause is one named filter condition of a todo search.
type Clause struct {
	Kind      ClauseKind
	Text      string
	Flag      bool
	SharedIDs []string
}

// Criteria is a list of filter clauses combined with AND.
type Criteria struct {
	Clauses []Clause
}

// VisibleTo adds a visibility clause: owner equals userID, or the todo id is
// in sharedIDs.
func (c *Criteria) VisibleTo(userID string, sharedIDs []string) {
	c.Clauses = append(c.Clauses, Clause{Kind: ClauseVisibleTo, Text: userID, SharedIDs: sharedIDs})
}

// CategoryEquals adds a case-insensitive category equality clause.
func (c *Criteria) CategoryEquals(category string) {
	c.Clauses = append(c.Clauses, Clause{Kind: ClauseCategory, Text: category})
}

// HasTag adds a case-insensitive tag membership clause.
func (c *Criteria) HasTag(tag string) {
	c.Clauses = append(c.Clauses, Clause{Kind: ClauseTag, Text: tag})
}

// CompletedEquals adds a completed flag clause.
func (c *Criteria) CompletedEquals(completed bool) {
	c.Clauses = append(c.Clauses, Clause{Kind: ClauseCompleted, Flag: completed})
}

// ArchivedEquals adds an archived flag clause.
func (c *Criteria) ArchivedEquals(archived bool) {
	c.Clauses = append(c.Clauses, Clause{Kind: ClauseArchived, Flag: archived})
}

// Matches adds a title/description substring clause.
func (c *Criteria) Matches(search string) {
	c.Clauses = append(c.Clauses, Clause{Kind: ClauseSearch, Text: search})
}

// Sort describes the ordering of a todo search.
type Sort struct {
	Field string
	Desc  bool
}

// Pageable describes one page of a todo search. Page is zero-based.
type Pageable struct {
	Page int
	Size int
	Sort Sort
}

// Offset returns the row offset of the page.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}
