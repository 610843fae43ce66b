package cqrs

// ---------- User queries ----------

// GetUserQuery fetches the authenticated user.
type GetUserQuery struct {
	UserID string
}

// ---------- Transaction queries ----------

// ListTransactionsQuery fetches every transaction of a user, newest first.
type ListTransactionsQuery struct {
	UserID string
}

// SummaryQuery aggregates a user's transactions. Zero Year and Month cover
// the whole history.
type SummaryQuery struct {
	UserID string
	Year   int
	Month  int
	Top    int
}

// ---------- Monthly note queries ----------

type GetNoteQuery struct {
	UserID string
	Month  int
	Year   int
}

// ListNoteMonthsQuery lists the months that have a note.
type ListNoteMonthsQuery struct {
	UserID string
}
