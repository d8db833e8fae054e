package models

type TrelloList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TrelloLabel struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TrelloCard is the subset of the create-card response we keep.
type TrelloCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"desc"`
	URL         string `json:"url"`
	ShortLink   string `json:"shortLink"`
}

// CardRequest describes a card to create. Labels are names; the board client
// resolves them to IDs.
type CardRequest struct {
	Name        string
	Description string
	ListID      string
	Labels      []string
	DueDate     string
}
