package response

// Envelope is the uniform response wrapper: every endpoint answers with
// success plus either a payload or an error message.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func Err(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

// FeedData is the payload of one feed page.
type FeedData struct {
	Posts  []Post `json:"posts"`
	Cursor string `json:"cursor"`
}

// EmptyFeed is what read failures degrade to: an empty page, not an error
// status.
func EmptyFeed(msg string) Envelope {
	return Envelope{Success: false, Data: FeedData{Posts: []Post{}}, Error: msg}
}
