package workspace

// User is the author of a message, as returned by the GraphQL API.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Message is an annotated message resolved by id via the GraphQL API.
type Message struct {
	ID        string `json:"id"`
	Created   string `json:"created"`
	Content   string `json:"content"`
	CreatedBy User   `json:"createdBy"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type graphqlResponse struct {
	Data struct {
		Message *Message `json:"message"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// appMessage is the shape of an app-authored message posted to a space.
// The platform renders the generic annotation as a colored block with a
// title, markdown text and a visible actor label.
type appMessage struct {
	Type        string          `json:"type"`
	Version     float64         `json:"version"`
	Annotations []appAnnotation `json:"annotations"`
}

type appAnnotation struct {
	Type    string   `json:"type"`
	Version float64  `json:"version"`
	Color   string   `json:"color"`
	Title   string   `json:"title"`
	Text    string   `json:"text"`
	Actor   appActor `json:"actor"`
}

type appActor struct {
	Name string `json:"name"`
}
