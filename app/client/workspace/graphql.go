package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const messageQuery = `
{
  message(id: %q) {
    id
    created
    createdBy {
      id
      extId
      email
      displayName
    }
    content
  }
}`

// Message resolves the annotated message referenced by a webhook event.
// GraphQL-level query errors mean the message is not visible to the app;
// those resolve to a nil message rather than an error.
func (c *Client) Message(ctx context.Context, messageID string) (*Message, error) {
	res, err := c.query(ctx, fmt.Sprintf(messageQuery, messageID))
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}

	if len(res.Errors) > 0 {
		return nil, nil
	}

	return res.Data.Message, nil
}

func (c *Client) query(ctx context.Context, q string) (*graphqlResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/graphql", strings.NewReader(q))
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}

	req.Header.Set("jwt", c.AccessToken())
	req.Header.Set("Content-Type", "application/graphql")

	body, status, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call GraphQL service: %w", err)
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("GraphQL service returned %d", status)
	}

	var res graphqlResponse
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to parse query result: %w", err)
	}

	return &res, nil
}
