package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const annotationColor = "#6CB7FB"

// Send posts an app message to the conversation in a space.
func (c *Client) Send(ctx context.Context, spaceID, title, text, actor string) error {
	msg := appMessage{
		Type:    "appMessage",
		Version: 1.0,
		Annotations: []appAnnotation{{
			Type:    "generic",
			Version: 1.0,
			Color:   annotationColor,
			Title:   title,
			Text:    text,
			Actor: appActor{
				Name: actor,
			},
		}},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/spaces/"+spaceID+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.AccessToken())
	req.Header.Set("Content-Type", "application/json")

	_, status, err := c.do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	if status != http.StatusCreated {
		return fmt.Errorf("message send returned %d", status)
	}

	return nil
}
