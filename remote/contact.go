package remote

import (
	"context"
	"net/http"

	"github.com/MindSpaceMan/flora-site/models"
)

// SendContactMessage forwards a visitor message to the upstream inbox. The
// upstream may answer with an empty body, which counts as success.
func (c *Client) SendContactMessage(ctx context.Context, form models.ContactForm) error {
	return c.do(ctx, http.MethodPost, "/api/contact", nil, form, nil)
}
