package dockerutil

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/pkg/jsonmessage"
)

// PushImage pushes the tag, streaming daemon output to w. Username and
// password may be empty to rely on the daemon's own credential store.
func (c *Client) PushImage(
	ctx context.Context,
	tag, username, password string,
	w io.Writer,
) error {
	if err := ValidateTag(tag); err != nil {
		return err
	}
	authdata, err := json.Marshal(registry.AuthConfig{
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}
	resp, err := c.inner.ImagePush(ctx, tag, types.ImagePushOptions{
		RegistryAuth: base64.URLEncoding.EncodeToString(authdata),
	})
	if err != nil {
		return err
	}
	defer resp.Close()
	return jsonmessage.DisplayJSONMessagesStream(resp, w, 0, false, nil)
}
