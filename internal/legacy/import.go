package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Import decodes a JSON array of entries (the app's storage dump format) and
// appends them to the slot. It returns the number of entries added.
func Import(ctx context.Context, c Cache, r io.Reader) (int, error) {
	var incoming []Entry
	if err := json.NewDecoder(r).Decode(&incoming); err != nil {
		return 0, fmt.Errorf("decoding legacy dump: %w", err)
	}
	if len(incoming) == 0 {
		return 0, nil
	}

	existing, err := c.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading legacy cache: %w", err)
	}
	if err := c.Write(ctx, append(existing, incoming...)); err != nil {
		return 0, fmt.Errorf("writing legacy cache: %w", err)
	}
	return len(incoming), nil
}
