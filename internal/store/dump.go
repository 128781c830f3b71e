package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/soyeahso/chatexport/internal/domain"
)

// Dump is the JSON interchange file written by source adapters. A file may
// also hold a single bare conversation object.
type Dump struct {
	Conversations []domain.Conversation `json:"conversations"`
}

// ReadDump decodes a dump from r.
func ReadDump(r io.Reader) (*Dump, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading dump: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing dump: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var d Dump
	if _, ok := probe["conversations"]; ok {
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("parsing dump: %w", err)
		}
		return &d, nil
	}

	var conv domain.Conversation
	if err := dec.Decode(&conv); err != nil {
		return nil, fmt.Errorf("parsing conversation: %w", err)
	}
	d.Conversations = []domain.Conversation{conv}
	return &d, nil
}

// Import saves every conversation of d and returns their ids in order.
func (a *Archive) Import(ctx context.Context, d *Dump) ([]string, error) {
	ids := make([]string, 0, len(d.Conversations))
	for i, conv := range d.Conversations {
		id, err := a.SaveConversation(ctx, conv)
		if err != nil {
			return ids, fmt.Errorf("importing conversation %d (%s): %w", i, conv.Name, err)
		}
		ids = append(ids, id)
	}
	a.db.log.Info().Int("conversations", len(ids)).Msg("dump imported")
	return ids, nil
}
