package pactwriter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// Write serializes p into dir, named "<consumer>-<provider>.json" per pact
// convention, and returns the path written.
//
// When overwrite is false and a pact file already exists at that path, it
// is merged with p rather than replaced: the existing consumer/provider
// must match p's (else ErrIncompatibleMerge), each of p's interactions
// replaces an existing interaction with the same [pact.Interaction.StateKey]
// or is appended if none matches, the higher of the two specification
// versions is kept, and unknown top-level metadata keys from the existing
// file survive the merge.
//
// The write itself is atomic: data lands in a temp file in the same
// directory, which is then renamed over the target.
func Write(p *pact.Pact, dir string, overwrite bool) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("pactwriter: %w", err)
	}

	path := filepath.Join(dir, filename(p.Consumer.Name, p.Provider.Name))

	out := p
	if !overwrite {
		existing, err := loadExisting(path)
		if err != nil {
			return "", fmt.Errorf("pactwriter: %w", err)
		}
		if existing != nil {
			out, err = merge(existing, p)
			if err != nil {
				return "", err
			}
		}
	}

	data, err := pact.Encode(out)
	if err != nil {
		return "", fmt.Errorf("pactwriter: encode: %w", err)
	}

	if err := atomicWrite(path, data); err != nil {
		return "", fmt.Errorf("pactwriter: %w", err)
	}
	return path, nil
}

func filename(consumer, provider string) string {
	return fmt.Sprintf("%s-%s.json", consumer, provider)
}

func loadExisting(path string) (*pact.Pact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return pact.Parse(data)
}

func merge(existing, incoming *pact.Pact) (*pact.Pact, error) {
	if existing.Consumer.Name != incoming.Consumer.Name || existing.Provider.Name != incoming.Provider.Name {
		return nil, ErrIncompatibleMerge
	}

	version := existing.SpecVersion
	if incoming.SpecVersion > version {
		version = incoming.SpecVersion
	}

	merged := &pact.Pact{
		Consumer:     existing.Consumer,
		Provider:     existing.Provider,
		SpecVersion:  version,
		Metadata:     mergeMetadata(existing.Metadata, incoming.Metadata),
		Interactions: append([]*pact.Interaction(nil), existing.Interactions...),
	}

	index := make(map[string]int, len(merged.Interactions))
	for i, in := range merged.Interactions {
		index[in.StateKey()] = i
	}

	for _, in := range incoming.Interactions {
		key := in.StateKey()
		if i, ok := index[key]; ok {
			merged.Interactions[i] = in
			continue
		}
		merged.Interactions = append(merged.Interactions, in)
		index[key] = len(merged.Interactions) - 1
	}

	return merged, nil
}

func mergeMetadata(existing, incoming map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}

// atomicWrite writes data to a uniquely-named temp file in path's directory
// and renames it over path, so a concurrent reader never observes a
// partially written file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
